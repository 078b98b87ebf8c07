package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, s Submitter) {
	e.POST("/ping", requestHandler(s, OpPing))
	e.POST("/load", requestHandler(s, OpLoad, "path"))
	e.POST("/current", requestHandler(s, OpCurrent))
	e.POST("/list", requestHandler(s, OpList))
	e.POST("/install", requestHandler(s, OpInstall, "path"))
	e.POST("/set", requestHandler(s, OpSet, "name"))
	e.POST("/status", requestHandler(s, OpStatus))
	e.POST("/shutdown", requestHandler(s, OpShutdown))
}
