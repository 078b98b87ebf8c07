package ipc

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// requestHandler decodes the body into a request for op, checks the
// required fields and waits for the event loop to serve it. Failures of
// the operation itself are still answered with 200 and success=false.
func requestHandler(s Submitter, op Op, required ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req Request
		if c.Request().ContentLength != 0 {
			if err := c.Bind(&req); err != nil {
				return c.JSON(http.StatusBadRequest, failure(fmt.Errorf("invalid request body: %w", err)))
			}
		}
		req.Op = op

		for _, field := range required {
			if fieldValue(req, field) == "" {
				return c.JSON(http.StatusBadRequest, failure(fmt.Errorf("%w: %s", errMissingParameter, field)))
			}
		}

		resp, err := s.Submit(c.Request().Context(), req)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, failure(err))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func fieldValue(req Request, field string) string {
	switch field {
	case "path":
		return req.Path
	case "name":
		return req.Name
	case "monitor":
		return req.Monitor
	}
	return ""
}
