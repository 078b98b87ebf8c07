package ipc

import "context"

type Op string

const (
	OpPing     Op = "ping"
	OpLoad     Op = "load"
	OpCurrent  Op = "current"
	OpList     Op = "list"
	OpInstall  Op = "install"
	OpSet      Op = "set"
	OpStatus   Op = "status"
	OpShutdown Op = "shutdown"

	// OpReload is issued by the manifest watcher, not by clients.
	OpReload Op = "reload"
)

type Request struct {
	Op      Op     `json:"op"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"name,omitempty"`
	Monitor string `json:"monitor,omitempty"`
}

type WallpaperInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type DisplayInfo struct {
	Name      string `json:"name"`
	Wallpaper string `json:"wallpaper"`
	Width     uint32 `json:"width"`
	Height    uint32 `json:"height"`
}

type Response struct {
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Wallpaper  *WallpaperInfo `json:"wallpaper,omitempty"`
	Wallpapers []string       `json:"wallpapers,omitempty"`
	Displays   []DisplayInfo  `json:"displays,omitempty"`
	Version    string         `json:"version,omitempty"`
	PID        int            `json:"pid,omitempty"`
}

func failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// Submitter hands a request to whatever owns the display state and waits
// for its reply.
type Submitter interface {
	Submit(ctx context.Context, req Request) (Response, error)
}
