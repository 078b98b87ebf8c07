package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"resty.dev/v3"
)

var ErrDaemonNotRunning = errors.New("daemon is not running")

func newClient(path string) *resty.Client {
	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", path)
			},
		},
	})

	client.SetBaseURL("http://layerpaper")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "layerpaper")
	client.SetTimeout(30 * time.Second)

	return client
}

// send posts req to the daemon at path. A response with success=false is
// returned together with an error carrying its message.
func send(path string, req Request) (*Response, error) {
	client := newClient(path)

	result := Response{}
	response, err := client.R().SetBody(req).SetResult(&result).SetError(&result).Post("/" + string(req.Op))
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return nil, ErrDaemonNotRunning
		}
		return nil, err
	}

	if response.StatusCode() != http.StatusOK && result.Error == "" {
		return nil, fmt.Errorf("error sending %s request: %s", req.Op, response.Status())
	}
	if !result.Success {
		return &result, fmt.Errorf("%s: %s", req.Op, result.Error)
	}

	return &result, nil
}

func SendPing() error {
	_, err := send(SocketPath(), Request{Op: OpPing})
	return err
}

func SendLoad(path string) (*Response, error) {
	return send(SocketPath(), Request{Op: OpLoad, Path: path})
}

func SendCurrent() (*Response, error) {
	return send(SocketPath(), Request{Op: OpCurrent})
}

func SendList() (*Response, error) {
	return send(SocketPath(), Request{Op: OpList})
}

func SendInstall(path, name string) (*Response, error) {
	return send(SocketPath(), Request{Op: OpInstall, Path: path, Name: name})
}

func SendSet(name, monitor string) (*Response, error) {
	return send(SocketPath(), Request{Op: OpSet, Name: name, Monitor: monitor})
}

func SendStatus() (*Response, error) {
	return send(SocketPath(), Request{Op: OpStatus})
}

func SendShutdown() error {
	_, err := send(SocketPath(), Request{Op: OpShutdown})
	return err
}
