package ipc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// Call is a request waiting to be served by the event loop.
type Call struct {
	Request Request
	reply   chan Response
}

// Reply answers the call. It never blocks.
func (c Call) Reply(resp Response) {
	c.reply <- resp
}

// Queue carries requests from the control server goroutines into the
// event loop. Every queued call bumps an eventfd counter so the loop can
// poll for it next to the display connection.
type Queue struct {
	calls chan Call
	fd    int
}

func NewQueue(size int) (*Queue, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC|unix.EFD_SEMAPHORE)
	if err != nil {
		return nil, fmt.Errorf("creating eventfd: %w", err)
	}
	return &Queue{
		calls: make(chan Call, size),
		fd:    fd,
	}, nil
}

// Fd becomes readable while calls are pending.
func (q *Queue) Fd() int {
	return q.fd
}

func (q *Queue) Submit(ctx context.Context, req Request) (Response, error) {
	call := Call{Request: req, reply: make(chan Response, 1)}

	select {
	case q.calls <- call:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	// Without the wakeup the call is still taken on the loop's next pass.
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	if _, err := unix.Write(q.fd, buf[:]); err != nil {
		log.Warnf("waking event loop: %v", err)
	}

	select {
	case resp := <-call.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Next consumes one wakeup, if any, and takes one pending call without
// blocking. Calls are taken whether or not their wakeup arrived.
func (q *Queue) Next() (Call, bool) {
	var buf [8]byte
	if _, err := unix.Read(q.fd, buf[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
		log.Warnf("reading control eventfd: %v", err)
	}

	select {
	case call := <-q.calls:
		return call, true
	default:
		return Call{}, false
	}
}

// Pending reports whether calls are waiting, wakeup or not.
func (q *Queue) Pending() bool {
	return len(q.calls) > 0
}

func (q *Queue) Close() error {
	return unix.Close(q.fd)
}
