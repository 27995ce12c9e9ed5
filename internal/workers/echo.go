// Package workers holds small demo request handlers that exercise the
// worker contract end-to-end.
package workers

import (
	"github.com/smscr/smscrd/httpctx"
)

// Echo writes back the "msg" request parameter, or a default greeting.
type Echo struct{}

// NewEcho constructs an Echo worker.
func NewEcho() *Echo { return &Echo{} }

// Process implements worker.Worker.
func (e *Echo) Process(ctx *httpctx.Context) error {
	msg, ok := ctx.GetParameter("msg")
	if !ok {
		msg = "hello from smscrd"
	}
	ctx.SetMimeType("text/plain")
	_, err := ctx.WriteString(msg)
	return err
}
