// Package worker defines the Worker contract external request handlers
// implement, plus the exact-path and dynamic (/ext/<id>) registries the
// dispatcher consults when routing a request.
package worker

import (
	"github.com/pkg/errors"

	"github.com/smscr/smscrd/httpctx"
)

// ErrUnknownWorker is returned when a dynamic worker identifier has no
// registered constructor.
var ErrUnknownWorker = errors.New("worker: unknown identifier")

// Worker is the contract external request handlers implement. A Worker
// must not mutate the Response Context's header-affecting fields after its
// first write; it may consume request parameters and mutate persistent or
// temporary parameters.
type Worker interface {
	Process(ctx *httpctx.Context) error
}

// Registry resolves worker identifiers to constructors.
type Registry struct {
	byID map[string]func() Worker
}

// NewRegistry constructs an empty dynamic worker registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]func() Worker)}
}

// Register associates identifier with a constructor for a fresh Worker
// instance per request.
func (r *Registry) Register(identifier string, ctor func() Worker) {
	r.byID[identifier] = ctor
}

// Resolve constructs a Worker for identifier, or ErrUnknownWorker.
func (r *Registry) Resolve(identifier string) (Worker, error) {
	ctor, ok := r.byID[identifier]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownWorker, "%q", identifier)
	}
	return ctor(), nil
}
