// Package applog configures the process-wide standard logger: fixed flags,
// optional redirection to a file, discarded otherwise. log.Logger
// serializes writes internally, so every package in this module can call
// log.Printf directly without its own synchronization.
package applog

import (
	"io"
	"log"
	"os"
)

// Init sets the standard logger's flags and, if path is non-empty, directs
// output to that file instead of discarding it. It returns a closer to call
// during shutdown (a no-op when path is empty).
func Init(path string) (close func(), err error) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}
