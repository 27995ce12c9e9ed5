// Package instance provides a single-instance advisory lock so two smscrd
// processes never bind the same listen address at once.
package instance

import (
	"io/fs"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// AcquireLock takes an exclusive, non-blocking advisory lock on the file at
// path (creating it if necessary) and returns a function that releases it.
func AcquireLock(path string) (release func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "os.Create %q", path)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, &fs.PathError{Op: "lock", Path: f.Name(), Err: err}
	}

	cleanup := func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}
	return cleanup, nil
}
