package instance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLockSucceedsOnFreshPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smscrd.lock")
	release, err := AcquireLock(path)
	require.NoError(t, err)
	require.NotNil(t, release)
	release()
}

func TestAcquireLockFailsWhenAlreadyHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smscrd.lock")
	release, err := AcquireLock(path)
	require.NoError(t, err)
	defer release()

	_, err = AcquireLock(path)
	assert.Error(t, err)
}

func TestAcquireLockReusableAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smscrd.lock")
	release1, err := AcquireLock(path)
	require.NoError(t, err)
	release1()

	release2, err := AcquireLock(path)
	require.NoError(t, err)
	release2()
}
