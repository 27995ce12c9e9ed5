package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMimeMapParsesExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mime.conf")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nhtml=text/html\n.css=text/css\n\npng=image/png\n"), 0644))

	m, err := LoadMimeMap(path)
	require.NoError(t, err)
	assert.Equal(t, "text/html", m["html"])
	assert.Equal(t, "text/css", m["css"])
	assert.Equal(t, "image/png", m["png"])
	assert.Len(t, m, 3)
}

func TestDefaultMimeMapCoversCommonExtensions(t *testing.T) {
	m := DefaultMimeMap()
	assert.Equal(t, "text/html", m["html"])
	assert.Equal(t, "text/html", m["smscr"])
	assert.Equal(t, "image/png", m["png"])
}

func TestLoadWorkerMapRejectsMissingSeparator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workers.conf")
	require.NoError(t, os.WriteFile(path, []byte("/guess numberguess\n"), 0644))

	_, err := LoadWorkerMap(path)
	assert.Error(t, err)
}
