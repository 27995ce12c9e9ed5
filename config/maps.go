package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadMimeMap parses a line-oriented "extension=mime/type" file into a
// lookup keyed by extension without its leading dot. Blank lines and lines
// starting with "#" are ignored.
func LoadMimeMap(path string) (map[string]string, error) {
	return loadLineMap(path, "=")
}

// DefaultMimeMap seeds the common extensions a document root serves even
// when no server.mimeConfig file is configured. Lookups that miss this map
// (and any configured override) fall back to application/octet-stream at
// the dispatcher.
func DefaultMimeMap() map[string]string {
	return map[string]string{
		"html":  "text/html",
		"htm":   "text/html",
		"css":   "text/css",
		"js":    "application/javascript",
		"json":  "application/json",
		"txt":   "text/plain",
		"png":   "image/png",
		"jpg":   "image/jpeg",
		"jpeg":  "image/jpeg",
		"gif":   "image/gif",
		"svg":   "image/svg+xml",
		"smscr": "text/html",
	}
}

// LoadWorkerMap parses a line-oriented "path=identifier" file mapping
// exact request paths to registered worker identifiers.
func LoadWorkerMap(path string) (map[string]string, error) {
	return loadLineMap(path, "=")
}

func loadLineMap(path, sep string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, sep)
		if idx < 0 {
			return nil, errors.Errorf("%s:%d: missing %q separator", path, lineNo, sep)
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+len(sep):])
		if key == "" || value == "" {
			return nil, errors.Errorf("%s:%d: empty key or value", path, lineNo)
		}
		out[strings.TrimPrefix(key, ".")] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scanning %q", path)
	}
	return out, nil
}
