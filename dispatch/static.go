package dispatch

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

const staticChunkSize = 4096 // streamed in chunks of at least 1 KiB

// resolveStaticPath joins documentRoot with the request path and verifies
// the result stays under documentRoot, rejecting traversal attempts.
//
// The ".." segment check must run against the raw, unnormalized request
// path: filepath.Clean("/"+requestPath) eliminates leading ".." elements
// from a rooted path before it is ever joined to documentRoot, so a
// containment check performed only on the cleaned/joined result never
// observes the traversal it was meant to catch.
func resolveStaticPath(documentRoot, requestPath string) (string, error) {
	for _, seg := range strings.Split(requestPath, "/") {
		if seg == ".." {
			return "", newHTTPError(403, "Forbidden")
		}
	}

	cleaned := filepath.Clean("/" + requestPath)
	candidate := filepath.Join(documentRoot, cleaned)

	rootAbs, err := filepath.Abs(documentRoot)
	if err != nil {
		return "", err
	}
	candidateAbs, err := filepath.Abs(candidate)
	if err != nil {
		return "", err
	}

	if candidateAbs != rootAbs && !strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator)) {
		return "", newHTTPError(403, "Forbidden")
	}
	return candidateAbs, nil
}

// statRegularReadableFile stats path and fails with 404 unless it is a
// regular file.
func statRegularReadableFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newHTTPError(404, "Not Found")
	}
	if !info.Mode().IsRegular() {
		return nil, newHTTPError(404, "Not Found")
	}
	return info, nil
}

// mimeTypeForPath looks up the MIME type for path's extension, defaulting
// to application/octet-stream.
func mimeTypeForPath(mimeMap map[string]string, path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if mime, ok := mimeMap[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// streamFile copies f to w in chunks of at least 1 KiB.
func streamFile(w io.Writer, f *os.File) error {
	buf := make([]byte, staticChunkSize)
	_, err := io.CopyBuffer(w, f, buf)
	return err
}
