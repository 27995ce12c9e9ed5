package dispatch

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"
)

// httpError carries a status code and text for direct, non-Response-Context
// error replies — these bypass the Response Context entirely.
type httpError struct {
	code int
	text string
}

func (e *httpError) Error() string { return e.text }

func newHTTPError(code int, text string) *httpError { return &httpError{code: code, text: text} }

// requestLine holds the parsed first line of an HTTP/1.x request.
type requestLine struct {
	method  string
	target  string
	version string
}

// readRequestLine reads the first line of the request. A read failure is
// propagated as-is so the caller can tell a socket timeout apart from a
// malformed request.
func readRequestLine(r *bufio.Reader) (requestLine, error) {
	line, err := readCRLFLine(r)
	if err != nil {
		return requestLine{}, err
	}
	if line == "" {
		return requestLine{}, newHTTPError(400, "Bad Request")
	}

	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return requestLine{}, newHTTPError(400, "Bad Request")
	}

	rl := requestLine{method: parts[0], target: parts[1], version: parts[2]}
	if rl.method != "GET" {
		return requestLine{}, newHTTPError(405, "Method Not Allowed")
	}
	if rl.version != "HTTP/1.0" && rl.version != "HTTP/1.1" {
		return requestLine{}, newHTTPError(505, "HTTP Version Not Supported")
	}
	return rl, nil
}

// readHeaders reads Key: Value lines until a blank line, lower-casing keys.
// Repeated headers keep only the last occurrence, matching the query-string
// duplicate-key rule.
func readHeaders(r *bufio.Reader) (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := readCRLFLine(r)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return headers, nil
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, newHTTPError(400, "Bad Request")
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		headers[key] = value
	}
}

func readCRLFLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "ReadString")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// splitPathQuery splits target on the first '?'. More than one '?' is a
// client error.
func splitPathQuery(target string) (path, query string, err error) {
	parts := strings.SplitN(target, "?", 2)
	if len(parts) == 2 {
		if strings.Contains(parts[1], "?") {
			return "", "", newHTTPError(400, "Bad Request")
		}
		return parts[0], parts[1], nil
	}
	return parts[0], "", nil
}

// parseQuery parses "k=v&k=v" into a map; a key without '=' maps to a nil
// value (the null-sentinel). Duplicates keep the last occurrence.
func parseQuery(raw string) map[string]*string {
	out := make(map[string]*string)
	if raw == "" {
		return out
	}
	for _, piece := range strings.Split(raw, "&") {
		if piece == "" {
			continue
		}
		if idx := strings.Index(piece, "="); idx >= 0 {
			key := piece[:idx]
			value := piece[idx+1:]
			out[key] = &value
		} else {
			out[piece] = nil
		}
	}
	return out
}

// extractCookie returns the value of the cookie named name from a raw
// Cookie header, stripping surrounding quotes, or "" if absent.
func extractCookie(cookieHeader, name string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		idx := strings.Index(part, "=")
		if idx < 0 {
			continue
		}
		if part[:idx] != name {
			continue
		}
		return strings.Trim(part[idx+1:], `"`)
	}
	return ""
}

// hostWithoutPort extracts the host portion of a Host header, stripping any
// trailing ":port".
func hostWithoutPort(host string) string {
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		return host[:idx]
	}
	return host
}
