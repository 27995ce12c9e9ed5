// Package httpctx implements the Response Context: deferred header
// generation, cookie serialization, parameter maps, and encoding
// negotiation for a single request/response cycle.
//
// The "header generated" flag is a one-shot lock: once the first byte is
// written, status/MIME/encoding/cookies can no longer change.
package httpctx

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/smscr/smscrd/charset"
)

// ErrLocked is returned by any mutator called after the header has
// already been generated.
var ErrLocked = errors.New("httpctx: context locked after header generation")

// PersistentStore is the session-scoped, concurrency-safe key/value store
// backing persistent parameters. session.Entry satisfies this interface.
type PersistentStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Context is the Response Context passed to workers and the script
// interpreter. One Context is owned by exactly one request-handling worker.
type Context struct {
	out io.Writer

	version    string
	statusCode int
	statusText string
	mimeType   string
	encoding   string

	contentLength    int
	hasContentLength bool

	params     map[string]string // request-scoped, immutable
	persistent PersistentStore   // session-scoped, mutable
	temporary  map[string]string // request-scoped, mutable

	cookies []Cookie

	headerGenerated bool
}

// New constructs a Response Context writing to out, for a request carrying
// version (e.g. "HTTP/1.1") and the given immutable request parameters,
// backed by the session's persistent parameter store.
func New(out io.Writer, version string, params map[string]string, persistent PersistentStore) *Context {
	if params == nil {
		params = map[string]string{}
	}
	return &Context{
		out:        out,
		version:    version,
		statusCode: 200,
		statusText: "OK",
		mimeType:   "text/html",
		encoding:   "UTF-8",
		params:     params,
		persistent: persistent,
		temporary:  map[string]string{},
	}
}

func (c *Context) checkUnlocked() error {
	if c.headerGenerated {
		return ErrLocked
	}
	return nil
}

// SetEncoding sets the response charset. Fails if headers were already
// generated, or if name does not name a known encoding.
func (c *Context) SetEncoding(name string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	if _, err := charset.Writer(io.Discard, name); err != nil {
		return errors.Wrapf(err, "SetEncoding(%q)", name)
	}
	c.encoding = name
	return nil
}

// SetStatusCode sets the HTTP status code. Fails if headers were already generated.
func (c *Context) SetStatusCode(code int) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.statusCode = code
	return nil
}

// SetStatusText sets the HTTP status text. Fails if headers were already generated.
func (c *Context) SetStatusText(text string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.statusText = text
	return nil
}

// SetMimeType sets the response MIME type. Fails if headers were already generated.
func (c *Context) SetMimeType(mime string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.mimeType = mime
	return nil
}

// AddCookie appends an outgoing cookie. Fails if headers were already generated.
func (c *Context) AddCookie(ck Cookie) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.cookies = append(c.cookies, ck)
	return nil
}

// SetContentLength records the Content-Length to emit, if called before the
// first write. Fails if headers were already generated.
func (c *Context) SetContentLength(n int) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.contentLength = n
	c.hasContentLength = true
	return nil
}

// SetPersistentParameter sets a session-scoped parameter. Fails if headers
// were already generated.
func (c *Context) SetPersistentParameter(name, value string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.persistent.Set(name, value)
	return nil
}

// RemovePersistentParameter removes a session-scoped parameter. Fails if
// headers were already generated.
func (c *Context) RemovePersistentParameter(name string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.persistent.Delete(name)
	return nil
}

// SetTemporaryParameter sets a request-scoped parameter. Fails if headers
// were already generated.
func (c *Context) SetTemporaryParameter(name, value string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	c.temporary[name] = value
	return nil
}

// RemoveTemporaryParameter removes a request-scoped parameter. Fails if
// headers were already generated.
func (c *Context) RemoveTemporaryParameter(name string) error {
	if err := c.checkUnlocked(); err != nil {
		return err
	}
	delete(c.temporary, name)
	return nil
}

// GetParameter returns a request (query string) parameter.
func (c *Context) GetParameter(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

// GetParameterNames returns the names of all request parameters.
func (c *Context) GetParameterNames() []string {
	names := make([]string, 0, len(c.params))
	for k := range c.params {
		names = append(names, k)
	}
	return names
}

// GetPersistentParameter returns a session-scoped parameter.
func (c *Context) GetPersistentParameter(name string) (string, bool) {
	return c.persistent.Get(name)
}

// GetTemporaryParameter returns a request-scoped parameter.
func (c *Context) GetTemporaryParameter(name string) (string, bool) {
	v, ok := c.temporary[name]
	return v, ok
}

// MimeType returns the currently configured MIME type.
func (c *Context) MimeType() string { return c.mimeType }

// Write writes raw bytes to the response, generating headers on first call.
func (c *Context) Write(p []byte) (int, error) {
	if err := c.ensureHeader(); err != nil {
		return 0, err
	}
	return c.out.Write(p)
}

// WriteString writes a string to the response, encoding it per the
// negotiated charset, generating headers on first call.
func (c *Context) WriteString(s string) (int, error) {
	if err := c.ensureHeader(); err != nil {
		return 0, err
	}
	w, err := charset.Writer(c.out, c.encoding)
	if err != nil {
		return 0, errors.Wrapf(err, "charset.Writer(%q)", c.encoding)
	}
	return io.WriteString(w, s)
}

// ensureHeader emits the status line, headers, and cookies exactly once.
func (c *Context) ensureHeader() error {
	if c.headerGenerated {
		return nil
	}
	c.headerGenerated = true

	if _, err := fmt.Fprintf(c.out, "%s %d %s\r\n", c.version, c.statusCode, c.statusText); err != nil {
		return err
	}

	contentType := c.mimeType
	if len(contentType) >= 5 && contentType[:5] == "text/" {
		contentType = fmt.Sprintf("%s; charset=%s", contentType, c.encoding)
	}
	if _, err := fmt.Fprintf(c.out, "Content-Type: %s\r\n", contentType); err != nil {
		return err
	}

	if c.hasContentLength {
		if _, err := fmt.Fprintf(c.out, "Content-Length: %d\r\n", c.contentLength); err != nil {
			return err
		}
	}

	for _, ck := range c.cookies {
		if _, err := fmt.Fprintf(c.out, "Set-Cookie: %s\r\n", ck.headerLine()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(c.out, "\r\n")
	return err
}
