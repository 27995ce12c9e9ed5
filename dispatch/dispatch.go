// Package dispatch implements the Request Dispatcher: request-line and
// header parsing, session resolution, and routing to static files,
// registered workers, dynamic workers, or the Smart Script engine.
//
// Each connection is handled in a single pass: all reads precede all
// writes, with no pipelining of multiple requests on one connection.
package dispatch

import (
	"bufio"
	"errors"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/smscr/smscrd/httpctx"
	"github.com/smscr/smscrd/script/interp"
	"github.com/smscr/smscrd/script/lexer"
	"github.com/smscr/smscrd/script/parser"
	"github.com/smscr/smscrd/session"
	"github.com/smscr/smscrd/worker"
)

// Config holds everything the dispatcher needs to resolve and serve a
// request; these fields are initialized once at startup and treated as
// immutable thereafter.
type Config struct {
	DocumentRoot   string
	MimeMap        map[string]string // extension (no dot, lowercase) -> MIME type
	WorkerMap      map[string]string // exact request path -> worker identifier
	Workers        *worker.Registry  // identifier -> worker constructor
	Sessions       *session.Registry
	SessionTimeout time.Duration
}

// Dispatcher routes one accepted connection at a time to its handler,
// satisfying server.Handler.
type Dispatcher struct {
	cfg Config
}

// New constructs a Dispatcher from cfg.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// HandleConnection implements server.Handler: read the request, dispatch
// it, write the response, close the connection. No pipelining: all reads
// precede all writes.
func (d *Dispatcher) HandleConnection(conn net.Conn) {
	defer conn.Close()

	if d.cfg.SessionTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(d.cfg.SessionTimeout))
	}

	reader := bufio.NewReader(conn)
	rl, err := readRequestLine(reader)
	if err != nil {
		if isReadTimeout(err) {
			return
		}
		writeHTTPErr(conn, err)
		return
	}

	headers, err := readHeaders(reader)
	if err != nil {
		if isReadTimeout(err) {
			return
		}
		writeHTTPErr(conn, err)
		return
	}

	path, rawQuery, err := splitPathQuery(rl.target)
	if err != nil {
		writeHTTPErr(conn, err)
		return
	}
	query := parseQuery(rawQuery)

	sid, store, minted := d.cfg.Sessions.Resolve(extractCookie(headers["cookie"], "sid"))

	params := make(map[string]string, len(query))
	for k, v := range query {
		if v != nil {
			params[k] = *v
		} else {
			params[k] = ""
		}
	}

	ctx := httpctx.New(conn, rl.version, params, store)
	if minted {
		ctx.AddCookie(httpctx.Cookie{
			Name:      "sid",
			Value:     sid,
			Domain:    hostWithoutPort(headers["host"]),
			Path:      "/",
			MaxAge:    int(d.cfg.SessionTimeout / time.Second),
			HasMaxAge: true,
			HTTPOnly:  true,
		})
	}

	if path == "/" {
		writeIndexRedirect(ctx)
		return
	}

	if identifier, ok := d.cfg.WorkerMap[path]; ok {
		d.runWorker(ctx, identifier, conn)
		return
	}

	if rest := strings.TrimPrefix(path, "/ext/"); rest != path {
		d.runWorker(ctx, rest, conn)
		return
	}

	if err := d.serveStatic(ctx, path, conn); err != nil {
		if he, ok := err.(*httpError); ok {
			writeHTTPErr(conn, he)
			return
		}
		log.Printf("dispatch: serving %q: %v", path, err)
	}
}

func (d *Dispatcher) runWorker(ctx *httpctx.Context, identifier string, conn net.Conn) {
	w, err := d.cfg.Workers.Resolve(identifier)
	if err != nil {
		writeHTTPErr(conn, newHTTPError(404, "Not Found"))
		return
	}
	if err := w.Process(ctx); err != nil {
		log.Printf("dispatch: worker %q: %v", identifier, err)
	}
}

func (d *Dispatcher) serveStatic(ctx *httpctx.Context, requestPath string, conn net.Conn) error {
	fsPath, err := resolveStaticPath(d.cfg.DocumentRoot, requestPath)
	if err != nil {
		return err
	}

	info, err := statRegularReadableFile(fsPath)
	if err != nil {
		return err
	}

	if strings.HasSuffix(strings.ToLower(fsPath), ".smscr") {
		return d.runScript(ctx, fsPath)
	}

	f, err := os.Open(fsPath)
	if err != nil {
		return newHTTPError(404, "Not Found")
	}
	defer f.Close()

	ctx.SetMimeType(mimeTypeForPath(d.cfg.MimeMap, fsPath))
	ctx.SetContentLength(int(info.Size()))
	if _, err := ctx.Write(nil); err != nil {
		return err
	}
	return streamFile(conn, f)
}

func (d *Dispatcher) runScript(ctx *httpctx.Context, fsPath string) error {
	src, err := os.ReadFile(fsPath)
	if err != nil {
		return newHTTPError(404, "Not Found")
	}

	doc, err := parser.Parse(lexer.New(string(src)))
	if err != nil {
		return err
	}

	in := interp.New(ctx)
	return in.Run(doc)
}

func writeIndexRedirect(ctx *httpctx.Context) {
	body := `<html><head><meta http-equiv="refresh" content="0; url=index.html"></head><body></body></html>`
	ctx.WriteString(body)
}

func writeHTTPErr(conn net.Conn, err error) {
	if he, ok := err.(*httpError); ok {
		writeErrorResponse(conn, he.code, he.text)
		return
	}
	writeErrorResponse(conn, 400, "Bad Request")
}

// isReadTimeout reports whether err is a socket read timeout. A timed-out
// connection is closed without writing any response.
func isReadTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
