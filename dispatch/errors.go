package dispatch

import (
	"fmt"
	"io"
)

// writeErrorResponse emits a self-contained HTML error body directly to the
// socket, bypassing the Response Context.
func writeErrorResponse(w io.Writer, code int, text string) {
	body := fmt.Sprintf("<html><body><h1>%d %s</h1></body></html>", code, text)
	fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", code, text)
	fmt.Fprintf(w, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(w, "Content-Length: %d\r\n", len(body))
	fmt.Fprint(w, "\r\n")
	io.WriteString(w, body)
}
