package httpctx

import (
	"fmt"
	"strings"
)

// Cookie is a single outgoing Set-Cookie entry. Domain and Path are
// omitted when empty; Max-Age is emitted only when HasMaxAge is set.
type Cookie struct {
	Name      string
	Value     string
	Domain    string
	Path      string
	MaxAge    int
	HasMaxAge bool
	HTTPOnly  bool
}

// headerLine renders the cookie as a Set-Cookie header value.
func (c Cookie) headerLine() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s=%s", c.Name, c.Value)
	if c.Domain != "" {
		fmt.Fprintf(&sb, "; Domain=%s", c.Domain)
	}
	if c.Path != "" {
		fmt.Fprintf(&sb, "; Path=%s", c.Path)
	}
	if c.HasMaxAge {
		fmt.Fprintf(&sb, "; Max-Age=%d", c.MaxAge)
	}
	if c.HTTPOnly {
		sb.WriteString("; HttpOnly")
	}
	return sb.String()
}
