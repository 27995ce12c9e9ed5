// Package charset transcodes Response Context output into the negotiated
// charset using golang.org/x/text's encoding/transform subpackages.
package charset

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned when name does not name a known encoding.
var ErrUnknownEncoding = errors.New("charset: unknown encoding name")

// Writer wraps w so that strings written to it are transcoded from UTF-8
// into the named encoding. UTF-8 (the Response Context default) is a no-op
// passthrough to avoid transform overhead on the common path.
func Writer(w io.Writer, name string) (io.Writer, error) {
	if strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8") {
		return w, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q: %s", name, err)
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}
