package workers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smscr/smscrd/httpctx"
)

type memStore struct{ m map[string]string }

func newMemStore() *memStore { return &memStore{m: map[string]string{}} }

func (s *memStore) Get(key string) (string, bool) { v, ok := s.m[key]; return v, ok }
func (s *memStore) Set(key, value string)         { s.m[key] = value }
func (s *memStore) Delete(key string)             { delete(s.m, key) }

func TestEchoWritesMsgParameter(t *testing.T) {
	var buf bytes.Buffer
	ctx := httpctx.New(&buf, "HTTP/1.1", map[string]string{"msg": "hi"}, newMemStore())

	require.NoError(t, NewEcho().Process(ctx))
	assert.Contains(t, buf.String(), "hi")
}

func TestEchoDefaultsWithoutMsgParameter(t *testing.T) {
	var buf bytes.Buffer
	ctx := httpctx.New(&buf, "HTTP/1.1", nil, newMemStore())

	require.NoError(t, NewEcho().Process(ctx))
	assert.Contains(t, buf.String(), "hello from smscrd")
}
