package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Poper173/Kilamix/internal/api"
	"github.com/Poper173/Kilamix/internal/session"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL + "/api"})
	if err != nil {
		t.Fatalf("new api client: %v", err)
	}

	store := session.NewMemoryStore()
	gw := New(Options{
		Client:   client,
		Sessions: store,
		CacheTTL: time.Minute,
	})
	return gw, store
}

// stubSource declares name and size without touching disk, so size-limit
// cases do not need real 500 MB files.
type stubSource struct {
	name        string
	size        int64
	contentType string
	content     string
}

func (s *stubSource) Name() string        { return s.name }
func (s *stubSource) Size() int64         { return s.size }
func (s *stubSource) ContentType() string { return s.contentType }

func (s *stubSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.content)), nil
}

func loginSession(t *testing.T, store *session.MemoryStore, role string) {
	t.Helper()
	if err := store.Save(context.Background(), session.Record{Token: "test-token", Role: role}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}
