package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brlaws/leiscache/internal/law"
	"github.com/brlaws/leiscache/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New(nil)
	return NewServer(store, zap.NewNop()), store
}

func TestGetLawReturnsStoredContent(t *testing.T) {
	t.Parallel()

	server, store := newTestServer(t)
	content := "<html><body><p>Art. 1º</p></body></html>"
	require.NoError(t, store.Upsert(context.Background(), "codigo-civil", content))

	req := httptest.NewRequest(http.MethodGet, "/laws/codigo-civil", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, content, rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.NotEmpty(t, rec.Header().Get("Last-Modified"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetLawUnknownTypeReturns404(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/laws/lei-inexistente", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error": "Lei não encontrada"}`, rec.Body.String())
}

func TestListLawsReturnsCatalogSummary(t *testing.T) {
	t.Parallel()

	server, store := newTestServer(t)
	require.NoError(t, store.Upsert(context.Background(), "clt", "texto"))
	require.NoError(t, store.Upsert(context.Background(), "codigo-penal", "texto"))

	req := httptest.NewRequest(http.MethodGet, "/laws/", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "clt")
	require.Contains(t, rec.Body.String(), "codigo-penal")
	// Content bodies are not repeated in the listing.
	require.NotContains(t, rec.Body.String(), "texto")
}

func TestListLawsEmptyStore(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/laws/", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"laws": []}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

type failingStore struct {
	law.Store
}

func (failingStore) Ping(context.Context) error {
	return context.DeadlineExceeded
}

func TestReadyzReportsStoreFailure(t *testing.T) {
	t.Parallel()

	server := NewServer(failingStore{Store: memory.New(nil)}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
