package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

func TestNewRejectsUnknownEncoding(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Encoding: "no-such-encoding"})
	require.Error(t, err)
}

func TestFetchDecodesLegacyEncoding(t *testing.T) {
	t.Parallel()

	page := "<html><body><p>Vigência da aplicação</p></body></html>"
	encoded, err := charmap.Windows1252.NewEncoder().String(page)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(encoded))
	}))
	defer srv.Close()

	f, err := New(Config{Encoding: "windows-1252", Timeout: 5 * time.Second})
	require.NoError(t, err)

	got, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, got, "Vigência da aplicação")
}

func TestFetchSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f, err := New(Config{
		Encoding:  "windows-1252",
		UserAgent: "Mozilla/5.0 (compatible; leiscache)",
	})
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Mozilla/5.0 (compatible; leiscache)", gotUA)
}

func TestFetchServerErrorIsRetryableStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, err := New(Config{Encoding: "windows-1252"})
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.Code)
	require.True(t, statusErr.Retryable())
}

func TestFetchNotFoundIsNotRetryable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f, err := New(Config{Encoding: "windows-1252"})
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.False(t, statusErr.Retryable())
}

func TestFetchSameURLRepeatedly(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html><body><p>texto vigente</p></body></html>"))
	}))
	defer srv.Close()

	f, err := New(Config{Encoding: "windows-1252"})
	require.NoError(t, err)

	// Every refresh cycle revisits the same catalog URLs through the same
	// Fetcher; the second fetch must not be rejected as already visited.
	first, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestRetryRecoversThroughRealFetcher(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("<html><body><p>texto vigente</p></body></html>"))
	}))
	defer srv.Close()

	f, err := New(Config{Encoding: "windows-1252"})
	require.NoError(t, err)

	r := NewRetry(f, 3, LinearBackoff(time.Millisecond), zap.NewNop())
	r.sleep = func(context.Context, time.Duration) error { return nil }

	got, err := r.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, got, "texto vigente")
	require.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetchConnectionRefused(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Encoding: "windows-1252", Timeout: 2 * time.Second})
	require.NoError(t, err)

	// Port 1 is essentially guaranteed to refuse connections.
	_, err = f.Fetch(context.Background(), "http://127.0.0.1:1/lei.htm")
	require.Error(t, err)
}
