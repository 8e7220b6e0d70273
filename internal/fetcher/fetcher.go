// Package fetcher retrieves upstream law pages and decodes their legacy
// text encoding into UTF-8.
package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// Encoding is the legacy single-byte encoding label the upstream serves,
	// e.g. "windows-1252". The transport never decodes text; bytes are
	// converted here.
	Encoding  string
	Transport http.RoundTripper
}

// StatusError reports a non-success upstream status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Code)
}

// Retryable reports whether the status indicates a transient server failure.
func (e *StatusError) Retryable() bool {
	return e.Code >= http.StatusInternalServerError
}

// Fetcher implements law.Fetcher using the Colly collector. DetectCharset
// stays off so the response body arrives as raw bytes; decoding uses the
// configured legacy encoding regardless of what the server claims.
type Fetcher struct {
	cfg           Config
	enc           encoding.Encoding
	baseCollector *colly.Collector
}

// New builds a Fetcher. It fails if the encoding label is unknown.
func New(cfg Config) (*Fetcher, error) {
	enc, _ := charset.Lookup(cfg.Encoding)
	if enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", cfg.Encoding)
	}
	// AllowURLRevisit is required: the same catalog URLs are fetched on
	// every cycle and on every retry, and the collector's visited store
	// is shared across Clone.
	c := colly.NewCollector(
		colly.Async(false),
		colly.IgnoreRobotsTxt(),
		colly.AllowURLRevisit(),
	)
	return &Fetcher{
		cfg:           cfg,
		enc:           enc,
		baseCollector: c,
	}, nil
}

// Fetch executes a single HTTP GET and returns the decoded page text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var (
		body     []byte
		fetchErr error
	)
	collector := f.buildCollector(&body, &fetchErr)

	if err := f.runCollector(ctx, collector, url, &fetchErr); err != nil {
		return "", err
	}

	decoded, err := f.enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode %s body: %w", f.cfg.Encoding, err)
	}
	return string(decoded), nil
}

func (f *Fetcher) buildCollector(body *[]byte, fetchErr *error) *colly.Collector {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	transport := f.cfg.Transport
	if transport == nil {
		transport = newHTTPTransport()
	}
	collector.WithTransport(transport)

	collector.OnResponse(func(r *colly.Response) {
		*body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			*fetchErr = &StatusError{Code: r.StatusCode}
			return
		}
		*fetchErr = err
	})
	return collector
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("fetch %s: %w", url, *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
