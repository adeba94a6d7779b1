package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 SentinelEngine/1.0"

// Fetcher gates every outbound HTTP call across all sources through one
// process-global permit set so a burst of parallel scrapes cannot draw
// IP throttling. Each fetch carries its own deadline; redirects are
// followed by the default client policy.
type Fetcher struct {
	client  *http.Client
	permits *semaphore.Weighted
	timeout time.Duration
}

// NewFetcher creates a fetcher with maxConnections global permits and a
// per-request deadline.
func NewFetcher(maxConnections int64, timeout time.Duration) *Fetcher {
	if maxConnections <= 0 {
		maxConnections = 10
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        int(maxConnections) * 2,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		permits: semaphore.NewWeighted(maxConnections),
		timeout: timeout,
	}
}

// Get fetches a page body. Non-2xx responses are errors; callers decide
// whether a failed fetch aborts the source or just skips the page.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if err := f.permits.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.permits.Release(1)

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	// Cap body size to keep a hostile page from exhausting memory.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, err
	}
	return body, nil
}
