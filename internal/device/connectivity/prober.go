// Package connectivity decides whether the device can currently reach the API
// and signals online/offline transitions.
package connectivity

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultProbeTimeout = 3 * time.Second

// Prober issues a liveness round-trip to the API.
type Prober struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// NewProber probes <apiURL>/live with client. The client must not go through
// the response cache, or a cached answer would hide an outage.
func NewProber(client *http.Client, apiURL string, timeout time.Duration) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{
		client:  client,
		url:     strings.TrimRight(apiURL, "/") + "/live",
		timeout: timeout,
	}
}

// Reachable reports whether the liveness endpoint answered 2xx in time.
func (p *Prober) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
