// Package cacherouter is the device-side response cache. Router sits in front
// of the network as an http.RoundTripper and picks a caching strategy per
// request: navigation and API reads are network-first, static assets are
// served stale-while-revalidate.
package cacherouter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
)

// Response headers set by the router.
const (
	HeaderCache   = "X-Cache"
	HeaderOffline = "X-Offline"

	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

// Strategy is how a request is served.
type Strategy int

const (
	Passthrough Strategy = iota
	Navigation
	API
	Static
)

func (s Strategy) String() string {
	switch s {
	case Navigation:
		return "navigation"
	case API:
		return "api"
	case Static:
		return "static"
	default:
		return "passthrough"
	}
}

// Options configures a Router.
type Options struct {
	// Version names the active cache partition, cache/<Version>.
	Version   string
	APIPrefix string
	// ShellPath is served for navigations that miss the cache while offline.
	ShellPath string
	Logger    *slog.Logger
}

// Router is an http.RoundTripper. Until Activate succeeds every request goes
// straight to the network.
type Router struct {
	next      http.RoundTripper
	cache     *partition
	apiPrefix string
	shellPath string
	log       *slog.Logger

	active     atomic.Bool
	refreshing sync.WaitGroup
}

// New creates a Router in front of next.
func New(next http.RoundTripper, db *storage.DB, opts Options) *Router {
	if next == nil {
		next = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	shell := opts.ShellPath
	if shell == "" {
		shell = "/"
	}
	return &Router{
		next:      next,
		cache:     &partition{db: db, name: storage.CachePrefix + opts.Version},
		apiPrefix: strings.TrimRight(opts.APIPrefix, "/"),
		shellPath: shell,
		log:       logger.With("component", "cacherouter"),
	}
}

// Activate creates the current partition, deletes every partition left by
// other versions and starts serving from cache. It returns the purged names.
func (r *Router) Activate(ctx context.Context) ([]string, error) {
	purged, err := r.cache.activate(ctx)
	if err != nil {
		return nil, fmt.Errorf("cacherouter.Activate: %w", err)
	}
	r.active.Store(true)
	if len(purged) > 0 {
		r.log.InfoContext(ctx, "purged stale cache partitions", slog.Any("partitions", purged))
	}
	return purged, nil
}

// Purge empties the current partition. Cached responses belong to the
// account that fetched them, so the partition is purged when it signs out.
func (r *Router) Purge(ctx context.Context) error {
	if err := r.cache.clear(ctx); err != nil {
		return fmt.Errorf("cacherouter.Purge: %w", err)
	}
	r.log.InfoContext(ctx, "cache partition purged", slog.String("partition", r.cache.name))
	return nil
}

// Active reports whether the router serves from cache.
func (r *Router) Active() bool { return r.active.Load() }

// Wait blocks until background refreshes finish.
func (r *Router) Wait() { r.refreshing.Wait() }

// Classify picks the strategy for req.
func (r *Router) Classify(req *http.Request) Strategy {
	if req.Method != http.MethodGet {
		return Passthrough
	}
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" || strings.Contains(req.Header.Get("Accept"), "text/html") {
		return Navigation
	}
	if r.apiPrefix != "" && (req.URL.Path == r.apiPrefix || strings.HasPrefix(req.URL.Path, r.apiPrefix+"/")) {
		return API
	}
	return Static
}

// RoundTrip implements http.RoundTripper.
func (r *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	if !r.active.Load() {
		return r.next.RoundTrip(req)
	}

	switch r.Classify(req) {
	case Navigation:
		return r.networkFirst(req, r.offlineNavigation)
	case API:
		return r.networkFirst(req, r.offlineAPI)
	case Static:
		return r.staleWhileRevalidate(req)
	default:
		return r.next.RoundTrip(req)
	}
}

func (r *Router) networkFirst(req *http.Request, offline func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	resp, netErr := r.fetch(req)
	if netErr == nil {
		return resp, nil
	}

	if entry, ok := r.lookup(req.Context(), cacheKey(req)); ok {
		r.log.DebugContext(req.Context(), "serving cached response", slog.String("url", entry.URL))
		return entry.response(req), nil
	}
	return offline(req)
}

func (r *Router) staleWhileRevalidate(req *http.Request) (*http.Response, error) {
	entry, ok := r.lookup(req.Context(), cacheKey(req))
	if !ok {
		return r.fetch(req)
	}

	refresh := req.Clone(context.WithoutCancel(req.Context()))
	r.refreshing.Add(1)
	go func() {
		defer r.refreshing.Done()
		resp, err := r.fetch(refresh)
		if err != nil {
			r.log.Debug("background refresh failed", slog.String("url", entry.URL), slog.String("error", err.Error()))
			return
		}
		_ = resp.Body.Close()
	}()

	return entry.response(req), nil
}

// fetch sends req to the network and stores 2xx responses. Non-2xx answers
// are returned as they are; only transport failures count as offline.
func (r *Router) fetch(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Header.Set(HeaderCache, CacheMiss)
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	entry := Entry{
		URL:      cacheKey(req),
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now().UTC(),
	}
	if err := r.cache.put(req.Context(), entry); err != nil {
		r.log.Warn("cache store failed", slog.String("url", entry.URL), slog.String("error", err.Error()))
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set(HeaderCache, CacheMiss)
	return resp, nil
}

func (r *Router) lookup(ctx context.Context, key string) (Entry, bool) {
	entry, ok, err := r.cache.get(ctx, key)
	if err != nil {
		r.log.Warn("cache read failed", slog.String("url", key), slog.String("error", err.Error()))
		return Entry{}, false
	}
	return entry, ok
}

func (r *Router) offlineNavigation(req *http.Request) (*http.Response, error) {
	shell := *req.URL
	shell.Path = r.shellPath
	shell.RawQuery = ""
	if entry, ok := r.lookup(req.Context(), shell.String()); ok {
		return entry.response(req), nil
	}

	h := http.Header{}
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set(HeaderOffline, "1")
	return newResponse(req, http.StatusServiceUnavailable, h, []byte(offlinePage)), nil
}

func (r *Router) offlineAPI(req *http.Request) (*http.Response, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(HeaderOffline, "1")
	return newResponse(req, http.StatusServiceUnavailable, h, []byte(offlineJSON)), nil
}

const offlineJSON = `{"error":"offline","message":"Perangkat sedang offline. Data akan disinkronkan saat koneksi kembali.","offline":true}`

const offlinePage = `<!doctype html>
<html lang="id"><head><meta charset="utf-8"><title>Offline</title></head>
<body><h1>Anda sedang offline</h1><p>Halaman ini belum tersimpan di perangkat.</p></body></html>
`

func cacheKey(req *http.Request) string {
	return req.URL.String()
}

func newResponse(req *http.Request, status int, h http.Header, body []byte) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
