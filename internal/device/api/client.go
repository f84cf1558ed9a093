// Package api is the field device client of the Pantau Subsidi API. Writes
// that cannot reach the server are queued on the device and reported as
// pending; reads go through the cache router.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pantau-subsidi/internal/device/cacherouter"
	"github.com/heartmarshall/pantau-subsidi/internal/device/session"
	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncqueue"
)

// Collections a queued write can target.
const (
	EndpointReports       = "reports"
	EndpointVerifications = "verifications"
	EndpointUploads       = "uploads"
)

const (
	maxResponseBytes = 4 << 20
	headerRequestID  = "X-Request-Id"
)

// ErrOffline is returned by reads when the API is unreachable and nothing
// usable is stored on the device.
var ErrOffline = errors.New("api: offline")

type pendingQueue interface {
	Enqueue(ctx context.Context, item syncqueue.Item) error
}

type responseCache interface {
	Purge(ctx context.Context) error
}

type sessionStore interface {
	Read(ctx context.Context) (session.Session, bool, error)
	Persist(sess session.Session)
	Clear()
}

// Options holds the client collaborators.
type Options struct {
	HTTPClient *http.Client
	BaseURL    string
	Queue      pendingQueue
	Sessions   sessionStore
	// DB holds the cachedTasks mirror. Nil disables mirroring.
	DB *storage.DB
	// Cache is purged on Logout. May be nil.
	Cache  responseCache
	Logger *slog.Logger
}

// Client talks to the API.
type Client struct {
	http     *http.Client
	baseURL  string
	queue    pendingQueue
	sessions sessionStore
	db       *storage.DB
	cache    responseCache
	log      *slog.Logger

	now   func() time.Time
	newID func() string

	mu   sync.RWMutex
	sess *session.Session
}

// New creates a Client and restores the persisted session before any
// authenticated call is made.
func New(ctx context.Context, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		queue:    opts.Queue,
		sessions: opts.Sessions,
		db:       opts.DB,
		cache:    opts.Cache,
		log:      logger.With("component", "api"),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}

	sess, ok, err := c.sessions.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("api.New: restore session: %w", err)
	}
	if ok {
		c.sess = &sess
	}
	return c, nil
}

// Session returns the signed-in principal.
func (c *Client) Session() (session.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return session.Session{}, false
	}
	return *c.sess, true
}

// Login exchanges credentials for a token and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return session.Session{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return session.Session{}, err
	}

	var out struct {
		AccessToken string `json:"accessToken"`
		Account     struct {
			ID     string `json:"id"`
			Email  string `json:"email"`
			Name   string `json:"name"`
			Role   string `json:"role"`
			Agency string `json:"agency"`
		} `json:"account"`
	}
	if err := decode(resp, &out); err != nil {
		return session.Session{}, err
	}

	sess := session.Session{
		AccountID: out.Account.ID,
		Email:     out.Account.Email,
		Name:      out.Account.Name,
		Role:      out.Account.Role,
		Agency:    out.Account.Agency,
		Token:     out.AccessToken,
	}
	c.sessions.Persist(sess)
	c.mu.Lock()
	c.sess = &sess
	c.mu.Unlock()

	c.log.InfoContext(ctx, "signed in", slog.String("account_id", sess.AccountID))
	return sess, nil
}

// Logout forgets the session on this device together with the responses
// and the task mirror fetched under it, so the next account never sees them.
// Queued writes are kept.
func (c *Client) Logout(ctx context.Context) error {
	c.sessions.Clear()
	c.mu.Lock()
	c.sess = nil
	c.mu.Unlock()

	var errs []error
	if c.cache != nil {
		errs = append(errs, c.cache.Purge(ctx))
	}
	errs = append(errs, c.clearMirror(ctx))
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("api.Logout: %w", err)
	}
	return nil
}

// SubmitReport posts a field report.
func (c *Client) SubmitReport(ctx context.Context, in ReportInput) (WriteResult, error) {
	if in.ID == "" {
		in.ID = c.newID()
	}
	return c.write(ctx, EndpointReports, in.ID, in)
}

// SubmitVerification posts a verdict on a report.
func (c *Client) SubmitVerification(ctx context.Context, in VerificationInput) (WriteResult, error) {
	if in.ID == "" {
		in.ID = c.newID()
	}
	return c.write(ctx, EndpointVerifications, in.ID, in)
}

// SubmitUpload posts upload metadata.
func (c *Client) SubmitUpload(ctx context.Context, in UploadInput) (WriteResult, error) {
	if in.ID == "" {
		in.ID = c.newID()
	}
	return c.write(ctx, EndpointUploads, in.ID, in)
}

// write sends body once. The id is fixed before the first attempt and the
// queued payload carries it, so every replay is recognised by the server.
func (c *Client) write(ctx context.Context, endpoint, id string, in any) (WriteResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return WriteResult{}, fmt.Errorf("api: encode %s: %w", endpoint, err)
	}

	resp, sendErr := c.do(ctx, http.MethodPost, "/"+endpoint, id, payload)
	if sendErr == nil && resp.StatusCode >= http.StatusInternalServerError {
		sendErr = checkStatus(resp)
		_ = resp.Body.Close()
	}
	if sendErr != nil {
		if ctx.Err() != nil {
			return WriteResult{}, ctx.Err()
		}
		return c.enqueue(ctx, endpoint, id, payload, sendErr)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return WriteResult{}, err
	}
	record, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return WriteResult{}, fmt.Errorf("api: read %s response: %w", endpoint, err)
	}

	status := StatusCreated
	if resp.StatusCode == http.StatusOK {
		status = StatusReplayed
	}
	return WriteResult{ID: id, Status: status, Record: record}, nil
}

func (c *Client) enqueue(ctx context.Context, endpoint, id string, payload []byte, cause error) (WriteResult, error) {
	err := c.queue.Enqueue(ctx, syncqueue.Item{
		ID:        id,
		Endpoint:  endpoint,
		Payload:   payload,
		CreatedAt: c.now(),
	})
	if err != nil && !errors.Is(err, syncqueue.ErrDuplicate) {
		return WriteResult{}, fmt.Errorf("api: queue %s: %w", endpoint, err)
	}

	c.log.InfoContext(ctx, "write queued for sync",
		slog.String("endpoint", endpoint),
		slog.String("id", id),
		slog.String("cause", cause.Error()),
	)
	return WriteResult{ID: id, Status: StatusPending}, nil
}

// Replay posts a queued item. A nil error means the server acknowledged it.
func (c *Client) Replay(ctx context.Context, item syncqueue.Item) error {
	resp, err := c.do(ctx, http.MethodPost, "/"+item.Endpoint, item.ID, item.Payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return checkStatus(resp)
}

// ListReports reads reports, optionally for one task.
func (c *Client) ListReports(ctx context.Context, taskID string) (ReportsResult, error) {
	path := "/reports"
	if taskID != "" {
		path += "?taskId=" + url.QueryEscape(taskID)
	}

	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return ReportsResult{}, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()
	if resp.Header.Get(cacherouter.HeaderOffline) != "" {
		return ReportsResult{}, ErrOffline
	}
	if err := checkStatus(resp); err != nil {
		return ReportsResult{}, err
	}

	var reports []Report
	if err := decode(resp, &reports); err != nil {
		return ReportsResult{}, err
	}
	return ReportsResult{Reports: reports, FromCache: fromCache(resp)}, nil
}

// ListTasks reads the caller's tasks. Fresh answers are mirrored to the
// device; when the API cannot be reached the mirror is returned as stale.
func (c *Client) ListTasks(ctx context.Context) (TasksResult, error) {
	resp, err := c.do(ctx, http.MethodGet, "/tasks", "", nil)
	if err != nil {
		return c.mirroredTasks(ctx)
	}
	defer resp.Body.Close()
	if resp.Header.Get(cacherouter.HeaderOffline) != "" {
		return c.mirroredTasks(ctx)
	}
	if err := checkStatus(resp); err != nil {
		return TasksResult{}, err
	}

	var tasks []Task
	if err := decode(resp, &tasks); err != nil {
		return TasksResult{}, err
	}
	if fromCache(resp) {
		return TasksResult{Tasks: tasks, Stale: true}, nil
	}

	result := TasksResult{Tasks: tasks, FetchedAt: c.now()}
	if err := c.mirrorTasks(ctx, result); err != nil {
		c.log.WarnContext(ctx, "mirror tasks failed", slog.String("error", err.Error()))
	}
	return result, nil
}

// do sends one request. Writes pass their record id as requestID so the
// original attempt and every replay share one X-Request-Id in server logs.
func (c *Client) do(ctx context.Context, method, path, requestID string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set(headerRequestID, requestID)
	}
	if sess, ok := c.Session(); ok && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return c.http.Do(req)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	httpErr := &HTTPError{StatusCode: resp.StatusCode}
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(httpErr)
	return httpErr
}

func decode(resp *http.Response, v any) error {
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func fromCache(resp *http.Response) bool {
	return resp.Header.Get(cacherouter.HeaderCache) == cacherouter.CacheHit
}
