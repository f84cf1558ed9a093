package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/heartmarshall/pantau-subsidi/internal/device/api"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncer"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncqueue"
)

// ErrNoAgent is returned when nothing listens on the control socket.
var ErrNoAgent = errors.New("control: no running agent")

// base is a placeholder host; the transport always dials the socket.
const base = "http://fieldagent"

// Client talks to a running agent.
type Client struct {
	http *http.Client
}

// Dial returns a Client for the socket at path. No connection is made until
// the first call.
func Dial(path string) *Client {
	var d net.Dialer
	return &Client{http: &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return d.DialContext(ctx, "unix", path)
		},
	}}}
}

// SubmitReport forwards a report to the agent's API client.
func (c *Client) SubmitReport(ctx context.Context, in api.ReportInput) (api.WriteResult, error) {
	var out api.WriteResult
	return out, c.call(ctx, http.MethodPost, "/"+api.EndpointReports, in, &out)
}

// SubmitVerification forwards a verification.
func (c *Client) SubmitVerification(ctx context.Context, in api.VerificationInput) (api.WriteResult, error) {
	var out api.WriteResult
	return out, c.call(ctx, http.MethodPost, "/"+api.EndpointVerifications, in, &out)
}

// SubmitUpload forwards upload metadata.
func (c *Client) SubmitUpload(ctx context.Context, in api.UploadInput) (api.WriteResult, error) {
	var out api.WriteResult
	return out, c.call(ctx, http.MethodPost, "/"+api.EndpointUploads, in, &out)
}

// Pending lists the agent's queue.
func (c *Client) Pending(ctx context.Context) ([]syncqueue.Item, error) {
	var out []syncqueue.Item
	return out, c.call(ctx, http.MethodGet, "/pending", nil, &out)
}

// Sync drains the agent's queue and waits for the result.
func (c *Client) Sync(ctx context.Context) (syncer.Result, error) {
	var out syncer.Result
	return out, c.call(ctx, http.MethodPost, "/sync", nil, &out)
}

// ForceSync posts the force-sync message and returns without waiting.
func (c *Client) ForceSync(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/messages", messageRequest{Message: syncer.MessageForceSync}, nil)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("control: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return fmt.Errorf("control: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return fmt.Errorf("%w: %v", ErrNoAgent, err)
		}
		return fmt.Errorf("control: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&e)
		return fmt.Errorf("control: %s %s: agent answered %d: %s", method, path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("control: decode response: %w", err)
	}
	return nil
}
