// Package client is the typed HTTP client folioctl uses to talk to the
// foliod publish API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/foliokit/folioctl/internal/transport"
)

const defaultBaseURL = "http://foliod"

type APIClient struct {
	transport transport.Transport
	baseURL   string
	actor     string
	token     string
}

func New(tr transport.Transport) *APIClient {
	actor := strings.TrimSpace(os.Getenv("USER"))
	if actor == "" {
		actor = "folioctl"
	}
	return &APIClient{
		transport: tr,
		baseURL:   defaultBaseURL,
		actor:     actor,
	}
}

// NewWithAuth builds a client that presents a bearer token on every request.
func NewWithAuth(tr transport.Transport, token string) *APIClient {
	c := New(tr)
	c.token = strings.TrimSpace(token)
	return c
}

func (c *APIClient) Health(ctx context.Context) (HealthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return HealthResponse{}, err
	}
	var out HealthResponse
	if err := c.do(req, &out); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

func (c *APIClient) GetStatus(ctx context.Context) (StatusResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/status", nil)
	if err != nil {
		return StatusResponse{}, err
	}
	var out StatusResponse
	if err := c.do(req, &out); err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

func (c *APIClient) ListReleases(ctx context.Context) (ReleasesResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/releases", nil)
	if err != nil {
		return ReleasesResponse{}, err
	}
	var out ReleasesResponse
	if err := c.do(req, &out); err != nil {
		return ReleasesResponse{}, err
	}
	return out, nil
}

// PublishBundle uploads a release bundle tar. With dryRun the daemon
// verifies the bundle but does not activate it.
func (c *APIClient) PublishBundle(ctx context.Context, bundle io.Reader, dryRun bool) (PublishResponse, error) {
	path := "/api/v1/publish"
	if dryRun {
		path += "?dry_run=true"
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bundle)
	if err != nil {
		return PublishResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-tar")

	var out PublishResponse
	if err := c.do(req, &out); err != nil {
		return PublishResponse{}, err
	}
	return out, nil
}

// ListReleaseFiles fetches the hashed file listing of the active release,
// used to diff a local build against what the daemon serves.
func (c *APIClient) ListReleaseFiles(ctx context.Context) (ReleaseFilesResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/releases/current/files", nil)
	if err != nil {
		return ReleaseFilesResponse{}, err
	}
	var out ReleaseFilesResponse
	if err := c.do(req, &out); err != nil {
		return ReleaseFilesResponse{}, err
	}
	return out, nil
}

// VisitsSummary fetches visit counters. With recent > 0 the daemon includes
// that many most recent raw visits.
func (c *APIClient) VisitsSummary(ctx context.Context, recent int) (VisitsSummaryResponse, error) {
	path := "/api/v1/visits/summary"
	if recent > 0 {
		path += fmt.Sprintf("?recent=%d", recent)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return VisitsSummaryResponse{}, err
	}
	var out VisitsSummaryResponse
	if err := c.do(req, &out); err != nil {
		return VisitsSummaryResponse{}, err
	}
	return out, nil
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Actor", c.actor)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *APIClient) do(req *http.Request, out any) error {
	resp, err := c.transport.Do(req.Context(), req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return mapAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode api response: %w", err)
	}
	return nil
}

type apiErrorPayload struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func mapAPIError(resp *http.Response) error {
	payload := apiErrorPayload{}
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 {
		_ = json.Unmarshal(body, &payload)
	}
	msg := strings.TrimSpace(payload.Error)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = "request failed"
	}
	if len(payload.Details) > 0 {
		msg = msg + ": " + strings.Join(payload.Details, "; ")
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("invalid request: %s", msg)
	case http.StatusNotFound:
		return fmt.Errorf("resource not found: %s (check --server and --context)", msg)
	case http.StatusConflict:
		return fmt.Errorf("conflict: %s (retry after the concurrent publish completes)", msg)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("server unavailable: %s", msg)
	default:
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error (%d): %s (check foliod logs)", resp.StatusCode, msg)
		}
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, msg)
	}
}

func mapTransportError(err error) error {
	switch {
	case errors.Is(err, transport.ErrSSHAuth):
		return fmt.Errorf("ssh authentication failed: %w", err)
	case errors.Is(err, transport.ErrSSHHostKey):
		return fmt.Errorf("ssh host key verification failed: %w", err)
	case errors.Is(err, transport.ErrSSHUnreachable):
		return fmt.Errorf("ssh host unreachable: %w", err)
	case errors.Is(err, transport.ErrSSHTunnel):
		return fmt.Errorf("ssh tunnel failed: %w", err)
	default:
		return err
	}
}
