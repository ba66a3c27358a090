package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/logger"
)

// Operation names used in errors and logs.
const (
	OpSubmitManifest = "submit_manifest"
	OpGetStatus      = "get_status"
	OpListHistory    = "list_history"
	OpDeleteJob      = "delete_job"
	OpCheckItem      = "check_item"
)

// Client issues requests to the remote analysis service. It never retries;
// retry policy belongs to the caller.
type Client struct {
	http *resty.Client
}

// Config holds configuration for the gateway client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	APIKey  string
}

// New creates a gateway client.
// Parameters:
//   - cfg: base URL, timeout and optional bearer token.
//
// Returns:
//   - *Client: initialized client.
func New(cfg *Config) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetRetryCount(0)

	return &Client{http: client}
}

// Wire structures

type submitRequest struct {
	File       string  `json:"file"`
	Filename   string  `json:"filename"`
	UploadName *string `json:"upload_name"`
}

type acceptedResponse struct {
	UploadID   string `json:"upload_id"`
	TotalItems int    `json:"total_items"`
}

type historyResponse struct {
	Uploads []domain.HistoryEntry `json:"uploads"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusResult is the status/result document for one upload. The synchronous
// submission path returns the same shape.
type StatusResult struct {
	UploadID       string           `json:"upload_id"`
	Filename       string           `json:"filename,omitempty"`
	UploadName     string           `json:"upload_name,omitempty"`
	Status         domain.JobStatus `json:"status"`
	ProcessedItems int              `json:"processed_items"`
	TotalItems     int              `json:"total_items"`
	Summary        map[string]any   `json:"summary,omitempty"`
	Items          []domain.Item    `json:"items,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`
}

// SubmitResult distinguishes asynchronous acceptance from synchronous completion.
type SubmitResult struct {
	Accepted   bool
	UploadID   string
	TotalItems int
	// Result is set only for synchronous completion.
	Result *StatusResult
}

// SubmitManifest posts a manifest for analysis. HTTP 202 means accepted for
// asynchronous processing; any other 2xx carries the full result.
func (c *Client) SubmitManifest(ctx context.Context, m domain.Manifest) (*SubmitResult, error) {
	body := submitRequest{File: m.Content, Filename: m.Filename}
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		body.UploadName = &name
	}

	resp, err := c.do(ctx, OpSubmitManifest, http.MethodPost, "/upload", body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusAccepted {
		var accepted acceptedResponse
		if err := decode(resp, &accepted); err != nil || accepted.UploadID == "" {
			return nil, &ServiceError{Op: OpSubmitManifest, StatusCode: resp.StatusCode(), Message: "malformed acceptance body", Body: resp.String()}
		}
		return &SubmitResult{Accepted: true, UploadID: accepted.UploadID, TotalItems: accepted.TotalItems}, nil
	}

	var result StatusResult
	if err := decode(resp, &result); err != nil {
		return nil, &ServiceError{Op: OpSubmitManifest, StatusCode: resp.StatusCode(), Message: "malformed result body", Body: resp.String()}
	}
	if result.Status == "" {
		result.Status = domain.JobStatusCompleted
	}
	return &SubmitResult{UploadID: result.UploadID, TotalItems: result.TotalItems, Result: &result}, nil
}

// GetStatus fetches the status document for an upload. A 404 surfaces as a
// ServiceError for which IsNotFound is true.
func (c *Client) GetStatus(ctx context.Context, uploadID string) (*StatusResult, error) {
	resp, err := c.do(ctx, OpGetStatus, http.MethodGet, "/status/"+url.PathEscape(uploadID), nil)
	if err != nil {
		return nil, err
	}
	var result StatusResult
	if err := decode(resp, &result); err != nil {
		return nil, &ServiceError{Op: OpGetStatus, StatusCode: resp.StatusCode(), Message: "malformed status body", Body: resp.String()}
	}
	if result.UploadID == "" {
		result.UploadID = uploadID
	}
	return &result, nil
}

// ListHistory fetches every upload known to the backend, in backend order.
func (c *Client) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	resp, err := c.do(ctx, OpListHistory, http.MethodGet, "/history", nil)
	if err != nil {
		return nil, err
	}
	var out historyResponse
	if err := decode(resp, &out); err != nil {
		return nil, &ServiceError{Op: OpListHistory, StatusCode: resp.StatusCode(), Message: "malformed history body", Body: resp.String()}
	}
	if out.Uploads == nil {
		out.Uploads = []domain.HistoryEntry{}
	}
	return out.Uploads, nil
}

// DeleteJob removes an upload and its results.
func (c *Client) DeleteJob(ctx context.Context, uploadID string) error {
	_, err := c.do(ctx, OpDeleteJob, http.MethodDelete, "/upload/"+url.PathEscape(uploadID), nil)
	return err
}

// CheckItem analyzes a single item synchronously.
func (c *Client) CheckItem(ctx context.Context, req domain.ItemCheckRequest) (*domain.ItemCheckResult, error) {
	resp, err := c.do(ctx, OpCheckItem, http.MethodPost, "/check-item", req)
	if err != nil {
		return nil, err
	}
	var out domain.ItemCheckResult
	if err := decode(resp, &out); err != nil {
		return nil, &ServiceError{Op: OpCheckItem, StatusCode: resp.StatusCode(), Message: "malformed item check body", Body: resp.String()}
	}
	return &out, nil
}

// do performs one request and maps failures onto NetworkError / ServiceError.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (*resty.Response, error) {
	requestID := uuid.New().String()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetError(&errorResponse{})
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldOperation:  op,
			logger.FieldRequestID:  requestID,
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
		}).Debug(ctx, "Backend request failed: %v", err)
		return nil, &NetworkError{Op: op, Err: err}
	}

	logger.With(logger.Fields{
		logger.FieldOperation:  op,
		logger.FieldRequestID:  requestID,
		logger.FieldStatus:     resp.StatusCode(),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Debug(ctx, "Backend request: method=%s, path=%s", method, path)

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		se := &ServiceError{Op: op, StatusCode: resp.StatusCode(), Body: resp.String()}
		e, _ := resp.Error().(*errorResponse)
		if e == nil || (e.Error == "" && e.Message == "") {
			e = &errorResponse{}
			_ = json.Unmarshal(resp.Body(), e)
		}
		se.Message = e.Error
		if se.Message == "" {
			se.Message = e.Message
		}
		return nil, se
	}
	return resp, nil
}

// decode unmarshals the raw body. Bodies are decoded here rather than via
// SetResult because one endpoint returns two different success shapes.
func decode(resp *resty.Response, out any) error {
	return json.Unmarshal(resp.Body(), out)
}
