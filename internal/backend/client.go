// Package backend is the REST client for the POS backend, the only
// stateful collaborator the gateway talks to. Every call takes a context
// so in-flight fetches can be cancelled when a newer filter supersedes
// them, and forwards the caller's bearer token unchanged.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/posadmin/reports-gateway/internal/model"
	"github.com/posadmin/reports-gateway/pkg/daterange"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s: status %d: %s", e.Path, e.Status, e.Message)
}

// Client manages communication with the POS backend API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// TransactionQuery narrows the transaction history fetch.
type TransactionQuery struct {
	Search string
	Status string
	Limit  int
}

func (c *Client) SalesReport(ctx context.Context, token string, rng daterange.Range, period daterange.Period) (*model.SalesReport, error) {
	q := rangeQuery(rng)
	q.Set("period", string(period))

	var report model.SalesReport
	if err := c.getJSON(ctx, token, "/reports/sales", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ProfitabilityReport(ctx context.Context, token string, rng daterange.Range) ([]model.ProfitabilityRow, error) {
	var rows []model.ProfitabilityRow
	if err := c.getJSON(ctx, token, "/reports/profitability", rangeQuery(rng), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) InventoryReport(ctx context.Context, token string) (*model.InventoryReport, error) {
	var report model.InventoryReport
	if err := c.getJSON(ctx, token, "/reports/inventory", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Transactions(ctx context.Context, token string, rng daterange.Range, query TransactionQuery) ([]model.Transaction, error) {
	q := rangeQuery(rng)
	if query.Search != "" {
		q.Set("search", query.Search)
	}
	if query.Status != "" {
		q.Set("status", query.Status)
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}

	var txs []model.Transaction
	if err := c.getJSON(ctx, token, "/transactions", q, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) Transaction(ctx context.Context, token, id string) (*model.Transaction, error) {
	var tx model.Transaction
	if err := c.getJSON(ctx, token, "/transactions/"+url.PathEscape(id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) Settings(ctx context.Context, token string) (model.Settings, error) {
	var s model.Settings
	if err := c.getJSON(ctx, token, "/settings", nil, &s); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// UpdateSettings writes the document and returns the stored version the
// backend echoes back.
func (c *Client) UpdateSettings(ctx context.Context, token string, s model.Settings) (model.Settings, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return model.Settings{}, err
	}
	var stored model.Settings
	if err := c.do(ctx, token, http.MethodPut, "/settings", nil, bytes.NewReader(body), &stored); err != nil {
		return model.Settings{}, err
	}
	return stored, nil
}

// Users returns the raw user list; the gateway passes it through untouched.
func (c *Client) Users(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, token, "/users", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) AuditLogs(ctx context.Context, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, token, "/audit-logs", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Backup streams the backend's database dump. The caller owns the reader.
func (c *Client) Backup(ctx context.Context, token string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, token, http.MethodGet, "/reports/backup", nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend /reports/backup: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.apiError("/reports/backup", resp)
	}
	return resp.Body, nil
}

// getJSON performs a GET and decodes the enveloped payload into out.
func (c *Client) getJSON(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, token, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, token, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(path, resp)
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("backend %s: decode envelope: %w", path, err)
	}
	if len(env.Data) == 0 {
		// Some endpoints answer bare payloads without the envelope;
		// callers see that as an empty document and degrade.
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("backend %s: decode data: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, token, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("backend %s: build request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) apiError(path string, resp *http.Response) error {
	msg := resp.Status
	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&env); err == nil && env.Error != "" {
		msg = env.Error
	}
	c.log.Warnw("backend call failed", "path", path, "status", resp.StatusCode, "message", msg)
	return &APIError{Status: resp.StatusCode, Path: path, Message: msg}
}

func rangeQuery(rng daterange.Range) url.Values {
	q := url.Values{}
	q.Set("start_date", rng.StartISO())
	q.Set("end_date", rng.EndISO())
	return q
}
