package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CourtMate-RSO/Courtmate-Booking-Service/config"
)

// Factory builds PostgREST clients against a single Supabase project. A
// scoped client forwards an end user's bearer token so row-level security
// applies per caller; the privileged client authenticates with the service
// role key and bypasses row policies, and is used only for read-only
// enrichment lookups.
type Factory struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
	authTimeout    time.Duration
}

// NewFactory wires the factory from already-validated configuration.
func NewFactory(cfg config.Config) *Factory {
	return &Factory{
		baseURL:        cfg.SupabaseURL,
		anonKey:        cfg.SupabaseAnonKey,
		serviceRoleKey: cfg.SupabaseServiceRoleKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.BackendTimeoutSeconds) * time.Second,
		},
		authTimeout: time.Duration(cfg.AuthTimeoutSeconds) * time.Second,
	}
}

// Scoped returns a client that forwards the caller's bearer token on every
// request, so the backend's row-level authorization applies to the caller.
func (f *Factory) Scoped(token string) *Client {
	return &Client{
		baseURL: f.baseURL,
		apiKey:  f.anonKey,
		bearer:  token,
		http:    f.httpClient,
	}
}

// Privileged returns a client authenticated with the service role key. Row
// policies do not apply to it; keep its use to enrichment reads.
func (f *Factory) Privileged() *Client {
	return &Client{
		baseURL: f.baseURL,
		apiKey:  f.serviceRoleKey,
		bearer:  f.serviceRoleKey,
		http:    f.httpClient,
	}
}

// Client issues table-level REST calls against PostgREST. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	bearer  string
	http    *http.Client
}

// RowsResult is the result of an operation that may affect any number of
// rows (select, update). Rows is never nil for a successful call.
type RowsResult struct {
	Rows []json.RawMessage
}

// SingleRowResult is the result of a single-row write. Row is nil when the
// backend returned no representation, which callers treat as an invariant
// violation.
type SingleRowResult struct {
	Row json.RawMessage
}

// APIError is an error reported by PostgREST itself: authorization denials,
// constraint violations, malformed filters. The message is safe to surface
// to the caller.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("supabase: request failed with status %d", e.Status)
}

// TransportError wraps a network-level failure talking to the backend.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("supabase: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Select queries table rows with the given PostgREST filter/order params.
func (c *Client) Select(ctx context.Context, table string, query url.Values) (RowsResult, error) {
	body, err := c.do(ctx, http.MethodGet, table, query, nil, false)
	if err != nil {
		return RowsResult{}, err
	}
	rows, err := decodeRows(body)
	if err != nil {
		return RowsResult{}, err
	}
	return RowsResult{Rows: rows}, nil
}

// Insert writes a single record into table and returns the created row as
// reported by the backend (Prefer: return=representation).
func (c *Client) Insert(ctx context.Context, table string, record any) (SingleRowResult, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return SingleRowResult{}, fmt.Errorf("supabase: encode insert payload: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, table, nil, payload, true)
	if err != nil {
		return SingleRowResult{}, err
	}
	rows, err := decodeRows(body)
	if err != nil {
		return SingleRowResult{}, err
	}
	if len(rows) == 0 {
		return SingleRowResult{}, nil
	}
	return SingleRowResult{Row: rows[0]}, nil
}

// Update patches the rows matching query and returns the affected rows.
// Under row-level security an update the caller may not perform simply
// affects zero rows; it does not error.
func (c *Client) Update(ctx context.Context, table string, query url.Values, patch any) (RowsResult, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return RowsResult{}, fmt.Errorf("supabase: encode update payload: %w", err)
	}
	body, err := c.do(ctx, http.MethodPatch, table, query, payload, true)
	if err != nil {
		return RowsResult{}, err
	}
	rows, err := decodeRows(body)
	if err != nil {
		return RowsResult{}, err
	}
	return RowsResult{Rows: rows}, nil
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, payload []byte, write bool) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("supabase: build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if write {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: strings.ToLower(method) + " " + table, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response for " + table, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}

	return body, nil
}

// decodeRows normalizes a PostgREST response body into a list of raw rows.
// Representation responses are JSON arrays; a single object (or an empty
// body on 204-style responses) is tolerated.
func decodeRows(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []json.RawMessage{}, nil
	}
	if trimmed[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("supabase: decode rows: %w", err)
		}
		return rows, nil
	}
	var row json.RawMessage
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return nil, fmt.Errorf("supabase: decode row: %w", err)
	}
	return []json.RawMessage{row}, nil
}
