// Package client is the typed HTTP client for the record-storage API,
// used by the web tier. Transport failures are translated into a small
// error taxonomy so callers can tell "backend down" from "backend
// slow" from "record gone".
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finledger/internal/core"
)

var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("backend service unavailable")
	// ErrTimeout means the backend did not answer within the deadline.
	ErrTimeout = errors.New("backend request timed out")
)

// NotFoundError reports a referenced record that no longer exists.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with id %d not found", e.ID)
}

// APIError is any unexpected non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// ItemList is one page of records plus the unpaginated filtered total.
type ItemList struct {
	Items []core.Record `json:"items"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

// CreateItem is the create request body.
type CreateItem struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	RecordType  string  `json:"record_type"`
	Sum         string  `json:"sum"`
}

// UpdateItem is the partial-update request body; nil fields are left
// off the wire entirely so the backend keeps their stored values.
type UpdateItem struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	RecordType  *string `json:"record_type,omitempty"`
	Sum         *string `json:"sum,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given backend base URL. Every request
// is bounded by the given timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches one page of records matching the filter.
func (c *Client) List(ctx context.Context, f core.Filter, skip, limit int) (ItemList, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if f.Category != nil {
		q.Set("category", string(*f.Category))
	}
	if f.Type != nil {
		q.Set("record_type", string(*f.Type))
	}

	var list ItemList
	err := c.call(ctx, http.MethodGet, "/items?"+q.Encode(), nil, http.StatusOK, &list, 0)
	if err != nil {
		return ItemList{}, err
	}
	return list, nil
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, id int64) (core.Record, error) {
	var rec core.Record
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/items/%d", id), nil, http.StatusOK, &rec, id)
	if err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

// Create stores a new record and returns it with id and timestamps.
func (c *Client) Create(ctx context.Context, item CreateItem) (core.Record, error) {
	var rec core.Record
	err := c.call(ctx, http.MethodPost, "/items", item, http.StatusCreated, &rec, 0)
	if err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

// Update applies a partial update and returns the updated record.
func (c *Client) Update(ctx context.Context, id int64, item UpdateItem) (core.Record, error) {
	var rec core.Record
	err := c.call(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), item, http.StatusOK, &rec, id)
	if err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, http.StatusNoContent, nil, id)
}

// call performs one request/response round trip: marshal, send,
// translate transport failures, map error statuses, decode.
func (c *Client) call(ctx context.Context, method, path string, body any, wantStatus int, out any, id int64) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return translateTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeErrorResponse(resp, id)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// translateTransportError maps low-level transport failures onto the
// client taxonomy. Timeouts are kept distinct from connectivity
// failures so the UI can word them differently.
func translateTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// decodeErrorResponse maps backend error statuses: 404 becomes
// NotFoundError, 422 becomes the field-level ValidationErrors the
// backend reported, anything else an APIError.
func decodeErrorResponse(resp *http.Response, id int64) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{ID: id}
	case http.StatusUnprocessableEntity:
		var body struct {
			Detail json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			var errs core.ValidationErrors
			if err := json.Unmarshal(body.Detail, &errs); err == nil && len(errs) > 0 {
				return errs
			}
			var detail string
			if err := json.Unmarshal(body.Detail, &detail); err == nil {
				return core.ValidationErrors{{Field: "request", Reason: detail}}
			}
		}
		return core.ValidationErrors{{Field: "request", Reason: "rejected by backend"}}
	default:
		detail := strings.TrimSpace(string(raw))
		var body struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
			detail = body.Detail
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}
}
