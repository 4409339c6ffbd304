package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/D2D99/talent-by-design-sub001/internal/app"
	"github.com/D2D99/talent-by-design-sub001/internal/domain"
)

// Client is a thin adapter over the collaborator assessment-platform REST
// API. Requests are plain request/response: no retry, no caching beyond the
// catalog's own in-memory copy.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the {data: ...} wrapper every successful response uses.
type envelope[T any] struct {
	Data T `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
}

// ListAll fetches the complete undeleted question set, optionally narrowed by
// server-side query filters.
func (c *Client) ListAll(ctx context.Context, filters app.ListFilters) ([]domain.Question, error) {
	query := url.Values{}
	if filters.Stakeholder != "" {
		query.Set("stakeholder", string(filters.Stakeholder))
	}
	if filters.Domain != "" {
		query.Set("domain", string(filters.Domain))
	}
	if filters.Subdomain != "" {
		query.Set("subdomain", filters.Subdomain)
	}
	path := "/questions/all"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out envelope[[]domain.Question]
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetByID fetches one question.
func (c *Client) GetByID(ctx context.Context, id string) (domain.Question, error) {
	var out envelope[domain.Question]
	if err := c.do(ctx, http.MethodGet, "/questions/"+url.PathEscape(id), nil, &out); err != nil {
		return domain.Question{}, err
	}
	return out.Data, nil
}

// CreateBatch sends the drafts as a positional map (question1, question2, ...),
// each converted to its pruned wire form.
func (c *Client) CreateBatch(ctx context.Context, drafts []domain.Draft) ([]domain.Question, error) {
	body := make(map[string]domain.CreatePayload, len(drafts))
	for i, d := range drafts {
		body[fmt.Sprintf("question%d", i+1)] = d.Payload()
	}
	var out envelope[[]domain.Question]
	if err := c.do(ctx, http.MethodPost, "/questions/multiple", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Update sends the mutable subset of fields for one question.
func (c *Client) Update(ctx context.Context, id string, payload domain.UpdatePayload) (domain.Question, error) {
	var out envelope[domain.Question]
	if err := c.do(ctx, http.MethodPut, "/questions/"+url.PathEscape(id), payload, &out); err != nil {
		return domain.Question{}, err
	}
	return out.Data, nil
}

// Delete soft-deletes a question server-side. The response body carries no
// contract, so only the status is checked.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), nil, nil)
}

// Reorder persists a new display order. Defined by the API but not invoked
// by the current dashboard flows, which keep reordering local.
func (c *Client) Reorder(ctx context.Context, entries []domain.ReorderEntry) error {
	return c.do(ctx, http.MethodPut, "/questions/reorder", entries, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role domain.Stakeholder `json:"role"`
}

// Login verifies credentials against the upstream auth endpoint and returns
// the account's dashboard role.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Stakeholder, error) {
	var out envelope[loginResponse]
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusUnauthorized {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	return out.Data.Role, nil
}

// APIError is a non-2xx response with the server's message, if it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote API returned status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
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
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			if json.Unmarshal(data, &eb) == nil {
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
