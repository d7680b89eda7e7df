package kds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned for 404 responses. The server answers 404 both for
// unknown ids and for branches the caller does not manage.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned for 401 responses, typically an expired token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries a non-2xx response from the kitchen server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kitchen server returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu       sync.RWMutex
	token    string
	username string
	password string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges credentials for a bearer token and keeps both on the
// client. When a later call is rejected with 401 the client logs in again
// with the same credentials and retries that call once.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var response LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: password}, &response)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.token = response.Token
	c.username, c.password = username, password
	c.mu.Unlock()
	return &response, nil
}

// doAuthed is do with one re-login on an expired token.
func (c *Client) doAuthed(ctx context.Context, method, path string, payload, out interface{}) error {
	err := c.do(ctx, method, path, payload, out)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	c.mu.RLock()
	username, password := c.username, c.password
	c.mu.RUnlock()
	if username == "" {
		return err
	}
	if _, loginErr := c.Login(ctx, username, password); loginErr != nil {
		return fmt.Errorf("re-login failed: %w", loginErr)
	}
	return c.do(ctx, method, path, payload, out)
}

// FetchKitchenView returns the FIFO board for a branch. A nil categoryID
// means every category.
func (c *Client) FetchKitchenView(ctx context.Context, branchID uint, categoryID *uint) ([]OrderView, error) {
	path := fmt.Sprintf("/api/branches/%d/kitchen", branchID)
	if categoryID != nil {
		q := url.Values{}
		q.Set("category_id", fmt.Sprint(*categoryID))
		path += "?" + q.Encode()
	}

	var response KitchenViewResponse
	if err := c.doAuthed(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	if response.Orders == nil {
		response.Orders = []OrderView{}
	}
	return response.Orders, nil
}

// AdvanceItem moves one item to status.
func (c *Client) AdvanceItem(ctx context.Context, itemID uint, status Status, expectedVersion *uint) (*AdvanceResponse, error) {
	path := fmt.Sprintf("/api/kitchen/items/%d/status", itemID)
	var response AdvanceResponse
	err := c.doAuthed(ctx, http.MethodPatch, path, AdvanceRequest{Status: status, ExpectedVersion: expectedVersion}, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr ErrorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
