// Package client is a typed Go client for the ListaAi REST API.
package client

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

	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
)

// ErrTransport wraps failures to reach the API at all.
var ErrTransport = errors.New("listaai: transport error")

// APIError is a non-2xx answer carrying the server's envelope.
type APIError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("listaai: %d %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, req request_models.SignUpRequest) (*response_models.RegisterResponse, error) {
	var out response_models.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/server/users", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*response_models.LoginResponse, error) {
	var out response_models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/server/login", request_models.LoginRequest{Email: email, Password: password}, nil, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*response_models.UserProfileResponse, error) {
	var out response_models.UserProfileResponse
	if err := c.do(ctx, http.MethodGet, "/server/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserLists(ctx context.Context, userID string) ([]response_models.ListSummaryResponse, error) {
	var out []response_models.ListSummaryResponse
	if err := c.cachedGet(ctx, "/server/users/"+url.PathEscape(userID)+"/lists", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateList(ctx context.Context, userID string, req request_models.CreateListRequest) (*response_models.CreatedListResponse, error) {
	var out response_models.CreatedListResponse
	if err := c.do(ctx, http.MethodPost, "/server/users/"+url.PathEscape(userID)+"/lists", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetList(ctx context.Context, listID string) (*response_models.ListResponse, error) {
	var out response_models.ListResponse
	if err := c.cachedGet(ctx, listPath(listID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListExists(ctx context.Context, listID string) (bool, error) {
	var out response_models.ExistsResponse
	if err := c.do(ctx, http.MethodGet, listPath(listID)+"/exists", nil, nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *Client) UpdateList(ctx context.Context, listID string, req request_models.UpdateListRequest) (*response_models.ListResponse, error) {
	var out response_models.ListResponse
	if err := c.do(ctx, http.MethodPut, listPath(listID), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, http.MethodDelete, listPath(listID), nil, nil, nil)
}

func (c *Client) GetItems(ctx context.Context, listID string) ([]response_models.ItemResponse, error) {
	var out []response_models.ItemResponse
	if err := c.cachedGet(ctx, listPath(listID)+"/items", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, listID string, req request_models.CreateItemRequest) (*response_models.ItemResponse, error) {
	var out response_models.ItemResponse
	if err := c.do(ctx, http.MethodPost, listPath(listID)+"/items", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, listID, itemID string, req request_models.UpdateItemRequest) (*response_models.ItemResponse, error) {
	var out response_models.ItemResponse
	if err := c.do(ctx, http.MethodPut, itemPath(listID, itemID), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) error {
	return c.do(ctx, http.MethodDelete, itemPath(listID, itemID), nil, nil, nil)
}

func (c *Client) ClaimItem(ctx context.Context, listID, itemID string, req request_models.ClaimItemRequest) (*response_models.ItemResponse, error) {
	var out response_models.ItemResponse
	if err := c.do(ctx, http.MethodPost, itemPath(listID, itemID)+"/claim", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePix(ctx context.Context, req request_models.PixPaymentRequest, idempotencyKey string) (*response_models.PixPaymentResponse, error) {
	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{"X-Idempotency-Key": []string{idempotencyKey}}
	}
	var out response_models.PixPaymentResponse
	if err := c.do(ctx, http.MethodPost, "/server/pix", req, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (*response_models.VerifyPaymentResponse, error) {
	var out response_models.VerifyPaymentResponse
	if err := c.do(ctx, http.MethodGet, "/server/payments/"+url.PathEscape(paymentID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Plans(ctx context.Context) ([]response_models.PlanResponse, error) {
	var out []response_models.PlanResponse
	if err := c.do(ctx, http.MethodGet, "/server/plans", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StartCheckout(ctx context.Context, req request_models.StartCheckoutRequest) (*response_models.CheckoutResponse, error) {
	var out response_models.CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/server/checkouts", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCheckout(ctx context.Context, id string) (*response_models.CheckoutResponse, error) {
	return c.checkoutCall(ctx, http.MethodGet, id, "", nil)
}

func (c *Client) VerifyCheckout(ctx context.Context, id string) (*response_models.CheckoutResponse, error) {
	return c.checkoutCall(ctx, http.MethodPost, id, "/verify", nil)
}

func (c *Client) PayCheckout(ctx context.Context, id string, req request_models.PayCheckoutRequest) (*response_models.CheckoutResponse, error) {
	return c.checkoutCall(ctx, http.MethodPost, id, "/pay", req)
}

func (c *Client) RetryCheckout(ctx context.Context, id string) (*response_models.CheckoutResponse, error) {
	return c.checkoutCall(ctx, http.MethodPost, id, "/retry", nil)
}

func (c *Client) checkoutCall(ctx context.Context, method, id, suffix string, body interface{}) (*response_models.CheckoutResponse, error) {
	var out response_models.CheckoutResponse
	if err := c.do(ctx, method, "/server/checkouts/"+url.PathEscape(id)+suffix, body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForApproval polls VerifyCheckout until the checkout reaches success or
// error. Transport errors are retried; API errors end the wait.
func (c *Client) WaitForApproval(ctx context.Context, checkoutID string, interval time.Duration) (*response_models.CheckoutResponse, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *response_models.CheckoutResponse
	for {
		resp, err := c.VerifyCheckout(ctx, checkoutID)
		switch {
		case err != nil && ctx.Err() != nil:
			return last, ctx.Err()
		case err == nil:
			last = resp
			if resp.Step == "success" || resp.Step == "error" {
				return resp, nil
			}
		case errors.Is(err, ErrTransport):
			slog.Debug("verify checkout failed, retrying", "checkout_id", checkoutID, "error", err)
		default:
			return last, err
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

// cachedGet serves the cached copy of path when the API cannot be reached.
func (c *Client) cachedGet(ctx context.Context, path string, out interface{}) error {
	raw, err := c.fetch(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		if c.cache != nil {
			if cerr := c.cache.Set(path, raw); cerr != nil {
				slog.Warn("client cache write failed", "path", path, "error", cerr)
			}
		}
		return decodeData(raw, out)
	}

	if c.cache != nil && errors.Is(err, ErrTransport) {
		cached, ok, cerr := c.cache.Get(path)
		if cerr == nil && ok {
			slog.Debug("serving cached response", "path", path)
			return decodeData(cached, out)
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, headers http.Header, out interface{}) error {
	raw, err := c.fetch(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeData(raw, out)
}

// fetch performs the request and returns the envelope's data field.
func (c *Client) fetch(ctx context.Context, method, path string, body interface{}, headers http.Header) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
		}
		return nil, fmt.Errorf("listaai: decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message, TraceID: env.TraceID}
	}
	return env.Data, nil
}

func decodeData(raw json.RawMessage, out interface{}) error {
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("listaai: decode data: %w", err)
	}
	return nil
}

func listPath(listID string) string {
	return "/server/lists/" + url.PathEscape(listID)
}

func itemPath(listID, itemID string) string {
	return listPath(listID) + "/items/" + url.PathEscape(itemID)
}
