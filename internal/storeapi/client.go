package storeapi

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

	"github.com/glazeworks/window-storefront/pkg/config"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/glazeworks/window-storefront/pkg/metrics"
)

const (
	HeaderCartID        = "X-Cart-ID"
	HeaderSessionCartID = "X-Session-Cart-ID"

	OpHealth        = "health"
	OpCalculate     = "pricing.calculate"
	OpCartFetch     = "cart.fetch"
	OpCartAdd       = "cart.add"
	OpCartRemove    = "cart.remove"
	OpCartQuantity  = "cart.quantity"
	OpCartClear     = "cart.clear"
	OpCartPromote   = "cart.promote"
	maxErrorBodyLen = 512
)

// StatusError captures a non-2xx response from the pricing/cart API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded %d", e.Status)
}

// StatusCode exposes the upstream status to error dumps.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// Client talks to the pricing/cart HTTP API. It performs exactly one request
// per call and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.UpstreamMetrics
	now     func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds an API client from the backend config. A zero timeout
// leaves calls bounded only by the caller's context.
func NewClient(cfg config.BackendConfig, m *metrics.UpstreamMetrics, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.do(ctx, OpHealth, http.MethodGet, "/api/health", nil, nil); err != nil {
		return err
	}
	c.metrics.IncSuccess(OpHealth)
	return nil
}

// Calculate posts a configuration to the pricing endpoint. The response is
// returned as-is; success:false is not treated as a failure here.
func (c *Client) Calculate(ctx context.Context, req CalculationRequest) (CalculationResponse, error) {
	body, err := c.do(ctx, OpCalculate, http.MethodPost, "/api/calculations", nil, req)
	if err != nil {
		return CalculationResponse{}, err
	}
	var out CalculationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return CalculationResponse{}, c.fail(OpCalculate, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "invalid calculation response"))
	}
	c.metrics.IncSuccess(OpCalculate)
	return out, nil
}

func (c *Client) GetCart(ctx context.Context, cartID string) (CartSnapshot, error) {
	return c.cartCall(ctx, OpCartFetch, http.MethodGet, "/api/cart", cartID, nil)
}

func (c *Client) AddItem(ctx context.Context, cartID string, item AddItemRequest) (CartSnapshot, error) {
	return c.cartCall(ctx, OpCartAdd, http.MethodPost, "/api/cart", cartID, item)
}

func (c *Client) RemoveItem(ctx context.Context, cartID, itemID string) (CartSnapshot, error) {
	return c.cartCall(ctx, OpCartRemove, http.MethodDelete, "/api/cart/item/"+url.PathEscape(itemID), cartID, nil)
}

// UpdateQuantity forwards the quantity untouched; the server decides what a
// non-positive value means.
func (c *Client) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (CartSnapshot, error) {
	path := "/api/cart/item/" + url.PathEscape(itemID) + "/quantity"
	return c.cartCall(ctx, OpCartQuantity, http.MethodPut, path, cartID, quantityRequest{Quantity: quantity})
}

func (c *Client) ClearCart(ctx context.Context, cartID string) (CartSnapshot, error) {
	return c.cartCall(ctx, OpCartClear, http.MethodDelete, "/api/cart/clear", cartID, nil)
}

// SaveSessionCart promotes a session-scoped cart and returns its durable id.
func (c *Client) SaveSessionCart(ctx context.Context, sessionCartID string) (string, error) {
	headers := map[string]string{HeaderSessionCartID: sessionCartID}
	body, err := c.do(ctx, OpCartPromote, http.MethodPost, "/api/cart/save-session-cart", headers, struct{}{})
	if err != nil {
		return "", err
	}
	var out saveSessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", c.fail(OpCartPromote, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "invalid save-session-cart response"))
	}
	if !out.Success {
		return "", c.fail(OpCartPromote, rejected(out.Error, "cart could not be saved"))
	}
	if strings.TrimSpace(out.PersistentCartID) == "" {
		return "", c.fail(OpCartPromote, pkgerrors.New(pkgerrors.CodeMalformed, "save-session-cart response missing persistentCartId"))
	}
	c.metrics.IncSuccess(OpCartPromote)
	return out.PersistentCartID, nil
}

func (c *Client) cartCall(ctx context.Context, op, method, path, cartID string, payload any) (CartSnapshot, error) {
	headers := map[string]string{HeaderCartID: cartID}
	body, err := c.do(ctx, op, method, path, headers, payload)
	if err != nil {
		return CartSnapshot{}, err
	}
	var out cartResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return CartSnapshot{}, c.fail(op, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "invalid cart response"))
	}
	if !out.Success {
		return CartSnapshot{}, c.fail(op, rejected(out.Error, "cart request was not accepted"))
	}
	c.metrics.IncSuccess(op)
	return CartSnapshot{Items: out.Items, Totals: out.Totals}, nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, headers map[string]string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, c.fail(op, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request"))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, c.fail(op, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveDuration(op, c.now().Sub(start))
	if err != nil {
		return nil, c.fail(op, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pricing/cart service unreachable"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(op, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response body"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode, Body: truncate(string(body), maxErrorBodyLen)}
		typed := pkgerrors.Wrap(pkgerrors.CodeUpstream, statusErr, fmt.Sprintf("%s returned status %d", op, resp.StatusCode))
		if msg := apiErrorMessage(body); msg != "" {
			typed = typed.WithDetails(map[string]any{"upstreamError": msg})
		}
		return nil, c.fail(op, typed)
	}

	return body, nil
}

func (c *Client) fail(op string, err *pkgerrors.Error) error {
	c.metrics.IncFailure(op, string(err.Code()))
	return err
}

func rejected(apiMessage, fallback string) *pkgerrors.Error {
	msg := strings.TrimSpace(apiMessage)
	if msg == "" {
		msg = fallback
	}
	return pkgerrors.New(pkgerrors.CodeRejected, msg)
}

func apiErrorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return strings.TrimSpace(env.Error)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
