// Package farelink is a client for the FareLink REST API, which owns buses, routes and currencies.
package farelink

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
	"time"

	"github.com/sirupsen/logrus"

	"farelink_admin/internal/models"
)

var (
	ErrRouteNotFound     = errors.New("route not found")
	ErrNoDefaultCurrency = errors.New("no default currency configured")
	ErrDeleteRejected    = errors.New("route deletion was not acknowledged")

	// ErrUnavailable wraps transport failures: the request never got an HTTP response.
	ErrUnavailable = errors.New("farelink api unavailable")
)

// APIError is a non-2xx response from the FareLink API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("farelink api: %d: %s", e.Status, e.Message)
}

// Client talks to the FareLink API on behalf of one admin.
// The zero value is not usable; use NewClient.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ListBuses returns the company's buses.
func (c *Client) ListBuses(ctx context.Context) ([]models.Bus, error) {
	var body struct {
		Buses []busWire `json:"buses"`
	}
	if err := c.do(ctx, http.MethodGet, "/buses", nil, &body); err != nil {
		return nil, err
	}
	buses := make([]models.Bus, 0, len(body.Buses))
	for _, b := range body.Buses {
		buses = append(buses, b.toModel())
	}
	return buses, nil
}

// ListRoutes returns every route with bus references normalized.
func (c *Client) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var body struct {
		Routes []routeWire `json:"routes"`
	}
	if err := c.do(ctx, http.MethodGet, "/routes", nil, &body); err != nil {
		return nil, err
	}
	routes := make([]models.Route, 0, len(body.Routes))
	for _, r := range body.Routes {
		routes = append(routes, r.toModel())
	}
	return routes, nil
}

// GetRoute finds one route in the route list; the API has no single-route endpoint.
func (c *Client) GetRoute(ctx context.Context, id string) (models.Route, error) {
	routes, err := c.ListRoutes(ctx)
	if err != nil {
		return models.Route{}, err
	}
	for _, r := range routes {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Route{}, fmt.Errorf("%w: %s", ErrRouteNotFound, id)
}

func (c *Client) CreateRoute(ctx context.Context, payload RoutePayload) (models.Route, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/routes", payload, &raw); err != nil {
		return models.Route{}, err
	}
	return decodeRoute(raw)
}

func (c *Client) UpdateRoute(ctx context.Context, id string, payload RoutePayload) (models.Route, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/routes/"+url.PathEscape(id), payload, &raw); err != nil {
		return models.Route{}, err
	}
	route, err := decodeRoute(raw)
	if err != nil {
		return models.Route{}, err
	}
	if route.ID == "" {
		route.ID = id
	}
	return route, nil
}

// DeleteRoute deletes a route; the API cascades to its sub-routes.
func (c *Client) DeleteRoute(ctx context.Context, id string) error {
	var body struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/routes/"+url.PathEscape(id), nil, &body); err != nil {
		return err
	}
	if body.Success != nil && !*body.Success {
		if body.Message != "" {
			return fmt.Errorf("%w: %s", ErrDeleteRejected, body.Message)
		}
		return ErrDeleteRejected
	}
	return nil
}

func (c *Client) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	var currencies []models.Currency
	if err := c.do(ctx, http.MethodGet, "/currencies", nil, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

// DefaultCurrency picks the currency fares are displayed in.
// Without a designated default, the base currency is used.
func DefaultCurrency(currencies []models.Currency) (models.Currency, error) {
	for _, cur := range currencies {
		if cur.IsDefault {
			return cur, nil
		}
	}
	return BaseCurrency(currencies)
}

// BaseCurrency picks the FX reference currency.
func BaseCurrency(currencies []models.Currency) (models.Currency, error) {
	for _, cur := range currencies {
		if cur.IsBase {
			return cur, nil
		}
	}
	return models.Currency{}, ErrNoDefaultCurrency
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
		logrus.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("farelink api request failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("farelink api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the server's message out of an error body, or falls back to a generic one.
func errorMessage(data []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("request failed with status %d (%s)", status, http.StatusText(status))
}
