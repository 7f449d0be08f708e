// Package courier is a minimal REST client for the Courier
// notification-list service: list membership for restock alerts and
// broadcast sends to a list.
//
// Courier API docs: https://www.courier.com/docs/reference/
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"gitlab.connectwisedev.com/storefront-service/pkg/config"
)

// ListID derives the restock list identifier for a product SKU. The
// "worstbuy.<sku>.restock" scheme is a stable external contract; list
// records created under it already exist in the hosted service.
func ListID(sku string) string {
	return fmt.Sprintf("worstbuy.%s.restock", sku)
}

// List is a subscriber list as reported by the service.
type List struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Created string `json:"created,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// Client calls the Courier REST API. It holds configuration only and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// New returns a Client using the credentials and endpoint in cfg.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.CourierBaseURL, "/"),
		authToken:  cfg.CourierAuthToken,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Subscribe adds the user to the list, creating the list on first use.
func (c *Client) Subscribe(ctx context.Context, listID, userID string) error {
	path := fmt.Sprintf("/lists/%s/subscriptions/%s", url.PathEscape(listID), url.PathEscape(userID))
	req, err := c.newRequest(ctx, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	return c.roundTrip(req, nil)
}

// Unsubscribe removes the user from the list.
func (c *Client) Unsubscribe(ctx context.Context, listID, userID string) error {
	path := fmt.Sprintf("/lists/%s/subscriptions/%s", url.PathEscape(listID), url.PathEscape(userID))
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return c.roundTrip(req, nil)
}

// ListsByRecipient returns every list the user is subscribed to.
func (c *Client) ListsByRecipient(ctx context.Context, userID string) ([]List, error) {
	path := fmt.Sprintf("/profiles/%s/lists", url.PathEscape(userID))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Results []List `json:"results"`
	}
	if err := c.roundTrip(req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// SendToList broadcasts a notification event with the given data to
// every subscriber of the list and returns the service-assigned message
// id. Each send carries a fresh idempotency key so a retried call is
// not delivered twice.
func (c *Client) SendToList(ctx context.Context, listID, event string, data map[string]any) (string, error) {
	body := struct {
		Event string         `json:"event"`
		List  string         `json:"list"`
		Data  map[string]any `json:"data,omitempty"`
	}{Event: event, List: listID, Data: data}

	req, err := c.newRequest(ctx, http.MethodPost, "/send/list", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Idempotency-Key", uuid.NewString())

	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := c.roundTrip(req, &out); err != nil {
		return "", err
	}
	return out.MessageID, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("courier: encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("courier: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("courier: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("courier: %s %s: unexpected status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("courier: %s %s: decoding response: %w", req.Method, req.URL.Path, err)
		}
	}
	return nil
}
