// Package contentful builds GraphQL queries for products and page
// content and calls out to the Contentful GraphQL API.
//
// Contentful GraphQL API docs:
// https://www.contentful.com/developers/docs/references/graphql/
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gitlab.connectwisedev.com/storefront-service/pkg/config"
)

var (
	// ErrTransport marks a failed HTTP exchange with the content API:
	// network error, timeout, or a non-2xx status.
	ErrTransport = errors.New("contentful: transport failure")

	// ErrUpstreamData marks a 2xx response whose payload cannot be
	// trusted: a GraphQL errors array, an undecodable body, or a
	// paginated collection whose items contradict its reported total.
	ErrUpstreamData = errors.New("contentful: inconsistent upstream data")
)

// Client issues read-only queries against one CMS space. It holds
// configuration only; a single Client is safe for concurrent use.
type Client struct {
	endpoint        string
	accessToken     string
	previewToken    string
	summaryPageSize int
	recentListSize  int
	httpClient      *http.Client
}

// New returns a Client for the space and credentials in cfg.
func New(cfg config.Config) *Client {
	return &Client{
		endpoint:        cfg.ContentfulBaseURL + "/" + cfg.ContentfulSpaceID,
		accessToken:     cfg.ContentfulAccessToken,
		previewToken:    cfg.ContentfulPreviewAccessToken,
		summaryPageSize: cfg.SummaryPageSize,
		recentListSize:  cfg.RecentListSize,
		httpClient:      &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type queryError struct {
	Message string `json:"message"`
}

// execute POSTs one GraphQL query and returns the data payload. The
// preview flag selects the preview access token. A response carrying a
// GraphQL errors array fails with ErrUpstreamData rather than handing
// back a partial data object.
func (c *Client) execute(ctx context.Context, query string, preview bool) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		Query string `json:"query"`
	}{query})
	if err != nil {
		return nil, fmt.Errorf("contentful: encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("contentful: building request: %w", err)
	}

	token := c.accessToken
	if preview {
		token = c.previewToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []queryError    `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamData, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamData, envelope.Errors[0].Message)
	}
	return envelope.Data, nil
}
