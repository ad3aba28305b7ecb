// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network implements the catalog API over HTTP.
package network

import (
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

	"github.com/google/uuid"
	"github.com/janderssonse/dex/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the public catalog API.
const DefaultBaseURL = "https://nestjs-pokedex-api.vercel.app"

// API paths.
const (
	itemsPath      = "/pokemons"
	categoriesPath = "/types"
)

// RequestIDHeader carries a per-request identifier for log correlation.
const RequestIDHeader = "X-Request-Id"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// HTTPClient implements domain.CatalogAPI.
type HTTPClient struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
	logger    *zap.Logger
	details   singleflight.Group
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *HTTPClient) {
		c.userAgent = userAgent
	}
}

// NewHTTPClient creates a catalog client for baseURL. A zero timeout waits indefinitely.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	client := &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		baseURL:   parsed,
		userAgent: "dex",
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the API origin the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

// ListItems fetches one page of items.
func (c *HTTPClient) ListItems(ctx context.Context, query domain.PageQuery) ([]domain.Item, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("perPage", strconv.Itoa(query.PerPage))

	if query.Name != "" {
		params.Set("name", query.Name)
	}

	if types := query.TypesParam(); types != "" {
		params.Set("types", types)
	}

	var items []domain.Item
	if err := c.getJSON(ctx, itemsPath, params, &items); err != nil {
		return nil, fmt.Errorf("list items (%s): %w", query, err)
	}

	if query.PerPage > 0 && len(items) > query.PerPage {
		return nil, fmt.Errorf("list items (%s): %w: %d items for perPage %d",
			query, domain.ErrInvalidResponse, len(items), query.PerPage)
	}

	return items, nil
}

// GetItem fetches a single item. Concurrent calls for the same id share one
// request. The shared request does not inherit the cancellation of whichever
// caller started it; each caller stops waiting when its own ctx is done and
// the request itself is bounded by the client timeout.
func (c *HTTPClient) GetItem(ctx context.Context, id int) (*domain.Item, error) {
	if id <= 0 {
		return nil, fmt.Errorf("get item %d: %w", id, domain.ErrItemNotFound)
	}

	sharedCtx := context.WithoutCancel(ctx)

	results := c.details.DoChan(strconv.Itoa(id), func() (any, error) {
		var item domain.Item
		if err := c.getJSON(sharedCtx, itemsPath+"/"+strconv.Itoa(id), nil, &item); err != nil {
			return nil, err
		}

		return &item, nil
	})

	var res singleflight.Result

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item %d: %w", id, ctx.Err())
	case res = <-results:
	}

	result, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}

	if shared {
		c.logger.Debug("item detail request shared", zap.Int("id", id))
	}

	item, ok := result.(*domain.Item)
	if !ok {
		return nil, fmt.Errorf("get item %d: %w", id, domain.ErrInvalidResponse)
	}

	itemCopy := *item

	return &itemCopy, nil
}

// ListCategories fetches the category reference set.
func (c *HTTPClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.getJSON(ctx, categoriesPath, nil, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (c *HTTPClient) endpoint(path string, params url.Values) string {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + path

	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	return endpoint.String()
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := c.endpoint(path, params)
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed",
			zap.String("request_id", requestID),
			zap.String("url", endpoint),
			zap.Error(err))

		return fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("catalog request",
		zap.String("request_id", requestID),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w (status %d)", domain.ErrItemNotFound, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w %d from %s", domain.ErrUnexpectedStatus, resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", domain.ErrNetworkFailure, err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%w: malformed JSON at offset %d", domain.ErrInvalidResponse, syntaxErr.Offset)
		}

		return fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}

	return nil
}
