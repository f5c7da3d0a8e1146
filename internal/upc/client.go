// Package upc resolves barcodes to product metadata through a UPC lookup API
// that answers with {"items":[{"title","brand","images"}]}.
package upc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"simplyskin/platform/config"
	"simplyskin/platform/logger"
	"simplyskin/platform/retry"
	"simplyskin/platform/sanitize"
)

// ErrNotFound is returned when the barcode resolves to no product.
var ErrNotFound = errors.New("no product found for barcode")

// Product is the subset of a lookup item the application uses.
type Product struct {
	Title string
	Brand string
	Image string
}

// StatusError is returned for unexpected upstream statuses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upc lookup returned status %d", e.StatusCode)
}

// Transient reports whether a retry may succeed.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client is the HTTP client for the lookup API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	policy     retry.Policy
	log        *logger.Logger
}

// New creates a lookup client.
func New(cfg config.UPCConfig, policy retry.Policy, log *logger.Logger) *Client {
	timeout := cfg.GetUPCTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.GetUPCLookupURL(),
		apiKey:     cfg.GetUPCAPIKey(),
		policy:     policy,
		log:        log,
	}
}

// Lookup returns the first item for code, or ErrNotFound.
func (c *Client) Lookup(ctx context.Context, code string) (*Product, error) {
	var product *Product
	start := time.Now()
	err := c.policy.Do(ctx, c.log, "upc.lookup", func(ctx context.Context) error {
		p, err := c.doRequest(ctx, code)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	c.log.WithContext(ctx).UpstreamCall("upc", "lookup", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return product, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, code string) (*Product, error) {
	params := url.Values{}
	params.Set("upc", code)
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("user_key", c.apiKey)
		req.Header.Set("key_type", "3scale")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		// 400 is how the lookup API rejects codes with a bad check digit.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, ErrNotFound
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.WithContext(ctx).Warn("upc lookup upstream error", "status", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(body.Items) == 0 {
		return nil, ErrNotFound
	}
	return body.Items[0].toProduct(), nil
}

type lookupResponse struct {
	Code  string       `json:"code"`
	Total int          `json:"total"`
	Items []lookupItem `json:"items"`
}

type lookupItem struct {
	Title  string   `json:"title"`
	Brand  string   `json:"brand"`
	Images []string `json:"images"`
}

func (i lookupItem) toProduct() *Product {
	p := &Product{
		Title: sanitize.Text(i.Title),
		Brand: sanitize.Text(i.Brand),
	}
	for _, img := range i.Images {
		if img = strings.TrimSpace(img); img != "" {
			p.Image = img
			break
		}
	}
	return p
}
