// Package api is the HTTP client for the restaurant directory REST API.
//
// Endpoints (relative to the configured base URL):
//
//	GET  list              {restaurants: [...]}
//	GET  search?q=<term>   {restaurants: [...]} or {error}
//	GET  detail/<id>       {restaurant: {...}}
//	POST review            {id, name, review} -> {customerReviews: [...]} or {error, message}
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"restobrowse/internal/types"
)

// DefaultPlaceholder is shown in place of a picture when a restaurant has none.
const DefaultPlaceholder = "vite.svg"

// Options configures a Client.
type Options struct {
	BaseURL     string
	MediaURL    string
	Placeholder string
	Timeout     time.Duration
	UserAgent   string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client talks to the directory API. It is safe for concurrent use;
// concurrent identical GETs share one request.
type Client struct {
	baseURL     string
	mediaURL    string
	placeholder string
	userAgent   string
	timeout     time.Duration
	http        *http.Client
	logger      *zap.Logger
	flight      singleflight.Group
}

// NewClient creates a client. BaseURL is required.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid api base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "restobrowse"
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		mediaURL:    opts.MediaURL,
		placeholder: placeholder,
		userAgent:   ua,
		timeout:     timeout,
		http:        httpClient,
		logger:      logger,
	}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches every restaurant.
func (c *Client) List(ctx context.Context) ([]types.Restaurant, error) {
	resp, err := get[listResponse](ctx, c, "list", nil)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return resp.Restaurants, nil
}

// Search asks the server for restaurants matching term.
func (c *Client) Search(ctx context.Context, term string) ([]types.Restaurant, error) {
	resp, err := get[listResponse](ctx, c, "search", url.Values{"q": {term}})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return resp.Restaurants, nil
}

// Detail fetches one restaurant including its menus and reviews.
func (c *Client) Detail(ctx context.Context, id string) (types.Restaurant, error) {
	resp, err := get[detailResponse](ctx, c, "detail/"+url.PathEscape(id), nil)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("restaurant %s: %w", id, err)
	}
	if resp.Restaurant == nil {
		return types.Restaurant{}, fmt.Errorf("restaurant %s: response has no restaurant", id)
	}
	return *resp.Restaurant, nil
}

// PostReview submits a review and returns the restaurant's full review list
// as stored by the server.
func (c *Client) PostReview(ctx context.Context, in types.ReviewInput) ([]types.Review, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review: %w", err)
	}
	var resp reviewResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("review", nil), body, &resp); err != nil {
		return nil, fmt.Errorf("post review for %s: %w", in.ID, err)
	}
	return resp.CustomerReviews, nil
}

// PictureURL returns the image URL for a restaurant picture, or the
// placeholder when it has none.
func (c *Client) PictureURL(pictureID string) string {
	return PictureURL(c.mediaURL, pictureID, c.placeholder)
}

// PictureURL joins the media base URL and a picture identifier. An empty
// identifier yields placeholder.
func PictureURL(mediaBase, pictureID, placeholder string) string {
	if pictureID == "" {
		return placeholder
	}
	return mediaBase + pictureID
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get issues a GET, sharing the request with concurrent callers for the same
// URL. The shared request runs detached from any one caller, bounded by the
// client timeout; each caller stops waiting when its own ctx is done.
func get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	u := c.endpoint(path, query)
	ch := c.flight.DoChan(u, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		var out T
		if err := c.do(rctx, http.MethodGet, u, nil, &out); err != nil {
			return out, err
		}
		return out, nil
	})

	select {
	case <-ctx.Done():
		c.logger.Debug("caller left in-flight request", zap.String("url", u))
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("shared in-flight request", zap.String("url", u))
		}
		out, _ := res.Val.(T)
		return out, res.Err
	}
}

// do performs one request and decodes the JSON envelope into out.
func (c *Client) do(ctx context.Context, method, u string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("url", u),
			zap.String("request_id", reqID),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("url", u),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(data, &env) == nil {
			se.Message = env.Message
		}
		return se
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if r, ok := out.(serverReporter); ok {
		return r.serverError()
	}
	return nil
}
