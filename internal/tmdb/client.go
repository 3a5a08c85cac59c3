package tmdb

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
)

const (
	// DefaultBaseURL is the public TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage is sent with every request unless overridden.
	DefaultLanguage = "fr"
	// DefaultTimeout bounds each upstream call.
	DefaultTimeout = 10 * time.Second
)

// StatusError reports a non-2xx answer from TMDB.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb api error: %s - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("tmdb api error: %s", e.Status)
}

// Client talks to the TMDB v3 API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, mostly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithLanguage sets the language parameter sent upstream.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a TMDB client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		language: DefaultLanguage,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Language returns the language sent with every request.
func (c *Client) Language() string {
	return c.language
}

type resultsEnvelope struct {
	Results json.RawMessage `json:"results"`
}

var emptyResults = json.RawMessage("[]")

// Discover calls /discover/movie with the given parameters and returns the
// results array.
func (c *Client) Discover(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.results(ctx, "discover/movie", params)
}

// Search calls /search/movie for query and returns the results array.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.results(ctx, "search/movie", params)
}

// Movie returns the full details document for id.
func (c *Client) Movie(ctx context.Context, id string) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := c.doRequest(ctx, "movie/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Videos returns the results array of /movie/{id}/videos.
func (c *Client) Videos(ctx context.Context, id string) (json.RawMessage, error) {
	return c.results(ctx, "movie/"+url.PathEscape(id)+"/videos", nil)
}

func (c *Client) results(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	var env resultsEnvelope
	if err := c.doRequest(ctx, endpoint, params, &env); err != nil {
		return nil, err
	}
	if len(env.Results) == 0 || string(env.Results) == "null" {
		return emptyResults, nil
	}
	return env.Results, nil
}

// doRequest performs an authenticated GET against the TMDB API.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)

	apiURL := c.baseURL + "/" + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return errors.New("create request: invalid tmdb url")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, api_key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    statusMessage(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusMessage extracts TMDB's status_message from an error body.
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.StatusMessage
}
