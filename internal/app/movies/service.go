package movies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrMissingQuery is returned when a search is attempted without terms.
	ErrMissingQuery = errors.New(`query parameter "query" is required`)
	// ErrUpstream wraps every failure of the movie metadata API.
	ErrUpstream = errors.New("upstream movie api failure")
)

// Upstream is the subset of the TMDB client the service relies on.
type Upstream interface {
	Discover(ctx context.Context, params url.Values) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Movie(ctx context.Context, id string) (json.RawMessage, error)
	Videos(ctx context.Context, id string) (json.RawMessage, error)
}

// Filter holds the optional discover filters. Empty fields are omitted.
type Filter struct {
	Genre  string
	Year   string
	Rating string
}

// Service describes the movie proxy operations used by HTTP handlers.
type Service interface {
	Discover(ctx context.Context, f Filter) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Details(ctx context.Context, id string) (json.RawMessage, error)
	Upcoming(ctx context.Context) (json.RawMessage, error)
	Videos(ctx context.Context, id string) (json.RawMessage, error)
}

type service struct {
	upstream Upstream
	now      func() time.Time
}

// Option customises the service.
type Option func(*service)

// WithClock overrides the clock used to compute the upcoming release window.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a movie Service on top of the given upstream client.
func New(up Upstream, opts ...Option) Service {
	s := &service{upstream: up, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Discover(ctx context.Context, f Filter) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	if f.Genre != "" {
		params.Set("with_genres", f.Genre)
	}
	if f.Year != "" {
		params.Set("primary_release_year", f.Year)
	}
	if f.Rating != "" {
		params.Set("vote_average_gte", f.Rating)
	}

	return upstreamResult(s.upstream.Discover(ctx, params))
}

func (s *service) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}
	return upstreamResult(s.upstream.Search(ctx, query))
}

func (s *service) Details(ctx context.Context, id string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return upstreamResult(s.upstream.Movie(ctx, id))
}

func (s *service) Upcoming(ctx context.Context) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("sort_by", "release_date.asc")
	params.Set("include_adult", "false")
	params.Set("primary_release_date.gte", s.now().UTC().Format(time.DateOnly))

	return upstreamResult(s.upstream.Discover(ctx, params))
}

func (s *service) Videos(ctx context.Context, id string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return upstreamResult(s.upstream.Videos(ctx, id))
}

// UpstreamError carries the failure reported by the metadata API. It matches
// ErrUpstream with errors.Is.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUpstream, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func upstreamResult(body json.RawMessage, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	return body, nil
}
