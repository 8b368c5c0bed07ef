package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/browsefilms/internal/config"
	"github.com/amaumene/browsefilms/internal/metrics"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amaumene/browsefilms/internal/services/tmdb"

// ErrFetchFailed is the only error callers ever see. The underlying cause
// (status code, transport or decode error) is logged, not returned.
var ErrFetchFailed = errors.New("Failed to fetch data from TMDB API")

// Client handles communication with the TMDB API
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
	tracer       trace.Tracer
	metrics      *metrics.Metrics
	logger       *logrus.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTracerProvider sets the provider spans are created from
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// WithMetrics records request counts and latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger, opts ...Option) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}
	if _, err := url.Parse(cfg.TMDBBaseURL); err != nil || cfg.TMDBBaseURL == "" {
		return nil, fmt.Errorf("invalid TMDB base URL %q", cfg.TMDBBaseURL)
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.TMDBBaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.TMDBImageBaseURL, "/"),
		apiKey:       cfg.TMDBAPIKey,
		httpClient:   &http.Client{Timeout: cfg.TMDBTimeout},
		tracer:       otel.GetTracerProvider().Tracer(tracerName),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// doRequest performs a GET against the TMDB API and decodes the JSON body
// into result. Any failure collapses to ErrFetchFailed.
func (c *Client) doRequest(ctx context.Context, endpoint, path string, params url.Values, result interface{}, attrs ...attribute.KeyValue) error {
	ctx, span := c.tracer.Start(ctx, "tmdb."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	start := time.Now()
	err := c.get(ctx, span, path, params, result)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).WithField("endpoint", endpoint).Error("API request failed")
	}
	c.metrics.ObserveTMDB(endpoint, outcome, time.Since(start))

	if err != nil {
		return ErrFetchFailed
	}
	return nil
}

func (c *Client) get(ctx context.Context, span trace.Span, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}

	c.logger.WithFields(logrus.Fields{
		"path":   path,
		"params": params.Encode(),
	}).Debug("Making TMDB API request")

	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ImageURL builds a poster/backdrop URL for the given size (e.g. "w500").
// An empty path yields an empty URL.
func (c *Client) ImageURL(path, size string) string {
	return ImageURL(c.imageBaseURL, path, size)
}

// ImageURL joins an image base URL, size and file path
func ImageURL(base, path, size string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}
