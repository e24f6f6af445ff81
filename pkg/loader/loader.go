// Package loader fetches a JSON collection from a REST endpoint and turns
// every outcome into a Result value.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for load operations.
var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagelist_loads_total",
		Help: "Total loads by outcome",
	}, []string{"outcome"})

	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagelist_load_duration_seconds",
		Help:    "Load duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	loadErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagelist_load_errors_total",
		Help: "Total load errors by class",
	}, []string{"class"})

	itemsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pagelist_items_loaded",
		Help: "Number of items returned by the last successful load",
	})
)

// Options configures a single load.
type Options struct {
	// Method overrides the HTTP method (default GET).
	Method string

	// Headers are added to the outbound request.
	Headers map[string]string
}

// Config holds the loader configuration.
type Config struct {
	// UserAgent is sent when the caller's headers carry none.
	UserAgent string

	// HTTPClient performs the request. It has no timeout by default; loads
	// end only through completion, failure or context cancellation.
	HTTPClient *http.Client
}

// DefaultConfig returns the default loader configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:  "pagelist/0.1.0",
		HTTPClient: &http.Client{},
	}
}

// Loader performs one request per Load call. It never retries and never
// caches.
type Loader struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new Loader.
func New(cfg Config) (*Loader, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Loader{
		httpClient: httpClient,
		config:     cfg,
		logger:     log.With().Str("component", "loader").Logger(),
	}, nil
}

// Load fetches rawURL and decodes the body as a JSON array of items.
// Failures never escape as Go errors; they are reported through
// Result.Err.
func (l *Loader) Load(ctx context.Context, rawURL string, opts Options) Result {
	startTime := time.Now()
	result := l.load(ctx, rawURL, opts)
	elapsed := time.Since(startTime)
	loadDuration.Observe(elapsed.Seconds())

	if result.OK() {
		loadsTotal.WithLabelValues("ok").Inc()
		itemsLoaded.Set(float64(len(result.Items)))
		l.logger.Info().
			Str("url", rawURL).
			Int("items", len(result.Items)).
			Dur("duration", elapsed).
			Msg("Load succeeded")
		return result
	}

	loadsTotal.WithLabelValues("error").Inc()
	loadErrorsTotal.WithLabelValues(string(result.Err.Class)).Inc()

	level := zerolog.ErrorLevel
	switch result.Err.Class {
	case ClassStatus:
		level = zerolog.WarnLevel
	case ClassCanceled:
		level = zerolog.DebugLevel
	}
	ev := l.logger.WithLevel(level).Err(result.Err.Err)
	if result.Err.StatusCode != 0 {
		ev = ev.Int("status_code", result.Err.StatusCode)
	}
	ev.Str("url", rawURL).
		Str("error_class", string(result.Err.Class)).
		Dur("duration", elapsed).
		Msg("Load failed")

	return result
}

func (l *Loader) load(ctx context.Context, rawURL string, opts Options) Result {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return Failure(ClassNetwork, 0, describe(err), fmt.Errorf("create request: %w", err))
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", l.config.UserAgent)
	}

	l.logger.Debug().
		Str("url", rawURL).
		Str("method", method).
		Msg("Executing load request")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Failure(ClassCanceled, 0, ctxErr.Error(), err)
		}
		return Failure(ClassNetwork, 0, describe(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(ClassStatus, resp.StatusCode, StatusMessage,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	items, err := decodeItems(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Failure(ClassCanceled, 0, ctxErr.Error(), err)
		}
		return Failure(ClassDecode, 0, describe(err), fmt.Errorf("decode body: %w", err))
	}

	return Success(items)
}

// decodeItems reads exactly one JSON array from r. Anything other than
// whitespace after it makes the whole body malformed.
func decodeItems(r io.Reader) ([]Item, error) {
	dec := json.NewDecoder(r)

	var items []Item
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after JSON array")
		}
		return nil, err
	}
	return items, nil
}

// describe returns the innermost useful description of a transport error,
// dropping the "Get \"url\": " prefix net/http adds.
func describe(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
