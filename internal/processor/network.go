package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"web-a11y/internal/config"
)

const initialBackoff = 1 * time.Second

// ErrPageUnavailable is returned when every fetch attempt failed.
var ErrPageUnavailable = errors.New("page unavailable")

type pageLoader struct {
	client         *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBytes       int64
}

func newPageLoader(cfg config.Config) *pageLoader {
	retries := cfg.FetchRetries
	if retries < 1 {
		retries = 1
	}
	return &pageLoader{
		client:         &http.Client{Timeout: cfg.FetchTimeout},
		maxRetries:     retries,
		initialBackoff: initialBackoff,
		maxBytes:       cfg.MaxBodyBytes,
	}
}

// load fetches pageURL, retrying failed attempts with exponential backoff.
func (l *pageLoader) load(ctx context.Context, logger *slog.Logger, pageURL string) ([]byte, error) {
	logger = logger.With(slog.String("page_url", pageURL))
	logger.DebugContext(ctx, "Starting to load web page")

	var failures []error
retry:
	for i := 0; i < l.maxRetries; i++ {
		attempt := i + 1
		logger.DebugContext(ctx, "Attempting to fetch page", slog.Int("attempt", attempt))

		body, status, err := l.fetch(ctx, pageURL)
		if err == nil {
			logger.InfoContext(ctx, "Successfully fetched page",
				slog.Int("status_code", status),
				slog.Int("attempt", attempt),
				slog.Int("bytes", len(body)),
			)
			return body, nil
		}
		failures = append(failures, fmt.Errorf("attempt %d: %w", attempt, err))

		if ctx.Err() != nil {
			break
		}

		if i < l.maxRetries-1 {
			backoffDuration := l.initialBackoff * time.Duration(math.Pow(2, float64(i)))
			logger.WarnContext(ctx, "Fetch attempt failed, retrying...",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
				slog.Int("status_code", status),
				slog.Duration("backoff_duration", backoffDuration),
			)
			select {
			case <-ctx.Done():
				failures = append(failures, ctx.Err())
				break retry
			case <-time.After(backoffDuration):
			}
		}
	}

	err := fmt.Errorf("%w: %s: %w", ErrPageUnavailable, pageURL, errors.Join(failures...))
	logger.ErrorContext(ctx, "Failed to fetch page after all attempts",
		slog.Int("max_retries", l.maxRetries),
		slog.Any("last_error", err),
	)
	return nil, err
}

func (l *pageLoader) fetch(ctx context.Context, pageURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}

	reader := io.Reader(resp.Body)
	if l.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, l.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if l.maxBytes > 0 && int64(len(body)) > l.maxBytes {
		return nil, resp.StatusCode, fmt.Errorf("body exceeds %d bytes", l.maxBytes)
	}
	return body, resp.StatusCode, nil
}
