package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"edujobs/aggregator/internal/model"
)

const (
	defaultLiveTimeout = 15 * time.Second
	maxLiveBody        = 32 << 20
)

// ErrLiveStatus is returned when the endpoint answers with a non-200 status.
var ErrLiveStatus = errors.New("live endpoint returned unexpected status")

// Live fetches already-flattened postings from the live aggregation
// endpoint. If the URL is empty, Fetch returns (nil, nil) and the refresh
// cycle simply runs without live data.
type Live struct {
	name   string
	url    string
	client *http.Client
}

// NewLive constructs a Live source with its own HTTP client.
func NewLive(name, url string, timeout time.Duration) *Live {
	if timeout <= 0 {
		timeout = defaultLiveTimeout
	}
	if name == "" {
		name = url
	}
	return &Live{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in logs.
func (l *Live) Name() string { return l.name }

// Fetch GETs the endpoint and decodes its JSON body.
func (l *Live) Fetch(ctx context.Context) ([]model.RawJob, error) {
	if l.url == "" {
		slog.Debug("live endpoint not configured, skipping", "source", l.name)
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLiveBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrLiveStatus, resp.StatusCode)
	}

	jobs, err := DecodeJobs(body)
	if err != nil {
		return nil, fmt.Errorf("decode live response: %w", err)
	}
	return jobs, nil
}
