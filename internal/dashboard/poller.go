// Package dashboard keeps a periodically refreshed aggregate of the backend's
// request and error counters.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/telemetry"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultFetchTimeout = 5 * time.Second
)

// ErrFetchInFlight is returned by Refresh when another fetch has not finished.
var ErrFetchInFlight = errors.New("dashboard: metrics fetch already in flight")

// Source fetches raw exposition text. *mcp.Proxy satisfies it.
type Source interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Snapshot is the latest aggregate plus the state of the most recent fetch.
// After a failed fetch the previous summaries are kept and Stale is set.
type Snapshot struct {
	Endpoints     []telemetry.Summary `json:"endpoints"`
	TotalRequests float64             `json:"total_requests"`
	TotalErrors   float64             `json:"total_errors"`
	Samples       int                 `json:"samples"`
	FetchedAt     time.Time           `json:"fetched_at,omitzero"`
	LastAttempt   time.Time           `json:"last_attempt,omitzero"`
	LastError     string              `json:"last_error,omitempty"`
	Stale         bool                `json:"stale"`
}

// PollerConfig controls the metrics poller.
type PollerConfig struct {
	Source   Source
	Path     string
	Interval time.Duration
	Timeout  time.Duration
	Logger   *common.Logger
	Now      func() time.Time
}

// Poller fetches the metrics endpoint on an interval and aggregates it.
type Poller struct {
	source   Source
	path     string
	interval time.Duration
	timeout  time.Duration
	logger   *common.Logger
	now      func() time.Time

	fetching chan struct{}

	mu       sync.RWMutex
	snapshot Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewPoller creates a poller. Zero interval and timeout take defaults.
func NewPoller(cfg PollerConfig) (*Poller, error) {
	if cfg.Source == nil {
		return nil, errors.New("dashboard: poller source is nil")
	}
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = common.NewSilentLogger()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	return &Poller{
		source:   cfg.Source,
		path:     cfg.Path,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		now:      cfg.Now,
		fetching: make(chan struct{}, 1),
		snapshot: Snapshot{Endpoints: []telemetry.Summary{}},
	}, nil
}

// Start fetches once immediately and then on every interval until Stop.
// Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	p.logger.Info().Str("path", p.path).Dur("interval", p.interval).Msg("metrics poller started")

	go func() {
		defer close(done)
		p.poll(loopCtx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				p.poll(loopCtx)
			}
		}
	}()
}

// Stop cancels any fetch in progress and waits for the loop to exit, or for ctx.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		p.logger.Info().Msg("metrics poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) poll(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && !errors.Is(err, ErrFetchInFlight) {
		p.logger.Warn().Err(err).Str("path", p.path).Msg("metrics fetch failed, keeping previous aggregate")
	}
}

// Refresh performs one fetch, parse and aggregate. Only one fetch runs at a
// time; a concurrent call returns ErrFetchInFlight without touching the snapshot.
func (p *Poller) Refresh(ctx context.Context) error {
	select {
	case p.fetching <- struct{}{}:
	default:
		return ErrFetchInFlight
	}
	defer func() { <-p.fetching }()

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	attempted := p.now()
	body, err := p.source.Get(fetchCtx, p.path)
	if err != nil {
		p.mu.Lock()
		p.snapshot.LastAttempt = attempted
		p.snapshot.LastError = err.Error()
		p.snapshot.Stale = true
		p.mu.Unlock()
		return fmt.Errorf("fetch %s: %w", p.path, err)
	}

	samples := telemetry.Parse(string(body))
	summaries := telemetry.Aggregate(samples)
	requests, errs := telemetry.Totals(summaries)

	p.mu.Lock()
	p.snapshot = Snapshot{
		Endpoints:     telemetry.Sorted(summaries),
		TotalRequests: requests,
		TotalErrors:   errs,
		Samples:       len(samples),
		FetchedAt:     attempted,
		LastAttempt:   attempted,
	}
	p.mu.Unlock()

	p.logger.Debug().Int("samples", len(samples)).Int("endpoints", len(summaries)).Msg("metrics aggregated")
	return nil
}

// Snapshot returns a copy of the latest state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap := p.snapshot
	snap.Endpoints = append([]telemetry.Summary(nil), p.snapshot.Endpoints...)
	if snap.Endpoints == nil {
		snap.Endpoints = []telemetry.Summary{}
	}
	return snap
}
