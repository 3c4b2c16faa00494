// Package poller drives per-view refresh loops. A poller fetches once
// on start and then on a fixed interval, retaining the last good data
// through failed attempts so consumers can keep rendering stale values
// under an error banner.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Phase is the observable lifecycle state of a poller.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// FetchFunc produces a fresh value for the poller.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is the observable record a poller exposes. LastError and
// Data can be set at the same time: a failed refresh leaves the prior
// data in place.
type Snapshot[T any] struct {
	Data      T         `json:"data"`
	HasData   bool      `json:"hasData"`
	FetchedAt time.Time `json:"fetchedAt"`
	Loading   bool      `json:"loading"`
	Phase     Phase     `json:"phase"`
	LastError string    `json:"lastError,omitempty"`
}

// Stale reports whether the snapshot is showing data older than the
// most recent attempt, i.e. the last refresh failed.
func (s Snapshot[T]) Stale() bool {
	return s.HasData && s.LastError != ""
}

// Options configure a poller.
type Options[T any] struct {
	Name     string
	Interval time.Duration
	Fetch    FetchFunc[T]
	// OnSuccess is invoked outside the poller lock after each freshly
	// applied successful fetch. Optional.
	OnSuccess func(T)
}

// Poller owns one view's refresh loop.
type Poller[T any] struct {
	opts   Options[T]
	logger zerolog.Logger

	mu      sync.Mutex
	snap    Snapshot[T]
	issued  uint64
	applied uint64

	ctx        context.Context
	cancel     context.CancelFunc
	tickerStop chan struct{}
	auto       bool
}

// New constructs a poller. It does not fetch until Start is called.
func New[T any](opts Options[T], logger zerolog.Logger) *Poller[T] {
	if opts.Interval <= 0 {
		panic("poller interval must be positive")
	}
	if opts.Fetch == nil {
		panic("poller fetch func must be set")
	}
	return &Poller[T]{
		opts:   opts,
		logger: logger.With().Str("component", "poller").Str("view", opts.Name).Logger(),
		snap:   Snapshot[T]{Phase: PhaseIdle},
	}
}

// Start activates the poller: an immediate fetch followed by ticks on
// the fixed interval. Calling Start twice is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.ctx != nil {
		p.mu.Unlock()
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.auto = true
	p.startTickerLocked()
	p.mu.Unlock()

	p.trigger("start")
}

// Stop tears the poller down. In-flight responses arriving after Stop
// are discarded; no state mutation happens past this point.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	p.stopTickerLocked()
}

// Refresh forces an immediate fetch. The interval ticker keeps its own
// phase; a manual refresh does not reschedule it.
func (p *Poller[T]) Refresh() {
	p.trigger("manual")
}

// SetAutoRefresh enables or disables the interval ticker. Re-enabling
// starts a fresh period rather than resuming a paused countdown.
func (p *Poller[T]) SetAutoRefresh(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil || p.ctx.Err() != nil || enabled == p.auto {
		return
	}
	p.auto = enabled
	if enabled {
		p.startTickerLocked()
	} else {
		p.stopTickerLocked()
	}
	p.logger.Info().Bool("auto_refresh", enabled).Msg("auto refresh toggled")
}

// AutoRefresh reports whether the interval ticker is running.
func (p *Poller[T]) AutoRefresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.auto
}

// Snapshot returns a copy of the current observable state.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Interval returns the configured tick period.
func (p *Poller[T]) Interval() time.Duration {
	return p.opts.Interval
}

func (p *Poller[T]) startTickerLocked() {
	stop := make(chan struct{})
	p.tickerStop = stop
	ctx := p.ctx

	go func() {
		ticker := time.NewTicker(p.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				p.trigger("tick")
			}
		}
	}()
}

func (p *Poller[T]) stopTickerLocked() {
	if p.tickerStop != nil {
		close(p.tickerStop)
		p.tickerStop = nil
	}
}

// trigger issues one fetch attempt tagged with a monotonic sequence
// number. Overlapping attempts are allowed; apply keeps only the
// newest completion.
func (p *Poller[T]) trigger(reason string) {
	p.mu.Lock()
	if p.ctx == nil || p.ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.issued++
	seq := p.issued
	p.snap.Loading = true
	p.snap.Phase = PhaseLoading
	ctx := p.ctx
	p.mu.Unlock()

	p.logger.Debug().Str("reason", reason).Uint64("seq", seq).Msg("fetch started")

	go func() {
		data, err := p.opts.Fetch(ctx)
		p.apply(seq, data, err)
	}()
}

func (p *Poller[T]) apply(seq uint64, data T, err error) {
	p.mu.Lock()

	if p.ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	if seq <= p.applied {
		p.mu.Unlock()
		p.logger.Debug().Uint64("seq", seq).Msg("discarding stale completion")
		return
	}
	p.applied = seq
	p.snap.Loading = p.issued > seq

	if err != nil {
		p.snap.Phase = PhaseFailed
		p.snap.LastError = err.Error()
		// prior Data and FetchedAt stay visible
		p.mu.Unlock()
		p.logger.Warn().Err(err).Uint64("seq", seq).Msg("fetch failed")
		return
	}

	p.snap.Phase = PhaseReady
	p.snap.LastError = ""
	p.snap.Data = data
	p.snap.HasData = true
	p.snap.FetchedAt = time.Now().UTC()
	onSuccess := p.opts.OnSuccess
	p.mu.Unlock()

	if onSuccess != nil {
		onSuccess(data)
	}
}
