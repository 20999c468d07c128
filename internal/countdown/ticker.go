package countdown

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/p10-paddock/internal/logger"
	"github.com/yourusername/p10-paddock/internal/metrics"
)

// TickSpec is the cron schedule of the countdown refresh
const TickSpec = "@every 1s"

var (
	// ErrTickerStarted is returned when Start is called twice
	ErrTickerStarted = errors.New("countdown ticker already started")
	// ErrTickerStopped is returned when Start is called after the ticker stopped
	ErrTickerStopped = errors.New("countdown ticker already stopped")
)

// Ticker recomputes a countdown once per second and hands each Result to a callback.
// It stops itself once the target is reached, or when Stop is called, whichever comes
// first.
type Ticker struct {
	cron    *cron.Cron
	target  time.Time
	now     func() time.Time
	emit    func(Result)
	logger  *logrus.Entry
	mu      sync.Mutex
	started bool
	stopCtx context.Context
	done    chan struct{}
}

// TickerOption configures a Ticker
type TickerOption func(*Ticker)

// WithTickerClock overrides the clock used to compute each Result
func WithTickerClock(now func() time.Time) TickerOption {
	return func(t *Ticker) {
		t.now = now
	}
}

// WithTickerLogger sets the logger
func WithTickerLogger(logger *logrus.Logger) TickerOption {
	return func(t *Ticker) {
		if logger != nil {
			t.logger = logger.WithField("component", "countdown")
		}
	}
}

// NewTicker creates a stopped ticker counting down to target
func NewTicker(target time.Time, emit func(Result), opts ...TickerOption) *Ticker {
	t := &Ticker{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target: target,
		now:    time.Now,
		emit:   emit,
		logger: logger.Silent().WithField("component", "countdown"),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start emits the current Result and schedules the refresh. A target already in the
// past emits one Expired result and stops immediately.
func (t *Ticker) Start() error {
	t.mu.Lock()
	if t.stopCtx != nil {
		t.mu.Unlock()
		return ErrTickerStopped
	}
	if t.started {
		t.mu.Unlock()
		return ErrTickerStarted
	}
	t.started = true
	t.mu.Unlock()

	if expired := t.tick(); expired {
		return nil
	}

	if _, err := t.cron.AddFunc(TickSpec, func() { t.tick() }); err != nil {
		t.halt()
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopCtx != nil {
		return nil
	}
	t.cron.Start()
	t.logger.WithField("target", t.target).Debug("Countdown started")
	return nil
}

// Stop cancels the refresh and waits for a running tick to finish. Safe to call more than
// once. It must not be called from the emit callback.
func (t *Ticker) Stop() {
	<-t.halt().Done()
	<-t.done
}

// Done is closed once the ticker has stopped and no tick is running
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

func (t *Ticker) tick() bool {
	t.mu.Lock()
	stopped := t.stopCtx != nil
	t.mu.Unlock()
	if stopped {
		return true
	}

	result := Calculate(t.target, t.now())
	metrics.CountdownTicksTotal.Inc()
	metrics.CountdownSecondsRemaining.Set(remainingSeconds(result))

	if t.emit != nil {
		t.emit(result)
	}

	if result.Expired {
		t.logger.Debug("Countdown reached zero")
		t.halt()
	}
	return result.Expired
}

// halt stops the cron scheduler without waiting; it may run inside a job
func (t *Ticker) halt() context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopCtx == nil {
		t.stopCtx = t.cron.Stop()
		ctx := t.stopCtx
		go func() {
			<-ctx.Done()
			close(t.done)
		}()
	}
	return t.stopCtx
}

func remainingSeconds(r Result) float64 {
	if r.Expired {
		return 0
	}
	return float64(((r.Days*24+r.Hours)*60+r.Minutes)*60 + r.Seconds)
}
