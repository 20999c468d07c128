package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// steppingClock advances by one second on every read
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}

type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) emit(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) snapshot() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

func waitDone(t *testing.T, ticker *Ticker, within time.Duration) {
	t.Helper()
	select {
	case <-ticker.Done():
	case <-time.After(within):
		t.Fatal("ticker did not stop in time")
	}
}

func TestTickerStopsOnExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)

	base := time.Date(2025, 5, 25, 12, 59, 58, 0, time.UTC)
	clock := &steppingClock{now: base}
	rec := &recorder{}

	ticker := NewTicker(base.Add(2*time.Second), rec.emit, WithTickerClock(clock.Now))
	require.NoError(t, ticker.Start())
	waitDone(t, ticker, 5*time.Second)

	assert.Equal(t, []Result{
		{Seconds: 2},
		{Seconds: 1},
		{Expired: true},
	}, rec.snapshot())

	ticker.Stop()
}

func TestTickerStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}

	ticker := NewTicker(now.Add(90061*time.Second), rec.emit, WithTickerClock(func() time.Time { return now }))
	require.NoError(t, ticker.Start())
	ticker.Stop()
	ticker.Stop()
	waitDone(t, ticker, time.Second)

	results := rec.snapshot()
	require.NotEmpty(t, results)
	assert.Equal(t, Result{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}, results[0])

	count := len(results)
	time.Sleep(1100 * time.Millisecond)
	assert.Len(t, rec.snapshot(), count, "no results after Stop")
}

func TestTickerPastTarget(t *testing.T) {
	defer goleak.VerifyNone(t)

	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}

	ticker := NewTicker(now.Add(-time.Second), rec.emit, WithTickerClock(func() time.Time { return now }))
	require.NoError(t, ticker.Start())
	waitDone(t, ticker, time.Second)

	assert.Equal(t, []Result{{Expired: true}}, rec.snapshot())
}

func TestTickerLifecycleErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	ticker := NewTicker(now.Add(time.Hour), nil, WithTickerClock(func() time.Time { return now }))

	require.NoError(t, ticker.Start())
	assert.ErrorIs(t, ticker.Start(), ErrTickerStarted)
	ticker.Stop()
	assert.ErrorIs(t, ticker.Start(), ErrTickerStopped)

	unstarted := NewTicker(now.Add(time.Hour), nil)
	unstarted.Stop()
	waitDone(t, unstarted, time.Second)
}
