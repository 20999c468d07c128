package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/metrics"
)

// Job names
const (
	JobRaces   = "races"
	JobBets    = "bets"
	JobSession = "session"
)

// EventKind classifies what a polling job noticed
type EventKind string

const (
	EventNextRace       EventKind = "next_race"
	EventBetScored      EventKind = "bet_scored"
	EventSessionExpired EventKind = "session_expired"
)

// Event is a change noticed by a polling job
type Event struct {
	Kind    EventKind   `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
	At      time.Time   `json:"at" yaml:"at"`
	Race    *models.GP  `json:"race,omitempty" yaml:"race,omitempty"`
	Bet     *models.Bet `json:"bet,omitempty" yaml:"bet,omitempty"`
}

// RaceSource returns the next Grand Prix
type RaceSource interface {
	NextGP(ctx context.Context) (*models.GP, error)
}

// BetSource returns the caller's bets
type BetSource interface {
	MyBets(ctx context.Context) ([]models.Bet, error)
}

// SessionSource reports whether the session is still authenticated. Reading it detects
// token expiry.
type SessionSource interface {
	IsAuthenticated() bool
}

// Schedules holds the cron specs of the watch jobs
type Schedules struct {
	Races   string
	Bets    string
	Session string
	Timeout time.Duration
}

// Watcher polls the API for changes worth telling the user about
type Watcher struct {
	races   RaceSource
	bets    BetSource
	session SessionSource
	loc     *time.Location
	now     func() time.Time
	notify  func(Event)

	mu       sync.Mutex
	nextRace string
	scored   map[int]bool
	primed   bool
	expired  bool
}

// NewWatcher creates a watcher. notify receives every event and may be called from
// scheduler goroutines.
func NewWatcher(races RaceSource, bets BetSource, session SessionSource, loc *time.Location, notify func(Event)) *Watcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Watcher{
		races:   races,
		bets:    bets,
		session: session,
		loc:     loc,
		now:     time.Now,
		notify:  notify,
		scored:  make(map[int]bool),
	}
}

// SetClock replaces the clock used to stamp events
func (w *Watcher) SetClock(now func() time.Time) {
	w.now = now
}

// Register schedules the watcher's jobs on s
func (w *Watcher) Register(s *Scheduler, sched Schedules) error {
	jobs := []struct {
		name string
		spec string
		fn   JobFunc
	}{
		{JobRaces, sched.Races, w.PollRaces},
		{JobBets, sched.Bets, w.PollBets},
		{JobSession, sched.Session, w.PollSession},
	}
	for _, job := range jobs {
		if err := s.AddJob(job.name, job.spec, sched.Timeout, job.fn); err != nil {
			return err
		}
	}
	return nil
}

// PollRaces fetches the next Grand Prix and reports when it changes
func (w *Watcher) PollRaces(ctx context.Context) error {
	gp, err := w.races.NextGP(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("polling next race: %w", err)
	}

	if start, err := gp.StartsAt(w.loc); err == nil {
		metrics.UpdateNextRaceStart(float64(start.Unix()))
	}

	w.mu.Lock()
	changed := gp.ID != w.nextRace
	w.nextRace = gp.ID
	w.mu.Unlock()

	if changed {
		race := *gp
		w.emit(Event{Kind: EventNextRace, Message: "Next race: " + gp.Label(), Race: &race})
	}
	return nil
}

// PollBets fetches the caller's bets and reports bets that became scored. The first
// poll only records what is already scored.
func (w *Watcher) PollBets(ctx context.Context) error {
	if w.session != nil && !w.session.IsAuthenticated() {
		return nil
	}

	bets, err := w.bets.MyBets(ctx)
	if err != nil {
		return fmt.Errorf("polling bets: %w", err)
	}

	w.mu.Lock()
	var fresh []models.Bet
	for i := range bets {
		if !bets[i].IsScored() || w.scored[bets[i].ID] {
			continue
		}
		w.scored[bets[i].ID] = true
		if w.primed {
			fresh = append(fresh, bets[i])
		}
	}
	w.primed = true
	w.mu.Unlock()

	for i := range fresh {
		bet := fresh[i]
		w.emit(Event{
			Kind:    EventBetScored,
			Message: fmt.Sprintf("%s scored %s points", bet.GP.Label(), bet.TotalPoints().String()),
			Bet:     &bet,
		})
	}
	return nil
}

// PollSession reports, once, that the session has ended
func (w *Watcher) PollSession(_ context.Context) error {
	if w.session == nil {
		return nil
	}

	authenticated := w.session.IsAuthenticated()

	w.mu.Lock()
	report := !authenticated && !w.expired
	w.expired = !authenticated
	w.mu.Unlock()

	if report {
		w.emit(Event{Kind: EventSessionExpired, Message: "Session ended: run p10 login"})
	}
	return nil
}

func (w *Watcher) emit(ev Event) {
	if w.notify == nil {
		return
	}
	ev.At = w.now()
	w.notify(ev)
}
