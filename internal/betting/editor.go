package betting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/p10-paddock/internal/logger"
	"github.com/yourusername/p10-paddock/internal/metrics"
	"github.com/yourusername/p10-paddock/internal/models"
)

// BetAPI is the part of the API client the editor needs
type BetAPI interface {
	MyBets(ctx context.Context) ([]models.Bet, error)
	CreateBet(ctx context.Context, sel models.BetSelection) (*models.Bet, error)
	UpdateBet(ctx context.Context, betID int, p10ID, dnfID *int) (*models.Bet, error)
	DeleteBet(ctx context.Context, betID int) error
}

// ActivityRecorder receives completed bet mutations
type ActivityRecorder interface {
	LogBetSubmitted(action, raceID string, betID, p10ID, dnfID int)
	LogBetDeleted(raceID string, betID int)
}

// Editor holds the edit buffer for one race. Local state only changes after the server
// has confirmed a mutation.
type Editor struct {
	api      BetAPI
	race     models.GP
	loc      *time.Location
	now      func() time.Time
	logger   *logrus.Entry
	activity ActivityRecorder

	mu          sync.Mutex
	loaded      bool
	existing    *models.Bet
	selectedP10 *int
	selectedDNF *int
}

// EditorOption configures an Editor
type EditorOption func(*Editor)

// WithLocation sets the zone used to interpret bare race clocks
func WithLocation(loc *time.Location) EditorOption {
	return func(e *Editor) {
		e.loc = loc
	}
}

// WithEditorClock overrides the clock used to decide whether betting is closed
func WithEditorClock(now func() time.Time) EditorOption {
	return func(e *Editor) {
		e.now = now
	}
}

// WithActivity records mutations to an activity log
func WithActivity(activity ActivityRecorder) EditorOption {
	return func(e *Editor) {
		e.activity = activity
	}
}

// WithEditorLogger sets the logger
func WithEditorLogger(log *logrus.Logger) EditorOption {
	return func(e *Editor) {
		if log != nil {
			e.logger = log.WithField("component", "betting")
		}
	}
}

// NewEditor creates an editor for race
func NewEditor(api BetAPI, race models.GP, opts ...EditorOption) *Editor {
	e := &Editor{
		api:    api,
		race:   race,
		loc:    time.UTC,
		now:    time.Now,
		logger: logger.Silent().WithField("component", "betting"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Race returns the race being edited
func (e *Editor) Race() models.GP {
	return e.race
}

// Load fetches the caller's bets and seeds the edit buffer from the one on this race
func (e *Editor) Load(ctx context.Context) (Reconciliation, error) {
	bets, err := e.api.MyBets(ctx)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("load bets: %w", err)
	}

	rec := Reconcile(bets, e.race.ID)

	e.mu.Lock()
	e.loaded = true
	e.existing = rec.Existing
	e.selectedP10 = copyInt(rec.InitialP10)
	e.selectedDNF = copyInt(rec.InitialDNF)
	e.mu.Unlock()

	e.logger.WithFields(logrus.Fields{
		"race_id":  e.race.ID,
		"bets":     len(bets),
		"existing": rec.Existing != nil,
	}).Debug("Bets reconciled")
	return rec, nil
}

// SelectP10 sets the driver predicted to finish tenth
func (e *Editor) SelectP10(piloteID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectedP10 = &piloteID
}

// SelectDNF sets the driver predicted to retire first
func (e *Editor) SelectDNF(piloteID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectedDNF = &piloteID
}

// Existing returns the bet already placed on the race, nil when there is none
func (e *Editor) Existing() *models.Bet {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.existing == nil {
		return nil
	}
	b := *e.existing
	return &b
}

// Selection returns the current edit buffer
func (e *Editor) Selection() (p10, dnf *int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyInt(e.selectedP10), copyInt(e.selectedDNF)
}

// Open reports whether bets are still accepted for the race
func (e *Editor) Open() bool {
	return !e.race.IsPast(e.now(), e.loc)
}

// Submit creates the bet, or updates the existing one, then re-fetches and reconciles
// the caller's bets.
func (e *Editor) Submit(ctx context.Context) (*models.Bet, error) {
	e.mu.Lock()
	loaded := e.loaded
	existing := e.existing
	p10, dnf := copyInt(e.selectedP10), copyInt(e.selectedDNF)
	e.mu.Unlock()

	if !loaded {
		return nil, ErrNotLoaded
	}
	if p10 == nil || dnf == nil {
		return nil, ErrIncompleteSelection
	}
	if !e.Open() {
		return nil, ErrBettingClosed
	}

	action := "create"
	var (
		bet *models.Bet
		err error
	)
	if existing == nil {
		bet, err = e.api.CreateBet(ctx, models.BetSelection{RaceID: e.race.ID, P10ID: *p10, DNFID: *dnf})
	} else {
		action = "update"
		bet, err = e.api.UpdateBet(ctx, existing.ID, p10, dnf)
	}
	if err != nil {
		metrics.RecordBetMutation(action, "error")
		return nil, fmt.Errorf("%s bet: %w", action, err)
	}
	metrics.RecordBetMutation(action, "success")

	betID := 0
	if bet != nil {
		betID = bet.ID
	} else if existing != nil {
		betID = existing.ID
	}
	if e.activity != nil {
		e.activity.LogBetSubmitted(action, e.race.ID, betID, *p10, *dnf)
	}

	rec, err := e.Load(ctx)
	if err != nil {
		return bet, err
	}
	if rec.Existing != nil {
		return rec.Existing, nil
	}
	return bet, nil
}

// Delete removes the existing bet. Once the server has answered without error the edit
// buffer is cleared whatever the response body, then the bets are re-fetched.
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	loaded := e.loaded
	existing := e.existing
	e.mu.Unlock()

	if !loaded {
		return ErrNotLoaded
	}
	if existing == nil {
		return ErrNoExistingBet
	}

	if err := e.api.DeleteBet(ctx, existing.ID); err != nil {
		metrics.RecordBetMutation("delete", "error")
		return fmt.Errorf("delete bet: %w", err)
	}
	metrics.RecordBetMutation("delete", "success")

	e.mu.Lock()
	e.existing = nil
	e.selectedP10 = nil
	e.selectedDNF = nil
	e.mu.Unlock()

	if e.activity != nil {
		e.activity.LogBetDeleted(e.race.ID, existing.ID)
	}

	_, err := e.Load(ctx)
	return err
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
