package main

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/p10-paddock/internal/api"
	"github.com/yourusername/p10-paddock/internal/countdown"
	"github.com/yourusername/p10-paddock/internal/health"
	"github.com/yourusername/p10-paddock/internal/metrics"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
	"github.com/yourusername/p10-paddock/internal/scheduler"
	"github.com/yourusername/p10-paddock/internal/session"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep polling for the next race, scored bets and session expiry",
		Long: `Runs until interrupted. Schedules come from the watch section of the
configuration; with watch.metrics_enabled the health and Prometheus endpoints are served.
Without a session and with aws.secrets_enabled, it logs in with the stored credentials first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.IsAuthenticated() && a.cfg.AWS.SecretsEnabled {
				if _, err := a.loginFromSecrets(cmd.Context()); err != nil {
					return err
				}
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			return a.watch(cmd.Context())
		},
	}
}

func (a *app) watch(ctx context.Context) error {
	sched := scheduler.NewScheduler(a.log,
		scheduler.WithLocation(a.loc),
		scheduler.WithGracefulTimeout(a.cfg.ShutdownTimeout()),
	)

	var races *raceCountdown
	if a.cfg.Watch.CountdownEnabled {
		races = &raceCountdown{app: a}
		defer races.stop()
	}

	var mu sync.Mutex
	watcher := scheduler.NewWatcher(a.client, a.client, a.store, a.loc, func(ev scheduler.Event) {
		mu.Lock()
		a.printEvent(ev)
		mu.Unlock()
		if ev.Kind == scheduler.EventNextRace && races != nil {
			races.restart(ev.Race)
		}
	})
	watcher.SetClock(a.now)

	if err := watcher.Register(sched, scheduler.Schedules{
		Races:   a.cfg.Watch.RacesSchedule,
		Bets:    a.cfg.Watch.BetsSchedule,
		Session: a.cfg.Watch.SessionSchedule,
		Timeout: a.cfg.APITimeout(),
	}); err != nil {
		return err
	}

	if a.cfg.Watch.MetricsEnabled {
		srv := a.healthServer()
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Shutdown()
		srv.SetReady(true)
		a.out.Message("Serving metrics on %s%s", srv.Addr(), a.cfg.Watch.MetricsPath)
	}

	for _, job := range []string{scheduler.JobSession, scheduler.JobRaces, scheduler.JobBets} {
		if err := sched.RunNow(job); err != nil {
			return err
		}
	}
	if err := sched.Start(); err != nil {
		return err
	}
	a.out.Message("Watching. Press Ctrl+C to stop.")

	<-ctx.Done()
	return sched.Stop()
}

func (a *app) healthServer() *health.Server {
	return health.NewServer(health.Config{
		ServiceName:     a.cfg.App.Name,
		Version:         Version,
		Address:         a.cfg.Watch.MetricsAddress,
		MetricsPath:     a.cfg.Watch.MetricsPath,
		Metrics:         metrics.Handler(),
		ShutdownTimeout: a.cfg.ShutdownTimeout(),
		Logger:          a.log,
		Checks: map[string]health.Checker{
			"api": health.CheckFunc(func(context.Context) error {
				if a.client.CircuitOpen() {
					return api.ErrCircuitOpen
				}
				return nil
			}),
			"session": health.CheckFunc(func(context.Context) error {
				if !a.store.IsAuthenticated() {
					return session.ErrLoginRequired
				}
				return nil
			}),
		},
	})
}

func (a *app) printEvent(ev scheduler.Event) {
	if a.out.Format() != render.FormatTable {
		if err := a.out.Render(ev, nil); err != nil {
			a.log.WithError(err).Warn("Failed to print event")
		}
		return
	}
	a.out.Notice("[%s] %s", ev.At.In(a.loc).Format("15:04:05"), ev.Message)
}

// raceCountdown keeps one countdown ticker on the next race so the remaining-time gauge
// stays current
type raceCountdown struct {
	app    *app
	mu     sync.Mutex
	ticker *countdown.Ticker
}

func (rc *raceCountdown) restart(gp *models.GP) {
	if gp == nil {
		return
	}
	target, err := gp.StartsAt(rc.app.loc)
	if err != nil {
		rc.app.log.WithError(err).WithField("race_id", gp.ID).Warn("Race has no valid start time")
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.ticker != nil {
		rc.ticker.Stop()
	}
	rc.ticker = countdown.NewTicker(target, func(countdown.Result) {},
		countdown.WithTickerClock(rc.app.now),
		countdown.WithTickerLogger(rc.app.log),
	)
	if err := rc.ticker.Start(); err != nil {
		rc.app.log.WithError(err).Warn("Failed to start countdown")
		return
	}
	rc.app.log.WithFields(logrus.Fields{
		"race_id": gp.ID,
		"target":  target,
	}).Debugf("Counting down to %s", gp.Label())
}

func (rc *raceCountdown) stop() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.ticker != nil {
		rc.ticker.Stop()
		rc.ticker = nil
	}
}
