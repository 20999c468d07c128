package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/p10-paddock/internal/api"
	"github.com/yourusername/p10-paddock/internal/config"
	"github.com/yourusername/p10-paddock/internal/logger"
	"github.com/yourusername/p10-paddock/internal/metrics"
	"github.com/yourusername/p10-paddock/internal/models"
	"github.com/yourusername/p10-paddock/internal/render"
	"github.com/yourusername/p10-paddock/internal/session"
)

// globalOptions are the persistent flags of the root command
type globalOptions struct {
	configFile string
	output     string
	logLevel   string
	ephemeral  bool
}

// app holds everything a command needs. It is built once per invocation, before the
// command runs.
type app struct {
	opts   globalOptions
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	cfg      *config.Config
	log      *logrus.Logger
	activity *logger.ActivityLogger
	store    *session.Store
	guard    *session.Guard
	client   *api.Client
	out      *render.Renderer
	loc      *time.Location

	// secrets is built from the default AWS chain when nil
	secrets config.SecretsClient
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

// setup loads the configuration, restores the session and builds the API client
func (a *app) setup() error {
	cfg, err := config.LoadWithDefaults(config.ResolvePath(a.opts.configFile))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.opts.output != "" {
		cfg.Display.Output = a.opts.output
	}
	if a.opts.logLevel != "" {
		cfg.App.LogLevel = a.opts.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	format, err := render.ParseFormat(cfg.Display.Output)
	if err != nil {
		return err
	}
	a.out = render.New(a.stdout, format)
	a.loc = cfg.Location()

	a.log = logger.NewLogger(cfg.App.LogLevel,
		logger.WithEnvironment(cfg.App.Environment),
		logger.WithOutput(a.stderr),
	)
	a.activity = logger.NewActivityLogger(a.log)
	a.log.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"endpoint":    cfg.API.GraphQLURL,
		"version":     Version,
	}).Debug("p10 starting")

	metrics.InitRegistry()

	var persist session.TokenStore = session.NewMemoryTokenStore("")
	if !a.opts.ephemeral {
		fileStore, err := session.NewFileTokenStore(cfg.StateDir(), cfg.Session.TokenKey)
		if err != nil {
			return fmt.Errorf("failed to open session state: %w", err)
		}
		persist = fileStore
	}
	a.store = session.NewStore(persist, a.log, session.WithClock(a.now))
	a.store.Subscribe(func(state session.State) {
		metrics.RecordSessionTransition(state.String())
	})
	a.guard = session.NewGuard(a.store, func() {
		a.log.Debug("Session is unauthenticated, protected commands need a login")
	})
	a.store.Restore()

	httpCfg := api.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.APITimeout()
	httpCfg.MaxRetries = cfg.API.MaxRetries
	httpCfg.RetryWaitMin, httpCfg.RetryWaitMax = cfg.RetryWait()
	httpCfg.RateLimit = cfg.API.RateLimit
	httpCfg.CircuitBreakerMax = cfg.API.CircuitBreakerMax
	httpCfg.CircuitBreakerReset = cfg.CircuitBreakerReset()

	a.client = api.NewClient(api.Config{
		Endpoint:  cfg.API.GraphQLURL,
		UserAgent: cfg.API.UserAgent,
		CacheTTL:  cfg.CacheTTL(),
		HTTP:      httpCfg,
	}, a.store, a.log)

	return nil
}

// close releases what setup acquired
func (a *app) close() {
	if a.guard != nil {
		a.guard.Close()
	}
	if a.client != nil {
		a.client.Close()
	}
}

// requireLogin gates protected commands
func (a *app) requireLogin() error {
	return a.guard.Require()
}

// apiError ends the session when the server rejects the credential, so the next command
// asks for a login instead of failing again
func (a *app) apiError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrUnauthenticated) {
		a.store.Logout()
		a.activity.LogLogout("credential rejected")
		return fmt.Errorf("%w: %v", session.ErrLoginRequired, err)
	}
	return err
}

// identity returns the caller's profile, fetching it when the session was restored from
// disk. Failures are logged and yield nil.
func (a *app) identity(ctx context.Context) *models.User {
	if me := a.store.Identity(); me != nil {
		return me
	}
	me, err := a.client.Me(ctx)
	if err != nil {
		a.log.WithError(err).Debug("Failed to fetch identity")
		return nil
	}
	a.store.SetIdentity(me)
	return a.store.Identity()
}

// timeout bounds one command's API calls
func (a *app) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 2*a.cfg.APITimeout())
}
