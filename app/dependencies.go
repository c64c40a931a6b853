package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/upb/lms-dashboard/config"
	"github.com/upb/lms-dashboard/credstore"
	"github.com/upb/lms-dashboard/credstore/sqlite"
	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/middleware"
	"github.com/upb/lms-dashboard/services"
	"github.com/upb/lms-dashboard/session"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Session core
	Store    credstore.Store
	Sessions *session.Manager
	Policy   httpclient.InvalidationPolicy

	// Backend access
	Transport *httpclient.Transport
	API       *httpclient.Client

	// Services
	Auth        *services.AuthService
	Courses     *services.CourseService
	Users       *services.UserService
	Assignments *services.AssignmentService
	Materials   *services.MaterialService

	// Navigation guard
	GuardMiddleware *middleware.GuardMiddleware

	storeDB       *sqlite.DB
	navigator     httpclient.Navigator
	storeOverride credstore.Store
	sessionOps    []session.Option
}

// Option customises NewDependencies
type Option func(*Dependencies)

// WithNavigator sets where a rejected credential navigates under the
// redirect policy. The dashboard server uses middleware.RequestNavigator.
func WithNavigator(n httpclient.Navigator) Option {
	return func(d *Dependencies) {
		d.navigator = n
	}
}

// WithStore replaces the configured credential store
func WithStore(s credstore.Store) Option {
	return func(d *Dependencies) {
		d.storeOverride = s
	}
}

// WithSessionOptions passes options through to the session manager
func WithSessionOptions(opts ...session.Option) Option {
	return func(d *Dependencies) {
		d.sessionOps = append(d.sessionOps, opts...)
	}
}

// NewDependencies creates and wires up all application dependencies. The
// session is hydrated before it returns, so nothing built on top of it can
// observe the Initializing state for longer than construction takes.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(deps)
	}
	if deps.navigator == nil {
		deps.navigator = middleware.NewRequestNavigator(logger)
	}

	policy, ok := httpclient.ParsePolicy(cfg.Session.InvalidationPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown invalidation policy %q", cfg.Session.InvalidationPolicy)
	}
	deps.Policy = policy

	if err := deps.initStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}

	if err := deps.initClients(cfg); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize backend clients: %w", err)
	}

	deps.initServices()
	deps.GuardMiddleware = middleware.NewGuardMiddleware(deps.Sessions, logger)

	deps.Sessions.Hydrate()

	logger.Info("all dependencies initialized successfully",
		zap.String("profile", cfg.Session.Profile),
		zap.String("store", cfg.Session.Store),
		zap.String("invalidation_policy", cfg.Session.InvalidationPolicy))
	return deps, nil
}

// initStore opens the configured credential store backend
func (d *Dependencies) initStore(ctx context.Context, cfg *config.Config) error {
	if d.storeOverride != nil {
		d.Store = d.storeOverride
		return nil
	}

	switch cfg.Session.Store {
	case config.StoreMemory:
		d.Store = credstore.NewMemoryStore()

	case config.StoreFile:
		fs, err := credstore.NewFileStore(cfg.Session.Dir, cfg.Session.Profile, d.Logger)
		if err != nil {
			return err
		}
		d.Store = fs
		d.Logger.Debug("file credential store ready", zap.String("path", fs.Path()))

	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.Session.Dir, 0o700); err != nil {
			return fmt.Errorf("create credential dir: %w", err)
		}
		db, err := sqlite.Open(ctx, cfg.Session.SQLitePath())
		if err != nil {
			return err
		}
		d.storeDB = db
		d.Store = sqlite.NewStore(db, cfg.Session.Profile, d.Logger)
		d.Logger.Debug("sqlite credential store ready", zap.String("path", cfg.Session.SQLitePath()))

	default:
		return fmt.Errorf("unknown credential store %q", cfg.Session.Store)
	}
	return nil
}

// initClients builds the backend clients and the session manager. The
// transport reports rejections to the manager, and the manager logs in
// through a service built on the transport, so the invalidator is bound late.
func (d *Dependencies) initClients(cfg *config.Config) error {
	invalidator := httpclient.InvalidatorFunc(func(reason string) {
		d.Sessions.ForceInvalidate(reason)
	})

	d.Transport = httpclient.NewTransport(d.Store, invalidator, d.Logger,
		httpclient.WithNavigator(d.navigator),
		httpclient.WithPolicy(d.Policy))

	api, err := httpclient.NewClient(cfg.API.BaseURL, d.Transport, cfg.API.Timeout, d.Logger)
	if err != nil {
		return err
	}
	d.API = api

	login, err := httpclient.NewClient(cfg.API.BaseURL, http.DefaultTransport, cfg.API.Timeout, d.Logger)
	if err != nil {
		return err
	}

	d.Auth = services.NewAuthService(login, api, d.Logger)
	d.Sessions = session.NewManager(d.Store, d.Auth, d.Logger, d.sessionOps...)
	return nil
}

func (d *Dependencies) initServices() {
	d.Courses = services.NewCourseService(d.API, d.Logger)
	d.Users = services.NewUserService(d.API, d.Logger)
	d.Assignments = services.NewAssignmentService(d.API, d.Logger)
	d.Materials = services.NewMaterialService(d.API, d.Logger)
}

// CheckStore verifies that the credential store backend is reachable
func (d *Dependencies) CheckStore(ctx context.Context) error {
	if d.storeDB == nil {
		return nil
	}
	return d.storeDB.PingContext(ctx)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Debug("shutting down dependencies")

	var errs []error

	if d.storeDB != nil {
		if err := d.storeDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close credential database: %w", err))
		}
		d.storeDB = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
