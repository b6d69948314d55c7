package app

import (
	"context"
	"fmt"

	"github.com/sumeet-singh-parmar/aws-commander/config"
	"github.com/sumeet-singh-parmar/aws-commander/middleware"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/repositories/postgres"
	"github.com/sumeet-singh-parmar/aws-commander/services/action"
	"github.com/sumeet-singh-parmar/aws-commander/services/consent"
	"github.com/sumeet-singh-parmar/aws-commander/services/credential"
	"github.com/sumeet-singh-parmar/aws-commander/services/notify"
	"github.com/sumeet-singh-parmar/aws-commander/services/preference"
	"github.com/sumeet-singh-parmar/aws-commander/services/providers"
	"github.com/sumeet-singh-parmar/aws-commander/services/providers/aws"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Credentials repositories.CredentialRepository
	Consents    repositories.ConsentRepository
	Preferences repositories.PreferenceRepository
	TxManager   repositories.TransactionManager

	// Services
	CredentialService *credential.Service
	ConsentService    *consent.Service
	PreferenceService *preference.Service
	Router            *notify.Router
	Dispatcher        *notify.Dispatcher
	ActionService     *action.Service

	// Provider Registry
	ProviderRegistry *providers.Registry

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.initRepositories()

	// Initialize provider registry
	deps.initProviders()

	// Initialize domain services
	deps.initServices(cfg)

	// Initialize caller auth
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := d.DB.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Credentials = repos.Credentials
	d.Consents = repos.Consents
	d.Preferences = repos.Preferences
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initProviders initializes the cloud provider registry
func (d *Dependencies) initProviders() {
	registry := providers.NewRegistry(d.Logger)
	registry.Register(aws.NewAdapter(d.Logger))
	d.ProviderRegistry = registry
}

// initServices wires the gate pipeline services
func (d *Dependencies) initServices(cfg *config.Config) {
	d.CredentialService = credential.NewService(d.Credentials, d.TxManager, cfg.AWS.DefaultRegion, d.Logger)
	d.ConsentService = consent.NewService(d.Consents, d.Logger)
	d.PreferenceService = preference.NewService(d.Preferences, d.Logger)

	d.Router = notify.NewRouter(d.Preferences, d.Logger)
	notifier := notify.NewWebhookNotifier(cfg.Notifier.WebhookURL, cfg.Notifier.RequestTimeout, d.Logger)
	d.Dispatcher = notify.NewDispatcher(d.Router, notifier, cfg.Notifier.RequestTimeout, d.Logger)

	d.ActionService = action.NewService(d.CredentialService, d.ConsentService, d.ProviderRegistry, d.Dispatcher, d.Logger)

	d.Logger.Info("services initialized")
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth.SigningSecret == "" {
		d.Logger.Warn("auth signing secret not configured, protected routes will reject all callers")
		d.AuthMiddleware = middleware.NewAuthMiddleware(&rejectAllValidator{}, d.Logger)
		return
	}
	validator := middleware.NewJWTValidator(cfg.Auth.SigningSecret, cfg.Auth.Issuer)
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)
}

// rejectAllValidator rejects all tokens (used when no signing secret is configured)
type rejectAllValidator struct{}

func (*rejectAllValidator) ValidateToken(context.Context, string) (*middleware.Claims, error) {
	return nil, fmt.Errorf("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Let in-flight notification deliveries finish
	if d.Dispatcher != nil {
		if err := d.Dispatcher.Drain(ctx); err != nil {
			d.Logger.Warn("notification dispatcher drain interrupted", zap.Error(err))
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
