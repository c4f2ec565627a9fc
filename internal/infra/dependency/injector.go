// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/backoffice/statement/config"
	"github.com/backoffice/statement/internal/application/adapter"
	feedusecase "github.com/backoffice/statement/internal/application/usecase/feed"
	"github.com/backoffice/statement/internal/application/usecase/history"
	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/infra/db"
	"github.com/backoffice/statement/internal/infra/server/router"
	"github.com/backoffice/statement/internal/integration/adapters"
	"github.com/backoffice/statement/internal/integration/email"
	"github.com/backoffice/statement/internal/integration/email/templates"
	"github.com/backoffice/statement/internal/integration/entrypoint/controller"
	"github.com/backoffice/statement/internal/integration/entrypoint/middleware"
	"github.com/backoffice/statement/internal/integration/feed"
	"github.com/backoffice/statement/internal/integration/notify"
	"github.com/backoffice/statement/internal/integration/persistence"
)

// UseCases groups the statement operations shared by the HTTP API and the CLI.
type UseCases struct {
	GetStatement    *statement.GetStatementUseCase
	EditValue       *statement.EditLineValueUseCase
	EditDescription *statement.EditLineDescriptionUseCase
	AddItem         *statement.AddItemUseCase
	RemoveItem      *statement.RemoveItemUseCase
	GetPendingEdit  *statement.GetPendingEditUseCase
	ConfirmEdit     *statement.ConfirmEditUseCase
	CancelEdit      *statement.CancelEditUseCase

	CaptureSnapshot *history.CaptureSnapshotUseCase
	ListSnapshots   *history.ListSnapshotsUseCase
	GetSnapshot     *history.GetSnapshotUseCase
	RestoreSnapshot *history.RestoreSnapshotUseCase
	DeleteSnapshot  *history.DeleteSnapshotUseCase

	// RefreshAggregates is nil when the feed is disabled.
	RefreshAggregates *feedusecase.RefreshAggregatesUseCase
	ListNotices       *feedusecase.ListNoticesUseCase
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	Database    *db.Database
	Redis       *redis.Client
	Credentials adapter.CredentialService
	UseCases    UseCases
	Router      *router.Router
	// Worker is nil when the feed is disabled.
	Worker *feed.Worker
	// Alerts is nil unless error notices are mailed.
	Alerts *email.AlertNotifier
}

// NewInjector creates a new dependency injector with all dependencies wired.
// It loads the persisted statement and history, so it fails when the state
// backend cannot be read.
func NewInjector(ctx context.Context, cfg *config.Config, database *db.Database) (*Injector, error) {
	inj := &Injector{
		Config:      cfg,
		Database:    database,
		Credentials: adapters.NewCredentialService(),
	}

	if cfg.State.Backend == config.StateBackendRedis || cfg.Feed.NotifyBackend == config.NotifyBackendRedis {
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		inj.Redis = client
	}

	// Create state stores
	var blobs adapter.BlobStore
	switch cfg.State.Backend {
	case config.StateBackendRedis:
		blobs = persistence.NewRedisBlobStore(inj.Redis, cfg.State.KeyPrefix)
	case config.StateBackendDatabase:
		blobs = persistence.NewBlobStore(database.DB())
	default:
		return nil, fmt.Errorf("unsupported state backend %q", cfg.State.Backend)
	}

	ledger, err := statement.NewLedgerStore(ctx, persistence.NewLedgerRepository(blobs))
	if err != nil {
		return nil, fmt.Errorf("failed to load statement: %w", err)
	}
	historyStore, err := history.NewHistoryStore(ctx, persistence.NewHistoryRepository(blobs))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// Create adapters/services
	credentialHash, err := adapters.ResolveCredentialHash(inj.Credentials, cfg.Gate.CredentialHash, cfg.Gate.Credential)
	if err != nil {
		return nil, err
	}
	if credentialHash == "" {
		slog.Warn("No gate credential configured, protected edits cannot be confirmed")
	}
	gate := statement.NewEditGate(inj.Credentials, credentialHash, cfg.Gate.PendingTTL)

	snapshotIDs, err := adapters.NewSnowflakeIDGenerator(cfg.SnowflakeNode)
	if err != nil {
		return nil, err
	}
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	inbox := notify.NewInbox(notify.DefaultInboxCapacity)
	var notifier adapter.Notifier = inbox
	if cfg.Alerts.Enabled() {
		renderer, err := templates.NewRenderer()
		if err != nil {
			return nil, err
		}
		sender := email.NewResendClient(cfg.Alerts.ResendAPIKey, cfg.Alerts.FromName, cfg.Alerts.FromEmail)
		inj.Alerts = email.NewAlertNotifier(inbox, sender, renderer, email.DefaultAlertConfig(cfg.Alerts.Recipient))
		notifier = inj.Alerts
	}

	// Create use cases
	inj.UseCases = UseCases{
		GetStatement:    statement.NewGetStatementUseCase(ledger, gate),
		EditValue:       statement.NewEditLineValueUseCase(ledger, gate),
		EditDescription: statement.NewEditLineDescriptionUseCase(ledger, gate),
		AddItem:         statement.NewAddItemUseCase(ledger),
		RemoveItem:      statement.NewRemoveItemUseCase(ledger),
		GetPendingEdit:  statement.NewGetPendingEditUseCase(gate),
		ConfirmEdit:     statement.NewConfirmEditUseCase(ledger, gate),
		CancelEdit:      statement.NewCancelEditUseCase(gate),

		CaptureSnapshot: history.NewCaptureSnapshotUseCase(ledger, historyStore, snapshotIDs),
		ListSnapshots:   history.NewListSnapshotsUseCase(historyStore),
		GetSnapshot:     history.NewGetSnapshotUseCase(historyStore),
		RestoreSnapshot: history.NewRestoreSnapshotUseCase(ledger, historyStore),
		DeleteSnapshot:  history.NewDeleteSnapshotUseCase(historyStore),

		ListNotices: feedusecase.NewListNoticesUseCase(inbox),
	}

	if cfg.Feed.Enabled {
		source := persistence.NewAggregateRepository(database.DB())
		inj.UseCases.RefreshAggregates = feedusecase.NewRefreshAggregatesUseCase(source, ledger, notifier, cfg.Feed.Cutoff)
		inj.Worker = feed.NewWorker(inj.UseCases.RefreshAggregates, inj.changeNotifier(), feed.WorkerConfig{
			Interval:      cfg.Feed.Interval,
			MinRefreshGap: cfg.Feed.MinRefreshGap,
		})
	}

	// Create controllers
	healthController := controller.NewHealthController(database.HealthCheck, cfg.State.Backend, inj.stateHealthChecker())
	statementController := controller.NewStatementController(
		inj.UseCases.GetStatement,
		inj.UseCases.EditValue,
		inj.UseCases.EditDescription,
		inj.UseCases.AddItem,
		inj.UseCases.RemoveItem,
		inj.UseCases.GetPendingEdit,
		inj.UseCases.ConfirmEdit,
		inj.UseCases.CancelEdit,
		inj.UseCases.RefreshAggregates,
		inj.UseCases.ListNotices,
	)
	historyController := controller.NewHistoryController(
		inj.UseCases.CaptureSnapshot,
		inj.UseCases.ListSnapshots,
		inj.UseCases.GetSnapshot,
		inj.UseCases.RestoreSnapshot,
		inj.UseCases.DeleteSnapshot,
	)

	// Create middleware
	confirmRateLimiter := middleware.NewRateLimiterWithConfig(cfg.Gate.ConfirmAttempts, cfg.Gate.ConfirmWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(
		healthController,
		statementController,
		historyController,
		confirmRateLimiter,
		authMiddleware,
	)

	return inj, nil
}

// Close releases the connections owned by the injector.
func (inj *Injector) Close() {
	if inj.Redis != nil {
		if err := inj.Redis.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
}

func (inj *Injector) changeNotifier() adapter.ChangeNotifier {
	switch inj.Config.Feed.NotifyBackend {
	case config.NotifyBackendRedis:
		return notify.NewRedisListener(inj.Redis, inj.Config.Feed.Channel)
	case config.NotifyBackendPostgres:
		if inj.Config.Database.Driver != config.DriverPostgres {
			slog.Warn("Postgres change notifications need the postgres driver, falling back to polling")
			return nil
		}
		return notify.NewPostgresListener(inj.Config.Database.URL, inj.Config.Feed.Channel)
	default:
		return nil
	}
}

func (inj *Injector) stateHealthChecker() func() bool {
	if inj.Redis == nil || inj.Config.State.Backend != config.StateBackendRedis {
		return inj.Database.HealthCheck
	}
	client := inj.Redis
	return func() bool {
		return client.Ping(context.Background()).Err() == nil
	}
}

func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	return redis.NewClient(opts), nil
}
