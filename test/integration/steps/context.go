//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	feedusecase "github.com/backoffice/statement/internal/application/usecase/feed"
	"github.com/backoffice/statement/internal/application/usecase/history"
	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/infra/server/router"
	"github.com/backoffice/statement/internal/integration/adapters"
	"github.com/backoffice/statement/internal/integration/entrypoint/controller"
	"github.com/backoffice/statement/internal/integration/entrypoint/middleware"
	"github.com/backoffice/statement/internal/integration/notify"
	"github.com/backoffice/statement/internal/integration/persistence"
	"github.com/backoffice/statement/internal/integration/persistence/model"
	"github.com/backoffice/statement/test/integration/mock"
)

const (
	testJWTSecret  = "test-jwt-secret-key-for-testing-purposes"
	testCredential = "gate-secret"
	stateKeyPrefix = "test:"
)

// feedCutoff is the cutoff the scenarios' aggregate feed counts from.
var feedCutoff = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// testContext holds the state of one scenario.
type testContext struct {
	server      *httptest.Server
	client      *http.Client
	db          *mock.Db
	redis       *mock.Redis
	headers     map[string]string
	accessToken string
	response    *response
	pendingEdit string
	snapshotID  string
}

type response struct {
	status int
	body   any
	raw    []byte
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^I am authenticated$`, test.iAmAuthenticated)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Collaborator data steps
	ctx.Given(`^an approved proposal with fee "([^"]*)" starting on "([^"]*)"$`, test.anApprovedProposalWithFee)
	ctx.Given(`^an exit proposal with loss "([^"]*)" on "([^"]*)"$`, test.anExitProposalWithLoss)
	ctx.Given(`^a cost entry "([^"]*)" of "([^"]*)"$`, test.aCostEntry)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I confirm the pending edit with credential "([^"]*)"$`, test.iConfirmThePendingEdit)
	ctx.When(`^I cancel the pending edit$`, test.iCancelThePendingEdit)
	ctx.When(`^I capture a snapshot$`, test.iCaptureASnapshot)
	ctx.When(`^I restore the captured snapshot$`, test.iRestoreTheCapturedSnapshot)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the statement total "([^"]*)" should be "([^"]*)"$`, test.theStatementTotalShouldBe)
	ctx.Then(`^line (\d+) should have value "([^"]*)"$`, test.lineShouldHaveValue)

	// Storage assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the state store should contain the key "([^"]*)"$`, test.theStateStoreShouldContainTheKey)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.pendingEdit = ""
	t.snapshotID = ""
	t.client = &http.Client{Timeout: 10 * time.Second}

	db, err := mock.NewDb(map[string]any{
		"proposals":      &model.ProposalModel{},
		"exit_proposals": &model.ExitProposalModel{},
		"cost_entries":   &model.CostEntryModel{},
	})
	if err != nil {
		return err
	}
	t.db = db

	r, err := mock.NewRedis()
	if err != nil {
		return err
	}
	t.redis = r
	return nil
}

func (t *testContext) after() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
	if t.redis != nil {
		t.redis.Close()
		t.redis = nil
	}
	if t.db != nil {
		_ = t.db.Close()
		t.db = nil
	}
}

// startServer wires the API the way the injector does, with the statement
// state in redis and the collaborator tables in the scenario database.
func (t *testContext) startServer() error {
	ctx := context.Background()

	// Create state stores
	blobs := persistence.NewRedisBlobStore(t.redis.Client, stateKeyPrefix)
	ledger, err := statement.NewLedgerStore(ctx, persistence.NewLedgerRepository(blobs))
	if err != nil {
		return err
	}
	historyStore, err := history.NewHistoryStore(ctx, persistence.NewHistoryRepository(blobs))
	if err != nil {
		return err
	}

	// Create adapters/services
	credentials := adapters.NewCredentialService()
	credentialHash, err := adapters.ResolveCredentialHash(credentials, "", testCredential)
	if err != nil {
		return err
	}
	gate := statement.NewEditGate(credentials, credentialHash, statement.DefaultPendingEditTTL)
	snapshotIDs, err := adapters.NewSnowflakeIDGenerator(1)
	if err != nil {
		return err
	}
	tokenService := adapters.NewTokenService(testJWTSecret, "")
	inbox := notify.NewInbox(notify.DefaultInboxCapacity)
	source := persistence.NewAggregateRepository(t.db.DbConn)

	// Create controllers
	healthController := controller.NewHealthController(func() bool { return true }, "redis", func() bool {
		return t.redis.Client.Ping(context.Background()).Err() == nil
	})
	statementController := controller.NewStatementController(
		statement.NewGetStatementUseCase(ledger, gate),
		statement.NewEditLineValueUseCase(ledger, gate),
		statement.NewEditLineDescriptionUseCase(ledger, gate),
		statement.NewAddItemUseCase(ledger),
		statement.NewRemoveItemUseCase(ledger),
		statement.NewGetPendingEditUseCase(gate),
		statement.NewConfirmEditUseCase(ledger, gate),
		statement.NewCancelEditUseCase(gate),
		feedusecase.NewRefreshAggregatesUseCase(source, ledger, inbox, feedCutoff),
		feedusecase.NewListNoticesUseCase(inbox),
	)
	historyController := controller.NewHistoryController(
		history.NewCaptureSnapshotUseCase(ledger, historyStore, snapshotIDs),
		history.NewListSnapshotsUseCase(historyStore),
		history.NewGetSnapshotUseCase(historyStore),
		history.NewRestoreSnapshotUseCase(ledger, historyStore),
		history.NewDeleteSnapshotUseCase(historyStore),
	)

	// Create middleware
	confirmRateLimiter := middleware.NewRateLimiterWithConfig(3, time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(healthController, statementController, historyController, confirmRateLimiter, authMiddleware)
	t.server = httptest.NewServer(r.Setup("test"))

	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) theAPIServerIsRunning() error {
	if t.server != nil {
		return nil
	}
	return t.startServer()
}

func (t *testContext) requireResponse() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	return nil
}
