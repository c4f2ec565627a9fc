package statement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

const testCredential = "s3cret"

// memoryLedgerRepo is an in-memory LedgerRepository.
type memoryLedgerRepo struct {
	mu       sync.Mutex
	lines    []entity.LineItem
	feed     *entity.FeedTotals
	saves    int
	failSave bool
	failLoad bool
}

func (r *memoryLedgerRepo) LoadLines(ctx context.Context) ([]entity.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLoad {
		return nil, errors.New("connection refused")
	}
	return r.lines, nil
}

func (r *memoryLedgerRepo) SaveLines(ctx context.Context, lines []entity.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("disk full")
	}
	r.lines = lines
	r.saves++
	return nil
}

func (r *memoryLedgerRepo) LoadFeedTotals(ctx context.Context) (*entity.FeedTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feed, nil
}

func (r *memoryLedgerRepo) SaveFeedTotals(ctx context.Context, totals entity.FeedTotals) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("disk full")
	}
	r.feed = &totals
	return nil
}

// plainCredentials treats the stored hash as the credential itself.
type plainCredentials struct{}

func (plainCredentials) HashCredential(credential string) (string, error) {
	return credential, nil
}

func (plainCredentials) VerifyCredential(hashedCredential, credential string) error {
	if hashedCredential != credential {
		return errors.New("mismatch")
	}
	return nil
}

func newTestStore(t *testing.T, repo *memoryLedgerRepo) *LedgerStore {
	t.Helper()
	store, err := NewLedgerStore(context.Background(), repo)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return store
}

func setRevenue(t *testing.T, store *LedgerStore, amount string) {
	t.Helper()
	value := decimal.RequireFromString(amount)
	err := store.Mutate(context.Background(), func(l *entity.Ledger) (bool, error) {
		return true, l.Upsert(1, entity.LinePatch{Value: &value})
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func statementCode(err error) domainerror.StatementErrorCode {
	var stmErr *domainerror.StatementError
	if errors.As(err, &stmErr) {
		return stmErr.Code
	}
	return ""
}

func equalLines(a, b []entity.LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Key != y.Key || x.Description != y.Description ||
			!x.Value.Equal(y.Value) || !x.Percentage.Equal(y.Percentage) {
			return false
		}
	}
	return true
}

func TestNewLedgerStore(t *testing.T) {
	t.Run("seeds and persists when nothing is stored", func(t *testing.T) {
		repo := &memoryLedgerRepo{}
		store := newTestStore(t, repo)

		if len(store.View().Lines) != 24 {
			t.Errorf("expected 24 seed lines, got %d", len(store.View().Lines))
		}
		if repo.saves != 1 {
			t.Errorf("expected seed to be persisted once, got %d", repo.saves)
		}
	})

	t.Run("loads persisted lines and feed totals", func(t *testing.T) {
		lines := entity.NewSeedLedger().Lines()
		lines[0].Value = decimal.NewFromInt(5000)
		repo := &memoryLedgerRepo{
			lines: lines,
			feed:  &entity.FeedTotals{FeeTotal: decimal.NewFromInt(2000), LossTotal: decimal.Zero},
		}
		store := newTestStore(t, repo)

		view := store.View()
		if !view.Totals.Profit.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected profit 5000, got %s", view.Totals.Profit)
		}
		if !view.FeedTotals.FeeTotal.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected fee total 2000, got %s", view.FeedTotals.FeeTotal)
		}
		if repo.saves != 0 {
			t.Errorf("expected no save on load, got %d", repo.saves)
		}
	})

	t.Run("falls back to seed on malformed document", func(t *testing.T) {
		repo := &memoryLedgerRepo{lines: []entity.LineItem{{ID: 1, Kind: entity.LineKindItem}}}
		store := newTestStore(t, repo)

		if len(store.View().Lines) != 24 {
			t.Errorf("expected 24 seed lines, got %d", len(store.View().Lines))
		}
	})

	t.Run("returns load errors", func(t *testing.T) {
		_, err := NewLedgerStore(context.Background(), &memoryLedgerRepo{failLoad: true})
		if err == nil {
			t.Error("expected an error when the repository fails")
		}
	})
}

func TestLedgerStore_PersistFailureKeepsMemory(t *testing.T) {
	repo := &memoryLedgerRepo{}
	store := newTestStore(t, repo)
	repo.failSave = true

	setRevenue(t, store, "1000")

	if !store.View().Totals.Revenue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected revenue 1000 in memory, got %s", store.View().Totals.Revenue)
	}
}

func TestEditLineValueUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("extras cascade into revenue", func(t *testing.T) {
		store := newTestStore(t, &memoryLedgerRepo{})
		gate := NewEditGate(plainCredentials{}, testCredential, time.Minute)
		uc := NewEditLineValueUseCase(store, gate)
		setRevenue(t, store, "120000")

		if _, err := uc.Execute(ctx, EditLineValueInput{LineID: 2, Value: "10000"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		output, err := uc.Execute(ctx, EditLineValueInput{LineID: 2, Value: "15.000,00"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if output.IsPending() {
			t.Error("expected extras edit to be applied directly")
		}
		if !output.Totals.Revenue.Equal(decimal.NewFromInt(135000)) {
			t.Errorf("expected revenue 135000, got %s", output.Totals.Revenue)
		}
	})

	t.Run("cost values are stored negative", func(t *testing.T) {
		store := newTestStore(t, &memoryLedgerRepo{})
		uc := NewEditLineValueUseCase(store, NewEditGate(plainCredentials{}, testCredential, time.Minute))

		output, err := uc.Execute(ctx, EditLineValueInput{LineID: 5, Value: "R$ 1.000,00"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !output.Line.Value.Equal(decimal.NewFromInt(-1000)) {
			t.Errorf("expected -1000, got %s", output.Line.Value)
		}
	})

	t.Run("revenue is held by the gate", func(t *testing.T) {
		store := newTestStore(t, &memoryLedgerRepo{})
		gate := NewEditGate(plainCredentials{}, testCredential, time.Minute)
		uc := NewEditLineValueUseCase(store, gate)
		before := store.View().Lines

		output, err := uc.Execute(ctx, EditLineValueInput{LineID: 1, Value: 50000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !output.IsPending() {
			t.Fatal("expected revenue edit to be pending")
		}
		if !equalLines(before, store.View().Lines) {
			t.Error("expected ledger to be unchanged while the edit is pending")
		}
		if _, state := gate.Pending(); state != entity.GateStatePendingConfirmation {
			t.Errorf("expected state %s, got %s", entity.GateStatePendingConfirmation, state)
		}
	})

	t.Run("rejects headers and unknown lines", func(t *testing.T) {
		store := newTestStore(t, &memoryLedgerRepo{})
		uc := NewEditLineValueUseCase(store, NewEditGate(plainCredentials{}, testCredential, time.Minute))

		_, err := uc.Execute(ctx, EditLineValueInput{LineID: 4, Value: 10})
		if statementCode(err) != domainerror.ErrCodeLineNotEditable {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeLineNotEditable, err)
		}

		_, err = uc.Execute(ctx, EditLineValueInput{LineID: 99, Value: 10})
		if statementCode(err) != domainerror.ErrCodeLineNotFound {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeLineNotFound, err)
		}
	})
}

func TestEditGate_RoundTrip(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*LedgerStore, *EditGate, *ConfirmEditUseCase) {
		store := newTestStore(t, &memoryLedgerRepo{})
		setRevenue(t, store, "100000")
		gate := NewEditGate(plainCredentials{}, testCredential, time.Minute)
		return store, gate, NewConfirmEditUseCase(store, gate)
	}

	t.Run("wrong credential leaves the ledger identical", func(t *testing.T) {
		store, gate, confirm := setup(t)
		before := store.View().Lines

		held, err := NewEditLineValueUseCase(store, gate).Execute(ctx, EditLineValueInput{LineID: 1, Value: 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err = confirm.Execute(ctx, ConfirmEditInput{EditID: held.PendingEdit.ID, Credential: "guess"})
		if statementCode(err) != domainerror.ErrCodeInvalidCredential {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeInvalidCredential, err)
		}
		if !equalLines(before, store.View().Lines) {
			t.Error("expected ledger to be unchanged after a rejected credential")
		}

		pending, state := gate.Pending()
		if pending != nil || state != entity.GateStateCancelled {
			t.Errorf("expected discarded edit and state %s, got %v/%s", entity.GateStateCancelled, pending, state)
		}

		_, err = confirm.Execute(ctx, ConfirmEditInput{EditID: held.PendingEdit.ID, Credential: testCredential})
		if statementCode(err) != domainerror.ErrCodeNoPendingEdit {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeNoPendingEdit, err)
		}
	})

	t.Run("correct credential applies the edit", func(t *testing.T) {
		store, gate, confirm := setup(t)

		held, _ := NewEditLineDescriptionUseCase(store, gate).Execute(ctx, EditLineDescriptionInput{LineID: 17, Description: "  Caixa  "})
		output, err := confirm.Execute(ctx, ConfirmEditInput{EditID: held.PendingEdit.ID, Credential: testCredential})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if output.Line.Description != "Caixa" {
			t.Errorf("expected description Caixa, got %q", output.Line.Description)
		}
		if _, state := gate.Pending(); state != entity.GateStateAuthorized {
			t.Errorf("expected state %s, got %s", entity.GateStateAuthorized, state)
		}
		if _, state := gate.Pending(); state != entity.GateStateIdle {
			t.Errorf("expected state %s after the outcome was read, got %s", entity.GateStateIdle, state)
		}
	})

	t.Run("held edit records who requested it", func(t *testing.T) {
		store, gate, confirm := setup(t)
		actor := entity.Actor{UserID: uuid.New(), Email: "contador@example.com"}
		actorCtx := entity.ContextWithActor(ctx, actor)

		held, err := NewEditLineValueUseCase(store, gate).Execute(actorCtx, EditLineValueInput{LineID: 1, Value: 5})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if held.PendingEdit.RequestedBy != actor {
			t.Errorf("expected requester %+v, got %+v", actor, held.PendingEdit.RequestedBy)
		}

		output, err := confirm.Execute(actorCtx, ConfirmEditInput{EditID: held.PendingEdit.ID, Credential: testCredential})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.Edit.RequestedBy.Email != "contador@example.com" {
			t.Errorf("expected requester email contador@example.com, got %q", output.Edit.RequestedBy.Email)
		}
	})

	t.Run("new request supersedes the held one", func(t *testing.T) {
		store, gate, confirm := setup(t)
		uc := NewEditLineValueUseCase(store, gate)

		first, _ := uc.Execute(ctx, EditLineValueInput{LineID: 1, Value: 1})
		second, _ := uc.Execute(ctx, EditLineValueInput{LineID: 1, Value: 2})

		_, err := confirm.Execute(ctx, ConfirmEditInput{EditID: first.PendingEdit.ID, Credential: testCredential})
		if statementCode(err) != domainerror.ErrCodeNoPendingEdit {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeNoPendingEdit, err)
		}

		output, err := confirm.Execute(ctx, ConfirmEditInput{EditID: second.PendingEdit.ID, Credential: testCredential})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !output.Totals.Revenue.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected revenue 2, got %s", output.Totals.Revenue)
		}
	})

	t.Run("expired edits cannot be confirmed", func(t *testing.T) {
		store, gate, confirm := setup(t)
		held, _ := NewEditLineValueUseCase(store, gate).Execute(ctx, EditLineValueInput{LineID: 1, Value: 1})
		gate.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		_, err := confirm.Execute(ctx, ConfirmEditInput{EditID: held.PendingEdit.ID, Credential: testCredential})
		if statementCode(err) != domainerror.ErrCodePendingEditExpired {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodePendingEditExpired, err)
		}
	})

	t.Run("edit is dropped when its line moved", func(t *testing.T) {
		store, gate, confirm := setup(t)
		held, _ := NewEditLineDescriptionUseCase(store, gate).Execute(ctx, EditLineDescriptionInput{LineID: 18, Description: "Ações"})
		if _, err := NewRemoveItemUseCase(store).Execute(ctx, RemoveItemInput{LineID: 17}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err := confirm.Execute(ctx, ConfirmEditInput{EditID: held.PendingEdit.ID, Credential: testCredential})
		if statementCode(err) != domainerror.ErrCodeLineNotFound {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeLineNotFound, err)
		}
	})

	t.Run("cancel discards the edit", func(t *testing.T) {
		store, gate, _ := setup(t)
		held, _ := NewEditLineValueUseCase(store, gate).Execute(ctx, EditLineValueInput{LineID: 1, Value: 1})
		cancel := NewCancelEditUseCase(gate)

		if _, err := cancel.Execute(ctx, CancelEditInput{EditID: held.PendingEdit.ID}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := cancel.Execute(ctx, CancelEditInput{EditID: uuid.New()}); statementCode(err) != domainerror.ErrCodeNoPendingEdit {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeNoPendingEdit, err)
		}

		output, _ := NewGetPendingEditUseCase(gate).Execute(ctx)
		if output.PendingEdit != nil || output.State != entity.GateStateCancelled {
			t.Errorf("expected no pending edit and state cancelled, got %v/%s", output.PendingEdit, output.State)
		}

		output, _ = NewGetPendingEditUseCase(gate).Execute(ctx)
		if output.State != entity.GateStateIdle {
			t.Errorf("expected state idle once the outcome was read, got %s", output.State)
		}
	})
}

func TestEditLineDescriptionUseCase_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &memoryLedgerRepo{})
	uc := NewEditLineDescriptionUseCase(store, NewEditGate(plainCredentials{}, testCredential, time.Minute))

	if _, err := uc.Execute(ctx, EditLineDescriptionInput{LineID: 5, Description: "   "}); statementCode(err) != domainerror.ErrCodeEmptyDescription {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeEmptyDescription, err)
	}
	if _, err := uc.Execute(ctx, EditLineDescriptionInput{LineID: 3, Description: "x"}); statementCode(err) != domainerror.ErrCodeLineNotEditable {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeLineNotEditable, err)
	}
}

func TestAddAndRemoveItem(t *testing.T) {
	ctx := context.Background()
	repo := &memoryLedgerRepo{}
	store := newTestStore(t, repo)
	setRevenue(t, store, "10000")

	added, err := NewAddItemUseCase(store).Execute(ctx, AddItemInput{
		Category:    entity.CategoryReserve,
		Description: "Seguro",
		Value:       "1500",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added.Line.ID != 23 {
		t.Errorf("expected new item at id 23, got %d", added.Line.ID)
	}
	if !added.Totals.Profit.Equal(decimal.NewFromInt(8500)) {
		t.Errorf("expected profit 8500, got %s", added.Totals.Profit)
	}

	if _, err := NewAddItemUseCase(store).Execute(ctx, AddItemInput{Category: entity.CategoryRevenue, Description: "x"}); statementCode(err) != domainerror.ErrCodeInvalidCategory {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeInvalidCategory, err)
	}

	removed, err := NewRemoveItemUseCase(store).Execute(ctx, RemoveItemInput{LineID: 23})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if removed.Removed.Description != "Seguro" {
		t.Errorf("expected Seguro to be removed, got %s", removed.Removed.Description)
	}
	if !removed.Totals.Profit.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected profit 10000, got %s", removed.Totals.Profit)
	}

	if _, err := NewRemoveItemUseCase(store).Execute(ctx, RemoveItemInput{LineID: 4}); statementCode(err) != domainerror.ErrCodeLineNotRemovable {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeLineNotRemovable, err)
	}

	for i, line := range repo.lines {
		if line.ID != i+1 {
			t.Fatalf("expected persisted ids to be dense, got %d at %d", line.ID, i)
		}
	}
}

func TestGetStatementUseCase(t *testing.T) {
	store := newTestStore(t, &memoryLedgerRepo{})
	gate := NewEditGate(plainCredentials{}, testCredential, time.Minute)

	output, err := NewGetStatementUseCase(store, gate).Execute(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(output.Lines) != 24 {
		t.Errorf("expected 24 lines, got %d", len(output.Lines))
	}
	if output.GateState != entity.GateStateIdle {
		t.Errorf("expected state %s, got %s", entity.GateStateIdle, output.GateState)
	}
}
