package history

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

type memoryLedgerRepo struct {
	lines []entity.LineItem
	feed  *entity.FeedTotals
}

func (r *memoryLedgerRepo) LoadLines(ctx context.Context) ([]entity.LineItem, error) {
	return r.lines, nil
}

func (r *memoryLedgerRepo) SaveLines(ctx context.Context, lines []entity.LineItem) error {
	r.lines = lines
	return nil
}

func (r *memoryLedgerRepo) LoadFeedTotals(ctx context.Context) (*entity.FeedTotals, error) {
	return r.feed, nil
}

func (r *memoryLedgerRepo) SaveFeedTotals(ctx context.Context, totals entity.FeedTotals) error {
	r.feed = &totals
	return nil
}

type memoryHistoryRepo struct {
	snapshots []*entity.HistorySnapshot
	fail      bool
}

func (r *memoryHistoryRepo) LoadAll(ctx context.Context) ([]*entity.HistorySnapshot, error) {
	if r.fail {
		return nil, errors.New("connection refused")
	}
	return r.snapshots, nil
}

func (r *memoryHistoryRepo) SaveAll(ctx context.Context, snapshots []*entity.HistorySnapshot) error {
	r.snapshots = append([]*entity.HistorySnapshot(nil), snapshots...)
	return nil
}

type sequenceIDs struct {
	next int64
}

func (s *sequenceIDs) NextID() int64 {
	s.next++
	return s.next
}

func setValue(t *testing.T, store *statement.LedgerStore, id int, amount string) {
	t.Helper()
	value := decimal.RequireFromString(amount)
	if _, err := store.Upsert(context.Background(), id, entity.LinePatch{Value: &value}); err != nil {
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

func setup(t *testing.T) (*statement.LedgerStore, *HistoryStore, *memoryHistoryRepo) {
	t.Helper()
	ledger, err := statement.NewLedgerStore(context.Background(), &memoryLedgerRepo{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	repo := &memoryHistoryRepo{}
	history, err := NewHistoryStore(context.Background(), repo)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return ledger, history, repo
}

func TestCaptureAndRestore(t *testing.T) {
	ctx := context.Background()
	ledger, history, repo := setup(t)
	setValue(t, ledger, 1, "50000")
	setValue(t, ledger, 5, "20000")

	captured, err := NewCaptureSnapshotUseCase(ledger, history, &sequenceIDs{}).Execute(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !captured.Snapshot.Totals.Profit.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("expected captured profit 30000, got %s", captured.Snapshot.Totals.Profit)
	}
	if len(repo.snapshots) != 1 {
		t.Errorf("expected 1 persisted snapshot, got %d", len(repo.snapshots))
	}

	setValue(t, ledger, 5, "45000")
	if _, err := ledger.Remove(ctx, 20); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	restored, err := NewRestoreSnapshotUseCase(ledger, history).Execute(ctx, RestoreSnapshotInput{ID: captured.Snapshot.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(restored.Lines) != len(captured.Snapshot.Lines) {
		t.Fatalf("expected %d lines, got %d", len(captured.Snapshot.Lines), len(restored.Lines))
	}
	for i, line := range restored.Lines {
		want := captured.Snapshot.Lines[i]
		if line.ID != want.ID || line.Description != want.Description || !line.Value.Equal(want.Value) || !line.Percentage.Equal(want.Percentage) {
			t.Errorf("expected line %d to match the snapshot, got %+v", want.ID, line)
		}
	}
	if !restored.Totals.Profit.Equal(captured.Snapshot.Totals.Profit) {
		t.Errorf("expected profit %s, got %s", captured.Snapshot.Totals.Profit, restored.Totals.Profit)
	}
}

func TestSnapshotTotalsAreFrozen(t *testing.T) {
	ctx := context.Background()
	ledger, history, _ := setup(t)
	setValue(t, ledger, 1, "1000")

	captured, _ := NewCaptureSnapshotUseCase(ledger, history, &sequenceIDs{}).Execute(ctx)
	setValue(t, ledger, 1, "9000")

	got, err := NewGetSnapshotUseCase(history).Execute(ctx, GetSnapshotInput{ID: captured.Snapshot.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !got.Snapshot.Totals.Revenue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected stored revenue 1000, got %s", got.Snapshot.Totals.Revenue)
	}
}

func TestListSnapshots_NewestFirst(t *testing.T) {
	ctx := context.Background()
	ledger, history, _ := setup(t)
	capture := NewCaptureSnapshotUseCase(ledger, history, &sequenceIDs{})

	for i := 0; i < 3; i++ {
		if _, err := capture.Execute(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	output, _ := NewListSnapshotsUseCase(history).Execute(ctx)
	if len(output.Snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(output.Snapshots))
	}
	for i := 1; i < len(output.Snapshots); i++ {
		prev, cur := output.Snapshots[i-1], output.Snapshots[i]
		if cur.Date.After(prev.Date) || (cur.Date.Equal(prev.Date) && cur.ID > prev.ID) {
			t.Errorf("expected newest first, got %d before %d", prev.ID, cur.ID)
		}
	}
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	ledger, history, repo := setup(t)
	setValue(t, ledger, 1, "700")
	captured, _ := NewCaptureSnapshotUseCase(ledger, history, &sequenceIDs{}).Execute(ctx)
	before := ledger.View()

	if _, err := NewDeleteSnapshotUseCase(history).Execute(ctx, DeleteSnapshotInput{ID: captured.Snapshot.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.snapshots) != 0 {
		t.Errorf("expected empty persisted history, got %d", len(repo.snapshots))
	}
	if !ledger.View().Totals.Revenue.Equal(before.Totals.Revenue) {
		t.Error("expected live ledger to be untouched by a delete")
	}

	_, err := NewDeleteSnapshotUseCase(history).Execute(ctx, DeleteSnapshotInput{ID: captured.Snapshot.ID})
	if statementCode(err) != domainerror.ErrCodeSnapshotNotFound {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeSnapshotNotFound, err)
	}
	_, err = NewRestoreSnapshotUseCase(ledger, history).Execute(ctx, RestoreSnapshotInput{ID: 42})
	if statementCode(err) != domainerror.ErrCodeSnapshotNotFound {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeSnapshotNotFound, err)
	}
}

func TestNewHistoryStore_LoadError(t *testing.T) {
	if _, err := NewHistoryStore(context.Background(), &memoryHistoryRepo{fail: true}); err == nil {
		t.Error("expected an error when the repository fails")
	}
}
