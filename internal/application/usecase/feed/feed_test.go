package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/application/usecase/statement"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
	"github.com/backoffice/statement/internal/domain/valueobject"
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

type stubSource struct {
	fees      []string
	losses    []string
	costs     []adapter.CostRecord
	lossesErr error
	cutoffs   []time.Time
}

func (s *stubSource) ApprovedProposalFees(ctx context.Context, cutoff time.Time) ([]string, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.fees, nil
}

func (s *stubSource) ExitProposalLosses(ctx context.Context, cutoff time.Time) ([]string, error) {
	return s.losses, s.lossesErr
}

func (s *stubSource) CostEntries(ctx context.Context) ([]adapter.CostRecord, error) {
	return s.costs, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []*entity.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, notice *entity.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) Recent(ctx context.Context, limit int) []*entity.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*entity.Notice, 0, limit)
	for i := len(n.notices) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, n.notices[i])
	}
	return out
}

func newStore(t *testing.T) *statement.LedgerStore {
	t.Helper()
	store, err := statement.NewLedgerStore(context.Background(), &memoryLedgerRepo{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return store
}

func sampleSource() *stubSource {
	return &stubSource{
		fees:   []string{"R$ 10.000,00", "5000"},
		losses: []string{"(1.000,00)"},
		costs: []adapter.CostRecord{
			{CostCenter: "Aluguel", Amount: "3.000,00"},
			{CostCenter: "Café", Amount: "200"},
			{CostCenter: "", Amount: ""},
		},
	}
}

func TestRefreshAggregatesUseCase(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("folds aggregates into the ledger", func(t *testing.T) {
		store := newStore(t)
		source := sampleSource()
		uc := NewRefreshAggregatesUseCase(source, store, &recordingNotifier{}, cutoff)

		output, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !output.FeeTotal.Equal(decimal.NewFromInt(15000)) {
			t.Errorf("expected fee total 15000, got %s", output.FeeTotal)
		}
		if !output.LossTotal.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected loss total 1000, got %s", output.LossTotal)
		}
		if !output.Totals.Revenue.Equal(decimal.NewFromInt(14000)) {
			t.Errorf("expected revenue 14000, got %s", output.Totals.Revenue)
		}
		if !output.Totals.Profit.Equal(decimal.NewFromInt(10800)) {
			t.Errorf("expected profit 10800, got %s", output.Totals.Profit)
		}
		if !output.CostCenters[valueobject.CostCenterOther].Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected other bucket 200, got %s", output.CostCenters[valueobject.CostCenterOther])
		}
		if len(source.cutoffs) != 1 || !source.cutoffs[0].Equal(cutoff) {
			t.Errorf("expected cutoff %s, got %v", cutoff, source.cutoffs)
		}
	})

	t.Run("refreshing unchanged data is a no-op", func(t *testing.T) {
		store := newStore(t)
		uc := NewRefreshAggregatesUseCase(sampleSource(), store, &recordingNotifier{}, cutoff)

		first, _ := uc.Execute(ctx)
		second, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !first.Totals.Revenue.Equal(second.Totals.Revenue) || !first.Totals.Profit.Equal(second.Totals.Profit) {
			t.Errorf("expected stable totals, got %+v then %+v", first.Totals, second.Totals)
		}
	})

	t.Run("failure keeps last known values and leaves a notice", func(t *testing.T) {
		store := newStore(t)
		source := sampleSource()
		notifier := &recordingNotifier{}
		uc := NewRefreshAggregatesUseCase(source, store, notifier, cutoff)
		if _, err := uc.Execute(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		before := store.View().Totals

		source.fees = []string{"99999"}
		source.lossesErr = errors.New("timeout")
		_, err := uc.Execute(ctx)

		var stmErr *domainerror.StatementError
		if !errors.As(err, &stmErr) || stmErr.Code != domainerror.ErrCodeFeedUnavailable {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeFeedUnavailable, err)
		}
		if !errors.Is(err, domainerror.ErrFeedUnavailable) {
			t.Error("expected error to wrap ErrFeedUnavailable")
		}
		if !store.View().Totals.Revenue.Equal(before.Revenue) {
			t.Errorf("expected revenue %s to be kept, got %s", before.Revenue, store.View().Totals.Revenue)
		}
		notices := notifier.Recent(ctx, 10)
		if len(notices) != 1 || notices[0].Level != entity.NoticeLevelError {
			t.Errorf("expected one error notice, got %v", notices)
		}
	})

	t.Run("responses after cancellation are dropped", func(t *testing.T) {
		store := newStore(t)
		uc := NewRefreshAggregatesUseCase(sampleSource(), store, &recordingNotifier{}, cutoff)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := uc.Execute(cancelled); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if !store.View().Totals.Revenue.IsZero() {
			t.Errorf("expected revenue 0, got %s", store.View().Totals.Revenue)
		}
	})

	t.Run("buckets without a line are reported", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.Remove(ctx, 14); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := store.Remove(ctx, 8); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		notifier := &recordingNotifier{}
		uc := NewRefreshAggregatesUseCase(sampleSource(), store, notifier, cutoff)

		if _, err := uc.Execute(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		notices := notifier.Recent(ctx, 10)
		if len(notices) != 1 || notices[0].Level != entity.NoticeLevelInfo {
			t.Errorf("expected one info notice, got %v", notices)
		}
	})
}

func TestListNoticesUseCase(t *testing.T) {
	ctx := context.Background()
	inbox := &recordingNotifier{}
	for i := 0; i < 25; i++ {
		inbox.Notify(ctx, entity.NewNotice(entity.NoticeLevelInfo, "refreshed"))
	}

	output, _ := NewListNoticesUseCase(inbox).Execute(ctx, ListNoticesInput{})
	if len(output.Notices) != DefaultNoticeLimit {
		t.Errorf("expected %d notices, got %d", DefaultNoticeLimit, len(output.Notices))
	}

	output, _ = NewListNoticesUseCase(inbox).Execute(ctx, ListNoticesInput{Limit: 3})
	if len(output.Notices) != 3 {
		t.Errorf("expected 3 notices, got %d", len(output.Notices))
	}
}
