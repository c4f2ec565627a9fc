package statement

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/application/adapter"
	"github.com/backoffice/statement/internal/domain/entity"
	domainerror "github.com/backoffice/statement/internal/domain/error"
)

// DefaultPendingEditTTL is used when the gate is built without a TTL.
const DefaultPendingEditTTL = 5 * time.Minute

// EditGate holds protected edits until a credential confirms them.
// It has a single pending slot; a new request supersedes the held one.
type EditGate struct {
	mu             sync.Mutex
	state          entity.GateState
	pending        *entity.PendingEdit
	credentials    adapter.CredentialService
	credentialHash string
	ttl            time.Duration
	now            func() time.Time
}

// NewEditGate creates a new EditGate instance.
func NewEditGate(credentials adapter.CredentialService, credentialHash string, ttl time.Duration) *EditGate {
	if ttl <= 0 {
		ttl = DefaultPendingEditTTL
	}
	return &EditGate{
		state:          entity.GateStateIdle,
		credentials:    credentials,
		credentialHash: credentialHash,
		ttl:            ttl,
		now:            time.Now,
	}
}

// Request holds an edit of target on behalf of actor and moves the gate to
// pending confirmation.
func (g *EditGate) Request(actor entity.Actor, target entity.LineItem, field entity.EditField, value decimal.Decimal, description string) *entity.PendingEdit {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		slog.Info("Pending edit superseded",
			"edit_id", g.pending.ID,
			"line_id", g.pending.LineID,
			"requested_by", g.pending.RequestedBy.Label(),
			"superseded_by", actor.Label(),
		)
	}

	edit := entity.NewPendingEdit(target, field, value, description, actor, g.ttl)
	g.pending = edit
	g.state = entity.GateStatePendingConfirmation
	return edit
}

// Pending returns the held edit, if any, and the gate state. An authorized
// or cancelled outcome is reported once, after which the gate is idle again.
func (g *EditGate) Pending() (*entity.PendingEdit, entity.GateState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expireLocked()
	state := g.state
	if g.pending == nil && (state == entity.GateStateAuthorized || state == entity.GateStateCancelled) {
		g.state = entity.GateStateIdle
	}
	return g.pending, state
}

// Authorize verifies the credential for the held edit and releases it.
// A wrong credential discards the edit. Either way the slot is emptied.
func (g *EditGate) Authorize(id uuid.UUID, credential string) (*entity.PendingEdit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil || g.pending.ID != id {
		return nil, domainerror.ErrNoPendingEdit
	}

	edit := g.pending
	g.pending = nil

	if edit.IsExpired(g.now()) {
		g.state = entity.GateStateCancelled
		return nil, domainerror.ErrPendingEditExpired
	}

	if g.credentialHash == "" || g.credentials.VerifyCredential(g.credentialHash, credential) != nil {
		g.state = entity.GateStateCancelled
		return nil, domainerror.ErrInvalidCredential
	}

	g.state = entity.GateStateAuthorized
	return edit, nil
}

// Cancel discards the held edit.
func (g *EditGate) Cancel(id uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil || g.pending.ID != id {
		return domainerror.ErrNoPendingEdit
	}
	g.pending = nil
	g.state = entity.GateStateCancelled
	return nil
}

func (g *EditGate) expireLocked() {
	if g.pending != nil && g.pending.IsExpired(g.now()) {
		slog.Info("Pending edit expired", "edit_id", g.pending.ID)
		g.pending = nil
		g.state = entity.GateStateCancelled
	}
}
