package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EditField identifies which attribute of a line a protected edit targets.
type EditField string

const (
	EditFieldValue       EditField = "value"
	EditFieldDescription EditField = "description"
)

// GateState represents the state of the edit authorization gate.
type GateState string

const (
	GateStateIdle                GateState = "idle"
	GateStatePendingConfirmation GateState = "pending_confirmation"
	GateStateAuthorized          GateState = "authorized"
	GateStateCancelled           GateState = "cancelled"
)

// PendingEdit is a protected mutation held until a credential confirms it.
type PendingEdit struct {
	ID          uuid.UUID
	LineID      int
	LineKey     string
	LineDesc    string
	Field       EditField
	Value       decimal.Decimal
	Description string
	RequestedBy Actor
	RequestedAt time.Time
	ExpiresAt   time.Time
}

// NewPendingEdit creates a held edit on target, requested by actor, that
// expires after ttl.
func NewPendingEdit(target LineItem, field EditField, value decimal.Decimal, description string, actor Actor, ttl time.Duration) *PendingEdit {
	now := time.Now().UTC()

	return &PendingEdit{
		ID:          uuid.New(),
		LineID:      target.ID,
		LineKey:     target.Key,
		LineDesc:    target.Description,
		Field:       field,
		Value:       value,
		Description: description,
		RequestedBy: actor,
		RequestedAt: now,
		ExpiresAt:   now.Add(ttl),
	}
}

// IsExpired reports whether the confirmation window has elapsed.
func (p *PendingEdit) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// Targets reports whether line is still the line the edit was requested on.
// Ids shift after structural changes, so the key and description seen at
// request time are compared as well.
func (p *PendingEdit) Targets(line LineItem) bool {
	return line.ID == p.LineID && line.Key == p.LineKey && line.Description == p.LineDesc
}

// Patch converts the held edit into the patch the ledger applies.
func (p *PendingEdit) Patch() LinePatch {
	switch p.Field {
	case EditFieldDescription:
		desc := p.Description
		return LinePatch{Description: &desc}
	default:
		value := p.Value
		return LinePatch{Value: &value}
	}
}
