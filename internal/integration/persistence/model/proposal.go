// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatusApproved is the status of proposals whose fees count as revenue.
const ProposalStatusApproved = "approved"

// ProposalModel represents the proposals table owned by the proposals service.
// Fee is free text as typed by users; it is normalized after reading.
type ProposalModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Client    string     `gorm:"type:varchar(255)"`
	Status    string     `gorm:"type:varchar(30);index"`
	Fee       *string    `gorm:"type:text"`
	StartDate *time.Time `gorm:"type:date;index"`
	CreatedAt time.Time
}

// TableName returns the table name for the ProposalModel.
func (ProposalModel) TableName() string {
	return "proposals"
}

// ExitProposalModel represents the exit_proposals table: clients leaving the firm.
type ExitProposalModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Client       string     `gorm:"type:varchar(255)"`
	LossValue    *string    `gorm:"type:text"`
	BaselineDate *time.Time `gorm:"type:date;index"`
	CreatedAt    time.Time
}

// TableName returns the table name for the ExitProposalModel.
func (ExitProposalModel) TableName() string {
	return "exit_proposals"
}

// CostEntryModel represents the cost_entries table owned by the costs service.
type CostEntryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CostCenter *string   `gorm:"type:varchar(100)"`
	Amount     *string   `gorm:"type:text"`
	CreatedAt  time.Time
}

// TableName returns the table name for the CostEntryModel.
func (CostEntryModel) TableName() string {
	return "cost_entries"
}
