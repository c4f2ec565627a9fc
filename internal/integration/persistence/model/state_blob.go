// Package model defines database models for persistence layer.
package model

import (
	"time"
)

// StateBlobModel represents the statement_blobs table in the database.
// Each row holds one whole JSON document under a fixed key.
type StateBlobModel struct {
	Key       string    `gorm:"column:blob_key;type:varchar(100);primaryKey"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the StateBlobModel.
func (StateBlobModel) TableName() string {
	return "statement_blobs"
}
