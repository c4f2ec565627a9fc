// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a plain success message.
type MessageResponse struct {
	Message string `json:"message"`
}

// FormatBRL renders an amount the way the statement is displayed, e.g. R$1.234,56.
func FormatBRL(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.BRL)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), money.BRL).Display()
}

// RawAmount keeps a JSON amount as sent: a number, a string or null.
// The monetary normalizer decides what it means.
type RawAmount struct {
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *RawAmount) UnmarshalJSON(data []byte) error {
	a.raw = append(a.raw[:0], data...)
	return nil
}

// IsSet reports whether the field was present in the request.
func (a RawAmount) IsSet() bool {
	return len(a.raw) > 0
}

// Value returns the decoded amount as json.Number, string or nil.
func (a RawAmount) Value() any {
	if len(a.raw) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(a.raw))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil
	}
	return v
}
