// Package valueobject contains domain value objects for the statement engine.
package valueobject

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeAmount converts a monetary input into a canonical signed decimal.
//
// Accepted inputs are nil, every integer and float kind, decimal.Decimal,
// json.Number and strings such as "R$ 1.234,56", "1,234.56", "(500)" or
// "negative 12,5". Anything that cannot be parsed normalizes to zero.
func NormalizeAmount(input any) decimal.Decimal {
	switch v := input.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int8:
		return decimal.NewFromInt(int64(v))
	case int16:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return decimal.NewFromInt(int64(v))
	case uint16:
		return decimal.NewFromInt(int64(v))
	case uint32:
		return decimal.NewFromInt(int64(v))
	case uint64:
		return fromUint(v)
	case json.Number:
		// Decoders emit exponent forms such as 1e-7 for small and large floats.
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
		return normalizeString(v.String())
	case string:
		return normalizeString(v)
	case *string:
		if v == nil {
			return decimal.Zero
		}
		return normalizeString(*v)
	default:
		return decimal.Zero
	}
}

// NormalizeCost normalizes an amount into an outflow (always <= 0).
func NormalizeCost(input any) decimal.Decimal {
	return NormalizeAmount(input).Abs().Neg()
}

// NormalizeCredit normalizes an amount into an inflow (always >= 0).
func NormalizeCredit(input any) decimal.Decimal {
	return NormalizeAmount(input).Abs()
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func normalizeString(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	negative := false
	lower := strings.ToLower(s)
	if strings.Contains(lower, "negative") {
		negative = true
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
	}

	var b strings.Builder
	seenDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == ',' || r == '.':
			b.WriteRune(r)
		case r == '-' && !seenDigit:
			negative = true
		}
	}

	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	if strings.Count(cleaned, ".") > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}
	cleaned = strings.TrimSuffix(cleaned, ".")
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	if cleaned == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return value.Abs().Neg()
	}
	return value
}
