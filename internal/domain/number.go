package domain

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"strconv"
)

// Number is a numeric cell that may have failed coercion. An invalid Number is
// the missing-value marker and serializes as JSON null.
type Number struct {
	sql.NullFloat64
}

func NewNumber(v float64) Number {
	return Number{sql.NullFloat64{Float64: v, Valid: true}}
}

// OrZero returns the value, or 0 when missing.
func (n Number) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Float64
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// Ptr returns nil for a missing value.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func NumberFromPtr(p *float64) Number {
	if p == nil {
		return Number{}
	}
	return NewNumber(*p)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = Number{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = NewNumber(v)
	return nil
}
