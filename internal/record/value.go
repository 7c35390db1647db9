// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	String
	Number
	Timestamp
)

// String returns the lower case name of the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Timestamp:
		return "timestamp"
	default:
		return "null"
	}
}

// Value is a single field value as delivered by a record source. Sources that
// only see text (CSV) produce String values and leave typing to the
// comparator; typed sources (JSON, Postgres) produce Number and Timestamp
// values directly. Raw always carries the source text used for display.
type Value struct {
	kind Kind
	raw  string
	num  decimal.Decimal
	ts   time.Time
}

// NullValue returns the absent value.
func NullValue() Value { return Value{} }

// StringValue wraps s.
func StringValue(s string) Value {
	return Value{kind: String, raw: s}
}

// NumberValue wraps d. raw is the source text; when empty the canonical
// decimal text is used.
func NumberValue(d decimal.Decimal, raw string) Value {
	if raw == "" {
		raw = d.String()
	}
	return Value{kind: Number, raw: raw, num: d}
}

// TimestampValue wraps t. raw is the source text; when empty RFC3339 is used.
func TimestampValue(t time.Time, raw string) Value {
	if raw == "" {
		raw = t.Format(time.RFC3339Nano)
	}
	return Value{kind: Timestamp, raw: raw, ts: t}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull is true for the absent value.
func (v Value) IsNull() bool { return v.kind == Null }

// Raw returns the source text. It is empty for Null.
func (v Value) Raw() string { return v.raw }

// Decimal returns the numeric payload and whether v is a Number.
func (v Value) Decimal() (decimal.Decimal, bool) {
	return v.num, v.kind == Number
}

// Time returns the instant and whether v is a Timestamp.
func (v Value) Time() (time.Time, bool) {
	return v.ts, v.kind == Timestamp
}

// Interface returns a plain Go value suitable for JSON or YAML encoding.
// Integral numbers become int64, everything else float64.
func (v Value) Interface() any {
	switch v.kind {
	case Null:
		return nil
	case Number:
		if v.num.IsInteger() {
			return v.num.IntPart()
		}
		f, _ := v.num.Float64()
		return f
	default:
		return v.raw
	}
}

// Record maps field names to values. A field missing from the map is Null.
type Record map[string]Value

// Get returns the value for field, or Null when absent.
func (r Record) Get(field string) Value {
	if r == nil {
		return NullValue()
	}
	return r[field]
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Map returns the record as plain Go values keyed by field name.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.Interface()
	}
	return out
}
