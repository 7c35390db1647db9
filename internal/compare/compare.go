// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package compare

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tfctl/snapdiff/internal/record"
	"github.com/tfctl/snapdiff/internal/schema"
)

// ErrTypeCoercion is matched by every TypeCoercionError.
var ErrTypeCoercion = errors.New("value cannot be coerced to declared type")

// TypeCoercionError reports a value that does not parse as its field's
// declared type.
type TypeCoercionError struct {
	Field string
	Key   record.Key
	Raw   string
	Type  schema.FieldType
	Err   error
}

func (e *TypeCoercionError) Error() string {
	msg := fmt.Sprintf("key %s: field %q: cannot coerce %q to %s", e.Key, e.Field, e.Raw, e.Type)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeCoercionError) Is(target error) bool { return target == ErrTypeCoercion }

func (e *TypeCoercionError) Unwrap() error { return e.Err }

// timeLayouts are tried after a field's own layout.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Comparator decides field equality from the declared field types.
type Comparator struct {
	fields map[string]schema.Field
}

// New returns a Comparator for the given compared fields.
func New(fields schema.FieldList) *Comparator {
	return &Comparator{fields: fields.Index()}
}

// Equal reports whether old and new are the same value of field. Null equals
// null and null never equals a present value; both rules apply before any
// coercion. A value that cannot be coerced yields a *TypeCoercionError naming
// field, key and the raw text.
func (c *Comparator) Equal(field string, key record.Key, oldV, newV record.Value) (bool, error) {
	f, ok := c.fields[field]
	if !ok {
		return false, fmt.Errorf("field %q is not a compared field", field)
	}

	switch {
	case oldV.IsNull() && newV.IsNull():
		return true, nil
	case oldV.IsNull() || newV.IsNull():
		return false, nil
	}

	a, err := Coerce(f, key, oldV)
	if err != nil {
		return false, err
	}
	b, err := Coerce(f, key, newV)
	if err != nil {
		return false, err
	}

	switch f.Type {
	case schema.TypeInt, schema.TypeNumber:
		x, _ := a.Decimal()
		y, _ := b.Decimal()
		return x.Equal(y), nil
	case schema.TypeTimestamp:
		x, _ := a.Time()
		y, _ := b.Time()
		return x.Equal(y), nil
	default:
		return a.Raw() == b.Raw(), nil
	}
}

// Coerce converts v to the canonical variant of f's declared type. Null stays
// Null. Int fields reject values with a fractional part.
func Coerce(f schema.Field, key record.Key, v record.Value) (record.Value, error) {
	if v.IsNull() {
		return v, nil
	}

	fail := func(err error) (record.Value, error) {
		return record.Value{}, &TypeCoercionError{Field: f.Name, Key: key, Raw: v.Raw(), Type: f.Type, Err: err}
	}

	switch f.Type {
	case schema.TypeInt, schema.TypeNumber:
		d, ok := v.Decimal()
		if !ok {
			if v.Kind() != record.String {
				return fail(fmt.Errorf("%s value is not numeric", v.Kind()))
			}
			var err error
			d, err = decimal.NewFromString(strings.TrimSpace(v.Raw()))
			if err != nil {
				return fail(err)
			}
		}
		if f.Type == schema.TypeInt && !d.IsInteger() {
			return fail(errors.New("fractional part in int field"))
		}
		return record.NumberValue(d, v.Raw()), nil

	case schema.TypeTimestamp:
		if _, ok := v.Time(); ok {
			return v, nil
		}
		if v.Kind() != record.String {
			return fail(fmt.Errorf("%s value is not a timestamp", v.Kind()))
		}
		t, err := parseTime(f.Layout, strings.TrimSpace(v.Raw()))
		if err != nil {
			return fail(err)
		}
		return record.TimestampValue(t, v.Raw()), nil

	default:
		// Source text, whatever the kind, so "100.0" from JSON equals "100.0"
		// from CSV.
		return record.StringValue(v.Raw()), nil
	}
}

// parseTime tries the field layout and then the common layouts.
func parseTime(layout, s string) (time.Time, error) {
	layouts := timeLayouts
	if layout != "" {
		layouts = append([]string{layout}, timeLayouts...)
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known layout matches %q", s)
}
