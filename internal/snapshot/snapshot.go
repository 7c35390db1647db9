// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tfctl/snapdiff/internal/compare"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/record"
	"github.com/tfctl/snapdiff/internal/schema"
)

var (
	// ErrDuplicateKey is matched by every DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key in snapshot")

	// ErrMissingKeyField is matched by every MissingKeyFieldError.
	ErrMissingKeyField = errors.New("record lacks key field")
)

// DuplicateKeyError reports a key that occurs more than once in one snapshot.
type DuplicateKeyError struct {
	Snapshot string
	Key      record.Key
	// Rows are the zero-based input positions of the first and the repeated
	// occurrence.
	Rows [2]int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("snapshot %s: duplicate key %s at rows %d and %d",
		e.Snapshot, e.Key, e.Rows[0], e.Rows[1])
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// MissingKeyFieldError reports a record whose key field is absent, null or
// blank.
type MissingKeyFieldError struct {
	Snapshot string
	Field    string
	Row      int
}

func (e *MissingKeyFieldError) Error() string {
	return fmt.Sprintf("snapshot %s: row %d lacks key field %q", e.Snapshot, e.Row, e.Field)
}

func (e *MissingKeyFieldError) Is(target error) bool { return target == ErrMissingKeyField }

// Snapshot is an immutable keyed record set captured at one point in time.
// Records handed out by Get must be treated as read-only.
type Snapshot struct {
	label    string
	keyField string
	keys     []record.Key
	records  map[record.Key]record.Record
}

// Build indexes rows by keyField. Key values are coerced to keyType (int or
// string). A missing key field, an unparsable key or a repeated key aborts the
// build: these are input errors, not something to resolve silently.
func Build(label, keyField string, keyType schema.FieldType, rows []record.Record) (*Snapshot, error) {
	s := &Snapshot{
		label:    label,
		keyField: keyField,
		keys:     make([]record.Key, 0, len(rows)),
		records:  make(map[record.Key]record.Record, len(rows)),
	}
	firstRow := make(map[record.Key]int, len(rows))

	for i, row := range rows {
		key, err := keyOf(label, keyField, keyType, i, row.Get(keyField))
		if err != nil {
			return nil, err
		}

		if first, dup := firstRow[key]; dup {
			return nil, &DuplicateKeyError{Snapshot: label, Key: key, Rows: [2]int{first, i}}
		}
		firstRow[key] = i

		s.keys = append(s.keys, key)
		s.records[key] = row.Clone()
	}

	slices.SortFunc(s.keys, record.Key.Compare)
	log.Debugf("snapshot built: label=%s records=%d", label, len(s.keys))

	return s, nil
}

// keyOf extracts and types the key of a single row.
func keyOf(label, field string, keyType schema.FieldType, row int, v record.Value) (record.Key, error) {
	missing := &MissingKeyFieldError{Snapshot: label, Field: field, Row: row}
	if v.IsNull() {
		return record.Key{}, missing
	}

	raw := strings.TrimSpace(v.Raw())
	if raw == "" {
		return record.Key{}, missing
	}

	// String keys are exact; " a" and "a" are different records.
	if keyType != schema.TypeInt {
		return record.StringKey(v.Raw()), nil
	}

	// Integral numbers go through ParseInt too so values beyond int64 fail
	// instead of wrapping.
	if d, ok := v.Decimal(); ok && d.IsInteger() {
		raw = d.String()
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return record.Key{}, &compare.TypeCoercionError{
			Field: field,
			Key:   record.StringKey(fmt.Sprintf("row %d", row)),
			Raw:   v.Raw(),
			Type:  schema.TypeInt,
			Err:   err,
		}
	}
	return record.IntKey(n), nil
}

// Label names the snapshot in errors and logs, usually its source location.
func (s *Snapshot) Label() string { return s.label }

// KeyField is the declared key field.
func (s *Snapshot) KeyField() string { return s.keyField }

// Len is the number of records.
func (s *Snapshot) Len() int { return len(s.keys) }

// Keys returns every key in ascending order. The slice is a copy.
func (s *Snapshot) Keys() []record.Key {
	return slices.Clone(s.keys)
}

// Has reports whether key is present.
func (s *Snapshot) Has(key record.Key) bool {
	_, ok := s.records[key]
	return ok
}

// Get returns the record stored under key.
func (s *Snapshot) Get(key record.Key) (record.Record, bool) {
	r, ok := s.records[key]
	return r, ok
}
