// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package snapshot

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snapdiff/internal/compare"
	"github.com/tfctl/snapdiff/internal/record"
	"github.com/tfctl/snapdiff/internal/schema"
)

func row(id string, name string) record.Record {
	r := record.Record{"name": record.StringValue(name)}
	if id != "" {
		r["id"] = record.StringValue(id)
	}
	return r
}

func TestBuild_IntKeys(t *testing.T) {
	rows := []record.Record{
		row("10", "ten"),
		row("2", "two"),
		{"id": record.NumberValue(decimal.NewFromInt(7), "7"), "name": record.StringValue("seven")},
	}

	s, err := Build("prev", "id", schema.TypeInt, rows)
	require.NoError(t, err)

	assert.Equal(t, "prev", s.Label())
	assert.Equal(t, "id", s.KeyField())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []record.Key{record.IntKey(2), record.IntKey(7), record.IntKey(10)}, s.Keys())

	r, ok := s.Get(record.IntKey(10))
	require.True(t, ok)
	assert.Equal(t, "ten", r.Get("name").Raw())
	assert.True(t, s.Has(record.IntKey(7)))
	assert.False(t, s.Has(record.StringKey("7")))
}

func TestBuild_StringKeys(t *testing.T) {
	s, err := Build("curr", "id", schema.TypeString, []record.Record{row("b", "B"), row("a", "A"), row(" a", "padded")})
	require.NoError(t, err)

	assert.Equal(t, []record.Key{record.StringKey(" a"), record.StringKey("a"), record.StringKey("b")}, s.Keys())
	r, ok := s.Get(record.StringKey(" a"))
	require.True(t, ok)
	assert.Equal(t, "padded", r.Get("name").Raw())
}

func TestBuild_IsolatedFromInput(t *testing.T) {
	rows := []record.Record{row("1", "one")}
	s, err := Build("prev", "id", schema.TypeInt, rows)
	require.NoError(t, err)

	rows[0]["name"] = record.StringValue("changed")
	r, _ := s.Get(record.IntKey(1))
	assert.Equal(t, "one", r.Get("name").Raw())

	keys := s.Keys()
	keys[0] = record.IntKey(99)
	assert.Equal(t, record.IntKey(1), s.Keys()[0])
}

func TestBuild_DuplicateKey(t *testing.T) {
	_, err := Build("prev", "id", schema.TypeInt, []record.Record{row("1", "a"), row("2", "b"), row("01", "c")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, record.IntKey(1), dup.Key)
	assert.Equal(t, [2]int{0, 2}, dup.Rows)
	assert.Contains(t, err.Error(), "duplicate key 1")
}

func TestBuild_MissingKeyField(t *testing.T) {
	tests := []struct {
		name string
		row  record.Record
	}{
		{name: "absent", row: row("", "x")},
		{name: "null", row: record.Record{"id": record.NullValue()}},
		{name: "blank", row: row("   ", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("curr", "id", schema.TypeString, []record.Record{row("1", "a"), tt.row})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingKeyField))

			var missing *MissingKeyFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, 1, missing.Row)
			assert.Equal(t, "id", missing.Field)
		})
	}
}

func TestBuild_UnparsableIntKey(t *testing.T) {
	_, err := Build("prev", "id", schema.TypeInt, []record.Record{row("abc", "x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, compare.ErrTypeCoercion))
	assert.Contains(t, err.Error(), "abc")
}

func TestBuild_IntKeyOverflow(t *testing.T) {
	big := func(v string) record.Record {
		return record.Record{"id": record.NumberValue(decimal.RequireFromString(v), v)}
	}

	tests := []struct {
		name string
		rows []record.Record
	}{
		{name: "number above int64", rows: []record.Record{big("18446744073709551617"), big("1")}},
		{name: "number below int64", rows: []record.Record{big("-9223372036854775809")}},
		{name: "text above int64", rows: []record.Record{row("18446744073709551617", "x"), row("1", "y")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("prev", "id", schema.TypeInt, tt.rows)
			require.Error(t, err)
			assert.True(t, errors.Is(err, compare.ErrTypeCoercion))
			assert.False(t, errors.Is(err, ErrDuplicateKey))
		})
	}

	s, err := Build("prev", "id", schema.TypeInt, []record.Record{big("9223372036854775807"), big("1.0")})
	require.NoError(t, err)
	assert.Equal(t, []record.Key{record.IntKey(1), record.IntKey(9223372036854775807)}, s.Keys())
}

func TestBuild_Empty(t *testing.T) {
	s, err := Build("empty", "id", schema.TypeInt, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
}
