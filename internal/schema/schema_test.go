// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package schema

import (
	"embed"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testSetCase represents a single test case for TestFieldList_Set.
type testSetCase struct {
	Name       string    `yaml:"name"`
	Initial    FieldList `yaml:"initial"`
	Value      string    `yaml:"value"`
	WantFields FieldList `yaml:"wantFields"`
	WantErr    bool      `yaml:"wantErr"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestFieldList_Set(t *testing.T) {
	var cases []testSetCase
	require.NoError(t, loadTestData("set.yaml", &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			l := append(FieldList{}, tc.Initial...)
			err := l.Set(tc.Value)
			if tc.WantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tc.WantFields), len(l))
			for i := range tc.WantFields {
				assert.Equal(t, tc.WantFields[i], l[i], "at index %d", i)
			}
		})
	}
}

func TestFieldList_String(t *testing.T) {
	l := FieldList{
		{Name: "price", Type: TypeInt},
		{Name: "amount", Type: TypeNumber, Truncate: true},
	}
	assert.Equal(t, "price:int,amount:number:trunc", l.String())
	assert.Equal(t, []string{"price", "amount"}, l.Names())

	var round FieldList
	require.NoError(t, round.Set(l.String()))
	assert.Equal(t, l, round)
}

func TestLoad(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "products.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "product_id", s.Key)
	assert.Equal(t, TypeInt, s.KeyType)
	assert.Equal(t, "category", s.Category)
	assert.Equal(t, []string{"product_name", "category", "price", "weight", "updated_at"}, s.Fields.Names())

	// Omitted types default to string.
	f, ok := s.Field("product_name")
	require.True(t, ok)
	assert.Equal(t, TypeString, f.Type)

	f, ok = s.Field("weight")
	require.True(t, ok)
	assert.True(t, f.DisplaysInteger())

	f, ok = s.Field("updated_at")
	require.True(t, ok)
	assert.Equal(t, "2006/01/02 15:04", f.Layout)

	_, ok = s.Field("nope")
	assert.False(t, ok)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key field must not be empty")
	assert.Contains(t, err.Error(), "key type must be int or string")
	assert.Contains(t, err.Error(), "unknown type")
	assert.Contains(t, err.Error(), "declared more than once")

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	s := Default()
	s.Fields = append(s.Fields, Field{Name: "product_id", Type: TypeInt})
	assert.ErrorContains(t, s.Validate(), "cannot be a compared field")

	s = Default()
	s.Fields = nil
	assert.ErrorContains(t, s.Validate(), "at least one compared field")
}

func TestColumns(t *testing.T) {
	s := Schema{
		Key:      "id",
		KeyType:  TypeString,
		Category: "region",
		Fields:   FieldList{{Name: "name", Type: TypeString}, {Name: "region", Type: TypeString}},
	}
	assert.Equal(t, []string{"id", "region", "name"}, s.Columns())
}

func TestDisplaysInteger(t *testing.T) {
	assert.True(t, Field{Type: TypeInt}.DisplaysInteger())
	assert.False(t, Field{Type: TypeNumber}.DisplaysInteger())
	assert.True(t, Field{Type: TypeNumber, Truncate: true}.DisplaysInteger())
	assert.False(t, Field{Type: TypeString, Truncate: true}.DisplaysInteger())
}
