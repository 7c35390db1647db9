// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tfctl/snapdiff/internal/log"
)

// FieldType is the declared semantic type of a compared field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInt       FieldType = "int"
	TypeNumber    FieldType = "number"
	TypeTimestamp FieldType = "timestamp"
)

// Valid reports whether t is a known type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeInt, TypeNumber, TypeTimestamp:
		return true
	}
	return false
}

// Numeric reports whether t is int or number.
func (t FieldType) Numeric() bool {
	return t == TypeInt || t == TypeNumber
}

// Field is one compared attribute of a record.
type Field struct {
	// Name of the column or JSON key.
	Name string `yaml:"name" json:"name"`
	// Type drives coercion and equality.
	Type FieldType `yaml:"type" json:"type"`
	// Truncate renders a number field as an integer in change details. It has
	// no effect on classification. Int fields always render as integers.
	Truncate bool `yaml:"truncate,omitempty" json:"truncate,omitempty"`
	// Layout is an extra time layout tried first for timestamp fields.
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// DisplaysInteger reports whether change details render this field's values
// as integers. Any fractional component is truncated toward zero.
func (f Field) DisplaysInteger() bool {
	return f.Type == TypeInt || (f.Type == TypeNumber && f.Truncate)
}

// Schema describes how records are keyed and which fields are compared.
type Schema struct {
	Key      string    `yaml:"key" json:"key"`
	KeyType  FieldType `yaml:"keyType" json:"keyType"`
	Category string    `yaml:"category,omitempty" json:"category,omitempty"`
	Fields   FieldList `yaml:"fields" json:"fields"`
}

// Default is the schema of the product snapshots the tool was first written
// for.
func Default() Schema {
	return Schema{
		Key:      "product_id",
		KeyType:  TypeInt,
		Category: "category",
		Fields: FieldList{
			{Name: "product_name", Type: TypeString},
			{Name: "category", Type: TypeString},
			{Name: "price", Type: TypeInt},
			{Name: "stock", Type: TypeInt},
			{Name: "status", Type: TypeString},
			{Name: "updated_at", Type: TypeTimestamp},
		},
	}
}

// Load reads a YAML schema document from path and validates it.
func Load(path string) (Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}

	var s Schema
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	s.applyDefaults()
	log.Debugf("schema loaded: path=%s fields=%s", path, s.Fields.String())

	if err := s.Validate(); err != nil {
		return Schema{}, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return s, nil
}

// applyDefaults fills in types left empty in a hand written schema.
func (s *Schema) applyDefaults() {
	if s.KeyType == "" {
		s.KeyType = TypeString
	}
	for i := range s.Fields {
		if s.Fields[i].Type == "" {
			s.Fields[i].Type = TypeString
		}
	}
}

// Validate checks the structural rules of a schema.
func (s Schema) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Key) == "" {
		errs = append(errs, errors.New("key field must not be empty"))
	}
	if s.KeyType != TypeInt && s.KeyType != TypeString {
		errs = append(errs, fmt.Errorf("key type must be int or string, got %q", s.KeyType))
	}
	if len(s.Fields) == 0 {
		errs = append(errs, errors.New("at least one compared field is required"))
	}

	seen := map[string]bool{}
	for _, f := range s.Fields {
		switch {
		case f.Name == "":
			errs = append(errs, errors.New("field name must not be empty"))
		case f.Name == s.Key:
			errs = append(errs, fmt.Errorf("key field %q cannot be a compared field", f.Name))
		case seen[f.Name]:
			errs = append(errs, fmt.Errorf("field %q declared more than once", f.Name))
		}
		if !f.Type.Valid() {
			errs = append(errs, fmt.Errorf("field %q has unknown type %q", f.Name, f.Type))
		}
		seen[f.Name] = true
	}

	return errors.Join(errs...)
}

// Field returns the declared field called name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns every column a record source must deliver: the key, the
// category and the compared fields, without duplicates and in that order.
func (s Schema) Columns() []string {
	cols := []string{s.Key}
	seen := map[string]bool{s.Key: true}
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	add(s.Category)
	for _, f := range s.Fields {
		add(f.Name)
	}
	return cols
}

// YAML renders the schema as a YAML document.
func (s Schema) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
