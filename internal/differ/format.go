// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"strings"

	"github.com/tfctl/snapdiff/internal/compare"
	"github.com/tfctl/snapdiff/internal/record"
	"github.com/tfctl/snapdiff/internal/schema"
)

// Formatter renders the details text of an UPDATE.
type Formatter struct {
	fields      map[string]schema.Field
	placeholder string
}

// NewFormatter returns a Formatter for fields. Null values render as
// placeholder.
func NewFormatter(fields schema.FieldList, placeholder string) *Formatter {
	return &Formatter{fields: fields.Index(), placeholder: placeholder}
}

// Format returns "field:old→new" for each changed field in order, joined by
// ", ". Fields that display as integers drop any fractional part, truncating
// toward zero; "9.99" renders as "9". This never affects classification.
func (f *Formatter) Format(changed []string, old, cur record.Record) string {
	parts := make([]string, 0, len(changed))
	for _, name := range changed {
		parts = append(parts, name+":"+f.Value(name, old.Get(name))+"→"+f.Value(name, cur.Get(name)))
	}
	return strings.Join(parts, ", ")
}

// Value renders one value of field name for display.
func (f *Formatter) Value(name string, v record.Value) string {
	if v.IsNull() {
		return f.placeholder
	}

	field, ok := f.fields[name]
	if !ok || !field.Type.Numeric() {
		return v.Raw()
	}

	c, err := compare.Coerce(schema.Field{Name: name, Type: schema.TypeNumber}, record.Key{}, v)
	if err != nil {
		return v.Raw()
	}
	d, _ := c.Decimal()
	if field.DisplaysInteger() {
		return d.Truncate(0).String()
	}
	return d.String()
}
