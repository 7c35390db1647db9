// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/tfctl/snapdiff/internal/record"
)

// DecodeJSON reads an array of objects. path, when set, is a gjson path
// selecting the array within the document. Numbers keep their source text.
func DecodeJSON(b []byte, path string) ([]record.Record, error) {
	if !gjson.ValidBytes(b) {
		return nil, errors.New("invalid json")
	}

	doc := gjson.ParseBytes(b)
	if path != "" {
		doc = doc.Get(path)
		if !doc.Exists() {
			return nil, fmt.Errorf("path %q not found", path)
		}
	}
	if !doc.IsArray() {
		return nil, errors.New("expected an array of objects")
	}

	var (
		out []record.Record
		err error
	)
	doc.ForEach(func(idx, item gjson.Result) bool {
		if !item.IsObject() {
			err = fmt.Errorf("element %d is not an object", len(out))
			return false
		}
		rec := record.Record{}
		item.ForEach(func(k, v gjson.Result) bool {
			rec[k.String()] = jsonValue(v)
			return true
		})
		out = append(out, rec)
		return true
	})
	return out, err
}

// jsonValue maps a gjson result to a Value. Nested values keep their raw
// JSON text.
func jsonValue(v gjson.Result) record.Value {
	switch v.Type {
	case gjson.Null:
		return record.NullValue()
	case gjson.Number:
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			d = decimal.NewFromFloat(v.Num)
		}
		return record.NumberValue(d, v.Raw)
	case gjson.String:
		return record.StringValue(v.String())
	default:
		return record.StringValue(v.Raw)
	}
}
