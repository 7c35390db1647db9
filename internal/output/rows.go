// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tfctl/snapdiff/internal/differ"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report columns, in the order they are written.
const (
	ColRecordID       = "record_id"
	ColChangeType     = "change_type"
	ColChangedColumns = "changed_columns"
	ColDetails        = "details"
	ColCategory       = "category"
)

// Columns returns the report columns. The category column is optional.
func Columns(withCategory bool) []string {
	cols := []string{ColRecordID, ColChangeType, ColChangedColumns, ColDetails}
	if withCategory {
		cols = append(cols, ColCategory)
	}
	return cols
}

// ResultRows flattens results into the generic row shape that the filter,
// sort and render stages work on. record_id keeps its native type, int64 or
// string, so that sorting and numeric filters behave.
func ResultRows(results []differ.Result) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		rows = append(rows, map[string]interface{}{
			ColRecordID:       r.Key.Interface(),
			ColChangeType:     string(r.ChangeType),
			ColChangedColumns: strings.Join(r.ChangedFields, ","),
			ColDetails:        r.Details,
			ColCategory:       r.Category,
		})
	}
	return rows
}

// WithoutUnchanged drops UNCHANGED rows.
func WithoutUnchanged(rows []map[string]interface{}) []map[string]interface{} {
	//nolint:prealloc
	var out []map[string]interface{}
	for _, row := range rows {
		if row[ColChangeType] == string(differ.Unchanged) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided and is used for nil and empty
// strings. Numeric zero is a real value and is rendered.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []string:
		if len(value) == 0 {
			return emptyValue[0]
		}
		return strings.Join(value, ",")
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
