// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tfctl/snapdiff/internal/record"
)

// DecodeCSV reads a header row and one record per following row. Empty cells
// are Null. Every cell is a String value; typing is left to the comparator.
func DecodeCSV(r io.Reader, delim rune) ([]record.Record, error) {
	cr := csv.NewReader(r)
	if delim != 0 {
		cr.Comma = delim
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return nil, fmt.Errorf("column %q appears more than once", h)
		}
		seen[h] = true
	}

	var out []record.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(record.Record, len(header))
		for i, cell := range row {
			if cell == "" {
				rec[header[i]] = record.NullValue()
				continue
			}
			rec[header[i]] = record.StringValue(cell)
		}
		out = append(out, rec)
	}
	return out, nil
}
