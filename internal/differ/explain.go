// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/record"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Explain writes a field level diff of one record to w. A nil record stands
// for a key absent from that snapshot. Fields named in omit are left out of
// both sides.
func Explain(w io.Writer, key record.Key, old, cur record.Record, color bool, omit ...string) error {
	log.Debugf(">> Explain(%s)", key)

	left, err := recordJSON(old, omit)
	if err != nil {
		return err
	}
	right, err := recordJSON(cur, omit)
	if err != nil {
		return err
	}

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return fmt.Errorf("failed to compare records: %w", err)
	}

	if !delta.Modified() {
		_, err := fmt.Fprintf(w, "Record %s is identical.\n", key)
		return err
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}
	out, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, out)
	return err
}

// recordJSON encodes r as a JSON object, without the omitted fields.
func recordJSON(r record.Record, omit []string) ([]byte, error) {
	m := r.Map()
	for _, f := range omit {
		delete(m, f)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return b, nil
}
