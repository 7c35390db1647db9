// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/summary"
)

// Formats lists the values accepted by --output.
var Formats = []string{"text", "json", "yaml", "csv"}

// Report is everything a run has to say.
type Report struct {
	RunID    string
	Previous string
	Current  string
	Mode     string
	Columns  []string
	Rows     []map[string]interface{}
	Summary  summary.Summary
	Elapsed  time.Duration
	Warnings []error
	// SummaryOnly leaves the result rows out of the rendering.
	SummaryOnly bool
}

type documentSummary struct {
	PreviousCount  int                       `json:"previous_count" yaml:"previous_count"`
	CurrentCount   int                       `json:"current_count" yaml:"current_count"`
	Counts         map[string]int            `json:"counts" yaml:"counts"`
	ByCategory     map[string]map[string]int `json:"by_category" yaml:"by_category"`
	ChangedColumns []summary.FieldCount      `json:"changed_columns" yaml:"changed_columns"`
}

type document struct {
	RunID     string                   `json:"run_id" yaml:"run_id"`
	Previous  string                   `json:"previous" yaml:"previous"`
	Current   string                   `json:"current" yaml:"current"`
	Mode      string                   `json:"mode" yaml:"mode"`
	ElapsedMS int64                    `json:"elapsed_ms" yaml:"elapsed_ms"`
	Summary   documentSummary          `json:"summary" yaml:"summary"`
	Results   []map[string]interface{} `json:"results,omitempty" yaml:"results,omitempty"`
	Warnings  []string                 `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Emit renders r to w in the given format.
func Emit(w io.Writer, format string, r Report, opts TableOptions) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(r.document(), "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(r.document())
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "csv":
		return WriteCSV(w, r.Rows, r.Columns, opts.Placeholder)
	case "", "text":
		return emitText(w, r, opts)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func (r Report) document() document {
	s := r.Summary
	doc := document{
		RunID:     r.RunID,
		Previous:  r.Previous,
		Current:   r.Current,
		Mode:      r.Mode,
		ElapsedMS: r.Elapsed.Milliseconds(),
		Summary: documentSummary{
			PreviousCount:  s.PrevTotal(),
			CurrentCount:   s.CurrTotal(),
			Counts:         map[string]int{},
			ByCategory:     map[string]map[string]int{},
			ChangedColumns: s.FieldFrequencies(),
		},
	}

	for ct, n := range s.CountsByType {
		doc.Summary.Counts[string(ct)] = n
	}
	for k, n := range s.CrossTab {
		row, ok := doc.Summary.ByCategory[k.Category]
		if !ok {
			row = map[string]int{}
			doc.Summary.ByCategory[k.Category] = row
		}
		row[string(k.ChangeType)] = n
	}

	if !r.SummaryOnly {
		doc.Results = make([]map[string]interface{}, 0, len(r.Rows))
		for _, row := range r.Rows {
			out := make(map[string]interface{}, len(r.Columns))
			for _, col := range r.Columns {
				out[col] = row[col]
			}
			doc.Results = append(doc.Results, out)
		}
	}

	for _, err := range r.Warnings {
		doc.Warnings = append(doc.Warnings, err.Error())
	}
	return doc
}

func emitText(w io.Writer, r Report, opts TableOptions) error {
	s := r.Summary

	if !r.SummaryOnly {
		TableWriter(r.Rows, r.Columns, opts, w)
		if len(r.Rows) > 0 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "Previous records: %s\n", humanize.Comma(int64(s.PrevTotal())))
	fmt.Fprintf(w, "Current records:  %s\n\n", humanize.Comma(int64(s.CurrTotal())))

	section := opts
	section.Titles = true

	counts := make([]map[string]interface{}, 0, len(differ.ChangeTypes))
	for _, ct := range differ.ChangeTypes {
		counts = append(counts, map[string]interface{}{
			"change_type": string(ct),
			"count":       s.CountsByType[ct],
		})
	}
	section.Header = "Changes by type"
	TableWriter(counts, []string{"change_type", "count"}, section, w)

	if cats := s.Categories(); len(cats) > 0 {
		cols := []string{"category"}
		for _, ct := range differ.ChangeTypes {
			cols = append(cols, string(ct))
		}
		cross := make([]map[string]interface{}, 0, len(cats))
		for _, cat := range cats {
			row := map[string]interface{}{"category": cat}
			for _, ct := range differ.ChangeTypes {
				row[string(ct)] = s.CrossTab[summary.CrossKey{Category: cat, ChangeType: ct}]
			}
			cross = append(cross, row)
		}
		fmt.Fprintln(w)
		section.Header = "Changes by category"
		TableWriter(cross, cols, section, w)
	}

	if freq := s.FieldFrequencies(); len(freq) > 0 {
		rows := make([]map[string]interface{}, 0, len(freq))
		for _, fc := range freq {
			rows = append(rows, map[string]interface{}{"column": fc.Field, "count": fc.Count})
		}
		fmt.Fprintln(w)
		section.Header = "Changed columns"
		TableWriter(rows, []string{"column", "count"}, section, w)
	}

	for _, err := range r.Warnings {
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	_, err := fmt.Fprintf(w, "\nProcessing time: %s\n", r.Elapsed.Round(time.Millisecond))
	return err
}
