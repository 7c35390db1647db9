// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package summary

import (
	"cmp"
	"maps"
	"slices"

	"github.com/tfctl/snapdiff/internal/differ"
)

// CrossKey is one cell of the category by change type table.
type CrossKey struct {
	Category   string
	ChangeType differ.ChangeType
}

// FieldCount is one entry of the changed field frequency list.
type FieldCount struct {
	Field string `json:"field" yaml:"field"`
	Count int    `json:"count" yaml:"count"`
}

// Summary holds the counts derived from a list of results.
type Summary struct {
	CountsByType         map[differ.ChangeType]int
	CrossTab             map[CrossKey]int
	FieldChangeFrequency map[string]int
}

// empty returns a Summary with every change type zero filled.
func empty() Summary {
	s := Summary{
		CountsByType:         make(map[differ.ChangeType]int, len(differ.ChangeTypes)),
		CrossTab:             map[CrossKey]int{},
		FieldChangeFrequency: map[string]int{},
	}
	for _, ct := range differ.ChangeTypes {
		s.CountsByType[ct] = 0
	}
	return s
}

// Aggregate counts results by type, by category and type, and by changed
// field. An UPDATE with three changed fields adds one to each of three field
// counters.
func Aggregate(results []differ.Result) Summary {
	s := empty()
	for _, r := range results {
		s.CountsByType[r.ChangeType]++
		s.CrossTab[CrossKey{Category: r.Category, ChangeType: r.ChangeType}]++
		if r.ChangeType == differ.Update {
			for _, f := range r.ChangedFields {
				s.FieldChangeFrequency[f]++
			}
		}
	}
	return s
}

// Merge adds the counts of a and b. It is commutative and associative and
// leaves both arguments untouched.
func Merge(a, b Summary) Summary {
	s := empty()
	for _, src := range []Summary{a, b} {
		for k, v := range src.CountsByType {
			s.CountsByType[k] += v
		}
		for k, v := range src.CrossTab {
			s.CrossTab[k] += v
		}
		for k, v := range src.FieldChangeFrequency {
			s.FieldChangeFrequency[k] += v
		}
	}
	return s
}

// PrevTotal is the number of records in the previous snapshot.
func (s Summary) PrevTotal() int {
	return s.CountsByType[differ.Delete] + s.CountsByType[differ.Update] + s.CountsByType[differ.Unchanged]
}

// CurrTotal is the number of records in the current snapshot.
func (s Summary) CurrTotal() int {
	return s.CountsByType[differ.Insert] + s.CountsByType[differ.Update] + s.CountsByType[differ.Unchanged]
}

// Categories returns the distinct categories, sorted.
func (s Summary) Categories() []string {
	set := map[string]struct{}{}
	for k := range s.CrossTab {
		set[k.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// FieldFrequencies returns the changed field counts, most frequent first and
// then by name.
func (s Summary) FieldFrequencies() []FieldCount {
	out := make([]FieldCount, 0, len(s.FieldChangeFrequency))
	for f, n := range s.FieldChangeFrequency {
		out = append(out, FieldCount{Field: f, Count: n})
	}
	slices.SortFunc(out, func(a, b FieldCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Field, b.Field)
	})
	return out
}
