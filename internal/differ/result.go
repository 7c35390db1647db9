// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	"github.com/tfctl/snapdiff/internal/record"
)

// ChangeType classifies a key between two snapshots.
type ChangeType string

const (
	Insert    ChangeType = "INSERT"
	Update    ChangeType = "UPDATE"
	Delete    ChangeType = "DELETE"
	Unchanged ChangeType = "UNCHANGED"
)

// ChangeTypes lists every change type in report order.
var ChangeTypes = []ChangeType{Insert, Update, Delete, Unchanged}

const (
	insertDetails = "New record"
	deleteDetails = "Deleted record"
)

// Result is the classification of one key.
type Result struct {
	Key        record.Key
	ChangeType ChangeType
	// ChangedFields is the ordered subsequence of compared fields that differ.
	// It is empty unless ChangeType is Update.
	ChangedFields []string
	Details       string
	// Category is the display field used for aggregation, resolved from the
	// current record when it has one.
	Category string
}

func (r Result) String() string {
	return fmt.Sprintf("%s %s %v %q", r.Key, r.ChangeType, r.ChangedFields, r.Details)
}

// Mode selects how coercion failures during classification are handled.
type Mode string

const (
	// ModeStrict aborts the run on the first coercion failure.
	ModeStrict Mode = "strict"
	// ModeBestEffort excludes the failing field from that key's comparison,
	// logs a warning and keeps going.
	ModeBestEffort Mode = "best-effort"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStrict, ModeBestEffort:
		return Mode(s), nil
	}
	return "", fmt.Errorf("mode must be one of %v, got %q", []Mode{ModeStrict, ModeBestEffort}, s)
}

// Outcome is the full result of one run.
type Outcome struct {
	// Results holds one entry per key in prev ∪ curr, sorted by key.
	Results []Result
	// Warnings holds the coercion failures tolerated in best-effort mode.
	Warnings []error
}
