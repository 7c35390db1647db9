// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snapdiff/internal/config"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"snapdiff", "diff"},
			expected: []string{"snapdiff", "diff"},
		},
		{
			name:     "no duplicates",
			args:     []string{"snapdiff", "diff", "--output", "text", "--titles"},
			expected: []string{"snapdiff", "diff", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"snapdiff", "diff", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"snapdiff", "diff", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"snapdiff", "diff", "--titles", "--debug", "--titles"},
			expected: []string{"snapdiff", "diff", "--debug", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"snapdiff", "diff", "--output=json", "--titles", "--output=text"},
			expected: []string{"snapdiff", "diff", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"snapdiff", "diff", "--output=json", "--output", "text"},
			expected: []string{"snapdiff", "diff", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"snapdiff", "diff", "--host", "a.b.c", "--org", "foo", "--host", "x.y.z", "--org", "bar"},
			expected: []string{"snapdiff", "diff", "--host", "x.y.z", "--org", "bar"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"snapdiff", "diff", "prev.csv", "--output", "json", "--output", "text"},
			expected: []string{"snapdiff", "diff", "prev.csv", "--output", "text"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"snapdiff", "diff", "-o", "json", "-o", "text"},
			expected: []string{"snapdiff", "diff", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"snapdiff", "diff", "--color", "--no-color"},
			expected: []string{"snapdiff", "diff", "--color", "--no-color"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"snapdiff", "diff", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"snapdiff", "diff", "--output", "c"},
		},
		{
			name:     "flag at end with no value treated as boolean",
			args:     []string{"snapdiff", "diff", "--titles", "--debug", "--titles"},
			expected: []string{"snapdiff", "diff", "--debug", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := deduplicateFlags(tt.args)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("deduplicateFlags(%v) = %v, want %v", tt.args, result, tt.expected)
			}
		})
	}
}

func TestDeduplicateFlagsPreservesOrder(t *testing.T) {
	// Ensure non-duplicate flags maintain their relative order.
	args := []string{"snapdiff", "diff", "--alpha", "--beta", "--gamma"}
	result := deduplicateFlags(args)
	expected := []string{"snapdiff", "diff", "--alpha", "--beta", "--gamma"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Order not preserved: got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	// Positional args after flags should be preserved.
	args := []string{"snapdiff", "diff", "--output", "json", "/path", "--output", "text"}
	result := deduplicateFlags(args)
	expected := []string{"snapdiff", "diff", "/path", "--output", "text"}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("got %v, want %v", result, expected)
	}
}

func TestDeduplicateFlagsBoolBeforePositional(t *testing.T) {
	// A boolean flag must not swallow the snapshot that follows it.
	args := []string{"snapdiff", "diff", "--titles", "prev.csv", "curr.csv", "--titles"}
	assert.Equal(t, []string{"snapdiff", "diff", "prev.csv", "curr.csv", "--titles"}, deduplicateFlags(args))
}

func TestDeduplicateFlagsStdinAndTerminator(t *testing.T) {
	args := []string{"snapdiff", "diff", "-o", "csv", "-", "curr.csv", "-o", "json", "--", "-o"}
	assert.Equal(t, []string{"snapdiff", "diff", "-", "curr.csv", "-o", "json", "--", "-o"}, deduplicateFlags(args))
}

func TestInjectConfigSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		insertIdx int
		configVal []string
		expected  []string
	}{
		{
			name:      "empty config returns args unchanged",
			args:      []string{"snapdiff", "diff", "--titles"},
			insertIdx: 2,
			configVal: nil,
			expected:  []string{"snapdiff", "diff", "--titles"},
		},
		{
			name:      "single entry injected",
			args:      []string{"snapdiff", "diff", "--titles"},
			insertIdx: 2,
			configVal: []string{"--changes-only"},
			expected:  []string{"snapdiff", "diff", "--changes-only", "--titles"},
		},
		{
			name:      "multi-word entry split",
			args:      []string{"snapdiff", "diff", "--titles"},
			insertIdx: 2,
			configVal: []string{"--output csv"},
			expected:  []string{"snapdiff", "diff", "--output", "csv", "--titles"},
		},
		{
			name:      "multiple entries",
			args:      []string{"snapdiff", "diff"},
			insertIdx: 2,
			configVal: []string{"--summary-only", "--output json"},
			expected:  []string{"snapdiff", "diff", "--summary-only", "--output", "json"},
		},
		{
			name:      "insert at index 3",
			args:      []string{"snapdiff", "diff", "prev.csv", "--titles"},
			insertIdx: 3,
			configVal: []string{"--changes-only"},
			expected:  []string{"snapdiff", "diff", "prev.csv", "--changes-only", "--titles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := injectConfigSet(tt.args, tt.configVal, tt.insertIdx)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("injectConfigSet() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestProcessSetOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapdiff.yaml")
	cfg := "diff:\n  nightly:\n    - --mode best-effort\n    - --changes-only\n  quick: --summary-only\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	t.Setenv("SNAPDIFF_CFG_FILE", path)

	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
	_, err := config.Load()
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "list set",
			args:     []string{"snapdiff", "diff", "@nightly", "prev.csv", "curr.csv"},
			expected: []string{"snapdiff", "diff", "--mode", "best-effort", "--changes-only", "prev.csv", "curr.csv"},
		},
		{
			name:     "string set after positionals",
			args:     []string{"snapdiff", "diff", "prev.csv", "curr.csv", "@quick"},
			expected: []string{"snapdiff", "diff", "prev.csv", "curr.csv", "--summary-only"},
		},
		{
			name:     "unknown set is dropped",
			args:     []string{"snapdiff", "diff", "@nope", "prev.csv"},
			expected: []string{"snapdiff", "diff", "prev.csv"},
		},
		{
			name:     "no set",
			args:     []string{"snapdiff", "diff", "prev.csv"},
			expected: []string{"snapdiff", "diff", "prev.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}

func TestProcessCommandArgs(t *testing.T) {
	t.Setenv("SNAPDIFF_CFG_FILE", filepath.Join(t.TempDir(), "none.yaml"))

	args := []string{"snapdiff", "diff", "--output", "json", "prev.csv", "curr.csv", "--output", "csv"}
	assert.Equal(t, []string{"snapdiff", "diff", "prev.csv", "curr.csv", "--output", "csv"}, processCommandArgs(args))

	args = []string{"snapdiff", "completion", "bash"}
	assert.Equal(t, args, processCommandArgs(args))
}

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"snapdiff", "--help"}, handleNakedCommand([]string{"snapdiff"}))
	assert.Equal(t, []string{"snapdiff", "diff"}, handleNakedCommand([]string{"snapdiff", "diff"}))
}
