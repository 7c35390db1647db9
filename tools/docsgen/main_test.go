// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snapdiff/internal/command"
)

func TestSubcommands(t *testing.T) {
	t.Setenv("SNAPDIFF_CFG_FILE", filepath.Join(t.TempDir(), "none.yaml"))

	app, err := command.InitApp(context.Background(), []string{"snapdiff"})
	require.NoError(t, err)

	subs := subcommands(app)
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"diff", "show", "schema", "completion"}, ids)

	var mode *Flag
	for i, f := range subs[0].Flags {
		if f.ID == "mode" {
			mode = &subs[0].Flags[i]
		}
	}
	require.NotNil(t, mode)
	assert.Equal(t, "--mode, -m VALUE", mode.Syntax)
	assert.Contains(t, mode.Description, "best-effort")
	assert.NotEmpty(t, subs[0].Examples)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	data := TemplateData{
		Subcommand: Subcommand{
			ID:       "diff",
			Short:    "classify the changes between two snapshots",
			Usage:    "snapdiff diff PREVIOUS CURRENT [options]",
			Flags:    []Flag{{ID: "mode", Syntax: "--mode VALUE", Description: "coercion failure handling"}},
			Examples: examples["diff"],
		},
		Date:    "October 19, 2026",
		Version: "dev",
		IDUpper: "DIFF",
	}

	require.NoError(t, render(Outputs{Template: mdTemplate, Folder: dir, Suffix: ".md"}, data))
	b, err := os.ReadFile(filepath.Join(dir, "diff.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "# snapdiff diff")
	assert.Contains(t, string(b), "| `--mode VALUE` | coercion failure handling |")

	require.NoError(t, render(Outputs{Template: manTemplate, Folder: dir, Prefix: "snapdiff-", Suffix: ".1"}, data))
	b, err = os.ReadFile(filepath.Join(dir, "snapdiff-diff.1"))
	require.NoError(t, err)
	assert.Contains(t, string(b), ".TH SNAPDIFF-DIFF 1")
}
