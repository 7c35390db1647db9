// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/filters"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/meta"
	"github.com/tfctl/snapdiff/internal/output"
	"github.com/tfctl/snapdiff/internal/summary"
)

// diffCommandAction is the action handler for the "diff" subcommand. It reads
// both snapshots, classifies every key, writes the optional CSV report and
// emits the results and summary per the common flags.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	config.Config.Namespace = "diff"

	prevURI, currURI, err := snapshotArgs(cmd)
	if err != nil {
		return err
	}

	s, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	mode, err := differ.ParseMode(cmd.String("mode"))
	if err != nil {
		return err
	}

	prev, curr, err := readSnapshots(ctx, cmd, s, prevURI, currURI)
	if err != nil {
		return err
	}
	log.Infof("run %s: previous=%d current=%d mode=%s", m.RunID, prev.Len(), curr.Len(), mode)

	placeholder := cmd.String("placeholder")
	engine, err := differ.New(
		differ.WithFields(s.Fields),
		differ.WithCategoryField(s.Category),
		differ.WithMode(mode),
		differ.WithWorkers(int(cmd.Int("workers"))),
		differ.WithPlaceholder(placeholder),
	)
	if err != nil {
		return err
	}

	outcome, err := engine.Diff(ctx, prev, curr)
	if err != nil {
		return err
	}
	sum := summary.Aggregate(outcome.Results)
	rows := output.ResultRows(outcome.Results)

	// The report file always carries the complete result set.
	if path := cmd.String("report"); path != "" {
		if err := output.WriteCSVReport(path, rows, output.Columns(cmd.Bool("report-category")), placeholder); err != nil {
			return err
		}
		log.Infof("run %s: report written to %s", m.RunID, path)
	}

	if cmd.Bool("changes-only") {
		rows = output.WithoutUnchanged(rows)
	}
	rows = filters.FilterRows(rows, cmd.String("filter"))
	output.SortDataset(rows, cmd.String("sort"))

	elapsed := time.Since(start)
	log.Infof("run %s: done in %s", m.RunID, elapsed)

	w := writer(cmd)
	return output.Emit(w, cmd.String("output"), output.Report{
		RunID:       m.RunID.String(),
		Previous:    prev.Label(),
		Current:     curr.Label(),
		Mode:        string(mode),
		Columns:     output.Columns(s.Category != ""),
		Rows:        rows,
		Summary:     sum,
		Elapsed:     elapsed,
		Warnings:    outcome.Warnings,
		SummaryOnly: cmd.Bool("summary-only"),
	}, tableOptions(cmd, w))
}

// snapshotArgs returns the previous and current snapshot locations, from the
// positional arguments or from the --pick picker.
func snapshotArgs(cmd *cli.Command) (prev, curr string, err error) {
	if dir := cmd.String("pick"); dir != "" {
		files, err := differ.ListSnapshots(dir)
		if err != nil {
			return "", "", err
		}
		if len(files) < 2 {
			return "", "", fmt.Errorf("need at least two snapshots in %s, found %d", dir, len(files))
		}
		picked := differ.SelectSnapshots(files)
		if len(picked) != 2 {
			return "", "", errors.New("two snapshots must be picked")
		}
		return picked[0].Path, picked[1].Path, nil
	}

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return "", "", fmt.Errorf("expected PREVIOUS and CURRENT snapshots, got %d argument(s)", len(args))
	}
	return args[0], args[1], nil
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action/validator handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	cfg := meta.Config.Source
	return &cli.Command{
		Name:      "diff",
		Usage:     "classify the changes between two snapshots",
		UsageText: "snapdiff diff PREVIOUS CURRENT [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append(append([]cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "coercion failure handling: strict or best-effort",
				Value:   string(differ.ModeStrict),
				Sources: valueChain("mode", "diff", cfg),
				Validator: func(value string) error {
					return FlagValidators(value, ModeValidator)
				},
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "goroutines classifying shared keys (0 or 1 runs serially)",
				Sources: valueChain("workers", "diff", cfg),
			},
			&cli.BoolFlag{
				Name:    "summary-only",
				Usage:   "print only the summary",
				Sources: valueChain("summary-only", "diff", cfg),
			},
			&cli.BoolFlag{
				Name:    "changes-only",
				Usage:   "hide UNCHANGED records",
				Sources: valueChain("changes-only", "diff", cfg),
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"r"},
				Usage:   "write the CSV report to this file",
				Sources: valueChain("report", "diff", cfg),
			},
			&cli.BoolFlag{
				Name:    "report-category",
				Usage:   "add the category column to the CSV report",
				Sources: valueChain("report-category", "diff", cfg),
			},
			&cli.StringFlag{
				Name:  "pick",
				Usage: "pick the two snapshots interactively from this directory",
			},
		}, NewSchemaFlags("diff", cfg)...), NewSourceFlags("diff", cfg)...), NewGlobalFlags("diff", cfg)...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: diffCommandAction,
	}
}
