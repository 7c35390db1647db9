// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/differ"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/meta"
	"github.com/tfctl/snapdiff/internal/record"
)

// showCommandAction is the action handler for the "show" subcommand. It
// prints a field level diff of the record named by --record.
func showCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	config.Config.Namespace = "show"

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("expected PREVIOUS and CURRENT snapshots, got %d argument(s)", len(args))
	}

	s, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	key, err := parseKey(cmd.String("record"), s.KeyType)
	if err != nil {
		return err
	}

	prev, curr, err := readSnapshots(ctx, cmd, s, args[0], args[1])
	if err != nil {
		return err
	}

	old, inPrev := prev.Get(key)
	cur, inCurr := curr.Get(key)
	if !inPrev && !inCurr {
		return fmt.Errorf("record %s not found in either snapshot", key)
	}

	w := writer(cmd)
	var omit []string
	if !cmd.Bool("all") {
		omit = append(omit, unlisted(old, s.Columns())...)
		omit = append(omit, unlisted(cur, s.Columns())...)
	}
	return differ.Explain(w, key, old, cur, colorEnabled(cmd, w), omit...)
}

// unlisted returns the fields of r that are not in cols.
func unlisted(r record.Record, cols []string) []string {
	var out []string
	for name := range r {
		if !slices.Contains(cols, name) {
			out = append(out, name)
		}
	}
	return out
}

// showCommandBuilder constructs the cli.Command for "show".
func showCommandBuilder(meta meta.Meta) *cli.Command {
	cfg := meta.Config.Source
	return &cli.Command{
		Name:      "show",
		Usage:     "show how one record changed between two snapshots",
		UsageText: "snapdiff show PREVIOUS CURRENT --record KEY [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:     "record",
				Aliases:  []string{"id"},
				Usage:    "key of the record to show",
				Required: true,
				Validator: func(value string) error {
					if value == "" {
						return errors.New("must not be empty")
					}
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "include fields that are not compared",
			},
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored output (default: when stdout is a terminal)",
				Sources: valueChain("color", "show", cfg),
			},
		}, NewSchemaFlags("show", cfg)...), NewSourceFlags("show", cfg)...),
		Action: showCommandAction,
	}
}
