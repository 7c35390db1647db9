// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the snapdiff
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// Running without a config file is normal.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("no config loaded: %v", err)
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		RunID:       uuid.New(),
		StartingDir: sd,
	}
	log.Debugf("run id: %s", meta.RunID)

	app := &cli.Command{
		Name:  "snapdiff",
		Usage: "snapshot change data capture",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "snapdiff version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		diffCommandBuilder(meta),
		showCommandBuilder(meta),
		schemaCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
