// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/meta"
)

// schemaCommandAction prints the effective schema as YAML. It is what diff
// would use given the same flags.
func schemaCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "schema"

	s, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	b, err := s.YAML()
	if err != nil {
		return err
	}
	_, err = writer(cmd).Write(b)
	return err
}

// schemaCommandBuilder constructs the cli.Command for "schema".
func schemaCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "print the effective schema",
		UsageText: "snapdiff schema [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewSchemaFlags("schema", meta.Config.Source),
		Action: schemaCommandAction,
	}
}
