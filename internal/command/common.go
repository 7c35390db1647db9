// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/meta"
	"github.com/tfctl/snapdiff/internal/output"
	"github.com/tfctl/snapdiff/internal/record"
	"github.com/tfctl/snapdiff/internal/schema"
	"github.com/tfctl/snapdiff/internal/snapshot"
	"github.com/tfctl/snapdiff/internal/source"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// loadSchema resolves the effective schema. A schema file, or the built-in
// product schema when there is none, is the base; --key, --key-type,
// --category and --fields override it.
func loadSchema(cmd *cli.Command) (schema.Schema, error) {
	s := schema.Default()
	if path := cmd.String("schema-file"); path != "" {
		var err error
		if s, err = schema.Load(path); err != nil {
			return schema.Schema{}, err
		}
	}

	if cmd.IsSet("key") {
		s.Key = cmd.String("key")
	}
	if cmd.IsSet("key-type") {
		s.KeyType = schema.FieldType(cmd.String("key-type"))
	}
	if cmd.IsSet("category") {
		s.Category = cmd.String("category")
	}
	if cmd.IsSet("fields") {
		var fields schema.FieldList
		if err := fields.Set(cmd.String("fields")); err != nil {
			return schema.Schema{}, err
		}
		s.Fields = fields
	}

	if err := s.Validate(); err != nil {
		return schema.Schema{}, fmt.Errorf("invalid schema: %w", err)
	}
	log.Debugf("schema: key=%s keyType=%s category=%s fields=%s", s.Key, s.KeyType, s.Category, s.Fields.String())
	return s, nil
}

// sourceOptions maps the source flags onto source.Options.
func sourceOptions(cmd *cli.Command, s schema.Schema) source.Options {
	delim, _ := utf8.DecodeRuneInString(cmd.String("delimiter"))

	stdin := cmd.Root().Reader
	if stdin == nil {
		stdin = os.Stdin
	}

	return source.Options{
		Format:     source.Format(cmd.String("format")),
		Delimiter:  delim,
		JSONPath:   cmd.String("json-path"),
		Columns:    s.Columns(),
		KeyField:   s.Key,
		Stdin:      stdin,
		AWSProfile: cmd.String("aws-profile"),
		AWSRegion:  cmd.String("aws-region"),
		S3Endpoint: cmd.String("s3-endpoint"),
	}
}

// readSnapshots reads and indexes both snapshots concurrently.
func readSnapshots(ctx context.Context, cmd *cli.Command, s schema.Schema, prevURI, currURI string) (prev, curr *snapshot.Snapshot, err error) {
	if source.IsStdin(prevURI) && source.IsStdin(currURI) {
		return nil, nil, errors.New("only one snapshot can be read from stdin")
	}

	opts := sourceOptions(cmd, s)
	g, gctx := errgroup.WithContext(ctx)

	read := func(uri string, dst **snapshot.Snapshot) func() error {
		return func() error {
			src, err := source.New(uri, opts)
			if err != nil {
				return err
			}
			rows, err := src.Read(gctx)
			if err != nil {
				return err
			}
			snap, err := snapshot.Build(src.String(), s.Key, s.KeyType, rows)
			if err != nil {
				return err
			}
			log.Debugf("read %d records from %s", snap.Len(), src)
			*dst = snap
			return nil
		}
	}

	g.Go(read(prevURI, &prev))
	g.Go(read(currURI, &curr))

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return prev, curr, nil
}

// parseKey types a --key value the way snapshot keys are typed.
func parseKey(raw string, keyType schema.FieldType) (record.Key, error) {
	raw = strings.TrimSpace(raw)
	if keyType != schema.TypeInt {
		return record.StringKey(raw), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return record.Key{}, fmt.Errorf("key %q is not an int: %w", raw, err)
	}
	return record.IntKey(n), nil
}

// tableOptions maps the rendering flags onto output.TableOptions.
func tableOptions(cmd *cli.Command, w io.Writer) output.TableOptions {
	return output.TableOptions{
		Color:       colorEnabled(cmd, w),
		Titles:      cmd.Bool("titles"),
		Padding:     int(cmd.Int("padding")),
		Placeholder: cmd.String("placeholder"),
	}
}

// colorEnabled honors an explicit --color and otherwise colors only when
// writing to a terminal.
func colorEnabled(cmd *cli.Command, w io.Writer) bool {
	if cmd.IsSet("color") {
		return cmd.Bool("color")
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writer returns the root command's writer, or stdout.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// StdinArgs rewrites each bare "-" positional of the subcommand in args to
// source.StdinURI. A "-" that is the value of a preceding flag is left alone.
func StdinArgs(app *cli.Command, args []string) []string {
	if len(args) < 3 {
		return args
	}
	sub := app.Command(args[1])
	if sub == nil {
		return args
	}

	takesValue := map[string]bool{}
	for _, f := range sub.Flags {
		d, ok := f.(cli.DocGenerationFlag)
		if !ok || !d.TakesValue() {
			continue
		}
		for _, n := range f.Names() {
			takesValue[n] = true
		}
	}

	out := append([]string{}, args...)
	terminated := false
	for i := 2; i < len(out); i++ {
		a := out[i]
		if a == "--" {
			terminated = true
			continue
		}
		if a != "-" {
			continue
		}
		prev := out[i-1]
		isValue := !terminated && i > 2 && strings.HasPrefix(prev, "-") && len(prev) > 1 &&
			!strings.Contains(prev, "=") && takesValue[strings.TrimLeft(prev, "-")]
		if !isValue {
			out[i] = source.StdinURI
		}
	}
	log.Debugf("args after stdin rewrite: args=%v", out)
	return out
}
