// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewGlobalFlags returns the row shaping and rendering flags shared by the
// commands that print a report. params[0] is the command namespace and
// params[1] the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output (default: when stdout is a terminal)",
			Sources: valueChain("color", params...),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml or csv",
			Value:   "text",
			Sources: valueChain("output", params...),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:    "padding",
			Usage:   "column padding for text output",
			Value:   1,
			Sources: valueChain("padding", params...),
		},
		&cli.StringFlag{
			Name:    "placeholder",
			Usage:   "text shown for empty and null values",
			Value:   "-",
			Sources: valueChain("placeholder", params...),
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
			Sources: valueChain("titles", params...),
		},
	}

	return
}

// NewSchemaFlags returns the flags that describe how records are keyed and
// compared.
func NewSchemaFlags(params ...string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "schema-file",
			Usage:   "YAML schema file",
			Sources: valueChain("schema", params...),
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "key field",
		},
		&cli.StringFlag{
			Name:  "key-type",
			Usage: "key type: int or string",
			Validator: func(value string) error {
				return FlagValidators(value, KeyTypeValidator)
			},
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "field used to group changes by category",
		},
		&cli.StringFlag{
			Name:  "fields",
			Usage: "compared fields as name[:type[:trunc]],... (types: string, int, number, timestamp)",
		},
	}
}

// NewSourceFlags returns the flags that tune how snapshots are read.
func NewSourceFlags(params ...string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Usage:   "snapshot format: csv or json (default: by extension)",
			Sources: valueChain("format", params...),
			Validator: func(value string) error {
				return FlagValidators(value, FormatValidator)
			},
		},
		&cli.StringFlag{
			Name:    "delimiter",
			Usage:   "CSV field delimiter",
			Value:   ",",
			Sources: valueChain("delimiter", params...),
			Validator: func(value string) error {
				return FlagValidators(value, DelimiterValidator)
			},
		},
		&cli.StringFlag{
			Name:    "json-path",
			Usage:   "path of the record array inside a JSON snapshot",
			Sources: valueChain("json-path", params...),
		},
		&cli.StringFlag{
			Name:    "aws-profile",
			Usage:   "AWS profile for s3:// snapshots",
			Sources: valueChain("aws.profile", params...),
		},
		&cli.StringFlag{
			Name:    "aws-region",
			Usage:   "AWS region for s3:// snapshots",
			Sources: valueChain("aws.region", params...),
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "S3 compatible endpoint for s3:// snapshots",
			Sources: valueChain("aws.endpoint", params...),
		},
	}
}

// NameSpacedValueChainFromConfigFile returns config file sources for key,
// namespaced first (e.g. "diff.mode") and then bare ("mode").
func NameSpacedValueChainFromConfigFile(ns string, path string, key string) []cli.ValueSource {
	var chain []cli.ValueSource
	if ns != "" {
		chain = append(chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	return append(chain, yaml.YAML(key, altsrc.StringSourcer(path)))
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// valueChain builds a flag's sources: SNAPDIFF_<KEY> from the environment,
// then the config file when one is known.
func valueChain(key string, params ...string) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain(cli.EnvVar(envName(key)))
	if len(params) == 2 && params[1] != "" {
		chain.Chain = append(chain.Chain, NameSpacedValueChainFromConfigFile(params[0], params[1], key)...)
	}
	return chain
}

// envName maps a config key such as "aws.profile" or "json-path" to its
// environment variable.
func envName(key string) string {
	return envReplacer.Replace(strings.ToUpper("SNAPDIFF_" + key))
}
