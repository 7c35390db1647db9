// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen renders the markdown and man pages for each snapdiff subcommand
// from the live command tree.
//
// Usage: go run ./tools/docsgen DOCS_DIR
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/command"
)

type Subcommand struct {
	ID       string
	Short    string
	Usage    string
	Flags    []Flag
	Examples []Example
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
}

type Example struct {
	Command     string
	Description string
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

var examples = map[string][]Example{
	"diff": {
		{Command: "snapdiff diff snapshot_2026-02-14.csv snapshot_2026-02-16.csv --report cdc_report.csv",
			Description: "Classify the changes and write the CSV report"},
		{Command: "snapdiff diff prev.csv curr.csv --changes-only --filter changed_columns@price",
			Description: "Show only the records whose price changed"},
		{Command: "snapdiff diff s3://bucket/prev.json s3://bucket/curr.json --json-path products -o json",
			Description: "Diff two JSON snapshots in S3 and emit a JSON document"},
		{Command: "snapdiff diff --pick ./snapshots",
			Description: "Pick the two snapshots interactively"},
	},
	"show": {
		{Command: "snapdiff show prev.csv curr.csv --record 1042",
			Description: "Show how record 1042 changed"},
	},
	"schema": {
		{Command: "snapdiff schema --key sku --key-type string --fields price:number,qty:int",
			Description: "Print the schema built from inline flags"},
	},
	"completion": {
		{Command: "source <(snapdiff completion bash)", Description: "Enable bash completion"},
	},
}

const mdTemplate = `# snapdiff {{ .ID }}

{{ .Short }}

## Usage

` + "```" + `
{{ .Usage }}
` + "```" + `
{{ if .Flags }}
## Flags

| Flag | Description |
|---|---|
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} |
{{- end }}
{{ end }}
{{- if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}:

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}
{{- end }}
_Generated {{ .Date }} for version {{ .Version }}._
`

const manTemplate = `.TH SNAPDIFF-{{ .IDUpper }} 1 "{{ .Date }}" "snapdiff {{ .Version }}" "snapdiff manual"
.SH NAME
snapdiff-{{ .ID }} \- {{ .Short }}
.SH SYNOPSIS
{{ .Usage }}
{{- if .Flags }}
.SH OPTIONS
{{- range .Flags }}
.TP
.B {{ .Syntax }}
{{ .Description }}
{{- end }}
{{- end }}
{{- if .Examples }}
.SH EXAMPLES
{{- range .Examples }}
.PP
{{ .Description }}
.PP
.nf
{{ .Command }}
.fi
{{- end }}
{{- end }}
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	docs := os.Args[1]

	app, err := command.InitApp(context.Background(), []string{"snapdiff"})
	if err != nil {
		panic(err)
	}

	for _, sub := range subcommands(app) {
		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    getVersion(),
			IDUpper:    strings.ToUpper(sub.ID),
		}

		types := []Outputs{
			{Template: mdTemplate, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
			{Template: manTemplate, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "snapdiff-", Suffix: ".1"},
		}

		for _, t := range types {
			if err := render(t, metadata); err != nil {
				panic(err)
			}
		}
	}
}

// subcommands describes each subcommand of app. Flags are sorted by name.
func subcommands(app *cli.Command) []Subcommand {
	var subs []Subcommand
	for _, cmd := range app.Commands {
		sub := Subcommand{
			ID:       cmd.Name,
			Short:    cmd.Usage,
			Usage:    cmd.UsageText,
			Examples: examples[cmd.Name],
		}

		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, describe(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool {
			return sub.Flags[i].ID < sub.Flags[j].ID
		})

		subs = append(subs, sub)
	}
	return subs
}

// describe renders one flag as "--name, -n VALUE".
func describe(f cli.Flag) Flag {
	names := f.Names()
	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}

	flag := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
	if d, ok := f.(cli.DocGenerationFlag); ok {
		if d.TakesValue() {
			flag.Syntax += " VALUE"
		}
		flag.Description = d.GetUsage()
	}
	return flag
}

// render executes one template into its output file.
func render(t Outputs, metadata TemplateData) error {
	if err := os.MkdirAll(t.Folder, 0o755); err != nil {
		return err
	}

	tmpl, err := template.New(metadata.ID).Parse(t.Template)
	if err != nil {
		return err
	}

	path := filepath.Join(t.Folder, t.Prefix+metadata.ID+t.Suffix)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Println("Generating", path)
	return tmpl.Execute(file, metadata)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
