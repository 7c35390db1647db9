// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/tfctl/snapdiff/internal/cacheutil"
	"github.com/tfctl/snapdiff/internal/command"
	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/version"
)

// boolFlags never take a value, so deduplicateFlags must not pair them with
// the argument that follows.
var boolFlags = map[string]bool{
	"all":             true,
	"c":               true,
	"changes-only":    true,
	"color":           true,
	"help":            true,
	"h":               true,
	"report-category": true,
	"summary-only":    true,
	"t":               true,
	"titles":          true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = deduplicateFlags(args)
	log.Debugf("args after dedup: args=%v", args)
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(ctx context.Context, args []string) int {
	// Age out cached S3 snapshots.
	if cacheutil.Enabled() {
		hours, _ := config.GetInt("cache.clean", 0)
		if err := cacheutil.Purge(hours); err != nil {
			log.Debugf("cache purge err: err=%v", err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	args = command.StdinArgs(app, args)

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(ctx, args)
}

// processSetOnly handles the @set logic for all commands, expanding set
// arguments at the @set position. "snapdiff diff @nightly a.csv b.csv" inserts
// the list stored at diff.nightly in the config file.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	idx := 2
	removeIdx := -1
	set := ""
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	setArgs, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Warnf("set %s not found: %v", set, err)
	}

	return injectConfigSet(append(args[:removeIdx:removeIdx], args[removeIdx+1:]...), setArgs, removeIdx)
}

// injectConfigSet splits each entry on whitespace and inserts the fields at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags drops every occurrence of a flag but the last, so a flag
// given on the command line overrides the same flag from an @set. Values
// written as "--flag value" travel with their flag. Positional arguments are
// kept in place.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return append([]string{}, args...)
	}

	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if a == "--" {
			for _, p := range rest[i:] {
				groups = append(groups, group{tokens: []string{p}})
			}
			break
		}
		if a == "-" || !strings.HasPrefix(a, "-") {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		name := strings.TrimLeft(a, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			groups = append(groups, group{name: name[:eq], tokens: []string{a}})
			continue
		}

		g := group{name: name, tokens: []string{a}}
		if !boolFlags[name] && i+1 < len(rest) && !strings.HasPrefix(rest[i+1], "-") {
			g.tokens = append(g.tokens, rest[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}
