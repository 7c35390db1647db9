// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snapdiff/internal/meta"
)

const bashCompletionScript = `# bash completion for snapdiff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_snapdiff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "diff show schema completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local schema="--schema-file --key -k --key-type --category --fields"
    local source="--format --delimiter --json-path --aws-profile --aws-region --s3-endpoint"
    local common="--color -c --filter -f --output -o --padding --placeholder --sort -s --titles -t"

    case "$cmd" in
        diff)
            local opts="$schema $source $common --mode -m --workers -w --summary-only --changes-only --report -r --report-category --pick"
            ;;
        show)
            local opts="$schema $source --record --all --color -c"
            ;;
        schema)
            local opts="$schema"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml csv" -- "$cur") )
            return 0
            ;;
        --mode|-m)
            COMPREPLY=( $(compgen -W "strict best-effort" -- "$cur") )
            return 0
            ;;
        --key-type)
            COMPREPLY=( $(compgen -W "int string" -- "$cur") )
            return 0
            ;;
        --format)
            COMPREPLY=( $(compgen -W "csv json" -- "$cur") )
            return 0
            ;;
        --pick)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Snapshots are files.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _snapdiff snapdiff
`

const zshCompletionScript = `#compdef snapdiff

_snapdiff() {
  local -a cmds
  cmds=(
    'diff:classify the changes between two snapshots'
    'show:show how one record changed between two snapshots'
    'schema:print the effective schema'
    'completion:generate shell completion script'
  )

  local -a schema
  schema=(
  '--schema-file[YAML schema file]:file:_files'
  '(-k --key)'{-k,--key}'[key field]:field'
  '--key-type[key type]:type:(int string)'
  '--category[category field]:field'
  '--fields[compared fields]:fields'
  )

  local -a source
  source=(
  '--format[snapshot format]:format:(csv json)'
  '--delimiter[CSV field delimiter]:delimiter'
  '--json-path[path of the record array]:path'
  '--aws-profile[AWS profile]:profile'
  '--aws-region[AWS region]:region'
  '--s3-endpoint[S3 compatible endpoint]:url'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml csv)'
  '--padding[column padding]:padding'
  '--placeholder[text for empty values]:text'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'snapdiff commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    diff)
      _arguments -C \
        $schema $source $common \
        '(-m --mode)'{-m,--mode}'[coercion failure handling]:mode:(strict best-effort)' \
        '(-w --workers)'{-w,--workers}'[classification goroutines]:workers' \
        '--summary-only[print only the summary]' \
        '--changes-only[hide UNCHANGED records]' \
        '(-r --report)'{-r,--report}'[CSV report file]:file:_files' \
        '--report-category[add the category column to the report]' \
        '--pick[pick snapshots from a directory]:directory:_directories' \
        '1:previous snapshot:_files' \
        '2:current snapshot:_files'
      ;;
    show)
      _arguments -C \
        $schema $source \
        '--record[key of the record]:key' \
        '--all[include fields that are not compared]' \
        '(-c --color)'{-c,--color}'[enable colored output]' \
        '1:previous snapshot:_files' \
        '2:current snapshot:_files'
      ;;
    schema)
      _arguments -C $schema
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _snapdiff snapdiff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: snapdiff completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "snapdiff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
