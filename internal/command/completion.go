// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/meta"
)

const bashCompletionScript = `# bash completion for hellocdk
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_hellocdk()
{
  local cur prev cmd opts
  COMPREPLY=()
  _get_comp_words_by_ref -n : cur prev

  if [[ ${COMP_CWORD} -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "synth ls rq diff verify completion --help --version" -- "$cur") )
    return 0
  fi

  cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t --tldr"
  local synthflags="--outdir --account --env-region --analytics --decl"

  case "$cmd" in
    synth)
      opts="$common $synthflags --quiet -q"
      ;;
    ls)
      opts="$common --schema --decl"
      ;;
    rq)
      opts="$common $synthflags"
      ;;
    diff)
      opts="$common $synthflags --against --diff-filter --pick --profile --region --endpoint --refresh"
      ;;
    verify)
      opts="$common --schema --decl --profile --region --endpoint --refresh --cache-ttl"
      ;;
    completion)
      COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
      return 0
      ;;
    *)
      opts="$common"
      ;;
  esac

  if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
    COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
    return 0
  fi

  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  COMPREPLY=( $(compgen -o dirnames -- "$cur") )
  return 0
}

complete -F _hellocdk hellocdk
`

const zshCompletionScript = `#compdef hellocdk

_hellocdk() {
  local -a cmds
  cmds=(
    'synth:synthesize the cloud assembly'
    'ls:list bucket declarations'
    'rq:list synthesized resources'
    'diff:diff two synthesized stacks'
    'verify:check deployed buckets for drift'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
    '(-l --local)'{-l,--local}'[local timestamps]'
    '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
    '--padding[column padding]:padding'
    '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
    '(-t --titles)'{-t,--titles}'[show titles]'
    '--tldr[show tldr page]'
  )

  local -a synthflags
  synthflags=(
    '--outdir[cloud assembly directory]:outdir:_directories'
    '--account[stack account]:account'
    '--env-region[stack region]:region'
    '--analytics[keep version reporting]'
    '--decl[declaration file]:file:_files'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'hellocdk commands' cmds
    return
  fi

  case $words[2] in
    synth)
      _arguments -C $common $synthflags \
        '(-q --quiet)'{-q,--quiet}'[write the assembly only]' \
        '::RootDir:_directories'
      ;;
    ls)
      _arguments -C $common '--schema[dump schema]' '--decl[declaration file]:file:_files' \
        '::RootDir:_directories'
      ;;
    rq)
      _arguments -C $common $synthflags '::RootDir:_directories'
      ;;
    diff)
      _arguments -C $common $synthflags \
        '--against[template file]:file:_files' \
        '--diff-filter[top-level keys to ignore]:keys' \
        '--pick[pick stacks interactively]' \
        '--profile[AWS profile]:profile' \
        '--region[AWS region]:region' \
        '--endpoint[S3 endpoint]:url' \
        '--refresh[ignore cached objects]' \
        '::RootDir:_directories'
      ;;
    verify)
      _arguments -C $common '--schema[dump schema]' '--decl[declaration file]:file:_files' \
        '--profile[AWS profile]:profile' \
        '--region[AWS region]:region' \
        '--endpoint[S3 endpoint]:url' \
        '--refresh[ignore cached reports]' \
        '--cache-ttl[reuse reports checked within this duration]:duration' \
        '::RootDir:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _hellocdk hellocdk
`

func completionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		switch sh := os.Getenv("SHELL"); {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout, zshCompletionScript)
	default:
		fmt.Fprintln(os.Stderr, "usage: hellocdk completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "hellocdk completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
