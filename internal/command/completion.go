// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/meta"
)

const bashCompletionScript = `# bash completion for wtyctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_wtyctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "add browse clear completion edit export import ls rm show stats --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t --data-dir --tldr"
    local criteria="--search -q --category --status"
    local product="--name -n --brand -b --model -m --category --serial --purchase-date -d --warranty -w --price -p --store --notes --data-dir --tldr"

    case "$cmd" in
        add|edit)
            local opts="$product"
            ;;
        browse)
            local opts="$common $criteria --height"
            ;;
        clear)
            local opts="--yes -y --data-dir --tldr"
            ;;
        export)
            local opts="--dir --stdout --data-dir --tldr"
            ;;
        import)
            local opts="--dry-run --data-dir --tldr"
            ;;
        ls)
            local opts="$common $criteria --schema --virtual --offset --height"
            ;;
        rm)
            local opts="--data-dir --tldr"
            ;;
        show)
            local opts="$common"
            ;;
        stats)
            local opts="$common --metrics"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --status)
            COMPREPLY=( $(compgen -W "valid expiring expired unknown" -- "$cur") )
            return 0
            ;;
        --dir|--data-dir)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cmd" == "import" && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -f -X '!*.json' -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _wtyctl wtyctl
`

const zshCompletionScript = `#compdef wtyctl

_wtyctl() {
  local -a cmds
  cmds=(
    'add:record a product and its warranty'
    'browse:browse and search products interactively'
    'clear:delete all products'
    'completion:generate shell completion script'
    'edit:change a product'
    'export:write all products to a json file'
    'import:replace all products with those of an export file'
    'ls:list products and their warranty status'
    'rm:delete products'
    'show:show the warranty detail of one product'
    'stats:show collection, render and cache statistics'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--data-dir[data directory]:directory:_directories'
  '--tldr[show tldr page]'
  )

  local -a criteria
  criteria=(
  '(-q --search)'{-q,--search}'[free text search]:term'
  '--category[exact category]:category'
  '--status[warranty status]:status:(valid expiring expired unknown)'
  )

  local -a product
  product=(
  '(-n --name)'{-n,--name}'[product name]:name'
  '(-b --brand)'{-b,--brand}'[brand]:brand'
  '(-m --model)'{-m,--model}'[model]:model'
  '--category[category]:category'
  '--serial[serial number]:serial'
  '(-d --purchase-date)'{-d,--purchase-date}'[purchase date]:date'
  '(-w --warranty)'{-w,--warranty}'[warranty months]:months'
  '(-p --price)'{-p,--price}'[price]:price'
  '--store[store]:store'
  '--notes[notes]:notes'
  '--data-dir[data directory]:directory:_directories'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'wtyctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    add)
      _arguments -C $product
      ;;
    edit)
      _arguments -C $product '1:product reference'
      ;;
    browse)
      _arguments -C $common $criteria '--height[rows]:rows'
      ;;
    clear)
      _arguments -C '(-y --yes)'{-y,--yes}'[do not ask]' '--data-dir[data directory]:directory:_directories'
      ;;
    export)
      _arguments -C '--dir[output directory]:directory:_directories' '--stdout[write to stdout]' '--data-dir[data directory]:directory:_directories'
      ;;
    import)
      _arguments -C '--dry-run[show changes only]' '--data-dir[data directory]:directory:_directories' '1:export file:_files -g "*.json"'
      ;;
    ls)
      _arguments -C $common $criteria \
        '--schema[list fields]' \
        '--virtual[only materialize the visible rows]' \
        '--offset[first row]:offset' \
        '--height[rows]:rows'
      ;;
    rm)
      _arguments -C '--data-dir[data directory]:directory:_directories' '*:product reference'
      ;;
    show)
      _arguments -C $common '1:product reference'
      ;;
    stats)
      _arguments -C $common '--metrics[prometheus metrics]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _wtyctl wtyctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := cmd.Root().Writer
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: wtyctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "wtyctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
