// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
)

// commandNames lists every first-level subcommand for the completion
// scripts below (main.go's usage text is written out separately). pflag has no
// cobra-style completion generator, so the scripts are hand-written
// against this fixed list.
var commandNames = []string{
	"init", "load", "tick", "run", "apply", "status", "inspect",
	"hooks", "verify", "watch", "serve", "config", "completion",
}

// runCompletion prints a shell completion script for bash, zsh, or fish to
// stdout, selected by the single positional argument.
func runCompletion(args []string, globals GlobalFlags) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: hwke completion <bash|zsh|fish>")
		os.Exit(1)
	}

	switch args[0] {
	case "bash":
		fmt.Print(bashCompletion())
	case "zsh":
		fmt.Print(zshCompletion())
	case "fish":
		fmt.Print(fishCompletion())
	default:
		fmt.Fprintf(os.Stderr, "unknown shell %q: expected bash, zsh, or fish\n", args[0])
		os.Exit(1)
	}
}

func wordList() string {
	out := ""
	for i, c := range commandNames {
		if i > 0 {
			out += " "
		}
		out += c
	}
	return out
}

func bashCompletion() string {
	return fmt.Sprintf(`# bash completion for hwke
_hwke_completions() {
    local cur words
    words="%s"
    cur="${COMP_WORDS[COMP_CWORD]}"
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=($(compgen -W "$words" -- "$cur"))
    fi
}
complete -F _hwke_completions hwke
`, wordList())
}

func zshCompletion() string {
	return fmt.Sprintf(`#compdef hwke
_hwke() {
    local -a commands
    commands=(%s)
    _describe 'command' commands
}
_hwke
`, wordList())
}

func fishCompletion() string {
	out := "# fish completion for hwke\n"
	for _, c := range commandNames {
		out += fmt.Sprintf("complete -c hwke -n '__fish_use_subcommand' -a %s\n", c)
	}
	return out
}
