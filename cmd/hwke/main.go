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

// Package main implements the hwke CLI: a deterministic, hash-chained
// RDF mutation engine with reactive hooks and a fixed-point reasoning
// loop.
//
// Usage:
//
//	hwke init                    Create .hwke/project.yaml configuration
//	hwke load <file>             Load N3 rules (or Turtle facts with --topology)
//	hwke tick                    Run a single reasoning tick
//	hwke run [--max-ticks N]     Run ticks to a fixed point
//	hwke apply <delta.json>      Apply a guarded mutation
//	hwke status [--topology F]   Show resolved task statuses
//	hwke inspect                 Dump store contents and active tasks
//	hwke hooks                   List registered hooks
//	hwke verify                  Verify lockchain integrity
//	hwke watch                   Reload ontology/topology files on change
//	hwke serve                   Serve /healthz, /metrics, read-only query
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/hwke/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the flags shared by every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Verbose int
	Quiet   bool
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to .hwke/project.yaml (default: discovered from cwd)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `hwke - Hybrid Workflow/Knowledge Engine

hwke stores RDF facts, runs a monotonic forward-chaining reasoning loop
to a fixed point, and applies guarded mutations recorded as a hash-
chained receipt log.

Usage:
  hwke <command> [options]

Commands:
  init          Create .hwke/project.yaml configuration
  load          Load an N3 rule file (or Turtle facts with --topology)
  tick          Run a single reasoning tick
  run           Run ticks until a fixed point (or --max-ticks)
  apply         Apply a guarded QuadDelta mutation from a JSON file
  status        Show resolved task statuses
  inspect       Dump store contents and active task set
  hooks         List registered guard hooks
  verify        Verify lockchain hash-chain integrity
  watch         Reload ontology/topology files on change
  serve         Serve /healthz, /metrics and a read-only query endpoint
  config        Show current configuration
  completion    Generate shell completion script (bash|zsh|fish)

Global Options:
  --json            Output in JSON format (for applicable commands)
  --no-color        Disable color output (respects NO_COLOR env var)
  -v, --verbose     Increase verbosity (-v for info, -vv for debug)
  -q, --quiet       Suppress non-essential output
  -c, --config      Path to .hwke/project.yaml
  -V, --version     Show version and exit

For detailed command help: hwke <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("hwke version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	if *quiet && *verbose > 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot use --quiet and --verbose together")
		os.Exit(1)
	}
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor, Verbose: *verbose, Quiet: *quiet}
	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, globals)
	case "load":
		runLoad(cmdArgs, *configPath, globals)
	case "tick":
		runTick(cmdArgs, *configPath, globals)
	case "run":
		runRun(cmdArgs, *configPath, globals)
	case "apply":
		runApply(cmdArgs, *configPath, globals)
	case "status":
		runStatus(cmdArgs, *configPath, globals)
	case "inspect":
		runInspect(cmdArgs, *configPath, globals)
	case "hooks":
		runHooks(cmdArgs, *configPath, globals)
	case "verify":
		runVerify(cmdArgs, *configPath, globals)
	case "watch":
		runWatch(cmdArgs, *configPath, globals)
	case "serve":
		runServe(cmdArgs, *configPath, globals)
	case "config":
		runConfigCmd(cmdArgs, *configPath, globals)
	case "completion":
		runCompletion(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
