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

	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	hwkeerrors "github.com/kraklabs/hwke/internal/errors"
	"github.com/kraklabs/hwke/internal/ui"
	"github.com/kraklabs/hwke/pkg/reasoning"
)

// runRun evaluates ticks until a fixed point or the configured max-ticks
// budget is exhausted, rendering a progress bar ticked once per
// reasoning.Tick call so a long convergence run isn't silent.
func runRun(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	ontology := fs.String("ontology", "", "N3 implication file to load before running")
	topology := fs.String("topology", "", "Turtle file to load before running")
	maxTicks := fs.Int("max-ticks", 0, "Tick budget (0 uses the configured engine.max_ticks)")
	_ = fs.Parse(args)

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	loadFromFlags(a, *ontology, *topology)

	budget := *maxTicks
	if budget <= 0 {
		budget = a.cfg.Engine.MaxTicks
	}

	var bar *progressbar.ProgressBar
	if !globals.JSON && !globals.Quiet {
		bar = progressbar.NewOptions(budget,
			progressbar.OptionSetDescription("converging"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	totalAdded := 0
	converged := false
	ticksRun := 0
	var tickErr error
	for i := 0; i < budget; i++ {
		result, err := a.eng.Tick()
		if err != nil {
			tickErr = err
			break
		}
		ticksRun++
		totalAdded += len(result.Added)
		if bar != nil {
			_ = bar.Add(1)
		}
		if len(result.Added) == 0 {
			converged = true
			break
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if tickErr != nil {
		fatal(hwkeerrors.NewInternalError("run failed", tickErr.Error(), "", tickErr))
	}

	runErr := error(nil)
	if !converged {
		runErr = reasoning.ErrNoConvergence
	}

	if globals.JSON {
		fmt.Printf("{\"ticks\":%d,\"triples_added\":%d,\"converged\":%t}\n", ticksRun, totalAdded, converged)
		return
	}
	if runErr != nil {
		ui.Warn(os.Stdout, "no convergence within %d tick(s); %d triple(s) added so far", budget, totalAdded)
		if a.cfg.Engine.StrictTick {
			os.Exit(1)
		}
		return
	}
	ui.Success(os.Stdout, "converged after %d tick(s), %d triple(s) added", ticksRun, totalAdded)
}
