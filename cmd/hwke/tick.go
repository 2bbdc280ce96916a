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

	flag "github.com/spf13/pflag"

	hwkeerrors "github.com/kraklabs/hwke/internal/errors"
	"github.com/kraklabs/hwke/internal/ui"
)

// loadFromFlags loads an optional ontology and topology file into a, the
// way both `tick` and `run` let a caller seed a fresh mem-backed store and
// evaluate it in a single invocation.
func loadFromFlags(a *app, ontology, topology string) {
	if ontology != "" {
		if _, err := a.eng.LoadOntology(readFile(ontology)); err != nil {
			fatal(hwkeerrors.NewValidationError("cannot load ontology", err.Error(), "", err))
		}
	}
	if topology != "" {
		if _, err := a.eng.LoadTopology(readFile(topology)); err != nil {
			fatal(hwkeerrors.NewValidationError("cannot load topology", err.Error(), "", err))
		}
	}
}

// runTick evaluates every loaded rule once and reports what it produced.
func runTick(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("tick", flag.ExitOnError)
	ontology := fs.String("ontology", "", "N3 implication file to load before ticking")
	topology := fs.String("topology", "", "Turtle file to load before ticking")
	_ = fs.Parse(args)

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	loadFromFlags(a, *ontology, *topology)

	result, err := a.eng.Tick()
	if err != nil {
		fatal(hwkeerrors.NewInternalError("tick failed", err.Error(), "", err))
	}

	if globals.JSON {
		fmt.Printf("{\"added\":%d,\"fired_rules\":%d,\"rules_failed\":%d}\n", len(result.Added), len(result.FiredRules), len(result.RulesFailed))
		return
	}
	ui.Success(os.Stdout, "tick: %d triple(s) added, %d rule(s) fired, %d rule(s) failed", len(result.Added), len(result.FiredRules), len(result.RulesFailed))
}
