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

// runLoad reads a file and loads it as the N3 rule base (the default) or
// as a Turtle topology of facts (--topology).
func runLoad(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	asTopology := fs.Bool("topology", false, "Parse the file as plain Turtle facts instead of N3 implication rules")
	_ = fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: hwke load [--topology] <file.ttl>")
		os.Exit(1)
	}

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	src := readFile(rest[0])

	if *asTopology {
		n, err := a.eng.LoadTopology(src)
		if err != nil {
			fatal(hwkeerrors.NewValidationError("cannot load topology", err.Error(), "", err))
		}
		if globals.JSON {
			fmt.Printf("{\"triples_loaded\":%d}\n", n)
			return
		}
		ui.Success(os.Stdout, "loaded %d triple(s) from %s", n, rest[0])
		return
	}

	n, err := a.eng.LoadOntology(src)
	if err != nil {
		fatal(hwkeerrors.NewValidationError("cannot compile ontology", err.Error(), "", err))
	}
	if globals.JSON {
		fmt.Printf("{\"rules_loaded\":%d}\n", n)
		return
	}
	ui.Success(os.Stdout, "loaded %d rule(s) from %s", n, rest[0])
}
