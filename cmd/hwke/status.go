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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/hwke/internal/ui"
)

// capitalize uppercases the first rune of a status name so it matches the
// labels ui.StatusGlyph recognizes ("active" -> "Active").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// runStatus reports the effective, priority-resolved status of every task
// IRI currently carrying a status triple.
func runStatus(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	topology := fs.String("topology", "", "Turtle file to load before inspecting")
	_ = fs.Parse(args)

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()
	loadFromFlags(a, "", *topology)

	states := a.eng.InspectState()
	subjects := make([]string, 0, len(states))
	for s := range states {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	if globals.JSON {
		out := make(map[string]string, len(states))
		for _, s := range subjects {
			out[s] = string(states[s])
		}
		data, _ := json.Marshal(out)
		fmt.Println(string(data))
		return
	}

	for _, s := range subjects {
		st := string(states[s])
		glyph := ui.StatusGlyph(capitalize(st))
		fmt.Printf("%s %-10s %s\n", glyph, st, s)
	}
}
