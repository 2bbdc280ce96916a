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

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/hwke/internal/ui"
)

// runInspect reports the store's triple count and active task set (the
// facade's GetActiveTasks), and with --dump also prints the store's
// contents.
func runInspect(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	topology := fs.String("topology", "", "Turtle file to load before inspecting")
	dump := fs.Bool("dump", false, "Also print the raw Turtle dump of the store")
	_ = fs.Parse(args)

	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()
	loadFromFlags(a, "", *topology)

	active := a.eng.GetActiveTasks()
	names := make([]string, 0, len(active))
	for s := range active {
		names = append(names, s)
	}
	sort.Strings(names)

	if globals.JSON {
		out := map[string]interface{}{
			"triple_count": a.eng.Store().TripleCount(),
			"active_tasks": names,
		}
		if *dump {
			out["dump"] = a.eng.Store().DumpTurtle()
		}
		data, _ := json.Marshal(out)
		fmt.Println(string(data))
		return
	}

	fmt.Printf("triples: %d\n", a.eng.Store().TripleCount())
	fmt.Printf("active tasks: %d\n", len(names))
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	if *dump {
		ui.Dim(os.Stdout, "--- dump ---")
		fmt.Print(a.eng.Store().DumpTurtle())
	}
}
