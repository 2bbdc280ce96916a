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
)

// runHooks lists the hooks currently registered on the engine. Hooks are
// installed through the library's RegisterHook call (handlers are Go
// closures, not declarative data), so a freshly opened CLI session always
// starts with an empty registry; this command exists for embedders that
// call RegisterHook before reaching the CLI dispatch, and for documenting
// what a `hwke serve` process has loaded.
func runHooks(args []string, configPath string, globals GlobalFlags) {
	a, err := openApp(configPath)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	all := a.eng.Registry().All()
	if globals.JSON {
		type hookOut struct {
			ID       string `json:"id"`
			Phase    string `json:"phase"`
			Priority int    `json:"priority"`
			Severity string `json:"severity"`
		}
		out := make([]hookOut, 0, len(all))
		for _, h := range all {
			out = append(out, hookOut{ID: h.ID, Phase: string(h.Phase), Priority: h.Priority, Severity: h.Severity.String()})
		}
		data, _ := json.Marshal(out)
		fmt.Println(string(data))
		return
	}

	if len(all) == 0 {
		fmt.Println("no hooks registered")
		return
	}
	for _, h := range all {
		fmt.Printf("%-5s priority=%-4d %-10s %s\n", h.Phase, h.Priority, h.Severity.String(), h.ID)
	}
}
