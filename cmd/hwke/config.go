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

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/hwke/internal/config"
)

// runConfigCmd prints the resolved project configuration, the same struct
// `hwke init` wrote, after environment-variable overrides are applied.
func runConfigCmd(args []string, configPath string, globals GlobalFlags) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fatal(err)
	}

	if globals.JSON {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(data))
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fatal(err)
	}
	fmt.Print(string(data))
}
