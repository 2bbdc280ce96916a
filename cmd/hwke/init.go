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
	"github.com/kraklabs/hwke/internal/config"
	"github.com/kraklabs/hwke/internal/ui"
)

// runInit scaffolds .hwke/project.yaml with the default configuration.
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	backend := fs.String("backend", "mem", "Store backend: mem or cozo")
	_ = fs.Parse(args)

	if _, err := os.Stat(config.ConfigPath()); err == nil && !*force {
		fatal(hwkeerrors.NewConfigError(
			"configuration already exists",
			config.ConfigPath(),
			"pass --force to overwrite",
			nil,
		))
	}

	cfg := config.DefaultConfig()
	cfg.Store.Backend = *backend
	if err := config.SaveConfig(cfg, ""); err != nil {
		fatal(err)
	}

	if globals.JSON {
		fmt.Printf("{\"status\":\"created\",\"path\":%q}\n", config.ConfigPath())
		return
	}
	ui.Success(os.Stdout, "created %s", config.ConfigPath())
}
