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
	"path/filepath"

	hwkeerrors "github.com/kraklabs/hwke/internal/errors"
	"github.com/kraklabs/hwke/internal/config"
	"github.com/kraklabs/hwke/internal/ui"
	"github.com/kraklabs/hwke/pkg/receipt"
)

// runVerify replays the lockchain and reports whether every receipt's
// PrevHash correctly links to its predecessor's MerkleRoot.
func runVerify(args []string, configPath string, globals GlobalFlags) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fatal(err)
	}

	lc, err := receipt.Open(filepath.Join(cfg.Store.DataDir, "lockchain"))
	if err != nil {
		fatal(hwkeerrors.NewPermissionError("cannot open lockchain", err.Error(), "", err))
	}

	n, verr := lc.Verify()
	if globals.JSON {
		if verr != nil {
			fmt.Printf("{\"valid\":false,\"entries_checked\":%d,\"error\":%q}\n", n, verr.Error())
			os.Exit(1)
		}
		fmt.Printf("{\"valid\":true,\"entries\":%d}\n", n)
		return
	}

	if verr != nil {
		ui.Error(os.Stdout, "chain invalid after %d valid entr(ies): %v", n, verr)
		os.Exit(1)
	}
	ui.Success(os.Stdout, "chain valid: %d entr(ies)", n)
}
