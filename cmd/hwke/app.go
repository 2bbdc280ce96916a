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
	"github.com/kraklabs/hwke/pkg/engine"
	"github.com/kraklabs/hwke/pkg/receipt"
)

// app bundles everything a subcommand needs: the loaded project config,
// the composed facade, and a close func that releases backend resources.
type app struct {
	cfg   *config.Config
	eng   *engine.Engine
	close func() error
}

// openApp loads the project config and builds the facade Engine over the
// configured store backend and a lockchain rooted at cfg.Store.DataDir.
func openApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, hwkeerrors.NewInternalError("cannot open store backend", err.Error(), "", err)
	}

	lockDir := filepath.Join(cfg.Store.DataDir, "lockchain")
	lc, err := receipt.Open(lockDir)
	if err != nil {
		return nil, hwkeerrors.NewPermissionError("cannot open lockchain", err.Error(), "", err)
	}

	eng := engine.New(engine.Config{
		Store:      st,
		Lockchain:  lc,
		BatchLimit: cfg.Engine.BatchLimit,
		CacheCap:   cfg.Cache.Capacity,
		CacheTTLMS: cfg.Cache.TTLMS,
		StrictTick: cfg.Engine.StrictTick,
	})

	return &app{cfg: cfg, eng: eng, close: closeStore}, nil
}

// fatal prints a sanitized, user-facing rendering of err and exits 1.
func fatal(err error) {
	ui.Error(os.Stderr, "%s", hwkeerrors.Format(err))
	os.Exit(1)
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal(hwkeerrors.NewValidationError("cannot read file", err.Error(), fmt.Sprintf("check that %s exists", path), err))
	}
	return string(data)
}
