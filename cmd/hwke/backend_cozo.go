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

//go:build cozo

package main

import (
	"fmt"
	"path/filepath"

	"github.com/kraklabs/hwke/internal/config"
	"github.com/kraklabs/hwke/pkg/store"
	"github.com/kraklabs/hwke/pkg/store/cozostore"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

// openStore builds the configured graph store backend, offering the
// persistent CozoDB-backed store when this binary was built with
// -tags cozo against the vendored static library.
func openStore(cfg *config.Config) (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case "", "mem":
		return memstore.New(), func() error { return nil }, nil
	case "cozo":
		s, err := cozostore.Open(cozostore.Config{Engine: "rocksdb", Path: filepath.Join(cfg.Store.DataDir, "cozo")})
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { s.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("hwke: unknown store.backend %q", cfg.Store.Backend)
	}
}
