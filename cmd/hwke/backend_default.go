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

//go:build !cozo

package main

import (
	"fmt"

	"github.com/kraklabs/hwke/internal/config"
	"github.com/kraklabs/hwke/pkg/store"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

// openStore builds the configured graph store backend. The "cozo" backend
// requires building with -tags cozo against the vendored CozoDB static
// library; a default build only offers the in-memory store and reports a
// clear error if the project file asks for cozo anyway.
func openStore(cfg *config.Config) (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case "", "mem":
		return memstore.New(), func() error { return nil }, nil
	case "cozo":
		return nil, nil, fmt.Errorf("hwke: store.backend 'cozo' requires a build with -tags cozo")
	default:
		return nil, nil, fmt.Errorf("hwke: unknown store.backend %q", cfg.Store.Backend)
	}
}
