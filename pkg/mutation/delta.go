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

// Package mutation implements the Atman Mutation Engine (component C12):
// the only path by which a caller may change store contents, gated by
// PRE/POST hooks and recorded as a hash-chained Receipt.
package mutation

import (
	"fmt"

	"github.com/kraklabs/hwke/pkg/rdf"
)

// ChatmanConstant is the default maximum number of triples a single
// QuadDelta may touch (additions plus removals combined).
const ChatmanConstant = 64

// QuadDelta is a bounded batch of triple additions and removals applied
// atomically by Engine.Apply.
type QuadDelta struct {
	Adds []rdf.Triple `json:"adds,omitempty"`
	Rems []rdf.Triple `json:"rems,omitempty"`
}

// Additions and Removals satisfy hooks.DeltaView without pkg/mutation
// importing pkg/hooks, keeping the dependency direction hooks -> mutation
// rather than the reverse.
func (d QuadDelta) Additions() []rdf.Triple { return d.Adds }
func (d QuadDelta) Removals() []rdf.Triple  { return d.Rems }

// Size is the total number of triple operations in the delta.
func (d QuadDelta) Size() int { return len(d.Adds) + len(d.Rems) }

// Validate checks the delta against batchLimit (the configured Chatman
// constant) and rejects degenerate operations (a triple both added and
// removed in the same delta is ambiguous and always an error). An empty
// delta is not rejected here — Engine.Apply treats it as a distinct
// no-op case (§4.9 step 1, error kind EmptyDelta) rather than a topology
// violation.
func (d QuadDelta) Validate(batchLimit int) error {
	if batchLimit <= 0 {
		batchLimit = ChatmanConstant
	}
	if d.Size() > batchLimit {
		return fmt.Errorf("mutation: delta size %d exceeds batch limit %d", d.Size(), batchLimit)
	}
	removed := make(map[string]bool, len(d.Rems))
	for _, t := range d.Rems {
		removed[rdf.Canonical(t)] = true
	}
	for _, t := range d.Adds {
		if removed[rdf.Canonical(t)] {
			return fmt.Errorf("mutation: triple both added and removed in the same delta: %s", t)
		}
	}
	return nil
}
