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

package rdf

import "sort"

// Canonical renders a triple into a single-line, unambiguous string used as
// the input to content hashing. Blank node labels are included verbatim —
// callers that need isomorphism-stable hashing across blank node relabeling
// must canonicalize labels before calling this (no store in this module
// relabels them; cross-store receipt comparison never depends on blank
// node identity, by spec).
func Canonical(t Triple) string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String()
}

// SortTriples returns a new, stably sorted copy of ts ordered by canonical
// string form. Used everywhere a deterministic hash or diff over a triple
// set is required (QuadDelta hashing, receipt merkle input, dump output).
func SortTriples(ts []Triple) []Triple {
	out := make([]Triple, len(ts))
	copy(out, ts)
	sort.Slice(out, func(i, j int) bool {
		return Canonical(out[i]) < Canonical(out[j])
	})
	return out
}
