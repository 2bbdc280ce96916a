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

package n3

import "github.com/kraklabs/hwke/pkg/rdf"

// ParseTermSurface parses a single term written in Term.String's surface
// form (e.g. `<urn:x>`, `_:b1`, `"lit"@en`) back into an rdf.Term. It is
// the inverse of rdf.Term.String, used by storage backends that only
// persist strings (cozostore) to round-trip terms without a second codec.
func ParseTermSurface(s string) (rdf.Term, error) {
	l := newLexer(s)
	tk, err := l.next()
	if err != nil {
		return rdf.Term{}, err
	}
	switch tk.kind {
	case tokIRI:
		return rdf.NewIRI(tk.text), nil
	case tokBlankNode:
		return rdf.NewBlankNode(tk.text), nil
	case tokLiteral:
		return decodeLiteral(tk.text), nil
	default:
		return rdf.Term{}, &lexError{tk.line, tk.col, "not a term surface form"}
	}
}
