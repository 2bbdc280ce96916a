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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func triple(s, p, o string) Triple {
	return Triple{Subject: NewIRI(s), Predicate: NewIRI(p), Object: NewIRI(o)}
}

func TestCanonical_IsOrderSensitiveButStable(t *testing.T) {
	a := triple("urn:a", "urn:p", "urn:b")
	require.Equal(t, Canonical(a), Canonical(a))
	require.NotEqual(t, Canonical(a), Canonical(triple("urn:b", "urn:p", "urn:a")))
}

func TestSortTriples_DeterministicAcrossInputOrder(t *testing.T) {
	forward := []Triple{
		triple("urn:c", "urn:p", "urn:1"),
		triple("urn:a", "urn:p", "urn:1"),
		triple("urn:b", "urn:p", "urn:1"),
	}
	reversed := []Triple{forward[2], forward[0], forward[1]}

	sortedForward := SortTriples(forward)
	sortedReversed := SortTriples(reversed)

	require.Len(t, sortedForward, 3)
	for i := range sortedForward {
		require.Equal(t, Canonical(sortedForward[i]), Canonical(sortedReversed[i]))
	}
	require.Equal(t, "urn:a", sortedForward[0].Subject.Value)
	require.Equal(t, "urn:c", sortedForward[2].Subject.Value)
}

func TestSortTriples_DoesNotMutateInput(t *testing.T) {
	original := []Triple{triple("urn:z", "urn:p", "urn:1"), triple("urn:a", "urn:p", "urn:1")}
	_ = SortTriples(original)
	require.Equal(t, "urn:z", original[0].Subject.Value)
}

func TestLiteral_RoundTripsLexicalForm(t *testing.T) {
	lit := NewLiteral("3.14000", "http://www.w3.org/2001/XMLSchema#decimal")
	require.Equal(t, "3.14000", lit.Value, "exact lexical form must be preserved, not numerically normalized")
}
