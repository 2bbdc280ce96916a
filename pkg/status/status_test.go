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

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

func TestInspectState_HigherPriorityWins(t *testing.T) {
	g := memstore.New()
	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:A"), Predicate: rdf.NewIRI(DefaultPredicate), Object: rdf.NewLiteral("pending", ""),
	}))
	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:A"), Predicate: rdf.NewIRI(DefaultPredicate), Object: rdf.NewLiteral("active", ""),
	}))

	in := New()
	states := in.InspectState(g)
	assert.Equal(t, Active, states["urn:task:A"])
}

func TestInspectState_CancelledBeatsEverything(t *testing.T) {
	g := memstore.New()
	for _, s := range []string{"pending", "active", "waiting", "cancelled", "completed"} {
		require.NoError(t, g.Add(rdf.Triple{
			Subject: rdf.NewIRI("urn:task:B"), Predicate: rdf.NewIRI(DefaultPredicate), Object: rdf.NewLiteral(s, ""),
		}))
	}

	in := New()
	states := in.InspectState(g)
	assert.Equal(t, Cancelled, states["urn:task:B"])
}

func TestGetActiveTasks(t *testing.T) {
	g := memstore.New()
	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:A"), Predicate: rdf.NewIRI(DefaultPredicate), Object: rdf.NewLiteral("active", ""),
	}))
	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:B"), Predicate: rdf.NewIRI(DefaultPredicate), Object: rdf.NewLiteral("pending", ""),
	}))

	in := New()
	active := in.GetActiveTasks(g)
	_, ok := active["urn:task:A"]
	assert.True(t, ok)
	_, ok = active["urn:task:B"]
	assert.False(t, ok)
}
