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

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/mutation"
	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/receipt"
	"github.com/kraklabs/hwke/pkg/status"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	lc, err := receipt.Open(t.TempDir())
	require.NoError(t, err)
	return New(Config{Store: memstore.New(), Lockchain: lc, BatchLimit: 8, CacheCap: 16, CacheTTLMS: 1000})
}

func TestEngine_SequenceRuleReachesFixedPoint(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.LoadOntology(`{ ?t <urn:status> "pending" } => { ?t <urn:status> "active" } .`)
	require.NoError(t, err)
	_, err = e.LoadTopology(`<urn:A> <urn:status> "pending" .`)
	require.NoError(t, err)

	history, err := e.RunToCompletion(10)
	require.NoError(t, err)
	assert.Equal(t, 2, len(history))
	assert.Equal(t, 1, len(history[0].Added))
	assert.Equal(t, 0, len(history[1].Added))
}

func TestEngine_InspectStateResolvesHighestPriority(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.LoadTopology(`<urn:A> <http://kraklabs.com/hwke/ns#status> "pending" .
<urn:A> <http://kraklabs.com/hwke/ns#status> "active" .`)
	require.NoError(t, err)

	states := e.InspectState()
	assert.Equal(t, status.Active, states["urn:A"])

	active := e.GetActiveTasks()
	_, ok := active["urn:A"]
	assert.True(t, ok)
}

func TestEngine_ApplyProducesReceipt(t *testing.T) {
	e := newTestEngine(t)
	delta := mutation.QuadDelta{Adds: []rdf.Triple{{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}}}
	r, err := e.Apply(context.Background(), delta, "alice")
	require.NoError(t, err)
	assert.Equal(t, receipt.GenesisHash, r.PrevHash)
	assert.Equal(t, 1, e.Store().TripleCount())
}
