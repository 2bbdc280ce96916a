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

package mutation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/hooks"
	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/receipt"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

func newTestEngine(t *testing.T) (*Engine, *memstore.Store) {
	t.Helper()
	g := memstore.New()
	reg := hooks.NewRegistry()
	ev := hooks.NewEvaluator(16, 1000)
	lc, err := receipt.Open(t.TempDir())
	require.NoError(t, err)
	return New(Config{Store: g, Registry: reg, Evaluator: ev, Lockchain: lc, BatchLimit: 4}), g
}

func TestApply_CommitsAndChainsReceipts(t *testing.T) {
	e, g := newTestEngine(t)
	delta := QuadDelta{Adds: []rdf.Triple{{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}}}

	r1, err := e.Apply(context.Background(), delta, "alice")
	require.NoError(t, err)
	assert.Equal(t, receipt.GenesisHash, r1.PrevHash)
	assert.Equal(t, 1, g.TripleCount())

	delta2 := QuadDelta{Adds: []rdf.Triple{{Subject: rdf.NewIRI("c"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("d")}}}
	r2, err := e.Apply(context.Background(), delta2, "bob")
	require.NoError(t, err)
	assert.Equal(t, r1.MerkleRoot, r2.PrevHash)
	assert.Equal(t, 2, g.TripleCount())
}

func TestApply_EmptyDeltaReturnsNoOpReceipt(t *testing.T) {
	e, g := newTestEngine(t)
	r, err := e.Apply(context.Background(), QuadDelta{}, "alice")
	require.Error(t, err)
	assert.False(t, r.Committed)
	require.NotNil(t, r.Error)
	assert.Equal(t, receipt.ErrEmptyDelta, r.Error.Kind)
	assert.Equal(t, 0, g.TripleCount())
}

func TestApply_PostHookFailureKeepsCommit(t *testing.T) {
	g := memstore.New()
	reg := hooks.NewRegistry()
	require.NoError(t, reg.Register(hooks.Hook{
		ID: "observe", Phase: hooks.PhasePost, Priority: 0,
		Cond: hooks.Condition{Kind: hooks.ConditionDELTA, TargetPredicate: "p"},
		Handler: func(hooks.HookContext) hooks.HookResult {
			return hooks.HookResult{Passed: false, Severity: hooks.HardBlock, Message: "observed a problem"}
		},
	}))
	ev := hooks.NewEvaluator(0, 0)
	lc, err := receipt.Open(t.TempDir())
	require.NoError(t, err)
	e := New(Config{Store: g, Registry: reg, Evaluator: ev, Lockchain: lc, BatchLimit: 4})

	delta := QuadDelta{Adds: []rdf.Triple{{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}}}
	r, err := e.Apply(context.Background(), delta, "alice")
	require.NoError(t, err)
	assert.True(t, r.Committed)
	require.NotNil(t, r.Error)
	assert.Equal(t, receipt.ErrPostHookError, r.Error.Kind)
	assert.Equal(t, "observe", r.Error.HookID)
	assert.Equal(t, 1, g.TripleCount())
}

func TestApply_RejectsOversizedDelta(t *testing.T) {
	e, _ := newTestEngine(t)
	var adds []rdf.Triple
	for i := 0; i < 10; i++ {
		adds = append(adds, rdf.Triple{Subject: rdf.NewIRI("s"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI(fmt.Sprint(i))})
	}
	r, err := e.Apply(context.Background(), QuadDelta{Adds: adds}, "alice")
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, AbortValidation, merr.Reason)
	assert.False(t, r.Committed)
	require.NotNil(t, r.Error)
	assert.Equal(t, receipt.ErrTopologyViolation, r.Error.Kind)
}

func TestApply_HardBlockPreHookRollsBackFully(t *testing.T) {
	g := memstore.New()
	reg := hooks.NewRegistry()
	require.NoError(t, reg.Register(hooks.Hook{
		ID: "deny-all", Phase: hooks.PhasePre, Priority: 0,
		Cond: hooks.Condition{Kind: hooks.ConditionDELTA, TargetPredicate: "p"},
		Handler: func(hooks.HookContext) hooks.HookResult {
			return hooks.HookResult{Passed: false, Severity: hooks.HardBlock, Message: "denied"}
		},
	}))
	ev := hooks.NewEvaluator(0, 0)
	lc, err := receipt.Open(t.TempDir())
	require.NoError(t, err)
	e := New(Config{Store: g, Registry: reg, Evaluator: ev, Lockchain: lc, BatchLimit: 4})

	delta := QuadDelta{Adds: []rdf.Triple{{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}}}
	r, err := e.Apply(context.Background(), delta, "alice")
	require.Error(t, err)
	assert.Equal(t, 0, g.TripleCount())
	assert.False(t, r.Committed)
	require.NotNil(t, r.Error)
	assert.Equal(t, receipt.ErrGuardViolation, r.Error.Kind)
	assert.Equal(t, "deny-all", r.Error.HookID)
}
