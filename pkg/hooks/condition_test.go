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

package hooks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

func TestEval_ASKConditionHitsCacheOnSecondCall(t *testing.T) {
	g := memstore.New()
	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:1"), Predicate: rdf.NewIRI("urn:status"), Object: rdf.NewLiteral("active", ""),
	}))

	e := NewEvaluator(16, 60000)
	c := Condition{Kind: ConditionASK, QueryText: `ASK { ?s <urn:status> "active" }`}

	ok, err := e.Eval(g, c, 1, nil)
	require.NoError(t, err)
	require.True(t, ok)

	// Mutate the store without bumping storeVersion: a cached Eval must
	// still report the stale (but correctly cached) result.
	require.NoError(t, g.Remove(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:1"), Predicate: rdf.NewIRI("urn:status"), Object: rdf.NewLiteral("active", ""),
	}))
	ok2, err := e.Eval(g, c, 1, nil)
	require.NoError(t, err)
	require.True(t, ok2, "same store version must hit the cache and return the original result")

	ok3, err := e.Eval(g, c, 2, nil)
	require.NoError(t, err)
	require.False(t, ok3, "a new store version must bypass the cache and re-evaluate")
}

func TestEval_SHACLConditionDetectsMinCountViolation(t *testing.T) {
	g := memstore.New()
	typePred := "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:1"), Predicate: rdf.NewIRI(typePred), Object: rdf.NewIRI("urn:Task"),
	}))

	min := 1
	shape := ShapeConstraint{
		TargetClass: "urn:Task",
		Properties: []PropertyConstraint{
			{Path: "urn:status", MinCount: &min},
		},
	}

	e := NewEvaluator(0, 0)
	ok, err := e.Eval(g, Condition{Kind: ConditionSHACL, Shape: shape}, 1, nil)
	require.NoError(t, err)
	require.False(t, ok, "task with no status triple violates minCount:1")

	require.NoError(t, g.Add(rdf.Triple{
		Subject: rdf.NewIRI("urn:task:1"), Predicate: rdf.NewIRI("urn:status"), Object: rdf.NewLiteral("pending", ""),
	}))
	ok2, err := e.Eval(g, Condition{Kind: ConditionSHACL, Shape: shape}, 2, nil)
	require.NoError(t, err)
	require.True(t, ok2)
}

func TestEval_ThresholdComparesRowCount(t *testing.T) {
	g := memstore.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Add(rdf.Triple{
			Subject: rdf.NewIRI("urn:task:" + string(rune('1'+i))), Predicate: rdf.NewIRI("urn:status"), Object: rdf.NewLiteral("blocked", ""),
		}))
	}

	e := NewEvaluator(0, 0)
	c := Condition{
		Kind:       ConditionTHRESHOLD,
		QueryText:  `SELECT ?s WHERE { ?s <urn:status> "blocked" }`,
		Comparator: ">=",
		Threshold:  3,
	}
	ok, err := e.Eval(g, c, 1, nil)
	require.NoError(t, err)
	require.True(t, ok)

	c.Threshold = 4
	ok2, err := e.Eval(g, c, 2, nil)
	require.NoError(t, err)
	require.False(t, ok2)
}

func TestEval_CompositeAndShortCircuits(t *testing.T) {
	g := memstore.New()
	e := NewEvaluator(0, 0)
	// The second child is a WINDOW condition, which the Evaluator rejects
	// with an error: the call only succeeds if AND stops after the first
	// (false) child.
	c := Condition{
		Kind: ConditionCOMPOSITE,
		Op:   CompositeAnd,
		Sub: []Condition{
			{Kind: ConditionASK, QueryText: `ASK { ?s <urn:status> "active" }`},
			{Kind: ConditionWINDOW, WindowTicks: 3},
		},
	}
	ok, err := e.Eval(g, c, 1, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEval_WindowConditionErrorsWithoutExecutorState(t *testing.T) {
	g := memstore.New()
	e := NewEvaluator(0, 0)
	_, err := e.Eval(g, Condition{Kind: ConditionWINDOW, WindowTicks: 3}, 1, nil)
	require.Error(t, err)
}
