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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

func TestExecutor_HardBlockShortCircuits(t *testing.T) {
	reg := NewRegistry()
	var secondCalled bool
	require.NoError(t, reg.Register(Hook{
		ID: "a", Phase: PhasePre, Priority: 10,
		Cond:    Condition{Kind: ConditionASK, QueryText: `ASK WHERE { <urn:x> <urn:p> <urn:y> . }`},
		Handler: func(HookContext) HookResult { return HookResult{Passed: false, Severity: HardBlock, Message: "nope"} },
	}))
	require.NoError(t, reg.Register(Hook{
		ID: "b", Phase: PhasePre, Priority: 1,
		Cond:    Condition{Kind: ConditionASK, QueryText: `ASK WHERE { <urn:x> <urn:p> <urn:y> . }`},
		Handler: func(HookContext) HookResult { secondCalled = true; return HookResult{Passed: true} },
	}))

	g := memstore.New()
	_, err := g.LoadTurtle("<urn:x> <urn:p> <urn:y> .")
	require.NoError(t, err)

	exec := NewExecutor(reg, NewEvaluator(0, 0), nil)
	outcome, err := exec.Run(PhasePre, g, 1, HookContext{Ctx: context.Background(), Delta: emptyDelta{}})
	require.NoError(t, err)
	assert.True(t, outcome.Blocked)
	assert.False(t, secondCalled)
}

func TestExecutor_TimeoutBecomesHardBlock(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Hook{
		ID: "slow", Phase: PhasePre, Priority: 0,
		Cond:    Condition{Kind: ConditionASK, QueryText: `ASK WHERE { <urn:x> <urn:p> <urn:y> . }`},
		Sandbox: SandboxLimits{Timeout: 10 * time.Millisecond},
		Handler: func(HookContext) HookResult {
			time.Sleep(50 * time.Millisecond)
			return HookResult{Passed: true}
		},
	}))
	g := memstore.New()
	_, err := g.LoadTurtle("<urn:x> <urn:p> <urn:y> .")
	require.NoError(t, err)

	exec := NewExecutor(reg, NewEvaluator(0, 0), nil)
	outcome, err := exec.Run(PhasePre, g, 1, HookContext{Ctx: context.Background(), Delta: emptyDelta{}})
	require.NoError(t, err)
	assert.True(t, outcome.Blocked)
	assert.Equal(t, HardBlock, outcome.Results["slow"].Severity)
}

type emptyDelta struct{}

func (emptyDelta) Additions() []rdf.Triple { return nil }
func (emptyDelta) Removals() []rdf.Triple  { return nil }

type fakeDelta struct{ adds []rdf.Triple }

func (d fakeDelta) Additions() []rdf.Triple { return d.adds }
func (d fakeDelta) Removals() []rdf.Triple  { return nil }

func TestExecutor_WindowConditionAccumulatesAcrossRuns(t *testing.T) {
	reg := NewRegistry()
	var fired int
	require.NoError(t, reg.Register(Hook{
		ID: "burst", Phase: PhasePost, Priority: 0,
		Cond: Condition{
			Kind: ConditionWINDOW, WindowTicks: 2,
			TargetPredicate: "urn:status", Comparator: ">=", Threshold: 3,
		},
		Handler: func(HookContext) HookResult { fired++; return HookResult{Passed: true} },
	}))

	g := memstore.New()
	exec := NewExecutor(reg, NewEvaluator(0, 0), nil)

	statusTriple := rdf.Triple{Subject: rdf.NewIRI("urn:t"), Predicate: rdf.NewIRI("urn:status"), Object: rdf.NewLiteral("x", "")}

	_, err := exec.Run(PhasePost, g, 1, HookContext{Ctx: context.Background(), Delta: fakeDelta{adds: []rdf.Triple{statusTriple}}})
	require.NoError(t, err)
	assert.Equal(t, 0, fired, "one matching triple is below the threshold of 3")

	_, err = exec.Run(PhasePost, g, 2, HookContext{Ctx: context.Background(), Delta: fakeDelta{adds: []rdf.Triple{statusTriple, statusTriple}}})
	require.NoError(t, err)
	assert.Equal(t, 1, fired, "windowed sum of 1+2 over the last 2 runs reaches the threshold")
}
