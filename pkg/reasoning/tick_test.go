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

package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/sparql"
	"github.com/kraklabs/hwke/pkg/store/memstore"
)

func TestTick_FixedPointOnEmptyStore(t *testing.T) {
	g := memstore.New()
	result := Tick(g, nil, nil)
	assert.Empty(t, result.Added)
	assert.Equal(t, 0, result.Delta)
}

func TestRunToCompletion_TransitiveClosure(t *testing.T) {
	g := memstore.New()
	_, err := g.LoadTurtle(`
		@prefix ex: <urn:ex:> .
		ex:a ex:parent ex:b .
		ex:b ex:parent ex:c .
		ex:c ex:parent ex:d .
	`)
	require.NoError(t, err)

	rules, err := LoadOntology(`
		@prefix ex: <urn:ex:> .
		{ ?x ex:parent ?y . ?y ex:parent ?z . } => { ?x ex:ancestor ?z . } .
		{ ?x ex:ancestor ?y . ?y ex:parent ?z . } => { ?x ex:ancestor ?z . } .
	`)
	require.NoError(t, err)

	history, err := RunToCompletion(g, rules, 100, false, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	// a is an ancestor of c and d by transitive closure.
	total := g.TripleCount()
	assert.GreaterOrEqual(t, total, 5)

	// Re-running a tick after convergence must add nothing (idempotence).
	again := Tick(g, rules, nil)
	assert.Empty(t, again.Added)
}

func TestRunToCompletion_NoConvergenceReportsPartialHistory(t *testing.T) {
	g := memstore.New()
	_, err := g.LoadTurtle(`<urn:a> <urn:n> <urn:0> .`)
	require.NoError(t, err)

	// Each tick's output feeds the next: this rule needs three ticks to
	// reach its fixed point, so a budget of one tick runs out first.
	rules, err := LoadOntology(`
		{ ?x <urn:n> ?y . } => { ?y <urn:n> ?y . ?x <urn:seen> ?y . } .
	`)
	require.NoError(t, err)

	_, err = RunToCompletion(g, rules, 1, false, nil)
	assert.ErrorIs(t, err, ErrNoConvergence)
}

func brokenRule(id string) CompiledRule {
	return CompiledRule{ID: id, Query: &sparql.Query{
		Form:   sparql.Construct,
		Filter: &sparql.Filter{Var: "x", Pattern: "("}, // invalid regex: QueryError
	}}
}

func TestTick_SkipsFailingRuleAndContinues(t *testing.T) {
	g := memstore.New()
	_, err := g.LoadTurtle(`<urn:a> <urn:p> <urn:b> .`)
	require.NoError(t, err)

	rules, err := LoadOntology(`
		{ ?x <urn:p> ?y . } => { ?x <urn:ok> ?y . } .
	`)
	require.NoError(t, err)
	rules = append([]CompiledRule{brokenRule("broken")}, rules...)

	result := Tick(g, rules, nil)
	assert.Contains(t, result.RulesFailed, "broken")
	assert.Contains(t, result.FiredRules, rules[1].ID)
	assert.NotEmpty(t, result.Added)
}

func TestRunToCompletion_StrictSurfacesRuleFailures(t *testing.T) {
	g := memstore.New()
	rules := []CompiledRule{brokenRule("broken")}

	_, err := RunToCompletion(g, rules, 5, true, nil)
	require.Error(t, err)

	history, err := RunToCompletion(g, rules, 5, false, nil)
	require.NoError(t, err)
	assert.Contains(t, history[0].RulesFailed, "broken")
}
