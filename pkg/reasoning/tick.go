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
	"errors"
	"fmt"
	"log/slog"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/store"
)

// ErrNoConvergence is returned by RunToCompletion when the store has not
// reached a fixed point within the configured tick budget.
var ErrNoConvergence = errors.New("reasoning: no convergence within tick budget")

// TickResult reports what a single tick produced.
type TickResult struct {
	Before      int // triple_count before the tick
	After       int // triple_count after the tick
	Delta       int // After - Before (always >= 0, invariant I3)
	Added       []rdf.Triple
	FiredRules  []string // rule IDs that produced at least one new triple
	RulesFailed []string // rule IDs whose evaluation errored and were skipped
}

// Evaluate runs a single compiled rule's CONSTRUCT query against g and
// returns the triples it would add — callers decide whether/when to
// actually Add them, so Evaluate has no side effects on g.
func Evaluate(g store.Store, rule CompiledRule) ([]rdf.Triple, error) {
	produced, err := g.Construct(rule.Query)
	if err != nil {
		return nil, fmt.Errorf("reasoning: evaluate %s: %w", rule.ID, err)
	}
	return produced, nil
}

// Tick evaluates every rule once against the current store state and
// applies every new triple produced, implementing the monotonic-only
// semantics required by the reasoning loop: a tick only ever adds triples,
// never removes them (invariant I1), and a triple already present is not
// re-added or counted as new.
//
// A rule whose evaluation fails (query error, sandbox breach) is logged
// and skipped rather than aborting the tick — the remaining rules still
// run and their id is recorded in RulesFailed (§3.3, §7 QueryError: "Rule
// skipped (tick)"). Tick itself never returns an error for this reason;
// only RunToCompletion decides whether accumulated failures should fail
// the run, via strict.
func Tick(g store.Store, rules []CompiledRule, log *slog.Logger) TickResult {
	if log == nil {
		log = slog.Default()
	}
	existing := make(map[string]bool)
	for _, t := range g.All() {
		existing[rdf.Canonical(t)] = true
	}

	result := TickResult{Before: len(existing)}
	for _, rule := range rules {
		produced, err := Evaluate(g, rule)
		if err != nil {
			log.Warn("reasoning.rule.skipped", "rule", rule.ID, "error", err)
			result.RulesFailed = append(result.RulesFailed, rule.ID)
			continue
		}
		fired := false
		for _, t := range produced {
			key := rdf.Canonical(t)
			if existing[key] {
				continue
			}
			if err := g.Add(t); err != nil {
				log.Warn("reasoning.rule.skipped", "rule", rule.ID, "error", err)
				result.RulesFailed = append(result.RulesFailed, rule.ID)
				continue
			}
			existing[key] = true
			result.Added = append(result.Added, t)
			fired = true
		}
		if fired {
			result.FiredRules = append(result.FiredRules, rule.ID)
		}
	}
	result.After = g.TripleCount()
	result.Delta = result.After - result.Before
	return result
}

// RunToCompletion runs ticks until one produces no new triples (a fixed
// point, invariant I4) or maxTicks is exhausted. When the budget runs out
// without convergence, it returns ErrNoConvergence along with the partial
// tick history collected so far.
//
// When strict is true, any tick that recorded a RulesFailed entry turns
// the run into an error (the accumulated failures are surfaced at the
// run_to_completion boundary, per §3.3); when false, failures are only
// logged and counted in the returned history.
func RunToCompletion(g store.Store, rules []CompiledRule, maxTicks int, strict bool, log *slog.Logger) ([]TickResult, error) {
	if log == nil {
		log = slog.Default()
	}
	var history []TickResult
	var failedRules []string
	for i := 0; i < maxTicks; i++ {
		result := Tick(g, rules, log)
		history = append(history, result)
		failedRules = append(failedRules, result.RulesFailed...)
		log.Debug("reasoning.tick", "index", i, "added", len(result.Added), "rules_failed", len(result.RulesFailed))
		if len(result.Added) == 0 {
			log.Info("reasoning.fixpoint", "ticks", i+1)
			if strict && len(failedRules) > 0 {
				return history, fmt.Errorf("reasoning: %d rule evaluation(s) failed during run_to_completion: %v", len(failedRules), failedRules)
			}
			return history, nil
		}
	}
	if strict && len(failedRules) > 0 {
		return history, fmt.Errorf("reasoning: %d rule evaluation(s) failed during run_to_completion: %v", len(failedRules), failedRules)
	}
	return history, ErrNoConvergence
}
