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
	"fmt"

	"github.com/kraklabs/hwke/pkg/sparql"
	"github.com/kraklabs/hwke/pkg/store"
)

// ConditionKind selects one of the seven typed condition shapes a hook can
// gate on.
type ConditionKind string

const (
	ConditionASK       ConditionKind = "ASK"
	ConditionSELECT    ConditionKind = "SELECT"
	ConditionSHACL     ConditionKind = "SHACL"
	ConditionDELTA     ConditionKind = "DELTA"
	ConditionTHRESHOLD ConditionKind = "THRESHOLD"
	ConditionWINDOW    ConditionKind = "WINDOW"
	ConditionCOMPOSITE ConditionKind = "COMPOSITE"
)

// CompositeOp combines sub-conditions.
type CompositeOp string

const (
	CompositeAnd CompositeOp = "AND"
	CompositeOr  CompositeOp = "OR"
	CompositeNot CompositeOp = "NOT"
)

// Condition is a tagged union over the seven condition kinds. Exactly the
// fields relevant to Kind are meaningful.
type Condition struct {
	Kind ConditionKind

	// ASK / SELECT
	QueryText string

	// SHACL
	Shape ShapeConstraint

	// DELTA: true if the condition should fire when the delta touches
	// TargetPredicate at all (addition or removal).
	TargetPredicate string

	// THRESHOLD: fires when SELECT COUNT-equivalent of QueryText compares
	// to Threshold using Comparator ("<", "<=", ">", ">=", "==").
	Threshold  float64
	Comparator string

	// WINDOW: fires when the number of matching triples added within the
	// last WindowTicks ticks (tracked by the caller, not here) satisfies
	// Comparator/Threshold. The window bookkeeping lives in the Executor;
	// Condition only carries the static parameters.
	WindowTicks int

	// COMPOSITE
	Op  CompositeOp
	Sub []Condition
}

// CacheKey returns the deterministic cache key for this condition at a
// given store version: canonical condition text plus version, so two
// evaluations of the identical condition against the identical store
// state always hit the cache (component C9's invalidation contract).
// The text covers every static parameter (query, predicate, comparator,
// threshold, window and SHACL shape), so conditions that differ only in
// one of them never share an entry.
func (c Condition) CacheKey(storeVersion uint64) string {
	key := fmt.Sprintf("%d:%s:%s:%s:%s:%g:%d:%s", storeVersion, c.Kind, c.QueryText,
		c.TargetPredicate, c.Comparator, c.Threshold, c.WindowTicks, c.Shape.TargetClass)
	for _, p := range c.Shape.Properties {
		min, max := -1, -1
		if p.MinCount != nil {
			min = *p.MinCount
		}
		if p.MaxCount != nil {
			max = *p.MaxCount
		}
		key += fmt.Sprintf("|%s,%d,%d,%s,%s,%q", p.Path, min, max, p.Class, p.Datatype, p.Pattern)
	}
	return key
}

// Evaluator evaluates conditions against a store, backed by a result cache.
type Evaluator struct {
	cache *resultCache
}

// NewEvaluator builds a condition evaluator with the given cache capacity
// and TTL. capacity <= 0 disables caching.
func NewEvaluator(capacity int, ttlMS int) *Evaluator {
	return &Evaluator{cache: newResultCache(capacity, ttlMS)}
}

// Eval evaluates c against g at the given logical store version (the
// Atman Mutation Engine's commit counter is a natural choice). DELTA
// conditions depend on the delta rather than the store, so they are never
// cached; COMPOSITE conditions cache only their children.
func (e *Evaluator) Eval(g store.Store, c Condition, storeVersion uint64, delta DeltaView) (bool, error) {
	if c.Kind != ConditionCOMPOSITE && c.Kind != ConditionDELTA {
		key := c.CacheKey(storeVersion)
		if v, ok := e.cache.get(key); ok {
			return v, nil
		}
		result, err := e.evalUncached(g, c, storeVersion, delta)
		if err != nil {
			return false, err
		}
		e.cache.put(key, result)
		return result, nil
	}
	return e.evalUncached(g, c, storeVersion, delta)
}

func (e *Evaluator) evalUncached(g store.Store, c Condition, storeVersion uint64, delta DeltaView) (bool, error) {
	switch c.Kind {
	case ConditionASK:
		q, err := sparql.Parse(c.QueryText)
		if err != nil {
			return false, fmt.Errorf("hooks: parse ASK condition: %w", err)
		}
		return g.Ask(q)
	case ConditionSELECT:
		q, err := sparql.Parse(c.QueryText)
		if err != nil {
			return false, fmt.Errorf("hooks: parse SELECT condition: %w", err)
		}
		rows, err := g.Select(q)
		if err != nil {
			return false, err
		}
		return len(rows) > 0, nil
	case ConditionSHACL:
		violations := c.Shape.Validate(g.All())
		return len(violations) == 0, nil
	case ConditionDELTA:
		if delta == nil {
			return false, nil
		}
		return deltaTouchesPredicate(delta, c.TargetPredicate), nil
	case ConditionTHRESHOLD:
		q, err := sparql.Parse(c.QueryText)
		if err != nil {
			return false, fmt.Errorf("hooks: parse THRESHOLD condition: %w", err)
		}
		rows, err := g.Select(q)
		if err != nil {
			return false, err
		}
		return compare(float64(len(rows)), c.Comparator, c.Threshold), nil
	case ConditionWINDOW:
		// Static evaluation has no window state of its own; the Executor
		// evaluates WINDOW conditions itself with its per-hook sliding
		// window (Executor.evalWindow in executor.go) and never calls here.
		return false, fmt.Errorf("hooks: WINDOW condition requires executor-tracked state")
	case ConditionCOMPOSITE:
		return e.evalComposite(g, c, storeVersion, delta)
	default:
		return false, fmt.Errorf("hooks: unknown condition kind %q", c.Kind)
	}
}

func (e *Evaluator) evalComposite(g store.Store, c Condition, storeVersion uint64, delta DeltaView) (bool, error) {
	switch c.Op {
	case CompositeAnd:
		for _, sub := range c.Sub {
			ok, err := e.Eval(g, sub, storeVersion, delta)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case CompositeOr:
		for _, sub := range c.Sub {
			ok, err := e.Eval(g, sub, storeVersion, delta)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case CompositeNot:
		if len(c.Sub) != 1 {
			return false, fmt.Errorf("hooks: NOT requires exactly one sub-condition")
		}
		ok, err := e.Eval(g, c.Sub[0], storeVersion, delta)
		return !ok, err
	default:
		return false, fmt.Errorf("hooks: unknown composite op %q", c.Op)
	}
}

func deltaTouchesPredicate(delta DeltaView, predicate string) bool {
	for _, t := range delta.Additions() {
		if t.Predicate.Value == predicate {
			return true
		}
	}
	for _, t := range delta.Removals() {
		if t.Predicate.Value == predicate {
			return true
		}
	}
	return false
}

func compare(lhs float64, op string, rhs float64) bool {
	switch op {
	case "<":
		return lhs < rhs
	case "<=":
		return lhs <= rhs
	case ">":
		return lhs > rhs
	case ">=":
		return lhs >= rhs
	case "==":
		return lhs == rhs
	default:
		return false
	}
}
