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

package sparql

import (
	"regexp"

	"github.com/kraklabs/hwke/pkg/rdf"
)

// Binding maps a variable name to the term it is bound to.
type Binding map[string]rdf.Term

// Eval runs q's basic graph pattern against universe (the full triple set
// of the target graph) and returns one binding per solution. Caller
// applies Form-specific projection (Select/Ask/Construct all share this
// join).
func Eval(universe []rdf.Triple, q *Query) ([]Binding, error) {
	bindings := []Binding{{}}
	for _, pattern := range q.Where {
		var next []Binding
		for _, b := range bindings {
			for _, cand := range universe {
				nb, ok := match(pattern, cand, b)
				if ok {
					next = append(next, nb)
				}
			}
		}
		bindings = next
		if len(bindings) == 0 {
			break
		}
	}
	if q.Filter != nil {
		re, err := regexp.Compile(q.Filter.Pattern)
		if err != nil {
			return nil, &QueryError{"invalid FILTER regex: " + err.Error()}
		}
		var filtered []Binding
		for _, b := range bindings {
			term, ok := b[q.Filter.Var]
			if !ok {
				continue
			}
			if re.MatchString(term.Value) {
				filtered = append(filtered, b)
			}
		}
		bindings = filtered
	}
	if q.Limit > 0 && len(bindings) > q.Limit {
		bindings = bindings[:q.Limit]
	}
	return bindings, nil
}

func match(pattern, candidate rdf.Triple, b Binding) (Binding, bool) {
	nb := cloneBinding(b)
	if !matchTerm(pattern.Subject, candidate.Subject, nb) {
		return nil, false
	}
	if !matchTerm(pattern.Predicate, candidate.Predicate, nb) {
		return nil, false
	}
	if !matchTerm(pattern.Object, candidate.Object, nb) {
		return nil, false
	}
	return nb, true
}

func matchTerm(pattern, candidate rdf.Term, b Binding) bool {
	if pattern.IsVariable() {
		if existing, bound := b[pattern.Value]; bound {
			return existing.Equal(candidate)
		}
		b[pattern.Value] = candidate
		return true
	}
	return pattern.Equal(candidate)
}

func cloneBinding(b Binding) Binding {
	nb := make(Binding, len(b)+3)
	for k, v := range b {
		nb[k] = v
	}
	return nb
}

// ProjectRows projects vars out of bindings, in order, for a SELECT query.
func ProjectRows(bindings []Binding, vars []string) [][]rdf.Term {
	rows := make([][]rdf.Term, 0, len(bindings))
	for _, b := range bindings {
		row := make([]rdf.Term, len(vars))
		for i, v := range vars {
			row[i] = b[v]
		}
		rows = append(rows, row)
	}
	return rows
}

// Instantiate substitutes bindings into the CONSTRUCT template, dropping
// any resulting triple that still contains an unbound variable (a
// template variable not present in Where never binds).
func Instantiate(template []rdf.Triple, bindings []Binding) []rdf.Triple {
	seen := map[string]bool{}
	var out []rdf.Triple
	for _, b := range bindings {
		for _, tr := range template {
			s, ok1 := substitute(tr.Subject, b)
			p, ok2 := substitute(tr.Predicate, b)
			o, ok3 := substitute(tr.Object, b)
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			result := rdf.Triple{Subject: s, Predicate: p, Object: o}
			key := rdf.Canonical(result)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, result)
		}
	}
	return out
}

func substitute(t rdf.Term, b Binding) (rdf.Term, bool) {
	if !t.IsVariable() {
		return t, true
	}
	bound, ok := b[t.Value]
	return bound, ok
}
