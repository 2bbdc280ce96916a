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

// Package reasoning implements the rule compiler, the single-rule
// evaluator, the per-tick executor, and the fixed-point convergence
// runner (components C2 through C5).
package reasoning

import (
	"fmt"

	"github.com/kraklabs/hwke/pkg/n3"
	"github.com/kraklabs/hwke/pkg/sparql"
)

// CompiledRule is an N3 implication rule compiled to a SPARQL CONSTRUCT
// query: the antecedent becomes the WHERE clause, the consequent becomes
// the CONSTRUCT template.
type CompiledRule struct {
	ID    string
	Query *sparql.Query
}

// Compile turns a parsed N3 rule into its CONSTRUCT-query form.
func Compile(rule n3.Rule) CompiledRule {
	return CompiledRule{
		ID: rule.ID,
		Query: &sparql.Query{
			Form:      sparql.Construct,
			Where:     rule.Antecedent,
			Construct: rule.Consequent,
		},
	}
}

// CompileAll compiles every rule parsed from an N3 rule (ontology) document,
// preserving source order (rule firing order is otherwise unspecified but
// this keeps ticks deterministic when rules don't interact).
func CompileAll(rules []n3.Rule) []CompiledRule {
	out := make([]CompiledRule, len(rules))
	for i, r := range rules {
		out[i] = Compile(r)
	}
	return out
}

// LoadOntology parses an N3 implication document (the rule base, `§6
// load_ontology`) and compiles every rule it contains.
func LoadOntology(src string) ([]CompiledRule, error) {
	rules, err := n3.CompileRules(src)
	if err != nil {
		return nil, fmt.Errorf("reasoning: load ontology: %w", err)
	}
	return CompileAll(rules), nil
}
