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
	"regexp"

	"github.com/kraklabs/hwke/pkg/rdf"
)

// ShapeConstraint is the supported SHACL subset: node/property shapes
// bound to sh:targetClass via an rdf:type triple, with minCount, maxCount,
// class, datatype and pattern property constraints. Full SHACL Core is
// explicitly out of scope (spec Open Question, resolved here); anything
// beyond this subset must go through a SELECT/ASK condition instead.
type ShapeConstraint struct {
	TargetClass string
	Properties  []PropertyConstraint
}

// PropertyConstraint constrains one predicate's values on a focus node.
type PropertyConstraint struct {
	Path      string
	MinCount  *int
	MaxCount  *int
	Class     string
	Datatype  string
	Pattern   string
}

// Violation describes one failed constraint on one focus node.
type Violation struct {
	FocusNode string
	Path      string
	Message   string
}

// Validate checks every node typed as TargetClass against every property
// constraint and returns all violations found.
func (s ShapeConstraint) Validate(triples []rdf.Triple) []Violation {
	typePred := "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	byNode := map[string][]rdf.Triple{}
	var focusNodes []string
	for _, t := range triples {
		byNode[t.Subject.Value] = append(byNode[t.Subject.Value], t)
	}
	for _, t := range triples {
		if t.Predicate.Value == typePred && t.Object.Value == s.TargetClass {
			focusNodes = append(focusNodes, t.Subject.Value)
		}
	}

	var violations []Violation
	for _, node := range focusNodes {
		for _, pc := range s.Properties {
			violations = append(violations, pc.validate(node, byNode[node], byNode)...)
		}
	}
	return violations
}

func (pc PropertyConstraint) validate(node string, nodeTriples []rdf.Triple, byNode map[string][]rdf.Triple) []Violation {
	var matches []rdf.Triple
	for _, t := range nodeTriples {
		if t.Predicate.Value == pc.Path {
			matches = append(matches, t)
		}
	}

	var violations []Violation
	if pc.MinCount != nil && len(matches) < *pc.MinCount {
		violations = append(violations, Violation{
			FocusNode: node, Path: pc.Path,
			Message: fmt.Sprintf("expected at least %d value(s), found %d", *pc.MinCount, len(matches)),
		})
	}
	if pc.MaxCount != nil && len(matches) > *pc.MaxCount {
		violations = append(violations, Violation{
			FocusNode: node, Path: pc.Path,
			Message: fmt.Sprintf("expected at most %d value(s), found %d", *pc.MaxCount, len(matches)),
		})
	}
	for _, m := range matches {
		if pc.Datatype != "" && m.Object.IsLiteral() && m.Object.Datatype != pc.Datatype {
			violations = append(violations, Violation{
				FocusNode: node, Path: pc.Path,
				Message: fmt.Sprintf("expected datatype %s, got %s", pc.Datatype, m.Object.Datatype),
			})
		}
		if pc.Class != "" {
			// Class membership is a direct rdf:type match on the value;
			// subclass reasoning is not applied.
			typed := false
			for _, t := range byNode[m.Object.Value] {
				if !m.Object.IsLiteral() && t.Predicate.Value == "http://www.w3.org/1999/02/22-rdf-syntax-ns#type" && t.Object.Value == pc.Class {
					typed = true
				}
			}
			if !typed {
				violations = append(violations, Violation{
					FocusNode: node, Path: pc.Path,
					Message: fmt.Sprintf("value %s is not typed as %s", m.Object, pc.Class),
				})
			}
		}
		if pc.Pattern != "" && m.Object.IsLiteral() {
			re, err := regexp.Compile(pc.Pattern)
			if err == nil && !re.MatchString(m.Object.Value) {
				violations = append(violations, Violation{
					FocusNode: node, Path: pc.Path,
					Message: fmt.Sprintf("value %q does not match pattern %q", m.Object.Value, pc.Pattern),
				})
			}
		}
	}
	return violations
}
