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

// Package sparql implements exactly the SPARQL subset the engine itself
// issues: basic graph pattern SELECT/ASK/CONSTRUCT over triple patterns,
// an optional single regex FILTER, and LIMIT. It is not a general SPARQL
// 1.1 engine — the spec treats full SPARQL/SHACL evaluation as an external
// black box, and this package is the narrow slice that stands in for it
// when no external engine is configured. Unsupported syntax is reported as
// a *QueryError, never silently ignored.
package sparql

import "github.com/kraklabs/hwke/pkg/rdf"

// Form is the SPARQL query form.
type Form uint8

const (
	Select Form = iota
	Ask
	Construct
)

// Filter is a single post-join regex filter applied to one variable's
// bound term Value: the IRI, the blank node label, or the literal's
// lexical form.
type Filter struct {
	Var     string
	Pattern string
}

// Query is a parsed basic graph pattern query.
type Query struct {
	Form       Form
	Vars       []string     // SELECT projection; ignored for ASK/CONSTRUCT
	Where      []rdf.Triple // patterns, terms may be Variable
	Construct  []rdf.Triple // CONSTRUCT template, only set when Form == Construct
	Filter     *Filter
	Limit      int // 0 means unbounded
}

// QueryError reports a parse or compile failure in query text.
type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string { return "sparql: " + e.Msg }
