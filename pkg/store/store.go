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

// Package store defines the Graph Store contract (component C1). The
// default in-memory implementation lives in pkg/store/memstore; a second,
// persistent implementation
// backed by an embedded Datalog engine lives in pkg/store/cozostore under
// the "cozo" build tag.
package store

import (
	"errors"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/sparql"
)

// ErrSnapshotNotFound is returned by Rollback when given an unknown token.
var ErrSnapshotNotFound = errors.New("store: snapshot not found")

// Snapshot identifies a point the store can be rolled back to. It is an
// opaque token from the caller's perspective.
type Snapshot uint64

// Store is the Graph Store contract. All mutation and reasoning components
// depend on this interface, never on a concrete backend, so the Atman
// Mutation Engine and the convergence runner work unchanged against either
// the in-memory or the cozo-backed implementation.
type Store interface {
	// Add inserts a triple into the default graph. A no-op if already
	// present (RDF set semantics).
	Add(t rdf.Triple) error
	// Remove deletes a triple from the default graph. A no-op if absent.
	Remove(t rdf.Triple) error
	// TripleCount reports the number of distinct triples currently stored.
	TripleCount() int
	// All returns every stored triple. Used by the SPARQL-subset evaluator
	// and by receipt/dump canonicalization.
	All() []rdf.Triple

	// Select evaluates a SELECT query and returns projected rows.
	Select(q *sparql.Query) ([][]rdf.Term, error)
	// Ask evaluates an ASK query.
	Ask(q *sparql.Query) (bool, error)
	// Construct evaluates a CONSTRUCT query and returns the generated
	// triples (not added to the store).
	Construct(q *sparql.Query) ([]rdf.Triple, error)

	// LoadTurtle parses and bulk-loads a Turtle document into the default
	// graph (component C2's topology ingest path).
	LoadTurtle(src string) (int, error)
	// DumpTurtle serializes the current default graph back to Turtle-like
	// surface syntax (debugging / `hwke inspect --dump`).
	DumpTurtle() string

	// Clear removes every triple.
	Clear()

	// Snapshot captures the current state for later Rollback, used by the
	// Atman Mutation Engine's apply/rollback transaction boundary.
	Snapshot() Snapshot
	// Rollback restores the state captured by a prior Snapshot call,
	// discarding the snapshot afterwards.
	Rollback(s Snapshot) error
}
