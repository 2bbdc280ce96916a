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

package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/sparql"
)

func TestAddRemoveIsIdempotent(t *testing.T) {
	s := New()
	tr := rdf.Triple{
		Subject:   rdf.NewIRI("urn:a"),
		Predicate: rdf.NewIRI("urn:p"),
		Object:    rdf.NewIRI("urn:b"),
	}
	require.NoError(t, s.Add(tr))
	require.NoError(t, s.Add(tr))
	assert.Equal(t, 1, s.TripleCount())

	require.NoError(t, s.Remove(tr))
	assert.Equal(t, 0, s.TripleCount())
	require.NoError(t, s.Remove(tr))
	assert.Equal(t, 0, s.TripleCount())
}

func TestLoadTurtleAndSelect(t *testing.T) {
	s := New()
	n, err := s.LoadTurtle(`
		@prefix ex: <urn:ex:> .
		ex:alice ex:knows ex:bob .
		ex:bob ex:knows ex:carol .
	`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	q, err := sparql.Parse(`SELECT ?who WHERE { <urn:ex:alice> <urn:ex:knows> ?who . }`)
	require.NoError(t, err)
	rows, err := s.Select(q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "urn:ex:bob", rows[0][0].Value)
}

func TestAskAndConstruct(t *testing.T) {
	s := New()
	_, err := s.LoadTurtle(`<urn:a> <urn:p> <urn:b> .`)
	require.NoError(t, err)

	ask, err := sparql.Parse(`ASK WHERE { <urn:a> <urn:p> <urn:b> . }`)
	require.NoError(t, err)
	ok, err := s.Ask(ask)
	require.NoError(t, err)
	assert.True(t, ok)

	construct, err := sparql.Parse(`CONSTRUCT { ?s <urn:inferred> ?o . } WHERE { ?s <urn:p> ?o . }`)
	require.NoError(t, err)
	triples, err := s.Construct(construct)
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "urn:inferred", triples[0].Predicate.Value)
}

func TestSnapshotRollback(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(rdf.Triple{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}))
	snap := s.Snapshot()

	require.NoError(t, s.Add(rdf.Triple{Subject: rdf.NewIRI("c"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("d")}))
	assert.Equal(t, 2, s.TripleCount())

	require.NoError(t, s.Rollback(snap))
	assert.Equal(t, 1, s.TripleCount())
}
