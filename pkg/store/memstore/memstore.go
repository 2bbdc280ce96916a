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

// Package memstore is the default, dependency-free Graph Store backend: an
// in-process triple set whose snapshots are full copies. It requires no
// external engine to build or run, which keeps a fresh checkout of the
// module runnable without a vendored native library.
package memstore

import (
	"strings"
	"sync"

	"github.com/kraklabs/hwke/pkg/n3"
	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/sparql"
	"github.com/kraklabs/hwke/pkg/store"
)

// Store is an in-memory Store implementation guarded by a single mutex.
// The spec's concurrency model (C1) calls for a single-writer, multi-reader
// store; RWMutex gives readers (Select/Ask) concurrent access while Add/
// Remove/Rollback serialize.
type Store struct {
	mu       sync.RWMutex
	triples  map[string]rdf.Triple // canonical string -> triple
	snapshots map[store.Snapshot]map[string]rdf.Triple
	nextSnap store.Snapshot
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{triples: make(map[string]rdf.Triple)}
}

func (s *Store) Add(t rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples[rdf.Canonical(t)] = t
	return nil
}

func (s *Store) Remove(t rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.triples, rdf.Canonical(t))
	return nil
}

func (s *Store) TripleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples)
}

func (s *Store) All() []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rdf.Triple, 0, len(s.triples))
	for _, t := range s.triples {
		out = append(out, t)
	}
	return rdf.SortTriples(out)
}

func (s *Store) Select(q *sparql.Query) ([][]rdf.Term, error) {
	universe := s.All()
	bindings, err := sparql.Eval(universe, q)
	if err != nil {
		return nil, err
	}
	return sparql.ProjectRows(bindings, q.Vars), nil
}

func (s *Store) Ask(q *sparql.Query) (bool, error) {
	universe := s.All()
	bindings, err := sparql.Eval(universe, q)
	if err != nil {
		return false, err
	}
	return len(bindings) > 0, nil
}

func (s *Store) Construct(q *sparql.Query) ([]rdf.Triple, error) {
	universe := s.All()
	bindings, err := sparql.Eval(universe, q)
	if err != nil {
		return nil, err
	}
	return sparql.Instantiate(q.Construct, bindings), nil
}

func (s *Store) LoadTurtle(src string) (int, error) {
	triples, err := n3.LoadTurtle(src)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range triples {
		s.triples[rdf.Canonical(t)] = t
	}
	return len(triples), nil
}

func (s *Store) DumpTurtle() string {
	all := s.All()
	var sb strings.Builder
	for _, t := range all {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = make(map[string]rdf.Triple)
}

func (s *Store) Snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshots == nil {
		s.snapshots = make(map[store.Snapshot]map[string]rdf.Triple)
	}
	s.nextSnap++
	copied := make(map[string]rdf.Triple, len(s.triples))
	for k, v := range s.triples {
		copied[k] = v
	}
	s.snapshots[s.nextSnap] = copied
	return s.nextSnap
}

func (s *Store) Rollback(snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, ok := s.snapshots[snap]
	if !ok {
		return store.ErrSnapshotNotFound
	}
	s.triples = saved
	delete(s.snapshots, snap)
	return nil
}
