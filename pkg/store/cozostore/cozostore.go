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

//go:build cozo

// Package cozostore is a persistent Graph Store backend on top of an
// embedded CozoDB instance (pkg/cozodb). It exists to prove the Graph
// Store contract is genuinely pluggable, the way storage.EmbeddedBackend
// gave the code-intelligence schema a consumer. Triples are persisted in a
// CozoDB relation; Select, Ask and Construct run pkg/sparql's evaluator
// over the triples read back from it (queries are not compiled to
// CozoScript).
// Build with `-tags cozo`; it requires the vendored libcozo_c static
// library that pkg/cozodb's cgo preamble links against, so it is never
// built by default (see pkg/store/memstore for the default backend).
package cozostore

import (
	"fmt"
	"strings"
	"sync"

	cozo "github.com/kraklabs/hwke/pkg/cozodb"
	"github.com/kraklabs/hwke/pkg/n3"
	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/sparql"
	"github.com/kraklabs/hwke/pkg/store"
)

const triplesRelation = "hwke_triple"

// Store adapts a CozoDB instance to the store.Store contract. Quads land
// as rows of a single `hwke_triple` relation keyed by their canonical
// string form, mirroring storage.EmbeddedBackend's `cie_*` relation
// layout but collapsed to the one table this domain actually needs.
type Store struct {
	mu sync.RWMutex
	db cozo.CozoDB
}

// Config configures the embedded CozoDB instance.
type Config struct {
	// Engine selects CozoDB's storage engine: "mem", "sqlite", or "rocksdb".
	Engine string
	// Path is the on-disk location; ignored for the "mem" engine.
	Path string
}

// Open creates (or reopens) a CozoDB-backed store and ensures its schema.
func Open(cfg Config) (*Store, error) {
	engine := cfg.Engine
	if engine == "" {
		engine = "mem"
	}
	db, err := cozo.New(engine, cfg.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("cozostore: open: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Run(fmt.Sprintf(
		`:create %s { canon: String => subject: String, predicate: String, object: String }`,
		triplesRelation), nil)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("cozostore: create schema: %w", err)
	}
	return nil
}

func (s *Store) Add(t rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	params := map[string]any{
		"canon": rdf.Canonical(t),
		"s":     t.Subject.String(),
		"p":     t.Predicate.String(),
		"o":     t.Object.String(),
	}
	script := fmt.Sprintf(
		`?[canon, subject, predicate, object] <- [[$canon, $s, $p, $o]] :put %s { canon => subject, predicate, object }`,
		triplesRelation)
	_, err := s.db.Run(script, params)
	return err
}

func (s *Store) Remove(t rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	params := map[string]any{"canon": rdf.Canonical(t)}
	script := fmt.Sprintf(`?[canon] <- [[$canon]] :rm %s { canon }`, triplesRelation)
	_, err := s.db.Run(script, params)
	return err
}

func (s *Store) TripleCount() int {
	return len(s.All())
}

func (s *Store) All() []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	script := fmt.Sprintf(`?[subject, predicate, object] := *%s { subject, predicate, object }`, triplesRelation)
	rows, err := s.db.RunReadOnly(script, nil)
	if err != nil {
		return nil
	}
	return decodeRows(rows)
}

// decodeRows re-parses the surface-form S/P/O strings back into rdf.Terms.
// CozoDB only stores strings; the round trip goes through the same surface
// syntax Term.String produces, parsed with the Turtle term grammar.
func decodeRows(rows cozo.NamedRows) []rdf.Triple {
	var out []rdf.Triple
	for _, row := range rows.Rows {
		if len(row) != 3 {
			continue
		}
		s, err1 := n3.ParseTermSurface(fmt.Sprint(row[0]))
		p, err2 := n3.ParseTermSurface(fmt.Sprint(row[1]))
		o, err3 := n3.ParseTermSurface(fmt.Sprint(row[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		out = append(out, rdf.Triple{Subject: s, Predicate: p, Object: o})
	}
	return out
}

func (s *Store) Select(q *sparql.Query) ([][]rdf.Term, error) {
	bindings, err := sparql.Eval(s.All(), q)
	if err != nil {
		return nil, err
	}
	return sparql.ProjectRows(bindings, q.Vars), nil
}

func (s *Store) Ask(q *sparql.Query) (bool, error) {
	bindings, err := sparql.Eval(s.All(), q)
	if err != nil {
		return false, err
	}
	return len(bindings) > 0, nil
}

func (s *Store) Construct(q *sparql.Query) ([]rdf.Triple, error) {
	bindings, err := sparql.Eval(s.All(), q)
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
	for _, t := range triples {
		if err := s.Add(t); err != nil {
			return 0, err
		}
	}
	return len(triples), nil
}

func (s *Store) DumpTurtle() string {
	var sb strings.Builder
	for _, t := range rdf.SortTriples(s.All()) {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.db.Run(fmt.Sprintf(`?[canon] := *%s{canon} :rm %s {canon}`, triplesRelation, triplesRelation), nil)
}

// Snapshot copies All() into an in-process map keyed by token, and
// Rollback clears the relation and re-adds the copied triples; CozoDB's
// export/import is not used. The store holds one graph at a time during
// an Apply transaction.
type snapshotData struct {
	triples []rdf.Triple
}

var (
	snapMu   sync.Mutex
	snapNext store.Snapshot
	snaps    = map[store.Snapshot]*snapshotData{}
)

func (s *Store) Snapshot() store.Snapshot {
	snapMu.Lock()
	defer snapMu.Unlock()
	snapNext++
	snaps[snapNext] = &snapshotData{triples: s.All()}
	return snapNext
}

func (s *Store) Rollback(snap store.Snapshot) error {
	snapMu.Lock()
	data, ok := snaps[snap]
	if ok {
		delete(snaps, snap)
	}
	snapMu.Unlock()
	if !ok {
		return store.ErrSnapshotNotFound
	}
	s.Clear()
	for _, t := range data.triples {
		if err := s.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying CozoDB handle.
func (s *Store) Close() { s.db.Close() }
