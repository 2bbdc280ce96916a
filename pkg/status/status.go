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

// Package status implements the Status Inspector (component C14): a
// priority-ranked resolution over workflow task status triples. Because
// the reasoning loop only ever adds triples, a single task IRI may end up
// with several coexisting ":status" literals over its lifetime (e.g. both
// "pending" and "active"). The inspector exposes the *effective* current
// status without requiring retraction, by picking the highest-priority
// literal present for each task.
package status

import (
	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/store"
)

// DefaultPredicate is the status predicate used when the caller does not
// supply one explicitly.
const DefaultPredicate = "http://kraklabs.com/hwke/ns#status"

// TaskStatus is one of the totally-ordered workflow status values. The
// zero value, Unknown, never appears as a stored literal and ranks below
// every named status.
type TaskStatus string

const (
	Cancelled TaskStatus = "cancelled"
	Completed TaskStatus = "completed"
	Active    TaskStatus = "active"
	Waiting   TaskStatus = "waiting"
	Blocked   TaskStatus = "blocked"
	Pending   TaskStatus = "pending"
	Archived  TaskStatus = "archived"
	Unknown   TaskStatus = ""
)

// DefaultPriority is the default high-to-low TaskStatus order: Cancelled
// beats Completed beats Active beats Waiting beats Blocked beats Pending
// beats Archived. A status absent from this slice ranks below everything
// present in it.
var DefaultPriority = []TaskStatus{Cancelled, Completed, Active, Waiting, Blocked, Pending, Archived}

// rank returns the index of s within order (lower index = higher
// priority); unknown statuses rank after every named one.
func rank(order []TaskStatus, s TaskStatus) int {
	for i, v := range order {
		if v == s {
			return i
		}
	}
	return len(order)
}

// Inspector resolves effective task status from a store's raw status
// triples under a configurable priority order and predicate.
type Inspector struct {
	Predicate string
	Priority  []TaskStatus
}

// New builds an Inspector using the default predicate and priority order.
func New() *Inspector {
	return &Inspector{Predicate: DefaultPredicate, Priority: DefaultPriority}
}

// InspectState scans g for every triple whose predicate is the
// inspector's status predicate, groups the literals by subject, and
// resolves each subject to its single highest-priority status. Subjects
// with only statuses absent from the priority order keep whichever one
// was seen first (stable, deterministic given SortTriples ordering).
func (in *Inspector) InspectState(g store.Store) map[string]TaskStatus {
	order := in.Priority
	if order == nil {
		order = DefaultPriority
	}
	pred := in.Predicate
	if pred == "" {
		pred = DefaultPredicate
	}

	best := make(map[string]TaskStatus)
	bestRank := make(map[string]int)
	for _, t := range rdf.SortTriples(g.All()) {
		if t.Predicate.Value != pred || !t.Predicate.IsIRI() {
			continue
		}
		subj := t.Subject.Value
		cand := TaskStatus(t.Object.Value)
		r := rank(order, cand)
		if cur, ok := bestRank[subj]; !ok || r < cur {
			best[subj] = cand
			bestRank[subj] = r
		}
	}
	return best
}

// GetActiveTasks returns the set of task IRIs whose resolved status is
// Active.
func (in *Inspector) GetActiveTasks(g store.Store) map[string]struct{} {
	active := make(map[string]struct{})
	for subj, st := range in.InspectState(g) {
		if st == Active {
			active[subj] = struct{}{}
		}
	}
	return active
}
