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

// Package hooks implements the reactive hook subsystem: the hook registry
// and ordering, sandboxed hook execution, the typed condition evaluator
// with its result cache, and the guard-severity vocabulary PRE hooks use
// to veto a mutation (components C6 through C9).
package hooks

import (
	"context"
	"time"

	"github.com/kraklabs/hwke/pkg/rdf"
)

// Phase selects whether a hook runs before or after a mutation commits.
type Phase string

const (
	PhasePre  Phase = "PRE"
	PhasePost Phase = "POST"
)

// Severity mirrors the guard severity vocabulary: a PRE hook that fails
// with HardBlock or SoftBlock aborts the mutation before it is ever
// applied to the store.
type Severity int

const (
	Suggestion Severity = iota
	Warning
	SoftBlock
	HardBlock
)

func (s Severity) String() string {
	switch s {
	case Suggestion:
		return "SUGGESTION"
	case Warning:
		return "WARNING"
	case SoftBlock:
		return "SOFT_BLOCK"
	case HardBlock:
		return "HARD_BLOCK"
	default:
		return "UNKNOWN"
	}
}

// SandboxLimits bounds what a hook handler is allowed to do while it runs.
// The Executor enforces Timeout only; MaxAdds and MaxReads are carried on
// the hook but not checked.
type SandboxLimits struct {
	Timeout  time.Duration
	MaxAdds  int // max triples the hook's own suggested delta may add
	MaxReads int // max store queries the hook may issue
}

// Hook is a registered reactive handler.
type Hook struct {
	ID       string
	Phase    Phase
	Priority int // higher runs first
	Severity Severity
	Cond     Condition
	Sandbox  SandboxLimits
	Handler  Handler
}

// HookContext is passed to a hook's Handler at execution time.
type HookContext struct {
	Ctx       context.Context
	Delta     DeltaView
	Actor     string
	StorePre  StoreView
	StorePost StoreView // nil for PRE hooks, populated for POST hooks
}

// DeltaView is the read-only view of a QuadDelta a hook sees. It is
// defined here (rather than imported from pkg/mutation) to keep hooks
// independent of the mutation engine; pkg/mutation's QuadDelta satisfies
// it directly.
type DeltaView interface {
	Additions() []rdf.Triple
	Removals() []rdf.Triple
}

// StoreView is the read-only query surface a hook may use; it deliberately
// excludes Add/Remove/Clear so a hook handler cannot mutate the store
// directly — its only way to affect state is its Result.
type StoreView interface {
	TripleCount() int
	All() []rdf.Triple
}

// HookResult is what a Handler returns.
type HookResult struct {
	Passed   bool
	Severity Severity
	Message  string
	Remedy   string
	Latency  time.Duration
}

// Handler is the hook handler ABI: a pure function from context to result.
// Handlers must not retain Ctx.Delta/StorePre/StorePost beyond the call.
type Handler func(HookContext) HookResult
