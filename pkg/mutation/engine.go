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

package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kraklabs/hwke/pkg/hooks"
	"github.com/kraklabs/hwke/pkg/receipt"
	"github.com/kraklabs/hwke/pkg/store"
)

// CommitsTotal and AbortsTotal count mutation outcomes for /metrics.
var (
	CommitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hwke", Subsystem: "mutation", Name: "commits_total",
		Help: "Number of QuadDelta applications that committed successfully.",
	})
	AbortsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hwke", Subsystem: "mutation", Name: "aborts_total",
		Help: "Number of QuadDelta applications that aborted, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(CommitsTotal, AbortsTotal)
}

// Engine is the Atman Mutation Engine: the sole entry point through which
// the store's contents may change, guarded by PRE/POST hooks and recorded
// as a hash-chained Receipt. A single Engine instance serializes all
// Apply calls (the spec's single-writer concurrency model).
type Engine struct {
	mu         sync.Mutex
	store      store.Store
	registry   *hooks.Registry
	evaluator  *hooks.Evaluator
	executor   *hooks.Executor
	lockchain  *receipt.Lockchain
	batchLimit int
	version    atomic.Uint64
	log        *slog.Logger
}

// Config configures an Engine.
type Config struct {
	Store      store.Store
	Registry   *hooks.Registry
	Evaluator  *hooks.Evaluator
	Lockchain  *receipt.Lockchain
	BatchLimit int
	Log        *slog.Logger
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		store:      cfg.Store,
		registry:   cfg.Registry,
		evaluator:  cfg.Evaluator,
		lockchain:  cfg.Lockchain,
		batchLimit: cfg.BatchLimit,
		log:        log,
	}
	e.executor = hooks.NewExecutor(cfg.Registry, cfg.Evaluator, log)
	return e
}

// AbortReason classifies why Apply failed, for metrics and sanitized
// error reporting (component C15 consumes this).
type AbortReason string

const (
	AbortValidation AbortReason = "validation"
	AbortEmptyDelta AbortReason = "empty_delta"
	AbortPreHook    AbortReason = "pre_hook_block"
	AbortCommit     AbortReason = "commit_error"
	AbortChainFork  AbortReason = "chain_fork"
)

// Error wraps an aborted Apply call with its AbortReason. A non-nil Error
// is always returned alongside a fully-populated, Committed==false Receipt
// (§7): callers that only check the Go error still see the abort reason;
// callers that inspect the Receipt see the same information in
// receipt.error.kind.
type Error struct {
	Reason AbortReason
	Err    error
}

func (e *Error) Error() string { return fmt.Sprintf("mutation: %s: %v", e.Reason, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Apply runs the full commit pipeline for delta:
//
//  1. reject an empty delta or one over the batch limit before touching
//     anything, returning a receipt with committed=false
//  2. snapshot the store so a failed store write or a lockchain fork can
//     roll back cleanly (a PRE-hook abort returns before any write)
//  3. run PRE hooks; a HardBlock or SoftBlock aborts here
//  4. apply removals, then additions, to the store
//  5. run POST hooks against the new state — POST hooks are observers:
//     their failure is recorded on the receipt but never rolls back the
//     commit
//  6. build the Receipt from the delta, the registry's current logic hash,
//     and any POST-hook failure
//  7. append the Receipt to the lockchain, detecting concurrent forks
//  8. advance the engine's logical store version (used by the condition
//     cache and by inspect_state)
//  9. return the Receipt
func (e *Engine) Apply(ctx context.Context, delta QuadDelta, actor string) (receipt.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txID := uuid.NewString()
	prevHash := e.lockchain.Tip()
	logicHash := e.registry.LogicHash()

	if delta.Size() == 0 {
		AbortsTotal.WithLabelValues(string(AbortEmptyDelta)).Inc()
		r := receipt.Build(txID, actor, nil, nil, logicHash, prevHash, false, &receipt.SanitizedError{Kind: receipt.ErrEmptyDelta})
		return r, &Error{Reason: AbortEmptyDelta, Err: fmt.Errorf("mutation: delta must contain at least one addition or removal")}
	}

	if err := delta.Validate(e.batchLimit); err != nil {
		AbortsTotal.WithLabelValues(string(AbortValidation)).Inc()
		r := receipt.Build(txID, actor, delta.Adds, delta.Rems, logicHash, prevHash, false, &receipt.SanitizedError{Kind: receipt.ErrTopologyViolation, Reason: err.Error()})
		return r, &Error{Reason: AbortValidation, Err: err}
	}

	snap := e.store.Snapshot()
	version := e.version.Load()

	preOutcome, err := e.executor.Run(hooks.PhasePre, e.store, version, hooks.HookContext{
		Ctx: ctx, Delta: delta, Actor: actor, StorePre: e.store,
	})
	if err != nil {
		AbortsTotal.WithLabelValues(string(AbortPreHook)).Inc()
		r := receipt.Build(txID, actor, delta.Adds, delta.Rems, logicHash, prevHash, false, &receipt.SanitizedError{Kind: receipt.ErrQueryError, Reason: err.Error()})
		return r, &Error{Reason: AbortPreHook, Err: err}
	}
	if preOutcome.Blocked {
		AbortsTotal.WithLabelValues(string(AbortPreHook)).Inc()
		blockedBy := blockingHookID(preOutcome)
		r := receipt.Build(txID, actor, delta.Adds, delta.Rems, logicHash, prevHash, false, &receipt.SanitizedError{Kind: receipt.ErrGuardViolation, HookID: blockedBy})
		return r, &Error{Reason: AbortPreHook, Err: fmt.Errorf("blocked by PRE hook guard %q", blockedBy)}
	}

	for _, t := range delta.Rems {
		if err := e.store.Remove(t); err != nil {
			e.rollback(snap, AbortCommit)
			r := receipt.Build(txID, actor, delta.Adds, delta.Rems, logicHash, prevHash, false, &receipt.SanitizedError{Kind: receipt.ErrStoreError, Reason: err.Error()})
			return r, &Error{Reason: AbortCommit, Err: err}
		}
	}
	for _, t := range delta.Adds {
		if err := e.store.Add(t); err != nil {
			e.rollback(snap, AbortCommit)
			r := receipt.Build(txID, actor, delta.Adds, delta.Rems, logicHash, prevHash, false, &receipt.SanitizedError{Kind: receipt.ErrStoreError, Reason: err.Error()})
			return r, &Error{Reason: AbortCommit, Err: err}
		}
	}

	// POST hooks are side-effect observers (§4.9 step 8, §7 PostHookError):
	// their failure is recorded on the receipt but the commit already made
	// above is never rolled back.
	postOutcome, postErr := e.executor.Run(hooks.PhasePost, e.store, version+1, hooks.HookContext{
		Ctx: ctx, Delta: delta, Actor: actor, StorePre: e.store, StorePost: e.store,
	})
	var postFailure *receipt.SanitizedError
	switch {
	case postErr != nil:
		postFailure = &receipt.SanitizedError{Kind: receipt.ErrPostHookError, Reason: postErr.Error()}
		e.log.Warn("mutation.post_hook.failed", "actor", actor, "error", postErr)
	case postOutcome.Blocked:
		hookID := blockingHookID(postOutcome)
		postFailure = &receipt.SanitizedError{Kind: receipt.ErrPostHookError, HookID: hookID}
		e.log.Warn("mutation.post_hook.failed", "actor", actor, "hook", hookID)
	}

	r := receipt.Build(txID, actor, delta.Adds, delta.Rems, logicHash, prevHash, true, postFailure)
	if err := e.lockchain.Append(r); err != nil {
		e.rollback(snap, AbortChainFork)
		r.Committed = false
		r.Error = &receipt.SanitizedError{Kind: receipt.ErrStoreError, Reason: err.Error()}
		return r, &Error{Reason: AbortChainFork, Err: err}
	}

	e.version.Add(1)
	CommitsTotal.Inc()
	e.log.Info("mutation.apply.commit", "actor", actor, "added", len(delta.Adds), "removed", len(delta.Rems), "merkle_root", r.MerkleRoot)
	return r, nil
}

func (e *Engine) rollback(snap store.Snapshot, reason AbortReason) {
	if err := e.store.Rollback(snap); err != nil {
		e.log.Error("mutation.rollback.failed", "error", err)
	}
	AbortsTotal.WithLabelValues(string(reason)).Inc()
}

// blockingHookID returns the id of the first hook in outcome whose result
// carried a HardBlock or SoftBlock severity, for GuardViolation(hook_id)
// and PostHookError(hook_id) reporting. Map iteration order is randomized,
// so on the rare case of multiple simultaneous blockers this picks one
// deterministically by id.
func blockingHookID(outcome hooks.Outcome) string {
	var id string
	for hookID, result := range outcome.Results {
		if result.Passed {
			continue
		}
		if result.Severity != hooks.HardBlock && result.Severity != hooks.SoftBlock {
			continue
		}
		if id == "" || hookID < id {
			id = hookID
		}
	}
	return id
}
