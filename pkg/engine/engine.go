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

// Package engine implements the Hybrid Facade (component C13): the single
// entry point composing the graph store, the reasoning loop, the hook
// registry/executor, and the Atman Mutation Engine into the operations
// `cmd/hwke` and embedding callers actually use.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kraklabs/hwke/pkg/hooks"
	"github.com/kraklabs/hwke/pkg/mutation"
	"github.com/kraklabs/hwke/pkg/reasoning"
	"github.com/kraklabs/hwke/pkg/receipt"
	"github.com/kraklabs/hwke/pkg/status"
	"github.com/kraklabs/hwke/pkg/store"
)

// Engine composes the full hybrid workflow/knowledge stack over a single
// Store. It is not safe for concurrent Apply calls from outside its own
// serialization (the underlying mutation.Engine already serializes
// Apply); Tick/RunToCompletion are expected to run single-threaded between
// Apply calls, matching the spec's "reasoning and mutation never
// interleave concurrently" assumption.
type Engine struct {
	store      store.Store
	registry   *hooks.Registry
	evaluator  *hooks.Evaluator
	mutator    *mutation.Engine
	inspector  *status.Inspector
	lockchain  *receipt.Lockchain
	rules      []reasoning.CompiledRule
	strict     bool
	tickNumber uint64
	log        *slog.Logger
}

// Config configures a new Engine.
type Config struct {
	Store      store.Store
	Lockchain  *receipt.Lockchain
	BatchLimit int
	CacheCap   int
	CacheTTLMS int
	// StrictTick, when true, turns a tick that recorded any rule failure
	// into an error from RunToCompletion instead of a best-effort partial
	// result (config.EngineConfig.StrictTick, spec §3.3).
	StrictTick bool
	Log        *slog.Logger
}

// New builds an Engine with a fresh hook registry and condition evaluator.
func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	registry := hooks.NewRegistry()
	evaluator := hooks.NewEvaluator(cfg.CacheCap, cfg.CacheTTLMS)
	mutator := mutation.New(mutation.Config{
		Store: cfg.Store, Registry: registry, Evaluator: evaluator,
		Lockchain: cfg.Lockchain, BatchLimit: cfg.BatchLimit, Log: log,
	})
	return &Engine{
		store: cfg.Store, registry: registry, evaluator: evaluator,
		mutator: mutator, inspector: status.New(), lockchain: cfg.Lockchain,
		strict: cfg.StrictTick, log: log,
	}
}

// LoadOntology compiles an N3 implication document into rules and installs
// them as the engine's active rule set, replacing any previously loaded
// rules.
func (e *Engine) LoadOntology(src string) (int, error) {
	rules, err := reasoning.LoadOntology(src)
	if err != nil {
		return 0, fmt.Errorf("engine: load ontology: %w", err)
	}
	e.rules = rules
	return len(rules), nil
}

// LoadTopology bulk-loads a Turtle document (the concrete facts the rules
// reason over) into the default graph, returning the number of triples
// added.
func (e *Engine) LoadTopology(src string) (int, error) {
	n, err := e.store.LoadTurtle(src)
	if err != nil {
		return 0, fmt.Errorf("engine: load topology: %w", err)
	}
	return n, nil
}

// Tick runs a single evaluation pass over the loaded rule set and appends a
// TICK-kind receipt to the lockchain recording the triple counts before and
// after (§3, §4.8: receipts are produced per transaction and per tick).
func (e *Engine) Tick() (reasoning.TickResult, error) {
	result := reasoning.Tick(e.store, e.rules, e.log)
	e.recordTickReceipt(result)
	return result, nil
}

// RunToCompletion runs ticks until a fixed point or maxTicks is exhausted,
// appending one TICK receipt per tick. If the engine is configured strict
// (EngineConfig.StrictTick, §3.3) and any tick recorded a rule failure, the
// accumulated failures are surfaced as an error once the run finishes.
func (e *Engine) RunToCompletion(maxTicks int) ([]reasoning.TickResult, error) {
	history, err := reasoning.RunToCompletion(e.store, e.rules, maxTicks, e.strict, e.log)
	for _, result := range history {
		e.recordTickReceipt(result)
	}
	return history, err
}

// recordTickReceipt builds and appends a TICK receipt for a completed tick.
// A tick that produced no new triples still advances tickNumber and is
// still recorded, so the chain reflects every reasoning pass attempted.
func (e *Engine) recordTickReceipt(result reasoning.TickResult) {
	e.tickNumber++
	r := receipt.BuildTick(uuid.NewString(), e.tickNumber, result.Before, result.After, result.Added, e.registry.LogicHash(), e.lockchain.Tip())
	if err := e.lockchain.Append(r); err != nil {
		e.log.Error("engine.tick.receipt_append_failed", "tick", e.tickNumber, "error", err)
	}
}

// InspectState resolves the effective status of every task IRI in the
// store under the Status Inspector's priority order.
func (e *Engine) InspectState() map[string]status.TaskStatus {
	return e.inspector.InspectState(e.store)
}

// GetActiveTasks returns the set of task IRIs currently resolved to the
// Active status.
func (e *Engine) GetActiveTasks() map[string]struct{} {
	return e.inspector.GetActiveTasks(e.store)
}

// Apply runs a guarded, hash-chained mutation through the Atman Mutation
// Engine.
func (e *Engine) Apply(ctx context.Context, delta mutation.QuadDelta, actor string) (receipt.Receipt, error) {
	return e.mutator.Apply(ctx, delta, actor)
}

// RegisterHook installs h into the engine's hook registry.
func (e *Engine) RegisterHook(h hooks.Hook) error {
	return e.registry.Register(h)
}

// UnregisterHook removes a previously registered hook by id, a no-op if
// the id is not present.
func (e *Engine) UnregisterHook(id string) {
	e.registry.Unregister(id)
}

// Store exposes the underlying graph store for read-only paths such as
// `hwke inspect --dump` and triple counts.
func (e *Engine) Store() store.Store { return e.store }

// Registry exposes the hook registry for introspection (`hwke hooks`).
func (e *Engine) Registry() *hooks.Registry { return e.registry }
