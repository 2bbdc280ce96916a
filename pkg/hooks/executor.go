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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kraklabs/hwke/pkg/rdf"
	"github.com/kraklabs/hwke/pkg/store"
)

// HookLatency observes wall-clock hook execution time in seconds, labeled
// by hook id and phase, so `hwke serve`'s /metrics endpoint can surface
// slow hooks. The condition cache exports no metrics.
var HookLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "hwke",
	Subsystem: "hooks",
	Name:      "latency_seconds",
	Help:      "Hook handler execution latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"hook_id", "phase"})

func init() {
	prometheus.MustRegister(HookLatency)
}

// Outcome is the aggregated result of running one phase's hooks.
type Outcome struct {
	Blocked bool
	Results map[string]HookResult
}

// Executor runs a registry's hooks in priority order, evaluating each
// hook's Condition first (skipping the handler entirely when the
// condition doesn't hold) and sandboxing the handler call with the hook's
// timeout.
type Executor struct {
	registry  *Registry
	evaluator *Evaluator
	log       *slog.Logger

	mu      sync.Mutex
	windows map[string]*slidingWindow
}

// NewExecutor builds an executor over registry, using evaluator for
// condition gating.
func NewExecutor(registry *Registry, evaluator *Evaluator, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{registry: registry, evaluator: evaluator, log: log, windows: make(map[string]*slidingWindow)}
}

// slidingWindow tracks, per hook id, how many matching triples were added
// in each of the last N Run invocations (the executor's notion of a
// "tick"), so a WINDOW condition can compare a moving sum against its
// threshold without the stateless Evaluator needing to know about ticks.
type slidingWindow struct {
	counts []int
	pos    int
}

func newSlidingWindow(size int) *slidingWindow {
	if size <= 0 {
		size = 1
	}
	return &slidingWindow{counts: make([]int, size)}
}

func (w *slidingWindow) push(n int) int {
	w.counts[w.pos] = n
	w.pos = (w.pos + 1) % len(w.counts)
	sum := 0
	for _, c := range w.counts {
		sum += c
	}
	return sum
}

func countMatchingPredicate(ts []rdf.Triple, predicate string) int {
	n := 0
	for _, t := range ts {
		if t.Predicate.Value == predicate {
			n++
		}
	}
	return n
}

// evalWindow advances h's sliding window by the additions in hctx.Delta
// that touch the condition's TargetPredicate, then compares the windowed
// sum to Threshold using Comparator.
func (e *Executor) evalWindow(h Hook, hctx HookContext) bool {
	e.mu.Lock()
	w, ok := e.windows[h.ID]
	if !ok {
		w = newSlidingWindow(h.Cond.WindowTicks)
		e.windows[h.ID] = w
	}
	e.mu.Unlock()

	n := 0
	if hctx.Delta != nil {
		n = countMatchingPredicate(hctx.Delta.Additions(), h.Cond.TargetPredicate)
	}
	sum := w.push(n)
	return compare(float64(sum), h.Cond.Comparator, h.Cond.Threshold)
}

// Run executes every hook of the given phase in priority order against
// hctx, short-circuiting PRE hooks on the first HardBlock (a SoftBlock
// does not short-circuit: every PRE hook still runs, matching the guard
// runner's "collect everything, then decide" behavior). POST hooks never
// short-circuit: every POST hook runs and a block is only recorded.
func (e *Executor) Run(phase Phase, g store.Store, storeVersion uint64, hctx HookContext) (Outcome, error) {
	outcome := Outcome{Results: make(map[string]HookResult)}
	for _, h := range e.registry.Ordered(phase) {
		var hold bool
		if h.Cond.Kind == ConditionWINDOW {
			hold = e.evalWindow(h, hctx)
		} else {
			var err error
			hold, err = e.evaluator.Eval(g, h.Cond, storeVersion, hctx.Delta)
			if err != nil {
				return outcome, fmt.Errorf("hooks: evaluate condition for %s: %w", h.ID, err)
			}
		}
		if !hold {
			continue
		}

		result := e.runSandboxed(h, hctx)
		outcome.Results[h.ID] = result
		HookLatency.WithLabelValues(h.ID, string(phase)).Observe(result.Latency.Seconds())

		if !result.Passed {
			switch result.Severity {
			case HardBlock:
				outcome.Blocked = true
				e.log.Warn("hook.guard.blocked", "hook", h.ID, "severity", result.Severity.String())
				if phase == PhasePre {
					return outcome, nil
				}
			case SoftBlock:
				outcome.Blocked = true
				e.log.Warn("hook.guard.blocked", "hook", h.ID, "severity", result.Severity.String())
			default:
				e.log.Info("hook.guard.advisory", "hook", h.ID, "severity", result.Severity.String())
			}
		}
	}
	return outcome, nil
}

// runSandboxed calls h.Handler with the hook's configured timeout. A
// handler that panics or times out is reported as a failed HardBlock
// result rather than propagating, so one misbehaving hook can never crash
// the mutation engine.
func (e *Executor) runSandboxed(h Hook, hctx HookContext) HookResult {
	timeout := h.Sandbox.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(hctx.Ctx, timeout)
	defer cancel()
	hctx.Ctx = ctx

	done := make(chan HookResult, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- HookResult{
					Passed:   false,
					Severity: HardBlock,
					Message:  fmt.Sprintf("hook panicked: %v", r),
				}
			}
		}()
		done <- h.Handler(hctx)
	}()

	select {
	case result := <-done:
		result.Latency = time.Since(start)
		return result
	case <-ctx.Done():
		return HookResult{
			Passed:   false,
			Severity: HardBlock,
			Message:  fmt.Sprintf("hook %s exceeded timeout %s", h.ID, timeout),
			Latency:  time.Since(start),
		}
	}
}
