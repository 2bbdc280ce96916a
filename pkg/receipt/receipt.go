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

// Package receipt implements the cryptographic receipt builder and the
// hash-chained lockchain (components C10 and C11). Hashing follows the
// same content-hash approach the teacher's ingestion pipeline uses for
// change detection (crypto/sha256 over a canonical byte form), applied
// here to triples instead of file contents.
package receipt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/kraklabs/hwke/pkg/rdf"
)

// Kind distinguishes a transaction receipt from a tick receipt; both flow
// through the same lockchain (§3: receipts are produced "per transaction
// and per tick").
type Kind string

const (
	KindMutation Kind = "MUTATION"
	KindTick     Kind = "TICK"
)

// ErrorKind enumerates the failure taxonomy surfaced in receipt.error
// (spec §7). It names a kind, not a Go type, so it serializes directly.
type ErrorKind string

const (
	ErrTopologyViolation ErrorKind = "TopologyViolation"
	ErrEmptyDelta        ErrorKind = "EmptyDelta"
	ErrParseError        ErrorKind = "ParseError"
	ErrUnsafeRuleError   ErrorKind = "UnsafeRuleError"
	ErrQueryError        ErrorKind = "QueryError"
	ErrGuardViolation    ErrorKind = "GuardViolation"
	ErrHookTimeout       ErrorKind = "HookTimeout"
	ErrSandboxBreach     ErrorKind = "SandboxBreach"
	ErrPostHookError     ErrorKind = "PostHookError"
	ErrStoreError        ErrorKind = "StoreError"
	ErrConvergenceError  ErrorKind = "ConvergenceError"
)

// SanitizedError is the error payload attached to a receipt: every field
// has already passed through the Error Sanitizer (C15), so a receipt never
// carries a raw stack trace or filesystem path.
type SanitizedError struct {
	Kind   ErrorKind `json:"kind"`
	HookID string    `json:"hook_id,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Receipt is the immutable, hashed record of one transaction or one tick.
// Callers of apply always receive a Receipt, never a bare error: Committed
// tells them whether state advanced (§7).
type Receipt struct {
	TxID         string          `json:"tx_id"`
	Kind         Kind            `json:"kind"`
	Actor        string          `json:"actor"`
	Timestamp    time.Time       `json:"timestamp"`
	Committed    bool            `json:"committed"`
	Error        *SanitizedError `json:"error,omitempty"`
	AddedCount   int             `json:"added_count"`
	RemovedCount int             `json:"removed_count"`
	PrevHash     string          `json:"prev_hash"`
	MerkleRoot   string          `json:"merkle_root"`
	LogicHash    string          `json:"logic_hash"`
	SelfHash     string          `json:"self_hash"`

	// Tick-only fields (Kind == KindTick); zero-valued for mutation receipts.
	TickNumber    uint64 `json:"tick_number,omitempty"`
	TriplesBefore int    `json:"triples_before,omitempty"`
	TriplesAfter  int    `json:"triples_after,omitempty"`
	DeltaTriples  int    `json:"delta_triples,omitempty"`
}

// sha256Hex hashes data and returns its lowercase hex digest, the same
// encoding the teacher's hash_delta.go uses for file content hashes.
func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// canon hashes the sorted, canonical form of a triple set. Sorting first
// makes the hash independent of insertion order: identical triple sets
// always hash identically regardless of how they were assembled.
func canon(triples []rdf.Triple) string {
	sorted := rdf.SortTriples(triples)
	var buf []byte
	for _, t := range sorted {
		buf = append(buf, []byte(rdf.Canonical(t))...)
		buf = append(buf, '\n')
	}
	return sha256Hex(buf)
}

// MerkleRoot computes H(prev_hash || "|" || H(canon(additions)) || "|" ||
// H(canon(removals))) per §4.8. Folding prev_hash into the hash is what
// makes the lockchain an actual hash chain rather than a sequence of
// independently-hashed deltas: invariant 1 requires
// receipts[i].prev_hash == receipts[i-1].merkle_root.
func MerkleRoot(prevHash string, additions, removals []rdf.Triple) string {
	input := strings.Join([]string{prevHash, canon(additions), canon(removals)}, "|")
	return sha256Hex([]byte(input))
}

// LogicHash computes H(sorted (id, mode, priority) of hooks) from the
// pre-sorted tuple strings a Registry produces. It is exported as a free
// function (rather than only a Registry method) so tick receipts, which
// have no QuadDelta but still embed the active hook set's logic hash, can
// reuse the exact same tuple-hashing rule.
func LogicHash(sortedTuples []string) string {
	return sha256Hex([]byte(strings.Join(sortedTuples, "\n")))
}

// Build computes a Receipt for one Apply call. prevHash is the lockchain
// tip at the time apply began; logicHash is the registry's current
// Registry.LogicHash(). committed and recErr classify the outcome per the
// error taxonomy in §7 — recErr is nil on a successful commit.
func Build(txID, actor string, added, removed []rdf.Triple, logicHash, prevHash string, committed bool, recErr *SanitizedError) Receipt {
	r := Receipt{
		TxID:         txID,
		Kind:         KindMutation,
		Actor:        actor,
		Timestamp:    time.Now().UTC(),
		Committed:    committed,
		Error:        recErr,
		AddedCount:   len(added),
		RemovedCount: len(removed),
		PrevHash:     prevHash,
		LogicHash:    logicHash,
	}
	r.MerkleRoot = MerkleRoot(prevHash, added, removed)
	r.SelfHash = selfHash(r)
	return r
}

// BuildTick computes a Receipt for one reasoning tick. Ticks never remove
// triples (invariant I1), so the removals side of merkle_root is always
// over an empty set.
func BuildTick(txID string, tickNumber uint64, before, after int, added []rdf.Triple, logicHash, prevHash string) Receipt {
	r := Receipt{
		TxID:          txID,
		Kind:          KindTick,
		Actor:         "reasoning",
		Timestamp:     time.Now().UTC(),
		Committed:     true,
		AddedCount:    len(added),
		PrevHash:      prevHash,
		LogicHash:     logicHash,
		TickNumber:    tickNumber,
		TriplesBefore: before,
		TriplesAfter:  after,
		DeltaTriples:  after - before,
	}
	r.MerkleRoot = MerkleRoot(prevHash, added, nil)
	r.SelfHash = selfHash(r)
	return r
}

// selfHash is the receipt's own content hash: everything except SelfHash
// itself, so the receipt is self-verifying without being self-referential.
func selfHash(r Receipt) string {
	r.SelfHash = ""
	data, _ := json.Marshal(r)
	return sha256Hex(data)
}

// CanonicalJSON renders r as JSON with object keys sorted at every level,
// the fixed wire form of each chain.log record. Two processes always
// produce byte-identical output for the same Receipt value. (The next
// receipt's prev_hash is this receipt's MerkleRoot, not a hash of this
// form.)
func (r Receipt) CanonicalJSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
