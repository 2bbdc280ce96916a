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

package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/hwke/pkg/rdf"
)

func TestBuildIsDeterministic(t *testing.T) {
	added := []rdf.Triple{{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}}
	r1 := Build("tx-1", "alice", added, nil, "logic-1", GenesisHash, true, nil)
	r2 := Build("tx-2", "alice", added, nil, "logic-1", GenesisHash, true, nil)
	assert.Equal(t, r1.MerkleRoot, r2.MerkleRoot)
	assert.Equal(t, r1.LogicHash, r2.LogicHash)
	// SelfHash differs because Timestamp/TxID differ between calls; chain
	// integrity comes from PrevHash/MerkleRoot linkage, not self-hash
	// determinism.
	assert.Equal(t, r1.PrevHash, r2.PrevHash)
}

func TestLockchainAppendAndVerify(t *testing.T) {
	dir := t.TempDir()
	lc, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, GenesisHash, lc.Tip())

	added := []rdf.Triple{{Subject: rdf.NewIRI("a"), Predicate: rdf.NewIRI("p"), Object: rdf.NewIRI("b")}}
	r1 := Build("tx-1", "alice", added, nil, "logic-1", lc.Tip(), true, nil)
	require.NoError(t, lc.Append(r1))
	assert.Equal(t, r1.MerkleRoot, lc.Tip())

	r2 := Build("tx-2", "bob", added, nil, "logic-1", lc.Tip(), true, nil)
	require.NoError(t, lc.Append(r2))
	assert.Equal(t, r1.MerkleRoot, r2.PrevHash)

	n, err := lc.Verify()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Reopening replays chain.log / tip.ptr and recovers the same tip.
	lc2, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, r2.MerkleRoot, lc2.Tip())
}

func TestLockchainRejectsFork(t *testing.T) {
	dir := t.TempDir()
	lc, err := Open(dir)
	require.NoError(t, err)

	stale := Build("tx-1", "alice", nil, nil, "logic-1", "not-the-real-tip", true, nil)
	err = lc.Append(stale)
	assert.Error(t, err)
}
