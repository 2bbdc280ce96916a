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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterRejectsDuplicateID(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Hook{ID: "a", Phase: PhasePre, Priority: 1, Handler: func(HookContext) HookResult { return HookResult{Passed: true} }}))

	err := reg.Register(Hook{ID: "a", Phase: PhasePre, Priority: 99, Handler: func(HookContext) HookResult { return HookResult{Passed: false} }})
	assert.Error(t, err)

	h, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, h.Priority, "the original hook must not have been overwritten")
}

func TestRegistry_LogicHashReturnsToPriorValueAfterUnregister(t *testing.T) {
	reg := NewRegistry()
	before := reg.LogicHash()

	require.NoError(t, reg.Register(Hook{ID: "a", Phase: PhasePre, Priority: 5}))
	during := reg.LogicHash()
	assert.NotEqual(t, before, during)

	reg.Unregister("a")
	after := reg.LogicHash()
	assert.Equal(t, before, after)
}

func TestRegistry_LogicHashStableUnderReregistrationOrder(t *testing.T) {
	a := Hook{ID: "a", Phase: PhasePre, Priority: 1}
	b := Hook{ID: "b", Phase: PhasePost, Priority: 2}

	r1 := NewRegistry()
	require.NoError(t, r1.Register(a))
	require.NoError(t, r1.Register(b))

	r2 := NewRegistry()
	require.NoError(t, r2.Register(b))
	require.NoError(t, r2.Register(a))

	assert.Equal(t, r1.LogicHash(), r2.LogicHash())
}
