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

package sanitize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact_StripsAbsolutePaths(t *testing.T) {
	out := Redact("open failed: /root/module/pkg/store/memstore/memstore.go: permission denied")
	assert.NotContains(t, out, "/root/module")
	assert.Contains(t, out, "[path redacted]")
}

func TestRedact_StripsSecretShapedStrings(t *testing.T) {
	out := Redact(`connect failed: token=sk-abc123xyz rejected`)
	assert.NotContains(t, out, "sk-abc123xyz")
	assert.Contains(t, out, "[secret redacted]")
}

func TestWrap_NeverExposesCause(t *testing.T) {
	cause := errors.New("stat /root/module/.hwke/lockchain/chain.log: no such file or directory")
	se := Wrap("lockchain", ReasonInternal, cause, 0.042)
	assert.False(t, strings.Contains(se.Message, "/root/module"))
	assert.Equal(t, ReasonInternal, se.Reason)
	assert.Equal(t, 0.042, se.Elapsed)
}

func TestSanitizedError_ErrorStringFormat(t *testing.T) {
	se := &SanitizedError{Kind: "mutation", Reason: ReasonBlocked, Message: "hard blocked by guard"}
	assert.Equal(t, "mutation: blocked: hard blocked by guard", se.Error())
}
