// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixstake/helix/helix"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	admin := helix.BytesToAddress([]byte("admin"))
	other := helix.BytesToAddress([]byte("other"))

	assert.False(t, r.Check(admin, helix.CapSlash))

	r.Grant(admin, helix.CapSlash)
	r.Grant(admin, helix.CapSlash) // idempotent
	assert.True(t, r.Check(admin, helix.CapSlash))
	assert.False(t, r.Check(admin, helix.CapHalving))
	assert.False(t, r.Check(other, helix.CapSlash))

	r.Revoke(admin, helix.CapSlash)
	assert.False(t, r.Check(admin, helix.CapSlash))

	// revoking what was never granted is a no-op
	r.Revoke(other, helix.CapGovernance)
	assert.False(t, r.Check(other, helix.CapGovernance))
}
