// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/reverts"
)

var (
	v1 = helix.BytesToAddress([]byte("v1"))
	v2 = helix.BytesToAddress([]byte("v2"))
)

func TestPromoteDemote(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsActive(v1))
	assert.True(t, r.Promote(v1))
	assert.True(t, r.IsActive(v1))

	// re-promotion while active must not re-trigger side effects
	assert.False(t, r.Promote(v1))
	assert.Equal(t, 1, r.ActiveCount())

	assert.True(t, r.Demote(v1))
	assert.False(t, r.IsActive(v1))
	assert.False(t, r.Demote(v1))
	assert.Zero(t, r.ActiveCount())
}

func TestCommission(t *testing.T) {
	r := NewRegistry()

	err := r.SetCommission(v1, 100)
	assert.Equal(t, reverts.ErrNotValidator, err)

	r.Promote(v1)
	assert.NoError(t, r.SetCommission(v1, helix.MaxCommissionBps))
	assert.Equal(t, helix.MaxCommissionBps, r.Commission(v1))

	err = r.SetCommission(v1, helix.MaxCommissionBps+1)
	assert.Equal(t, reverts.ErrRateTooHigh, err)

	// the configured rate survives demotion
	r.Demote(v1)
	assert.Equal(t, helix.MaxCommissionBps, r.Commission(v1))
}

func TestPoolDistribution(t *testing.T) {
	r := NewRegistry()

	// empty registry: share is zero, pool keeps accruing
	r.AddToPool(big.NewInt(100))
	assert.Zero(t, r.ShareOfPool().Sign())
	assert.Equal(t, big.NewInt(100), r.Pool())

	r.Promote(v1)
	r.Promote(v2)
	assert.Equal(t, big.NewInt(50), r.ShareOfPool())

	// distribute-then-zero: the pool only empties on the explicit clear
	assert.Equal(t, big.NewInt(100), r.Pool())
	r.ClearPool()
	assert.Zero(t, r.Pool().Sign())
	assert.Zero(t, r.ShareOfPool().Sign())
}

func TestActiveOrder(t *testing.T) {
	r := NewRegistry()
	r.Promote(v1)
	r.Promote(v2)

	assert.Equal(t, []helix.Address{v1, v2}, r.Active())

	r.Demote(v1)
	assert.Equal(t, []helix.Address{v2}, r.Active())
}
