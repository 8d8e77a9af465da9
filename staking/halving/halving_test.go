// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package halving

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/rewards"
)

func TestApplyIfDue(t *testing.T) {
	genesis := uint64(1_000_000)
	s := NewScheduler(genesis)
	rates := rewards.Rates{BaseAPR: 10, BoostedAPR: 15}

	// one second early: gated
	assert.False(t, s.ApplyIfDue(&rates, genesis+helix.HalvingPeriod-1))
	assert.Equal(t, uint64(10), rates.BaseAPR)
	assert.Zero(t, s.Epoch())
	assert.Equal(t, genesis, s.LastTime())

	// exactly at the gate
	now := genesis + helix.HalvingPeriod
	assert.True(t, s.ApplyIfDue(&rates, now))
	assert.Equal(t, uint64(5), rates.BaseAPR)
	assert.Equal(t, uint64(7), rates.BoostedAPR)
	assert.Equal(t, uint64(1), s.Epoch())
	assert.Equal(t, now, s.LastTime())

	// the gate re-arms from the halving time
	assert.False(t, s.ApplyIfDue(&rates, now+1))
}

func TestApplyBypassesGate(t *testing.T) {
	s := NewScheduler(1000)
	rates := rewards.Rates{BaseAPR: 10, BoostedAPR: 15}

	s.Apply(&rates, 1001)
	assert.Equal(t, uint64(5), rates.BaseAPR)
	assert.Equal(t, uint64(1), s.Epoch())
	assert.Equal(t, uint64(1001), s.LastTime())
}

func TestClampToFloor(t *testing.T) {
	s := NewScheduler(0)
	rates := rewards.Rates{BaseAPR: 10, BoostedAPR: 15}

	for i := 0; i < 10; i++ {
		s.Apply(&rates, uint64(i))
	}
	assert.Equal(t, helix.MinAPR, rates.BaseAPR)
	assert.Equal(t, helix.MinAPR, rates.BoostedAPR)
	assert.Equal(t, uint64(10), s.Epoch())
}
