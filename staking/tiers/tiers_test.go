// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixstake/helix/helix"
)

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)

	// durations must strictly increase
	_, err = NewTable([]Tier{
		{MinDuration: 30 * helix.SecondsPerDay, Multiplier: 100},
		{MinDuration: 30 * helix.SecondsPerDay, Multiplier: 125},
	})
	assert.Error(t, err)

	// multipliers must not decrease
	_, err = NewTable([]Tier{
		{MinDuration: 7 * helix.SecondsPerDay, Multiplier: 150},
		{MinDuration: 30 * helix.SecondsPerDay, Multiplier: 100},
	})
	assert.Error(t, err)

	_, err = NewTable([]Tier{{MinDuration: 7 * helix.SecondsPerDay, Multiplier: 0}})
	assert.Error(t, err)
}

func TestApplicable(t *testing.T) {
	table := DefaultTable()

	day := helix.SecondsPerDay
	tests := []struct {
		duration uint64
		mult     uint64
	}{
		{7 * day, 100},
		{29 * day, 100},
		{30 * day, 125},
		{89 * day, 125},
		{90 * day, 150},
		{180 * day, 200},
		{365 * day, 300},
		{1000 * day, 300},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.mult, table.Applicable(tt.duration).Multiplier, "duration %d", tt.duration)
	}
}

func TestMultiplierMonotone(t *testing.T) {
	table := DefaultTable()

	var prev uint64
	for d := helix.MinStakeDuration; d <= 400*helix.SecondsPerDay; d += helix.SecondsPerDay {
		mult := table.Applicable(d).Multiplier
		require.GreaterOrEqual(t, mult, prev, "duration %d", d)
		prev = mult
	}
}

func TestVotingRights(t *testing.T) {
	table := DefaultTable()

	assert.False(t, table.Applicable(7*helix.SecondsPerDay).VotingRights)
	assert.False(t, table.Applicable(30*helix.SecondsPerDay).VotingRights)
	assert.True(t, table.Applicable(90*helix.SecondsPerDay).VotingRights)
	assert.True(t, table.Applicable(365*helix.SecondsPerDay).VotingRights)
}
