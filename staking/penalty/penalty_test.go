// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixstake/helix/helix"
)

func TestAssessInterpolation(t *testing.T) {
	duration := 30 * helix.SecondsPerDay

	tests := []struct {
		elapsed uint64
		percent uint64
	}{
		{0, helix.MaxPenaltyPercent},
		{15 * helix.SecondsPerDay, 20},
		{duration, helix.BasePenaltyPercent},
		{duration + helix.SecondsPerDay, helix.BasePenaltyPercent}, // clamped
	}
	for _, tt := range tests {
		a := Assess(big.NewInt(1000), tt.elapsed, duration, SingleUnstakeSplit)
		assert.Equal(t, tt.percent, a.Percent, "elapsed %d", tt.elapsed)
	}
}

func TestAssessHalfway(t *testing.T) {
	// 1000 withdrawn halfway through a 30-day commitment: percent = 20,
	// penalty = 200, split 40/40/20
	duration := 30 * helix.SecondsPerDay
	a := Assess(big.NewInt(1000), 15*helix.SecondsPerDay, duration, SingleUnstakeSplit)

	assert.Equal(t, big.NewInt(200), a.Total)
	assert.Equal(t, big.NewInt(80), a.Burned)
	assert.Equal(t, big.NewInt(80), a.Redistributed)
	assert.Equal(t, big.NewInt(40), a.ToLiquidity)
}

// The single and batch paths deliberately carry different split ratios for
// the same economic event; this pins both so an accidental unification fails
// loudly.
func TestSplitPoliciesDiffer(t *testing.T) {
	single := AssessFull(big.NewInt(1000), SingleUnstakeSplit)
	assert.Equal(t, big.NewInt(400), single.Burned)
	assert.Equal(t, big.NewInt(400), single.Redistributed)
	assert.Equal(t, big.NewInt(200), single.ToLiquidity)

	batch := AssessFull(big.NewInt(1000), BatchUnstakeSplit)
	assert.Equal(t, big.NewInt(500), batch.Burned)
	assert.Equal(t, big.NewInt(250), batch.Redistributed)
	assert.Equal(t, big.NewInt(250), batch.ToLiquidity)

	assert.NotEqual(t, SingleUnstakeSplit, BatchUnstakeSplit)
}

func TestAssessBoundsFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0)

	for i := 0; i < 5000; i++ {
		var seed struct {
			Amount   uint32
			Duration uint32
			Elapsed  uint32
		}
		f.Fuzz(&seed)

		duration := uint64(seed.Duration) + 1
		elapsed := uint64(seed.Elapsed) % (duration + duration/2 + 1)
		amount := big.NewInt(int64(seed.Amount))

		for _, policy := range []SplitPolicy{SingleUnstakeSplit, BatchUnstakeSplit} {
			a := Assess(amount, elapsed, duration, policy)

			require.GreaterOrEqual(t, a.Percent, helix.BasePenaltyPercent)
			require.LessOrEqual(t, a.Percent, helix.MaxPenaltyPercent)

			// the three shares always conserve the total
			sum := new(big.Int).Add(a.Burned, a.Redistributed)
			sum.Add(sum, a.ToLiquidity)
			require.Zero(t, sum.Cmp(a.Total))

			// penalty never exceeds the max percent of the amount
			bound := new(big.Int).Mul(amount, new(big.Int).SetUint64(helix.MaxPenaltyPercent))
			bound.Div(bound, big.NewInt(100))
			require.LessOrEqual(t, a.Total.Cmp(bound), 0)
		}
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory()
	alice := helix.BytesToAddress([]byte("alice"))

	assert.Empty(t, h.Of(alice))

	a := Assess(big.NewInt(1000), 0, 30*helix.SecondsPerDay, SingleUnstakeSplit)
	h.Append(alice, 1, 1000, a)
	h.Append(alice, 2, 2000, a)

	events := h.Of(alice)
	require.Len(t, events, 2)
	assert.Equal(t, uint32(1), events[0].Project)
	assert.Equal(t, uint64(1000), events[0].Timestamp)
	assert.Equal(t, big.NewInt(300), events[0].Total)
	assert.Equal(t, uint32(2), events[1].Project)
}
