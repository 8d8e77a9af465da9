// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"math/big"

	"github.com/helixstake/helix/helix"
)

// SplitPolicy divides a penalty between burning, redistribution to remaining
// stakers, and liquidity provisioning. Percentages sum to 100.
type SplitPolicy struct {
	Name             string
	BurnPercent      uint64
	RedistribPercent uint64
	LiquidityPercent uint64
}

// The single-unstake and batch-unstake paths apply different split ratios to
// what is the same economic event. The divergence is inherited protocol
// behavior and deliberately kept as two named policies; do not unify them
// without a governance decision.
var (
	SingleUnstakeSplit = SplitPolicy{Name: "single-unstake", BurnPercent: 40, RedistribPercent: 40, LiquidityPercent: 20}
	BatchUnstakeSplit  = SplitPolicy{Name: "batch-unstake", BurnPercent: 50, RedistribPercent: 25, LiquidityPercent: 25}
)

// Assessment is the outcome of applying a penalty to an early withdrawal.
type Assessment struct {
	Percent       uint64 // effective penalty percent
	Total         *big.Int
	Burned        *big.Int
	Redistributed *big.Int
	ToLiquidity   *big.Int
}

// Assess computes the early-withdrawal penalty for a position of the given
// amount that committed to duration and is withdrawn after elapsed seconds.
//
// The percent interpolates linearly from MaxPenaltyPercent at elapsed = 0
// down to BasePenaltyPercent at elapsed = duration. Callers skip the
// assessment entirely once the committed duration has passed; elapsed beyond
// duration clamps to the base percent.
func Assess(amount *big.Int, elapsed, duration uint64, policy SplitPolicy) *Assessment {
	if duration == 0 {
		return split(new(big.Int), 0, policy)
	}
	if elapsed > duration {
		elapsed = duration
	}

	remaining := duration - elapsed
	percent := helix.BasePenaltyPercent +
		remaining*(helix.MaxPenaltyPercent-helix.BasePenaltyPercent)/duration

	total := new(big.Int).Mul(amount, new(big.Int).SetUint64(percent))
	total.Div(total, big.NewInt(100))

	return split(total, percent, policy)
}

// AssessFull applies a 100% penalty to amount, used to dispose of slashed
// validator stake through the same burn/redistribute/liquidity routing.
func AssessFull(amount *big.Int, policy SplitPolicy) *Assessment {
	return split(new(big.Int).Set(amount), 100, policy)
}

func split(total *big.Int, percent uint64, policy SplitPolicy) *Assessment {
	burned := new(big.Int).Mul(total, new(big.Int).SetUint64(policy.BurnPercent))
	burned.Div(burned, big.NewInt(100))
	redistributed := new(big.Int).Mul(total, new(big.Int).SetUint64(policy.RedistribPercent))
	redistributed.Div(redistributed, big.NewInt(100))

	// liquidity takes the remainder so the three parts always conserve total
	toLiquidity := new(big.Int).Sub(total, burned)
	toLiquidity.Sub(toLiquidity, redistributed)

	return &Assessment{
		Percent:       percent,
		Total:         total,
		Burned:        burned,
		Redistributed: redistributed,
		ToLiquidity:   toLiquidity,
	}
}
