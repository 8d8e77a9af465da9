// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/position"
	"github.com/helixstake/helix/staking/tiers"
)

// Rates are the global reward-rate inputs consumed by the calculator.
// They are mutated only by the halving scheduler or a dynamic adjustment.
type Rates struct {
	BaseAPR    uint64 // whole percent per year
	BoostedAPR uint64 // whole percent per year, applies under supply pressure
}

// Calculate returns the pending reward of a position at time now.
//
// The result is zero when no time elapsed since the last checkpoint. It is
// monotone non-decreasing in elapsed time and linear in amount; the single
// integer division floors, which under-pays by strictly less than one base
// unit per settlement.
func Calculate(pos *position.Position, rates Rates, totalStaked *big.Int, table *tiers.Table, now uint64) *big.Int {
	if pos == nil || pos.Amount.Sign() == 0 || now <= pos.LastCheckpoint {
		return new(big.Int)
	}
	stakingTime := now - pos.LastCheckpoint

	tier := table.Applicable(pos.Duration)

	baseRate := rates.BaseAPR
	if totalStaked.Cmp(helix.LowStakeThreshold) < 0 {
		baseRate = rates.BoostedAPR
	}
	if pos.HasNFTBoost {
		baseRate += helix.NFTBoostPercent
	}
	if pos.IsLPStaker {
		baseRate += helix.LPBoostPercent
	}

	// reward = amount * baseRate * tierMultiplier * stakingTime / (100 * 100 * secondsPerYear)
	// The divisions are folded so truncation happens exactly once.
	reward := new(big.Int).Set(pos.Amount)
	reward.Mul(reward, new(big.Int).SetUint64(baseRate))
	reward.Mul(reward, new(big.Int).SetUint64(tier.Multiplier))
	reward.Mul(reward, new(big.Int).SetUint64(stakingTime))

	denom := new(big.Int).SetUint64(helix.SecondsPerYear)
	denom.Mul(denom, big.NewInt(100*100))
	return reward.Div(reward, denom)
}

// Share returns amount * percent / 100, floored.
func Share(amount *big.Int, percent uint64) *big.Int {
	share := new(big.Int).Mul(amount, new(big.Int).SetUint64(percent))
	return share.Div(share, big.NewInt(100))
}
