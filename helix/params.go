// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package helix

import "math/big"

// Constants of the staking protocol.
const (
	SecondsPerDay  uint64 = 24 * 60 * 60
	SecondsPerYear uint64 = 365 * SecondsPerDay

	// MinStakeDuration is the shortest lock a position may commit to.
	MinStakeDuration uint64 = 7 * SecondsPerDay

	// MaxBatchItems bounds batchStake/batchUnstake item counts. Requests
	// above the bound fail outright, they are never queued or throttled.
	MaxBatchItems = 20

	// MaxCommissionBps caps validator commission at 20%.
	MaxCommissionBps uint64 = 2000

	// HalvingPeriod is the minimum interval between permissionless halvings.
	HalvingPeriod uint64 = 30 * SecondsPerDay

	// MinAPR is the floor both dynamic rates are clamped to after a halving.
	MinAPR uint64 = 1

	// InitialBaseAPR and InitialBoostedAPR seed the dynamic reward rates,
	// in whole percent per year.
	InitialBaseAPR    uint64 = 10
	InitialBoostedAPR uint64 = 15

	// NFTBoostPercent and LPBoostPercent are added to the base rate for
	// boosted positions, in percentage points.
	NFTBoostPercent uint64 = 5
	LPBoostPercent  uint64 = 3

	// AutoCompoundPercent is the share of a settled reward folded back into
	// the position when auto-compounding is enabled.
	AutoCompoundPercent uint64 = 50

	// AutoLiquidityPercent is carved out of the remaining reward when the
	// auto-liquidity sink is configured.
	AutoLiquidityPercent uint64 = 5

	// ValidatorPoolPercent of every settled reward accrues to the shared
	// validator reward pool.
	ValidatorPoolPercent uint64 = 5

	// BasePenaltyPercent applies when unstaking exactly at the committed
	// duration boundary; MaxPenaltyPercent when unstaking immediately.
	BasePenaltyPercent uint64 = 10
	MaxPenaltyPercent  uint64 = 30
)

// Thresholds of balance-derived status, in token base units.
var (
	// ValidatorThreshold is the aggregate balance at which a staker may be
	// promoted to validator.
	ValidatorThreshold = big.NewInt(10_000)

	// GovernanceThreshold is the aggregate balance at which voting weight
	// becomes nonzero.
	GovernanceThreshold = big.NewInt(1_000)

	// LowStakeThreshold is the protocol-wide staked total below which the
	// boosted rate applies to everyone (supply pressure incentive).
	LowStakeThreshold = big.NewInt(1_000_000)
)

// Capabilities gating privileged operations.
const (
	CapSlash      = "cap-slash"
	CapHalving    = "cap-halving"
	CapGovernance = "cap-governance"
)
