// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking"
	"github.com/helixstake/helix/staking/penalty"
	"github.com/helixstake/helix/staking/position"
	"github.com/helixstake/helix/staking/tiers"
)

// StakeRequest is the body of POST /staking/stake.
// Now is optional; zero means the server clock.
type StakeRequest struct {
	Caller       helix.Address         `json:"caller"`
	Project      uint32                `json:"project"`
	Amount       *math.HexOrDecimal256 `json:"amount"`
	Duration     uint64                `json:"duration"`
	IsLP         bool                  `json:"isLP"`
	AutoCompound bool                  `json:"autoCompound"`
	Now          uint64                `json:"now,omitempty"`
}

type UnstakeRequest struct {
	Caller  helix.Address `json:"caller"`
	Project uint32        `json:"project"`
	Now     uint64        `json:"now,omitempty"`
}

type BatchStakeItem struct {
	Project      uint32                `json:"project"`
	Amount       *math.HexOrDecimal256 `json:"amount"`
	Duration     uint64                `json:"duration"`
	IsLP         bool                  `json:"isLP"`
	AutoCompound bool                  `json:"autoCompound"`
}

type BatchStakeRequest struct {
	Caller helix.Address    `json:"caller"`
	Items  []BatchStakeItem `json:"items"`
	Now    uint64           `json:"now,omitempty"`
}

type BatchUnstakeRequest struct {
	Caller   helix.Address `json:"caller"`
	Projects []uint32      `json:"projects"`
	Now      uint64        `json:"now,omitempty"`
}

type RegisterValidatorRequest struct {
	Caller helix.Address `json:"caller"`
	Now    uint64        `json:"now,omitempty"`
}

type CommissionRequest struct {
	Caller helix.Address `json:"caller"`
	Bps    uint64        `json:"bps"`
	Now    uint64        `json:"now,omitempty"`
}

type SlashRequest struct {
	Caller helix.Address         `json:"caller"`
	Target helix.Address         `json:"target"`
	Amount *math.HexOrDecimal256 `json:"amount"`
	Now    uint64                `json:"now,omitempty"`
}

// HalvingRequest triggers a halving. Force bypasses the time gate and
// requires the halving capability.
type HalvingRequest struct {
	Caller helix.Address `json:"caller"`
	Force  bool          `json:"force"`
	Now    uint64        `json:"now,omitempty"`
}

type VoteRequest struct {
	Caller   helix.Address `json:"caller"`
	Proposal uint64        `json:"proposal"`
	Support  bool          `json:"support"`
	Now      uint64        `json:"now,omitempty"`
}

type ProposalRequest struct {
	Caller      helix.Address `json:"caller"`
	Description string        `json:"description"`
	Now         uint64        `json:"now,omitempty"`
}

type ViolatorRequest struct {
	Caller helix.Address `json:"caller"`
	User   helix.Address `json:"user"`
	Now    uint64        `json:"now,omitempty"`
}

// Position is the JSON shape of one staking position.
type Position struct {
	Project        uint32                `json:"project"`
	Amount         *math.HexOrDecimal256 `json:"amount"`
	StakingStart   uint64                `json:"stakingStart"`
	LastCheckpoint uint64                `json:"lastCheckpoint"`
	Duration       uint64                `json:"duration"`
	IsLP           bool                  `json:"isLP"`
	HasNFTBoost    bool                  `json:"hasNFTBoost"`
	AutoCompound   bool                  `json:"autoCompound"`
}

func convertPosition(project uint32, pos *position.Position) *Position {
	return &Position{
		Project:        project,
		Amount:         (*math.HexOrDecimal256)(pos.Amount),
		StakingStart:   pos.StakingStart,
		LastCheckpoint: pos.LastCheckpoint,
		Duration:       pos.Duration,
		IsLP:           pos.IsLPStaker,
		HasNFTBoost:    pos.HasNFTBoost,
		AutoCompound:   pos.AutoCompounding,
	}
}

// Staker summarizes one account's standing.
type Staker struct {
	Address   helix.Address         `json:"address"`
	Balance   *math.HexOrDecimal256 `json:"balance"`
	Votes     *math.HexOrDecimal256 `json:"votes"`
	Validator bool                  `json:"validator"`
	Violator  bool                  `json:"violator"`
	Projects  []uint32              `json:"projects"`
}

// Validator is the JSON shape of GET /validators/{addr}.
type Validator struct {
	Address       helix.Address         `json:"address"`
	Active        bool                  `json:"active"`
	CommissionBps uint64                `json:"commissionBps"`
	PoolShare     *math.HexOrDecimal256 `json:"poolShare"`
}

// PenaltyEvent is the JSON shape of one penalty-history entry.
type PenaltyEvent struct {
	Project       uint32                `json:"project"`
	Timestamp     uint64                `json:"timestamp"`
	Total         *math.HexOrDecimal256 `json:"total"`
	Burned        *math.HexOrDecimal256 `json:"burned"`
	Redistributed *math.HexOrDecimal256 `json:"redistributed"`
	ToLiquidity   *math.HexOrDecimal256 `json:"toLiquidity"`
}

func convertPenaltyEvent(ev *penalty.Event) *PenaltyEvent {
	return &PenaltyEvent{
		Project:       ev.Project,
		Timestamp:     ev.Timestamp,
		Total:         (*math.HexOrDecimal256)(ev.Total),
		Burned:        (*math.HexOrDecimal256)(ev.Burned),
		Redistributed: (*math.HexOrDecimal256)(ev.Redistributed),
		ToLiquidity:   (*math.HexOrDecimal256)(ev.ToLiquidity),
	}
}

// Params is the JSON shape of GET /staking/params.
type Params struct {
	BaseAPR            uint64                `json:"baseAPR"`
	BoostedAPR         uint64                `json:"boostedAPR"`
	HalvingEpoch       uint64                `json:"halvingEpoch"`
	LastHalvingTime    uint64                `json:"lastHalvingTime"`
	TotalStaked        *math.HexOrDecimal256 `json:"totalStaked"`
	ActiveStakers      int                   `json:"activeStakers"`
	ValidatorPool      *math.HexOrDecimal256 `json:"validatorPool"`
	ValidatorThreshold *math.HexOrDecimal256 `json:"validatorThreshold"`
	MinStakeDuration   uint64                `json:"minStakeDuration"`
	MaxBatchItems      int                   `json:"maxBatchItems"`
}

// Tier is the JSON shape of one tier-table row.
type Tier struct {
	MinDuration  uint64 `json:"minDuration"`
	Multiplier   uint64 `json:"multiplier"`
	VotingRights bool   `json:"votingRights"`
}

func convertTier(t tiers.Tier) Tier {
	return Tier{
		MinDuration:  t.MinDuration,
		Multiplier:   t.Multiplier,
		VotingRights: t.VotingRights,
	}
}

// Event is the JSON shape of one committed operation event.
type Event struct {
	Seq     uint64                `json:"seq"`
	Time    uint64                `json:"time"`
	Op      string                `json:"op"`
	User    helix.Address         `json:"user"`
	Project uint32                `json:"project"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Delta   map[string]string     `json:"delta"`
}

func ConvertEvent(ev *staking.Event) *Event {
	return &Event{
		Seq:     ev.Seq,
		Time:    ev.Time,
		Op:      ev.Op,
		User:    ev.User,
		Project: ev.Project,
		Amount:  (*math.HexOrDecimal256)(ev.Amount),
		Delta:   ev.Delta,
	}
}
