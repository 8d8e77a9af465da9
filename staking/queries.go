// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sort"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/penalty"
	"github.com/helixstake/helix/staking/position"
	"github.com/helixstake/helix/staking/rewards"
	"github.com/helixstake/helix/staking/tiers"
)

// Queries are read-only and never touch the re-entrancy latch; the API layer
// serializes them against mutations the same way it serializes mutations.

// GetUserStake returns the user's position in the project, nil if none.
func (s *Staking) GetUserStake(user helix.Address, project uint32) *position.Position {
	return s.ledger.Get(user, project)
}

// GetUserTotalStake returns the user's aggregate staked balance.
func (s *Staking) GetUserTotalStake(user helix.Address) *big.Int {
	return s.ledger.Balance(user)
}

// GetUserPositions returns the user's staked project ids in staking order.
func (s *Staking) GetUserPositions(user helix.Address) []uint32 {
	return s.ledger.Projects(user)
}

// IsValidator reports whether the user is an active validator.
func (s *Staking) IsValidator(user helix.Address) bool {
	return s.validators.IsActive(user)
}

// ValidatorCommission returns the user's commission rate in basis points.
func (s *Staking) ValidatorCommission(user helix.Address) uint64 {
	return s.validators.Commission(user)
}

// ValidatorPool returns the undistributed shared reward pool.
func (s *Staking) ValidatorPool() *big.Int {
	return s.validators.Pool()
}

// ActiveValidators returns the active validators in promotion order.
func (s *Staking) ActiveValidators() []helix.Address {
	return s.validators.Active()
}

// GetGovernanceVotes returns the user's current voting weight.
func (s *Staking) GetGovernanceVotes(user helix.Address) *big.Int {
	return s.votes.Weight(user)
}

// IsGovernanceViolator reports whether the user is a marked violator.
func (s *Staking) IsGovernanceViolator(user helix.Address) bool {
	return s.votes.IsViolator(user)
}

// GetTotalStaked returns the protocol-wide staked total.
func (s *Staking) GetTotalStaked() *big.Int {
	return s.ledger.Total()
}

// GetApplicableTier returns the highest tier whose minimum duration the given
// duration satisfies.
func (s *Staking) GetApplicableTier(duration uint64) tiers.Tier {
	return s.tiers.Applicable(duration)
}

// Tiers returns the configured tier table.
func (s *Staking) Tiers() []tiers.Tier {
	return s.tiers.All()
}

// ActiveStakerCount returns the size of the active staker set.
func (s *Staking) ActiveStakerCount() int {
	return s.stakers.Len()
}

// GetTopStakers returns up to limit stakers ordered by aggregate balance,
// highest first. Ties keep staker-set order, which makes the result stable
// across calls with unchanged state.
func (s *Staking) GetTopStakers(limit int) []helix.Address {
	if limit <= 0 {
		return nil
	}
	all := s.stakers.All()
	sort.SliceStable(all, func(i, j int) bool {
		return s.ledger.Balance(all[i]).Cmp(s.ledger.Balance(all[j])) > 0
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// GetPenaltyHistory returns the user's penalty events, oldest first.
func (s *Staking) GetPenaltyHistory(user helix.Address) []*penalty.Event {
	return s.penalties.Of(user)
}

// PendingReward returns the reward the user's position would settle at now,
// before compounding and carve-outs. Zero if no position exists.
func (s *Staking) PendingReward(user helix.Address, project uint32, now uint64) *big.Int {
	pos := s.ledger.Get(user, project)
	if pos == nil {
		return new(big.Int)
	}
	return rewards.Calculate(pos, s.rates, s.ledger.Total(), s.tiers, now)
}

// Rates returns the current dynamic reward rates.
func (s *Staking) Rates() rewards.Rates {
	return s.rates
}

// HalvingEpoch returns the number of applied halvings.
func (s *Staking) HalvingEpoch() uint64 {
	return s.scheduler.Epoch()
}

// LastHalvingTime returns the timestamp the current halving period started.
func (s *Staking) LastHalvingTime() uint64 {
	return s.scheduler.LastTime()
}
