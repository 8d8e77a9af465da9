// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/penalty"
	"github.com/helixstake/helix/staking/reverts"
)

// StakeItem is one entry of a batch stake.
type StakeItem struct {
	Project      uint32
	Amount       *big.Int
	Duration     uint64
	IsLP         bool
	AutoCompound bool
}

// BatchStake applies stake semantics to each item, over disjoint projects,
// with a single aggregate custody transfer. The item count is hard-bounded;
// an oversized batch fails outright with no state change.
func (s *Staking) BatchStake(caller helix.Address, items []StakeItem, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpBatchStake, &err)

	if len(items) == 0 {
		return reverts.ErrInvalidParameter
	}
	if len(items) > helix.MaxBatchItems {
		return reverts.ErrBatchTooLarge
	}

	// validate every item before touching anything
	seen := make(map[uint32]bool, len(items))
	aggregate := new(big.Int)
	for _, item := range items {
		if seen[item.Project] {
			return reverts.ErrInvalidParameter
		}
		seen[item.Project] = true
		if err = s.validateStakeInputs(item.Project, item.Amount, item.Duration); err != nil {
			return err
		}
		aggregate.Add(aggregate, item.Amount)
	}

	// pull the whole batch in one transfer, then settle existing positions;
	// an aborted batch must not have collected any settlement payout
	if !s.custody.TransferFrom(caller, s.config.CustodyAccount, aggregate) {
		return reverts.ErrTransferFailed
	}
	plans := make([]*settlement, len(items))
	for i, item := range items {
		if pos := s.ledger.Get(caller, item.Project); pos != nil {
			plans[i] = s.planSettlement(pos, now)
			if err = s.settleExternals(caller, plans[i]); err != nil {
				return err
			}
		}
	}

	// commit
	hasNFT := s.nft.HoldsBoostNFT(caller)
	for i, item := range items {
		if plans[i] != nil {
			s.commitSettlement(caller, item.Project, plans[i], now)
		} else {
			s.projects.IncrementStakerCount(item.Project)
		}
		s.ledger.Credit(caller, item.Project, item.Amount, now, item.Duration, item.IsLP, hasNFT, item.AutoCompound)
	}
	s.syncStatus(caller)

	s.emit(&Event{
		Time: now, Op: OpBatchStake, User: caller,
		Amount: aggregate,
		Delta: map[string]string{
			"items":   formatUint(uint64(len(items))),
			"balance": s.ledger.Balance(caller).String(),
			"total":   s.ledger.Total().String(),
		},
	})
	logger.Debug("batch staked", "user", caller, "items", len(items), "amount", aggregate)

	s.notifyAdvisor()
	return nil
}

// BatchUnstake applies unstake semantics to each project, accumulating all
// penalty sub-amounts and performing the burn/redistribute/liquidity legs
// once at the end. Uses the batch split policy, which differs from the
// single-unstake one.
func (s *Staking) BatchUnstake(caller helix.Address, projects []uint32, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpBatchUnstake, &err)

	if len(projects) == 0 {
		return reverts.ErrInvalidParameter
	}
	if len(projects) > helix.MaxBatchItems {
		return reverts.ErrBatchTooLarge
	}

	seen := make(map[uint32]bool, len(projects))
	for _, project := range projects {
		if seen[project] {
			return reverts.ErrInvalidParameter
		}
		seen[project] = true
		if !s.ledger.Exists(caller, project) {
			return reverts.ErrNoActivePosition
		}
	}

	plans := make([]*settlement, len(projects))
	assessments := make([]*penalty.Assessment, len(projects))
	returned := new(big.Int)
	accumulated := &penalty.Assessment{
		Total:         new(big.Int),
		Burned:        new(big.Int),
		Redistributed: new(big.Int),
		ToLiquidity:   new(big.Int),
	}

	for i, project := range projects {
		pos := s.ledger.Get(caller, project)
		plans[i] = s.planSettlement(pos, now)

		principal := new(big.Int).Add(pos.Amount, plans[i].compounded)
		elapsed := elapsedSince(pos.StakingStart, now)

		assessments[i] = zeroAssessment()
		if elapsed < pos.Duration {
			assessments[i] = penalty.Assess(principal, elapsed, pos.Duration, penalty.BatchUnstakeSplit)
		}
		accumulated.Total.Add(accumulated.Total, assessments[i].Total)
		accumulated.Burned.Add(accumulated.Burned, assessments[i].Burned)
		accumulated.Redistributed.Add(accumulated.Redistributed, assessments[i].Redistributed)
		accumulated.ToLiquidity.Add(accumulated.ToLiquidity, assessments[i].ToLiquidity)

		returned.Add(returned, new(big.Int).Sub(principal, assessments[i].Total))
	}

	// external legs: per-item reward payouts, one penalty disposal, then
	// the caller-paying principal return last
	for i := range projects {
		if err = s.settleExternals(caller, plans[i]); err != nil {
			return err
		}
	}
	if err = s.penaltyExternals(accumulated); err != nil {
		return err
	}
	if returned.Sign() > 0 && !s.custody.Transfer(caller, returned) {
		return reverts.ErrTransferFailed
	}

	// commit
	for i, project := range projects {
		s.commitSettlement(caller, project, plans[i], now)
		s.ledger.Clear(caller, project)
		s.projects.DecrementStakerCount(project)
		if assessments[i].Total.Sign() > 0 {
			s.penalties.Append(caller, project, now, assessments[i])
		}
	}
	if accumulated.Total.Sign() > 0 {
		metricPenalties().Add(accumulated.Total.Int64())
	}
	s.syncStatus(caller)

	s.emit(&Event{
		Time: now, Op: OpBatchUnstake, User: caller,
		Amount: returned,
		Delta: map[string]string{
			"items":   formatUint(uint64(len(projects))),
			"penalty": accumulated.Total.String(),
			"balance": s.ledger.Balance(caller).String(),
			"total":   s.ledger.Total().String(),
		},
	})
	logger.Debug("batch unstaked", "user", caller, "items", len(projects), "returned", returned, "penalty", accumulated.Total)

	s.notifyAdvisor()
	return nil
}
