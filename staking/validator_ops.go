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

// BecomeValidator explicitly promotes the caller. A balance exactly at the
// threshold qualifies. Promotion via stake is implicit; this path exists so a
// staker demoted by explicit demotion can re-enter without moving funds.
func (s *Staking) BecomeValidator(caller helix.Address, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpBecomeValidator, &err)

	if s.validators.IsActive(caller) {
		return reverts.ErrAlreadyValidator
	}
	bal := s.ledger.Balance(caller)
	if bal.Cmp(helix.ValidatorThreshold) < 0 {
		return reverts.ErrBelowThreshold
	}

	s.validators.Promote(caller)
	s.emit(&Event{
		Time: now, Op: OpBecomeValidator, User: caller,
		Amount: bal,
		Delta: map[string]string{
			"active": formatUint(uint64(s.validators.ActiveCount())),
		},
	})
	logger.Info("validator promoted", "user", caller, "balance", bal)
	return nil
}

// UpdateValidatorCommission sets the caller's commission rate in basis points.
func (s *Staking) UpdateValidatorCommission(caller helix.Address, bps uint64, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpUpdateCommission, &err)

	if err = s.validators.SetCommission(caller, bps); err != nil {
		return err
	}
	s.emit(&Event{
		Time: now, Op: OpUpdateCommission, User: caller,
		Delta: map[string]string{"commission_bps": formatUint(bps)},
	})
	return nil
}

// ClaimValidatorRewards distributes the shared reward pool evenly across all
// active validators and zeroes it. With no active validator the call is a
// silent no-op; the pool keeps accruing. Each successful payout comes off the
// pool immediately, so a failure partway through leaves only the unpaid
// remainder for the retry; total payouts never exceed what the pool accrued.
func (s *Staking) ClaimValidatorRewards(caller helix.Address, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpClaimValidatorPool, &err)

	active := s.validators.Active()
	if len(active) == 0 {
		return nil
	}
	share := s.validators.ShareOfPool()
	if share.Sign() > 0 {
		for _, v := range active {
			if !s.sink.DistributeReward(v, share) {
				return reverts.ErrDistributionFailed
			}
			s.validators.DeductFromPool(share)
		}
	}
	s.validators.ClearPool()

	s.emit(&Event{
		Time: now, Op: OpClaimValidatorPool, User: caller,
		Amount: share,
		Delta: map[string]string{
			"validators": formatUint(uint64(len(active))),
		},
	})
	logger.Debug("validator pool claimed", "caller", caller, "share", share, "validators", len(active))
	return nil
}

// Slash removes amount from the validator's staked balance and routes it
// through the penalty split as a full-rate penalty. The amount is clamped to
// the validator's balance; positions drain in insertion order.
func (s *Staking) Slash(caller, target helix.Address, amount *big.Int, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpSlash, &err)

	if !s.authority.Check(caller, helix.CapSlash) {
		return reverts.ErrUnauthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrZeroAmount
	}
	if !s.validators.IsActive(target) {
		return reverts.ErrNotValidator
	}

	bal := s.ledger.Balance(target)
	slashed := new(big.Int).Set(amount)
	if slashed.Cmp(bal) > 0 {
		slashed.Set(bal)
	}

	// plan the per-position deductions, full-rate penalty each
	type cut struct {
		project    uint32
		amount     *big.Int
		assessment *penalty.Assessment
	}
	var cuts []cut
	accumulated := zeroAssessment()
	remaining := new(big.Int).Set(slashed)
	for _, project := range s.ledger.Projects(target) {
		if remaining.Sign() == 0 {
			break
		}
		pos := s.ledger.Get(target, project)
		take := new(big.Int).Set(pos.Amount)
		if take.Cmp(remaining) > 0 {
			take.Set(remaining)
		}
		remaining.Sub(remaining, take)

		a := penalty.AssessFull(take, penalty.SingleUnstakeSplit)
		accumulated.Total.Add(accumulated.Total, a.Total)
		accumulated.Burned.Add(accumulated.Burned, a.Burned)
		accumulated.Redistributed.Add(accumulated.Redistributed, a.Redistributed)
		accumulated.ToLiquidity.Add(accumulated.ToLiquidity, a.ToLiquidity)
		cuts = append(cuts, cut{project, take, a})
	}

	// external disposal first, then commit
	if err = s.penaltyExternals(accumulated); err != nil {
		return err
	}
	for _, c := range cuts {
		s.ledger.Deduct(target, c.project, c.amount)
		s.penalties.Append(target, c.project, now, c.assessment)
	}
	if accumulated.Total.Sign() > 0 {
		metricPenalties().Add(accumulated.Total.Int64())
	}
	s.syncStatus(target)

	s.emit(&Event{
		Time: now, Op: OpSlash, User: target,
		Amount: slashed,
		Delta: map[string]string{
			"caller":  caller.String(),
			"balance": s.ledger.Balance(target).String(),
			"total":   s.ledger.Total().String(),
		},
	})
	logger.Warn("validator slashed", "target", target, "amount", slashed, "caller", caller)

	s.notifyAdvisor()
	return nil
}
