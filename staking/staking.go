// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/helixstake/helix/advisor"
	"github.com/helixstake/helix/auth"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/log"
	"github.com/helixstake/helix/metrics"
	"github.com/helixstake/helix/staking/governance"
	"github.com/helixstake/helix/staking/halving"
	"github.com/helixstake/helix/staking/penalty"
	"github.com/helixstake/helix/staking/position"
	"github.com/helixstake/helix/staking/reverts"
	"github.com/helixstake/helix/staking/rewards"
	"github.com/helixstake/helix/staking/stakerset"
	"github.com/helixstake/helix/staking/tiers"
	"github.com/helixstake/helix/staking/validator"
	"github.com/helixstake/helix/stackedmap"
)

var (
	logger = log.WithContext("pkg", "staking")

	metricOps         = metrics.LazyLoadCounterVec("staking_ops_total", []string{"op", "result"})
	metricTotalStaked = metrics.LazyLoadGauge("staking_total_staked")
	metricPenalties   = metrics.LazyLoadCounter("staking_penalty_amount_total")
	metricEpoch       = metrics.LazyLoadGauge("staking_halving_epoch")
)

// Config wires the engine's protocol accounts and optional behavior.
type Config struct {
	// CustodyAccount holds staked principal.
	CustodyAccount helix.Address
	// BurnAccount receives the burned share of penalties.
	BurnAccount helix.Address
	// LiquidityAccount receives auto-liquidity carves and the liquidity
	// share of penalties.
	LiquidityAccount helix.Address
	// AutoLiquidity enables the liquidity carve on reward settlement.
	AutoLiquidity bool
	// GenesisTime anchors the halving schedule.
	GenesisTime uint64
}

// Staking is the staking, reward-accrual and validator-governance engine.
//
// Each public operation executes to completion before the next begins; the
// engine is not safe for concurrent use and callers must serialize access.
// Collaborator calls are boundaries: a collaborator calling back into the
// engine is rejected by the re-entrancy latch.
type Staking struct {
	config Config

	tiers      *tiers.Table
	ledger     *position.Ledger
	stakers    *stakerset.Set
	validators *validator.Registry
	votes      *governance.Tracker
	penalties  *penalty.History
	scheduler  *halving.Scheduler
	rates      rewards.Rates

	authority *auth.Registry

	custody  CustodyLedger
	projects ProjectRegistry
	sink     RewardSink
	nft      NFTRegistry
	govern   GovernanceContract
	adv      advisor.Advisor

	eventSink EventSink
	journal   *stackedmap.StackedMap[uint64, *Event]
	seq       uint64
	seqMark   uint64
	entered   bool
}

// New creates an engine over the given collaborators.
// eventSink and adv may be nil.
func New(
	config Config,
	table *tiers.Table,
	authority *auth.Registry,
	custody CustodyLedger,
	projects ProjectRegistry,
	sink RewardSink,
	nft NFTRegistry,
	govern GovernanceContract,
	adv advisor.Advisor,
	eventSink EventSink,
) *Staking {
	return &Staking{
		config:     config,
		tiers:      table,
		ledger:     position.NewLedger(),
		stakers:    stakerset.New(),
		validators: validator.NewRegistry(),
		votes:      governance.NewTracker(),
		penalties:  penalty.NewHistory(),
		scheduler:  halving.NewScheduler(config.GenesisTime),
		rates: rewards.Rates{
			BaseAPR:    helix.InitialBaseAPR,
			BoostedAPR: helix.InitialBoostedAPR,
		},
		authority: authority,
		custody:   custody,
		projects:  projects,
		sink:      sink,
		nft:       nft,
		govern:    govern,
		adv:       adv,
		eventSink: eventSink,
		journal: stackedmap.New[uint64, *Event](func(uint64) (*Event, bool) {
			return nil, false
		}),
	}
}

// enter arms the re-entrancy latch and opens the event journal level.
func (s *Staking) enter() error {
	if s.entered {
		return reverts.ErrReentrantCall
	}
	s.entered = true
	s.seqMark = s.seq
	s.journal.Push()
	return nil
}

// seal finishes the operation: on success the buffered events flush to the
// sink, on failure they are discarded together with the sequence numbers
// they consumed.
func (s *Staking) seal(op string, errp *error) {
	if *errp != nil {
		s.journal.PopTo(0)
		s.seq = s.seqMark
		s.entered = false
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": "revert"})
		return
	}

	var flushed []*Event
	s.journal.Journal(func(_ uint64, ev *Event) bool {
		flushed = append(flushed, ev)
		return true
	})
	s.journal.PopTo(0)
	s.entered = false

	if s.eventSink != nil && len(flushed) > 0 {
		if err := s.eventSink.SaveEvents(flushed); err != nil {
			logger.Warn("event sink failed", "op", op, "error", err)
		}
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	if total := s.ledger.Total(); total.IsInt64() {
		metricTotalStaked().Set(total.Int64())
	}
}

// settlement is the computed outcome of settling a position's pending reward.
// All figures derive purely from the position and global state; external
// payouts happen before any of it is committed.
type settlement struct {
	gross       *big.Int // reward before deductions
	compounded  *big.Int // folded back into the position
	toLiquidity *big.Int // carved to the liquidity account
	toPool      *big.Int // accrued to the validator reward pool
	payout      *big.Int // paid to the staker
}

func (s *Staking) planSettlement(pos *position.Position, now uint64) *settlement {
	gross := rewards.Calculate(pos, s.rates, s.ledger.Total(), s.tiers, now)

	plan := &settlement{
		gross:       gross,
		compounded:  new(big.Int),
		toLiquidity: new(big.Int),
		toPool:      new(big.Int),
		payout:      new(big.Int),
	}
	if gross.Sign() == 0 {
		return plan
	}

	remainder := new(big.Int).Set(gross)
	if pos.AutoCompounding {
		plan.compounded = rewards.Share(remainder, helix.AutoCompoundPercent)
		remainder.Sub(remainder, plan.compounded)
	}
	if s.config.AutoLiquidity {
		plan.toLiquidity = rewards.Share(remainder, helix.AutoLiquidityPercent)
		remainder.Sub(remainder, plan.toLiquidity)
	}
	plan.toPool = rewards.Share(remainder, helix.ValidatorPoolPercent)
	remainder.Sub(remainder, plan.toPool)
	plan.payout = remainder
	return plan
}

// settleExternals performs the fallible payout legs of a settlement.
func (s *Staking) settleExternals(user helix.Address, plan *settlement) error {
	if plan.payout.Sign() > 0 && !s.sink.DistributeReward(user, plan.payout) {
		return reverts.ErrDistributionFailed
	}
	if plan.toLiquidity.Sign() > 0 && !s.sink.DistributeReward(s.config.LiquidityAccount, plan.toLiquidity) {
		return reverts.ErrDistributionFailed
	}
	return nil
}

// commitSettlement applies a settlement's internal state changes.
// The checkpoint advances even on a zero reward; an immediate re-stake in
// the same second must not replay the same accrual window.
func (s *Staking) commitSettlement(user helix.Address, project uint32, plan *settlement, now uint64) {
	if plan.compounded.Sign() > 0 {
		s.ledger.Compound(user, project, plan.compounded)
	}
	if plan.toPool.Sign() > 0 {
		s.validators.AddToPool(plan.toPool)
	}
	s.ledger.Checkpoint(user, project, now)
}

// penaltyExternals performs the fallible disposal legs of a penalty.
func (s *Staking) penaltyExternals(a *penalty.Assessment) error {
	if a.Total.Sign() == 0 {
		return nil
	}
	if a.Burned.Sign() > 0 && !s.custody.Transfer(s.config.BurnAccount, a.Burned) {
		return reverts.ErrTransferFailed
	}
	if a.ToLiquidity.Sign() > 0 && !s.custody.Transfer(s.config.LiquidityAccount, a.ToLiquidity) {
		return reverts.ErrTransferFailed
	}
	if a.Redistributed.Sign() > 0 {
		// the redistributed share stays in custody; the sink accounts it
		// to remaining stakers
		s.sink.AddPenaltyRewards(a.Redistributed)
	}
	return nil
}

// syncStatus recomputes balance-derived status after a balance change:
// voting weight, validator promotion/demotion, staker-set membership.
// Promotion and demotion trigger only on actual transitions.
func (s *Staking) syncStatus(user helix.Address) {
	bal := s.ledger.Balance(user)
	s.votes.Recompute(user, bal)

	if bal.Cmp(helix.ValidatorThreshold) >= 0 {
		if s.validators.Promote(user) {
			logger.Info("validator promoted", "user", user, "balance", bal)
		}
	} else {
		if s.validators.Demote(user) {
			logger.Info("validator demoted", "user", user, "balance", bal)
		}
	}

	if bal.Sign() > 0 {
		s.stakers.Add(user)
	} else {
		s.stakers.Remove(user)
	}
}

// validateStakeInputs runs the input-validation phase of a stake.
func (s *Staking) validateStakeInputs(project uint32, amount *big.Int, duration uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrZeroAmount
	}
	if duration < helix.MinStakeDuration {
		return reverts.ErrInsufficientDuration
	}
	if !s.projects.Exists(project) {
		return reverts.ErrUnknownProject
	}
	return nil
}

// Stake locks amount against the project for the committed duration.
// An existing position settles its pending reward first, then grows by
// amount with duration and boost flags overwritten.
func (s *Staking) Stake(caller helix.Address, project uint32, amount *big.Int, duration uint64, isLP, autoCompound bool, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpStake, &err)

	if err = s.validateStakeInputs(project, amount, duration); err != nil {
		return err
	}

	pos := s.ledger.Get(caller, project)
	newPosition := pos == nil

	// the custody pull runs first; an aborted stake must not have
	// collected the settlement payout
	if !s.custody.TransferFrom(caller, s.config.CustodyAccount, amount) {
		return reverts.ErrTransferFailed
	}
	var plan *settlement
	if !newPosition {
		plan = s.planSettlement(pos, now)
		if err = s.settleExternals(caller, plan); err != nil {
			return err
		}
	}

	// commit
	if plan != nil {
		s.commitSettlement(caller, project, plan, now)
	}
	hasNFT := s.nft.HoldsBoostNFT(caller)
	s.ledger.Credit(caller, project, amount, now, duration, isLP, hasNFT, autoCompound)
	if newPosition {
		s.projects.IncrementStakerCount(project)
	}
	s.syncStatus(caller)

	bal := s.ledger.Balance(caller)
	s.emit(&Event{
		Time: now, Op: OpStake, User: caller, Project: project,
		Amount: new(big.Int).Set(amount),
		Delta: map[string]string{
			"balance":  bal.String(),
			"total":    s.ledger.Total().String(),
			"duration": formatUint(duration),
		},
	})
	logger.Debug("staked", "user", caller, "project", project, "amount", amount, "duration", duration)

	s.notifyAdvisor()
	return nil
}

// Unstake settles and closes the caller's position in the project, applying
// the early-withdrawal penalty if the committed duration has not elapsed.
func (s *Staking) Unstake(caller helix.Address, project uint32, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpUnstake, &err)

	pos := s.ledger.Get(caller, project)
	if pos == nil {
		return reverts.ErrNoActivePosition
	}

	plan := s.planSettlement(pos, now)

	// the compounded share joins the principal before the penalty applies
	principal := new(big.Int).Add(pos.Amount, plan.compounded)
	elapsed := elapsedSince(pos.StakingStart, now)

	assessment := zeroAssessment()
	if elapsed < pos.Duration {
		assessment = penalty.Assess(principal, elapsed, pos.Duration, penalty.SingleUnstakeSplit)
	}
	returned := new(big.Int).Sub(principal, assessment.Total)

	// external legs, any failure aborts with no internal mutation; the
	// caller-paying transfer is the last fallible step
	if err = s.settleExternals(caller, plan); err != nil {
		return err
	}
	if err = s.penaltyExternals(assessment); err != nil {
		return err
	}
	if returned.Sign() > 0 && !s.custody.Transfer(caller, returned) {
		return reverts.ErrTransferFailed
	}

	// commit
	s.commitSettlement(caller, project, plan, now)
	s.ledger.Clear(caller, project)
	s.projects.DecrementStakerCount(project)
	if assessment.Total.Sign() > 0 {
		s.penalties.Append(caller, project, now, assessment)
		metricPenalties().Add(assessment.Total.Int64())
	}
	s.syncStatus(caller)

	s.emit(&Event{
		Time: now, Op: OpUnstake, User: caller, Project: project,
		Amount: principal,
		Delta: map[string]string{
			"returned": returned.String(),
			"penalty":  assessment.Total.String(),
			"balance":  s.ledger.Balance(caller).String(),
			"total":    s.ledger.Total().String(),
		},
	})
	logger.Debug("unstaked", "user", caller, "project", project, "returned", returned, "penalty", assessment.Total)

	s.notifyAdvisor()
	return nil
}

// ClaimRewards settles the caller's pending reward without touching the
// position's principal.
func (s *Staking) ClaimRewards(caller helix.Address, project uint32, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpClaimRewards, &err)

	pos := s.ledger.Get(caller, project)
	if pos == nil {
		return reverts.ErrNoActivePosition
	}

	plan := s.planSettlement(pos, now)
	if err = s.settleExternals(caller, plan); err != nil {
		return err
	}

	s.commitSettlement(caller, project, plan, now)
	s.syncStatus(caller) // compounding may have moved the balance

	s.emit(&Event{
		Time: now, Op: OpClaimRewards, User: caller, Project: project,
		Amount: plan.gross,
		Delta: map[string]string{
			"payout":     plan.payout.String(),
			"compounded": plan.compounded.String(),
			"pool":       plan.toPool.String(),
		},
	})

	// compounding moves the staked total
	s.notifyAdvisor()
	return nil
}

// notifyAdvisor pushes the new staked total to the fee advisor, if any.
func (s *Staking) notifyAdvisor() {
	advisor.Notify(s.adv, "total-staked", s.ledger.Total(), 500)
}

func zeroAssessment() *penalty.Assessment {
	return &penalty.Assessment{
		Total:         new(big.Int),
		Burned:        new(big.Int),
		Redistributed: new(big.Int),
		ToLiquidity:   new(big.Int),
	}
}

func elapsedSince(start, now uint64) uint64 {
	if now < start {
		return 0
	}
	return now - start
}
