// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/helixstake/helix/api/utils"
	"github.com/helixstake/helix/eventdb"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking"
	"github.com/helixstake/helix/staking/reverts"
)

// Staking exposes the staking engine over REST. The engine executes one
// operation at a time; the mutex provides that total ordering for both
// mutations and reads.
type Staking struct {
	mu     sync.Mutex
	engine *staking.Staking
	events *eventdb.EventDB // may be nil
	nowFn  func() uint64
}

func New(engine *staking.Staking, events *eventdb.EventDB) *Staking {
	return &Staking{
		engine: engine,
		events: events,
		nowFn:  func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// at resolves the effective operation time: an explicit value wins, zero
// means the server clock.
func (s *Staking) at(explicit uint64) uint64 {
	if explicit != 0 {
		return explicit
	}
	return s.nowFn()
}

// convertError maps domain rejects to 4xx and leaves internal faults as 500.
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reverts.ErrUnauthorized):
		return utils.Forbidden(err)
	case reverts.IsRevertErr(err):
		return utils.BadRequest(err)
	default:
		return err
	}
}

func parseAddressVar(req *http.Request) (helix.Address, error) {
	addr, err := helix.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return helix.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func amountOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

func (s *Staking) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	s.mu.Lock()
	total := s.engine.GetTotalStaked()
	s.mu.Unlock()
	return utils.WriteJSON(w, utils.M{"total": (*math.HexOrDecimal256)(total)})
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	s.mu.Lock()
	rates := s.engine.Rates()
	params := &Params{
		BaseAPR:            rates.BaseAPR,
		BoostedAPR:         rates.BoostedAPR,
		HalvingEpoch:       s.engine.HalvingEpoch(),
		LastHalvingTime:    s.engine.LastHalvingTime(),
		TotalStaked:        (*math.HexOrDecimal256)(s.engine.GetTotalStaked()),
		ActiveStakers:      s.engine.ActiveStakerCount(),
		ValidatorPool:      (*math.HexOrDecimal256)(s.engine.ValidatorPool()),
		ValidatorThreshold: (*math.HexOrDecimal256)(helix.ValidatorThreshold),
		MinStakeDuration:   helix.MinStakeDuration,
		MaxBatchItems:      helix.MaxBatchItems,
	}
	s.mu.Unlock()
	return utils.WriteJSON(w, params)
}

func (s *Staking) handleTopStakers(w http.ResponseWriter, req *http.Request) error {
	limit := 10
	if v := req.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return utils.BadRequest(errors.New("limit: not a non-negative integer"))
		}
		limit = parsed
	}

	s.mu.Lock()
	top := s.engine.GetTopStakers(limit)
	stakers := make([]*Staker, 0, len(top))
	for _, addr := range top {
		stakers = append(stakers, s.stakerSummary(addr))
	}
	s.mu.Unlock()
	return utils.WriteJSON(w, stakers)
}

// stakerSummary must be called with the lock held.
func (s *Staking) stakerSummary(addr helix.Address) *Staker {
	return &Staker{
		Address:   addr,
		Balance:   (*math.HexOrDecimal256)(s.engine.GetUserTotalStake(addr)),
		Votes:     (*math.HexOrDecimal256)(s.engine.GetGovernanceVotes(addr)),
		Validator: s.engine.IsValidator(addr),
		Violator:  s.engine.IsGovernanceViolator(addr),
		Projects:  s.engine.GetUserPositions(addr),
	}
}

func (s *Staking) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddressVar(req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	summary := s.stakerSummary(addr)
	s.mu.Unlock()
	return utils.WriteJSON(w, summary)
}

func (s *Staking) handleGetPositions(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddressVar(req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	projects := s.engine.GetUserPositions(addr)
	positions := make([]*Position, 0, len(projects))
	for _, project := range projects {
		if pos := s.engine.GetUserStake(addr, project); pos != nil {
			positions = append(positions, convertPosition(project, pos))
		}
	}
	s.mu.Unlock()
	return utils.WriteJSON(w, positions)
}

func (s *Staking) handleGetPenalties(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddressVar(req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	history := s.engine.GetPenaltyHistory(addr)
	events := make([]*PenaltyEvent, 0, len(history))
	for _, ev := range history {
		events = append(events, convertPenaltyEvent(ev))
	}
	s.mu.Unlock()
	return utils.WriteJSON(w, events)
}

func (s *Staking) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddressVar(req)
	if err != nil {
		return err
	}
	project, err := strconv.ParseUint(req.URL.Query().Get("project"), 10, 32)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "project"))
	}
	now := uint64(0)
	if v := req.URL.Query().Get("now"); v != "" {
		if now, err = strconv.ParseUint(v, 10, 64); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "now"))
		}
	}

	s.mu.Lock()
	pending := s.engine.PendingReward(addr, uint32(project), s.at(now))
	s.mu.Unlock()
	return utils.WriteJSON(w, utils.M{"pending": (*math.HexOrDecimal256)(pending)})
}

func (s *Staking) handleGetValidator(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddressVar(req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	v := &Validator{
		Address:       addr,
		Active:        s.engine.IsValidator(addr),
		CommissionBps: s.engine.ValidatorCommission(addr),
		PoolShare:     (*math.HexOrDecimal256)(s.engine.ValidatorPool()),
	}
	s.mu.Unlock()
	return utils.WriteJSON(w, v)
}

func (s *Staking) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddressVar(req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	votes := s.engine.GetGovernanceVotes(addr)
	violator := s.engine.IsGovernanceViolator(addr)
	s.mu.Unlock()
	return utils.WriteJSON(w, utils.M{
		"votes":    (*math.HexOrDecimal256)(votes),
		"violator": violator,
	})
}

func (s *Staking) handleGetTiers(w http.ResponseWriter, _ *http.Request) error {
	s.mu.Lock()
	all := s.engine.Tiers()
	s.mu.Unlock()

	converted := make([]Tier, 0, len(all))
	for _, t := range all {
		converted = append(converted, convertTier(t))
	}
	return utils.WriteJSON(w, converted)
}

func (s *Staking) handleApplicableTier(w http.ResponseWriter, req *http.Request) error {
	duration, err := strconv.ParseUint(req.URL.Query().Get("duration"), 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "duration"))
	}
	s.mu.Lock()
	tier := s.engine.GetApplicableTier(duration)
	s.mu.Unlock()
	return utils.WriteJSON(w, convertTier(tier))
}

func (s *Staking) handleGetEvents(w http.ResponseWriter, req *http.Request) error {
	if s.events == nil {
		return utils.HTTPError(errors.New("event store not enabled"), http.StatusNotFound)
	}
	filter := &eventdb.Filter{Op: req.URL.Query().Get("op")}
	if v := req.URL.Query().Get("user"); v != "" {
		addr, err := helix.ParseAddress(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "user"))
		}
		filter.User = addr
	}
	if v := req.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "limit"))
		}
		filter.Order = eventdb.DESC
		filter.Options = &eventdb.Options{Limit: limit}
	}
	events, err := s.events.Filter(filter)
	if err != nil {
		return err
	}
	converted := make([]*Event, 0, len(events))
	for _, ev := range events {
		converted = append(converted, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, converted)
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.Stake(body.Caller, body.Project, amountOf(body.Amount), body.Duration, body.IsLP, body.AutoCompound, s.at(body.Now))
	balance := s.engine.GetUserTotalStake(body.Caller)
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"balance": (*math.HexOrDecimal256)(balance)})
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.Unstake(body.Caller, body.Project, s.at(body.Now))
	balance := s.engine.GetUserTotalStake(body.Caller)
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"balance": (*math.HexOrDecimal256)(balance)})
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.ClaimRewards(body.Caller, body.Project, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (s *Staking) handleBatchStake(w http.ResponseWriter, req *http.Request) error {
	var body BatchStakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	items := make([]staking.StakeItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, staking.StakeItem{
			Project:      item.Project,
			Amount:       amountOf(item.Amount),
			Duration:     item.Duration,
			IsLP:         item.IsLP,
			AutoCompound: item.AutoCompound,
		})
	}

	s.mu.Lock()
	err := s.engine.BatchStake(body.Caller, items, s.at(body.Now))
	balance := s.engine.GetUserTotalStake(body.Caller)
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"balance": (*math.HexOrDecimal256)(balance)})
}

func (s *Staking) handleBatchUnstake(w http.ResponseWriter, req *http.Request) error {
	var body BatchUnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.BatchUnstake(body.Caller, body.Projects, s.at(body.Now))
	balance := s.engine.GetUserTotalStake(body.Caller)
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"balance": (*math.HexOrDecimal256)(balance)})
}

func (s *Staking) handleRegisterValidator(w http.ResponseWriter, req *http.Request) error {
	var body RegisterValidatorRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.BecomeValidator(body.Caller, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (s *Staking) handleCommission(w http.ResponseWriter, req *http.Request) error {
	var body CommissionRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.UpdateValidatorCommission(body.Caller, body.Bps, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (s *Staking) handleValidatorClaim(w http.ResponseWriter, req *http.Request) error {
	var body RegisterValidatorRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.ClaimValidatorRewards(body.Caller, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (s *Staking) handleSlash(w http.ResponseWriter, req *http.Request) error {
	var body SlashRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.Slash(body.Caller, body.Target, amountOf(body.Amount), s.at(body.Now))
	balance := s.engine.GetUserTotalStake(body.Target)
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"balance": (*math.HexOrDecimal256)(balance)})
}

func (s *Staking) handleHalving(w http.ResponseWriter, req *http.Request) error {
	var body HalvingRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	var (
		applied bool
		err     error
	)
	if body.Force {
		err = s.engine.ApplyHalving(body.Caller, s.at(body.Now))
		applied = err == nil
	} else {
		applied, err = s.engine.ApplyHalvingIfNeeded(body.Caller, s.at(body.Now))
	}
	epoch := s.engine.HalvingEpoch()
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"applied": applied, "epoch": epoch})
}

func (s *Staking) handleVote(w http.ResponseWriter, req *http.Request) error {
	var body VoteRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.VoteOnProposal(body.Caller, body.Proposal, body.Support, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (s *Staking) handleCreateProposal(w http.ResponseWriter, req *http.Request) error {
	var body ProposalRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	id, err := s.engine.CreateProposal(body.Caller, body.Description, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"proposal": id})
}

func (s *Staking) handleMarkViolator(w http.ResponseWriter, req *http.Request) error {
	var body ViolatorRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	err := s.engine.MarkGovernanceViolator(body.Caller, body.User, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"ok": true})
}

func (s *Staking) handleSlashVote(w http.ResponseWriter, req *http.Request) error {
	var body ViolatorRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	s.mu.Lock()
	slashed, err := s.engine.SlashGovernanceVote(body.Caller, body.User, s.at(body.Now))
	s.mu.Unlock()

	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"slashed": (*math.HexOrDecimal256)(slashed)})
}

// ApplyDueHalving runs the permissionless halving check under the same lock
// that serializes HTTP requests. The keeper loop calls this periodically.
func (s *Staking) ApplyDueHalving(caller helix.Address, now uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ApplyHalvingIfNeeded(caller, now)
}

// Mount registers all staking routes on the router.
func (s *Staking) Mount(root *mux.Router) {
	root.Path("/staking/total").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotal))
	root.Path("/staking/params").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	root.Path("/staking/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	root.Path("/staking/unstake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	root.Path("/staking/claim").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	root.Path("/staking/batch/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleBatchStake))
	root.Path("/staking/batch/unstake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleBatchUnstake))

	root.Path("/stakers/top").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleTopStakers))
	root.Path("/stakers/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
	root.Path("/stakers/{address}/positions").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetPositions))
	root.Path("/stakers/{address}/penalties").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetPenalties))
	root.Path("/stakers/{address}/reward").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetReward))

	root.Path("/validators/register").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleRegisterValidator))
	root.Path("/validators/commission").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleCommission))
	root.Path("/validators/claim").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleValidatorClaim))
	root.Path("/validators/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetValidator))

	root.Path("/governance/votes/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetVotes))
	root.Path("/governance/vote").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleVote))
	root.Path("/governance/proposals").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleCreateProposal))

	root.Path("/tiers").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetTiers))
	root.Path("/tiers/applicable").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleApplicableTier))

	root.Path("/events").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetEvents))

	root.Path("/admin/slash").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleSlash))
	root.Path("/admin/halving").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleHalving))
	root.Path("/admin/violator").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleMarkViolator))
	root.Path("/admin/slash-vote").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleSlashVote))
}
