// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/reverts"
)

// VoteOnProposal records the caller's current voting weight on the proposal.
// The weight is derived here; the governance contract only stores the vote.
func (s *Staking) VoteOnProposal(caller helix.Address, proposalID uint64, support bool, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpVote, &err)

	weight := s.votes.Weight(caller)
	if weight.Sign() == 0 {
		return reverts.ErrNoVotingWeight
	}
	if !s.govern.ProposalExists(proposalID) {
		return reverts.ErrProposalDoesNotExist
	}
	if err = s.govern.RecordVote(proposalID, caller, weight, support); err != nil {
		return err
	}

	s.emit(&Event{
		Time: now, Op: OpVote, User: caller,
		Amount: weight,
		Delta: map[string]string{
			"proposal": formatUint(proposalID),
			"support":  formatBool(support),
		},
	})
	return nil
}

// CreateProposal forwards a proposal to the governance contract on behalf of
// a caller holding voting weight.
func (s *Staking) CreateProposal(caller helix.Address, description string, now uint64) (id uint64, err error) {
	if err = s.enter(); err != nil {
		return 0, err
	}
	defer s.seal(OpCreateProposal, &err)

	if s.votes.Weight(caller).Sign() == 0 {
		return 0, reverts.ErrNoVotingWeight
	}
	if description == "" {
		return 0, reverts.ErrInvalidParameter
	}
	if id, err = s.govern.CreateProposal(caller, description); err != nil {
		return 0, err
	}

	s.emit(&Event{
		Time: now, Op: OpCreateProposal, User: caller,
		Delta: map[string]string{"proposal": formatUint(id)},
	})
	logger.Info("proposal created", "proposer", caller, "id", id)
	return id, nil
}

// MarkGovernanceViolator pins the user's voting weight at zero. Idempotent.
func (s *Staking) MarkGovernanceViolator(caller, user helix.Address, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpMarkViolator, &err)

	if !s.authority.Check(caller, helix.CapGovernance) {
		return reverts.ErrUnauthorized
	}
	s.votes.MarkViolator(user)

	s.emit(&Event{
		Time: now, Op: OpMarkViolator, User: user,
		Delta: map[string]string{"caller": caller.String()},
	})
	logger.Warn("governance violator marked", "user", user, "caller", caller)
	return nil
}

// SlashGovernanceVote marks the user a violator and returns the voting weight
// they held at the moment of the slash, zero if they were already a violator
// or held none.
func (s *Staking) SlashGovernanceVote(caller, user helix.Address, now uint64) (slashed *big.Int, err error) {
	if err = s.enter(); err != nil {
		return nil, err
	}
	defer s.seal(OpSlashGovernanceVote, &err)

	if !s.authority.Check(caller, helix.CapGovernance) {
		return nil, reverts.ErrUnauthorized
	}
	slashed = s.votes.SlashVote(user)

	s.emit(&Event{
		Time: now, Op: OpSlashGovernanceVote, User: user,
		Amount: slashed,
		Delta: map[string]string{"caller": caller.String()},
	})
	logger.Warn("governance vote slashed", "user", user, "weight", slashed, "caller", caller)
	return slashed, nil
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
