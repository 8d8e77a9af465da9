// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/helixstake/helix/helix"
)

// CustodyLedger is the fungible-token ledger holding staked funds.
// Transfers are atomic and all-or-nothing; a false return aborts the calling
// operation with full rollback.
type CustodyLedger interface {
	Transfer(to helix.Address, amount *big.Int) bool
	TransferFrom(from, to helix.Address, amount *big.Int) bool
}

// ProjectRegistry knows which projects exist and tracks their staker counts.
type ProjectRegistry interface {
	Exists(project uint32) bool
	IncrementStakerCount(project uint32)
	DecrementStakerCount(project uint32)
	ProjectCount() uint32
}

// RewardSink pays out settled rewards and receives redistributed penalties.
type RewardSink interface {
	DistributeReward(user helix.Address, amount *big.Int) bool
	AddPenaltyRewards(amount *big.Int)
}

// NFTRegistry answers boost-NFT holdings.
type NFTRegistry interface {
	HoldsBoostNFT(user helix.Address) bool
}

// GovernanceContract executes proposals and records votes; the engine only
// derives the voting weight.
type GovernanceContract interface {
	CreateProposal(proposer helix.Address, description string) (uint64, error)
	ProposalExists(id uint64) bool
	RecordVote(proposalID uint64, voter helix.Address, weight *big.Int, support bool) error
}
