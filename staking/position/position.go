// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/helixstake/helix/helix"
)

// Position is a staker's locked-token commitment to one project.
// A position with zero amount is never stored; absence means "no active position".
type Position struct {
	Amount          *big.Int // token base units, > 0 while the position exists
	StakingStart    uint64   // unix seconds of the first stake into this key
	LastCheckpoint  uint64   // unix seconds of the last reward settlement
	Duration        uint64   // committed lock length, seconds
	IsLPStaker      bool
	HasNFTBoost     bool
	AutoCompounding bool
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	cpy := *p
	cpy.Amount = new(big.Int).Set(p.Amount)
	return &cpy
}

// Key identifies a position by staker and project.
type Key struct {
	Staker  helix.Address
	Project uint32
}
