// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/helixstake/helix/helix"
)

// Ledger owns all staking positions and keeps the per-staker aggregate
// balances and the protocol-wide staked total in sync with them.
//
// Mutating methods are infallible by design: the engine validates inputs and
// performs all fallible collaborator calls before committing to the ledger.
type Ledger struct {
	positions map[Key]*Position
	projects  map[helix.Address][]uint32 // project ids with an open position, insertion order
	balances  map[helix.Address]*big.Int
	total     *big.Int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		positions: make(map[Key]*Position),
		projects:  make(map[helix.Address][]uint32),
		balances:  make(map[helix.Address]*big.Int),
		total:     new(big.Int),
	}
}

// Get returns a copy of the position, or nil if no active position exists.
func (l *Ledger) Get(staker helix.Address, project uint32) *Position {
	pos, ok := l.positions[Key{staker, project}]
	if !ok {
		return nil
	}
	return pos.Clone()
}

// Exists returns true if an active position exists for the key.
func (l *Ledger) Exists(staker helix.Address, project uint32) bool {
	_, ok := l.positions[Key{staker, project}]
	return ok
}

// Credit adds amount to the (staker, project) position, creating it if absent.
// Duration, boost and compounding flags are overwritten on every stake; the
// checkpoint resets to now. amount must be positive.
func (l *Ledger) Credit(staker helix.Address, project uint32, amount *big.Int, now, duration uint64, isLP, hasNFT, autoCompound bool) {
	key := Key{staker, project}
	pos, ok := l.positions[key]
	if !ok {
		pos = &Position{
			Amount:       new(big.Int),
			StakingStart: now,
		}
		l.positions[key] = pos
		l.projects[staker] = append(l.projects[staker], project)
	}
	pos.Amount.Add(pos.Amount, amount)
	pos.LastCheckpoint = now
	pos.Duration = duration
	pos.IsLPStaker = isLP
	pos.HasNFTBoost = hasNFT
	pos.AutoCompounding = autoCompound

	l.addBalance(staker, amount)
}

// Compound folds a settled reward share back into the position without
// touching timing or flags.
func (l *Ledger) Compound(staker helix.Address, project uint32, amount *big.Int) {
	pos, ok := l.positions[Key{staker, project}]
	if !ok {
		return
	}
	pos.Amount.Add(pos.Amount, amount)
	l.addBalance(staker, amount)
}

// Checkpoint advances the position's last settlement time.
func (l *Ledger) Checkpoint(staker helix.Address, project uint32, now uint64) {
	if pos, ok := l.positions[Key{staker, project}]; ok {
		pos.LastCheckpoint = now
	}
}

// Clear destroys the position and returns the amount it held.
// Returns nil if no active position exists.
func (l *Ledger) Clear(staker helix.Address, project uint32) *big.Int {
	key := Key{staker, project}
	pos, ok := l.positions[key]
	if !ok {
		return nil
	}
	amount := pos.Amount
	delete(l.positions, key)
	l.removeProject(staker, project)
	l.subBalance(staker, amount)
	return amount
}

// Deduct removes amount from the position without destroying it, used by
// validator slashing. If the position drops to zero it is destroyed.
// amount must not exceed the position's amount.
func (l *Ledger) Deduct(staker helix.Address, project uint32, amount *big.Int) {
	key := Key{staker, project}
	pos, ok := l.positions[key]
	if !ok {
		return
	}
	pos.Amount.Sub(pos.Amount, amount)
	if pos.Amount.Sign() == 0 {
		delete(l.positions, key)
		l.removeProject(staker, project)
	}
	l.subBalance(staker, amount)
}

// Balance returns the staker's aggregate staked balance.
func (l *Ledger) Balance(staker helix.Address) *big.Int {
	if bal, ok := l.balances[staker]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Total returns the protocol-wide staked total.
func (l *Ledger) Total() *big.Int {
	return new(big.Int).Set(l.total)
}

// Projects returns the project ids the staker holds positions in,
// in insertion order.
func (l *Ledger) Projects(staker helix.Address) []uint32 {
	ids := l.projects[staker]
	cpy := make([]uint32, len(ids))
	copy(cpy, ids)
	return cpy
}

func (l *Ledger) addBalance(staker helix.Address, amount *big.Int) {
	bal, ok := l.balances[staker]
	if !ok {
		bal = new(big.Int)
		l.balances[staker] = bal
	}
	bal.Add(bal, amount)
	l.total.Add(l.total, amount)
}

func (l *Ledger) subBalance(staker helix.Address, amount *big.Int) {
	bal := l.balances[staker]
	bal.Sub(bal, amount)
	if bal.Sign() == 0 {
		delete(l.balances, staker)
	}
	l.total.Sub(l.total, amount)
}

func (l *Ledger) removeProject(staker helix.Address, project uint32) {
	ids := l.projects[staker]
	for i, id := range ids {
		if id == project {
			// order-preserving removal, the slice is bounded by the
			// number of registered projects
			l.projects[staker] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(l.projects[staker]) == 0 {
		delete(l.projects, staker)
	}
}
