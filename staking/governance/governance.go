// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/helixstake/helix/helix"
)

// Tracker derives governance voting weight from staked balance.
// Weight equals the balance once it reaches the governance threshold; marked
// violators are pinned at zero regardless of balance.
type Tracker struct {
	weights   map[helix.Address]*big.Int
	violators map[helix.Address]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		weights:   make(map[helix.Address]*big.Int),
		violators: make(map[helix.Address]bool),
	}
}

// Recompute derives the user's weight from the given staked balance.
// Called as a side effect of every balance change.
func (t *Tracker) Recompute(user helix.Address, balance *big.Int) {
	if t.violators[user] || balance.Cmp(helix.GovernanceThreshold) < 0 {
		delete(t.weights, user)
		return
	}
	t.weights[user] = new(big.Int).Set(balance)
}

// Weight returns the user's current voting weight.
func (t *Tracker) Weight(user helix.Address) *big.Int {
	if w, ok := t.weights[user]; ok {
		return new(big.Int).Set(w)
	}
	return new(big.Int)
}

// IsViolator reports whether the user is marked.
func (t *Tracker) IsViolator(user helix.Address) bool {
	return t.violators[user]
}

// MarkViolator pins the user's weight at zero. Idempotent.
func (t *Tracker) MarkViolator(user helix.Address) {
	t.violators[user] = true
	delete(t.weights, user)
}

// ClearViolator lifts the mark. The weight stays zero until the next
// balance-driven recompute.
func (t *Tracker) ClearViolator(user helix.Address) {
	delete(t.violators, user)
}

// SlashVote marks the user a violator and returns the weight held before the
// mark, zero if the user was already a violator or held none. This is the
// only path reporting the slashed amount to the caller.
func (t *Tracker) SlashVote(user helix.Address) *big.Int {
	slashed := t.Weight(user)
	t.MarkViolator(user)
	return slashed
}
