// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/reverts"
)

// Validator is per-user validator state. The commission survives demotion so
// a re-promoted validator keeps its configured rate.
type Validator struct {
	Active        bool
	CommissionBps uint64
}

// Registry tracks validator promotion/demotion against the balance threshold
// and the shared reward pool.
type Registry struct {
	entries map[helix.Address]*Validator
	active  []helix.Address // enumeration in promotion order
	pool    *big.Int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[helix.Address]*Validator),
		pool:    new(big.Int),
	}
}

// IsActive reports whether the user is an active validator.
func (r *Registry) IsActive(user helix.Address) bool {
	v, ok := r.entries[user]
	return ok && v.Active
}

// Promote activates the user. Returns false if already active, so crossing
// the threshold repeatedly never re-triggers promotion side effects.
func (r *Registry) Promote(user helix.Address) bool {
	v, ok := r.entries[user]
	if !ok {
		v = &Validator{}
		r.entries[user] = v
	}
	if v.Active {
		return false
	}
	v.Active = true
	r.active = append(r.active, user)
	return true
}

// Demote deactivates the user. Returns false if already inactive.
func (r *Registry) Demote(user helix.Address) bool {
	v, ok := r.entries[user]
	if !ok || !v.Active {
		return false
	}
	v.Active = false
	for i, addr := range r.active {
		if addr == user {
			r.active = append(r.active[:i], r.active[i+1:]...)
			break
		}
	}
	return true
}

// SetCommission sets the validator's commission rate in basis points.
func (r *Registry) SetCommission(user helix.Address, bps uint64) error {
	v, ok := r.entries[user]
	if !ok || !v.Active {
		return reverts.ErrNotValidator
	}
	if bps > helix.MaxCommissionBps {
		return reverts.ErrRateTooHigh
	}
	v.CommissionBps = bps
	return nil
}

// Commission returns the user's commission rate in basis points.
func (r *Registry) Commission(user helix.Address) uint64 {
	if v, ok := r.entries[user]; ok {
		return v.CommissionBps
	}
	return 0
}

// Active returns the active validators in promotion order.
func (r *Registry) Active() []helix.Address {
	cpy := make([]helix.Address, len(r.active))
	copy(cpy, r.active)
	return cpy
}

// ActiveCount returns the number of active validators.
func (r *Registry) ActiveCount() int {
	return len(r.active)
}

// AddToPool accrues amount to the shared reward pool.
func (r *Registry) AddToPool(amount *big.Int) {
	r.pool.Add(r.pool, amount)
}

// Pool returns the current shared reward pool.
func (r *Registry) Pool() *big.Int {
	return new(big.Int).Set(r.pool)
}

// ShareOfPool returns the even per-validator share of the current pool,
// zero when no validator is active. The pool itself is untouched; callers
// deduct per payout and ClearPool only once every share went out.
func (r *Registry) ShareOfPool() *big.Int {
	if len(r.active) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Div(r.pool, big.NewInt(int64(len(r.active))))
}

// DeductFromPool removes amount from the shared reward pool, clamped at
// zero.
func (r *Registry) DeductFromPool(amount *big.Int) {
	r.pool.Sub(r.pool, amount)
	if r.pool.Sign() < 0 {
		r.pool.SetUint64(0)
	}
}

// ClearPool zeroes the pool after a distribution.
func (r *Registry) ClearPool() {
	r.pool.SetUint64(0)
}
