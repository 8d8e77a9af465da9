// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package halving

import (
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/rewards"
)

// Scheduler halves the dynamic reward rates on a time-gated schedule.
type Scheduler struct {
	period   uint64 // minimum seconds between permissionless halvings
	epoch    uint64
	lastTime uint64
}

// NewScheduler creates a scheduler anchored at genesis time.
func NewScheduler(genesis uint64) *Scheduler {
	return &Scheduler{
		period:   helix.HalvingPeriod,
		lastTime: genesis,
	}
}

// Epoch returns the number of halvings applied so far.
func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

// LastTime returns the time of the last halving (or genesis).
func (s *Scheduler) LastTime() uint64 {
	return s.lastTime
}

// Due reports whether a permissionless halving may run at time now.
func (s *Scheduler) Due(now uint64) bool {
	return now >= s.lastTime+s.period
}

// ApplyIfDue halves both rates if the gate has passed. Callable by anyone;
// the gate, not the caller, decides. Returns true if a halving was applied.
func (s *Scheduler) ApplyIfDue(rates *rewards.Rates, now uint64) bool {
	if !s.Due(now) {
		return false
	}
	s.apply(rates, now)
	return true
}

// Apply halves both rates unconditionally, bypassing the time gate.
// Reserved for governance-triggered emission cuts.
func (s *Scheduler) Apply(rates *rewards.Rates, now uint64) {
	s.apply(rates, now)
}

func (s *Scheduler) apply(rates *rewards.Rates, now uint64) {
	rates.BaseAPR /= 2
	rates.BoostedAPR /= 2
	if rates.BaseAPR < helix.MinAPR {
		rates.BaseAPR = helix.MinAPR
	}
	if rates.BoostedAPR < helix.MinAPR {
		rates.BoostedAPR = helix.MinAPR
	}
	s.epoch++
	s.lastTime = now
}
