// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking/reverts"
)

// ApplyHalvingIfNeeded halves both reward rates if a full halving period has
// passed since the last one. Callable by anyone; the time gate is the only
// protection, so calling it early is a committed no-op, not an error.
func (s *Staking) ApplyHalvingIfNeeded(caller helix.Address, now uint64) (applied bool, err error) {
	if err = s.enter(); err != nil {
		return false, err
	}
	defer s.seal(OpHalving, &err)

	if !s.scheduler.ApplyIfDue(&s.rates, now) {
		return false, nil
	}
	s.emitHalving(caller, now)
	return true, nil
}

// ApplyHalving halves both reward rates unconditionally, bypassing the time
// gate, for governance-coordinated emission cuts.
func (s *Staking) ApplyHalving(caller helix.Address, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpHalving, &err)

	if !s.authority.Check(caller, helix.CapHalving) {
		return reverts.ErrUnauthorized
	}
	s.scheduler.Apply(&s.rates, now)
	s.emitHalving(caller, now)
	return nil
}

// AdjustRates overwrites both reward rates directly, clamped to the protocol
// floor. This is the escape hatch for emission changes that are not halvings.
func (s *Staking) AdjustRates(caller helix.Address, baseAPR, boostedAPR uint64, now uint64) (err error) {
	if err = s.enter(); err != nil {
		return err
	}
	defer s.seal(OpAdjustRates, &err)

	if !s.authority.Check(caller, helix.CapHalving) {
		return reverts.ErrUnauthorized
	}
	if baseAPR < helix.MinAPR {
		baseAPR = helix.MinAPR
	}
	if boostedAPR < helix.MinAPR {
		boostedAPR = helix.MinAPR
	}
	s.rates.BaseAPR = baseAPR
	s.rates.BoostedAPR = boostedAPR

	s.emit(&Event{
		Time: now, Op: OpAdjustRates, User: caller,
		Delta: map[string]string{
			"base_apr":    formatUint(baseAPR),
			"boosted_apr": formatUint(boostedAPR),
		},
	})
	logger.Info("reward rates adjusted", "base", baseAPR, "boosted", boostedAPR, "caller", caller)
	return nil
}

func (s *Staking) emitHalving(caller helix.Address, now uint64) {
	epoch := s.scheduler.Epoch()
	metricEpoch().Set(int64(epoch))
	s.emit(&Event{
		Time: now, Op: OpHalving, User: caller,
		Delta: map[string]string{
			"epoch":       formatUint(epoch),
			"base_apr":    formatUint(s.rates.BaseAPR),
			"boosted_apr": formatUint(s.rates.BoostedAPR),
		},
	})
	logger.Info("halving applied", "epoch", epoch, "base", s.rates.BaseAPR, "boosted", s.rates.BoostedAPR)
}
