// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tiers

import (
	"github.com/pkg/errors"

	"github.com/helixstake/helix/helix"
)

// Tier grants a reward multiplier and a voting-rights flag to positions
// committed for at least MinDuration seconds.
type Tier struct {
	MinDuration  uint64 // seconds
	Multiplier   uint64 // percent, 100 = 1x
	VotingRights bool
}

// Table is an ordered tier sequence, ascending by MinDuration.
type Table struct {
	tiers []Tier
}

// NewTable builds a table from the given tiers.
// MinDurations must be strictly increasing and multipliers must be positive
// and non-decreasing, which makes the reward multiplier monotone in duration.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, errors.New("tier table must not be empty")
	}
	for i, tier := range tiers {
		if tier.Multiplier == 0 {
			return nil, errors.Errorf("tier %d: zero multiplier", i)
		}
		if i == 0 {
			continue
		}
		if tier.MinDuration <= tiers[i-1].MinDuration {
			return nil, errors.Errorf("tier %d: min duration not increasing", i)
		}
		if tier.Multiplier < tiers[i-1].Multiplier {
			return nil, errors.Errorf("tier %d: multiplier decreasing", i)
		}
	}
	cpy := make([]Tier, len(tiers))
	copy(cpy, tiers)
	return &Table{tiers: cpy}, nil
}

// DefaultTable returns the protocol's initial tier schedule.
func DefaultTable() *Table {
	table, err := NewTable([]Tier{
		{MinDuration: 7 * helix.SecondsPerDay, Multiplier: 100, VotingRights: false},
		{MinDuration: 30 * helix.SecondsPerDay, Multiplier: 125, VotingRights: false},
		{MinDuration: 90 * helix.SecondsPerDay, Multiplier: 150, VotingRights: true},
		{MinDuration: 180 * helix.SecondsPerDay, Multiplier: 200, VotingRights: true},
		{MinDuration: 365 * helix.SecondsPerDay, Multiplier: 300, VotingRights: true},
	})
	if err != nil {
		panic(err)
	}
	return table
}

// Applicable returns the highest tier whose MinDuration <= duration,
// or the lowest tier if none qualifies.
func (t *Table) Applicable(duration uint64) Tier {
	applicable := t.tiers[0]
	for _, tier := range t.tiers[1:] {
		if tier.MinDuration > duration {
			break
		}
		applicable = tier
	}
	return applicable
}

// All returns a copy of the tier sequence.
func (t *Table) All() []Tier {
	cpy := make([]Tier, len(t.tiers))
	copy(cpy, t.tiers)
	return cpy
}

// Len returns the number of tiers.
func (t *Table) Len() int {
	return len(t.tiers)
}
