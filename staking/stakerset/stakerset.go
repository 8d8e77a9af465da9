// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakerset

import (
	"github.com/helixstake/helix/helix"
)

// Set is the membership structure of stakers with nonzero aggregate balance.
// Add, Remove and Contains are O(1); removal swaps the last element into the
// vacated slot, so enumeration order is not stable across removals.
type Set struct {
	members []helix.Address
	index   map[helix.Address]int
}

// New creates an empty set.
func New() *Set {
	return &Set{index: make(map[helix.Address]int)}
}

// Add inserts the staker. No-op if already present.
func (s *Set) Add(staker helix.Address) {
	if _, ok := s.index[staker]; ok {
		return
	}
	s.index[staker] = len(s.members)
	s.members = append(s.members, staker)
}

// Remove deletes the staker by swapping with the last element.
// No-op if absent.
func (s *Set) Remove(staker helix.Address) {
	i, ok := s.index[staker]
	if !ok {
		return
	}
	last := len(s.members) - 1
	if i != last {
		s.members[i] = s.members[last]
		s.index[s.members[i]] = i
	}
	s.members = s.members[:last]
	delete(s.index, staker)
}

// Contains reports membership.
func (s *Set) Contains(staker helix.Address) bool {
	_, ok := s.index[staker]
	return ok
}

// Len returns the member count.
func (s *Set) Len() int {
	return len(s.members)
}

// All returns a copy of the membership, in unspecified order.
func (s *Set) All() []helix.Address {
	cpy := make([]helix.Address, len(s.members))
	copy(cpy, s.members)
	return cpy
}
