// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"math/big"

	"github.com/helixstake/helix/helix"
)

// Event is one applied penalty. Purely historical, never mutated.
type Event struct {
	Project       uint32
	Timestamp     uint64
	Total         *big.Int
	Redistributed *big.Int
	Burned        *big.Int
	ToLiquidity   *big.Int
}

// History is the append-only per-user penalty record.
type History struct {
	events map[helix.Address][]*Event
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{events: make(map[helix.Address][]*Event)}
}

// Append records a penalty event for the user.
func (h *History) Append(user helix.Address, project uint32, timestamp uint64, a *Assessment) *Event {
	ev := &Event{
		Project:       project,
		Timestamp:     timestamp,
		Total:         new(big.Int).Set(a.Total),
		Redistributed: new(big.Int).Set(a.Redistributed),
		Burned:        new(big.Int).Set(a.Burned),
		ToLiquidity:   new(big.Int).Set(a.ToLiquidity),
	}
	h.events[user] = append(h.events[user], ev)
	return ev
}

// Of returns the user's penalty events in append order.
func (h *History) Of(user helix.Address) []*Event {
	evs := h.events[user]
	cpy := make([]*Event, len(evs))
	copy(cpy, evs)
	return cpy
}
