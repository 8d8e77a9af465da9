// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"github.com/helixstake/helix/helix"
)

// Capability is an opaque permission token. Operations name the capability
// they require; the registry decides who holds it.
type Capability string

// Registry maps addresses to held capabilities. It replaces role-modifier
// patterns with an explicit (caller, capability) check.
type Registry struct {
	grants map[helix.Address]map[Capability]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{grants: make(map[helix.Address]map[Capability]bool)}
}

// Grant gives the holder the capability. Idempotent.
func (r *Registry) Grant(holder helix.Address, c Capability) {
	caps, ok := r.grants[holder]
	if !ok {
		caps = make(map[Capability]bool)
		r.grants[holder] = caps
	}
	caps[c] = true
}

// Revoke removes the capability from the holder.
func (r *Registry) Revoke(holder helix.Address, c Capability) {
	if caps, ok := r.grants[holder]; ok {
		delete(caps, c)
		if len(caps) == 0 {
			delete(r.grants, holder)
		}
	}
}

// Check reports whether the caller holds the capability.
func (r *Registry) Check(caller helix.Address, c Capability) bool {
	return r.grants[caller][c]
}
