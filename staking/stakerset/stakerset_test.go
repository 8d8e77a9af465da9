// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakerset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixstake/helix/helix"
)

func addr(name string) helix.Address {
	return helix.BytesToAddress([]byte(name))
}

func TestSet(t *testing.T) {
	s := New()

	assert.Zero(t, s.Len())
	assert.False(t, s.Contains(addr("a")))

	s.Add(addr("a"))
	s.Add(addr("b"))
	s.Add(addr("c"))
	s.Add(addr("b")) // idempotent
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(addr("b")))

	// removing the middle element must keep the others
	s.Remove(addr("b"))
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Contains(addr("b")))
	assert.True(t, s.Contains(addr("a")))
	assert.True(t, s.Contains(addr("c")))

	s.Remove(addr("b")) // idempotent
	assert.Equal(t, 2, s.Len())

	all := s.All()
	assert.ElementsMatch(t, []helix.Address{addr("a"), addr("c")}, all)
}

func TestSetSwapRemove(t *testing.T) {
	s := New()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		s.Add(addr(name))
	}

	// remove everything in an order that exercises both ends
	for _, name := range []string{"a", "e", "c", "b", "d"} {
		s.Remove(addr(name))
		assert.False(t, s.Contains(addr(name)))
	}
	assert.Zero(t, s.Len())
	assert.Empty(t, s.All())
}
