// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixstake/helix/helix"
)

var alice = helix.BytesToAddress([]byte("alice"))

func TestRecompute(t *testing.T) {
	tr := NewTracker()

	assert.Zero(t, tr.Weight(alice).Sign())

	// below threshold: no weight
	below := new(big.Int).Sub(helix.GovernanceThreshold, big.NewInt(1))
	tr.Recompute(alice, below)
	assert.Zero(t, tr.Weight(alice).Sign())

	// at threshold: weight equals balance
	tr.Recompute(alice, helix.GovernanceThreshold)
	assert.Zero(t, tr.Weight(alice).Cmp(helix.GovernanceThreshold))

	bal := big.NewInt(5000)
	tr.Recompute(alice, bal)
	assert.Equal(t, bal, tr.Weight(alice))

	// dropping below clears it again
	tr.Recompute(alice, big.NewInt(10))
	assert.Zero(t, tr.Weight(alice).Sign())
}

func TestViolator(t *testing.T) {
	tr := NewTracker()
	tr.Recompute(alice, big.NewInt(5000))

	tr.MarkViolator(alice)
	assert.True(t, tr.IsViolator(alice))
	assert.Zero(t, tr.Weight(alice).Sign())

	// idempotent
	tr.MarkViolator(alice)
	assert.True(t, tr.IsViolator(alice))

	// a violator's weight stays pinned at zero through recomputes
	tr.Recompute(alice, big.NewInt(9000))
	assert.Zero(t, tr.Weight(alice).Sign())

	// clearing the mark does not restore weight by itself
	tr.ClearViolator(alice)
	assert.False(t, tr.IsViolator(alice))
	assert.Zero(t, tr.Weight(alice).Sign())
	tr.Recompute(alice, big.NewInt(9000))
	assert.Equal(t, big.NewInt(9000), tr.Weight(alice))
}

func TestSlashVote(t *testing.T) {
	tr := NewTracker()
	tr.Recompute(alice, big.NewInt(5000))

	slashed := tr.SlashVote(alice)
	assert.Equal(t, big.NewInt(5000), slashed)
	assert.True(t, tr.IsViolator(alice))
	assert.Zero(t, tr.Weight(alice).Sign())

	// slashing again reports zero
	assert.Zero(t, tr.SlashVote(alice).Sign())
}
