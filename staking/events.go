// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"strconv"

	"github.com/helixstake/helix/helix"
)

// Event records one committed mutating operation and its state delta.
type Event struct {
	Seq     uint64
	Time    uint64
	Op      string
	User    helix.Address
	Project uint32
	Amount  *big.Int
	// Delta carries operation-specific figures (new balance, penalty split,
	// halving epoch, ...), stringified for stable serialization.
	Delta map[string]string
}

// EventSink receives the events of a committed operation, in order.
// Sink failures are observability losses, not operation failures.
type EventSink interface {
	SaveEvents(events []*Event) error
}

// Operation names as emitted in events.
const (
	OpStake               = "stake"
	OpUnstake             = "unstake"
	OpBatchStake          = "batch-stake"
	OpBatchUnstake        = "batch-unstake"
	OpClaimRewards        = "claim-rewards"
	OpBecomeValidator     = "become-validator"
	OpUpdateCommission    = "update-commission"
	OpClaimValidatorPool  = "claim-validator-pool"
	OpSlash               = "slash"
	OpHalving             = "halving"
	OpAdjustRates         = "adjust-rates"
	OpVote                = "vote"
	OpCreateProposal      = "create-proposal"
	OpMarkViolator        = "mark-violator"
	OpSlashGovernanceVote = "slash-governance-vote"
)

// emit buffers an event in the current journal level. Buffered events reach
// the sink only when the operation commits; a failed operation discards them
// wholesale, so sinks never observe a partial operation.
func (s *Staking) emit(ev *Event) {
	s.seq++
	ev.Seq = s.seq
	if ev.Amount == nil {
		ev.Amount = new(big.Int)
	}
	s.journal.Put(ev.Seq, ev)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
