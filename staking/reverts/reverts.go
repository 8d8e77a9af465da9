// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a domain-level rejection: the operation was refused before any
// state change, or aborted by a collaborator with full rollback. Errors that
// are not ErrRevert indicate internal faults.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevertErr returns true if err wraps an ErrRevert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Input validation rejects. Raised before any state change.
var (
	ErrZeroAmount           = New("amount is zero")
	ErrInsufficientDuration = New("duration below protocol minimum")
	ErrUnknownProject       = New("project is not registered")
	ErrInvalidParameter     = New("invalid parameter")
	ErrBatchTooLarge        = New("batch exceeds maximum item count")
)

// State precondition rejects. Raised before any state change.
var (
	ErrNoActivePosition     = New("no active position")
	ErrNotValidator         = New("not an active validator")
	ErrAlreadyValidator     = New("already an active validator")
	ErrBelowThreshold       = New("balance below validator threshold")
	ErrRateTooHigh          = New("commission rate too high")
	ErrProposalDoesNotExist = New("proposal does not exist")
	ErrNoVotingWeight       = New("no voting weight")
	ErrReentrantCall        = New("reentrant call")
	ErrUnauthorized         = New("caller lacks required capability")
)

// Collaborator failures. The enclosing operation rolls back entirely.
var (
	ErrTransferFailed     = New("custody transfer failed")
	ErrDistributionFailed = New("reward distribution failed")
)
