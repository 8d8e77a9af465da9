// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package advisor

import (
	"math/big"

	"github.com/helixstake/helix/log"
)

var logger = log.WithContext("pkg", "advisor")

// Advisor is the optional neural/advisory signal sink. Implementations may
// fail or be unavailable at any time.
type Advisor interface {
	// UpdateSignal reports an observed value for the subject with the given
	// smoothing factor (basis points).
	UpdateSignal(subject string, value *big.Int, smoothing uint64) error
}

// Notify pushes a signal to the advisor, discarding any error. Advisory
// failures must never influence the economic path; they are logged at debug
// and otherwise ignored.
func Notify(a Advisor, subject string, value *big.Int, smoothing uint64) {
	if a == nil {
		return
	}
	if err := a.UpdateSignal(subject, value, smoothing); err != nil {
		logger.Debug("advisory signal dropped", "subject", subject, "error", err)
	}
}
