// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package advisor

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type recording struct {
	subject string
	value   *big.Int
	err     error
}

func (r *recording) UpdateSignal(subject string, value *big.Int, smoothing uint64) error {
	r.subject = subject
	r.value = value
	return r.err
}

func TestNotify(t *testing.T) {
	r := &recording{}
	Notify(r, "total-staked", big.NewInt(42), 500)
	assert.Equal(t, "total-staked", r.subject)
	assert.Equal(t, big.NewInt(42), r.value)
}

func TestNotifySwallowsErrors(t *testing.T) {
	r := &recording{err: errors.New("unavailable")}
	assert.NotPanics(t, func() {
		Notify(r, "total-staked", big.NewInt(1), 500)
	})
}

func TestNotifyNilAdvisor(t *testing.T) {
	assert.NotPanics(t, func() {
		Notify(nil, "total-staked", big.NewInt(1), 500)
	})
}
