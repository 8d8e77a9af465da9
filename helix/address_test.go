// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package helix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	// without 0x prefix
	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0x123")
	assert.Error(t, err)
	_, err = ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte("bob"))
	text, err := addr.MarshalText()
	require.NoError(t, err)

	var back Address
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, addr, back)
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, BytesToAddress([]byte{1}).IsZero())
}
