// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixstake/helix/auth"
	"github.com/helixstake/helix/fortest"
	"github.com/helixstake/helix/helix"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	engineCfg, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.False(t, engineCfg.CustodyAccount.IsZero())
	assert.True(t, engineCfg.AutoLiquidity)

	table, err := cfg.TierTable()
	require.NoError(t, err)
	assert.NotEmpty(t, table.All())

	authority, err := cfg.Authority()
	require.NoError(t, err)
	assert.True(t, authority.Check(fortest.Accounts[0], helix.CapSlash))
	assert.True(t, authority.Check(fortest.Accounts[0], helix.CapHalving))
	assert.False(t, authority.Check(fortest.Accounts[1], helix.CapSlash))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
accounts:
  custody: "0x0000000000000000000000000000000000000011"
  burn: "0x0000000000000000000000000000000000000022"
  liquidity: "0x0000000000000000000000000000000000000033"
autoLiquidity: false
genesisTime: 1700000000
projects: [7]
admins:
  - address: "0x0000000000000000000000000000000000000044"
    capabilities: [cap-halving]
tiers:
  - minDuration: 604800
    multiplier: 100
    votingRights: false
  - minDuration: 2592000
    multiplier: 150
    votingRights: true
`), 0600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	engineCfg, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.False(t, engineCfg.AutoLiquidity)
	assert.Equal(t, uint64(1700000000), engineCfg.GenesisTime)

	table, err := cfg.TierTable()
	require.NoError(t, err)
	assert.Len(t, table.All(), 2)

	authority, err := cfg.Authority()
	require.NoError(t, err)
	admin, err := helix.ParseAddress("0x0000000000000000000000000000000000000044")
	require.NoError(t, err)
	assert.True(t, authority.Check(*admin, auth.Capability("cap-halving")))
	assert.False(t, authority.Check(*admin, helix.CapSlash))

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
