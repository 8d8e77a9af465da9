// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/helixstake/helix/auth"
	"github.com/helixstake/helix/fortest"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking"
	"github.com/helixstake/helix/staking/tiers"
)

// Config is the YAML protocol configuration. Addresses are hex strings so
// files stay hand-editable; resolve them via the build methods.
type Config struct {
	Accounts struct {
		Custody   string `yaml:"custody"`
		Burn      string `yaml:"burn"`
		Liquidity string `yaml:"liquidity"`
	} `yaml:"accounts"`
	AutoLiquidity bool     `yaml:"autoLiquidity"`
	GenesisTime   uint64   `yaml:"genesisTime"`
	Projects      []uint32 `yaml:"projects"`
	Admins        []struct {
		Address      string   `yaml:"address"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"admins"`
	Tiers []struct {
		MinDuration  uint64 `yaml:"minDuration"`
		Multiplier   uint64 `yaml:"multiplier"`
		VotingRights bool   `yaml:"votingRights"`
	} `yaml:"tiers"`
}

// defaultConfig is the devnet setup: protocol accounts derived from fixed
// names, the first dev account holding every capability, and two projects.
func defaultConfig() *Config {
	cfg := &Config{
		AutoLiquidity: true,
		Projects:      []uint32{1, 2},
	}
	cfg.Accounts.Custody = helix.BytesToAddress([]byte("custody")).String()
	cfg.Accounts.Burn = helix.BytesToAddress([]byte("burn")).String()
	cfg.Accounts.Liquidity = helix.BytesToAddress([]byte("liquidity")).String()
	cfg.Admins = append(cfg.Admins, struct {
		Address      string   `yaml:"address"`
		Capabilities []string `yaml:"capabilities"`
	}{
		Address:      fortest.Accounts[0].String(),
		Capabilities: []string{helix.CapSlash, helix.CapHalving, helix.CapGovernance},
	})
	return cfg
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithMessage(err, "parse config")
	}
	return cfg, nil
}

// EngineConfig resolves the protocol accounts into a staking.Config.
func (c *Config) EngineConfig() (staking.Config, error) {
	var out staking.Config
	custody, err := helix.ParseAddress(c.Accounts.Custody)
	if err != nil {
		return out, errors.WithMessage(err, "accounts.custody")
	}
	burn, err := helix.ParseAddress(c.Accounts.Burn)
	if err != nil {
		return out, errors.WithMessage(err, "accounts.burn")
	}
	liquidity, err := helix.ParseAddress(c.Accounts.Liquidity)
	if err != nil {
		return out, errors.WithMessage(err, "accounts.liquidity")
	}
	out = staking.Config{
		CustodyAccount:   *custody,
		BurnAccount:      *burn,
		LiquidityAccount: *liquidity,
		AutoLiquidity:    c.AutoLiquidity,
		GenesisTime:      c.GenesisTime,
	}
	return out, nil
}

// TierTable builds the tier table, falling back to the protocol default when
// the config names none.
func (c *Config) TierTable() (*tiers.Table, error) {
	if len(c.Tiers) == 0 {
		return tiers.DefaultTable(), nil
	}
	rows := make([]tiers.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		rows = append(rows, tiers.Tier{
			MinDuration:  t.MinDuration,
			Multiplier:   t.Multiplier,
			VotingRights: t.VotingRights,
		})
	}
	return tiers.NewTable(rows)
}

// Authority builds the capability registry from the admin grants.
func (c *Config) Authority() (*auth.Registry, error) {
	registry := auth.NewRegistry()
	for i, admin := range c.Admins {
		addr, err := helix.ParseAddress(admin.Address)
		if err != nil {
			return nil, errors.WithMessagef(err, "admins[%d].address", i)
		}
		for _, capability := range admin.Capabilities {
			registry.Grant(*addr, auth.Capability(capability))
		}
	}
	return registry, nil
}
