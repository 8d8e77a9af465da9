// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stakingapi "github.com/helixstake/helix/api/staking"
	"github.com/helixstake/helix/auth"
	"github.com/helixstake/helix/eventdb"
	"github.com/helixstake/helix/fortest"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking"
	"github.com/helixstake/helix/staking/tiers"
)

type testServer struct {
	*httptest.Server
	custody *fortest.Custody
	admin   helix.Address
}

func newTestServer(t *testing.T) *testServer {
	table, err := tiers.NewTable([]tiers.Tier{
		{MinDuration: helix.MinStakeDuration, Multiplier: 100, VotingRights: true},
	})
	require.NoError(t, err)

	authority := auth.NewRegistry()
	admin := fortest.Accounts[9]
	authority.Grant(admin, helix.CapSlash)
	authority.Grant(admin, helix.CapHalving)
	authority.Grant(admin, helix.CapGovernance)

	custody := fortest.NewCustody()
	for _, acc := range fortest.Accounts {
		custody.Mint(acc, new(big.Int).Mul(helix.LowStakeThreshold, big.NewInt(10)))
	}

	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(edb.Close)

	engine := staking.New(
		staking.Config{
			CustodyAccount:   helix.BytesToAddress([]byte("custody")),
			BurnAccount:      helix.BytesToAddress([]byte("burn")),
			LiquidityAccount: helix.BytesToAddress([]byte("liquidity")),
			GenesisTime:      1,
		},
		table,
		authority,
		custody,
		fortest.NewProjects(1, 2),
		fortest.NewSink(),
		fortest.NewNFT(),
		fortest.NewGovernance(),
		nil,
		edb,
	)

	router := mux.NewRouter()
	stakingapi.New(engine, edb).Mount(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, custody: custody, admin: admin}
}

func (ts *testServer) post(t *testing.T, path string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func (ts *testServer) get(t *testing.T, path string) (int, []byte) {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func amount(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func TestStakeAndQuery(t *testing.T) {
	ts := newTestServer(t)
	alice := fortest.Accounts[0]

	code, body := ts.post(t, "/staking/stake", &stakingapi.StakeRequest{
		Caller:   alice,
		Project:  1,
		Amount:   amount(1000),
		Duration: helix.MinStakeDuration,
		Now:      100,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	var staked struct {
		Balance *math.HexOrDecimal256 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(body, &staked))
	assert.Equal(t, big.NewInt(1000), (*big.Int)(staked.Balance))

	code, body = ts.get(t, "/staking/total")
	require.Equal(t, http.StatusOK, code)
	var total struct {
		Total *math.HexOrDecimal256 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &total))
	assert.Equal(t, big.NewInt(1000), (*big.Int)(total.Total))

	code, body = ts.get(t, "/stakers/"+alice.String())
	require.Equal(t, http.StatusOK, code)
	var staker stakingapi.Staker
	require.NoError(t, json.Unmarshal(body, &staker))
	assert.Equal(t, alice, staker.Address)
	assert.Equal(t, []uint32{1}, staker.Projects)
	assert.False(t, staker.Validator)

	code, body = ts.get(t, "/stakers/"+alice.String()+"/positions")
	require.Equal(t, http.StatusOK, code)
	var positions []*stakingapi.Position
	require.NoError(t, json.Unmarshal(body, &positions))
	require.Len(t, positions, 1)
	assert.Equal(t, uint32(1), positions[0].Project)
	assert.Equal(t, uint64(100), positions[0].StakingStart)
}

func TestStakeRejects(t *testing.T) {
	ts := newTestServer(t)
	alice := fortest.Accounts[0]

	// zero amount is a domain reject
	code, body := ts.post(t, "/staking/stake", &stakingapi.StakeRequest{
		Caller:   alice,
		Project:  1,
		Amount:   amount(0),
		Duration: helix.MinStakeDuration,
		Now:      100,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "amount is zero")

	// unknown fields are rejected by the strict decoder
	res, err := http.Post(ts.URL+"/staking/stake", "application/json",
		bytes.NewReader([]byte(`{"bogus": 1}`)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// malformed address path var
	code, _ = ts.get(t, "/stakers/not-an-address")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPendingReward(t *testing.T) {
	ts := newTestServer(t)
	alice := fortest.Accounts[0]

	code, body := ts.post(t, "/staking/stake", &stakingapi.StakeRequest{
		Caller:   alice,
		Project:  1,
		Amount:   amount(1000),
		Duration: 15 * helix.SecondsPerDay,
		Now:      100,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	// 1000 at boosted 15% over 15 days, floored
	now := 100 + 15*helix.SecondsPerDay
	code, body = ts.get(t, fmt.Sprintf("/stakers/%s/reward?project=1&now=%d", alice, now))
	require.Equal(t, http.StatusOK, code)
	var reward struct {
		Pending *math.HexOrDecimal256 `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(body, &reward))
	assert.Equal(t, big.NewInt(6), (*big.Int)(reward.Pending))
}

func TestAdminForbidden(t *testing.T) {
	ts := newTestServer(t)
	alice := fortest.Accounts[0]
	bob := fortest.Accounts[1]

	// slashing targets validators, so bob stakes above the threshold
	code, body := ts.post(t, "/staking/stake", &stakingapi.StakeRequest{
		Caller:   bob,
		Project:  1,
		Amount:   amount(12_000),
		Duration: helix.MinStakeDuration,
		Now:      100,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = ts.post(t, "/admin/slash", &stakingapi.SlashRequest{
		Caller: alice,
		Target: bob,
		Amount: amount(2000),
		Now:    200,
	})
	assert.Equal(t, http.StatusForbidden, code, string(body))

	code, body = ts.post(t, "/admin/slash", &stakingapi.SlashRequest{
		Caller: ts.admin,
		Target: bob,
		Amount: amount(2000),
		Now:    200,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var slashed struct {
		Balance *math.HexOrDecimal256 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(body, &slashed))
	assert.Equal(t, big.NewInt(10_000), (*big.Int)(slashed.Balance))
}

func TestHalvingEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// not due yet and caller lacks the capability: committed no-op
	code, body := ts.post(t, "/admin/halving", &stakingapi.HalvingRequest{
		Caller: fortest.Accounts[0],
		Now:    100,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var res struct {
		Applied bool   `json:"applied"`
		Epoch   uint64 `json:"epoch"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.Applied)
	assert.Equal(t, uint64(0), res.Epoch)

	// forced halving requires the capability
	code, _ = ts.post(t, "/admin/halving", &stakingapi.HalvingRequest{
		Caller: fortest.Accounts[0],
		Force:  true,
		Now:    100,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = ts.post(t, "/admin/halving", &stakingapi.HalvingRequest{
		Caller: ts.admin,
		Force:  true,
		Now:    100,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.Applied)
	assert.Equal(t, uint64(1), res.Epoch)
}

func TestEventsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := fortest.Accounts[0]

	code, body := ts.post(t, "/staking/stake", &stakingapi.StakeRequest{
		Caller:   alice,
		Project:  1,
		Amount:   amount(1000),
		Duration: helix.MinStakeDuration,
		Now:      100,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = ts.get(t, "/events?user="+alice.String())
	require.Equal(t, http.StatusOK, code)
	var events []*stakingapi.Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "stake", events[0].Op)
	assert.Equal(t, alice, events[0].User)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(events[0].Amount))
}

func TestTopStakers(t *testing.T) {
	ts := newTestServer(t)

	for i, amt := range []int64{3000, 1000, 2000} {
		code, body := ts.post(t, "/staking/stake", &stakingapi.StakeRequest{
			Caller:   fortest.Accounts[i],
			Project:  1,
			Amount:   amount(amt),
			Duration: helix.MinStakeDuration,
			Now:      100,
		})
		require.Equal(t, http.StatusOK, code, string(body))
	}

	code, body := ts.get(t, "/stakers/top?limit=2")
	require.Equal(t, http.StatusOK, code)
	var top []*stakingapi.Staker
	require.NoError(t, json.Unmarshal(body, &top))
	require.Len(t, top, 2)
	assert.Equal(t, fortest.Accounts[0], top[0].Address)
	assert.Equal(t, fortest.Accounts[2], top[1].Address)

	code, _ = ts.get(t, "/stakers/top?limit=-1")
	assert.Equal(t, http.StatusBadRequest, code)
}
