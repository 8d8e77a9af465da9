// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixstake/helix/eventdb"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking"
)

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	alice := helix.BytesToAddress([]byte("alice"))
	bob := helix.BytesToAddress([]byte("bob"))

	var events []*staking.Event
	for i := 1; i <= 100; i++ {
		user := alice
		op := staking.OpStake
		if i%2 == 0 {
			user = bob
			op = staking.OpUnstake
		}
		events = append(events, &staking.Event{
			Seq:     uint64(i),
			Time:    uint64(1000 + i),
			Op:      op,
			User:    user,
			Project: uint32(i % 3),
			Amount:  big.NewInt(int64(i * 10)),
			Delta:   map[string]string{"balance": "0"},
		})
	}
	require.NoError(t, db.SaveEvents(events))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, big.NewInt(10), all[0].Amount)

	got, err := db.Filter(&eventdb.Filter{User: &alice})
	require.NoError(t, err)
	assert.Len(t, got, 50)
	for _, ev := range got {
		assert.Equal(t, alice, ev.User)
	}

	got, err = db.Filter(&eventdb.Filter{Op: staking.OpUnstake, Order: eventdb.DESC})
	require.NoError(t, err)
	assert.Len(t, got, 50)
	assert.Equal(t, uint64(100), got[0].Seq)

	got, err = db.Filter(&eventdb.Filter{
		Range:   &eventdb.Range{From: 1001, To: 1010},
		Options: &eventdb.Options{Offset: 0, Limit: 5},
	})
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestEventDBReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	alice := helix.BytesToAddress([]byte("alice"))
	save := func(db *eventdb.EventDB, seq, ts uint64) {
		require.NoError(t, db.SaveEvents([]*staking.Event{{
			Seq: seq, Time: ts, Op: staking.OpStake, User: alice,
			Amount: big.NewInt(1), Delta: map[string]string{},
		}}))
	}

	db, err := eventdb.New(path)
	require.NoError(t, err)
	save(db, 1, 100)
	save(db, 2, 200)
	db.Close()

	// a fresh run restarts sequence numbers at 1; rows of the earlier run
	// must survive the reopen
	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	save(db, 1, 300)

	all, err := db.Filter(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(3), all[2].Seq)
	assert.Equal(t, uint64(300), all[2].Time)
}

func TestEventDBOfUserCache(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	alice := helix.BytesToAddress([]byte("alice"))

	save := func(seq uint64) {
		require.NoError(t, db.SaveEvents([]*staking.Event{{
			Seq: seq, Time: seq, Op: staking.OpStake, User: alice,
			Amount: big.NewInt(1), Delta: map[string]string{},
		}}))
	}

	save(1)
	got, err := db.OfUser(alice)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// a new event for the same user must invalidate the cached list
	save(2)
	got, err = db.OfUser(alice)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
