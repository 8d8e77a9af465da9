// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"database/sql"
	"encoding/json"
	"math/big"

	lru "github.com/hashicorp/golang-lru"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/staking"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	ts INTEGER NOT NULL,
	op TEXT NOT NULL,
	user BLOB NOT NULL,
	project INTEGER NOT NULL,
	amount TEXT NOT NULL,
	delta TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS event_user ON event(user);
CREATE INDEX IF NOT EXISTS event_op ON event(op);
CREATE INDEX IF NOT EXISTS event_ts ON event(ts);`

const userCacheSize = 512

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Range bounds a filter by event timestamp, inclusive.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events by user, operation and time range.
type Filter struct {
	User    *helix.Address `json:"user"`
	Op      string         `json:"op"`
	Order   OrderType      `json:"order"` // default asc
	Range   *Range         `json:"range"`
	Options *Options       `json:"options"`
}

// EventDB persists committed staking events in sqlite. It implements
// staking.EventSink. Per-user lookups go through an LRU cache that is
// invalidated when an event for that user lands.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
	// seqBase is the highest seq persisted before this run; engine sequence
	// numbers restart per run and are offset by it on insert
	seqBase   uint64
	userCache *lru.Cache
}

// New opens (creating if needed) an event db at path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open eventdb")
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create event table")
	}
	var seqBase uint64
	if err := db.QueryRow("SELECT IFNULL(MAX(seq), 0) FROM event").Scan(&seqBase); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "read last seq")
	}
	cache, err := lru.New(userCacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
		seqBase:       seqBase,
		userCache:     cache,
	}, nil
}

// NewMem creates an in-memory event db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// SaveEvents inserts one committed operation's events, atomically.
func (db *EventDB) SaveEvents(events []*staking.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		delta, err := json.Marshal(ev.Delta)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "marshal delta")
		}
		// rate and status events carry no amount
		amount := "0"
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		if _, err = tx.Exec(
			"INSERT OR REPLACE INTO event(seq, ts, op, user, project, amount, delta) VALUES (?, ?, ?, ?, ?, ?, ?);",
			db.seqBase+ev.Seq,
			ev.Time,
			ev.Op,
			ev.User.Bytes(),
			ev.Project,
			amount,
			delta,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	for _, ev := range events {
		db.userCache.Remove(ev.User)
	}
	return nil
}

// Filter returns events matching the filter, nil filter means everything.
func (db *EventDB) Filter(filter *Filter) ([]*staking.Event, error) {
	if filter == nil {
		return db.query("SELECT seq, ts, op, user, project, amount, delta FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT seq, ts, op, user, project, amount, delta FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND ts >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND ts <= ?"
		}
	}
	if filter.User != nil {
		args = append(args, filter.User.Bytes())
		stmt += " AND user = ?"
	}
	if filter.Op != "" {
		args = append(args, filter.Op)
		stmt += " AND op = ?"
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

// OfUser returns all events of one user, oldest first, served from the cache
// when warm.
func (db *EventDB) OfUser(user helix.Address) ([]*staking.Event, error) {
	if cached, ok := db.userCache.Get(user); ok {
		return cached.([]*staking.Event), nil
	}
	events, err := db.Filter(&Filter{User: &user})
	if err != nil {
		return nil, err
	}
	db.userCache.Add(user, events)
	return events, nil
}

func (db *EventDB) query(stmt string, args ...any) ([]*staking.Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*staking.Event
	for rows.Next() {
		var (
			seq     uint64
			ts      uint64
			op      string
			user    []byte
			project uint32
			amount  string
			delta   []byte
		)
		if err := rows.Scan(&seq, &ts, &op, &user, &project, &amount, &delta); err != nil {
			return nil, err
		}
		value, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, errors.Errorf("corrupt amount %q at seq %d", amount, seq)
		}
		ev := &staking.Event{
			Seq:     seq,
			Time:    ts,
			Op:      op,
			User:    helix.BytesToAddress(user),
			Project: project,
			Amount:  value,
		}
		if err := json.Unmarshal(delta, &ev.Delta); err != nil {
			return nil, errors.Wrap(err, "unmarshal delta")
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path returns the db file path.
func (db *EventDB) Path() string {
	return db.path
}

// Close closes the underlying sqlite handle.
func (db *EventDB) Close() {
	db.db.Close()
}
