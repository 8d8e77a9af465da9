// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixstake/helix/stackedmap"
)

func TestStackedMap(t *testing.T) {
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool) {
		v, r := src[key]
		return v, r
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() { sm.Push() }, 1, "", "", "", nil},
		{nil, 1, "qux", "baz", "qux", []any{"baz", true}},
		{nil, 1, "", "", "foo", []any{"bar", true}},
		{func() { sm.Push() }, 2, "", "", "", nil},
		{nil, 2, "qux", "baz1", "qux", []any{"baz1", true}},
		{nil, 2, "", "", "foo", []any{"bar", true}},
		{func() { sm.Pop() }, 1, "", "", "qux", []any{"baz", true}},
		{func() { sm.Pop() }, 0, "", "", "qux", []any{"", false}},

		{func() { sm.Push() }, 1, "", "", "", nil},
		{func() { sm.Push() }, 2, "", "", "", nil},
		{func() { sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		if test.f != nil {
			test.f()
		}
		assert.Equal(t, sm.Depth(), test.depth)

		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}

		if test.getKey != "" {
			v, ok := sm.Get(test.getKey)
			assert.Equal(t, test.getReturn, []any{v, ok})
		}
	}
}

func TestStackedMapPuts(t *testing.T) {
	sm := stackedmap.New(func(string) (string, bool) {
		return "", false
	})

	kvs := []struct{ k, v string }{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	sm.Push()
	for _, kv := range kvs {
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(t, kvs[i].k, k)
		assert.Equal(t, kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(t, len(kvs), i, "journal traversal should visit all puts")

	i = 0
	sm.Journal(func(_, _ string) bool {
		i++
		return false
	})
	assert.Equal(t, 1, i, "journal traversal should be stoppable")

	sm.Pop()
	n := 0
	sm.Journal(func(_, _ string) bool {
		n++
		return true
	})
	assert.Zero(t, n, "pop should discard the journal")
}
