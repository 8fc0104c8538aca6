// Copyright (c) 2016 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package storage

import (
	"testing"
	"time"

	"github.com/dragstor/rethinkdb/generated/proto/tablepb"
	"github.com/dragstor/rethinkdb/kv"
	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = topology.TableID("test-table")

func testConfig(director topology.ServerName) table.Config {
	var shard table.Shard
	shard.AddReplica("a")
	shard.AddReplica("b")
	shard.Directors = []topology.ServerName{director}
	return table.Config{Shards: []table.Shard{shard}}
}

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func TestNewConfigStoreNilKV(t *testing.T) {
	_, err := NewConfigStore(nil)
	assert.Error(t, err)
}

func TestConfigStoreRoundTrip(t *testing.T) {
	store, err := NewConfigStore(kv.NewFakeStore())
	require.NoError(t, err)

	_, _, err = store.Get(testTable)
	assert.Equal(t, kv.ErrNotFound, err)

	version, err := store.Set(testTable, testConfig("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	config, version, err := store.Get(testTable)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, testConfig("a"), config)
}

func TestConfigStoreRejectsInvalidConfig(t *testing.T) {
	store, err := NewConfigStore(kv.NewFakeStore())
	require.NoError(t, err)

	invalid := testConfig("a")
	invalid.Shards[0].Directors = nil
	_, err = store.Set(testTable, invalid)
	assert.Error(t, err)
}

func TestConfigStoreCheckAndSet(t *testing.T) {
	store, err := NewConfigStore(kv.NewFakeStore())
	require.NoError(t, err)

	version, err := store.SetIfNotExists(testTable, testConfig("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	_, err = store.SetIfNotExists(testTable, testConfig("a"))
	assert.Equal(t, kv.ErrAlreadyExists, err)

	_, err = store.CheckAndSet(testTable, 5, testConfig("b"))
	assert.Equal(t, kv.ErrVersionMismatch, err)

	version, err = store.CheckAndSet(testTable, 1, testConfig("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestConfigWatcherFollowsUpdates(t *testing.T) {
	store, err := NewConfigStore(kv.NewFakeStore())
	require.NoError(t, err)
	_, err = store.Set(testTable, testConfig("a"))
	require.NoError(t, err)

	watcher := NewConfigWatcher(NewWatcherOptions().
		SetConfigStore(store).
		SetTableID(testTable))
	require.NoError(t, watcher.Watch())
	defer watcher.Unwatch()

	config, version, err := watcher.Config()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, testConfig("a"), config)

	_, err = store.Set(testTable, testConfig("b"))
	require.NoError(t, err)

	waitFor(t, func() bool {
		_, version, err := watcher.Config()
		return err == nil && version == 2
	})
	config, _, err = watcher.Config()
	require.NoError(t, err)
	assert.Equal(t, testConfig("b"), config)
}

func TestConfigWatcherDropsInvalidUpdates(t *testing.T) {
	kvStore := kv.NewFakeStore()
	store, err := NewConfigStore(kvStore)
	require.NoError(t, err)
	_, err = store.Set(testTable, testConfig("a"))
	require.NoError(t, err)

	watcher := NewConfigWatcher(NewWatcherOptions().
		SetConfigStore(store).
		SetTableID(testTable))
	require.NoError(t, watcher.Watch())
	defer watcher.Unwatch()

	// Write a config with no director straight through the kv store,
	// bypassing the config store's validation.
	_, err = kvStore.Set("tables/test-table/config", &tablepb.TableConfig{
		Shards: []*tablepb.Shard{{ReplicaNames: []string{"a"}}},
	})
	require.NoError(t, err)

	// The watcher must keep serving the last valid configuration.
	time.Sleep(100 * time.Millisecond)
	config, version, err := watcher.Config()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, testConfig("a"), config)
}

func TestConfigWatcherNotWatching(t *testing.T) {
	store, err := NewConfigStore(kv.NewFakeStore())
	require.NoError(t, err)

	watcher := NewConfigWatcher(NewWatcherOptions().
		SetConfigStore(store).
		SetTableID(testTable))
	_, _, err = watcher.Config()
	assert.Error(t, err)
}

func TestConfigWatcherInitTimeout(t *testing.T) {
	store, err := NewConfigStore(kv.NewFakeStore())
	require.NoError(t, err)

	watcher := NewConfigWatcher(NewWatcherOptions().
		SetConfigStore(store).
		SetTableID(testTable).
		SetInitWatchTimeout(50 * time.Millisecond))
	assert.Error(t, watcher.Watch())
}
