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

package generator

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/dragstor/rethinkdb/reactor"
	"github.com/dragstor/rethinkdb/region"
	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = topology.TableID("test-table")

func newTestGenerator(c *topology.FakeCluster) Generator {
	return NewGenerator(c, c, NewOptions())
}

func evenScheme(numShards int) table.ShardScheme {
	ranges := make([]region.Range, numShards)
	for i := 0; i < numShards; i++ {
		start := ""
		if i > 0 {
			start = fmt.Sprintf("key%02d", i)
		}
		if i == numShards-1 {
			ranges[i] = region.NewUnboundedRange(start)
		} else {
			ranges[i] = region.NewRange(start, fmt.Sprintf("key%02d", i+1))
		}
	}
	return table.NewFixedScheme(ranges)
}

func newTableRequest(numShards int, replicas map[topology.Tag]int, director topology.Tag) Request {
	return Request{
		TableID: topology.NilTable,
		Params: table.GenerateParams{
			NumShards:   numShards,
			NumReplicas: replicas,
			DirectorTag: director,
		},
		Scheme: evenScheme(numShards),
	}
}

func replicasFromTag(t *testing.T, config table.Config, servers []topology.ServerName) map[topology.ServerName]int {
	counts := make(map[topology.ServerName]int)
	inTag := make(map[topology.ServerName]struct{})
	for _, s := range servers {
		inTag[s] = struct{}{}
	}
	for _, shard := range config.Shards {
		for _, r := range shard.Replicas {
			if _, ok := inTag[r]; ok {
				counts[r]++
			}
		}
	}
	return counts
}

func TestGenerateSingleShardFullReplication(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	c.AddServer("c", "default")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(1, map[topology.Tag]int{"default": 3}, "default"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	require.Equal(t, 1, config.NumShards())
	assert.Equal(t, []topology.ServerName{"a", "b", "c"}, config.Shards[0].Replicas)
	require.Len(t, config.Shards[0].Directors, 1)
	assert.True(t, config.Shards[0].HasReplica(config.Shards[0].Directors[0]))
}

func TestGenerateDirectorsLandOnDistinctServers(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	c.AddServer("c", "default")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(3, map[topology.Tag]int{"default": 1}, "default"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())
	require.Equal(t, 3, config.NumShards())

	directors := make(map[topology.ServerName]int)
	for _, shard := range config.Shards {
		require.Len(t, shard.Directors, 1)
		require.Len(t, shard.Replicas, 1)
		directors[shard.Directors[0]]++
	}
	assert.Equal(t, map[topology.ServerName]int{"a": 1, "b": 1, "c": 1}, directors)
}

// Three servers, three shards, two replicas each: selecting directors first
// can corner the replica round into an uneven distribution. The skew is a
// documented property of the greedy algorithm; what matters is that every
// shard still gets its two replicas.
func TestGenerateDocumentedReplicaSkew(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	c.AddServer("c", "default")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(3, map[topology.Tag]int{"default": 2}, "default"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	directors := make(map[topology.ServerName]int)
	for _, shard := range config.Shards {
		require.Len(t, shard.Replicas, 2)
		require.Len(t, shard.Directors, 1)
		directors[shard.Directors[0]]++
	}
	assert.Equal(t, map[topology.ServerName]int{"a": 1, "b": 1, "c": 1}, directors)

	// The greedy two-phase selection does not distribute the replicas
	// evenly here: once the directors hold one shard each, the replica
	// round cannot give shard 3 to its own director and piles a third
	// replica onto an already-loaded server instead.
	counts := replicasFromTag(t, config, []topology.ServerName{"a", "b", "c"})
	assert.Equal(t, map[topology.ServerName]int{"a": 3, "b": 2, "c": 1}, counts)
}

func TestGenerateMultipleTags(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "primary-dc")
	c.AddServer("b", "primary-dc")
	c.AddServer("c", "backup-dc")
	c.AddServer("d", "backup-dc")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(2, map[topology.Tag]int{"primary-dc": 1, "backup-dc": 1}, "primary-dc"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	primary := replicasFromTag(t, config, []topology.ServerName{"a", "b"})
	backup := replicasFromTag(t, config, []topology.ServerName{"c", "d"})
	assert.Equal(t, 2, primary["a"]+primary["b"])
	assert.Equal(t, 2, backup["c"]+backup["d"])
	for _, shard := range config.Shards {
		require.Len(t, shard.Replicas, 2)
		director := shard.Directors[0]
		assert.True(t, director == "a" || director == "b")
	}
}

func TestGenerateExistingTablePrefersUpToDateServer(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	c.SetActivities("a", testTable, []reactor.Activity{
		{Type: reactor.ActivityPrimary, Region: region.Universe()},
	})
	c.SetActivities("b", testTable, []reactor.Activity{
		{Type: reactor.ActivityNothing, Region: region.Universe()},
	})

	req := newTableRequest(1, map[topology.Tag]int{"default": 1}, "default")
	req.TableID = testTable

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []topology.ServerName{"a"}, config.Shards[0].Directors)
}

// With two shards and one replica each, the self-usage key dominates: once
// the up-to-date server holds the first shard, the second shard goes to the
// empty server even though it must backfill.
func TestGenerateExistingTableSpreadsLoadOverBackfill(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	scheme := evenScheme(2)
	c.SetActivities("a", testTable, []reactor.Activity{
		{Type: reactor.ActivityPrimary, Region: region.Universe()},
	})
	c.SetActivities("b", testTable, []reactor.Activity{
		{Type: reactor.ActivityNothing, Region: region.Universe()},
	})

	req := newTableRequest(2, map[topology.Tag]int{"default": 1}, "default")
	req.TableID = testTable
	req.Scheme = scheme

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []topology.ServerName{"a"}, config.Shards[0].Directors)
	assert.Equal(t, []topology.ServerName{"b"}, config.Shards[1].Directors)
}

// A reachable server with no state for this table yet is priced at the
// maximum backfill cost, so it only receives replicas once the up-to-date
// servers are saturated.
func TestGenerateExistingTableMissingCardDeprioritised(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	c.SetActivities("a", testTable, []reactor.Activity{
		{Type: reactor.ActivityPrimary, Region: region.Universe()},
	})
	// Server b advertises no card for this table at all.

	req := newTableRequest(1, map[topology.Tag]int{"default": 1}, "default")
	req.TableID = testTable

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []topology.ServerName{"a"}, config.Shards[0].Directors)
}

func TestGenerateOtherUsageBreaksTies(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")

	req := newTableRequest(1, map[topology.Tag]int{"default": 1}, "default")
	req.ServerUsage = map[topology.ServerName]int{"a": 50}

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	// Server a is busy with other tables, so b takes the shard.
	assert.Equal(t, []topology.ServerName{"b"}, config.Shards[0].Directors)
}

func TestGenerateDeterministic(t *testing.T) {
	c := topology.NewFakeCluster()
	for _, name := range []topology.ServerName{"a", "b", "c", "d", "e"} {
		c.AddServer(name, "default")
	}
	req := newTableRequest(8, map[topology.Tag]int{"default": 3}, "default")

	g := newTestGenerator(c)
	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestGenerateMaxShardsAccepted(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(32, map[topology.Tag]int{"default": 1}, "default"))
	require.NoError(t, err)
	assert.Equal(t, 32, config.NumShards())
}

func TestGenerateTooManyShardsRejected(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")

	g := newTestGenerator(c)
	_, err := g.Generate(context.Background(),
		newTableRequest(33, map[topology.Tag]int{"default": 1}, "default"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aximum number of shards is 32")
}

func TestGenerateZeroShardsRejected(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")

	g := newTestGenerator(c)
	_, err := g.Generate(context.Background(),
		newTableRequest(0, map[topology.Tag]int{"default": 1}, "default"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one shard")
}

func TestGenerateZeroCountTagIgnored(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "unused")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(1, map[topology.Tag]int{"default": 1, "unused": 0}, "default"))
	require.NoError(t, err)
	assert.Equal(t, []topology.ServerName{"a"}, config.Shards[0].Replicas)
}

func TestGenerateDirectorTagWithoutReplicasRejected(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")

	g := newTestGenerator(c)
	for _, replicas := range []map[topology.Tag]int{
		{"default": 0},
		{"other": 1},
	} {
		_, err := g.Generate(context.Background(), newTableRequest(1, replicas, "default"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can't use server tag `default` for directors")
	}
}

func TestGenerateOverlappingTagsRejected(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "t1")
	c.AddServer("x", "t1", "t2")
	c.AddServer("b", "t2")

	g := newTestGenerator(c)
	_, err := g.Generate(context.Background(),
		newTableRequest(1, map[topology.Tag]int{"t1": 1, "t2": 1}, "t1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`t1`")
	assert.Contains(t, err.Error(), "`t2`")
	assert.Contains(t, err.Error(), "`x`")
	assert.Contains(t, err.Error(), "overlap")
}

func TestGenerateInsufficientServersRejected(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")

	g := newTestGenerator(c)
	_, err := g.Generate(context.Background(),
		newTableRequest(1, map[topology.Tag]int{"default": 3}, "default"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "you requested 3 replicas on servers with the tag `default`")
	assert.Contains(t, err.Error(), "only 2 servers")
}

func TestGenerateMissingServerRejected(t *testing.T) {
	newCluster := func() *topology.FakeCluster {
		c := topology.NewFakeCluster()
		c.AddServer("a", "default")
		c.AddServer("b", "default")
		return c
	}

	breakages := map[string]func(*topology.FakeCluster){
		"unknown machine":    func(c *topology.FakeCluster) { c.RemoveMachine("b") },
		"disconnected peer":  func(c *topology.FakeCluster) { c.DisconnectPeer("b") },
		"no directory entry": func(c *topology.FakeCluster) { c.RemoveDirectoryEntry("b") },
	}
	for name, breakFn := range breakages {
		c := newCluster()
		breakFn(c)

		req := newTableRequest(1, map[topology.Tag]int{"default": 1}, "default")
		req.TableID = testTable

		g := newTestGenerator(c)
		_, err := g.Generate(context.Background(), req)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "server `b` is missing", name)
	}
}

func TestGenerateNameCollisionRejected(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddNameCollision("a")

	req := newTableRequest(1, map[topology.Tag]int{"default": 1}, "default")
	req.TableID = testTable

	g := newTestGenerator(c)
	_, err := g.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple servers are named `a`")
}

func TestGenerateNewTableSkipsDirectory(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")
	c.AddServer("b", "default")
	// A broken directory must not matter when planning a new table.
	c.RemoveMachine("b")

	g := newTestGenerator(c)
	config, err := g.Generate(context.Background(),
		newTableRequest(1, map[topology.Tag]int{"default": 2}, "default"))
	require.NoError(t, err)
	assert.Equal(t, []topology.ServerName{"a", "b"}, config.Shards[0].Replicas)
}

func TestGenerateCancelled(t *testing.T) {
	c := topology.NewFakeCluster()
	c.AddServer("a", "default")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newTestGenerator(c)
	_, err := g.Generate(ctx, newTableRequest(1, map[topology.Tag]int{"default": 1}, "default"))
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}
