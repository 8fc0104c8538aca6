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

// Package table holds the configuration of a sharded, replicated table:
// which servers replicate each shard and which replica is the director.
package table

import (
	"sort"

	"github.com/dragstor/rethinkdb/region"
	"github.com/dragstor/rethinkdb/topology"
)

// MaxNumShards is the largest number of shards a table may have.
const MaxNumShards = 32

// Usage costs describe the relative load a replica places on a server.
// Being director usually costs more than being a plain secondary; only the
// ratio matters, the concrete values are fixed for determinism.
const (
	PrimaryUsageCost   = 10
	SecondaryUsageCost = 8
)

// Shard is the configuration of one shard: the servers replicating it and
// the director list (exactly one entry on a valid configuration, the
// director being one of the replicas).
type Shard struct {
	Replicas  []topology.ServerName
	Directors []topology.ServerName
}

// HasReplica returns true if the server replicates the shard.
func (s *Shard) HasReplica(name topology.ServerName) bool {
	i := sort.Search(len(s.Replicas), func(i int) bool { return s.Replicas[i] >= name })
	return i < len(s.Replicas) && s.Replicas[i] == name
}

// AddReplica inserts the server into the replica set, keeping it sorted.
// It returns false if the server was already present.
func (s *Shard) AddReplica(name topology.ServerName) bool {
	i := sort.Search(len(s.Replicas), func(i int) bool { return s.Replicas[i] >= name })
	if i < len(s.Replicas) && s.Replicas[i] == name {
		return false
	}
	s.Replicas = append(s.Replicas, "")
	copy(s.Replicas[i+1:], s.Replicas[i:])
	s.Replicas[i] = name
	return true
}

// Config is the full configuration of a table, one entry per shard.
type Config struct {
	Shards []Shard
}

// NumShards returns the number of shards in the configuration.
func (c Config) NumShards() int {
	return len(c.Shards)
}

// Copy returns a deep copy of the configuration.
func (c Config) Copy() Config {
	shards := make([]Shard, len(c.Shards))
	for i, s := range c.Shards {
		shards[i] = Shard{
			Replicas:  append([]topology.ServerName(nil), s.Replicas...),
			Directors: append([]topology.ServerName(nil), s.Directors...),
		}
	}
	return Config{Shards: shards}
}

// GenerateParams describes the sharding and replication a table should
// have: the shard count, the replica count per server tag, and the tag
// whose servers provide the per-shard directors.
type GenerateParams struct {
	NumShards   int
	NumReplicas map[topology.Tag]int
	DirectorTag topology.Tag
}

// Tags returns the tags of the replica spec in sorted order. Sorting keeps
// generation deterministic across runs.
func (p GenerateParams) Tags() []topology.Tag {
	tags := make([]topology.Tag, 0, len(p.NumReplicas))
	for tag := range p.NumReplicas {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// TotalReplicas returns the number of replicas every shard will have.
func (p GenerateParams) TotalReplicas() int {
	total := 0
	for _, count := range p.NumReplicas {
		total += count
	}
	return total
}

// ShardScheme maps shard indexes to the key ranges they own. The concrete
// scheme (hash or range sharding) is decided elsewhere; the planner only
// forwards ranges to the backfill cost estimator.
type ShardScheme interface {
	ShardRange(shard int) region.Range
}

// NewFixedScheme returns a ShardScheme over a fixed list of ranges, one per
// shard index.
func NewFixedScheme(ranges []region.Range) ShardScheme {
	return fixedScheme(ranges)
}

type fixedScheme []region.Range

func (s fixedScheme) ShardRange(shard int) region.Range {
	return s[shard]
}
