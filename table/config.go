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

package table

import (
	"errors"
	"fmt"

	"github.com/dragstor/rethinkdb/topology"
)

var (
	errNoShards             = errors.New("invalid config, a table must have at least one shard")
	errDuplicatedReplicas   = errors.New("invalid config, a server appears twice in one shard's replica set")
	errReplicaCountMismatch = errors.New("invalid config, shards have different replica counts")
)

// Validate checks the structural invariants of a generated configuration:
// at least one shard, exactly one director per shard, the director
// contained in the replica set, no duplicate replicas and a uniform replica
// count across shards.
func (c Config) Validate() error {
	if len(c.Shards) == 0 {
		return errNoShards
	}

	replicas := len(c.Shards[0].Replicas)
	for i := range c.Shards {
		s := &c.Shards[i]
		if len(s.Directors) != 1 {
			return fmt.Errorf("invalid config, shard %d has %d directors, expected exactly 1", i, len(s.Directors))
		}
		if !s.HasReplica(s.Directors[0]) {
			return fmt.Errorf("invalid config, the director `%s` of shard %d is not one of its replicas", s.Directors[0], i)
		}
		for j := 1; j < len(s.Replicas); j++ {
			if s.Replicas[j] == s.Replicas[j-1] {
				return errDuplicatedReplicas
			}
		}
		if len(s.Replicas) != replicas {
			return errReplicaCountMismatch
		}
	}
	return nil
}

// CalculateServerUsage folds the load of an existing configuration into a
// per-server usage map. Every replica adds SecondaryUsageCost, and each
// shard's director additionally pays the primary/secondary difference.
func CalculateServerUsage(c Config, usage map[topology.ServerName]int) {
	for i := range c.Shards {
		s := &c.Shards[i]
		for _, server := range s.Replicas {
			usage[server] += SecondaryUsageCost
		}
		if len(s.Directors) > 0 {
			usage[s.Directors[0]] += PrimaryUsageCost - SecondaryUsageCost
		}
	}
}
