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

// Package generator plans replica placement for sharded, replicated
// tables. Given a replication spec, the servers grouped under each tag and
// the current distributed state of an existing table, it produces a
// configuration assigning each shard its replicas and its director.
//
// The planner is a deterministic greedy algorithm, not an optimal solver:
// it balances load within the table and across tables while preferring
// servers that already hold up-to-date data, and it yields cooperatively
// during long computations.
package generator

import (
	"context"

	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
)

// Request describes one planning call.
type Request struct {
	// TableID identifies the table being planned, or topology.NilTable for
	// a table that does not exist yet. For a new table no directory state
	// is read and every backfill cost is zero.
	TableID topology.TableID

	// Params is the desired sharding and replication.
	Params table.GenerateParams

	// Scheme maps shard indexes to key ranges for cost estimation.
	Scheme table.ShardScheme

	// ServerUsage is the per-server load summed across other planned
	// tables. Servers absent from the map count as unloaded.
	ServerUsage map[topology.ServerName]int
}

// Generator plans table configurations.
type Generator interface {
	// Generate produces a configuration for the request. On failure it
	// returns an error naming the offending entity; cancelling the context
	// aborts the computation at the next yield point.
	Generate(ctx context.Context, req Request) (table.Config, error)
}
