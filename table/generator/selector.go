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
	"container/heap"
	"context"

	"github.com/dragstor/rethinkdb/topology"
)

// pickBestPairings chooses the perShard best pairings for each shard from
// the given candidates and reports each choice through place. Prioritising
// selfUsageCost spreads the table's load across servers; within equal
// self-usage a lower backfillCost minimises data movement; otherUsageCost
// breaks further ties to balance load across tables.
//
// The selector consumes the candidates: every inspected pairing is removed,
// whether it was placed or discarded because its shard was already full,
// and the server's selfUsageCost grows by usageCost on each placement. A
// caller that needs the unchosen pairings afterwards must hand the selector
// copies (see the director round in generate).
//
// Termination requires that the candidates hold at least
// numShards*perShard placeable pairings, which the parameter validation
// and the per-tag server count check guarantee.
func pickBestPairings(
	ctx context.Context,
	numShards int,
	perShard int,
	candidates []*serverPairings,
	usageCost int,
	yielder *calculationYielder,
	place func(shard int, server topology.ServerName),
) error {
	h := make(pairingHeap, 0, len(candidates))
	for _, sp := range candidates {
		if len(sp.pairings) > 0 {
			h = append(h, sp)
		}
	}
	heap.Init(&h)

	shardReplicas := make([]int, numShards)
	placed := 0
	for placed < numShards*perShard {
		if h.Len() == 0 {
			panic("generator: ran out of pairings before placing every replica")
		}
		sp := heap.Pop(&h).(*serverPairings)
		p := sp.cheapest()
		if shardReplicas[p.shard] < perShard {
			place(p.shard, sp.server)
			shardReplicas[p.shard]++
			placed++
			sp.selfUsageCost += usageCost
		}
		sp.removeCheapest()
		if len(sp.pairings) > 0 {
			heap.Push(&h, sp)
		}
		if err := yielder.maybeYield(ctx); err != nil {
			return err
		}
	}
	return nil
}
