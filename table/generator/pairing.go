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
	"sort"

	"github.com/dragstor/rethinkdb/topology"
)

// A pairing represents the possibility of placing a replica of the given
// shard on a particular server, at the given backfill cost.
//
// Pairings are sorted by three keys: selfUsageCost, backfillCost and
// otherUsageCost. selfUsageCost is the usage a server has accumulated from
// shards of the table being planned; otherUsageCost is its load from other
// tables; backfillCost is the cost of copying data to the server. Because
// selfUsageCost changes on every placement, it is stored once per server in
// serverPairings rather than per pairing, which makes updating it cheap.
type pairing struct {
	shard        int
	backfillCost float64
}

func pairingLess(a, b pairing) bool {
	if a.backfillCost != b.backfillCost {
		return a.backfillCost < b.backfillCost
	}
	return a.shard < b.shard
}

// serverPairings groups one server's candidate pairings for the shards not
// yet assigned to it, together with the usage keys shared by all of them.
type serverPairings struct {
	server         topology.ServerName
	selfUsageCost  int
	otherUsageCost int

	// pairings is kept sorted by pairingLess; the cheapest is pairings[0].
	pairings []pairing
}

func (sp *serverPairings) sortPairings() {
	sort.Slice(sp.pairings, func(i, j int) bool {
		return pairingLess(sp.pairings[i], sp.pairings[j])
	})
}

func (sp *serverPairings) cheapest() pairing {
	return sp.pairings[0]
}

func (sp *serverPairings) removeCheapest() {
	sp.pairings = sp.pairings[1:]
}

// copy returns a copy sharing no state with the receiver.
func (sp *serverPairings) copy() *serverPairings {
	return &serverPairings{
		server:         sp.server,
		selfUsageCost:  sp.selfUsageCost,
		otherUsageCost: sp.otherUsageCost,
		pairings:       append([]pairing(nil), sp.pairings...),
	}
}

// remove drops the pairing for the given shard, if present.
func (sp *serverPairings) remove(shard int) {
	for i, p := range sp.pairings {
		if p.shard == shard {
			sp.pairings = append(sp.pairings[:i], sp.pairings[i+1:]...)
			return
		}
	}
}

// pairingHeap orders serverPairings by (selfUsageCost, cheapest pairing,
// otherUsageCost), with the server name as the final tie-break so that the
// order is total and runs are reproducible. Every element must have at
// least one remaining pairing.
type pairingHeap []*serverPairings

func (h pairingHeap) Len() int { return len(h) }

func (h pairingHeap) Less(i, j int) bool {
	x, y := h[i], h[j]
	if x.selfUsageCost != y.selfUsageCost {
		return x.selfUsageCost < y.selfUsageCost
	}
	if pairingLess(x.cheapest(), y.cheapest()) {
		return true
	}
	if pairingLess(y.cheapest(), x.cheapest()) {
		return false
	}
	if x.otherUsageCost != y.otherUsageCost {
		return x.otherUsageCost < y.otherUsageCost
	}
	return x.server < y.server
}

func (h pairingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pairingHeap) Push(x interface{}) {
	*h = append(*h, x.(*serverPairings))
}

func (h *pairingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	sp := old[n-1]
	*h = old[:n-1]
	return sp
}
