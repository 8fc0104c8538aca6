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
	"fmt"

	"github.com/dragstor/rethinkdb/reactor"
	"github.com/dragstor/rethinkdb/region"
)

// maxBackfillCost is the cost of bringing a server up to date for a range
// it holds nothing of. It is also used for servers whose directory entry is
// missing: unknown state is assumed to be the worst.
const maxBackfillCost = 3.0

func activityBackfillCost(t reactor.ActivityType) float64 {
	switch t {
	case reactor.ActivityPrimaryWhenSafe, reactor.ActivityPrimary:
		return 0
	case reactor.ActivitySecondaryUpToDate:
		return 1
	case reactor.ActivitySecondaryWithoutPrimary, reactor.ActivitySecondaryBackfilling:
		return 2
	case reactor.ActivityNothingWhenSafe, reactor.ActivityNothingWhenDoneErasing, reactor.ActivityNothing:
		return maxBackfillCost
	}
	panic(fmt.Sprintf("generator: unhandled reactor activity %v", t))
}

// estimateBackfillCost returns a number in [0, 3] describing how much
// trouble we expect it to be to get the given server into an up-to-date
// state for the shard's key range. Every activity rewrites the whole cost
// map, so this takes time quadratic in the number of activities.
func estimateBackfillCost(card reactor.BusinessCard, shard region.Range, weightFn WeightFn) float64 {
	costs := region.NewMap(shard, maxBackfillCost)
	for _, a := range card.Activities {
		in := a.Region.Intersect(shard)
		if in.IsEmpty() {
			continue
		}
		// Activities never overlap, so a plain set is enough; there is no
		// need to take the minimum with an earlier value.
		costs.Set(in, activityBackfillCost(a.Type))
	}

	var sum, weight float64
	for _, p := range costs.Pieces() {
		w := weightFn(p.Range)
		sum += p.Value * w
		weight += w
	}
	if weight == 0 {
		return maxBackfillCost
	}
	return sum / weight
}
