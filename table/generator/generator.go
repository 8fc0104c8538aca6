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
	"errors"
	"fmt"

	"github.com/dragstor/rethinkdb/reactor"
	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
	"github.com/m3db/m3x/clock"
	xlog "github.com/m3db/m3x/log"
	"github.com/uber-go/tally"
)

var errInvalidGeneratedConfig = errors.New("generated a configuration violating its own invariants")

type generatorMetrics struct {
	success  tally.Counter
	failure  tally.Counter
	duration tally.Timer
}

func newGeneratorMetrics(scope tally.Scope) generatorMetrics {
	return generatorMetrics{
		success:  scope.Counter("generate-success"),
		failure:  scope.Counter("generate-failure"),
		duration: scope.Timer("generate-duration"),
	}
}

type generator struct {
	nameClient topology.NameClient
	directory  topology.DirectoryView
	weightFn   WeightFn
	nowFn      clock.NowFn
	logger     xlog.Logger
	metrics    generatorMetrics
}

// NewGenerator returns a Generator planning against the given name client
// and directory view.
func NewGenerator(nameClient topology.NameClient, directory topology.DirectoryView, opts Options) Generator {
	return &generator{
		nameClient: nameClient,
		directory:  directory,
		weightFn:   opts.BackfillWeightFn(),
		nowFn:      opts.ClockOptions().NowFn(),
		logger:     opts.InstrumentOptions().Logger(),
		metrics:    newGeneratorMetrics(opts.InstrumentOptions().MetricsScope()),
	}
}

func (g *generator) Generate(ctx context.Context, req Request) (table.Config, error) {
	start := g.nowFn()
	config, err := g.generate(ctx, req)
	g.metrics.duration.Record(g.nowFn().Sub(start))
	if err != nil {
		g.metrics.failure.Inc(1)
		g.logger.Errorf("could not generate config for table `%s`: %v", req.TableID, err)
		return table.Config{}, err
	}
	g.metrics.success.Inc(1)
	return config, nil
}

func (g *generator) generate(ctx context.Context, req Request) (table.Config, error) {
	params := req.Params
	yielder := newCalculationYielder(g.nowFn)

	tagServers := g.snapshotTags(params)
	if err := validateParams(params, tagServers); err != nil {
		return table.Config{}, err
	}

	// For an existing table, freeze the per-server activity state so every
	// backfill estimate in this call works from the same view. A new table
	// has no data to move, so the directory is not consulted at all.
	var cards map[topology.ServerName]reactor.BusinessCard
	if req.TableID != topology.NilTable {
		var err error
		if cards, err = g.snapshotDirectory(tagServers, req.TableID); err != nil {
			return table.Config{}, err
		}
	}

	if err := yielder.maybeYield(ctx); err != nil {
		return table.Config{}, err
	}

	shards := make([]table.Shard, params.NumShards)
	totalReplicas := 0
	for _, tag := range params.Tags() {
		count := params.NumReplicas[tag]
		if count == 0 {
			// Avoid unnecessary computation and possibly spurious errors.
			continue
		}
		totalReplicas += count

		servers := tagServers[tag]
		if len(servers) < count {
			return table.Config{}, fmt.Errorf("you requested %d replicas on servers "+
				"with the tag `%s`, but there are only %d servers with the tag `%s`; "+
				"it's impossible to have more replicas of the data than there are servers",
				count, tag, len(servers), tag)
		}

		pairings, err := g.buildPairings(ctx, req, servers, cards, yielder)
		if err != nil {
			return table.Config{}, err
		}

		// Select the directors first, separately from the other replicas:
		// it is important for the directors to end up on different servers
		// where possible. The selector consumes whatever it is given, so
		// it runs over copies; the callback applies each choice to the
		// retained structures so that the replica round accounts for the
		// directors' load and never picks a director's server for its own
		// shard again, while every pairing the selector merely discarded
		// stays available.
		if tag == params.DirectorTag {
			byServer := make(map[topology.ServerName]*serverPairings, len(pairings))
			copies := make([]*serverPairings, 0, len(pairings))
			for _, sp := range pairings {
				byServer[sp.server] = sp
				copies = append(copies, sp.copy())
			}
			err := pickBestPairings(ctx, params.NumShards, 1, copies, table.PrimaryUsageCost, yielder,
				func(shard int, server topology.ServerName) {
					s := &shards[shard]
					if len(s.Directors) != 0 {
						panic(fmt.Sprintf("generator: shard %d assigned a second director", shard))
					}
					s.Directors = append(s.Directors, server)
					s.AddReplica(server)
					sp := byServer[server]
					sp.selfUsageCost += table.PrimaryUsageCost
					sp.remove(shard)
				})
			if err != nil {
				return table.Config{}, err
			}
		}

		// Now select the remaining replicas.
		perShard := count
		if tag == params.DirectorTag {
			perShard--
		}
		err = pickBestPairings(ctx, params.NumShards, perShard, pairings, table.SecondaryUsageCost, yielder,
			func(shard int, server topology.ServerName) {
				shards[shard].AddReplica(server)
			})
		if err != nil {
			return table.Config{}, err
		}
	}

	config := table.Config{Shards: shards}
	for i := range config.Shards {
		if len(config.Shards[i].Replicas) != totalReplicas || len(config.Shards[i].Directors) != 1 {
			return table.Config{}, errInvalidGeneratedConfig
		}
	}
	if err := config.Validate(); err != nil {
		return table.Config{}, err
	}
	return config, nil
}

// buildPairings computes the desirability of every shard/server pair for
// one tag. For a new table every backfill cost is zero; for an existing
// table the cost comes from the directory snapshot, with servers missing a
// directory entry priced at the maximum so they are strongly deprioritised.
func (g *generator) buildPairings(
	ctx context.Context,
	req Request,
	servers []topology.ServerName,
	cards map[topology.ServerName]reactor.BusinessCard,
	yielder *calculationYielder,
) ([]*serverPairings, error) {
	pairings := make([]*serverPairings, 0, len(servers))
	for _, server := range servers {
		sp := &serverPairings{
			server:         server,
			otherUsageCost: req.ServerUsage[server],
			pairings:       make([]pairing, 0, req.Params.NumShards),
		}
		for shard := 0; shard < req.Params.NumShards; shard++ {
			cost := 0.0
			if req.TableID != topology.NilTable {
				if card, ok := cards[server]; ok {
					cost = estimateBackfillCost(card, req.Scheme.ShardRange(shard), g.weightFn)
				} else {
					cost = maxBackfillCost
				}
			}
			sp.pairings = append(sp.pairings, pairing{shard: shard, backfillCost: cost})
		}
		sp.sortPairings()
		pairings = append(pairings, sp)
		if err := yielder.maybeYield(ctx); err != nil {
			return nil, err
		}
	}
	return pairings, nil
}
