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
	"sort"

	"github.com/dragstor/rethinkdb/reactor"
	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
)

// snapshotTags freezes the server set of every tag mentioned in the
// parameters. The same frozen lists are used for validation and placement;
// the live tag lists could change between the two otherwise.
func (g *generator) snapshotTags(params table.GenerateParams) map[topology.Tag][]topology.ServerName {
	tagServers := make(map[topology.Tag][]topology.ServerName, len(params.NumReplicas)+1)
	for tag := range params.NumReplicas {
		tagServers[tag] = g.nameClient.ServersWithTag(tag)
	}
	if _, ok := tagServers[params.DirectorTag]; !ok {
		tagServers[params.DirectorTag] = g.nameClient.ServersWithTag(params.DirectorTag)
	}
	for _, servers := range tagServers {
		sort.Slice(servers, func(i, j int) bool { return servers[i] < servers[j] })
	}
	return tagServers
}

// snapshotDirectory reads, under a single directory view, the business
// card every snapshotted server advertises for the table. Servers whose
// name maps to several machines are collisions; servers with no machine,
// no connected peer or no directory entry are missing. A reachable server
// without a card for this table is not an error, it simply has no state to
// preserve.
func (g *generator) snapshotDirectory(
	tagServers map[topology.Tag][]topology.ServerName,
	tableID topology.TableID,
) (map[topology.ServerName]reactor.BusinessCard, error) {
	nameToMachines := g.nameClient.NameToMachineIDs()

	cards := make(map[topology.ServerName]reactor.BusinessCard)
	var missing, colliding []topology.ServerName
	seen := make(map[topology.ServerName]struct{})

	g.directory.ReadWith(func(dir map[topology.PeerID]topology.PerPeerDirectory) {
		for _, tag := range sortedTags(tagServers) {
			for _, name := range tagServers[tag] {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}

				machines := nameToMachines[name]
				if len(machines) > 1 {
					colliding = append(colliding, name)
					continue
				}
				if len(machines) == 0 {
					missing = append(missing, name)
					continue
				}
				peer, ok := g.nameClient.PeerForMachine(machines[0])
				if !ok {
					missing = append(missing, name)
					continue
				}
				peerDir, ok := dir[peer]
				if !ok {
					missing = append(missing, name)
					continue
				}
				card, ok := peerDir.Cards[tableID]
				if !ok {
					continue
				}
				cards[name] = card
			}
		}
	})

	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, fmt.Errorf("can't configure table because server `%s` is missing", missing[0])
	}
	if len(colliding) > 0 {
		sort.Slice(colliding, func(i, j int) bool { return colliding[i] < colliding[j] })
		return nil, fmt.Errorf("cannot configure table because multiple servers are "+
			"named `%s`; fix this name collision and try again", colliding[0])
	}
	return cards, nil
}

func sortedTags(tagServers map[topology.Tag][]topology.ServerName) []topology.Tag {
	tags := make([]topology.Tag, 0, len(tagServers))
	for tag := range tagServers {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
