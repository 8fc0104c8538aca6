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

package topology

import (
	"sort"
	"sync"

	"github.com/dragstor/rethinkdb/reactor"
)

// FakeCluster is an in-process NameClient and DirectoryView that can be used
// for testing. All reads inside ReadWith observe a single locked view.
type FakeCluster struct {
	sync.RWMutex

	tags      map[Tag]map[ServerName]struct{}
	machines  map[ServerName][]MachineID
	peers     map[MachineID]PeerID
	directory map[PeerID]PerPeerDirectory
}

// NewFakeCluster returns an empty fake cluster.
func NewFakeCluster() *FakeCluster {
	return &FakeCluster{
		tags:      make(map[Tag]map[ServerName]struct{}),
		machines:  make(map[ServerName][]MachineID),
		peers:     make(map[MachineID]PeerID),
		directory: make(map[PeerID]PerPeerDirectory),
	}
}

// AddServer registers a server carrying the given tags, with a machine id,
// a connected peer and an empty directory entry.
func (c *FakeCluster) AddServer(name ServerName, tags ...Tag) {
	c.Lock()
	defer c.Unlock()

	for _, tag := range tags {
		servers, ok := c.tags[tag]
		if !ok {
			servers = make(map[ServerName]struct{})
			c.tags[tag] = servers
		}
		servers[name] = struct{}{}
	}

	machine := c.machineForName(name)
	if len(c.machines[name]) == 0 {
		c.machines[name] = []MachineID{machine}
	}
	peer := PeerID("peer/" + string(name))
	c.peers[machine] = peer
	if _, ok := c.directory[peer]; !ok {
		c.directory[peer] = PerPeerDirectory{Cards: make(map[TableID]reactor.BusinessCard)}
	}
}

// SetActivities sets the business card the server advertises for the table.
func (c *FakeCluster) SetActivities(name ServerName, table TableID, activities []reactor.Activity) {
	c.Lock()
	defer c.Unlock()

	peer := c.peers[c.machineForName(name)]
	dir, ok := c.directory[peer]
	if !ok {
		dir = PerPeerDirectory{Cards: make(map[TableID]reactor.BusinessCard)}
		c.directory[peer] = dir
	}
	dir.Cards[table] = reactor.BusinessCard{Activities: activities}
}

// AddNameCollision registers a second machine id under the server's name.
func (c *FakeCluster) AddNameCollision(name ServerName) {
	c.Lock()
	defer c.Unlock()
	c.machines[name] = append(c.machines[name], MachineID("machine/"+string(name)+"/dup"))
}

// RemoveMachine drops the server's machine id mapping, making it unknown.
func (c *FakeCluster) RemoveMachine(name ServerName) {
	c.Lock()
	defer c.Unlock()
	delete(c.machines, name)
}

// DisconnectPeer drops the peer mapping for the server's machine.
func (c *FakeCluster) DisconnectPeer(name ServerName) {
	c.Lock()
	defer c.Unlock()
	delete(c.peers, c.machineForName(name))
}

// RemoveDirectoryEntry drops the server's directory entry while keeping its
// peer connected.
func (c *FakeCluster) RemoveDirectoryEntry(name ServerName) {
	c.Lock()
	defer c.Unlock()
	delete(c.directory, c.peers[c.machineForName(name)])
}

func (c *FakeCluster) machineForName(name ServerName) MachineID {
	return MachineID("machine/" + string(name))
}

// ServersWithTag implements NameClient.
func (c *FakeCluster) ServersWithTag(tag Tag) []ServerName {
	c.RLock()
	defer c.RUnlock()

	servers := make([]ServerName, 0, len(c.tags[tag]))
	for name := range c.tags[tag] {
		servers = append(servers, name)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i] < servers[j] })
	return servers
}

// NameToMachineIDs implements NameClient.
func (c *FakeCluster) NameToMachineIDs() map[ServerName][]MachineID {
	c.RLock()
	defer c.RUnlock()

	m := make(map[ServerName][]MachineID, len(c.machines))
	for name, ids := range c.machines {
		m[name] = append([]MachineID(nil), ids...)
	}
	return m
}

// PeerForMachine implements NameClient.
func (c *FakeCluster) PeerForMachine(id MachineID) (PeerID, bool) {
	c.RLock()
	defer c.RUnlock()
	peer, ok := c.peers[id]
	return peer, ok
}

// ReadWith implements DirectoryView.
func (c *FakeCluster) ReadWith(fn func(dir map[PeerID]PerPeerDirectory)) {
	c.RLock()
	defer c.RUnlock()
	fn(c.directory)
}
