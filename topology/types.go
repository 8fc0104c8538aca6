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

// Package topology provides the control plane's view of cluster membership:
// server naming, tag grouping and the directory of per-server state.
package topology

import "github.com/dragstor/rethinkdb/reactor"

// ServerName identifies a server by its user-visible name. Names are meant
// to be unique; the directory snapshot detects collisions.
type ServerName string

// Tag labels a group of servers. A server may carry multiple tags.
type Tag string

// MachineID identifies the machine a server process runs on.
type MachineID string

// PeerID identifies a connected cluster peer.
type PeerID string

// TableID identifies a table. NilTable denotes a table that does not exist
// yet, for which no directory state can be read.
type TableID string

// NilTable is the sentinel for a not-yet-created table.
const NilTable TableID = ""

// PerPeerDirectory is the slice of the cluster directory one peer exports:
// the business card it advertises for every table it participates in.
type PerPeerDirectory struct {
	Cards map[TableID]reactor.BusinessCard
}

// NameClient resolves server names, tags and machine identities. The live
// view may change between calls; callers needing a consistent view must
// snapshot the results they depend on.
type NameClient interface {
	// ServersWithTag returns the servers currently carrying the tag.
	ServersWithTag(tag Tag) []ServerName

	// NameToMachineIDs returns the machine ids registered for every server
	// name. A name mapping to more than one machine id is a collision.
	NameToMachineIDs() map[ServerName][]MachineID

	// PeerForMachine returns the connected peer for a machine, if any.
	PeerForMachine(id MachineID) (PeerID, bool)
}

// DirectoryView grants read access to the cluster directory. The map passed
// to the visitor is a single consistent view; it must not be retained or
// mutated after the visitor returns.
type DirectoryView interface {
	ReadWith(fn func(dir map[PeerID]PerPeerDirectory))
}
