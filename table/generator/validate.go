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
	"errors"
	"fmt"

	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
)

var errNoShardsRequested = errors.New("every table must have at least one shard")

// validateParams checks whether the requested parameters are legal against
// the snapshot of tag membership taken for this call. Using the snapshot
// rather than a live query means validation and placement see identical
// inputs.
func validateParams(params table.GenerateParams, tagServers map[topology.Tag][]topology.ServerName) error {
	if params.NumShards <= 0 {
		return errNoShardsRequested
	}
	if params.NumShards > table.MaxNumShards {
		return fmt.Errorf("maximum number of shards is %d", table.MaxNumShards)
	}
	if params.NumReplicas[params.DirectorTag] == 0 {
		return fmt.Errorf("can't use server tag `%s` for directors because you "+
			"specified no replicas in server tag `%s`", params.DirectorTag, params.DirectorTag)
	}

	claimed := make(map[topology.ServerName]topology.Tag)
	for _, tag := range params.Tags() {
		if params.NumReplicas[tag] == 0 {
			continue
		}
		for _, name := range tagServers[tag] {
			if prev, ok := claimed[name]; ok {
				return fmt.Errorf("server tags `%s` and `%s` overlap; both contain "+
					"server `%s`; the server tags used for replication settings for a "+
					"given table must be non-overlapping", tag, prev, name)
			}
			claimed[name] = tag
		}
	}
	return nil
}
