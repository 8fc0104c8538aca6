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

	"github.com/dragstor/rethinkdb/generated/proto/tablepb"
	"github.com/dragstor/rethinkdb/topology"
)

var errNilConfigProto = errors.New("nil table config proto")

// ToProto converts the configuration to its persisted form.
func (c Config) ToProto() *tablepb.TableConfig {
	p := &tablepb.TableConfig{Shards: make([]*tablepb.Shard, len(c.Shards))}
	for i, s := range c.Shards {
		shard := &tablepb.Shard{
			ReplicaNames:  make([]string, len(s.Replicas)),
			DirectorNames: make([]string, len(s.Directors)),
		}
		for j, r := range s.Replicas {
			shard.ReplicaNames[j] = string(r)
		}
		for j, d := range s.Directors {
			shard.DirectorNames[j] = string(d)
		}
		p.Shards[i] = shard
	}
	return p
}

// NewConfigFromProto converts a persisted configuration back to a Config.
func NewConfigFromProto(p *tablepb.TableConfig) (Config, error) {
	if p == nil {
		return Config{}, errNilConfigProto
	}
	c := Config{Shards: make([]Shard, len(p.Shards))}
	for i, shard := range p.Shards {
		s := Shard{
			Replicas:  make([]topology.ServerName, 0, len(shard.ReplicaNames)),
			Directors: make([]topology.ServerName, len(shard.DirectorNames)),
		}
		for _, name := range shard.ReplicaNames {
			s.AddReplica(topology.ServerName(name))
		}
		for j, name := range shard.DirectorNames {
			s.Directors[j] = topology.ServerName(name)
		}
		c.Shards[i] = s
	}
	return c, nil
}
