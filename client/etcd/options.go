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

// Package etcd implements the configuration backend client on etcd.
package etcd

import (
	"github.com/m3db/m3x/instrument"
)

// Cluster describes the etcd cluster serving one zone.
type Cluster interface {
	// Zone returns the zone the cluster serves.
	Zone() string

	// Endpoints returns the cluster's client endpoints.
	Endpoints() []string
}

// NewCluster returns a Cluster for a zone.
func NewCluster(zone string, endpoints []string) Cluster {
	return cluster{zone: zone, endpoints: endpoints}
}

type cluster struct {
	zone      string
	endpoints []string
}

func (c cluster) Zone() string        { return c.zone }
func (c cluster) Endpoints() []string { return c.endpoints }

// Options configures an etcd-backed configuration client.
type Options interface {
	// SetZone sets the zone the client operates in.
	SetZone(value string) Options

	// Zone returns the zone the client operates in.
	Zone() string

	// SetEnv sets the environment namespacing all keys.
	SetEnv(value string) Options

	// Env returns the environment namespacing all keys.
	Env() string

	// SetClusters sets the etcd clusters, one per zone.
	SetClusters(value []Cluster) Options

	// Clusters returns the etcd clusters.
	Clusters() []Cluster

	// ClusterForZone returns the etcd cluster serving the zone.
	ClusterForZone(zone string) (Cluster, bool)

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options
}

type options struct {
	zone           string
	env            string
	clusters       map[string]Cluster
	instrumentOpts instrument.Options
}

// NewOptions returns new client options.
func NewOptions() Options {
	return &options{
		clusters:       make(map[string]Cluster),
		instrumentOpts: instrument.NewOptions(),
	}
}

func (o *options) SetZone(value string) Options {
	opts := *o
	opts.zone = value
	return &opts
}

func (o *options) Zone() string {
	return o.zone
}

func (o *options) SetEnv(value string) Options {
	opts := *o
	opts.env = value
	return &opts
}

func (o *options) Env() string {
	return o.env
}

func (o *options) SetClusters(value []Cluster) Options {
	opts := *o
	opts.clusters = make(map[string]Cluster, len(value))
	for _, c := range value {
		opts.clusters[c.Zone()] = c
	}
	return &opts
}

func (o *options) Clusters() []Cluster {
	clusters := make([]Cluster, 0, len(o.clusters))
	for _, c := range o.clusters {
		clusters = append(clusters, c)
	}
	return clusters
}

func (o *options) ClusterForZone(zone string) (Cluster, bool) {
	c, ok := o.clusters[zone]
	return c, ok
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.instrumentOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}
