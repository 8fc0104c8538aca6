// Copyright (c) 2017 Uber Technologies, Inc.
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

package storage

import (
	"time"

	"github.com/dragstor/rethinkdb/topology"
	"github.com/m3db/m3x/instrument"
)

const defaultInitWatchTimeout = 10 * time.Second

// WatcherOptions configures a ConfigWatcher.
type WatcherOptions interface {
	// SetTableID sets the table whose configuration is watched.
	SetTableID(value topology.TableID) WatcherOptions

	// TableID returns the table whose configuration is watched.
	TableID() topology.TableID

	// SetConfigStore sets the store the configuration is read from.
	SetConfigStore(value ConfigStore) WatcherOptions

	// ConfigStore returns the store the configuration is read from.
	ConfigStore() ConfigStore

	// SetInitWatchTimeout sets the initial watch timeout.
	SetInitWatchTimeout(value time.Duration) WatcherOptions

	// InitWatchTimeout returns the initial watch timeout.
	InitWatchTimeout() time.Duration

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) WatcherOptions

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options
}

type watcherOptions struct {
	tableID          topology.TableID
	configStore      ConfigStore
	initWatchTimeout time.Duration
	instrumentOpts   instrument.Options
}

// NewWatcherOptions returns new watcher options.
func NewWatcherOptions() WatcherOptions {
	return &watcherOptions{
		initWatchTimeout: defaultInitWatchTimeout,
		instrumentOpts:   instrument.NewOptions(),
	}
}

func (o *watcherOptions) SetTableID(value topology.TableID) WatcherOptions {
	opts := *o
	opts.tableID = value
	return &opts
}

func (o *watcherOptions) TableID() topology.TableID {
	return o.tableID
}

func (o *watcherOptions) SetConfigStore(value ConfigStore) WatcherOptions {
	opts := *o
	opts.configStore = value
	return &opts
}

func (o *watcherOptions) ConfigStore() ConfigStore {
	return o.configStore
}

func (o *watcherOptions) SetInitWatchTimeout(value time.Duration) WatcherOptions {
	opts := *o
	opts.initWatchTimeout = value
	return &opts
}

func (o *watcherOptions) InitWatchTimeout() time.Duration {
	return o.initWatchTimeout
}

func (o *watcherOptions) SetInstrumentOptions(value instrument.Options) WatcherOptions {
	opts := *o
	opts.instrumentOpts = value
	return &opts
}

func (o *watcherOptions) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}
