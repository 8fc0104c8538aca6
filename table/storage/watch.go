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
	"errors"
	"sync"

	"github.com/dragstor/rethinkdb/generated/proto/tablepb"
	"github.com/dragstor/rethinkdb/kv"
	"github.com/dragstor/rethinkdb/kv/util/runtime"
	"github.com/dragstor/rethinkdb/table"
	xlog "github.com/m3db/m3x/log"
)

var (
	errNilValue           = errors.New("nil value received")
	errWatcherNotWatching = errors.New("config watcher is not watching")
	errWatcherNoConfigYet = errors.New("config watcher has no config yet")
)

type watcherState int

const (
	watcherNotWatching watcherState = iota
	watcherWatching
)

// ConfigWatcher keeps the latest valid configuration of one table in
// memory, following updates in the config store. Invalid updates are
// logged and dropped, leaving the previous configuration in place.
type ConfigWatcher interface {
	// Watch starts watching for configuration updates.
	Watch() error

	// Unwatch stops watching for configuration updates.
	Unwatch() error

	// Config returns the latest configuration and its version.
	Config() (table.Config, int, error)
}

// NewConfigWatcher creates a watcher for one table's configuration.
func NewConfigWatcher(opts WatcherOptions) ConfigWatcher {
	watcher := &configWatcher{
		logger: opts.InstrumentOptions().Logger(),
	}

	updatableFn := func() (runtime.Updatable, error) {
		return opts.ConfigStore().Watch(opts.TableID())
	}
	getFn := func(updatable runtime.Updatable) (interface{}, error) {
		return updatable.(kv.ValueWatch).Get(), nil
	}
	valueOpts := runtime.NewOptions().
		SetInstrumentOptions(opts.InstrumentOptions()).
		SetInitWatchTimeout(opts.InitWatchTimeout()).
		SetUpdatableFn(updatableFn).
		SetGetFn(getFn).
		SetProcessFn(watcher.process)
	watcher.value = runtime.NewValue(valueOpts)
	return watcher
}

type configWatcher struct {
	sync.RWMutex

	value  runtime.Value
	logger xlog.Logger

	state   watcherState
	config  table.Config
	version int
}

func (w *configWatcher) Watch() error {
	w.Lock()
	if w.state == watcherWatching {
		w.Unlock()
		return nil
	}
	w.state = watcherWatching
	w.Unlock()

	// The initial update triggers the process() callback, which acquires
	// the watcher lock, so watch outside the lock.
	return w.value.Watch()
}

func (w *configWatcher) Unwatch() error {
	w.Lock()
	if w.state != watcherWatching {
		w.Unlock()
		return errWatcherNotWatching
	}
	w.state = watcherNotWatching
	w.Unlock()

	w.value.Unwatch()
	return nil
}

func (w *configWatcher) Config() (table.Config, int, error) {
	w.RLock()
	defer w.RUnlock()

	if w.state != watcherWatching {
		return table.Config{}, 0, errWatcherNotWatching
	}
	if w.version == 0 {
		return table.Config{}, 0, errWatcherNoConfigYet
	}
	return w.config, w.version, nil
}

func (w *configWatcher) process(update interface{}) error {
	w.Lock()
	defer w.Unlock()

	if w.state != watcherWatching {
		return errWatcherNotWatching
	}
	if update == nil {
		return errNilValue
	}
	value := update.(kv.Value)

	var p tablepb.TableConfig
	if err := value.Unmarshal(&p); err != nil {
		w.logger.Errorf("could not unmarshal config update: %v", err)
		return err
	}
	config, err := table.NewConfigFromProto(&p)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		w.logger.Errorf("dropping invalid config update at version %d: %v", value.Version(), err)
		return err
	}

	w.config = config
	w.version = value.Version()
	return nil
}
