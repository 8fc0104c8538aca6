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

package etcd

import (
	"fmt"
	"sync"
	"time"

	"github.com/coreos/etcd/clientv3"
	"github.com/dragstor/rethinkdb/kv"
	"github.com/golang/protobuf/proto"
	xlog "github.com/m3db/m3x/log"
	xretry "github.com/m3db/m3x/retry"
	"golang.org/x/net/context"
)

var noopCancel = func() {}

// NewStore creates a kv store backed by an etcd client.
func NewStore(etcd *clientv3.Client, opts Options) kv.Store {
	return &store{
		opts:       opts,
		kv:         etcd.KV,
		watcher:    etcd.Watcher,
		watchables: make(map[string]kv.ValueWatchable),
		retrier:    xretry.NewRetrier(opts.RetryOptions()),
		logger:     opts.InstrumentOptions().Logger(),
	}
}

type store struct {
	sync.RWMutex

	opts       Options
	kv         clientv3.KV
	watcher    clientv3.Watcher
	watchables map[string]kv.ValueWatchable
	retrier    xretry.Retrier
	logger     xlog.Logger
}

func (s *store) Get(key string) (kv.Value, error) {
	ctx, cancel := s.context()
	defer cancel()

	r, err := s.kv.Get(ctx, s.opts.KeyFn()(key))
	if err != nil {
		return nil, err
	}
	if r.Count == 0 {
		return nil, kv.ErrNotFound
	}
	if r.Count > 1 {
		return nil, fmt.Errorf("received %d values for key %s, expecting 1", r.Count, key)
	}
	return kv.NewValue(r.Kvs[0].Value, int(r.Kvs[0].Version)), nil
}

func (s *store) Watch(key string) (kv.ValueWatch, error) {
	s.Lock()
	watchable, ok := s.watchables[key]
	if !ok {
		watchChan := s.watcher.Watch(
			context.Background(),
			s.opts.KeyFn()(key),
			clientv3.WithProgressNotify(),
			// Receive a notification once the watch channel is created.
			clientv3.WithCreatedNotify(),
		)

		watchable = kv.NewValueWatchable()
		s.watchables[key] = watchable

		go s.watchUpdates(key, watchable, watchChan)
	}
	s.Unlock()

	_, w, err := watchable.Watch()
	return w, err
}

func (s *store) watchUpdates(key string, watchable kv.ValueWatchable, watchChan clientv3.WatchChan) {
	ticker := time.Tick(s.opts.WatchChanCheckInterval())
	for {
		select {
		case r := <-watchChan:
			if err := r.Err(); err != nil {
				s.logger.Errorf("received error on watch channel for key %s: %v", key, err)
			}
			// Retry the fetch: a failed Get on a watch update would
			// otherwise wait for the next notification to try again.
			if err := s.retrier.Attempt(func() error {
				return s.update(key, watchable)
			}); err != nil {
				s.logger.Errorf("received notification for key %s, but failed to get value: %v", key, err)
			}
		case <-ticker:
			s.RLock()
			numWatches := watchable.NumWatches()
			s.RUnlock()
			if numWatches != 0 {
				continue
			}
			if s.tryCleanUp(key) {
				return
			}
		}
	}
}

func (s *store) tryCleanUp(key string) bool {
	s.Lock()
	defer s.Unlock()

	watchable, ok := s.watchables[key]
	if !ok {
		s.logger.Warnf("unexpected: key %s is already cleaned up", key)
		return true
	}
	if watchable.NumWatches() != 0 {
		// A new watch subscribed in the meantime, do not clean up.
		return false
	}
	watchable.Close()
	delete(s.watchables, key)
	return true
}

func (s *store) update(key string, watchable kv.ValueWatchable) error {
	v, err := s.Get(key)
	if err != nil {
		return err
	}
	return watchable.Update(v)
}

func (s *store) Set(key string, v proto.Message) (int, error) {
	ctx, cancel := s.context()
	defer cancel()

	data, err := proto.Marshal(v)
	if err != nil {
		return 0, err
	}

	r, err := s.kv.Put(ctx, s.opts.KeyFn()(key), string(data), clientv3.WithPrevKV())
	if err != nil {
		return 0, err
	}
	// No previous kv means this is the first version of the key.
	if r.PrevKv == nil {
		return 1, nil
	}
	return int(r.PrevKv.Version + 1), nil
}

func (s *store) SetIfNotExists(key string, v proto.Message) (int, error) {
	ctx, cancel := s.context()
	defer cancel()

	data, err := proto.Marshal(v)
	if err != nil {
		return 0, err
	}

	key = s.opts.KeyFn()(key)
	r, err := s.kv.Txn(ctx).
		If(clientv3.Compare(clientv3.Version(key), "=", 0)).
		Then(clientv3.OpPut(key, string(data))).
		Commit()
	if err != nil {
		return 0, err
	}
	if !r.Succeeded {
		return 0, kv.ErrAlreadyExists
	}
	return 1, nil
}

func (s *store) CheckAndSet(key string, version int, v proto.Message) (int, error) {
	ctx, cancel := s.context()
	defer cancel()

	data, err := proto.Marshal(v)
	if err != nil {
		return 0, err
	}

	key = s.opts.KeyFn()(key)
	r, err := s.kv.Txn(ctx).
		If(clientv3.Compare(clientv3.Version(key), "=", version)).
		Then(clientv3.OpPut(key, string(data))).
		Commit()
	if err != nil {
		return 0, err
	}
	if !r.Succeeded {
		return 0, kv.ErrVersionMismatch
	}
	return version + 1, nil
}

func (s *store) context() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	cancel := noopCancel
	if timeout := s.opts.RequestTimeout(); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	return ctx, cancel
}
