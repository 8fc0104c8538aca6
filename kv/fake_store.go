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

package kv

import (
	"sync"

	"github.com/golang/protobuf/proto"
)

// NewFakeStore returns a new in-process store that can be used for testing.
func NewFakeStore() Store {
	return &fakeStore{
		values:     make(map[string]value),
		watchables: make(map[string]ValueWatchable),
	}
}

type fakeStore struct {
	sync.Mutex

	values     map[string]value
	watchables map[string]ValueWatchable
}

func (kv *fakeStore) Get(key string) (Value, error) {
	kv.Lock()
	defer kv.Unlock()

	if val, ok := kv.values[key]; ok {
		return val, nil
	}
	return nil, ErrNotFound
}

func (kv *fakeStore) Watch(key string) (ValueWatch, error) {
	kv.Lock()
	watchable, ok := kv.watchables[key]
	if !ok {
		watchable = NewValueWatchable()
		kv.watchables[key] = watchable
		if val, exists := kv.values[key]; exists {
			watchable.Update(val)
		}
	}
	kv.Unlock()

	_, watch, err := watchable.Watch()
	return watch, err
}

func (kv *fakeStore) Set(key string, v proto.Message) (int, error) {
	data, err := proto.Marshal(v)
	if err != nil {
		return 0, err
	}

	kv.Lock()
	defer kv.Unlock()

	version := 1
	if val, ok := kv.values[key]; ok {
		version = val.version + 1
	}
	kv.setWithLock(key, value{data: data, version: version})
	return version, nil
}

func (kv *fakeStore) SetIfNotExists(key string, v proto.Message) (int, error) {
	data, err := proto.Marshal(v)
	if err != nil {
		return 0, err
	}

	kv.Lock()
	defer kv.Unlock()

	if _, ok := kv.values[key]; ok {
		return 0, ErrAlreadyExists
	}
	kv.setWithLock(key, value{data: data, version: 1})
	return 1, nil
}

func (kv *fakeStore) CheckAndSet(key string, version int, v proto.Message) (int, error) {
	data, err := proto.Marshal(v)
	if err != nil {
		return 0, err
	}

	kv.Lock()
	defer kv.Unlock()

	if val, ok := kv.values[key]; ok && val.version != version {
		return 0, ErrVersionMismatch
	} else if !ok && version != 0 {
		return 0, ErrVersionMismatch
	}
	kv.setWithLock(key, value{data: data, version: version + 1})
	return version + 1, nil
}

// setWithLock assumes the store lock is held by the caller.
func (kv *fakeStore) setWithLock(key string, val value) {
	kv.values[key] = val
	if watchable, ok := kv.watchables[key]; ok {
		watchable.Update(val)
	}
}
