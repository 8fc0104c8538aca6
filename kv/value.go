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
	"github.com/golang/protobuf/proto"
	xwatch "github.com/m3db/m3x/watch"
)

// NewValue returns a Value wrapping raw bytes at a version.
func NewValue(data []byte, version int) Value {
	return value{data: data, version: version}
}

type value struct {
	data    []byte
	version int
}

func (v value) Version() int                    { return v.version }
func (v value) Unmarshal(m proto.Message) error { return proto.Unmarshal(v.data, m) }

// NewValueWatchable returns a ValueWatchable with no value set.
func NewValueWatchable() ValueWatchable {
	return &valueWatchable{watchable: xwatch.NewWatchable()}
}

type valueWatchable struct {
	watchable xwatch.Watchable
}

func (w *valueWatchable) Get() Value {
	return valueFromWatch(w.watchable.Get())
}

func (w *valueWatchable) Watch() (Value, ValueWatch, error) {
	curr, watch, err := w.watchable.Watch()
	if err != nil {
		return nil, nil, err
	}
	return valueFromWatch(curr), &valueWatch{watch: watch}, nil
}

func (w *valueWatchable) NumWatches() int {
	return w.watchable.NumWatches()
}

func (w *valueWatchable) Update(value Value) error {
	curr := w.Get()
	if curr != nil && value != nil && curr.Version() >= value.Version() {
		return nil
	}
	return w.watchable.Update(value)
}

func (w *valueWatchable) Close() {
	w.watchable.Close()
}

type valueWatch struct {
	watch xwatch.Watch
}

func (w *valueWatch) C() <-chan struct{} { return w.watch.C() }
func (w *valueWatch) Get() Value         { return valueFromWatch(w.watch.Get()) }
func (w *valueWatch) Close()             { w.watch.Close() }

func valueFromWatch(v interface{}) Value {
	if v == nil {
		return nil
	}
	return v.(Value)
}
