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

// Package etcd provides a kv.Store backed by an etcd cluster.
package etcd

import (
	"time"

	"github.com/m3db/m3x/instrument"
	xretry "github.com/m3db/m3x/retry"
)

const (
	defaultRequestTimeout         = 10 * time.Second
	defaultWatchChanCheckInterval = time.Minute
)

// KeyFn transforms a logical key into the key stored in etcd.
type KeyFn func(key string) string

// Options configures an etcd-backed store.
type Options interface {
	// SetRequestTimeout sets the timeout applied to etcd requests.
	SetRequestTimeout(value time.Duration) Options

	// RequestTimeout returns the timeout applied to etcd requests.
	RequestTimeout() time.Duration

	// SetKeyFn sets the key transformation.
	SetKeyFn(value KeyFn) Options

	// KeyFn returns the key transformation.
	KeyFn() KeyFn

	// SetWatchChanCheckInterval sets how often an unused watch channel is
	// checked for cleanup.
	SetWatchChanCheckInterval(value time.Duration) Options

	// WatchChanCheckInterval returns the watch channel cleanup interval.
	WatchChanCheckInterval() time.Duration

	// SetRetryOptions sets the retry options for watch refreshes.
	SetRetryOptions(value xretry.Options) Options

	// RetryOptions returns the retry options for watch refreshes.
	RetryOptions() xretry.Options

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options
}

type opts struct {
	requestTimeout         time.Duration
	keyFn                  KeyFn
	watchChanCheckInterval time.Duration
	retryOpts              xretry.Options
	instrumentOpts         instrument.Options
}

// NewOptions returns new etcd store options.
func NewOptions() Options {
	return &opts{
		requestTimeout:         defaultRequestTimeout,
		keyFn:                  func(key string) string { return key },
		watchChanCheckInterval: defaultWatchChanCheckInterval,
		retryOpts:              xretry.NewOptions(),
		instrumentOpts:         instrument.NewOptions(),
	}
}

func (o *opts) SetRequestTimeout(value time.Duration) Options {
	options := *o
	options.requestTimeout = value
	return &options
}

func (o *opts) RequestTimeout() time.Duration {
	return o.requestTimeout
}

func (o *opts) SetKeyFn(value KeyFn) Options {
	options := *o
	options.keyFn = value
	return &options
}

func (o *opts) KeyFn() KeyFn {
	return o.keyFn
}

func (o *opts) SetWatchChanCheckInterval(value time.Duration) Options {
	options := *o
	options.watchChanCheckInterval = value
	return &options
}

func (o *opts) WatchChanCheckInterval() time.Duration {
	return o.watchChanCheckInterval
}

func (o *opts) SetRetryOptions(value xretry.Options) Options {
	options := *o
	options.retryOpts = value
	return &options
}

func (o *opts) RetryOptions() xretry.Options {
	return o.retryOpts
}

func (o *opts) SetInstrumentOptions(value instrument.Options) Options {
	options := *o
	options.instrumentOpts = value
	return &options
}

func (o *opts) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}
