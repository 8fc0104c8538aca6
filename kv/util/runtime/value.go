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

package runtime

import (
	"errors"
	"fmt"
	"sync"
	"time"

	xlog "github.com/m3db/m3x/log"
)

var (
	errInitWatchTimeout = errors.New("init watch timeout")
	errNilValue         = errors.New("nil value")
)

// Value is a value that can be updated during runtime.
type Value interface {
	// Watch starts watching for value updates.
	Watch() error

	// Unwatch stops watching for value updates.
	Unwatch()
}

// Updatable is a watchable source of updates.
type Updatable interface {
	// C returns the notification channel.
	C() <-chan struct{}

	// Close closes the updatable.
	Close()
}

// NewUpdatableFn creates an updatable.
type NewUpdatableFn func() (Updatable, error)

// GetFn returns the latest value of an updatable.
type GetFn func(updatable Updatable) (interface{}, error)

// ProcessFn processes a value.
type ProcessFn func(value interface{}) error

type valueStatus int

const (
	valueNotWatching valueStatus = iota
	valueWatching
)

type value struct {
	sync.RWMutex

	opts      Options
	log       xlog.Logger
	getFn     GetFn
	processFn ProcessFn

	status    valueStatus
	updatable Updatable
}

// NewValue creates a new runtime value.
func NewValue(opts Options) Value {
	return &value{
		opts:      opts,
		log:       opts.InstrumentOptions().Logger(),
		getFn:     opts.GetFn(),
		processFn: opts.ProcessFn(),
	}
}

func (v *value) Watch() error {
	v.Lock()
	defer v.Unlock()

	if v.status == valueWatching {
		return nil
	}

	updatable, err := v.opts.UpdatableFn()()
	if err != nil {
		return CreateWatchError{innerError: err}
	}
	v.status = valueWatching
	v.updatable = updatable
	// NB(xichen): we want to start watching updates even though the initial
	// value may not be available yet (e.g., during a network partition) so
	// the value gets updated when the error condition is resolved.
	defer func() { go v.watchUpdates(v.updatable) }()

	select {
	case <-v.updatable.C():
	case <-time.After(v.opts.InitWatchTimeout()):
		return InitValueError{innerError: errInitWatchTimeout}
	}

	update, err := v.getFn(v.updatable)
	if err != nil {
		return InitValueError{innerError: err}
	}
	if err = v.processWithLock(update); err != nil {
		return InitValueError{innerError: err}
	}
	return nil
}

func (v *value) Unwatch() {
	v.Lock()
	defer v.Unlock()

	if v.status == valueNotWatching {
		return
	}
	v.status = valueNotWatching
	v.updatable.Close()
	v.updatable = nil
}

func (v *value) watchUpdates(updatable Updatable) {
	for range updatable.C() {
		v.Lock()
		// If we are not watching, or watching with a different updatable
		// because the current watch was stopped and a new one started,
		// return immediately.
		if v.status != valueWatching || v.updatable != updatable {
			v.Unlock()
			return
		}
		update, err := v.getFn(updatable)
		if err != nil {
			v.log.Errorf("error getting update: %v", err)
			v.Unlock()
			continue
		}
		if err = v.processWithLock(update); err != nil {
			v.log.Errorf("error processing update: %v", err)
		}
		v.Unlock()
	}
}

// processWithLock assumes the value lock is held by the caller.
func (v *value) processWithLock(update interface{}) error {
	if update == nil {
		return errNilValue
	}
	return v.processFn(update)
}

// CreateWatchError is returned when encountering an error creating a watch.
type CreateWatchError struct {
	innerError error
}

func (e CreateWatchError) Error() string {
	return fmt.Sprintf("create watch error:%v", e.innerError)
}

// InitValueError is returned when encountering an error initializing a value.
type InitValueError struct {
	innerError error
}

func (e InitValueError) Error() string {
	return fmt.Sprintf("initializing value error:%v", e.innerError)
}
