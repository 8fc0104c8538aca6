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

// Package kv provides a versioned key-value store abstraction used by the
// control plane to persist and watch configuration.
package kv

import (
	"errors"

	"github.com/golang/protobuf/proto"
)

var (
	// ErrNotFound is returned when a key is not found in the store.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when a key already exists in the store.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrVersionMismatch is returned on a conditional set with the wrong
	// base version.
	ErrVersionMismatch = errors.New("key version mismatch")
)

// Value is a versioned value received from the store.
type Value interface {
	// Unmarshal retrieves the stored value.
	Unmarshal(v proto.Message) error

	// Version returns the value's version.
	Version() int
}

// ValueWatch watches for updates to one key.
type ValueWatch interface {
	// C returns the notification channel.
	C() <-chan struct{}

	// Get returns the latest version of the value.
	Get() Value

	// Close stops watching for updates.
	Close()
}

// ValueWatchable distributes updates of one key to any number of watches.
type ValueWatchable interface {
	// Get returns the latest value.
	Get() Value

	// Watch returns the latest value and a ValueWatch that will be
	// notified on updates.
	Watch() (Value, ValueWatch, error)

	// NumWatches returns the number of watches on the watchable.
	NumWatches() int

	// Update sets the value and notifies watches; stale updates (older
	// versions) are ignored.
	Update(value Value) error

	// Close stops the watchable from propagating updates.
	Close()
}

// Store is a versioned key-value store for protobuf values.
type Store interface {
	// Get retrieves the value for a key.
	Get(key string) (Value, error)

	// Watch returns a watch notified whenever the key's value changes,
	// including when the key is first created.
	Watch(key string) (ValueWatch, error)

	// Set stores the value for a key and returns the new version.
	Set(key string, v proto.Message) (int, error)

	// SetIfNotExists stores the value only if the key has no value yet.
	SetIfNotExists(key string, v proto.Message) (int, error)

	// CheckAndSet stores the value only if the current version matches.
	CheckAndSet(key string, version int, v proto.Message) (int, error)
}
