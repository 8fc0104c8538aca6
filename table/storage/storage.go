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

// Package storage persists table configurations in a versioned kv store.
// The planner itself never persists anything; callers store the
// configurations it returns through this package.
package storage

import (
	"errors"
	"fmt"

	"github.com/dragstor/rethinkdb/generated/proto/tablepb"
	"github.com/dragstor/rethinkdb/kv"
	"github.com/dragstor/rethinkdb/table"
	"github.com/dragstor/rethinkdb/topology"
)

var errNilStore = errors.New("kv store is nil")

// ConfigStore reads and writes table configurations, versioned per table.
type ConfigStore interface {
	// Get returns the configuration of a table and its version.
	Get(id topology.TableID) (table.Config, int, error)

	// Set unconditionally stores the configuration, returning the new
	// version.
	Set(id topology.TableID, config table.Config) (int, error)

	// SetIfNotExists stores the configuration of a table that has none.
	SetIfNotExists(id topology.TableID, config table.Config) (int, error)

	// CheckAndSet stores the configuration only if the current version
	// matches, returning the new version.
	CheckAndSet(id topology.TableID, version int, config table.Config) (int, error)

	// Watch returns a watch on the table's configuration.
	Watch(id topology.TableID) (kv.ValueWatch, error)
}

// NewConfigStore returns a ConfigStore writing through the given kv store.
func NewConfigStore(store kv.Store) (ConfigStore, error) {
	if store == nil {
		return nil, errNilStore
	}
	return configStore{store: store}, nil
}

type configStore struct {
	store kv.Store
}

func (s configStore) Get(id topology.TableID) (table.Config, int, error) {
	value, err := s.store.Get(configKey(id))
	if err != nil {
		return table.Config{}, 0, err
	}

	var p tablepb.TableConfig
	if err := value.Unmarshal(&p); err != nil {
		return table.Config{}, 0, err
	}
	config, err := table.NewConfigFromProto(&p)
	if err != nil {
		return table.Config{}, 0, err
	}
	if err := config.Validate(); err != nil {
		return table.Config{}, 0, err
	}
	return config, value.Version(), nil
}

func (s configStore) Set(id topology.TableID, config table.Config) (int, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}
	return s.store.Set(configKey(id), config.ToProto())
}

func (s configStore) SetIfNotExists(id topology.TableID, config table.Config) (int, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}
	return s.store.SetIfNotExists(configKey(id), config.ToProto())
}

func (s configStore) CheckAndSet(id topology.TableID, version int, config table.Config) (int, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}
	return s.store.CheckAndSet(configKey(id), version, config.ToProto())
}

func (s configStore) Watch(id topology.TableID) (kv.ValueWatch, error) {
	return s.store.Watch(configKey(id))
}

func configKey(id topology.TableID) string {
	return fmt.Sprintf("tables/%s/config", id)
}
