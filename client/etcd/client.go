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

	"github.com/coreos/etcd/clientv3"
	"github.com/dragstor/rethinkdb/client"
	"github.com/dragstor/rethinkdb/kv"
	etcdkv "github.com/dragstor/rethinkdb/kv/etcd"
	"github.com/dragstor/rethinkdb/table/storage"
	xerrors "github.com/m3db/m3x/errors"
	"github.com/m3db/m3x/instrument"
	xlog "github.com/m3db/m3x/log"
	"github.com/uber-go/tally"
)

const (
	keyFormat = "%s/%s"
	kvPrefix  = "_kv"
)

// NewConfigClient returns a Client backed by the etcd clusters in opts.
func NewConfigClient(opts Options) client.Client {
	return &configClient{
		opts:    opts,
		kvScope: opts.InstrumentOptions().MetricsScope().Tagged(map[string]string{"config_service": "kv"}),
		logger:  opts.InstrumentOptions().Logger(),
		clients: make(map[string]*clientv3.Client),
	}
}

type configClient struct {
	sync.Mutex

	opts    Options
	kvScope tally.Scope
	logger  xlog.Logger
	clients map[string]*clientv3.Client

	kvOnce sync.Once
	kv     kv.Store
	kvErr  error
}

func (c *configClient) KV() (kv.Store, error) {
	c.kvOnce.Do(func() {
		c.kv, c.kvErr = c.newKVStore()
	})
	return c.kv, c.kvErr
}

func (c *configClient) ConfigStore() (storage.ConfigStore, error) {
	store, err := c.KV()
	if err != nil {
		return nil, err
	}
	return storage.NewConfigStore(store)
}

func (c *configClient) newKVStore() (kv.Store, error) {
	cli, err := c.etcdClientForZone(c.opts.Zone())
	if err != nil {
		return nil, err
	}

	env := c.opts.Env()
	kvOpts := etcdkv.NewOptions().
		SetInstrumentOptions(instrument.NewOptions().
			SetLogger(c.logger).
			SetMetricsScope(c.kvScope)).
		SetKeyFn(func(key string) string {
			if env != "" {
				key = fmt.Sprintf(keyFormat, env, key)
			}
			return fmt.Sprintf(keyFormat, kvPrefix, key)
		})
	return etcdkv.NewStore(cli, kvOpts), nil
}

func (c *configClient) Close() error {
	c.Lock()
	defer c.Unlock()

	multiErr := xerrors.NewMultiError()
	for zone, cli := range c.clients {
		if err := cli.Close(); err != nil {
			multiErr = multiErr.Add(fmt.Errorf("could not close etcd client for zone %s: %v", zone, err))
		}
	}
	c.clients = make(map[string]*clientv3.Client)
	return multiErr.FinalError()
}

func (c *configClient) etcdClientForZone(zone string) (*clientv3.Client, error) {
	c.Lock()
	defer c.Unlock()

	if cli, ok := c.clients[zone]; ok {
		return cli, nil
	}

	cluster, ok := c.opts.ClusterForZone(zone)
	if !ok {
		return nil, fmt.Errorf("no etcd cluster found for zone %s", zone)
	}

	cli, err := clientv3.New(clientv3.Config{Endpoints: cluster.Endpoints()})
	if err != nil {
		return nil, err
	}
	c.clients[zone] = cli
	return cli, nil
}
