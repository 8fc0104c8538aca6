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

package generator

import (
	"github.com/dragstor/rethinkdb/region"
	"github.com/m3db/m3x/clock"
	"github.com/m3db/m3x/instrument"
)

// WeightFn returns the weight a key-range piece carries when averaging
// backfill costs across a shard's range.
type WeightFn func(r region.Range) float64

// UniformWeight weighs every piece equally, producing the unweighted mean.
// TODO: weight by the amount of data stored in each piece once the
// directory advertises per-range sizes.
func UniformWeight(region.Range) float64 { return 1 }

// Options configures a Generator.
type Options interface {
	// SetClockOptions sets the clock options.
	SetClockOptions(value clock.Options) Options

	// ClockOptions returns the clock options.
	ClockOptions() clock.Options

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options

	// SetBackfillWeightFn sets the weighting policy used when averaging
	// backfill costs over a shard's key range.
	SetBackfillWeightFn(value WeightFn) Options

	// BackfillWeightFn returns the backfill weighting policy.
	BackfillWeightFn() WeightFn
}

type options struct {
	clockOpts      clock.Options
	instrumentOpts instrument.Options
	weightFn       WeightFn
}

// NewOptions returns new generator options with an unweighted backfill
// cost mean.
func NewOptions() Options {
	return &options{
		clockOpts:      clock.NewOptions(),
		instrumentOpts: instrument.NewOptions(),
		weightFn:       UniformWeight,
	}
}

func (o *options) SetClockOptions(value clock.Options) Options {
	opts := *o
	opts.clockOpts = value
	return &opts
}

func (o *options) ClockOptions() clock.Options {
	return o.clockOpts
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.instrumentOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

func (o *options) SetBackfillWeightFn(value WeightFn) Options {
	opts := *o
	opts.weightFn = value
	return &opts
}

func (o *options) BackfillWeightFn() WeightFn {
	return o.weightFn
}
