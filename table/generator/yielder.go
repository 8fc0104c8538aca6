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
	"context"
	"runtime"
	"time"

	"github.com/m3db/m3x/clock"
)

// yieldInterval is how long a calculation may hold the processor before
// maybeYield hands it over.
const yieldInterval = 10 * time.Millisecond

// calculationYielder is used in a long-running calculation to periodically
// give up the processor and to check for cancellation. Construct one at the
// beginning of the calculation and call maybeYield regularly; it only
// yields after holding the processor for yieldInterval, so it is cheap to
// call in a tight inner loop.
type calculationYielder struct {
	nowFn clock.NowFn
	last  time.Time
}

func newCalculationYielder(nowFn clock.NowFn) *calculationYielder {
	return &calculationYielder{nowFn: nowFn, last: nowFn()}
}

func (y *calculationYielder) maybeYield(ctx context.Context) error {
	if now := y.nowFn(); now.Sub(y.last) >= yieldInterval {
		runtime.Gosched()
		y.last = now
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
