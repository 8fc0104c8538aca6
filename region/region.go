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

// Package region describes contiguous portions of a table's key-space.
// Keys are compared bytewise, the same order the storage engine uses.
package region

import "fmt"

// Range is a half-open key range [Start, End). An unbounded range has no
// upper bound and End is ignored.
type Range struct {
	Start     string
	End       string
	Unbounded bool
}

// NewRange returns the range [start, end).
func NewRange(start, end string) Range {
	return Range{Start: start, End: end}
}

// NewUnboundedRange returns the range from start to the end of the key-space.
func NewUnboundedRange(start string) Range {
	return Range{Start: start, Unbounded: true}
}

// Universe returns the range covering the entire key-space.
func Universe() Range {
	return Range{Unbounded: true}
}

// IsEmpty returns true if the range contains no keys.
func (r Range) IsEmpty() bool {
	return !r.Unbounded && r.End <= r.Start
}

// Equal returns true if both ranges cover the same keys.
func (r Range) Equal(other Range) bool {
	if r.IsEmpty() && other.IsEmpty() {
		return true
	}
	if r.Start != other.Start || r.Unbounded != other.Unbounded {
		return false
	}
	return r.Unbounded || r.End == other.End
}

// Intersect returns the range covered by both r and other. The result may
// be empty.
func (r Range) Intersect(other Range) Range {
	if r.IsEmpty() || other.IsEmpty() {
		return Range{}
	}

	start := r.Start
	if other.Start > start {
		start = other.Start
	}

	if r.Unbounded && other.Unbounded {
		return Range{Start: start, Unbounded: true}
	}

	end := r.End
	if r.Unbounded {
		end = other.End
	} else if !other.Unbounded && other.End < end {
		end = other.End
	}

	if end <= start {
		return Range{}
	}
	return Range{Start: start, End: end}
}

// Contains returns true if every key in other is also in r.
func (r Range) Contains(other Range) bool {
	if other.IsEmpty() {
		return true
	}
	if r.IsEmpty() || other.Start < r.Start {
		return false
	}
	if r.Unbounded {
		return true
	}
	if other.Unbounded {
		return false
	}
	return other.End <= r.End
}

func (r Range) String() string {
	if r.IsEmpty() {
		return "[empty)"
	}
	if r.Unbounded {
		return fmt.Sprintf("[%q, +inf)", r.Start)
	}
	return fmt.Sprintf("[%q, %q)", r.Start, r.End)
}
