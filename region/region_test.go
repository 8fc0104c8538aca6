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

package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeIsEmpty(t *testing.T) {
	assert.True(t, Range{}.IsEmpty())
	assert.True(t, NewRange("b", "b").IsEmpty())
	assert.True(t, NewRange("c", "a").IsEmpty())
	assert.False(t, NewRange("a", "b").IsEmpty())
	assert.False(t, NewUnboundedRange("z").IsEmpty())
	assert.False(t, Universe().IsEmpty())
}

func TestRangeIntersect(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Range
		expected Range
	}{
		{"disjoint", NewRange("a", "c"), NewRange("d", "f"), Range{}},
		{"touching", NewRange("a", "c"), NewRange("c", "f"), Range{}},
		{"overlapping", NewRange("a", "d"), NewRange("c", "f"), NewRange("c", "d")},
		{"contained", NewRange("a", "z"), NewRange("c", "f"), NewRange("c", "f")},
		{"identical", NewRange("a", "c"), NewRange("a", "c"), NewRange("a", "c")},
		{"bounded and unbounded", NewUnboundedRange("c"), NewRange("a", "f"), NewRange("c", "f")},
		{"both unbounded", NewUnboundedRange("a"), NewUnboundedRange("c"), NewUnboundedRange("c")},
		{"universe", Universe(), NewRange("a", "c"), NewRange("a", "c")},
		{"empty operand", NewRange("a", "c"), Range{}, Range{}},
	}
	for _, test := range tests {
		assert.True(t, test.a.Intersect(test.b).Equal(test.expected), test.name)
		assert.True(t, test.b.Intersect(test.a).Equal(test.expected), test.name+" reversed")
	}
}

func TestRangeContains(t *testing.T) {
	assert.True(t, Universe().Contains(NewRange("a", "c")))
	assert.True(t, Universe().Contains(Universe()))
	assert.True(t, NewRange("a", "z").Contains(NewRange("a", "c")))
	assert.True(t, NewRange("a", "z").Contains(Range{}))
	assert.False(t, NewRange("a", "c").Contains(NewRange("a", "d")))
	assert.False(t, NewRange("a", "c").Contains(NewUnboundedRange("b")))
	assert.False(t, NewRange("b", "c").Contains(NewRange("a", "c")))
}

func TestRangeEqual(t *testing.T) {
	assert.True(t, NewRange("a", "c").Equal(NewRange("a", "c")))
	assert.True(t, Range{}.Equal(NewRange("b", "a")))
	assert.False(t, NewRange("a", "c").Equal(NewRange("a", "d")))
	assert.False(t, NewRange("a", "c").Equal(NewUnboundedRange("a")))
}
