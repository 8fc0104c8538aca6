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
	"github.com/stretchr/testify/require"
)

func TestMapSinglePiece(t *testing.T) {
	m := NewMap(NewRange("a", "z"), 3)
	pieces := m.Pieces()
	require.Len(t, pieces, 1)
	assert.True(t, pieces[0].Range.Equal(NewRange("a", "z")))
	assert.Equal(t, 3.0, pieces[0].Value)
}

func TestMapSetSplitsPieces(t *testing.T) {
	m := NewMap(NewRange("a", "z"), 3)
	m.Set(NewRange("f", "m"), 0)

	pieces := m.Pieces()
	require.Len(t, pieces, 3)
	assert.True(t, pieces[0].Range.Equal(NewRange("a", "f")))
	assert.Equal(t, 3.0, pieces[0].Value)
	assert.True(t, pieces[1].Range.Equal(NewRange("f", "m")))
	assert.Equal(t, 0.0, pieces[1].Value)
	assert.True(t, pieces[2].Range.Equal(NewRange("m", "z")))
	assert.Equal(t, 3.0, pieces[2].Value)
}

func TestMapSetAtBoundaries(t *testing.T) {
	m := NewMap(NewRange("a", "z"), 3)
	m.Set(NewRange("a", "f"), 1)
	m.Set(NewRange("f", "z"), 2)

	pieces := m.Pieces()
	require.Len(t, pieces, 2)
	assert.Equal(t, 1.0, pieces[0].Value)
	assert.Equal(t, 2.0, pieces[1].Value)
}

func TestMapSetEntireDomain(t *testing.T) {
	m := NewMap(NewRange("a", "z"), 3)
	m.Set(NewRange("a", "z"), 1)

	pieces := m.Pieces()
	require.Len(t, pieces, 1)
	assert.Equal(t, 1.0, pieces[0].Value)
}

func TestMapSetOnUnboundedDomain(t *testing.T) {
	m := NewMap(Universe(), 3)
	m.Set(NewRange("f", "m"), 0)

	pieces := m.Pieces()
	require.Len(t, pieces, 3)
	assert.True(t, pieces[0].Range.Equal(NewRange("", "f")))
	assert.True(t, pieces[1].Range.Equal(NewRange("f", "m")))
	assert.True(t, pieces[2].Range.Equal(NewUnboundedRange("m")))

	m.Set(NewUnboundedRange("t"), 1)
	pieces = m.Pieces()
	require.Len(t, pieces, 4)
	assert.True(t, pieces[3].Range.Equal(NewUnboundedRange("t")))
	assert.Equal(t, 1.0, pieces[3].Value)
}

func TestMapSetEmptyRangeIsNoop(t *testing.T) {
	m := NewMap(NewRange("a", "z"), 3)
	m.Set(Range{}, 0)
	require.Len(t, m.Pieces(), 1)
}

func TestMapSetOutsideDomainPanics(t *testing.T) {
	m := NewMap(NewRange("f", "m"), 3)
	assert.Panics(t, func() { m.Set(NewRange("a", "g"), 0) })
}

func TestMapDomain(t *testing.T) {
	m := NewMap(NewRange("a", "z"), 3)
	m.Set(NewRange("f", "m"), 0)
	assert.True(t, m.Domain().Equal(NewRange("a", "z")))

	u := NewMap(Universe(), 3)
	u.Set(NewRange("f", "m"), 0)
	assert.True(t, u.Domain().Equal(Universe()))
}
