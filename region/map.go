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

import "fmt"

// Piece is one contiguous sub-range of a Map and the value assigned to it.
type Piece struct {
	Range Range
	Value float64
}

// Map is a piecewise-constant mapping from a key range to float64 values.
// Pieces are kept in key order and together cover the map's domain exactly.
type Map struct {
	pieces []Piece
}

// NewMap returns a map over the given domain with every key assigned value.
// The domain must be non-empty.
func NewMap(domain Range, value float64) *Map {
	if domain.IsEmpty() {
		panic("region: map domain must be non-empty")
	}
	return &Map{pieces: []Piece{{Range: domain, Value: value}}}
}

// Set assigns value to the given sub-range. The sub-range must be contained
// in the map's domain; setting an empty range is a no-op.
func (m *Map) Set(r Range, value float64) {
	if r.IsEmpty() {
		return
	}
	if !m.Domain().Contains(r) {
		panic(fmt.Sprintf("region: %v is not contained in map domain %v", r, m.Domain()))
	}

	pieces := make([]Piece, 0, len(m.pieces)+2)
	for _, p := range m.pieces {
		in := p.Range.Intersect(r)
		if in.IsEmpty() {
			pieces = append(pieces, p)
			continue
		}
		if left := NewRange(p.Range.Start, in.Start); !left.IsEmpty() {
			pieces = append(pieces, Piece{Range: left, Value: p.Value})
		}
		pieces = append(pieces, Piece{Range: in, Value: value})
		right := Range{Start: in.End, End: p.Range.End, Unbounded: p.Range.Unbounded}
		if in.Unbounded {
			continue
		}
		if !right.IsEmpty() {
			pieces = append(pieces, Piece{Range: right, Value: p.Value})
		}
	}
	m.pieces = pieces
}

// Domain returns the range the map covers.
func (m *Map) Domain() Range {
	first := m.pieces[0].Range
	last := m.pieces[len(m.pieces)-1].Range
	return Range{Start: first.Start, End: last.End, Unbounded: last.Unbounded}
}

// Pieces returns the map's pieces in key order.
func (m *Map) Pieces() []Piece {
	return m.pieces
}
