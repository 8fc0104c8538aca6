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

// Package reactor describes the state a server advertises for each table it
// participates in. The data-placement reactor itself lives elsewhere; this
// package only carries the advertised state the control plane reads.
package reactor

import (
	"fmt"

	"github.com/dragstor/rethinkdb/region"
)

// ActivityType enumerates the roles a server can hold over a key sub-range
// of one table. The set is closed; code switching over it must treat an
// unknown value as a programming fault.
type ActivityType int

const (
	// ActivityPrimaryWhenSafe means the server will become primary once it
	// is safe to do so.
	ActivityPrimaryWhenSafe ActivityType = iota

	// ActivityPrimary means the server is the acting primary.
	ActivityPrimary

	// ActivitySecondaryUpToDate means the server is a secondary holding
	// current data.
	ActivitySecondaryUpToDate

	// ActivitySecondaryWithoutPrimary means the server is a secondary but
	// no primary is available.
	ActivitySecondaryWithoutPrimary

	// ActivitySecondaryBackfilling means the server is a secondary still
	// copying data.
	ActivitySecondaryBackfilling

	// ActivityNothingWhenSafe means the server will drop the range once it
	// is safe to do so.
	ActivityNothingWhenSafe

	// ActivityNothingWhenDoneErasing means the server is erasing the range.
	ActivityNothingWhenDoneErasing

	// ActivityNothing means the server holds nothing for the range.
	ActivityNothing
)

func (t ActivityType) String() string {
	switch t {
	case ActivityPrimaryWhenSafe:
		return "primary-when-safe"
	case ActivityPrimary:
		return "primary"
	case ActivitySecondaryUpToDate:
		return "secondary-up-to-date"
	case ActivitySecondaryWithoutPrimary:
		return "secondary-without-primary"
	case ActivitySecondaryBackfilling:
		return "secondary-backfilling"
	case ActivityNothingWhenSafe:
		return "nothing-when-safe"
	case ActivityNothingWhenDoneErasing:
		return "nothing-when-done-erasing"
	case ActivityNothing:
		return "nothing"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Activity is one server's role over one key sub-range of a table.
type Activity struct {
	Type   ActivityType
	Region region.Range
}

// BusinessCard is the per-table state one server advertises through the
// cluster directory. Activities never overlap in key-space.
type BusinessCard struct {
	Activities []Activity
}
