// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file models the contiguous slices of image rows handed to units of
// partition work.
package model

import "fmt"

// RowRange is a contiguous set of rows with inclusive bounds. A range with
// Lo > Hi is empty.
type RowRange struct {
	Lo int
	Hi int
}

// Empty reports whether the range holds no rows.
func (r RowRange) Empty() bool {
	return r.Lo > r.Hi
}

// Leaf reports whether the range holds exactly one row.
func (r RowRange) Leaf() bool {
	return r.Lo == r.Hi
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Hi - r.Lo + 1
}

// Contains reports whether row y belongs to the range.
func (r RowRange) Contains(y int) bool {
	return r.Lo <= y && y <= r.Hi
}

// Overlaps reports whether the two ranges share at least one row.
func (r RowRange) Overlaps(o RowRange) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Lo <= o.Hi && o.Lo <= r.Hi
}

// Split divides a range of at least two rows at mid = floor((Lo+Hi)/2) into
// the lower half [Lo, mid] and the upper half [mid+1, Hi]. ok is false for
// empty and single-row ranges.
func (r RowRange) Split() (lower, upper RowRange, ok bool) {
	if r.Lo >= r.Hi {
		return RowRange{}, RowRange{}, false
	}
	mid := floorHalf(r.Lo + r.Hi)
	return RowRange{Lo: r.Lo, Hi: mid}, RowRange{Lo: mid + 1, Hi: r.Hi}, true
}

// Partitions reports whether lower and upper are disjoint, adjacent and
// together cover exactly r.
func (r RowRange) Partitions(lower, upper RowRange) bool {
	return !lower.Empty() && !upper.Empty() &&
		lower.Lo == r.Lo && upper.Hi == r.Hi &&
		lower.Hi+1 == upper.Lo
}

func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Lo, r.Hi)
}

// floorHalf is n/2 rounded toward negative infinity.
func floorHalf(n int) int {
	if n < 0 && n%2 != 0 {
		return n/2 - 1
	}
	return n / 2
}
