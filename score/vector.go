// Package score holds the per-direction score vector every behaviour and
// bias produces, and the rules for combining vectors into a move.
package score

import (
	"fmt"
	"math"
	"strconv"

	"github.com/battlesnakeio/zerocool/board"
)

// Vector is one score per direction, indexed by board.Direction.
type Vector [4]float64

// Combine sums a and b slot by slot. A NaN on one side does not zero the
// slot: the other side's value is kept as is. Only a slot that is NaN on
// both sides, or whose sum is NaN, becomes 0.
func Combine(a, b Vector) Vector {
	var out Vector
	for i := range out {
		switch {
		case math.IsNaN(a[i]) && math.IsNaN(b[i]):
			out[i] = 0
		case math.IsNaN(a[i]):
			out[i] = b[i]
		case math.IsNaN(b[i]):
			out[i] = a[i]
		default:
			out[i] = a[i] + b[i]
		}
		if math.IsNaN(out[i]) {
			out[i] = 0
		}
	}
	return out
}

// Normalize subtracts the entry closest to zero from every slot. That entry
// becomes exactly 0 and the order of the slots is unchanged.
func Normalize(v Vector) Vector {
	closest := 0
	for i := 1; i < len(v); i++ {
		if math.Abs(v[i]) < math.Abs(v[closest]) {
			closest = i
		}
	}
	shift := v[closest]
	var out Vector
	for i := range v {
		out[i] = v[i] - shift
	}
	out[closest] = 0
	return out
}

// Best returns the direction with the strictly greatest score. Ties go to
// the earlier direction.
func Best(v Vector) board.Direction {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return board.Direction(best)
}

// HasMove reports whether any slot is nonzero. A vector of all zeros means
// the contributor found nothing to act on.
func HasMove(v Vector) bool {
	for _, s := range v {
		if s != 0 {
			return true
		}
	}
	return false
}

func (v Vector) String() string {
	return fmt.Sprintf("{up: %.2f, down: %.2f, left: %.2f, right: %.2f}",
		v[board.Up], v[board.Down], v[board.Left], v[board.Right])
}

// MarshalJSON writes the vector as an array. Slots that are not finite are
// written as null.
func (v Vector) MarshalJSON() ([]byte, error) {
	out := []byte{'['}
	for i, s := range v {
		if i > 0 {
			out = append(out, ',')
		}
		if math.IsNaN(s) || math.IsInf(s, 0) {
			out = append(out, "null"...)
			continue
		}
		out = strconv.AppendFloat(out, s, 'g', -1, 64)
	}
	return append(out, ']'), nil
}
