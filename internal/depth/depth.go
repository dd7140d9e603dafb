// Package depth models the bounded recursion policy for directory walks.
//
// A Depth value answers two questions for the walker: may it descend into a
// subdirectory at all, and what policy applies one level down. Representing
// the policy as a closed value type keeps "infinite" and "exhausted" as
// first-class states instead of magic integers threaded through walker code.
package depth

import (
	"fmt"
	"strconv"
)

type kind int

const (
	kindLastLevel kind = iota
	kindInfinite
	kindRemaining
)

// Depth describes how many more directory levels a recursive walk may
// descend into. The zero value is LastLevel (no further recursion).
//
// Depth values are comparable and immutable; deriving the next level's
// policy never mutates the receiver.
type Depth struct {
	kind      kind
	remaining int
}

// Infinite permits unlimited recursion.
var Infinite = Depth{kind: kindInfinite}

// LastLevel permits no further recursion; the walk stops at this level.
var LastLevel = Depth{kind: kindLastLevel}

// FromInt converts a signed integer into a Depth:
// negative values mean Infinite, zero means LastLevel and a positive n
// means exactly n further levels.
//
// This is the only construction path for a bounded Depth, so a bounded
// value always carries a positive remaining count.
func FromInt(i int) Depth {
	switch {
	case i < 0:
		return Infinite
	case i == 0:
		return LastLevel
	default:
		return Depth{kind: kindRemaining, remaining: i}
	}
}

// Parse converts a base-10 signed integer string into a Depth using the
// FromInt mapping.
func Parse(s string) (Depth, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return Depth{}, fmt.Errorf("invalid depth %q: %w", s, err)
	}
	return FromInt(i), nil
}

// CanRecurse reports whether the walk may descend one more level.
// It is false only for LastLevel.
func (d Depth) CanRecurse() bool {
	return d.kind != kindLastLevel
}

// NextLevel returns the policy that applies one directory level deeper.
// Infinite is a fixed point. A bounded depth counts down through FromInt,
// so it can never underflow into a negative remaining count. For LastLevel
// there is no next level and ok is false.
func (d Depth) NextLevel() (next Depth, ok bool) {
	switch d.kind {
	case kindInfinite:
		return Infinite, true
	case kindRemaining:
		return FromInt(d.remaining - 1), true
	default:
		return Depth{}, false
	}
}

// Remaining returns the number of further levels permitted by a bounded
// depth. ok is false for Infinite and LastLevel.
func (d Depth) Remaining() (n int, ok bool) {
	if d.kind != kindRemaining {
		return 0, false
	}
	return d.remaining, true
}

// String renders the depth the way it is written on the command line:
// "-1" for Infinite, "0" for LastLevel and the remaining count otherwise.
func (d Depth) String() string {
	switch d.kind {
	case kindInfinite:
		return "-1"
	case kindRemaining:
		return strconv.Itoa(d.remaining)
	default:
		return "0"
	}
}
