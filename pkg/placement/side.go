// Package placement computes where a tour tooltip sits relative to its
// target element. It is pure geometry: callers measure boxes, this package
// returns CSS edge values and the arrow class, and callers apply them.
package placement

import (
	"fmt"
	"strings"
)

// Side is a tooltip position relative to its target.
type Side string

const (
	Top                Side = "top"
	Bottom             Side = "bottom"
	Left               Side = "left"
	Right              Side = "right"
	TopLeftAligned     Side = "top-left-aligned"
	TopRightAligned    Side = "top-right-aligned"
	RightTopAligned    Side = "right-top-aligned"
	RightBottomAligned Side = "right-bottom-aligned"
	LeftTopAligned     Side = "left-top-aligned"
	LeftBottomAligned  Side = "left-bottom-aligned"
	BottomLeftAligned  Side = "bottom-left-aligned"
	BottomRightAligned Side = "bottom-right-aligned"
	BottomMiddle       Side = "bottom-middle-aligned"
	Floating           Side = "floating"
	Auto               Side = "auto"
)

var allSides = []Side{
	Top, Bottom, Left, Right,
	TopLeftAligned, TopRightAligned,
	RightTopAligned, RightBottomAligned,
	LeftTopAligned, LeftBottomAligned,
	BottomLeftAligned, BottomRightAligned, BottomMiddle,
	Floating, Auto,
}

// DefaultPrecedence is the order auto placement tries sides in.
var DefaultPrecedence = []Side{Bottom, Top, Right, Left}

// ParseSide validates a position name.
func ParseSide(s string) (Side, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, side := range allSides {
		if string(side) == s {
			return side, nil
		}
	}
	return "", fmt.Errorf("unknown tooltip position %q", s)
}

// ParsePrecedence parses a list of side names, rejecting unknown ones.
func ParsePrecedence(names []string) ([]Side, error) {
	out := make([]Side, 0, len(names))
	for _, n := range names {
		side, err := ParseSide(n)
		if err != nil {
			return nil, err
		}
		out = append(out, side)
	}
	return out, nil
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	for _, side := range allSides {
		if side == s {
			return true
		}
	}
	return false
}
