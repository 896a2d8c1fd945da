package placement

import (
	"strconv"
)

const (
	// verticalGap separates a top or bottom tooltip from its target.
	verticalGap = 10
	// horizontalGap separates a left or right tooltip from its target.
	horizontalGap = 20
)

// Box is an element box in CSS pixels.
type Box struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Unit of a Length.
type Unit int

const (
	Px Unit = iota
	Percent
)

// Length is a CSS length in pixels or percent.
type Length struct {
	Value float64
	Unit  Unit
}

// PxLen returns a pixel length.
func PxLen(v float64) *Length { return &Length{Value: v, Unit: Px} }

// PercentLen returns a percent length.
func PercentLen(v float64) *Length { return &Length{Value: v, Unit: Percent} }

// String renders the length as a CSS value.
func (l *Length) String() string {
	if l == nil {
		return ""
	}
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Unit == Percent {
		return v + "%"
	}
	return v + "px"
}

// Edges are the tooltip's CSS offsets. A nil edge is left unset.
type Edges struct {
	Top        *Length
	Right      *Length
	Bottom     *Length
	Left       *Length
	MarginLeft *Length
	MarginTop  *Length
}

// Styles returns the edges as CSS property/value pairs. Unset edges map to
// an empty value so callers can clear stale styles.
func (e Edges) Styles() [][2]string {
	return [][2]string{
		{"top", e.Top.String()},
		{"right", e.Right.String()},
		{"bottom", e.Bottom.String()},
		{"left", e.Left.String()},
		{"margin-left", e.MarginLeft.String()},
		{"margin-top", e.MarginTop.String()},
	}
}

// Result is a resolved placement.
type Result struct {
	Side      Side
	Edges     Edges
	Arrow     string
	ShowArrow bool
}

// Input describes one placement request.
type Input struct {
	// Target is the target's page box.
	Target Box
	// Tooltip is the measured tooltip size.
	Tooltip  Size
	Viewport Size
	// Side is the step's requested position.
	Side Side
	// AutoDefault is set when the tour-wide default position is auto, which
	// makes any requested side subject to auto elimination.
	AutoDefault bool
	Precedence  []Side
	OffsetX     float64
	OffsetY     float64
	// ShowStepNumbers shifts the left-side variants to clear the step badge.
	ShowStepNumbers bool
}

// Compute resolves auto placement when requested and lays out the tooltip.
func Compute(in Input) Result {
	side := in.Side
	if side == "" {
		side = Bottom
	}
	if (side == Auto || in.AutoDefault) && side != Floating {
		side = Resolve(in.Target, in.Tooltip, in.Viewport, side, in.Precedence)
	}
	return Place(side, in)
}

// Resolve picks a side for auto placement. Sides from precedence are
// eliminated when the tooltip would not fit; the first survivor wins, or
// Floating when none survive. A concrete requested side that survived
// elimination overrides the precedence pick.
func Resolve(target Box, tooltip Size, viewport Size, requested Side, precedence []Side) Side {
	if len(precedence) == 0 {
		precedence = DefaultPrecedence
	}
	possible := make([]Side, len(precedence))
	copy(possible, precedence)

	tooltipHeight := tooltip.Height + verticalGap
	tooltipWidth := tooltip.Width + horizontalGap

	if target.Left+target.Width/2-tooltipWidth < 0 {
		possible = remove(possible, Bottom)
		possible = remove(possible, Top)
	} else {
		if target.Height+target.Top+tooltipHeight > viewport.Height {
			possible = remove(possible, Bottom)
		}
		if target.Top-tooltipHeight < 0 {
			possible = remove(possible, Top)
		}
	}

	if target.Width+target.Left+tooltipWidth > viewport.Width {
		possible = remove(possible, Right)
	}
	if target.Left-tooltipWidth < 0 {
		possible = remove(possible, Left)
	}

	chosen := Floating
	if len(possible) > 0 {
		chosen = possible[0]
	}
	if requested != "" && requested != Auto && contains(possible, requested) {
		chosen = requested
	}
	return chosen
}

// Place lays out the tooltip for an explicit side. Offsets are relative to
// the highlighted target's box, except Floating which centers in the
// viewport. Unknown sides and Auto lay out as Bottom.
func Place(side Side, in Input) Result {
	t := in.Target
	h := in.Tooltip.Height
	w := in.Tooltip.Width
	ox, oy := in.OffsetX, in.OffsetY
	overflowsBottom := t.Top+h > in.Viewport.Height

	r := Result{Side: side, ShowArrow: true}
	switch side {
	case Top, TopLeftAligned:
		r.Edges.Left = PxLen(15 + ox)
		r.Edges.Top = PxLen(-(h + verticalGap - oy))
		r.Arrow = "bottom"
	case TopRightAligned:
		r.Edges.Right = PxLen(0 - ox)
		r.Edges.Top = PxLen(-(h + verticalGap - oy))
		r.Arrow = "bottom-right"
	case Right, RightTopAligned:
		r.Edges.Left = PxLen(t.Width + horizontalGap + ox)
		r.Arrow = "left"
		if overflowsBottom {
			r.Arrow = "left-bottom"
			r.Edges.Top = PxLen(-(h - t.Height - 20 - oy))
		}
	case RightBottomAligned:
		r.Edges.Left = PxLen(t.Width + horizontalGap + ox)
		r.Edges.Bottom = PxLen(0 - ox)
		r.Arrow = "left-bottom"
	case Left, LeftTopAligned:
		if in.ShowStepNumbers {
			r.Edges.Top = PxLen(15 + oy)
		}
		if overflowsBottom {
			r.Edges.Top = PxLen(-(h - t.Height - 20 - oy))
			r.Arrow = "right-bottom"
		} else {
			r.Arrow = "right"
		}
		r.Edges.Right = PxLen(t.Width + horizontalGap - ox)
	case LeftBottomAligned:
		if in.ShowStepNumbers {
			r.Edges.Right = PxLen(t.Width + 30 - ox)
		} else {
			r.Edges.Right = PxLen(t.Width + horizontalGap - ox)
		}
		r.Arrow = "right-bottom"
		r.Edges.Bottom = PxLen(0 - oy)
	case Floating:
		r.ShowArrow = false
		r.Edges.Left = PercentLen(50)
		r.Edges.Top = PercentLen(50)
		r.Edges.MarginLeft = PxLen(-(w / 2))
		r.Edges.MarginTop = PxLen(-(h / 2))
	case BottomRightAligned:
		r.Arrow = "top-right"
		r.Edges.Right = PxLen(0 - ox)
		r.Edges.Bottom = PxLen(-(h + verticalGap + oy))
	case BottomMiddle:
		r.Arrow = "top-middle"
		r.Edges.Left = PxLen(t.Width/2 - w/2 + ox)
		r.Edges.Bottom = PxLen(-(h + verticalGap + oy))
	default:
		if side != BottomLeftAligned {
			r.Side = Bottom
		}
		r.Edges.Bottom = PxLen(-(h + verticalGap + oy))
		r.Edges.Left = PxLen(t.Width/2 - w/2 + ox)
		r.Arrow = "top"
	}
	return r
}

func remove(sides []Side, s Side) []Side {
	out := sides[:0]
	for _, v := range sides {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func contains(sides []Side, s Side) bool {
	for _, v := range sides {
		if v == s {
			return true
		}
	}
	return false
}
