package tour

import (
	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/placement"
)

// IntroText is a step's tooltip body: a default text plus optional texts
// keyed by user role.
type IntroText struct {
	Default string
	Roles   map[string]string
}

// Text returns an IntroText with only a default text.
func Text(s string) IntroText {
	return IntroText{Default: s}
}

// IsZero reports whether no text at all is set.
func (t IntroText) IsZero() bool {
	if t.Default != "" {
		return false
	}
	for _, v := range t.Roles {
		if v != "" {
			return false
		}
	}
	return true
}

func (t IntroText) clone() IntroText {
	out := IntroText{Default: t.Default}
	if t.Roles != nil {
		out.Roles = make(map[string]string, len(t.Roles))
		for k, v := range t.Roles {
			out.Roles[k] = v
		}
	}
	return out
}

// Step is one collected stop of a tour. Steps are built by Start and are
// not modified afterwards.
type Step struct {
	// Number is the 1-based step number, unique within a tour.
	Number int
	// Element is the highlighted element, or the shared floating
	// placeholder for steps without a target.
	Element dom.Element
	// Selector describes the element for logs and artifacts.
	Selector string
	// Key is the element's data-intro-key, if any.
	Key string

	Intro    IntroText
	Position placement.Side

	TooltipClass   string
	HighlightClass string
	OverlayClass   string
	HelperClass    string

	PrevLabel string
	NextLabel string
	SkipLabel string

	OffsetX float64
	OffsetY float64

	SkipOnMobile bool

	OnShow func()
	OnHide func()
}

// StepDef describes a step programmatically. Non-zero fields override what
// would otherwise be read from the element's data-intro-* attributes or the
// tour options.
type StepDef struct {
	// Element takes precedence over Selector.
	Element  dom.Element
	Selector string

	Intro    IntroText
	Position placement.Side

	TooltipClass   string
	HighlightClass string
	OverlayClass   string
	HelperClass    string

	PrevLabel string
	NextLabel string
	SkipLabel string

	OffsetX float64
	OffsetY float64

	SkipOnMobile bool

	OnShow func()
	OnHide func()
}
