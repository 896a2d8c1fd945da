package tour

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/pagetour/pkg/dom"
	"github.com/entrhq/pagetour/pkg/placement"
)

// RoleText is one role's contribution to a rendered intro.
type RoleText struct {
	Role string
	Text string
}

// TextTemplateFunc renders one RoleText. index is its position in all, the
// full list of texts being rendered for the step.
type TextTemplateFunc func(rt RoleText, index int, all []RoleText) string

// SkipMissingFunc decides whether a step whose element cannot be found is
// dropped (true) or shown floating (false). index is the position of def in
// Options.Steps.
type SkipMissingFunc func(index int, def StepDef) bool

// Options configures a tour. Use DefaultOptions as the starting point.
type Options struct {
	NextLabel string
	PrevLabel string
	SkipLabel string
	DoneLabel string

	TooltipPosition placement.Side
	TooltipClass    string
	HighlightClass  string

	ExitOnEsc              bool
	ExitOnOverlayClick     bool
	ShowStepNumbers        bool
	KeyboardNavigation     bool
	FocusOnNextDoneButtons bool
	ShowButtons            bool
	ShowBullets            bool
	ShowProgress           bool
	ShowStepNumber         bool

	SkipMissingElements bool
	// SkipMissingFunc, when set, overrides SkipMissingElements per step.
	SkipMissingFunc SkipMissingFunc

	ScrollToElement bool
	// The force-scroll settings are accepted for compatibility with tour
	// files written for older runners; scrolling does not consult them.
	ForceScrollToTop        bool
	ForceScrollToTopForSize float64
	ForceScrollToBottom     bool

	// MobileThresholdWidth enables mobile skipping when positive: steps
	// flagged SkipOnMobile are bypassed while the viewport is narrower.
	MobileThresholdWidth float64

	OverlayOpacity       float64
	PositionPrecedence   []placement.Side
	DisableInteraction   bool
	HelperElementPadding float64

	ActiveRoles  []string
	TextTemplate TextTemplateFunc

	// MaskTarget receives the overlay instead of the tour root.
	MaskTarget dom.Element
	// HiddenClass excludes annotated elements carrying this class.
	HiddenClass string
	// Checkpoints are 0-based step indices that block Previous.
	Checkpoints []int

	// Steps switches collection to programmatic mode when non-empty.
	Steps []StepDef

	StepNumberSeparator string
}

// DefaultOptions returns the default tour configuration.
func DefaultOptions() Options {
	return Options{
		NextLabel:              "Next &rarr;",
		PrevLabel:              "&larr; Back",
		SkipLabel:              "Skip",
		DoneLabel:              "Done",
		TooltipPosition:        placement.Bottom,
		TooltipClass:           "introjs-tooltip",
		ExitOnEsc:              true,
		ExitOnOverlayClick:     true,
		ShowStepNumbers:        true,
		KeyboardNavigation:     true,
		ShowButtons:            true,
		ShowBullets:            true,
		ShowProgress:           true,
		SkipMissingElements:    true,
		ScrollToElement:        true,
		OverlayOpacity:         0.8,
		PositionPrecedence:     append([]placement.Side(nil), placement.DefaultPrecedence...),
		HelperElementPadding:   10,
		StepNumberSeparator:    "|",
		FocusOnNextDoneButtons: false,
	}
}

func (o Options) clone() Options {
	out := o
	out.PositionPrecedence = append([]placement.Side(nil), o.PositionPrecedence...)
	out.ActiveRoles = append([]string(nil), o.ActiveRoles...)
	out.Checkpoints = append([]int(nil), o.Checkpoints...)
	out.Steps = append([]StepDef(nil), o.Steps...)
	return out
}

// hiddenSelector returns HiddenClass as a class selector.
func (o Options) hiddenSelector() string {
	hc := strings.TrimSpace(o.HiddenClass)
	if hc == "" {
		return ""
	}
	if !strings.HasPrefix(hc, ".") {
		hc = "." + hc
	}
	return hc
}

func (o Options) isCheckpoint(index int) bool {
	for _, cp := range o.Checkpoints {
		if cp == index {
			return true
		}
	}
	return false
}

// Validate checks ranges that the setters cannot enforce by type.
func (o Options) Validate() error {
	if o.OverlayOpacity < 0 || o.OverlayOpacity > 1 {
		return &ConfigurationError{Key: "overlayOpacity", Reason: "must be between 0 and 1"}
	}
	if o.HelperElementPadding < 0 {
		return &ConfigurationError{Key: "helperElementPadding", Reason: "must not be negative"}
	}
	if o.MobileThresholdWidth < 0 {
		return &ConfigurationError{Key: "mobileTresholdWidth", Reason: "must not be negative"}
	}
	if o.TooltipPosition != "" && !o.TooltipPosition.Valid() {
		return &ConfigurationError{Key: "tooltipPosition", Reason: fmt.Sprintf("unknown position %q", o.TooltipPosition)}
	}
	for _, s := range o.PositionPrecedence {
		if !s.Valid() {
			return &ConfigurationError{Key: "positionPrecedence", Reason: fmt.Sprintf("unknown position %q", s)}
		}
	}
	return nil
}

// Set applies one option by its option-bag key. Keys are the camelCase
// names tour files use, e.g. "nextLabel" or "mobileTresholdWidth".
func (o *Options) Set(key string, value any) error {
	bad := func(want string) error {
		return &ConfigurationError{Key: key, Reason: fmt.Sprintf("expected %s, got %T", want, value)}
	}

	setString := func(dst *string) error {
		s, ok := value.(string)
		if !ok {
			return bad("string")
		}
		*dst = s
		return nil
	}
	setBool := func(dst *bool) error {
		b, ok := value.(bool)
		if !ok {
			return bad("bool")
		}
		*dst = b
		return nil
	}
	setNumber := func(dst *float64) error {
		f, ok := toFloat(value)
		if !ok {
			return bad("number")
		}
		*dst = f
		return nil
	}

	switch key {
	case "nextLabel":
		return setString(&o.NextLabel)
	case "prevLabel":
		return setString(&o.PrevLabel)
	case "skipLabel":
		return setString(&o.SkipLabel)
	case "doneLabel":
		return setString(&o.DoneLabel)
	case "tooltipClass":
		return setString(&o.TooltipClass)
	case "highlightClass":
		return setString(&o.HighlightClass)
	case "stepNumberSeparator":
		return setString(&o.StepNumberSeparator)
	case "tooltipPosition":
		s, ok := value.(string)
		if !ok {
			if side, isSide := value.(placement.Side); isSide {
				s, ok = string(side), true
			}
		}
		if !ok {
			return bad("position name")
		}
		side, err := placement.ParseSide(s)
		if err != nil {
			return &ConfigurationError{Key: key, Reason: err.Error()}
		}
		o.TooltipPosition = side
	case "exitOnEsc":
		return setBool(&o.ExitOnEsc)
	case "exitOnOverlayClick":
		return setBool(&o.ExitOnOverlayClick)
	case "showStepNumbers":
		return setBool(&o.ShowStepNumbers)
	case "keyboardNavigation":
		return setBool(&o.KeyboardNavigation)
	case "focusOnNextDoneButtons":
		return setBool(&o.FocusOnNextDoneButtons)
	case "showButtons":
		return setBool(&o.ShowButtons)
	case "showBullets":
		return setBool(&o.ShowBullets)
	case "showProgress":
		return setBool(&o.ShowProgress)
	case "showStepNumber":
		return setBool(&o.ShowStepNumber)
	case "scrollToElement":
		return setBool(&o.ScrollToElement)
	case "disableInteraction":
		return setBool(&o.DisableInteraction)
	case "forceScrollToTop":
		return setBool(&o.ForceScrollToTop)
	case "forceScrollToBottom":
		return setBool(&o.ForceScrollToBottom)
	case "forceScrollToTopForSize":
		if b, ok := value.(bool); ok && !b {
			o.ForceScrollToTopForSize = 0
			return nil
		}
		return setNumber(&o.ForceScrollToTopForSize)
	case "skipMissingElements":
		switch v := value.(type) {
		case bool:
			o.SkipMissingElements = v
			o.SkipMissingFunc = nil
		case SkipMissingFunc:
			o.SkipMissingFunc = v
		case func(int, StepDef) bool:
			o.SkipMissingFunc = v
		default:
			return bad("bool or predicate")
		}
	case "mobileTresholdWidth", "mobileThresholdWidth":
		if b, ok := value.(bool); ok {
			if b {
				return bad("number or false")
			}
			o.MobileThresholdWidth = 0
			return nil
		}
		f, ok := toFloat(value)
		if !ok {
			return bad("number or false")
		}
		if f < 0 {
			return &ConfigurationError{Key: key, Reason: "must not be negative"}
		}
		o.MobileThresholdWidth = f
	case "overlayOpacity":
		f, ok := toFloat(value)
		if !ok {
			return bad("number")
		}
		if f < 0 || f > 1 {
			return &ConfigurationError{Key: key, Reason: "must be between 0 and 1"}
		}
		o.OverlayOpacity = f
	case "helperElementPadding":
		return setNumber(&o.HelperElementPadding)
	case "positionPrecedence":
		names, ok := toStrings(value)
		if !ok {
			if sides, isSides := value.([]placement.Side); isSides {
				o.PositionPrecedence = append([]placement.Side(nil), sides...)
				return nil
			}
			return bad("list of positions")
		}
		sides, err := placement.ParsePrecedence(names)
		if err != nil {
			return &ConfigurationError{Key: key, Reason: err.Error()}
		}
		o.PositionPrecedence = sides
	case "activeRoles":
		if value == nil {
			o.ActiveRoles = nil
			return nil
		}
		if s, ok := value.(string); ok {
			o.ActiveRoles = []string{s}
			return nil
		}
		roles, ok := toStrings(value)
		if !ok {
			return bad("role name or list of role names")
		}
		o.ActiveRoles = roles
	case "textTemplateCallback":
		switch v := value.(type) {
		case nil:
			o.TextTemplate = nil
		case TextTemplateFunc:
			o.TextTemplate = v
		case func(RoleText, int, []RoleText) string:
			o.TextTemplate = v
		default:
			return bad("template function")
		}
	case "maskTarget":
		if value == nil {
			o.MaskTarget = nil
			return nil
		}
		el, ok := value.(dom.Element)
		if !ok {
			return bad("element")
		}
		o.MaskTarget = el
	case "hiddenClass":
		if value == nil {
			o.HiddenClass = ""
			return nil
		}
		return setString(&o.HiddenClass)
	case "checkpoints":
		ints, ok := toInts(value)
		if !ok {
			return bad("list of step indices")
		}
		o.Checkpoints = ints
	case "steps":
		switch v := value.(type) {
		case nil:
			o.Steps = nil
		case []StepDef:
			o.Steps = append([]StepDef(nil), v...)
		default:
			return bad("list of step definitions")
		}
	default:
		return &ConfigurationError{Key: key, Reason: "unknown option"}
	}
	return nil
}

// Apply sets several options at once. Keys are applied in sorted order and
// nothing is changed if any key fails.
func (o *Options) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := o.clone()
	for _, k := range keys {
		if err := next.Set(k, values[k]); err != nil {
			return err
		}
	}
	*o = next
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...), true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}

func toInts(v any) ([]int, bool) {
	switch s := v.(type) {
	case []int:
		return append([]int(nil), s...), true
	case []any:
		out := make([]int, 0, len(s))
		for _, item := range s {
			f, ok := toFloat(item)
			if !ok || f != float64(int(f)) {
				return nil, false
			}
			out = append(out, int(f))
		}
		return out, true
	}
	return nil, false
}
