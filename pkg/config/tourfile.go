package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagetour/pkg/placement"
	"github.com/entrhq/pagetour/pkg/tour"
)

// IntroFormat is how intro texts in a tour file are written.
type IntroFormat string

const (
	IntroHTML     IntroFormat = "html"
	IntroMarkdown IntroFormat = "markdown"
)

// TourFile is a tour definition loaded from YAML.
//
//	name: onboarding
//	url: https://example.test/app
//	intro_format: markdown
//	options:
//	  exitOnOverlayClick: false
//	  positionPrecedence: [top, bottom]
//	text_data:
//	  welcome:
//	    default: Welcome!
//	    admin: Welcome back, admin.
//	steps:
//	  - selector: "#search"
//	    intro: Search **anything** here.
//	    position: auto
type TourFile struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	// Root scopes the tour to the first element matching this selector.
	Root        string         `yaml:"root" json:"root"`
	IntroFormat IntroFormat    `yaml:"intro_format" json:"intro_format"`
	Viewport    ViewportConfig `yaml:"viewport" json:"viewport"`

	// Options are tour option-bag keys, e.g. nextLabel or mobileTresholdWidth.
	Options  map[string]any       `yaml:"options" json:"options"`
	TextData map[string]IntroSpec `yaml:"text_data" json:"text_data"`
	Steps    []StepSpec           `yaml:"steps" json:"steps"`

	// Path is the file the tour was loaded from.
	Path string `yaml:"-" json:"-"`
}

// ViewportConfig overrides the browser viewport for one tour.
type ViewportConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// StepSpec is one programmatic step. A step without a selector, or whose
// selector matches nothing, is floating or skipped per skipMissingElements.
type StepSpec struct {
	Selector       string    `yaml:"selector" json:"selector"`
	Intro          IntroSpec `yaml:"intro" json:"intro"`
	Position       string    `yaml:"position" json:"position"`
	TooltipClass   string    `yaml:"tooltip_class" json:"tooltip_class"`
	HighlightClass string    `yaml:"highlight_class" json:"highlight_class"`
	OverlayClass   string    `yaml:"overlay_class" json:"overlay_class"`
	HelperClass    string    `yaml:"helper_class" json:"helper_class"`
	PrevLabel      string    `yaml:"prev_label" json:"prev_label"`
	NextLabel      string    `yaml:"next_label" json:"next_label"`
	SkipLabel      string    `yaml:"skip_label" json:"skip_label"`
	OffsetX        float64   `yaml:"offset_x" json:"offset_x"`
	OffsetY        float64   `yaml:"offset_y" json:"offset_y"`
	SkipOnMobile   bool      `yaml:"skip_on_mobile" json:"skip_on_mobile"`
}

// IntroSpec is an intro text. In YAML it is either a plain string or a map
// of role names to texts where the "default" key is the default text.
type IntroSpec struct {
	Default string
	Roles   map[string]string
}

// UnmarshalYAML accepts a scalar or a role map.
func (s *IntroSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s.Default = value.Value
		return nil
	case yaml.MappingNode:
		var m map[string]string
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("line %d: intro map must hold strings: %w", value.Line, err)
		}
		for role, text := range m {
			if role == "default" {
				s.Default = text
				continue
			}
			if s.Roles == nil {
				s.Roles = make(map[string]string)
			}
			s.Roles[role] = text
		}
		return nil
	default:
		return fmt.Errorf("line %d: intro must be a string or a map of role texts", value.Line)
	}
}

// MarshalYAML writes a plain string when there are no role texts.
func (s IntroSpec) MarshalYAML() (any, error) {
	if len(s.Roles) == 0 {
		return s.Default, nil
	}
	m := make(map[string]string, len(s.Roles)+1)
	for k, v := range s.Roles {
		m[k] = v
	}
	if s.Default != "" {
		m["default"] = s.Default
	}
	return m, nil
}

// DefaultConfig returns an empty HTML tour.
func DefaultConfig() *TourFile {
	return &TourFile{
		IntroFormat: IntroHTML,
		Options:     make(map[string]any),
		TextData:    make(map[string]IntroSpec),
	}
}

// LoadTourFile reads and validates a tour file.
func LoadTourFile(path string) (*TourFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tour file: %w", err)
	}
	tf, err := ParseTourFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tf.Path = path
	return tf, nil
}

// ParseTourFile decodes and validates a tour file. Unknown top-level and
// step fields are rejected.
func ParseTourFile(data []byte) (*TourFile, error) {
	tf := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(tf); err != nil {
		return nil, fmt.Errorf("failed to parse tour file: %w", err)
	}
	if err := tf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tour file: %w", err)
	}
	return tf, nil
}

// Validate checks the file without touching a page: the options must
// apply cleanly and every position must be known.
func (tf *TourFile) Validate() error {
	if tf.IntroFormat == "" {
		tf.IntroFormat = IntroHTML
	}
	if tf.IntroFormat != IntroHTML && tf.IntroFormat != IntroMarkdown {
		return fmt.Errorf("invalid intro_format: %s (must be 'html' or 'markdown')", tf.IntroFormat)
	}
	if tf.Viewport.Width < 0 || tf.Viewport.Height < 0 {
		return fmt.Errorf("viewport cannot be negative")
	}
	if _, ok := tf.Options["steps"]; ok {
		return fmt.Errorf("steps belong in the top-level steps list, not in options")
	}

	opts := tour.DefaultOptions()
	if err := opts.Apply(tf.Options); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	for i, step := range tf.Steps {
		if step.Position != "" {
			if _, err := placement.ParseSide(step.Position); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// DisplayName is the tour name, falling back to the file name.
func (tf *TourFile) DisplayName() string {
	if tf.Name != "" {
		return tf.Name
	}
	if tf.Path != "" {
		base := tf.Path[strings.LastIndexAny(tf.Path, `/\`)+1:]
		return strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
	}
	return "tour"
}

// TourOptions builds the tour options: defaults, then the options map,
// then the steps list.
func (tf *TourFile) TourOptions() (tour.Options, error) {
	opts := tour.DefaultOptions()
	if err := opts.Apply(tf.Options); err != nil {
		return opts, err
	}

	for i, spec := range tf.Steps {
		intro, err := tf.introText(spec.Intro)
		if err != nil {
			return opts, fmt.Errorf("step %d: %w", i+1, err)
		}
		var side placement.Side
		if spec.Position != "" {
			if side, err = placement.ParseSide(spec.Position); err != nil {
				return opts, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		opts.Steps = append(opts.Steps, tour.StepDef{
			Selector:       spec.Selector,
			Intro:          intro,
			Position:       side,
			TooltipClass:   spec.TooltipClass,
			HighlightClass: spec.HighlightClass,
			OverlayClass:   spec.OverlayClass,
			HelperClass:    spec.HelperClass,
			PrevLabel:      spec.PrevLabel,
			NextLabel:      spec.NextLabel,
			SkipLabel:      spec.SkipLabel,
			OffsetX:        spec.OffsetX,
			OffsetY:        spec.OffsetY,
			SkipOnMobile:   spec.SkipOnMobile,
		})
	}
	return opts, nil
}

// TourTextData renders the text dictionary.
func (tf *TourFile) TourTextData() (map[string]tour.IntroText, error) {
	out := make(map[string]tour.IntroText, len(tf.TextData))
	for key, spec := range tf.TextData {
		text, err := tf.introText(spec)
		if err != nil {
			return nil, fmt.Errorf("text_data %s: %w", key, err)
		}
		out[key] = text
	}
	return out, nil
}

func (tf *TourFile) introText(spec IntroSpec) (tour.IntroText, error) {
	render := func(s string) (string, error) { return s, nil }
	if tf.IntroFormat == IntroMarkdown {
		render = RenderMarkdown
	}

	def, err := render(spec.Default)
	if err != nil {
		return tour.IntroText{}, err
	}
	text := tour.IntroText{Default: def}
	for role, src := range spec.Roles {
		html, err := render(src)
		if err != nil {
			return tour.IntroText{}, fmt.Errorf("role %s: %w", role, err)
		}
		if text.Roles == nil {
			text.Roles = make(map[string]string, len(spec.Roles))
		}
		text.Roles[role] = html
	}
	return text, nil
}
