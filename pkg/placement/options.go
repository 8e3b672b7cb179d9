package placement

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

// StrokeMode selects how stroke widths follow a change of scale.
type StrokeMode int

const (
	// StrokeCompensate keeps every rendered stroke width unchanged.
	StrokeCompensate StrokeMode = iota
	// StrokeTarget sets every rendered stroke width to Options.TargetStroke.
	StrokeTarget
	// StrokeOff leaves stroke widths alone.
	StrokeOff
)

func (m StrokeMode) String() string {
	switch m {
	case StrokeCompensate:
		return "compensate"
	case StrokeTarget:
		return "target"
	case StrokeOff:
		return "off"
	}
	return fmt.Sprintf("StrokeMode(%d)", int(m))
}

// ParseStrokeMode parses "compensate", "target" or "off". An empty string
// selects StrokeCompensate.
func ParseStrokeMode(s string) (StrokeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compensate":
		return StrokeCompensate, nil
	case "target":
		return StrokeTarget, nil
	case "off", "none":
		return StrokeOff, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid stroke mode %q: want compensate, target or off", s)
}

// MarshalText encodes the mode by name.
func (m StrokeMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText decodes a mode name.
func (m *StrokeMode) UnmarshalText(b []byte) error {
	v, err := ParseStrokeMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Default values of a placement run.
const (
	DefaultFirstUnit   = 1
	DefaultLastUnit    = 18
	DefaultLeftInset   = 0.5 * PixelsPerInch
	DefaultCloneSuffix = "_detail"

	// DefaultTargetStroke is 0.25mm in user units.
	DefaultTargetStroke = 0.25 / 25.4 * PixelsPerInch

	DefaultPlacementParent = "top"
	DefaultDetailParent    = "bottom"
	DefaultDetailAnchor    = "greens_guide"
)

// Options configures an Engine. Every length is in document user units.
type Options struct {
	// Placement is the box every unit is fitted into.
	Placement TargetBox
	// Detail is the box every green clone is fitted into.
	Detail TargetBox
	// Direction is the heading the terrain→green vector is rotated onto.
	Direction geom.Direction

	// FirstUnit and LastUnit bound the unit indices processed, inclusive.
	FirstUnit int
	LastUnit  int

	// Resolver finds units. Nil selects NewLabelResolver().
	Resolver Resolver

	// ResetTransforms clears each unit's local transform before rotating,
	// so running twice gives the same result as running once.
	ResetTransforms bool

	// LeftInset, when positive, moves each placed unit horizontally so its
	// left edge sits LeftInset to the right of the placement box's left edge.
	LeftInset float64

	StrokeMode StrokeMode
	// TargetStroke is the rendered stroke width used by StrokeTarget.
	TargetStroke float64

	// PlacementParent names a group (by id or label) that placed units are
	// moved under. Empty or absent leaves units where they are.
	PlacementParent string
	// DetailParent names the group green clones are inserted into; the
	// document root is used when it is empty or absent.
	DetailParent string
	// DetailAnchor names a child of DetailParent that green clones are
	// inserted before. Clones are appended when it is absent.
	DetailAnchor string
	// CloneSuffix is appended to every id in a green clone.
	CloneSuffix string

	// Logger receives degradations (Warn), state transitions (Debug) and
	// unit failures (Error). Nil discards.
	Logger *log.Logger

	validated bool
}

// DefaultOptions returns the options of a standard 18-hole yardage book.
func DefaultOptions() Options {
	return Options{
		Placement:       DefaultPlacementBox,
		Detail:          DefaultDetailBox,
		Direction:       geom.Up,
		FirstUnit:       DefaultFirstUnit,
		LastUnit:        DefaultLastUnit,
		ResetTransforms: true,
		LeftInset:       DefaultLeftInset,
		StrokeMode:      StrokeCompensate,
		TargetStroke:    DefaultTargetStroke,
		PlacementParent: DefaultPlacementParent,
		DetailParent:    DefaultDetailParent,
		DetailAnchor:    DefaultDetailAnchor,
		CloneSuffix:     DefaultCloneSuffix,
	}
}

// ValidateAndSetDefaults validates the options and fills zero values with
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Placement == (TargetBox{}) {
		o.Placement = DefaultPlacementBox
	}
	if o.Detail == (TargetBox{}) {
		o.Detail = DefaultDetailBox
	}
	if err := o.Placement.Validate("placement"); err != nil {
		return err
	}
	if err := o.Detail.Validate("detail"); err != nil {
		return err
	}
	if err := errors.ValidateFinite("direction", float64(o.Direction)); err != nil {
		return err
	}

	if o.FirstUnit == 0 {
		o.FirstUnit = DefaultFirstUnit
	}
	if o.LastUnit == 0 {
		o.LastUnit = DefaultLastUnit
	}
	if o.FirstUnit < 1 || o.LastUnit < o.FirstUnit {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid unit range %d..%d", o.FirstUnit, o.LastUnit)
	}

	if o.Resolver == nil {
		o.Resolver = NewLabelResolver()
	}
	if v, ok := o.Resolver.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	if err := errors.ValidateFinite("left inset", o.LeftInset); err != nil {
		return err
	}
	if o.LeftInset < 0 || o.LeftInset >= o.Placement.Width {
		return errors.New(errors.ErrCodeInvalidConfig, "left inset %g must be in [0, %g)", o.LeftInset, o.Placement.Width)
	}

	switch o.StrokeMode {
	case StrokeCompensate, StrokeOff:
	case StrokeTarget:
		if o.TargetStroke == 0 {
			o.TargetStroke = DefaultTargetStroke
		}
		if err := errors.ValidateExtent("target stroke", o.TargetStroke); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid stroke mode %v", o.StrokeMode)
	}

	if o.CloneSuffix == "" {
		o.CloneSuffix = DefaultCloneSuffix
	}
	if err := errors.ValidateID("x" + o.CloneSuffix); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "clone suffix %q", o.CloneSuffix)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
