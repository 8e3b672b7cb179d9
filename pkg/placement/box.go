package placement

import (
	"math"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

// PixelsPerInch is the number of document user units per inch.
const PixelsPerInch = 96.0

// TargetBox is a destination rectangle in canonical space. Buffer is the
// fraction of each dimension usable by content; the rest is margin.
type TargetBox struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Buffer float64 `json:"buffer" toml:"buffer"`
}

// Default target boxes of a 4.25×11 inch yardage book page, in user units.
var (
	DefaultPlacementBox = TargetBox{X: 0.25 * PixelsPerInch, Y: 0.25 * PixelsPerInch, Width: 3.75 * PixelsPerInch, Height: 6.75 * PixelsPerInch, Buffer: 0.90}
	DefaultDetailBox    = TargetBox{X: 0.25 * PixelsPerInch, Y: 7.0 * PixelsPerInch, Width: 3.75 * PixelsPerInch, Height: 3.75 * PixelsPerInch, Buffer: 0.80}
)

// Rect returns the box without its buffer.
func (b TargetBox) Rect() geom.Rect {
	return geom.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Usable returns the buffered area content may occupy, centered in the box.
func (b TargetBox) Usable() geom.Rect {
	w, h := b.Buffer*b.Width, b.Buffer*b.Height
	return geom.Rect{X: b.X + (b.Width-w)/2, Y: b.Y + (b.Height-h)/2, Width: w, Height: h}
}

// Validate checks that the box is finite, has positive extent and a buffer
// in (0, 1]. name prefixes every message.
func (b TargetBox) Validate(name string) error {
	if err := errors.ValidateFinite(name+" x", b.X); err != nil {
		return err
	}
	if err := errors.ValidateFinite(name+" y", b.Y); err != nil {
		return err
	}
	if err := errors.ValidateExtent(name+" width", b.Width); err != nil {
		return err
	}
	if err := errors.ValidateExtent(name+" height", b.Height); err != nil {
		return err
	}
	return errors.ValidateBuffer(name, b.Buffer)
}

// FitTransform maps a measured box into a target box: the box is scaled by
// Scale and its top-left corner moved to (TX, TY).
type FitTransform struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// Matrix returns the canonical-space transform that moves measured, the box
// the fit was computed for, into place.
func (f FitTransform) Matrix(measured geom.Rect) geom.Matrix {
	return geom.Translate(f.TX-f.Scale*measured.X, f.TY-f.Scale*measured.Y).Mul(geom.Scale(f.Scale, f.Scale))
}

// Placed returns the box measured occupies after the fit.
func (f FitTransform) Placed(measured geom.Rect) geom.Rect {
	return geom.Rect{X: f.TX, Y: f.TY, Width: f.Scale * measured.Width, Height: f.Scale * measured.Height}
}

// Fit computes the transform that scales measured uniformly until its
// limiting axis fills the buffered part of box, and centers it in box.
//
// A measured box with zero or non-finite width or height is a
// DEGENERATE_GEOMETRY error; an invalid target box is INVALID_CONFIG.
func Fit(measured geom.Rect, box TargetBox) (FitTransform, error) {
	w, h := measured.Width, measured.Height
	if !measured.IsFinite() || w <= 0 || h <= 0 {
		return FitTransform{}, errors.DegenerateGeometry("cannot fit a %g×%g box", w, h)
	}
	if err := box.Validate("target box"); err != nil {
		return FitTransform{}, err
	}

	s := math.Min(box.Buffer*box.Width/w, box.Buffer*box.Height/h)
	return FitTransform{
		Scale: s,
		TX:    box.X + (box.Width-s*w)/2,
		TY:    box.Y + (box.Height-s*h)/2,
	}, nil
}
