package placement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
)

const eps = 1e-9

func TestFit(t *testing.T) {
	measured := geom.Rect{Width: 10, Height: 5}
	box := TargetBox{Width: 5, Height: 5, Buffer: 0.8}

	f, err := Fit(measured, box)

	require.NoError(t, err)
	assert.InDelta(t, 0.4, f.Scale, eps)
	placed := f.Placed(measured)
	assert.InDelta(t, 0.5, placed.X, eps)
	assert.InDelta(t, 1.5, placed.Y, eps)
	assert.InDelta(t, 4, placed.Width, eps)
	assert.InDelta(t, 2, placed.Height, eps)
}

func TestFitMatrixMovesMeasuredBox(t *testing.T) {
	measured := geom.Rect{X: -40, Y: 130, Width: 12, Height: 30}
	box := TargetBox{X: 24, Y: 672, Width: 360, Height: 360, Buffer: 0.8}

	f, err := Fit(measured, box)
	require.NoError(t, err)

	got := f.Matrix(measured).ApplyRect(measured)
	want := f.Placed(measured)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Width, got.Width, 1e-9)
	assert.InDelta(t, want.Height, got.Height, 1e-9)
}

// TestFitStaysInBuffer checks that the placed box never leaves the buffered
// area, touches it on the limiting axis and keeps its aspect ratio.
func TestFitStaysInBuffer(t *testing.T) {
	sizes := []float64{1e-3, 0.5, 1, 7, 33.3, 250, 1e4}
	buffers := []float64{0.1, 0.5, 0.8, 0.9, 1}
	boxes := []TargetBox{
		{X: 0, Y: 0, Width: 5, Height: 5},
		{X: 24, Y: 24, Width: 360, Height: 648},
		{X: -10, Y: 3, Width: 1000, Height: 2},
	}

	for _, base := range boxes {
		for _, b := range buffers {
			box := base
			box.Buffer = b
			usable := box.Usable()
			for _, w := range sizes {
				for _, h := range sizes {
					measured := geom.Rect{X: 3, Y: -2, Width: w, Height: h}
					f, err := Fit(measured, box)
					require.NoError(t, err)

					placed := f.Placed(measured)
					tol := 1e-9 * math.Max(box.Width, box.Height)
					assert.True(t, usable.Contains(placed, tol), "%v does not fit %v", placed, usable)
					touches := math.Abs(placed.Width-usable.Width) <= tol || math.Abs(placed.Height-usable.Height) <= tol
					assert.True(t, touches, "%v does not reach %v on either axis", placed, usable)
					assert.InDelta(t, w/h, placed.Width/placed.Height, 1e-9*w/h)
					assert.InDelta(t, box.Rect().Center().X, placed.Center().X, tol)
					assert.InDelta(t, box.Rect().Center().Y, placed.Center().Y, tol)
				}
			}
		}
	}
}

func TestFitDegenerate(t *testing.T) {
	box := TargetBox{Width: 5, Height: 5, Buffer: 0.8}
	tests := []geom.Rect{
		{Width: 0, Height: 5},
		{Width: 5, Height: 0},
		{Width: -1, Height: 5},
		{Width: math.NaN(), Height: 5},
		{Width: 5, Height: math.Inf(1)},
	}
	for _, measured := range tests {
		_, err := Fit(measured, box)
		assert.True(t, errors.Is(err, errors.ErrCodeDegenerateGeometry), "%v: got %v", measured, err)
	}
}

func TestTargetBoxValidate(t *testing.T) {
	tests := []struct {
		name string
		box  TargetBox
		ok   bool
	}{
		{"default placement", DefaultPlacementBox, true},
		{"default detail", DefaultDetailBox, true},
		{"full buffer", TargetBox{Width: 1, Height: 1, Buffer: 1}, true},
		{"zero buffer", TargetBox{Width: 1, Height: 1}, false},
		{"buffer above one", TargetBox{Width: 1, Height: 1, Buffer: 1.2}, false},
		{"zero width", TargetBox{Height: 1, Buffer: 0.5}, false},
		{"negative height", TargetBox{Width: 1, Height: -1, Buffer: 0.5}, false},
		{"infinite x", TargetBox{X: math.Inf(-1), Width: 1, Height: 1, Buffer: 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate("box")
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}

	_, err := Fit(geom.Rect{Width: 1, Height: 1}, TargetBox{Width: 1, Height: 1})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestStateText(t *testing.T) {
	for s := StatePending; s <= StateFailed; s++ {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back State
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	assert.Equal(t, "green_extracted", StateGreenExtracted.String())
	assert.True(t, StateDone.Terminal())
	assert.False(t, StateGreenFitted.Terminal())

	var s State
	assert.Error(t, s.UnmarshalText([]byte("sideways")))
}
