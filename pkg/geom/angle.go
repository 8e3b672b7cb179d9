package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ZeroVectorEpsilon is the length below which a direction vector is
// considered to have no direction.
const ZeroVectorEpsilon = 1e-9

// Direction is a canonical heading in degrees, in document (y-down) space.
type Direction float64

// Canonical headings.
const (
	Right Direction = 0
	Down  Direction = 90
	Left  Direction = 180
	Up    Direction = -90
)

// ParseDirection accepts "up", "down", "left", "right" (any case) or a number
// of degrees. An empty string selects Up.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up", "north":
		return Up, nil
	case "down", "south":
		return Down, nil
	case "left", "west":
		return Left, nil
	case "right", "east":
		return Right, nil
	}
	deg, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "deg"), 64)
	if err != nil || !finite(deg) {
		return 0, fmt.Errorf("invalid direction %q: want up, down, left, right or degrees", s)
	}
	return Direction(NormalizeAngle(deg)), nil
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return strconv.FormatFloat(float64(d), 'g', -1, 64) + "deg"
}

// NormalizeAngle maps deg into the half-open interval (-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// RotationAngle returns the angle in degrees that rotates the vector from → to
// onto target, normalized into (-180, 180].
//
// If the vector is shorter than ZeroVectorEpsilon, or not finite, it has no
// direction: RotationAngle returns 0 and false.
func RotationAngle(from, to Point, target Direction) (float64, bool) {
	v := to.Sub(from)
	if !v.IsFinite() || v.Len() < ZeroVectorEpsilon {
		return 0, false
	}
	current := math.Atan2(v.Y, v.X) * 180 / math.Pi
	return NormalizeAngle(float64(target) - current), true
}
