package sink

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/yardbook/pkg/geom"
)

// Frame is a named rectangle drawn on top of the document.
type Frame struct {
	Name string
	Rect geom.Rect
}

// num formats v with at most four decimals and no trailing zeros.
func num(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func matrixAttr(m geom.Matrix) string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = num(v)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// rgb is an 8-bit color.
type rgb struct{ R, G, B int }

var namedColors = map[string]rgb{
	"black": {0, 0, 0},
	"white": {255, 255, 255},
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
	"gray":  {128, 128, 128},
	"grey":  {128, 128, 128},
}

// parseColor understands #rgb, #rrggbb and a few names. ok is false for
// "none", empty paint and anything it cannot read.
func parseColor(paint string) (rgb, bool) {
	paint = strings.ToLower(strings.TrimSpace(paint))
	if c, ok := namedColors[paint]; ok {
		return c, true
	}
	if !strings.HasPrefix(paint, "#") {
		return rgb{}, false
	}
	hex := paint[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}
