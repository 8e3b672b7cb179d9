package sink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/scene"
)

func testDoc(t *testing.T) *scene.Document {
	t.Helper()
	doc := scene.New(384, 1056)
	hole := scene.NewGroup("hole_01",
		scene.NewPolygon("green_01", geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)).
			WithStroke("#000", 1).WithFill("#7cb342"),
		scene.NewRect("fairways_01", geom.Rect{X: 0, Y: 20, Width: 20, Height: 100}).WithStroke("black", 0.5),
		scene.NewEllipse("bunker_01", geom.Pt(30, 30), 4, 2),
		scene.NewText("note_01", geom.Pt(0, -5), "Par 4 <blue & white>", 8),
	).WithLabel("Hole 1").WithTransform(geom.Translate(24, 24).Mul(geom.Scale(2, 2)))
	if err := doc.Append(doc.Root(), hole); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testDoc(t)))

	for _, want := range []string{
		`viewBox="0 0 384 1056"`,
		`<g id="hole_01" data-label="Hole 1" transform="matrix(2 0 0 2 24 24)">`,
		`<path id="green_01" fill="#7cb342" stroke="#000" stroke-width="1" d="M 0 0 L 10 0 L 10 10 L 0 10 Z"/>`,
		`<rect id="fairways_01" fill="none" stroke="black" stroke-width="0.5" x="0" y="20" width="20" height="100"/>`,
		`<ellipse id="bunker_01" fill="none" cx="30" cy="30" rx="4" ry="2"/>`,
		`Par 4 &lt;blue &amp; white&gt;`,
		"</g>\n</svg>\n",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testDoc(t),
		WithBackground("#ffffff"),
		WithFrames(Frame{Name: "placement", Rect: geom.Rect{X: 24, Y: 24, Width: 360, Height: 648}}),
	))

	if !strings.Contains(svg, `<rect width="100%" height="100%" fill="#ffffff"/>`) {
		t.Error("background missing")
	}
	if !strings.Contains(svg, `data-frame="placement" x="24" y="24" width="360" height="648"`) {
		t.Error("frame missing")
	}
	if strings.Index(svg, "data-frame") < strings.Index(svg, "hole_01") {
		t.Error("frames should be drawn on top of the document")
	}
}

func TestRenderSVGEmptyDocument(t *testing.T) {
	svg := string(RenderSVG(scene.New(100, 50)))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50" width="100" height="50">` + "\n</svg>\n"
	if svg != want {
		t.Errorf("got %q, want %q", svg, want)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.00001, "0"},
		{1.5, "1.5"},
		{1.234567, "1.2346"},
		{-42, "-42"},
		{1e6, "1000000"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   rgb
		wantOK bool
	}{
		{"#000000", rgb{0, 0, 0}, true},
		{"#7cb342", rgb{124, 179, 66}, true},
		{"#fff", rgb{255, 255, 255}, true},
		{" Black ", rgb{0, 0, 0}, true},
		{"none", rgb{}, false},
		{"", rgb{}, false},
		{"#12345", rgb{}, false},
		{"#gggggg", rgb{}, false},
		{"url(#grad)", rgb{}, false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	pdf, err := RenderPDF(testDoc(t),
		WithTitle("Yardage book"),
		WithPDFFrames(Frame{Name: "detail", Rect: geom.Rect{X: 24, Y: 672, Width: 360, Height: 360}}),
	)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", pdf[:min(len(pdf), 16)])
	}
}

func TestRenderPDFWithoutCanvasUsesBounds(t *testing.T) {
	doc := testDoc(t)
	doc.Width, doc.Height = 0, 0
	if _, err := RenderPDF(doc); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}

	if _, err := RenderPDF(scene.New(0, 0)); err == nil {
		t.Error("expected an error for an empty document without canvas")
	}
}

func TestToDOT(t *testing.T) {
	doc := testDoc(t)

	dot := ToDOT(doc, DOTOptions{})
	for _, want := range []string{
		`"root" -> "hole_01";`,
		`"hole_01" -> "green_01";`,
		`"note_01" [label="note_01", style="rounded,filled,dashed", fillcolor=lightgrey];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	detailed := ToDOT(doc, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, `label: Hole 1`) || !strings.Contains(detailed, `transform: matrix(2,0,0,2,24,24)`) {
		t.Errorf("detailed DOT missing metadata\n%s", detailed)
	}

	shallow := ToDOT(doc, DOTOptions{MaxDepth: 1})
	if strings.Contains(shallow, "green_01") {
		t.Error("MaxDepth 1 should hide grandchildren")
	}
	if !strings.Contains(shallow, `"root" -> "hole_01";`) {
		t.Error("MaxDepth 1 should keep children")
	}
}

func TestRenderTreeSVG(t *testing.T) {
	svg, err := RenderTreeSVG(context.Background(), ToDOT(testDoc(t), DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderTreeSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("unexpected SVG header: %.200s", svg)
	}
}
