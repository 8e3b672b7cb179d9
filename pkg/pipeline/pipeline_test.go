package pipeline

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/placement"
	"github.com/matzehuels/yardbook/pkg/scene"
)

func readCourse(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/course.json")
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func courseOptions(t *testing.T, formats ...string) Options {
	opts := Options{
		Document:  readCourse(t),
		Placement: placement.DefaultOptions(),
		Formats:   formats,
	}
	opts.Placement.LastUnit = 2
	return opts
}

// countingCache records how often each cache method returned a hit.
type countingCache struct {
	cache.Cache
	hits, misses, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok, err
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	return c.Cache.Set(ctx, key, data, ttl)
}

func newTestRunner(t *testing.T) (*Runner, *countingCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cc := &countingCache{Cache: fc}
	return NewRunner(cc, nil, nil), cc
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"pdf", false},
		{"dot", false},
		{"tree", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var empty Options
	if err := empty.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing document: got %v", err)
	}

	opts := courseOptions(t, "svg", "json", "svg")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if got := strings.Join(opts.Formats, ","); got != "json,svg" {
		t.Errorf("Formats = %s, want sorted and deduplicated", got)
	}
	if opts.Logger == nil || opts.Placement.Logger == nil {
		t.Error("loggers should be defaulted")
	}

	defaults := courseOptions(t)
	if err := defaults.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(defaults.Formats) != 1 || defaults.Formats[0] != FormatSVG {
		t.Errorf("default Formats = %v, want [svg]", defaults.Formats)
	}

	bad := courseOptions(t, "png")
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: got %v", err)
	}

	badBox := courseOptions(t)
	badBox.Placement.Placement.Buffer = 2
	if err := badBox.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid placement options should fail")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner, cc := newTestRunner(t)

	first, err := runner.Execute(ctx, courseOptions(t, FormatJSON, FormatSVG, FormatDOT))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.PlaceHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.Report.Placed != 1 || first.Report.Failed != 1 {
		t.Errorf("report placed/failed = %d/%d, want 1/1", first.Report.Placed, first.Report.Failed)
	}
	if first.Stats.Units != 2 || first.Stats.NodeCount != first.Document.Len() {
		t.Errorf("stats = %+v", first.Stats)
	}
	if _, ok := first.Document.Find("green_01_detail"); !ok {
		t.Error("green clone missing from placed document")
	}
	for _, f := range []string{FormatJSON, FormatSVG, FormatDOT} {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s missing", f)
		}
	}
	if !bytes.Contains(first.Artifacts[FormatSVG], []byte(`id="green_01_detail"`)) {
		t.Error("SVG should contain the green clone")
	}
	back, err := scene.Unmarshal(first.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("JSON artifact does not decode: %v", err)
	}
	if back.Len() != first.Document.Len() {
		t.Errorf("JSON artifact has %d nodes, want %d", back.Len(), first.Document.Len())
	}
	setsAfterFirst := cc.sets

	second, err := runner.Execute(ctx, courseOptions(t, FormatJSON, FormatSVG, FormatDOT))
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheInfo.PlaceHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want all hits", second.CacheInfo)
	}
	if second.PlacementHash != first.PlacementHash {
		t.Error("placement hash changed between runs")
	}
	if !bytes.Equal(second.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs")
	}
	if second.Report.Placed != first.Report.Placed || len(second.Report.Units) != len(first.Report.Units) {
		t.Error("cached report differs")
	}
	if cc.sets != setsAfterFirst {
		t.Errorf("cached run wrote %d entries", cc.sets-setsAfterFirst)
	}
}

func TestExecuteOptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	runner, _ := newTestRunner(t)

	if _, err := runner.Execute(ctx, courseOptions(t, FormatSVG)); err != nil {
		t.Fatal(err)
	}
	opts := courseOptions(t, FormatSVG)
	opts.Placement.LeftInset = 24
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.PlaceHit {
		t.Error("changing LeftInset should miss the placement cache")
	}

	// a new format on a cached placement renders only what is missing
	res, err = runner.Execute(ctx, courseOptions(t, FormatSVG, FormatPDF))
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.PlaceHit || res.CacheInfo.RenderHit {
		t.Errorf("cache info = %+v, want placement hit and render miss", res.CacheInfo)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPDF], []byte("%PDF-")) {
		t.Error("PDF artifact missing")
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	runner, cc := newTestRunner(t)

	if _, err := runner.Execute(ctx, courseOptions(t, FormatSVG)); err != nil {
		t.Fatal(err)
	}
	opts := courseOptions(t, FormatSVG)
	opts.Refresh = true
	hits := cc.hits
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.PlaceHit || res.CacheInfo.RenderHit || cc.hits != hits {
		t.Error("Refresh should not read the cache")
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{Document: []byte("{")})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("got %v, want INVALID_DOCUMENT", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner, cc := newTestRunner(t)

	_, err := runner.Execute(ctx, courseOptions(t, FormatSVG))
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if cc.sets != 0 {
		t.Error("canceled runs must not be cached")
	}
}

func TestPlacementKeyOpts(t *testing.T) {
	a := courseOptions(t)
	b := courseOptions(t)
	if err := a.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	k := cache.NewDefaultKeyer()
	if k.PlacementKey("d", a.PlacementKeyOpts()) != k.PlacementKey("d", b.PlacementKeyOpts()) {
		t.Error("equal options should give equal keys")
	}

	b.Placement.Resolver = &placement.LabelResolver{UnitPattern: "Hole %d", GreenPattern: "green_%02d"}
	if k.PlacementKey("d", a.PlacementKeyOpts()) == k.PlacementKey("d", b.PlacementKeyOpts()) {
		t.Error("resolver patterns should be part of the key")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := courseOptions(t)
	opts.Frames = true
	opts.Background = "#fff"

	if got := opts.ArtifactKeyOpts(FormatJSON); len(got.Frames) != 0 || got.Background != "" {
		t.Errorf("json key should ignore frames and background: %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPDF); len(got.Frames) != 2 || got.Background != "" {
		t.Errorf("pdf key = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG); len(got.Frames) != 2 || got.Background != "#fff" {
		t.Errorf("svg key = %+v", got)
	}
}

func TestMeasure(t *testing.T) {
	doc, err := scene.Unmarshal(readCourse(t))
	if err != nil {
		t.Fatal(err)
	}
	before, _ := scene.Marshal(doc)

	got, err := Measure(doc, "hole_01", "line_02")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d measurements", len(got))
	}
	if b := got[0].Bounds; b.X != 0 || b.Y != 0 || b.Width != 20 || b.Height != 120 {
		t.Errorf("hole_01 bounds = %v", b)
	}
	if got[1].Path != "root/hole_02/line_02" || got[1].Bounds.X != 7 || got[1].Bounds.Y != 7 {
		t.Errorf("line_02 = %+v", got[1])
	}
	if got[0].Scale.X != 1 || got[0].Scale.Y != 1 || got[0].Warning != "" {
		t.Errorf("hole_01 scale = %+v", got[0].Scale)
	}

	after, _ := scene.Marshal(doc)
	if !bytes.Equal(before, after) {
		t.Error("Measure changed the document")
	}

	all, err := Measure(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 { // "bottom" has no geometry
		t.Errorf("measured %d top-level nodes, want 2", len(all))
	}

	if _, err := Measure(doc, "hole_99"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown node: got %v", err)
	}
	if _, err := Measure(doc, "bottom"); !errors.Is(err, errors.ErrCodeMeasurement) {
		t.Errorf("empty group: got %v", err)
	}
}
