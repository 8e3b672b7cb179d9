package cache

// Keyer builds cache keys for each cached stage.
type Keyer interface {
	// PlacementKey identifies a placed document and its report.
	PlacementKey(docHash string, opts PlacementKeyOpts) string

	// ArtifactKey identifies one rendered output of a placed document.
	ArtifactKey(placementHash string, opts ArtifactKeyOpts) string
}

// PlacementKeyOpts holds every option that changes the placement result.
type PlacementKeyOpts struct {
	Placement       [5]float64 `json:"placement"`
	Detail          [5]float64 `json:"detail"`
	Direction       float64    `json:"direction"`
	FirstUnit       int        `json:"first_unit"`
	LastUnit        int        `json:"last_unit"`
	ResetTransforms bool       `json:"reset_transforms"`
	LeftInset       float64    `json:"left_inset"`
	StrokeMode      string     `json:"stroke_mode"`
	TargetStroke    float64    `json:"target_stroke"`
	Layout          []string   `json:"layout,omitempty"`
}

// ArtifactKeyOpts holds the render options of an artifact.
type ArtifactKeyOpts struct {
	Format     string       `json:"format"`
	Frames     [][5]float64 `json:"frames,omitempty"`
	Background string       `json:"background,omitempty"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlacementKey returns "placement:<sha256>".
func (DefaultKeyer) PlacementKey(docHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", docHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>". The format stays readable
// so that backends can be inspected by hand.
func (DefaultKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, placementHash, opts)
}

var _ Keyer = DefaultKeyer{}
