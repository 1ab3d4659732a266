// Package grid implements grid-snap geometry for the block-diagram editor.
//
// All functions are pure transforms parameterized by a Config value. The
// package distinguishes two separate questions:
//
//   - Snap: where does a position land when snapping is applied? Snapping
//     is never distance-gated - when the grid is enabled, every position
//     snaps to its nearest intersection.
//   - ShouldSnap: is the position close enough to an intersection that a
//     snap preview should be shown? This is gated by Config.SnapThreshold
//     and only drives transient visual feedback.
//
// Coordinates are real-valued and may be negative; snapping rounds half up
// on both axes, symmetrically for negative values (-15 at size 20 snaps to
// -20, not 0).
package grid

import (
	"math"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/geom"
)

// Default configuration values.
const (
	// DefaultSize is the default grid cell size in logical pixels.
	DefaultSize = 20.0

	// DefaultSnapThreshold is the default snap-preview distance.
	// It is exactly half the default cell size, the maximum permitted value.
	DefaultSnapThreshold = 10.0
)

// Config holds the grid settings for one editor instance.
// Mutate it only through Manager.SetConfig so the SnapThreshold invariant
// is always enforced.
type Config struct {
	// Size is the grid cell size. Must be positive.
	Size float64 `json:"size" bson:"size" toml:"size"`

	// Enabled turns snapping on. When false, Snap is the identity.
	Enabled bool `json:"enabled" bson:"enabled" toml:"enabled"`

	// ShowOverlay asks the host to draw the grid. The engine never reads
	// it; it is carried so the host can persist it with the rest of the
	// grid settings.
	ShowOverlay bool `json:"show_overlay" bson:"show_overlay" toml:"show_overlay"`

	// SnapThreshold is the maximum per-axis distance at which a snap
	// preview is offered. Must be non-negative and at most Size/2,
	// otherwise the preview would be ambiguous between adjacent
	// intersections.
	SnapThreshold float64 `json:"snap_threshold" bson:"snap_threshold" toml:"snap_threshold"`
}

// DefaultConfig returns the grid defaults: 20px cells, snapping disabled,
// no overlay, 10px threshold.
func DefaultConfig() Config {
	return Config{
		Size:          DefaultSize,
		Enabled:       false,
		ShowOverlay:   false,
		SnapThreshold: DefaultSnapThreshold,
	}
}

// Validate checks the Config invariants.
// Returns an INVALID_CONFIG error if Size is not positive or SnapThreshold
// is negative or exceeds Size/2.
func (c Config) Validate() error {
	if c.Size <= 0 || math.IsNaN(c.Size) || math.IsInf(c.Size, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "grid size must be positive, got %v", c.Size)
	}
	if c.SnapThreshold < 0 || math.IsNaN(c.SnapThreshold) {
		return errors.New(errors.ErrCodeInvalidConfig, "snap threshold must be non-negative, got %v", c.SnapThreshold)
	}
	if c.SnapThreshold > c.Size/2 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"snap threshold %v exceeds half the grid size %v", c.SnapThreshold, c.Size)
	}
	return nil
}

// SnapResult is the outcome of a snap computation.
type SnapResult struct {
	Position geom.Point `json:"position"`
	Snapped  bool       `json:"snapped"`
}

// Manager answers snap and grid-coordinate queries for one editor instance.
// It is a thin wrapper around a Config value; all methods are pure and safe
// to call from any single-threaded event handler.
type Manager struct {
	cfg Config
}

// NewManager creates a manager with the given configuration.
// Returns an error if the configuration is invalid.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg}, nil
}

// Config returns the current configuration.
func (m *Manager) Config() Config { return m.cfg }

// SetConfig replaces the configuration after validating it.
// The previous configuration is kept on error.
func (m *Manager) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// Snap aligns a position to the nearest grid intersection.
//
// When the grid is disabled the input is returned unchanged with
// Snapped=false. When enabled, each axis is independently rounded half up
// to the nearest multiple of the cell size and Snapped is true regardless
// of how far the position moved - distance gating applies only to
// ShouldSnap previews.
//
// Non-finite input positions are rejected with an INVALID_GEOMETRY error
// so corrupt drag data never reaches the host.
func (m *Manager) Snap(p geom.Point) (SnapResult, error) {
	if !p.IsFinite() {
		return SnapResult{}, errors.New(errors.ErrCodeInvalidGeometry,
			"cannot snap non-finite position (%v, %v)", p.X, p.Y)
	}
	if !m.cfg.Enabled {
		return SnapResult{Position: p, Snapped: false}, nil
	}
	return SnapResult{
		Position: geom.Point{
			X: roundToMultiple(p.X, m.cfg.Size),
			Y: roundToMultiple(p.Y, m.cfg.Size),
		},
		Snapped: true,
	}, nil
}

// ShouldSnap reports whether the position is within SnapThreshold of its
// nearest grid intersection on both axes. It decides whether to show a
// snap preview before committing; it never gates Snap itself. Always false
// while the grid is disabled or for non-finite positions.
func (m *Manager) ShouldSnap(p geom.Point) bool {
	if !m.cfg.Enabled || !p.IsFinite() {
		return false
	}
	dx := math.Abs(p.X - roundToMultiple(p.X, m.cfg.Size))
	dy := math.Abs(p.Y - roundToMultiple(p.Y, m.cfg.Size))
	return dx <= m.cfg.SnapThreshold && dy <= m.cfg.SnapThreshold
}

// IsSnapped reports whether both coordinates are exact multiples of the
// cell size.
func (m *Manager) IsSnapped(p geom.Point) bool {
	if !p.IsFinite() {
		return false
	}
	return math.Mod(p.X, m.cfg.Size) == 0 && math.Mod(p.Y, m.cfg.Size) == 0
}

// Cell returns the integer grid coordinates of the cell containing p,
// using floor division per axis. (40, 60) at size 20 is cell (2, 3).
func (m *Manager) Cell(p geom.Point) (cx, cy int) {
	return int(math.Floor(p.X / m.cfg.Size)), int(math.Floor(p.Y / m.cfg.Size))
}

// CellOrigin is the inverse of Cell: the pixel position of the top-left
// corner of cell (cx, cy).
func (m *Manager) CellOrigin(cx, cy int) geom.Point {
	return geom.Point{X: float64(cx) * m.cfg.Size, Y: float64(cy) * m.cfg.Size}
}

// ValidatePosition rejects positions with NaN or infinite coordinates.
// Callers must leave the node at its last valid position when this fails.
func (m *Manager) ValidatePosition(p geom.Point) error {
	if !p.IsFinite() {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"position has non-finite coordinates (%v, %v)", p.X, p.Y)
	}
	return nil
}

// roundToMultiple rounds v half up to the nearest multiple of size.
// Half-up is applied on the signed value, so -15 at size 20 yields -20:
// floor(-0.75 + 0.5) = -1.
func roundToMultiple(v, size float64) float64 {
	return math.Floor(v/size+0.5) * size
}
