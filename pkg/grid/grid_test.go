package grid

import (
	"math"
	"testing"

	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/geom"
)

func enabledManager(t *testing.T) *Manager {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Enabled = true
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", DefaultConfig(), true},
		{"threshold at half size", Config{Size: 20, SnapThreshold: 10}, true},
		{"zero threshold", Config{Size: 20}, true},
		{"zero size", Config{Size: 0, SnapThreshold: 5}, false},
		{"negative size", Config{Size: -20, SnapThreshold: 5}, false},
		{"nan size", Config{Size: math.NaN(), SnapThreshold: 5}, false},
		{"negative threshold", Config{Size: 20, SnapThreshold: -1}, false},
		{"threshold over half size", Config{Size: 20, SnapThreshold: 11}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if code := errors.GetCode(err); code != errors.ErrCodeInvalidConfig {
					t.Errorf("error code = %s, want %s", code, errors.ErrCodeInvalidConfig)
				}
			}
		})
	}
}

func TestSnap(t *testing.T) {
	m := enabledManager(t)

	tests := []struct {
		name string
		in   geom.Point
		want geom.Point
	}{
		{"already aligned", geom.Point{X: 40, Y: 60}, geom.Point{X: 40, Y: 60}},
		{"rounds down", geom.Point{X: 47, Y: 63}, geom.Point{X: 40, Y: 60}},
		{"rounds up", geom.Point{X: 53, Y: 71}, geom.Point{X: 60, Y: 80}},
		{"half rounds up", geom.Point{X: 50, Y: 70}, geom.Point{X: 60, Y: 80}},
		{"negative symmetric", geom.Point{X: -15, Y: -15}, geom.Point{X: -20, Y: -20}},
		{"negative near zero", geom.Point{X: -9, Y: -9}, geom.Point{X: 0, Y: 0}},
		{"axes independent", geom.Point{X: 47, Y: 71}, geom.Point{X: 40, Y: 80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Snap(tt.in)
			if err != nil {
				t.Fatalf("Snap(%v): %v", tt.in, err)
			}
			if res.Position != tt.want {
				t.Errorf("Snap(%v) = %v, want %v", tt.in, res.Position, tt.want)
			}
			if !res.Snapped {
				t.Error("Snapped should be true when the grid is enabled")
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	m := enabledManager(t)

	first, err := m.Snap(geom.Point{X: 237, Y: 183})
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Snap(first.Position)
	if err != nil {
		t.Fatal(err)
	}
	if second.Position != first.Position {
		t.Errorf("snapping a snapped position moved it: %v -> %v", first.Position, second.Position)
	}
	if !m.IsSnapped(first.Position) {
		t.Errorf("IsSnapped(%v) = false after Snap", first.Position)
	}
}

func TestSnapDisabled(t *testing.T) {
	m, err := NewManager(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	p := geom.Point{X: 237, Y: 183}
	res, err := m.Snap(p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Position != p {
		t.Errorf("disabled Snap moved the position: %v -> %v", p, res.Position)
	}
	if res.Snapped {
		t.Error("Snapped should be false when the grid is disabled")
	}
	if m.ShouldSnap(p) {
		t.Error("ShouldSnap should be false when the grid is disabled")
	}
}

func TestSnapRejectsNonFinite(t *testing.T) {
	m := enabledManager(t)

	for _, p := range []geom.Point{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.Inf(1)},
	} {
		if _, err := m.Snap(p); errors.GetCode(err) != errors.ErrCodeInvalidGeometry {
			t.Errorf("Snap(%v) error code = %s, want %s", p, errors.GetCode(err), errors.ErrCodeInvalidGeometry)
		}
		if m.ShouldSnap(p) {
			t.Errorf("ShouldSnap(%v) = true for non-finite input", p)
		}
	}
}

func TestShouldSnap(t *testing.T) {
	m := enabledManager(t)

	tests := []struct {
		name string
		p    geom.Point
		want bool
	}{
		{"on intersection", geom.Point{X: 40, Y: 60}, true},
		{"at threshold", geom.Point{X: 110, Y: 110}, true},
		{"inside threshold", geom.Point{X: 109, Y: 100}, true},
		{"both axes near half", geom.Point{X: 109, Y: 109}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ShouldSnap(tt.p); got != tt.want {
				t.Errorf("ShouldSnap(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestShouldSnapThresholdGate(t *testing.T) {
	cfg := Config{Size: 20, Enabled: true, SnapThreshold: 4}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if !m.ShouldSnap(geom.Point{X: 44, Y: 60}) {
		t.Error("distance 4 at threshold 4 should preview")
	}
	if m.ShouldSnap(geom.Point{X: 45, Y: 60}) {
		t.Error("distance 5 at threshold 4 should not preview")
	}

	// Snap itself is never distance-gated.
	res, err := m.Snap(geom.Point{X: 45, Y: 60})
	if err != nil {
		t.Fatal(err)
	}
	if res.Position != (geom.Point{X: 40, Y: 60}) {
		t.Errorf("Snap ignored threshold gating incorrectly: %v", res.Position)
	}
}

func TestCellRoundTrip(t *testing.T) {
	m := enabledManager(t)

	cx, cy := m.Cell(geom.Point{X: 40, Y: 60})
	if cx != 2 || cy != 3 {
		t.Errorf("Cell(40,60) = (%d,%d), want (2,3)", cx, cy)
	}

	if got := m.CellOrigin(2, 3); got != (geom.Point{X: 40, Y: 60}) {
		t.Errorf("CellOrigin(2,3) = %v, want (40,60)", got)
	}

	// Interior positions map to the same cell as their floor corner.
	cx, cy = m.Cell(geom.Point{X: 59.9, Y: 79.9})
	if cx != 2 || cy != 3 {
		t.Errorf("Cell(59.9,79.9) = (%d,%d), want (2,3)", cx, cy)
	}

	cx, cy = m.Cell(geom.Point{X: -1, Y: -1})
	if cx != -1 || cy != -1 {
		t.Errorf("Cell(-1,-1) = (%d,%d), want (-1,-1)", cx, cy)
	}
}

func TestSetConfigKeepsPreviousOnError(t *testing.T) {
	m := enabledManager(t)
	orig := m.Config()

	bad := Config{Size: -5}
	if err := m.SetConfig(bad); err == nil {
		t.Fatal("SetConfig with invalid config should fail")
	}
	if m.Config() != orig {
		t.Errorf("config changed after failed SetConfig: %+v", m.Config())
	}

	good := orig
	good.Size = 40
	good.SnapThreshold = 20
	if err := m.SetConfig(good); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if m.Config().Size != 40 {
		t.Errorf("Size = %v, want 40", m.Config().Size)
	}
}
