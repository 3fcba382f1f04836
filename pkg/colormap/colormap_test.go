package colormap

import (
	"math"
	"testing"

	"gonum.org/v1/plot/palette"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

func TestNew(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name)
		if err != nil {
			t.Errorf("New(%s): %v", name, err)
			continue
		}
		if m.Name() != name {
			t.Errorf("Name() = %s, want %s", m.Name(), name)
		}
	}

	_, err := New("jet")
	if !errors.Is(err, errors.ErrCodeInvalidColormap) {
		t.Errorf("New(jet) code = %v, want INVALID_COLORMAP", errors.GetCode(err))
	}
}

func TestFractionEndpoints(t *testing.T) {
	m, err := New("viridis")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Fraction(0).Hex(); got != "#440154" {
		t.Errorf("Fraction(0) = %s, want #440154", got)
	}
	if got := m.Fraction(1).Hex(); got != "#fde725" {
		t.Errorf("Fraction(1) = %s, want #fde725", got)
	}
	if got := m.Fraction(-3).Hex(); got != "#440154" {
		t.Errorf("Fraction(-3) should clamp, got %s", got)
	}
	if got := m.Fraction(0.5).Hex(); got != "#21918c" {
		t.Errorf("Fraction(0.5) = %s, want #21918c", got)
	}
}

func TestIsDark(t *testing.T) {
	m, err := New("viridis")
	if err != nil {
		t.Fatal(err)
	}
	if !IsDark(m.Fraction(0)) {
		t.Error("low end of viridis should be dark")
	}
	if IsDark(m.Fraction(1)) {
		t.Error("high end of viridis should be light")
	}
}

func TestGraphvizHSV(t *testing.T) {
	m, err := New("viridis")
	if err != nil {
		t.Fatal(err)
	}
	// #fde725: value = 0xfd/255
	got := GraphvizHSV(m.Fraction(1))
	h, s, v := HSV(m.Fraction(1))
	if h < 0 || h > 1 || s < 0 || s > 1 {
		t.Errorf("HSV out of range: %v %v %v", h, s, v)
	}
	if math.Abs(v-float64(0xfd)/255) > 1e-9 {
		t.Errorf("value = %v, want %v", v, float64(0xfd)/255)
	}
	if len(got) != len("0.000 0.000 0.000") {
		t.Errorf("GraphvizHSV() = %q, want three 3-decimal fields", got)
	}
}

func TestAt(t *testing.T) {
	m, err := New("magma")
	if err != nil {
		t.Fatal(err)
	}
	m.SetMin(100)
	m.SetMax(200)

	if _, err := m.At(150); err != nil {
		t.Errorf("At(150): %v", err)
	}
	if _, err := m.At(50); err != palette.ErrUnderflow {
		t.Errorf("At(50) err = %v, want ErrUnderflow", err)
	}
	if _, err := m.At(250); err != palette.ErrOverflow {
		t.Errorf("At(250) err = %v, want ErrOverflow", err)
	}
	if _, err := m.At(math.NaN()); err != palette.ErrNaN {
		t.Errorf("At(NaN) err = %v, want ErrNaN", err)
	}

	m.SetMin(5)
	m.SetMax(5)
	if _, err := m.At(5); err != nil {
		t.Errorf("At on degenerate range: %v", err)
	}
}

func TestPalette(t *testing.T) {
	m, err := New("plasma")
	if err != nil {
		t.Fatal(err)
	}
	p := m.Palette(5).Colors()
	if len(p) != 5 {
		t.Fatalf("Palette(5) has %d colors", len(p))
	}
	if p[0] == p[4] {
		t.Error("palette endpoints should differ")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{10, 20, 15})
	want := []float64{0, 1, 0.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Normalize()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	flat := Normalize([]float64{3, 3})
	for i, v := range flat {
		if v != 0.5 {
			t.Errorf("flat Normalize()[%d] = %v, want 0.5", i, v)
		}
	}

	if len(Normalize(nil)) != 0 {
		t.Error("Normalize(nil) should be empty")
	}
}

func TestRange(t *testing.T) {
	lo, hi, ok := Range([]float64{4, -1, 9})
	if !ok || lo != -1 || hi != 9 {
		t.Errorf("Range() = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := Range(nil); ok {
		t.Error("Range(nil) ok = true")
	}
}
