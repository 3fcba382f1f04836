package legend

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/errors"
)

var elevation = annotate.Legend{Label: "Elevation [m]", Colormap: "viridis", Min: 200, Max: 260}

func TestRender_PNG(t *testing.T) {
	data, err := Render(elevation, "png", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() <= b.Dy() {
		t.Errorf("color bar should be wider than tall, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_SVG(t *testing.T) {
	data, err := Render(elevation, "svg", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("Render(svg) output is not SVG")
	}
}

func TestRender_PDF(t *testing.T) {
	data, err := Render(elevation, "pdf", Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Render(pdf) output is not PDF")
	}
}

func TestRender_FlatRange(t *testing.T) {
	flat := annotate.Legend{Label: "Head [m]", Min: 50, Max: 50}
	if _, err := Render(flat, "png", Options{}); err != nil {
		t.Errorf("Render flat range: %v", err)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(elevation, "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
	bad := elevation
	bad.Colormap = "jet"
	if _, err := Render(bad, "png", Options{}); !errors.Is(err, errors.ErrCodeInvalidColormap) {
		t.Errorf("jet code = %v, want INVALID_COLORMAP", errors.GetCode(err))
	}
}
