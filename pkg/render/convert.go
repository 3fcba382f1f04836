package render

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

// rsvgConvert is the PDF toolkit binary.
const rsvgConvert = "rsvg-convert"

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// HasPDFToolkit reports whether rsvg-convert is installed.
func HasPDFToolkit() bool {
	_, err := lookPath(rsvgConvert)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

func convert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	bin, err := lookPath(rsvgConvert)
	if err != nil {
		return nil, errors.New(errors.ErrCodeToolkitMissing,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
