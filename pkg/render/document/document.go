// Package document assembles rendered images into a multi-page PDF.
//
// The legend document pairs the color bar with the network diagram: the
// color bar is the first page and the graph the second, each page sized to
// its image.
package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/hydrograph/pkg/buildinfo"
	"github.com/matzehuels/hydrograph/pkg/errors"
)

// pxToPt converts 96 dpi raster pixels to PDF points.
const pxToPt = 72.0 / 96.0

// Page is one PNG image placed on its own page.
type Page struct {
	Name string
	PNG  []byte
}

// Options configures the document metadata.
type Options struct {
	Title string
}

// Compose writes the pages, in order, into a single PDF.
func Compose(pages []Page, opts Options) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document needs at least one page")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(buildinfo.Creator(), true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	for i, p := range pages {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(p.PNG))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "page %d (%s)", i+1, p.Name)
		}
		if format != "png" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "page %d (%s) is %s, want png", i+1, p.Name, format)
		}
		w, h := float64(cfg.Width)*pxToPt, float64(cfg.Height)*pxToPt

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		name := fmt.Sprintf("page-%d-%s", i, p.Name)
		imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(p.PNG))
		pdf.ImageOptions(name, 0, 0, w, h, false, imgOpts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "page %d (%s)", i+1, p.Name)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "write document")
	}
	return buf.Bytes(), nil
}
