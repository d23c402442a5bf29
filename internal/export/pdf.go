package export

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image/png"
	"io"
	"log/slog"

	"github.com/go-pdf/fpdf"
	"golang.org/x/crypto/blake2b"
)

// WritePDF renders every page of doc and writes an A4 portrait PDF with one
// full-page raster per page. Nothing is written to w unless every page
// succeeds.
func WritePDF(ctx context.Context, w io.Writer, doc Document, r *Renderer) error {
	pages := doc.Pages()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(brand, true)
	pdf.SetTitle(pages[0].Title, true)
	pageW, pageH := pdf.GetPageSize()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export cancelled: %w", err)
		}

		img, err := r.Render(page)
		if err != nil {
			return fmt.Errorf("render page %d (%s): %w", i+1, page.Kind, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}

		name := imageKey(buf.Bytes())
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, pageW, pageH, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("add page %d: %w", i+1, err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return fmt.Errorf("assemble pdf: %w", err)
	}
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	slog.Info("pdf exported",
		"mode", string(doc.Mode),
		"pages", len(pages),
		"bytes", out.Len(),
	)
	return nil
}

// imageKey names a raster by its content so identical pages share one image
// object in the PDF.
func imageKey(data []byte) string {
	sum := blake2b.Sum256(data)
	return "page-" + hex.EncodeToString(sum[:16])
}
