package generation

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/p-n-ai/inkwell/internal/fonts"
)

const (
	placeholderWidth   = 300
	placeholderHeight  = 400
	placeholderMaxText = 280.0
)

var placeholderGray = color.Gray{Y: 0x80}

// Placeholder draws the stand-in used when no AI drawing is available. The
// output depends only on subject.
func Placeholder(subject string) []byte {
	dc := gg.NewContext(placeholderWidth, placeholderHeight)

	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, placeholderWidth-2, placeholderHeight-2)
	dc.Stroke()

	cx := float64(placeholderWidth) / 2
	lines := []struct {
		text string
		size float64
		y    float64
		c    color.Color
	}{
		{"Drawing Placeholder", 16, 180, color.Black},
		{subject, 12, 200, placeholderGray},
		{"Enable Imagen API billing", 10, 220, placeholderGray},
		{"to generate AI drawings", 10, 235, placeholderGray},
	}
	for _, l := range lines {
		dc.SetFontFace(fonts.MustFace(fonts.Regular, l.size))
		dc.SetColor(l.c)
		dc.DrawStringAnchored(fitText(dc, l.text, placeholderMaxText), cx, l.y, 0.5, 0)
	}

	dc.SetColor(color.Black)
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, 280, 30)
	dc.Stroke()
	dc.MoveTo(130, 270)
	dc.LineTo(150, 290)
	dc.LineTo(170, 270)
	dc.Stroke()

	var buf bytes.Buffer
	// Encoding an in-memory RGBA image into a buffer does not fail.
	_ = dc.EncodePNG(&buf)
	return buf.Bytes()
}

// fitText shortens s with an ellipsis until it is at most width wide.
func fitText(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ""
}
