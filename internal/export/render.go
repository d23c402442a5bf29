package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/p-n-ai/inkwell/internal/fonts"
)

// Logical page size in CSS pixels; A4 at 96 DPI.
const (
	PageWidth  = 794
	PageHeight = 1123

	DefaultScale = 2.0
)

var (
	gray50  = color.RGBA{0xF9, 0xFA, 0xFB, 0xFF}
	gray300 = color.RGBA{0xD1, 0xD5, 0xDB, 0xFF}
	gray400 = color.RGBA{0x9C, 0xA3, 0xAF, 0xFF}
	gray500 = color.RGBA{0x6B, 0x72, 0x80, 0xFF}
	gray600 = color.RGBA{0x4B, 0x55, 0x63, 0xFF}
	gray700 = color.RGBA{0x37, 0x41, 0x51, 0xFF}
	gray800 = color.RGBA{0x1F, 0x29, 0x37, 0xFF}
)

// practiceOpacity is the alpha of the traced copy in the practice area.
const practiceOpacity = 0.2

// Renderer rasterizes pages at Scale device pixels per logical pixel.
type Renderer struct {
	Scale float64
}

// NewRenderer returns a renderer; non-positive scales use DefaultScale.
func NewRenderer(scale float64) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Renderer{Scale: scale}
}

// Render draws one page.
func (r *Renderer) Render(p Page) (image.Image, error) {
	c := newCanvas(r.scale())
	switch p.Kind {
	case TitlePage:
		c.titlePage(p)
	case TextPage:
		c.textPage(p)
	case LessonPage:
		if err := c.lessonPage(p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown page kind %d", p.Kind)
	}
	return c.dc.Image(), nil
}

func (r *Renderer) scale() float64 {
	if r == nil || r.Scale <= 0 {
		return DefaultScale
	}
	return r.Scale
}

// canvas draws in logical pixels on a context scaled to device pixels. Font
// faces and line widths are not affected by the context transform, so they
// are sized in device pixels here.
type canvas struct {
	dc    *gg.Context
	scale float64
}

func newCanvas(scale float64) *canvas {
	w := int(PageWidth*scale + 0.5)
	h := int(PageHeight*scale + 0.5)
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)
	return &canvas{dc: dc, scale: scale}
}

func (c *canvas) font(style fonts.Style, size float64) {
	c.dc.SetFontFace(fonts.MustFace(style, size*c.scale))
}

func (c *canvas) measure(s string) float64 {
	w, _ := c.dc.MeasureString(s)
	return w / c.scale
}

func (c *canvas) text(s string, x, y, ax float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, ax, 0)
}

func (c *canvas) hline(x1, x2, y, width float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width * c.scale)
	c.dc.DrawLine(x1, y, x2, y)
	c.dc.Stroke()
}

// wrap splits s into lines no wider than width logical pixels.
func (c *canvas) wrap(s string, width float64) []string {
	return c.dc.WordWrap(s, width*c.scale)
}

// fit shrinks the font from size down to floor until s fits in width, then
// ellipsizes. It leaves the chosen face selected and returns its size.
func (c *canvas) fit(s string, style fonts.Style, size, floor, width float64) (string, float64) {
	for ; size > floor; size -= 2 {
		c.font(style, size)
		if c.measure(s) <= width {
			return s, size
		}
	}
	c.font(style, floor)
	if c.measure(s) <= width {
		return s, floor
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if candidate := strings.TrimSpace(string(r)) + "…"; c.measure(candidate) <= width {
			return candidate, floor
		}
	}
	return "", floor
}

func (c *canvas) header(heading string, headingSize float64, number, total int, pad float64, rule color.Color) float64 {
	baseline := pad + headingSize
	right := fmt.Sprintf("Page %d of %d", number, total)

	c.font(fonts.Regular, 14)
	rightWidth := c.measure(right)
	c.text(right, PageWidth-pad, baseline, 1, gray600)

	heading, _ = c.fit(heading, fonts.Bold, headingSize, 12, PageWidth-2*pad-rightWidth-16)
	c.text(heading, pad, baseline, 0, color.Black)

	bottom := baseline + 16
	c.hline(pad, PageWidth-pad, bottom, 1, rule)
	return bottom
}

func (c *canvas) footer(s string, pad float64) float64 {
	top := PageHeight - pad - 32
	c.hline(pad, PageWidth-pad, top, 1, gray300)
	s, _ = c.fit(s, fonts.Regular, 12, 8, PageWidth-2*pad)
	c.text(s, PageWidth/2, top+16+12, 0.5, gray500)
	return top
}

func (c *canvas) titlePage(p Page) {
	const (
		pad      = 48.0
		border   = 4.0
		maxInner = PageWidth - 4*pad
	)

	type line struct {
		text   string
		style  fonts.Style
		size   float64
		height float64
		gap    float64 // space above
	}
	lines := []line{
		{brand, fonts.Bold, 60, 60, 0},
		{"Drawing Lessons", fonts.Regular, 30, 36, 16},
		{p.Title, fonts.Bold, 48, 48, 64*2 + 4},
		{p.Subtitle, fonts.Regular, 30, 36, 8},
	}

	inner, height := 128.0, 0.0
	for i := range lines {
		lines[i].text, lines[i].size = c.fit(lines[i].text, lines[i].style, lines[i].size, 16, maxInner)
		if w := c.measure(lines[i].text); w > inner {
			inner = w
		}
		height += lines[i].gap + lines[i].height
	}

	boxW := inner + 2*pad
	boxH := height + 2*pad
	x := (PageWidth - boxW) / 2
	y := (PageHeight - boxH) / 2

	c.dc.SetColor(color.Black)
	c.dc.SetLineWidth(border * c.scale)
	c.dc.DrawRectangle(x, y, boxW, boxH)
	c.dc.Stroke()

	cursor := y + pad
	for i, l := range lines {
		cursor += l.gap
		if i == 2 {
			c.dc.SetColor(color.Black)
			c.dc.DrawRectangle(PageWidth/2-64, cursor-64-4, 128, 4)
			c.dc.Fill()
		}
		c.font(l.style, l.size)
		// Baselines sit near the bottom of each line box.
		c.text(l.text, PageWidth/2, cursor+l.height*0.8, 0.5, color.Black)
		cursor += l.height
	}
}

func (c *canvas) textPage(p Page) {
	const (
		pad        = 48.0
		size       = 18.0
		lineHeight = size * 1.625
		paraGap    = 24.0
	)

	top := c.header(p.Heading, 24, p.Number, p.Total, pad, gray400)
	bottom := c.footer(p.Footer, pad)

	c.font(fonts.Regular, size)
	y := top + 32
	for _, para := range p.Paragraphs {
		for _, line := range c.wrap(para, PageWidth-2*pad) {
			if y+lineHeight > bottom-16 {
				return
			}
			c.text(line, pad, y+size, 0, gray800)
			y += lineHeight
		}
		y += paraGap
	}
}

func (c *canvas) lessonPage(p Page) error {
	const (
		pad    = 32.0
		gap    = 32.0
		colW   = (PageWidth - 2*pad - gap) / 2
		boxPad = 16.0
	)

	src, _, err := image.Decode(bytes.NewReader(p.Image))
	if err != nil {
		return fmt.Errorf("decode lesson image: %w", err)
	}

	top := c.header(p.Heading, 18, p.Number, p.Total, pad, gray300) + 32
	bottom := c.footer(p.Footer, pad) - 32

	columns := []struct {
		title   string
		opacity float64
	}{
		{"Example Drawing", 1},
		{"Practice Area", practiceOpacity},
	}
	for i, col := range columns {
		x := pad + float64(i)*(colW+gap)

		c.font(fonts.Bold, 16)
		c.text(col.title, x+colW/2, top+16, 0.5, gray700)
		c.hline(x, x+colW, top+16+8, 1, gray300)

		boxY := top + 16 + 8 + 16
		boxH := bottom - boxY
		c.dc.SetColor(gray50)
		c.dc.DrawRoundedRectangle(x, boxY, colW, boxH, 8)
		c.dc.Fill()
		c.dc.SetColor(gray300)
		c.dc.SetLineWidth(1 * c.scale)
		c.dc.SetDash(4*c.scale, 4*c.scale)
		c.dc.DrawRoundedRectangle(x, boxY, colW, boxH, 8)
		c.dc.Stroke()
		c.dc.SetDash()

		c.image(src, x+boxPad, boxY+boxPad, colW-2*boxPad, boxH-2*boxPad, col.opacity)
	}
	return nil
}

// image draws src scaled to fit the box, centered, at the given opacity.
func (c *canvas) image(src image.Image, x, y, w, h, opacity float64) {
	b := src.Bounds()
	if b.Empty() {
		return
	}
	ratio := min(w/float64(b.Dx()), h/float64(b.Dy()))
	dw, dh := float64(b.Dx())*ratio, float64(b.Dy())*ratio
	x += (w - dw) / 2
	y += (h - dh) / 2

	dst := image.NewRGBA(image.Rect(0, 0, int(dw*c.scale+0.5), int(dh*c.scale+0.5)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var out image.Image = dst
	if opacity < 1 {
		faded := image.NewRGBA(dst.Bounds())
		mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
		draw.DrawMask(faded, faded.Bounds(), dst, image.Point{}, mask, image.Point{}, draw.Src)
		out = faded
	}

	c.dc.Push()
	c.dc.Identity()
	c.dc.DrawImage(out, int(x*c.scale+0.5), int(y*c.scale+0.5))
	c.dc.Pop()
}
