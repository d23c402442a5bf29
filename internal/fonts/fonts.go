// Package fonts provides the Go font family as ready-to-use faces for raster
// rendering.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects a font of the family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

var (
	parseOnce sync.Once
	parsed    map[Style]*truetype.Font
	parseErr  error
)

func load() {
	sources := map[Style][]byte{
		Regular: goregular.TTF,
		Bold:    gobold.TTF,
		Italic:  goitalic.TTF,
	}
	parsed = make(map[Style]*truetype.Font, len(sources))
	for style, ttf := range sources {
		f, err := truetype.Parse(ttf)
		if err != nil {
			parseErr = fmt.Errorf("parse font %d: %w", style, err)
			return
		}
		parsed[style] = f
	}
}

// Face returns a new face of the given style and size in points at 72 DPI.
// Faces keep glyph caches and must not be shared between goroutines.
func Face(style Style, size float64) (font.Face, error) {
	parseOnce.Do(load)
	if parseErr != nil {
		return nil, parseErr
	}
	f, ok := parsed[style]
	if !ok {
		return nil, fmt.Errorf("unknown font style %d", style)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// MustFace is like Face but panics on error. The embedded fonts always parse.
func MustFace(style Style, size float64) font.Face {
	face, err := Face(style, size)
	if err != nil {
		panic(err)
	}
	return face
}
