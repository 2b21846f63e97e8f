package sprite

import (
	"context"
	"embed"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"strings"
)

//go:embed assets
var assets embed.FS

// DefaultAsset is the built-in pet art, facing left
const DefaultAsset = "pet.txt"

// Assets returns the embedded sprite files
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// mirrorPairs swaps glyphs that point one way for their reflection
var mirrorPairs = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'/': '\\', '\\': '/',
	'd': 'b', 'b': 'd',
	'p': 'q', 'q': 'p',
}

// Sprite is rectangular ASCII art. Every row is padded to Width runes.
type Sprite struct {
	Rows   []string
	Width  int
	Height int
}

// Parse builds a sprite from text art. Trailing blank lines are dropped.
func Parse(data []byte) (*Sprite, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	lines := strings.Split(text, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("sprite art is empty")
	}

	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}

	rows := make([]string, len(lines))
	for i, line := range lines {
		rows[i] = line + strings.Repeat(" ", width-len([]rune(line)))
	}

	return &Sprite{Rows: rows, Width: width, Height: len(rows)}, nil
}

// Mirror returns the sprite flipped horizontally about its own midpoint
func (s *Sprite) Mirror() *Sprite {
	rows := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		runes := []rune(row)
		out := make([]rune, len(runes))
		for j, r := range runes {
			if m, ok := mirrorPairs[r]; ok {
				r = m
			}
			out[len(runes)-1-j] = r
		}
		rows[i] = string(out)
	}
	return &Sprite{Rows: rows, Width: s.Width, Height: s.Height}
}

// Fetcher retrieves raw asset bytes
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Load fetches and parses a sprite asset
func Load(ctx context.Context, f Fetcher, path string) (*Sprite, error) {
	data, err := f.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprite %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sprite %s: %w", path, err)
	}
	return s, nil
}

// Raster paints the art into an image, one cellW x cellH block per
// non-blank glyph
func (s *Sprite) Raster(cellW, cellH int, ink color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width*cellW, s.Height*cellH))
	for y, row := range s.Rows {
		for x, r := range []rune(row) {
			if r == ' ' {
				continue
			}
			for py := y * cellH; py < (y+1)*cellH; py++ {
				for px := x * cellW; px < (x+1)*cellW; px++ {
					img.Set(px, py, ink)
				}
			}
		}
	}
	return img
}

// Placement is a 2D affine transform laid out like ebiten.GeoM:
// x' = A*x + B*y + TX, y' = C*x + D*y + TY.
type Placement struct {
	A, B, TX float64
	C, D, TY float64
}

// Place maps a srcW x srcH raster onto a boxW x boxH box whose top-left
// corner is at (x, y). A mirrored raster is flipped about the box's own
// vertical midpoint, so it stays inside the same box.
func Place(srcW, srcH int, boxW, boxH, x, y float64, mirrored bool) Placement {
	sx := boxW / float64(srcW)
	sy := boxH / float64(srcH)
	p := Placement{A: sx, D: sy, TX: x, TY: y}
	if mirrored {
		p.A = -sx
		p.TX = x + boxW
	}
	return p
}

// Apply transforms one point
func (p Placement) Apply(x, y float64) (float64, float64) {
	return p.A*x + p.B*y + p.TX, p.C*x + p.D*y + p.TY
}
