package stage

import (
	"math"
	"strings"

	"hoppet/internal/motion"
	"hoppet/internal/sprite"
)

// One terminal cell stands for CellWidth x CellHeight pixels of canvas
const (
	CellWidth  = 10
	CellHeight = 20
)

const groundGlyph = '▔'

// Art is a sprite and its mirror image, built once
type Art struct {
	left  *sprite.Sprite
	right *sprite.Sprite
}

// NewArt prepares art whose native orientation faces left
func NewArt(sp *sprite.Sprite) Art {
	return Art{left: sp, right: sp.Mirror()}
}

// Ready reports whether a sprite has been loaded
func (a Art) Ready() bool {
	return a.left != nil
}

// Facing returns the art to draw for a facing direction
func (a Art) Facing(d motion.Direction) *sprite.Sprite {
	if d == motion.Right {
		return a.right
	}
	return a.left
}

// PixelSize is the sprite's size in canvas pixels
func (a Art) PixelSize() (float64, float64) {
	if a.left == nil {
		return 0, 0
	}
	return float64(a.left.Width * CellWidth), float64(a.left.Height * CellHeight)
}

// NewSimulator builds a simulator for a cols x rows terminal canvas
func NewSimulator(cfg motion.Config, cols, rows int, art Art) (*motion.Simulator, error) {
	w, h := art.PixelSize()
	return motion.New(cfg, cfg.Bounds(float64(cols*CellWidth), float64(rows*CellHeight), w, h))
}

// cell maps a pixel coordinate onto the grid
func cell(px float64, size int) int {
	return int(math.Round(px / float64(size)))
}

// Render draws the art onto a cols x rows grid with a ground line on the
// bottom row. Parts of the sprite outside the grid are clipped.
func Render(cols, rows int, art Art, st motion.State) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
	}
	for x := 0; x < cols; x++ {
		grid[rows-1][x] = groundGlyph
	}

	if art.Ready() {
		sp := art.Facing(st.Facing)
		originX := cell(st.Pos.X, CellWidth)
		originY := cell(st.Pos.Y, CellHeight)
		for dy, row := range sp.Rows {
			y := originY + dy
			if y < 0 || y >= rows {
				continue
			}
			for dx, r := range []rune(row) {
				x := originX + dx
				if x < 0 || x >= cols || r == ' ' {
					continue
				}
				grid[y][x] = r
			}
		}
	}

	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}
