package sprite

import (
	"context"
	"errors"
	"image/color"
	"io/fs"
	"testing"
)

type fsFetcher struct {
	fsys fs.FS
}

func (f fsFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	return fs.ReadFile(f.fsys, path)
}

func TestParsePadsRows(t *testing.T) {
	s, err := Parse([]byte("ab\r\nabcd\n\n\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Width != 4 || s.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", s.Width, s.Height)
	}
	if s.Rows[0] != "ab  " {
		t.Errorf("row 0 = %q, want padded %q", s.Rows[0], "ab  ")
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \n"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestMirror(t *testing.T) {
	s, _ := Parse([]byte("(o>  \n/_ \\"))
	m := s.Mirror()

	want := []string{"  <o)", " / _\\"}
	for i := range want {
		if m.Rows[i] != want[i] {
			t.Errorf("mirrored row %d = %q, want %q", i, m.Rows[i], want[i])
		}
	}
	if m.Width != s.Width || m.Height != s.Height {
		t.Error("mirror changed the sprite size")
	}

	back := m.Mirror()
	for i := range s.Rows {
		if back.Rows[i] != s.Rows[i] {
			t.Errorf("double mirror row %d = %q, want %q", i, back.Rows[i], s.Rows[i])
		}
	}
}

func TestLoadEmbeddedAsset(t *testing.T) {
	s, err := Load(context.Background(), fsFetcher{Assets()}, DefaultAsset)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Width == 0 || s.Height == 0 {
		t.Errorf("embedded sprite is %dx%d", s.Width, s.Height)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), fsFetcher{Assets()}, "ghost.txt")
	if err == nil {
		t.Fatal("Load() of missing asset should fail")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want wrapped fs.ErrNotExist", err)
	}
}

func TestRaster(t *testing.T) {
	s, _ := Parse([]byte("# \n #"))
	ink := color.RGBA{R: 255, A: 255}
	img := s.Raster(3, 2, ink)

	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Fatalf("raster size = %dx%d, want 6x4", b.Dx(), b.Dy())
	}
	if got := img.RGBAAt(1, 1); got != ink {
		t.Errorf("pixel (1,1) = %v, want ink", got)
	}
	if got := img.RGBAAt(4, 1); got.A != 0 {
		t.Errorf("pixel (4,1) = %v, want transparent", got)
	}
	if got := img.RGBAAt(5, 3); got != ink {
		t.Errorf("pixel (5,3) = %v, want ink", got)
	}
}

func TestPlace(t *testing.T) {
	type point struct{ x, y float64 }
	tests := []struct {
		name     string
		mirrored bool
		in       []point
		want     []point
	}{
		{
			name: "facing left",
			in:   []point{{0, 0}, {20, 10}, {5, 0}},
			want: []point{{30, 40}, {130, 140}, {55, 40}},
		},
		{
			name:     "mirrored about box midpoint",
			mirrored: true,
			in:       []point{{0, 0}, {20, 10}, {5, 0}, {10, 5}},
			want:     []point{{130, 40}, {30, 140}, {105, 40}, {80, 90}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 20x10 raster drawn into a 100x100 box at (30, 40)
			p := Place(20, 10, 100, 100, 30, 40, tt.mirrored)
			for i, pt := range tt.in {
				x, y := p.Apply(pt.x, pt.y)
				if x != tt.want[i].x || y != tt.want[i].y {
					t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", pt.x, pt.y, x, y, tt.want[i].x, tt.want[i].y)
				}
			}
		})
	}
}
