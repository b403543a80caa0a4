package engine

import "image"

// Segment is a projected line in screen space.
type Segment struct {
	A, B image.Point
}

// Quad is a projected tile: bottom-left, top-left, top-right, bottom-right.
type Quad [4]image.Point

// Frame holds the projected scene for one render. Screen space has its
// origin at the bottom-left corner. The runtime reuses one Frame, so a
// Surface must copy anything it keeps past Render.
type Frame struct {
	Width  float64
	Height float64

	VerticalLines   []Segment
	HorizontalLines []Segment
	Tiles           []Quad
	Ship            [3]image.Point
	HasShip         bool // Ship holds this render's vertices

	Score        int
	AttemptsLeft int
	MaxAttempts  int
	Started      bool
	GameOver     bool
}

func (f *Frame) reset(width, height float64) {
	f.Width = width
	f.Height = height
	f.VerticalLines = f.VerticalLines[:0]
	f.HorizontalLines = f.HorizontalLines[:0]
	f.Tiles = f.Tiles[:0]
	f.HasShip = false
}

// Surface is the render collaborator: it reports its size and draws frames.
type Surface interface {
	Size() (width, height float64)
	Render(f *Frame)
}

// HeadlessSurface is a fixed-size Surface that keeps the last frame.
type HeadlessSurface struct {
	W, H   float64
	Frames int
	Last   Frame
}

// NewHeadlessSurface creates a surface of the given size.
func NewHeadlessSurface(width, height float64) *HeadlessSurface {
	return &HeadlessSurface{W: width, H: height}
}

// Size implements Surface.
func (s *HeadlessSurface) Size() (float64, float64) {
	return s.W, s.H
}

// Render implements Surface.
func (s *HeadlessSurface) Render(f *Frame) {
	s.Frames++
	s.Last = *f
	s.Last.VerticalLines = append([]Segment(nil), f.VerticalLines...)
	s.Last.HorizontalLines = append([]Segment(nil), f.HorizontalLines...)
	s.Last.Tiles = append([]Quad(nil), f.Tiles...)
}
