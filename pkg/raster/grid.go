// Package raster provides the in-memory grid model the index calculators
// operate on, GDAL-backed GeoTIFF IO, and thumbnail rendering. Raster
// warping, clipping and format handling are delegated to GDAL through the
// godal binding; nothing here reimplements them.
package raster

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrShapeMismatch is returned when combining grids of different shapes.
var ErrShapeMismatch = errors.New("raster: grids have different shapes")

// Grid is a single-band raster held in memory as row-major float64 with
// nodata represented as NaN.
type Grid struct {
	Data      []float64
	Width     int
	Height    int
	Transform [6]float64 // GDAL-order affine geotransform
	EPSG      int
}

// NewGrid allocates a grid with the given shape and georeferencing.
func NewGrid(width, height int, transform [6]float64, epsg int) *Grid {
	return &Grid{
		Data:      make([]float64, width*height),
		Width:     width,
		Height:    height,
		Transform: transform,
		EPSG:      epsg,
	}
}

// Like allocates an empty grid with the same shape and georeferencing.
func (g *Grid) Like() *Grid {
	return NewGrid(g.Width, g.Height, g.Transform, g.EPSG)
}

// At returns the value at column x, row y.
func (g *Grid) At(x, y int) float64 { return g.Data[y*g.Width+x] }

// Set stores v at column x, row y.
func (g *Grid) Set(x, y int, v float64) { g.Data[y*g.Width+x] = v }

// SameShape reports whether the grids have identical dimensions.
func (g *Grid) SameShape(other *Grid) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// Bounds returns [minx, miny, maxx, maxy] in the grid's CRS. North-up
// rasters carry a negative row resolution in the transform.
func (g *Grid) Bounds() [4]float64 {
	x0 := g.Transform[0]
	y0 := g.Transform[3]
	x1 := x0 + float64(g.Width)*g.Transform[1] + float64(g.Height)*g.Transform[2]
	y1 := y0 + float64(g.Width)*g.Transform[4] + float64(g.Height)*g.Transform[5]
	return [4]float64{math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)}
}

// Rescale applies value*scale+offset in place and returns the grid.
func (g *Grid) Rescale(scale, offset float64) *Grid {
	for i, v := range g.Data {
		g.Data[i] = v*scale + offset
	}
	return g
}

// MaskWhere sets cells to NaN wherever keep is false.
func (g *Grid) MaskWhere(keep []bool) *Grid {
	for i := range g.Data {
		if !keep[i] {
			g.Data[i] = math.NaN()
		}
	}
	return g
}

// Combine evaluates f cell-wise over the inputs and returns a new grid
// with the georeferencing of the first input.
func Combine(f func(vals ...float64) float64, grids ...*Grid) (*Grid, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("raster: no input grids")
	}
	first := grids[0]
	for _, g := range grids[1:] {
		if !first.SameShape(g) {
			return nil, ErrShapeMismatch
		}
	}

	out := first.Like()
	vals := make([]float64, len(grids))
	for i := range first.Data {
		for j, g := range grids {
			vals[j] = g.Data[i]
		}
		out.Data[i] = f(vals...)
	}
	return out, nil
}

// Stats are the NaN-aware summary statistics recorded on data assets.
type Stats struct {
	Minimum      float64 `json:"minimum"`
	Maximum      float64 `json:"maximum"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Q01          float64 `json:"q01"`
	Q99          float64 `json:"q99"`
	Stddev       float64 `json:"stddev"`
	ValidPercent float64 `json:"valid_percent"`
}

// Statistics computes summary statistics over the valid (non-NaN) cells.
func (g *Grid) Statistics() Stats {
	valid := make([]float64, 0, len(g.Data))
	var sum float64
	for _, v := range g.Data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
			sum += v
		}
	}
	if len(valid) == 0 {
		nan := math.NaN()
		return Stats{Minimum: nan, Maximum: nan, Mean: nan, Median: nan, Q01: nan, Q99: nan, Stddev: nan}
	}

	sort.Float64s(valid)
	mean := sum / float64(len(valid))

	var sq float64
	for _, v := range valid {
		d := v - mean
		sq += d * d
	}

	return Stats{
		Minimum:      valid[0],
		Maximum:      valid[len(valid)-1],
		Mean:         mean,
		Median:       quantile(valid, 0.5),
		Q01:          quantile(valid, 0.01),
		Q99:          quantile(valid, 0.99),
		Stddev:       math.Sqrt(sq / float64(len(valid))),
		ValidPercent: float64(len(valid)) / float64(len(g.Data)),
	}
}

// quantile interpolates linearly over sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
