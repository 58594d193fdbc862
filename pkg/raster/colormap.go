package raster

import "image/color"

// Stop is a colormap control point at a position in [0, 1].
type Stop struct {
	Pos     float64
	R, G, B uint8
}

// Ramp is a continuous colormap interpolated between stops. The ramps
// mirror the matplotlib maps the platform frontend expects thumbnails to
// match.
type Ramp struct {
	Name  string
	Stops []Stop
}

// YlGn is the yellow-to-green ramp used for vegetation indices.
var YlGn = Ramp{Name: "YlGn", Stops: []Stop{
	{0.00, 255, 255, 229},
	{0.25, 217, 240, 163},
	{0.50, 120, 198, 121},
	{0.75, 35, 132, 67},
	{1.00, 0, 69, 41},
}}

// RdBu is the diverging red-to-blue ramp used for NDWI.
var RdBu = Ramp{Name: "RdBu", Stops: []Stop{
	{0.00, 103, 0, 31},
	{0.25, 214, 96, 77},
	{0.50, 247, 247, 247},
	{0.75, 67, 147, 195},
	{1.00, 5, 48, 97},
}}

// Jet is the rainbow ramp used for water-quality indices.
var Jet = Ramp{Name: "jet", Stops: []Stop{
	{0.000, 0, 0, 128},
	{0.110, 0, 0, 255},
	{0.375, 0, 255, 255},
	{0.625, 255, 255, 0},
	{0.890, 255, 0, 0},
	{1.000, 128, 0, 0},
}}

var ramps = map[string]Ramp{
	YlGn.Name: YlGn,
	RdBu.Name: RdBu,
	Jet.Name:  Jet,
}

// RampByName looks a ramp up by its matplotlib name.
func RampByName(name string) (Ramp, bool) {
	r, ok := ramps[name]
	return r, ok
}

// At evaluates the ramp at t in [0, 1], clamping out-of-range values.
func (r Ramp) At(t float64, reversed bool) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if reversed {
		t = 1 - t
	}

	stops := r.Stops
	for i := 1; i < len(stops); i++ {
		if t > stops[i].Pos {
			continue
		}
		prev, next := stops[i-1], stops[i]
		span := next.Pos - prev.Pos
		frac := 0.0
		if span > 0 {
			frac = (t - prev.Pos) / span
		}
		return color.NRGBA{
			R: lerp(prev.R, next.R, frac),
			G: lerp(prev.G, next.G, frac),
			B: lerp(prev.B, next.B, frac),
			A: 255,
		}
	}
	last := stops[len(stops)-1]
	return color.NRGBA{R: last.R, G: last.G, B: last.B, A: 255}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
