package spectral

import (
	"math"

	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

func init() {
	register(cdom{})
	register(doc{})
	register(cyaCells{})
	register(cyaMg{})
	register(chlACoastal{})
	register(chlALow{})
	register(chlAHigh{})
	register(turbidity{})
}

// maskBands are the assets needed for water masking on top of the index
// bands: SCL when the collection serves it, the spectral fallback otherwise.
var maskBands = []string{BandBlue, BandGreen, BandNIR, BandSWIR16, BandSCL}

func withMaskBands(bands ...string) []string {
	out := append([]string{}, bands...)
	for _, mb := range maskBands {
		seen := false
		for _, b := range out {
			if b == mb {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, mb)
		}
	}
	return out
}

// computeMasked evaluates an index over rescaled reflectance bands and
// masks the result to water.
func computeMasked(bands Bands, rescale Rescale, keys []string, f func(vals ...float64) float64) (*raster.Grid, error) {
	mask, err := WaterMask(bands)
	if err != nil {
		return nil, err
	}

	inputs := make([]*raster.Grid, len(keys))
	for i, key := range keys {
		grid, err := bandOrErr(bands, key)
		if err != nil {
			return nil, err
		}
		inputs[i] = rescaled(grid, rescale)
	}

	out, err := raster.Combine(f, inputs...)
	if err != nil {
		return nil, err
	}
	return out.MaskWhere(mask), nil
}

// cdom is Colored Dissolved Organic Matter in ug/L (Soria-Perpinya et
// al. 2021), typical range 0.03 - 5.3.
type cdom struct{}

func (cdom) Name() string     { return "cdom" }
func (cdom) FullName() string { return "Colored Dissolved Organic Matter (CDOM)" }
func (cdom) Units() string    { return "ug / L" }

func (cdom) TypicalRange() (float64, float64, int) { return 0.03, 5.3, 20 }

func (cdom) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (cdom) RequiredAssets() []string { return withMaskBands(BandBlue, BandRed) }

func (cdom) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandBlue, BandRed}, func(vals ...float64) float64 {
		blue, red := vals[0], vals[1]
		return 2.4072*(red/(blue+EPS)) + 0.0709
	})
}

// doc is Dissolved Organic Carbon in mg/L (Potes et al. 2018), typical
// range 0 - 100.
type doc struct{}

func (doc) Name() string     { return "doc" }
func (doc) FullName() string { return "Dissolved Organic Carbon (DOC)" }
func (doc) Units() string    { return "mg / m3" }

func (doc) TypicalRange() (float64, float64, int) { return 0.0, 100.0, 20 }

func (doc) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (doc) RequiredAssets() []string { return withMaskBands(BandGreen, BandRed) }

func (doc) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandGreen, BandRed}, func(vals ...float64) float64 {
		green, red := vals[0], vals[1]
		return 432 * math.Exp(-2.24*(green/(red+EPS))+EPS)
	})
}

// cyaCells is Cyanobacteria density in 1e6 cells/mL (Potes et al. 2018),
// typical range 0.1 - 300.
type cyaCells struct{}

func (cyaCells) Name() string     { return "cya_cells" }
func (cyaCells) FullName() string { return "Cyanobacteria Density (CYA)" }
func (cyaCells) Units() string    { return "1e6 cells / mL" }

func (cyaCells) TypicalRange() (float64, float64, int) { return 0.1, 300.0, 20 }

func (cyaCells) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (cyaCells) RequiredAssets() []string { return withMaskBands(BandBlue, BandGreen, BandRed) }

func (cyaCells) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandBlue, BandGreen, BandRed}, func(vals ...float64) float64 {
		blue, green, red := vals[0], vals[1], vals[2]
		return 115530.31 * math.Pow(green*red/(blue+EPS), 2.38)
	})
}

// cyaMg is Cyanobacteria density in mg/m3 (Soria-Perpinya et al. 2021),
// typical range 0.13 - 1000.
type cyaMg struct{}

func (cyaMg) Name() string     { return "cya_mg" }
func (cyaMg) FullName() string { return "Cyanobacteria Density (CYA)" }
func (cyaMg) Units() string    { return "mg / m3" }

func (cyaMg) TypicalRange() (float64, float64, int) { return 0.13, 1000, 20 }

func (cyaMg) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (cyaMg) RequiredAssets() []string { return withMaskBands(BandRed, BandRedEdge1) }

func (cyaMg) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandRed, BandRedEdge1}, func(vals ...float64) float64 {
		red, redEdge := vals[0], vals[1]
		return 21.554 * math.Pow(redEdge/(red+EPS), 3.4791)
	})
}

// chlACoastal is NDCI-based Chlorophyll-a for coastal areas in mg/m3
// (Mishra et al. 2012), typical range 0.9 - 28.1.
type chlACoastal struct{}

func (chlACoastal) Name() string     { return "chl_a_coastal" }
func (chlACoastal) FullName() string { return "Chlorophyll A (for coastal regions) (ChlA)" }
func (chlACoastal) Units() string    { return "mg / m3" }

func (chlACoastal) TypicalRange() (float64, float64, int) { return 0.9, 28.1, 20 }

func (chlACoastal) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (chlACoastal) RequiredAssets() []string { return withMaskBands(BandRed, BandRedEdge1) }

func (chlACoastal) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandRed, BandRedEdge1}, func(vals ...float64) float64 {
		red, redEdge := vals[0], vals[1]
		v := 14.039 +
			86.11*(redEdge-red)/((red+redEdge)+EPS) +
			194.325*(redEdge-red)/((redEdge+red)*(redEdge+red)+EPS)
		return math.Max(v, 0)
	})
}

// chlALow is Chlorophyll-a for low concentrations (< 5 mg/m3)
// (Soria-Perpinya et al. 2021), typical range 0.53 - 4.92.
type chlALow struct{}

func (chlALow) Name() string     { return "chl_a_low" }
func (chlALow) FullName() string { return "Chlorophyll A (for low values) (ChlA)" }
func (chlALow) Units() string    { return "mg / m3" }

func (chlALow) TypicalRange() (float64, float64, int) { return 0.53, 4.92, 20 }

func (chlALow) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (chlALow) RequiredAssets() []string { return withMaskBands(BandBlue, BandGreen) }

func (chlALow) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandBlue, BandGreen}, func(vals ...float64) float64 {
		blue, green := vals[0], vals[1]
		return math.Exp(-2.4792*math.Log10(math.Max(green, blue)/(green+EPS)) - 0.0389)
	})
}

// chlAHigh is Chlorophyll-a for high concentrations (> 5 mg/m3)
// (Soria-Perpinya et al. 2021), typical range 5.16 - 674.7.
type chlAHigh struct{}

func (chlAHigh) Name() string     { return "chl_a_high" }
func (chlAHigh) FullName() string { return "Chlorophyll A (for high values) (ChlA)" }
func (chlAHigh) Units() string    { return "mg / m3" }

func (chlAHigh) TypicalRange() (float64, float64, int) { return 5.16, 674.7, 20 }

func (chlAHigh) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (chlAHigh) RequiredAssets() []string { return withMaskBands(BandRed, BandRedEdge1) }

func (chlAHigh) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandRed, BandRedEdge1}, func(vals ...float64) float64 {
		red, redEdge := vals[0], vals[1]
		return 19.866 * math.Pow(redEdge/(red+EPS), 2.3051)
	})
}

// turbidity is water turbidity in NTU (Zhan et al. 2022), typical range
// 15 - 1000.
type turbidity struct{}

func (turbidity) Name() string     { return "turb" }
func (turbidity) FullName() string { return "Turbidity (TURB)" }
func (turbidity) Units() string    { return "NTU" }

func (turbidity) TypicalRange() (float64, float64, int) { return 15, 1000, 20 }

func (turbidity) Colormap() Colormap { return Colormap{MPL: "jet", JS: "jet"} }

func (turbidity) RequiredAssets() []string { return withMaskBands(BandBlue, BandRedEdge1) }

func (turbidity) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	return computeMasked(bands, rescale, []string{BandBlue, BandRedEdge1}, func(vals ...float64) float64 {
		blue, redEdge := vals[0], vals[1]
		return 194.79*(redEdge*(redEdge/(blue+EPS))) + 0.9061
	})
}
