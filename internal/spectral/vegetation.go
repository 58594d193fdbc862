package spectral

import (
	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

func init() {
	register(ndvi{})
	register(ndwi{})
	register(savi{})
	register(evi{})
}

// normalizedDifference computes (a-b)/(a+b) cell-wise.
func normalizedDifference(a, b *raster.Grid) (*raster.Grid, error) {
	return raster.Combine(func(vals ...float64) float64 {
		return (vals[0] - vals[1]) / (vals[0] + vals[1] + EPS)
	}, a, b)
}

type ndvi struct{}

func (ndvi) Name() string     { return "ndvi" }
func (ndvi) FullName() string { return "Normalized Difference Vegetation Index (NDVI)" }
func (ndvi) Units() string    { return "NDVI" }

func (ndvi) TypicalRange() (float64, float64, int) { return -1.0, 1.0, 20 }

func (ndvi) Colormap() Colormap {
	return Colormap{MPL: "YlGn", JS: "velocity-green", JSReverse: true}
}

func (ndvi) RequiredAssets() []string { return []string{BandRed, BandNIR} }

func (ndvi) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	red, err := bandOrErr(bands, BandRed)
	if err != nil {
		return nil, err
	}
	nir, err := bandOrErr(bands, BandNIR)
	if err != nil {
		return nil, err
	}
	return normalizedDifference(rescaled(nir, rescale), rescaled(red, rescale))
}

type ndwi struct{}

func (ndwi) Name() string     { return "ndwi" }
func (ndwi) FullName() string { return "Normalized Difference Water Index (NDWI)" }
func (ndwi) Units() string    { return "NDWI" }

func (ndwi) TypicalRange() (float64, float64, int) { return -1.0, 1.0, 20 }

func (ndwi) Colormap() Colormap {
	return Colormap{MPL: "RdBu", JS: "RdBu"}
}

func (ndwi) RequiredAssets() []string { return []string{BandGreen, BandNIR} }

func (ndwi) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	green, err := bandOrErr(bands, BandGreen)
	if err != nil {
		return nil, err
	}
	nir, err := bandOrErr(bands, BandNIR)
	if err != nil {
		return nil, err
	}
	return normalizedDifference(rescaled(green, rescale), rescaled(nir, rescale))
}

type savi struct{}

func (savi) Name() string     { return "savi" }
func (savi) FullName() string { return "Soil Adjusted Vegetation Index (SAVI)" }
func (savi) Units() string    { return "SAVI" }

func (savi) TypicalRange() (float64, float64, int) { return -1.0, 1.0, 20 }

func (savi) Colormap() Colormap {
	return Colormap{MPL: "YlGn", JS: "velocity-green", JSReverse: true}
}

func (savi) RequiredAssets() []string { return []string{BandRed, BandNIR} }

func (savi) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	red, err := bandOrErr(bands, BandRed)
	if err != nil {
		return nil, err
	}
	nir, err := bandOrErr(bands, BandNIR)
	if err != nil {
		return nil, err
	}
	// Soil-brightness correction factor L=0.5.
	const soilFactor = 0.5
	return raster.Combine(func(vals ...float64) float64 {
		nirV, redV := vals[0], vals[1]
		return (1 + soilFactor) * (nirV - redV) / (nirV + redV + soilFactor + EPS)
	}, rescaled(nir, rescale), rescaled(red, rescale))
}

type evi struct{}

func (evi) Name() string     { return "evi" }
func (evi) FullName() string { return "Enhanced Vegetation Index (EVI)" }
func (evi) Units() string    { return "EVI" }

func (evi) TypicalRange() (float64, float64, int) { return -1.0, 1.0, 20 }

func (evi) Colormap() Colormap {
	return Colormap{MPL: "YlGn", JS: "velocity-green", JSReverse: true}
}

func (evi) RequiredAssets() []string { return []string{BandBlue, BandRed, BandNIR} }

func (evi) Compute(bands Bands, rescale Rescale) (*raster.Grid, error) {
	blue, err := bandOrErr(bands, BandBlue)
	if err != nil {
		return nil, err
	}
	red, err := bandOrErr(bands, BandRed)
	if err != nil {
		return nil, err
	}
	nir, err := bandOrErr(bands, BandNIR)
	if err != nil {
		return nil, err
	}
	return raster.Combine(func(vals ...float64) float64 {
		nirV, redV, blueV := vals[0], vals[1], vals[2]
		return 2.5 * (nirV - redV) / (nirV + 6*redV - 7.5*blueV + 1 + EPS)
	}, rescaled(nir, rescale), rescaled(red, rescale), rescaled(blue, rescale))
}
