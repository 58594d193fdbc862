package spectral

import (
	"math"

	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

// sclWaterClass is the Sentinel-2 scene-classification value for water.
const sclWaterClass = 6

// swmThreshold is the spectral water mask cutoff on (blue+green)/(nir+swir16).
const swmThreshold = 0.9

// WaterMask derives a per-cell water mask from the staged bands. The SCL
// scene classification is used when present; otherwise the mask falls back
// to the spectral water index over unscaled bands, cleaned up with a
// binary closing and an erosion to drop speckle and shoreline pixels.
func WaterMask(bands Bands) ([]bool, error) {
	if scl, ok := bands[BandSCL]; ok && scl != nil {
		mask := make([]bool, len(scl.Data))
		for i, v := range scl.Data {
			mask[i] = v == sclWaterClass
		}
		return mask, nil
	}

	blue, err := bandOrErr(bands, BandBlue)
	if err != nil {
		return nil, err
	}
	green, err := bandOrErr(bands, BandGreen)
	if err != nil {
		return nil, err
	}
	nir, err := bandOrErr(bands, BandNIR)
	if err != nil {
		return nil, err
	}
	swir, err := bandOrErr(bands, BandSWIR16)
	if err != nil {
		return nil, err
	}

	swm, err := raster.Combine(func(vals ...float64) float64 {
		return (vals[0] + vals[1]) / (vals[2] + vals[3] + EPS)
	}, blue, green, nir, swir)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, len(swm.Data))
	for i, v := range swm.Data {
		mask[i] = !math.IsNaN(v) && v >= swmThreshold
	}

	mask = closing(mask, swm.Width, swm.Height, 5, 5)
	return erode(mask, swm.Width, swm.Height, 2, 2), nil
}

// closing is a dilation followed by an erosion with a rectangular footprint.
func closing(mask []bool, width, height, fw, fh int) []bool {
	return erode(dilate(mask, width, height, fw, fh), width, height, fw, fh)
}

func dilate(mask []bool, width, height, fw, fh int) []bool {
	return sweep(mask, width, height, fw, fh, func(anySet bool, allSet bool) bool { return anySet })
}

func erode(mask []bool, width, height, fw, fh int) []bool {
	return sweep(mask, width, height, fw, fh, func(anySet bool, allSet bool) bool { return allSet })
}

// sweep runs a rectangular structuring element over the mask. Cells
// outside the grid count as unset.
func sweep(mask []bool, width, height, fw, fh int, pick func(anySet, allSet bool) bool) []bool {
	out := make([]bool, len(mask))
	halfW, halfH := fw/2, fh/2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			anySet, allSet := false, true
			for dy := -halfH; dy <= fh-halfH-1; dy++ {
				for dx := -halfW; dx <= fw-halfW-1; dx++ {
					nx, ny := x+dx, y+dy
					set := nx >= 0 && nx < width && ny >= 0 && ny < height && mask[ny*width+nx]
					anySet = anySet || set
					allSet = allSet && set
				}
			}
			out[y*width+x] = pick(anySet, allSet)
		}
	}
	return out
}
