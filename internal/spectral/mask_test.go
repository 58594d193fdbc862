package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

func gridOf(width, height int, values []float64) *raster.Grid {
	grid := raster.NewGrid(width, height, [6]float64{}, 4326)
	copy(grid.Data, values)
	return grid
}

func TestWaterMask_SCL(t *testing.T) {
	scl := gridOf(3, 1, []float64{4, 6, 0})

	mask, err := WaterMask(Bands{BandSCL: scl})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, mask)
}

func TestWaterMask_SpectralFallback(t *testing.T) {
	const w, h = 8, 8
	water := make([]float64, w*h)
	land := make([]float64, w*h)
	for i := range water {
		water[i] = 0.5
		land[i] = 0.1
	}

	// Uniform open water: (blue+green)/(nir+swir) = 1.0/0.2 well over the
	// threshold everywhere, so the morphology keeps the interior set.
	bands := Bands{
		BandBlue:   gridOf(w, h, water),
		BandGreen:  gridOf(w, h, water),
		BandNIR:    gridOf(w, h, land),
		BandSWIR16: gridOf(w, h, land),
	}

	mask, err := WaterMask(bands)
	require.NoError(t, err)

	// The final erosion trims cells whose footprint leaves the grid; the
	// interior stays water.
	assert.True(t, mask[3*w+3])
	assert.True(t, mask[4*w+4])
	assert.False(t, mask[0])
}

func TestWaterMask_SpectralAllLand(t *testing.T) {
	const w, h = 4, 4
	bright := make([]float64, w*h)
	dark := make([]float64, w*h)
	for i := range bright {
		bright[i] = 0.4
		dark[i] = 0.1
	}

	bands := Bands{
		BandBlue:   gridOf(w, h, dark),
		BandGreen:  gridOf(w, h, dark),
		BandNIR:    gridOf(w, h, bright),
		BandSWIR16: gridOf(w, h, bright),
	}

	mask, err := WaterMask(bands)
	require.NoError(t, err)
	for i, set := range mask {
		assert.False(t, set, i)
	}
}

func TestWaterMask_MissingBands(t *testing.T) {
	_, err := WaterMask(Bands{BandBlue: gridOf(1, 1, []float64{0.1})})
	assert.ErrorContains(t, err, "green")
}

func TestMorphology(t *testing.T) {
	// Single set cell in a 5x5 grid.
	mask := make([]bool, 25)
	mask[2*5+2] = true

	dilated := dilate(mask, 5, 5, 3, 3)
	count := 0
	for _, set := range dilated {
		if set {
			count++
		}
	}
	assert.Equal(t, 9, count)

	// Erosion of the dilation with the same footprint recovers the speck.
	restored := erode(dilated, 5, 5, 3, 3)
	assert.Equal(t, mask, restored)

	// Eroding the lone speck wipes it out.
	for i, set := range erode(mask, 5, 5, 3, 3) {
		assert.False(t, set, i)
	}
}
