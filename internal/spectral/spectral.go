// Package spectral implements the spectral index calculators: the
// vegetation set exposed by the raster calculator and the water-quality
// set. Each calculator declares which catalogue assets it needs and how
// its output should be rendered and described in STAC metadata.
package spectral

import (
	"fmt"
	"sort"
	"time"

	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

// EPS guards denominators in the index formulas.
const EPS = 1e-7

// Band asset keys as served by EarthSearch-style Sentinel-2 collections.
const (
	BandBlue     = "blue"
	BandGreen    = "green"
	BandRed      = "red"
	BandRedEdge1 = "rededge1"
	BandNIR      = "nir"
	BandSWIR16   = "swir16"
	BandSCL      = "scl"
)

// Bands maps asset keys to staged band grids.
type Bands map[string]*raster.Grid

// Rescale converts digital numbers to reflectance.
type Rescale struct {
	Scale  float64
	Offset float64
}

// sentinel2Baseline is the processing-baseline change date after which
// Sentinel-2 L2A digital numbers carry a -0.1 offset.
var sentinel2Baseline = time.Date(2022, time.January, 25, 0, 0, 0, 0, time.UTC)

// RescaleFor resolves the reflectance rescaling for an item. EarthSearch
// collections other than sentinel-2-l2a already encode rescaling in their
// STAC metadata, so they pass through unscaled.
func RescaleFor(collection string, acquired time.Time) Rescale {
	if collection != "sentinel-2-l2a" {
		return Rescale{Scale: 1, Offset: 0}
	}
	if acquired.After(sentinel2Baseline) {
		return Rescale{Scale: 1e-4, Offset: -0.1}
	}
	return Rescale{Scale: 1e-4, Offset: 0}
}

// Colormap describes how an index should be rendered: the matplotlib ramp
// the thumbnails use and the JS colormap name the platform frontend maps it
// to.
type Colormap struct {
	MPL        string
	JS         string
	MPLReverse bool
	JSReverse  bool
}

// Calculator computes one index from staged bands.
type Calculator interface {
	// Name is the short lower-case identifier used in CLI flags,
	// asset IDs and the registry.
	Name() string
	FullName() string
	Units() string
	// TypicalRange is the expected value range and the number of
	// legend intervals.
	TypicalRange() (vmin, vmax float64, intervals int)
	Colormap() Colormap
	// RequiredAssets lists the band asset keys the calculator reads.
	RequiredAssets() []string
	// Compute evaluates the index. Implementations apply the rescale to
	// the reflectance bands they use; mask inputs stay unscaled.
	Compute(bands Bands, rescale Rescale) (*raster.Grid, error)
}

var registry = map[string]Calculator{}

func register(c Calculator) {
	registry[c.Name()] = c
}

// ByName looks up a calculator by its short name.
func ByName(name string) (Calculator, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered calculator names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssetExtraFields builds the extension fields attached to an index data
// asset: the colormap block, statistics and raster band description.
func AssetExtraFields(c Calculator, grid *raster.Grid) map[string]any {
	vmin, vmax, intervals := c.TypicalRange()
	cmap := c.Colormap()

	transform := make([]float64, len(grid.Transform))
	copy(transform, grid.Transform[:])

	return map[string]any{
		"colormap": map[string]any{
			"name":                cmap.JS,
			"reversed":            cmap.JSReverse,
			"min":                 vmin,
			"max":                 vmax,
			"steps":               intervals,
			"units":               c.Units(),
			"mpl_equivalent_cmap": cmap.MPL,
		},
		"statistics": grid.Statistics(),
		"raster:bands": []map[string]any{
			{"nodata": "nan", "unit": c.Units()},
		},
		"proj:shape":     []int{grid.Height, grid.Width},
		"proj:transform": transform,
		"proj:epsg":      grid.EPSG,
	}
}

// bandOrErr fetches a required band from the staged set.
func bandOrErr(bands Bands, key string) (*raster.Grid, error) {
	grid, ok := bands[key]
	if !ok || grid == nil {
		return nil, fmt.Errorf("spectral: missing required band %q", key)
	}
	return grid, nil
}

// rescaled returns a rescaled copy of a band.
func rescaled(grid *raster.Grid, r Rescale) *raster.Grid {
	out := grid.Like()
	copy(out.Data, grid.Data)
	return out.Rescale(r.Scale, r.Offset)
}
