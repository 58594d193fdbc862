package lulc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eo-datahub/eodh-workflows/pkg/raster"
	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

func TestSourceByName(t *testing.T) {
	src, err := SourceByName(SourceCorineLC)
	require.NoError(t, err)
	assert.True(t, src.SentinelHub())
	assert.Equal(t, SentinelHubCatalogEndpoint, src.Catalog)

	src, err = SourceByName(SourceESACCIGlobalLC)
	require.NoError(t, err)
	assert.False(t, src.SentinelHub())
	assert.Equal(t, "land_cover", src.Collection)

	_, err = SourceByName("modis")
	assert.ErrorContains(t, err, "unsupported data source")
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, []string{SourceESACCIGlobalLC, SourceCorineLC, SourceWaterBodies}, SourceNames())
}

func TestClassesForItem_CEDA(t *testing.T) {
	src, _ := SourceByName(SourceESACCIGlobalLC)
	item := &stac.Item{
		Id: "esacci-2020",
		Assets: map[string]*stac.Asset{
			"GeoTIFF": {
				Href: "https://data.ceda.ac.uk/lc.tif",
				AdditionalFields: map[string]any{
					"classification:classes": []any{
						map[string]any{"value": float64(10), "description": "Cropland", "color-hint": "ffff64"},
						map[string]any{"value": float64(210), "description": "Water bodies", "color-hint": "0046c8"},
					},
				},
			},
		},
	}

	classes, err := ClassesForItem(src, item)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, Class{Value: 10, Description: "Cropland", ColorHint: "ffff64"}, classes[0])
	assert.Equal(t, Class{Value: 210, Description: "Water bodies", ColorHint: "0046c8"}, classes[1])
}

func TestClassesForItem_CEDAMissingAsset(t *testing.T) {
	src, _ := SourceByName(SourceESACCIGlobalLC)
	item := &stac.Item{Id: "esacci-2020", Assets: map[string]*stac.Asset{}}

	_, err := ClassesForItem(src, item)
	assert.ErrorContains(t, err, "GeoTIFF")
}

func TestClassesForItem_CEDAMissingClasses(t *testing.T) {
	src, _ := SourceByName(SourceESACCIGlobalLC)
	item := &stac.Item{
		Id:     "esacci-2020",
		Assets: map[string]*stac.Asset{"GeoTIFF": {Href: "https://data.ceda.ac.uk/lc.tif"}},
	}

	_, err := ClassesForItem(src, item)
	assert.ErrorContains(t, err, "classification:classes")
}

func TestClassesForItem_Corine(t *testing.T) {
	src, _ := SourceByName(SourceCorineLC)
	classes, err := ClassesForItem(src, nil)
	require.NoError(t, err)
	assert.Len(t, classes, 45)
	assert.Equal(t, "Continuous urban fabric", classes[0].Description)
	assert.Equal(t, 48, classes[44].Value)
}

func TestClassesForItem_WaterBodies(t *testing.T) {
	src, _ := SourceByName(SourceWaterBodies)
	classes, err := ClassesForItem(src, nil)
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, "Water", classes[1].Description)
}

func TestUniqueValues(t *testing.T) {
	classes := []Class{{Value: 5}, {Value: 1}, {Value: 5}, {Value: 3}}
	assert.Equal(t, []int{1, 3, 5}, UniqueValues(classes))
}

func TestColorMapping(t *testing.T) {
	m := ColorMapping(WaterBodiesClasses)
	assert.Equal(t, map[int]string{0: "ffffff", 1: "0064c8", 255: "000000"}, m)
}

func TestClassesField(t *testing.T) {
	field := ClassesField([]Class{{Value: 1, Description: "Water", ColorHint: "0064c8"}})
	require.Len(t, field, 1)
	assert.Equal(t, map[string]any{
		"value":       1,
		"description": "Water",
		"color-hint":  "0064c8",
	}, field[0])
}

func TestClassShares(t *testing.T) {
	grid := raster.NewGrid(4, 1, [6]float64{}, 4326)
	grid.Data = []float64{1, 1, 0, math.NaN()}

	shares := ClassShares(grid, []int{0, 1, 255})

	assert.InDelta(t, 50.0, shares["1"], 1e-9)
	assert.InDelta(t, 25.0, shares["0"], 1e-9)
	// Classes absent from the raster are reported with a zero share.
	assert.Equal(t, 0.0, shares["255"])
	assert.Len(t, shares, 3)
}

func TestClassAreas(t *testing.T) {
	areas := ClassAreas(map[string]float64{"1": 50, "0": 25, "255": 0}, 1000)

	assert.InDelta(t, 500.0, areas["1"], 1e-9)
	assert.InDelta(t, 250.0, areas["0"], 1e-9)
	assert.Equal(t, 0.0, areas["255"])
}
