package lulc

import (
	"math"
	"strconv"

	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

// ClassShares computes the percentage of pixels in each class. Classes
// from the nomenclature that never occur in the raster are reported
// with a zero share so every item exposes the same set of keys.
func ClassShares(grid *raster.Grid, uniqueValues []int) map[string]float64 {
	counts := make(map[int]int)
	total := len(grid.Data)
	for _, v := range grid.Data {
		if math.IsNaN(v) {
			continue
		}
		counts[int(v)]++
	}

	shares := make(map[string]float64, len(uniqueValues))
	for value, count := range counts {
		shares[strconv.Itoa(value)] = float64(count) / float64(total) * 100
	}
	for _, value := range uniqueValues {
		key := strconv.Itoa(value)
		if _, ok := shares[key]; !ok {
			shares[key] = 0
		}
	}
	return shares
}

// ClassAreas converts percentage shares into square metres of the full
// raster footprint.
func ClassAreas(shares map[string]float64, fullAreaM2 float64) map[string]float64 {
	areas := make(map[string]float64, len(shares))
	for key, share := range shares {
		areas[key] = share / 100 * fullAreaM2
	}
	return areas
}
