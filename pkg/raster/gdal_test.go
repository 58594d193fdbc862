package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEPSGFromWKT(t *testing.T) {
	wkt1 := `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],AUTHORITY["EPSG","4326"]]`
	assert.Equal(t, 4326, epsgFromWKT(wkt1))

	// WKT2 uses ID[...] and the dataset code comes last.
	wkt2 := `PROJCRS["WGS 84 / UTM zone 33N",BASEGEOGCRS["WGS 84",ID["EPSG",4326]],ID["EPSG",32633]]`
	assert.Equal(t, 32633, epsgFromWKT(wkt2))

	assert.Equal(t, 0, epsgFromWKT(""))
	assert.Equal(t, 0, epsgFromWKT(`LOCAL_CS["arbitrary"]`))
}
