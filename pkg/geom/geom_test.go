package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitSquare = `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`

func TestParseAOI(t *testing.T) {
	polygon, err := ParseAOI(unitSquare)
	require.NoError(t, err)
	require.Len(t, polygon, 1)
	assert.Len(t, polygon[0], 5)
	assert.True(t, polygon[0].Closed())
}

func TestParseAOI_NotJSON(t *testing.T) {
	_, err := ParseAOI("POLYGON((0 0, 1 0, 1 1, 0 0))")
	assert.Error(t, err)
}

func TestParseAOI_NotPolygon(t *testing.T) {
	_, err := ParseAOI(`{"type":"Point","coordinates":[14.5,53.0]}`)
	assert.ErrorIs(t, err, ErrNotPolygon)
}

func TestParseAOI_UnclosedRing(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}`
	_, err := ParseAOI(raw)
	assert.ErrorIs(t, err, ErrInvalidPolygon)
}

func TestParseAOI_EmptyPolygon(t *testing.T) {
	_, err := ParseAOI(`{"type":"Polygon","coordinates":[]}`)
	assert.ErrorIs(t, err, ErrInvalidPolygon)
}

func TestBounds(t *testing.T) {
	polygon, err := ParseAOI(`{"type":"Polygon","coordinates":[[[14.2,52.9],[14.9,52.9],[14.9,53.4],[14.2,53.4],[14.2,52.9]]]}`)
	require.NoError(t, err)

	bounds := Bounds(polygon)
	assert.Equal(t, [4]float64{14.2, 52.9, 14.9, 53.4}, bounds)
}

func TestGeodesicArea(t *testing.T) {
	polygon, err := ParseAOI(unitSquare)
	require.NoError(t, err)

	area := GeodesicArea(polygon)
	// One square degree at the equator is roughly 12.4e9 m2.
	assert.InDelta(t, 12.4e9, area, 0.2e9)

	// Reversed winding must not flip the sign.
	reversed := orb.Polygon{orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}}
	assert.InDelta(t, area, GeodesicArea(reversed), 1.0)
}

func TestBoxPolygon(t *testing.T) {
	polygon := BoxPolygon([4]float64{14.2, 52.9, 14.9, 53.4})
	require.Len(t, polygon, 1)
	assert.True(t, polygon[0].Closed())
	assert.Equal(t, [4]float64{14.2, 52.9, 14.9, 53.4}, Bounds(polygon))
}

func TestGeoJSON(t *testing.T) {
	polygon := BoxPolygon([4]float64{0, 0, 1, 1})
	out := GeoJSON(polygon)
	require.NotNil(t, out)
	assert.Equal(t, "Polygon", out["type"])

	coords, ok := out["coordinates"].([]any)
	require.True(t, ok)
	require.Len(t, coords, 1)
	ring, ok := coords[0].([]any)
	require.True(t, ok)
	assert.Len(t, ring, 5)
}
