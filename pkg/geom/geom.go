// Package geom handles Area-of-Interest geometries. AOIs arrive as GeoJSON
// polygon strings in EPSG:4326 and are used for catalogue intersection
// queries, raster clipping and area accounting.
package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrNotPolygon is returned when the provided GeoJSON geometry is not
	// a polygon.
	ErrNotPolygon = errors.New("geom: provided GeoJSON is not a polygon")
	// ErrInvalidPolygon is returned for degenerate or unclosed rings.
	ErrInvalidPolygon = errors.New("geom: the provided polygon is not valid")
)

// ParseAOI decodes a GeoJSON polygon string.
func ParseAOI(raw string) (orb.Polygon, error) {
	g, err := geojson.UnmarshalGeometry([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("geom: decoding AOI: %w", err)
	}
	polygon, ok := g.Geometry().(orb.Polygon)
	if !ok {
		return nil, ErrNotPolygon
	}
	if err := validate(polygon); err != nil {
		return nil, err
	}
	return polygon, nil
}

func validate(polygon orb.Polygon) error {
	if len(polygon) == 0 {
		return ErrInvalidPolygon
	}
	for _, ring := range polygon {
		if len(ring) < 4 {
			return ErrInvalidPolygon
		}
		if !ring.Closed() {
			return ErrInvalidPolygon
		}
	}
	return nil
}

// Bounds returns the AOI bounding box as [minx, miny, maxx, maxy].
func Bounds(polygon orb.Polygon) [4]float64 {
	b := polygon.Bound()
	return [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}

// GeodesicArea returns the polygon area in square meters on the WGS84
// spheroid. The result is always positive regardless of ring winding.
func GeodesicArea(polygon orb.Polygon) float64 {
	area := geo.Area(polygon)
	if area < 0 {
		area = -area
	}
	return area
}

// BoxPolygon builds a closed polygon from a [minx, miny, maxx, maxy] box.
func BoxPolygon(bounds [4]float64) orb.Polygon {
	minX, minY, maxX, maxY := bounds[0], bounds[1], bounds[2], bounds[3]
	return orb.Polygon{orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}}
}

// GeoJSON returns the polygon as a decoded GeoJSON geometry object,
// suitable for embedding in STAC item geometry or search payloads.
func GeoJSON(polygon orb.Polygon) map[string]any {
	data, err := json.Marshal(geojson.NewGeometry(polygon))
	if err != nil {
		// orb geometries always marshal; this is unreachable in practice.
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
