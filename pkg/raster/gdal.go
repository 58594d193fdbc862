package raster

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/airbusgeo/godal"
)

// Register loads the GDAL drivers. Call once at process start.
func Register() {
	godal.RegisterAll()
}

// ReadGrid loads one band (1-based) of a GeoTIFF into memory, mapping the
// band's nodata value to NaN.
func ReadGrid(path string, band int) (*Grid, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: opening %s: %w", path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	if band < 1 || band > structure.NBands {
		return nil, fmt.Errorf("raster: %s has no band %d", path, band)
	}

	transform, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("raster: reading geotransform of %s: %w", path, err)
	}

	grid := NewGrid(structure.SizeX, structure.SizeY, transform, epsgFromWKT(ds.Projection()))
	b := ds.Bands()[band-1]
	if err := b.Read(0, 0, grid.Data, structure.SizeX, structure.SizeY); err != nil {
		return nil, fmt.Errorf("raster: reading band %d of %s: %w", band, path, err)
	}

	if nodata, ok := b.NoData(); ok {
		for i, v := range grid.Data {
			if v == nodata {
				grid.Data[i] = math.NaN()
			}
		}
	}
	return grid, nil
}

// WriteCOG persists the grid as a tiled, deflate-compressed GeoTIFF with
// NaN recorded as the nodata value.
func WriteCOG(grid *Grid, path string) error {
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float64, grid.Width, grid.Height,
		godal.CreationOption("TILED=YES", "COMPRESS=DEFLATE"))
	if err != nil {
		return fmt.Errorf("raster: creating %s: %w", path, err)
	}

	if err := ds.SetGeoTransform(grid.Transform); err != nil {
		ds.Close()
		return fmt.Errorf("raster: setting geotransform on %s: %w", path, err)
	}
	if grid.EPSG != 0 {
		sr, err := godal.NewSpatialRefFromEPSG(grid.EPSG)
		if err != nil {
			ds.Close()
			return fmt.Errorf("raster: building EPSG:%d reference: %w", grid.EPSG, err)
		}
		defer sr.Close()
		if err := ds.SetSpatialRef(sr); err != nil {
			ds.Close()
			return fmt.Errorf("raster: setting projection on %s: %w", path, err)
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(math.NaN()); err != nil {
		ds.Close()
		return fmt.Errorf("raster: setting nodata on %s: %w", path, err)
	}
	if err := band.Write(0, 0, grid.Data, grid.Width, grid.Height); err != nil {
		ds.Close()
		return fmt.Errorf("raster: writing %s: %w", path, err)
	}
	return ds.Close()
}

// Clip crops src to bounds given in EPSG:4326 and writes the result to dst.
func Clip(src, dst string, bounds [4]float64) error {
	ds, err := godal.Open(src)
	if err != nil {
		return fmt.Errorf("raster: opening %s: %w", src, err)
	}
	defer ds.Close()

	clipped, err := ds.Warp(dst, []string{
		"-of", "GTiff",
		"-te", formatFloat(bounds[0]), formatFloat(bounds[1]), formatFloat(bounds[2]), formatFloat(bounds[3]),
		"-te_srs", "EPSG:4326",
		"-co", "TILED=YES",
		"-co", "COMPRESS=DEFLATE",
	})
	if err != nil {
		return fmt.Errorf("raster: clipping %s: %w", src, err)
	}
	return clipped.Close()
}

// Reproject warps src into the target EPSG and writes the result to dst.
func Reproject(src, dst string, epsg int) error {
	ds, err := godal.Open(src)
	if err != nil {
		return fmt.Errorf("raster: opening %s: %w", src, err)
	}
	defer ds.Close()

	warped, err := ds.Warp(dst, []string{
		"-of", "GTiff",
		"-t_srs", fmt.Sprintf("EPSG:%d", epsg),
		"-co", "TILED=YES",
		"-co", "COMPRESS=DEFLATE",
	})
	if err != nil {
		return fmt.Errorf("raster: reprojecting %s: %w", src, err)
	}
	return warped.Close()
}

var wktAuthority = regexp.MustCompile(`(?:AUTHORITY|ID)\[\"?EPSG\"?,\"?(\d+)\"?\]`)

// epsgFromWKT pulls the last EPSG authority code out of a WKT projection
// string; 0 when none is present.
func epsgFromWKT(wkt string) int {
	matches := wktAuthority.FindAllStringSubmatch(wkt, -1)
	if len(matches) == 0 {
		return 0
	}
	code, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0
	}
	return code
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
