// Package workflow implements the processing pipelines behind the CLI
// commands: spectral index calculation, water quality analysis, land
// cover change summaries and local catalogue manipulation.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	gostac "github.com/planetlabs/go-stac"

	"github.com/eo-datahub/eodh-workflows/internal/lulc"
	"github.com/eo-datahub/eodh-workflows/internal/spectral"
	"github.com/eo-datahub/eodh-workflows/pkg/client"
	"github.com/eo-datahub/eodh-workflows/pkg/downloader"
	"github.com/eo-datahub/eodh-workflows/pkg/geom"
	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

// FetchFunc stages a single asset href to a local path.
type FetchFunc func(ctx context.Context, href, destPath string) error

// Deps carries the external services a pipeline talks to.
type Deps struct {
	// Catalog searches the resource catalogue items are read from.
	Catalog *client.Client
	// Process renders Sentinel-Hub hosted collections; only the land
	// cover pipelines need it.
	Process *lulc.ProcessClient
	// Fetch stages assets; defaults to downloader.Fetch.
	Fetch FetchFunc
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d Deps) fetch(ctx context.Context, href, destPath string) error {
	if d.Fetch != nil {
		return d.Fetch(ctx, href, destPath)
	}
	return downloader.Fetch(ctx, href, destPath)
}

// searchSorted queries the catalogue with a CQL2 intersects/datetime
// filter and returns up to limit items ordered by acquisition time.
func searchSorted(ctx context.Context, deps Deps, collection string, aoi orb.Polygon, dateStart, dateEnd string, limit int) ([]*gostac.Item, error) {
	exprs := []client.Expr{
		client.SIntersects("geometry", geom.GeoJSON(aoi)),
	}
	if dateStart != "" {
		exprs = append(exprs, client.Gte("datetime", dateStart))
	}
	if dateEnd != "" {
		exprs = append(exprs, client.Lte("datetime", dateEnd))
	}

	params := client.SearchParams{
		Collections: []string{collection},
		Filter:      client.And(exprs...),
		Limit:       100,
	}
	items, err := client.CollectItems(deps.Catalog.Search(ctx, params))
	if err != nil {
		return nil, fmt.Errorf("searching collection %q: %w", collection, err)
	}

	sortItemsByDatetime(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func itemDatetime(item *gostac.Item) (time.Time, error) {
	raw, ok := item.Properties["datetime"].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("item %q has no datetime property", item.Id)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("item %q has malformed datetime: %w", item.Id, err)
	}
	return t, nil
}

// stageBands downloads the named band assets of an item into workDir
// and loads them as grids. When clipBounds is non-nil each raster is
// cropped to it before loading.
func stageBands(ctx context.Context, deps Deps, item *gostac.Item, keys []string, workDir string, clipBounds *[4]float64) (spectral.Bands, error) {
	bands := make(spectral.Bands, len(keys))
	for _, key := range keys {
		asset, ok := item.Assets[key]
		if !ok || asset.Href == "" {
			return nil, fmt.Errorf("item %q has no %q asset", item.Id, key)
		}

		destPath := filepath.Join(workDir, fmt.Sprintf("%s_%s.tif", item.Id, key))
		if err := deps.fetch(ctx, asset.Href, destPath); err != nil {
			return nil, fmt.Errorf("staging %q of item %q: %w", key, item.Id, err)
		}

		gridPath := destPath
		if clipBounds != nil {
			clipped := filepath.Join(workDir, fmt.Sprintf("%s_%s_clip.tif", item.Id, key))
			if err := raster.Clip(destPath, clipped, *clipBounds); err != nil {
				return nil, fmt.Errorf("clipping %q of item %q: %w", key, item.Id, err)
			}
			gridPath = clipped
		}

		grid, err := raster.ReadGrid(gridPath, 1)
		if err != nil {
			return nil, fmt.Errorf("reading %q of item %q: %w", key, item.Id, err)
		}
		bands[key] = grid
	}
	return bands, nil
}

// writeWGS84COG persists a grid as a COG in EPSG:4326, reprojecting
// first when the grid is in another CRS. The returned grid reflects the
// written file.
func writeWGS84COG(grid *raster.Grid, path string) (*raster.Grid, error) {
	if grid.EPSG == 4326 || grid.EPSG == 0 {
		grid.EPSG = 4326
		if err := raster.WriteCOG(grid, path); err != nil {
			return nil, err
		}
		return grid, nil
	}

	tmp := path + ".native.tif"
	if err := raster.WriteCOG(grid, tmp); err != nil {
		return nil, err
	}
	defer os.Remove(tmp)
	if err := raster.Reproject(tmp, path, 4326); err != nil {
		return nil, err
	}
	return raster.ReadGrid(path, 1)
}

// workflowMetadata is the provenance block stored on every output item.
func workflowMetadata(collection, dateStart, dateEnd string, aoi orb.Polygon) map[string]any {
	return map[string]any{
		"stac_collection": collection,
		"date_start":      dateStart,
		"date_end":        dateEnd,
		"aoi":             geom.GeoJSON(aoi),
	}
}

func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
