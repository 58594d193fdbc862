package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/paulmach/orb"
	gostac "github.com/planetlabs/go-stac"

	"github.com/eo-datahub/eodh-workflows/internal/lulc"
	"github.com/eo-datahub/eodh-workflows/pkg/client"
	"github.com/eo-datahub/eodh-workflows/pkg/geom"
	"github.com/eo-datahub/eodh-workflows/pkg/raster"
	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

// LULCChangeParams parameterise the land cover change pipeline.
type LULCChangeParams struct {
	Source    string
	AOI       string
	DateStart string
	DateEnd   string
	OutputDir string
}

// LULCChange summarises land cover over the AOI for every item of the
// source collection in the date range: per-class pixel shares and areas
// in square metres, a discrete-class thumbnail and the class table on
// the data asset. Deps.Catalog must point at the source's catalogue and
// Deps.Process must be set for Sentinel-Hub backed sources.
func LULCChange(ctx context.Context, deps Deps, params LULCChangeParams) error {
	log := deps.logger()
	log.Info("running lulc change",
		"source", params.Source,
		"aoi", params.AOI,
		"date_start", params.DateStart,
		"date_end", params.DateEnd,
		"output_dir", params.OutputDir)

	source, err := lulc.SourceByName(params.Source)
	if err != nil {
		return err
	}
	if source.SentinelHub() && deps.Process == nil {
		return fmt.Errorf("source %q needs a process client", source.Name)
	}

	aoi, err := geom.ParseAOI(params.AOI)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(params.OutputDir); err != nil {
		return err
	}

	items, err := searchDatetimeRange(ctx, deps, source.Collection, aoi, params.DateStart, params.DateEnd)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no %q items found between %s and %s", source.Name, params.DateStart, params.DateEnd)
	}
	log.Info("catalogue query finished", "items", len(items))

	classes, err := sourceClasses(ctx, deps, source, items[0])
	if err != nil {
		return err
	}
	uniqueValues := lulc.UniqueValues(classes)
	colors := lulc.ColorMapping(classes)

	workDir, err := os.MkdirTemp("", "eodh-lulc-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	bounds := geom.Bounds(aoi)

	catalog := stac.NewCatalog(
		"eopro-lulc-change",
		"EOPro Discrete Data Summary",
		fmt.Sprintf("Discrete Data Summary using %s dataset", source.Name),
	)

	for _, item := range items {
		log.Info("processing item", "item_id", item.Id)

		acquired, err := itemDatetime(item)
		if err != nil {
			return err
		}

		grid, err := loadCoverage(ctx, deps, source, item, bounds, workDir)
		if err != nil {
			return err
		}

		footprintArea := geom.GeodesicArea(geom.BoxPolygon(grid.Bounds()))
		shares := lulc.ClassShares(grid, uniqueValues)
		areas := lulc.ClassAreas(shares, footprintArea)

		cogPath := filepath.Join(params.OutputDir, item.Id+".tif")
		finalGrid, err := writeWGS84COG(grid, cogPath)
		if err != nil {
			return fmt.Errorf("writing COG for item %q: %w", item.Id, err)
		}

		thumbPath := filepath.Join(params.OutputDir, item.Id+".png")
		if err := raster.WriteDiscreteThumbnail(finalGrid, thumbPath, colors, raster.DefaultThumbnailSize); err != nil {
			return fmt.Errorf("rendering thumbnail for item %q: %w", item.Id, err)
		}
		thumbB64, err := raster.FileToBase64(thumbPath)
		if err != nil {
			return err
		}

		outItem, err := buildIndexItem(indexItemSpec{
			ID:       item.Id,
			Grid:     finalGrid,
			Acquired: acquired.Format(time.RFC3339),
			Properties: map[string]any{
				"lulc_classes_percentage": shares,
				"lulc_classes_m2":         areas,
				"thumbnail_b64":           thumbB64,
				"workflow_metadata":       workflowMetadata(source.Name, params.DateStart, params.DateEnd, aoi),
			},
		})
		if err != nil {
			return err
		}

		dataAsset, err := stac.NewDataAsset(cogPath, source.Name, map[string]any{
			"classification:classes": lulc.ClassesField(classes),
		})
		if err != nil {
			return err
		}
		thumbAsset, err := stac.NewThumbnailAsset(thumbPath)
		if err != nil {
			return err
		}
		outItem.Assets["data"] = dataAsset
		outItem.Assets["thumbnail"] = thumbAsset

		catalog.AddItem(outItem)
	}

	if err := stac.WriteCatalog(catalog, params.OutputDir); err != nil {
		return fmt.Errorf("writing catalogue: %w", err)
	}
	log.Info("catalogue written", "output_dir", params.OutputDir, "items", len(items))
	return nil
}

// searchDatetimeRange queries with plain intersects plus a datetime
// interval; the land cover catalogues do not accept CQL2 filters.
func searchDatetimeRange(ctx context.Context, deps Deps, collection string, aoi orb.Polygon, dateStart, dateEnd string) ([]*gostac.Item, error) {
	params := client.SearchParams{
		Collections: []string{collection},
		Intersects:  geom.GeoJSON(aoi),
		Datetime:    fmt.Sprintf("%s/%s", dateStart, dateEnd),
		Limit:       100,
	}
	items, err := client.CollectItems(deps.Catalog.Search(ctx, params))
	if err != nil {
		return nil, fmt.Errorf("searching collection %q: %w", collection, err)
	}
	sortItemsByDatetime(items)
	return items, nil
}

func sourceClasses(ctx context.Context, deps Deps, source lulc.DataSource, first *gostac.Item) ([]lulc.Class, error) {
	if !source.SentinelHub() {
		// CEDA items carry the class table as a foreign member on
		// their data asset, which the search decoding drops. Re-fetch
		// the raw item to read it.
		raw, err := rawItem(ctx, deps, first)
		if err != nil {
			return nil, err
		}
		return lulc.ClassesForItem(source, raw)
	}
	return lulc.ClassesForItem(source, nil)
}

// rawItem re-reads an item from its self link, keeping foreign members.
func rawItem(ctx context.Context, deps Deps, item *gostac.Item) (*stac.Item, error) {
	var selfHref string
	for _, link := range item.Links {
		if link.Rel == "self" {
			selfHref = link.Href
			break
		}
	}
	if selfHref == "" {
		return nil, fmt.Errorf("item %q has no self link", item.Id)
	}
	var out stac.Item
	if err := deps.Catalog.DoJSON(ctx, "GET", selfHref, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching item %q: %w", item.Id, err)
	}
	return &out, nil
}

// loadCoverage obtains the classified raster for one item, clipped to
// bounds: downloaded from the item's data asset for CEDA sources,
// rendered through the Process API for Sentinel-Hub sources.
func loadCoverage(ctx context.Context, deps Deps, source lulc.DataSource, item *gostac.Item, bounds [4]float64, workDir string) (*raster.Grid, error) {
	if source.SentinelHub() {
		acquired, err := itemDatetime(item)
		if err != nil {
			return nil, err
		}
		data, err := deps.Process.FetchCoverage(ctx, source, bounds, acquired)
		if err != nil {
			return nil, err
		}
		coveragePath := filepath.Join(workDir, item.Id+".tif")
		if err := os.WriteFile(coveragePath, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing coverage for item %q: %w", item.Id, err)
		}
		return raster.ReadGrid(coveragePath, 1)
	}

	bands, err := stageBands(ctx, deps, item, []string{"GeoTIFF"}, workDir, &bounds)
	if err != nil {
		return nil, err
	}
	return bands["GeoTIFF"], nil
}

// sortItemsByDatetime orders search results by acquisition time.
func sortItemsByDatetime(items []*gostac.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, _ := itemDatetime(items[i])
		tj, _ := itemDatetime(items[j])
		return ti.Before(tj)
	})
}
