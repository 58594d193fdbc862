package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eo-datahub/eodh-workflows/internal/spectral"
	"github.com/eo-datahub/eodh-workflows/pkg/geom"
	"github.com/eo-datahub/eodh-workflows/pkg/raster"
	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

// RasterCalculateParams parameterise the spectral index pipeline.
type RasterCalculateParams struct {
	Collection string
	AOI        string
	DateStart  string
	DateEnd    string
	Index      string
	Limit      int
	Clip       bool
	OutputDir  string
}

// RasterCalculate queries the catalogue for items covering the AOI,
// computes the chosen spectral index for each and writes a
// self-contained catalogue of COGs with thumbnails to OutputDir.
func RasterCalculate(ctx context.Context, deps Deps, params RasterCalculateParams) error {
	log := deps.logger()
	log.Info("running raster calculate",
		"stac_collection", params.Collection,
		"aoi", params.AOI,
		"date_start", params.DateStart,
		"date_end", params.DateEnd,
		"index", params.Index,
		"limit", params.Limit,
		"clip", params.Clip,
		"output_dir", params.OutputDir)

	calc, ok := spectral.ByName(strings.ToLower(params.Index))
	if !ok {
		return fmt.Errorf("unknown index %q, available: %s", params.Index, strings.Join(spectral.Names(), ", "))
	}

	aoi, err := geom.ParseAOI(params.AOI)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(params.OutputDir); err != nil {
		return err
	}

	items, err := searchSorted(ctx, deps, params.Collection, aoi, params.DateStart, params.DateEnd, params.Limit)
	if err != nil {
		return err
	}
	log.Info("catalogue query finished", "items", len(items))

	workDir, err := os.MkdirTemp("", "eodh-raster-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	var clipBounds *[4]float64
	if params.Clip {
		bounds := geom.Bounds(aoi)
		clipBounds = &bounds
	}

	catalog := stac.NewCatalog(
		"eopro-"+calc.Name(),
		fmt.Sprintf("EOPro %s calculation", strings.ToUpper(calc.Name())),
		fmt.Sprintf("%s calculation with %s", strings.ToUpper(calc.Name()), params.Collection),
	)

	for _, item := range items {
		log.Info("processing item", "item_id", item.Id)

		acquired, err := itemDatetime(item)
		if err != nil {
			return err
		}

		bands, err := stageBands(ctx, deps, item, calc.RequiredAssets(), workDir, clipBounds)
		if err != nil {
			return err
		}

		rescale := spectral.RescaleFor(item.Collection, acquired)
		indexGrid, err := calc.Compute(bands, rescale)
		if err != nil {
			return fmt.Errorf("computing %s for item %q: %w", calc.Name(), item.Id, err)
		}

		cogPath := filepath.Join(params.OutputDir, item.Id+".tif")
		finalGrid, err := writeWGS84COG(indexGrid, cogPath)
		if err != nil {
			return fmt.Errorf("writing COG for item %q: %w", item.Id, err)
		}

		thumbPath := filepath.Join(params.OutputDir, item.Id+".png")
		thumbB64, err := writeIndexThumbnail(calc, finalGrid, thumbPath)
		if err != nil {
			return fmt.Errorf("rendering thumbnail for item %q: %w", item.Id, err)
		}

		outItem, err := buildIndexItem(indexItemSpec{
			ID:       item.Id,
			Grid:     finalGrid,
			Acquired: acquired.Format(time.RFC3339),
			Properties: map[string]any{
				"thumbnail_b64":     thumbB64,
				"workflow_metadata": workflowMetadata(params.Collection, params.DateStart, params.DateEnd, aoi),
			},
		})
		if err != nil {
			return err
		}

		dataAsset, err := stac.NewDataAsset(cogPath, calc.FullName(), spectral.AssetExtraFields(calc, finalGrid))
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

// indexItemSpec collects what buildIndexItem needs to describe one
// output raster as an item.
type indexItemSpec struct {
	ID         string
	Grid       *raster.Grid
	Acquired   string
	Properties map[string]any
}

func buildIndexItem(spec indexItemSpec) (*stac.Item, error) {
	bounds := spec.Grid.Bounds()
	footprint := geom.BoxPolygon(bounds)

	item := stac.NewItem(
		spec.ID,
		geom.GeoJSON(footprint),
		bounds[:],
		spec.Acquired,
		spec.Properties,
	)
	item.ApplyProjection(stac.Projection{
		EPSG:      spec.Grid.EPSG,
		Shape:     [2]int{spec.Grid.Height, spec.Grid.Width},
		Transform: spec.Grid.Transform,
	})
	return item, nil
}

// writeIndexThumbnail renders a continuous-colormap PNG for an index
// grid and returns its base64 form for the thumbnail_b64 property.
func writeIndexThumbnail(calc spectral.Calculator, grid *raster.Grid, path string) (string, error) {
	vmin, vmax, _ := calc.TypicalRange()
	cmap := calc.Colormap()
	ramp, ok := raster.RampByName(cmap.MPL)
	if !ok {
		return "", fmt.Errorf("unknown colormap %q", cmap.MPL)
	}
	if err := raster.WriteContinuousThumbnail(grid, path, ramp, vmin, vmax, cmap.MPLReverse, raster.DefaultThumbnailSize); err != nil {
		return "", err
	}
	return raster.FileToBase64(path)
}
