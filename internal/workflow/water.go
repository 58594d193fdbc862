package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/eo-datahub/eodh-workflows/internal/spectral"
	"github.com/eo-datahub/eodh-workflows/pkg/geom"
	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

// waterQualityIndices are the indices computed for every item, in asset
// order. DOC doubles as the item thumbnail.
var waterQualityIndices = []string{"cdom", "doc", "cya_cells", "turb"}

const waterThumbnailIndex = "doc"

// WaterQualityParams parameterise the water quality pipeline.
type WaterQualityParams struct {
	Collection string
	AOI        string
	DateStart  string
	DateEnd    string
	Limit      int
	Clip       bool
	OutputDir  string
}

// WaterQuality computes the water quality index set for every item
// covering the AOI. Each output item carries one data asset per index,
// keyed by index name, and gets a fresh UUID so concurrent scatter runs
// never collide on item IDs.
func WaterQuality(ctx context.Context, deps Deps, params WaterQualityParams) error {
	log := deps.logger()
	log.Info("running water quality",
		"stac_collection", params.Collection,
		"aoi", params.AOI,
		"date_start", params.DateStart,
		"date_end", params.DateEnd,
		"limit", params.Limit,
		"clip", params.Clip,
		"output_dir", params.OutputDir)

	aoi, err := geom.ParseAOI(params.AOI)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(params.OutputDir); err != nil {
		return err
	}

	calcs := make([]spectral.Calculator, 0, len(waterQualityIndices))
	assetKeys := map[string]struct{}{}
	for _, name := range waterQualityIndices {
		calc, ok := spectral.ByName(name)
		if !ok {
			return fmt.Errorf("unknown index %q", name)
		}
		calcs = append(calcs, calc)
		for _, key := range calc.RequiredAssets() {
			assetKeys[key] = struct{}{}
		}
	}
	bandKeys := make([]string, 0, len(assetKeys))
	for key := range assetKeys {
		bandKeys = append(bandKeys, key)
	}

	items, err := searchSorted(ctx, deps, params.Collection, aoi, params.DateStart, params.DateEnd, params.Limit)
	if err != nil {
		return err
	}
	log.Info("catalogue query finished", "items", len(items))

	workDir, err := os.MkdirTemp("", "eodh-water-*")
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
		"eopro-water-quality",
		"EOPro Water Quality calculation",
		fmt.Sprintf("Water Quality calculation with %s", params.Collection),
	)

	for _, item := range items {
		log.Info("processing item", "item_id", item.Id)

		itemID := uuid.NewString()

		acquired, err := itemDatetime(item)
		if err != nil {
			return err
		}
		bands, err := stageBands(ctx, deps, item, bandKeys, workDir, clipBounds)
		if err != nil {
			return err
		}
		rescale := spectral.RescaleFor(item.Collection, acquired)

		var outItem *stac.Item
		for _, calc := range calcs {
			log.Info("calculating index", "index", calc.FullName(), "item_id", item.Id)

			indexGrid, err := calc.Compute(bands, rescale)
			if err != nil {
				return fmt.Errorf("computing %s for item %q: %w", calc.Name(), item.Id, err)
			}

			cogPath := filepath.Join(params.OutputDir, fmt.Sprintf("%s_%s.tif", itemID, calc.Name()))
			finalGrid, err := writeWGS84COG(indexGrid, cogPath)
			if err != nil {
				return fmt.Errorf("writing COG for item %q: %w", item.Id, err)
			}

			if outItem == nil {
				outItem, err = buildIndexItem(indexItemSpec{
					ID:       itemID,
					Grid:     finalGrid,
					Acquired: acquired.Format(time.RFC3339),
					Properties: map[string]any{
						"workflow_metadata": workflowMetadata(params.Collection, params.DateStart, params.DateEnd, aoi),
					},
				})
				if err != nil {
					return err
				}
			}

			dataAsset, err := stac.NewDataAsset(cogPath, calc.FullName(), spectral.AssetExtraFields(calc, finalGrid))
			if err != nil {
				return err
			}
			outItem.Assets[calc.Name()] = dataAsset

			if calc.Name() == waterThumbnailIndex {
				thumbPath := filepath.Join(params.OutputDir, itemID+".png")
				thumbB64, err := writeIndexThumbnail(calc, finalGrid, thumbPath)
				if err != nil {
					return fmt.Errorf("rendering thumbnail for item %q: %w", item.Id, err)
				}
				thumbAsset, err := stac.NewThumbnailAsset(thumbPath)
				if err != nil {
					return err
				}
				outItem.Properties["thumbnail_b64"] = thumbB64
				outItem.Assets["thumbnail"] = thumbAsset
			}
		}

		catalog.AddItem(outItem)
	}

	if err := stac.WriteCatalog(catalog, params.OutputDir); err != nil {
		return fmt.Errorf("writing catalogue: %w", err)
	}
	log.Info("catalogue written", "output_dir", params.OutputDir, "items", len(items))
	return nil
}
