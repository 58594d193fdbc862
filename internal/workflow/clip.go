package workflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eo-datahub/eodh-workflows/pkg/geom"
	"github.com/eo-datahub/eodh-workflows/pkg/raster"
	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

// ClipCatalogParams parameterise local catalogue clipping.
type ClipCatalogParams struct {
	InputDir  string
	Area      string
	OutputDir string
}

// ClipCatalog crops every data asset of a local catalogue to the AOI
// and writes the rewritten catalogue to OutputDir. Item geometries and
// bounding boxes are replaced by the AOI footprint; non-raster assets
// are carried over unchanged.
func ClipCatalog(ctx context.Context, deps Deps, params ClipCatalogParams) error {
	log := deps.logger()
	log.Info("running stac clip",
		"input_stac", params.InputDir,
		"aoi", params.Area,
		"output_dir", params.OutputDir)

	aoi, err := geom.ParseAOI(params.Area)
	if err != nil {
		return err
	}
	bounds := geom.Bounds(aoi)

	if err := ensureOutputDir(params.OutputDir); err != nil {
		return err
	}

	catalog, err := stac.ReadCatalog(params.InputDir)
	if err != nil {
		return fmt.Errorf("reading catalogue: %w", err)
	}

	out := stac.NewCatalog(catalog.Id, "EOPro Clipped Data", "EOPro Clipped Data")
	for _, item := range catalog.Items() {
		if err := ctx.Err(); err != nil {
			return err
		}

		for key, asset := range item.Assets {
			localPath := asset.Href
			if _, err := os.Stat(localPath); err != nil {
				return fmt.Errorf("item %q asset %q: %w", item.Id, key, err)
			}

			destPath, err := clipDestPath(params.InputDir, params.OutputDir, item.Id, localPath)
			if err != nil {
				return fmt.Errorf("item %q asset %q: %w", item.Id, key, err)
			}
			if asset.HasRole(stac.RoleData) {
				log.Info("clipping asset", "item_id", item.Id, "asset", key)
				if err := raster.Clip(localPath, destPath, bounds); err != nil {
					return fmt.Errorf("clipping %q of item %q: %w", key, item.Id, err)
				}
			} else if err := copyAsset(localPath, destPath); err != nil {
				return fmt.Errorf("copying %q of item %q: %w", key, item.Id, err)
			}

			asset.Href = destPath
			if _, ok := asset.AdditionalFields["size"]; ok {
				if info, err := os.Stat(destPath); err == nil {
					asset.AdditionalFields["size"] = info.Size()
				}
			}
		}

		item.Geometry = geom.GeoJSON(aoi)
		item.Bbox = bounds[:]
		out.AddItem(item)
	}

	if err := stac.WriteCatalog(out, params.OutputDir); err != nil {
		return fmt.Errorf("writing catalogue: %w", err)
	}
	log.Info("catalogue written", "output_dir", params.OutputDir, "items", len(out.Items()))
	return nil
}

// clipDestPath mirrors the asset's location under the input catalogue
// inside the output directory, so same-named asset files of different
// items cannot collide. Assets stored outside the catalogue tree land
// under the item's own directory.
func clipDestPath(inputDir, outputDir, itemID, localPath string) (string, error) {
	rel, err := filepath.Rel(inputDir, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Join(itemID, filepath.Base(localPath))
	}

	dest := filepath.Join(outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating asset directory: %w", err)
	}
	return dest, nil
}

func copyAsset(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
