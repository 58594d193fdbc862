package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

// JoinCatalogsParams parameterise catalogue joining.
type JoinCatalogsParams struct {
	CatalogDir1 string
	CatalogDir2 string
	OutputDir   string
}

// JoinCatalogs merges two local catalogues into one under OutputDir.
// Items present in both keep their first occurrence.
func JoinCatalogs(deps Deps, params JoinCatalogsParams) error {
	log := deps.logger()
	log.Info("running stac join",
		"stac_catalog_dir_1", params.CatalogDir1,
		"stac_catalog_dir_2", params.CatalogDir2,
		"output_dir", params.OutputDir)

	for _, dir := range []string{params.CatalogDir1, params.CatalogDir2} {
		if _, err := os.Stat(filepath.Join(dir, "catalog.json")); err != nil {
			return fmt.Errorf("catalog.json does not exist under %s", dir)
		}
	}
	if err := ensureOutputDir(params.OutputDir); err != nil {
		return err
	}

	merged, err := stac.MergeCatalogs(params.CatalogDir1, params.CatalogDir2, params.OutputDir)
	if err != nil {
		return fmt.Errorf("merging catalogues: %w", err)
	}
	log.Info("catalogue written", "output_dir", params.OutputDir, "items", len(merged.Items()))
	return nil
}
