package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

func writeJoinInput(t *testing.T, dir string, itemIDs ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	catalog := stac.NewCatalog("joined", "EOPro Joined Data", "EOPro Joined Data")
	for _, id := range itemIDs {
		assetPath := filepath.Join(dir, id+".tif")
		require.NoError(t, os.WriteFile(assetPath, []byte("cog-bytes"), 0o644))

		item := stac.NewItem(id,
			map[string]any{"type": "Point", "coordinates": []float64{14.5, 53.0}},
			[]float64{14.5, 53.0, 14.5, 53.0},
			"2024-05-01T10:00:00Z",
			nil,
		)
		item.Assets = map[string]*stac.Asset{
			"data": {Href: assetPath, Roles: []string{stac.RoleData}},
		}
		catalog.AddItem(item)
	}
	require.NoError(t, stac.WriteCatalog(catalog, dir))
}

func TestJoinCatalogs(t *testing.T) {
	root := t.TempDir()
	dir1 := filepath.Join(root, "catalog-1")
	dir2 := filepath.Join(root, "catalog-2")
	outDir := filepath.Join(root, "merged")
	writeJoinInput(t, dir1, "shared", "only-1")
	writeJoinInput(t, dir2, "shared", "only-2")

	err := JoinCatalogs(Deps{}, JoinCatalogsParams{
		CatalogDir1: dir1,
		CatalogDir2: dir2,
		OutputDir:   outDir,
	})
	require.NoError(t, err)

	merged, err := stac.ReadCatalog(outDir)
	require.NoError(t, err)

	ids := make([]string, 0, len(merged.Items()))
	for _, item := range merged.Items() {
		ids = append(ids, item.Id)
	}
	assert.ElementsMatch(t, []string{"shared", "only-1", "only-2"}, ids)

	for _, item := range merged.Items() {
		require.FileExists(t, item.Assets["data"].Href)
	}
}

func TestJoinCatalogs_MissingInput(t *testing.T) {
	root := t.TempDir()
	dir1 := filepath.Join(root, "catalog-1")
	writeJoinInput(t, dir1, "item-a")

	err := JoinCatalogs(Deps{}, JoinCatalogsParams{
		CatalogDir1: dir1,
		CatalogDir2: filepath.Join(root, "does-not-exist"),
		OutputDir:   filepath.Join(root, "merged"),
	})
	assert.ErrorContains(t, err, "catalog.json does not exist")
}
