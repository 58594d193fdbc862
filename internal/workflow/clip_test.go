package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

const clipAOI = `{"type":"Polygon","coordinates":[[[14.2,52.9],[14.9,52.9],[14.9,53.4],[14.2,53.4],[14.2,52.9]]]}`

// writeClipInput builds a catalogue whose items each carry a thumbnail
// asset named preview.png inside their own item directory.
func writeClipInput(t *testing.T, dir string, itemIDs ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	catalog := stac.NewCatalog("clip-input", "Test", "Test catalog")
	for _, id := range itemIDs {
		itemDir := filepath.Join(dir, id)
		require.NoError(t, os.MkdirAll(itemDir, 0o755))
		assetPath := filepath.Join(itemDir, "preview.png")
		require.NoError(t, os.WriteFile(assetPath, []byte("png-"+id), 0o644))

		item := stac.NewItem(id,
			map[string]any{"type": "Point", "coordinates": []float64{14.5, 53.0}},
			[]float64{14.5, 53.0, 14.5, 53.0},
			"2024-05-01T10:00:00Z",
			nil,
		)
		item.Assets = map[string]*stac.Asset{
			"thumbnail": {Href: assetPath, Roles: []string{stac.RoleThumbnail}},
		}
		catalog.AddItem(item)
	}
	require.NoError(t, stac.WriteCatalog(catalog, dir))
}

func TestClipCatalog_KeepsAssetPathsApart(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "input")
	outputDir := filepath.Join(root, "output")
	writeClipInput(t, inputDir, "item-a", "item-b")

	err := ClipCatalog(context.Background(), Deps{}, ClipCatalogParams{
		InputDir:  inputDir,
		Area:      clipAOI,
		OutputDir: outputDir,
	})
	require.NoError(t, err)

	// Same-named asset files keep their item-relative locations.
	dataA, err := os.ReadFile(filepath.Join(outputDir, "item-a", "preview.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-item-a", string(dataA))

	dataB, err := os.ReadFile(filepath.Join(outputDir, "item-b", "preview.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-item-b", string(dataB))

	clipped, err := stac.ReadCatalog(outputDir)
	require.NoError(t, err)
	assert.Equal(t, "EOPro Clipped Data", clipped.Title)
	require.Len(t, clipped.Items(), 2)
	for _, item := range clipped.Items() {
		assert.Equal(t, []float64{14.2, 52.9, 14.9, 53.4}, item.Bbox)
		require.FileExists(t, item.Assets["thumbnail"].Href)
	}
}

func TestClipDestPath(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "input")
	outputDir := filepath.Join(root, "output")

	dest, err := clipDestPath(inputDir, outputDir, "item-a", filepath.Join(inputDir, "item-a", "b04.tif"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "item-a", "b04.tif"), dest)
	assert.DirExists(t, filepath.Dir(dest))

	// Assets outside the catalogue tree fall back to the item directory.
	dest, err = clipDestPath(inputDir, outputDir, "item-a", filepath.Join(root, "elsewhere", "b04.tif"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "item-a", "b04.tif"), dest)
}
