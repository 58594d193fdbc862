package stac

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_ForeignMembersRoundTrip(t *testing.T) {
	raw := []byte(`{
        "type": "Feature",
        "stac_version": "1.0.0",
        "id": "item-1",
        "geometry": {"type": "Point", "coordinates": [0, 51]},
        "bbox": [0, 51, 0, 51],
        "properties": {"datetime": "2024-05-01T10:00:00Z", "proj:epsg": 4326},
        "links": [],
        "assets": {
            "data": {
                "href": "https://example.com/data.tif",
                "roles": ["data"],
                "custom": "asset_value"
            }
        },
        "order:status": "succeeded"
    }`)

	var item Item
	require.NoError(t, json.Unmarshal(raw, &item))

	assert.Equal(t, "item-1", item.Id)
	assert.Equal(t, "succeeded", item.AdditionalFields["order:status"])
	require.Contains(t, item.Assets, "data")
	assert.Equal(t, "asset_value", item.Assets["data"].AdditionalFields["custom"])
	assert.True(t, item.Assets["data"].HasRole(RoleData))

	out, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "succeeded", decoded["order:status"])
	asset := decoded["assets"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "asset_value", asset["custom"])
}

func TestItem_Datetime(t *testing.T) {
	item := NewItem("x", nil, nil, "2024-05-01T10:00:00Z", nil)
	assert.Equal(t, "2024-05-01T10:00:00Z", item.Datetime())
}

func TestApplyProjection(t *testing.T) {
	item := NewItem("x", nil, nil, "2024-05-01T10:00:00Z", nil)
	item.ApplyProjection(Projection{
		EPSG:      4326,
		Shape:     [2]int{100, 200},
		Transform: [6]float64{0.1, 0, 0, 0, -0.1, 51},
	})

	assert.Contains(t, item.Extensions, ProjectionExtensionSchema)
	assert.Equal(t, 4326, item.Properties["proj:epsg"])
}

func writeTestCatalog(t *testing.T, dir, catalogID string, itemIDs ...string) {
	t.Helper()

	catalog := NewCatalog(catalogID, "Test", "Test catalog")
	for _, id := range itemIDs {
		assetPath := filepath.Join(dir, id+"_data.bin")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(assetPath, []byte("raster-bytes"), 0o644))

		item := NewItem(id,
			map[string]any{"type": "Point", "coordinates": []float64{0, 51}},
			[]float64{0, 51, 0, 51},
			"2024-05-01T10:00:00Z",
			nil,
		)
		item.Assets = map[string]*Asset{
			"data": {Href: assetPath, Roles: []string{RoleData}},
		}
		catalog.AddItem(item)
	}
	require.NoError(t, WriteCatalog(catalog, dir))
}

func TestWriteReadCatalog(t *testing.T) {
	dir := t.TempDir()
	writeTestCatalog(t, dir, "test-catalog", "item-a", "item-b")

	require.FileExists(t, filepath.Join(dir, "catalog.json"))
	require.FileExists(t, filepath.Join(dir, "item-a", "item-a.json"))
	require.FileExists(t, filepath.Join(dir, "item-b", "item-b.json"))

	loaded, err := ReadCatalog(dir)
	require.NoError(t, err)
	assert.Equal(t, "test-catalog", loaded.Id)
	require.Len(t, loaded.Items(), 2)

	item := loaded.Items()[0]
	assert.Equal(t, "item-a", item.Id)
	// Asset hrefs come back absolute so callers can open them directly.
	assert.True(t, filepath.IsAbs(item.Assets["data"].Href))
	require.FileExists(t, item.Assets["data"].Href)
}

func TestWriteCatalog_RemoteAssetsUntouched(t *testing.T) {
	dir := t.TempDir()

	catalog := NewCatalog("remote", "", "remote assets")
	item := NewItem("item-r", nil, nil, "2024-05-01T10:00:00Z", nil)
	item.Assets = map[string]*Asset{
		"data": {Href: "https://example.com/cog.tif", Roles: []string{RoleData}},
	}
	catalog.AddItem(item)
	require.NoError(t, WriteCatalog(catalog, dir))

	loaded, err := ReadCatalog(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cog.tif", loaded.Items()[0].Assets["data"].Href)
}

func TestMergeCatalogs(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	out := t.TempDir()

	writeTestCatalog(t, dir1, "cat-1", "shared", "only-1")
	writeTestCatalog(t, dir2, "cat-2", "shared", "only-2")

	merged, err := MergeCatalogs(dir1, dir2, out)
	require.NoError(t, err)

	ids := make([]string, 0, len(merged.Items()))
	for _, item := range merged.Items() {
		ids = append(ids, item.Id)
	}
	assert.ElementsMatch(t, []string{"shared", "only-1", "only-2"}, ids)

	loaded, err := ReadCatalog(out)
	require.NoError(t, err)
	require.Len(t, loaded.Items(), 3)
	for _, item := range loaded.Items() {
		require.FileExists(t, item.Assets["data"].Href, "asset of %s should be copied", item.Id)
	}
}

func TestNewDataAsset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.tif")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	asset, err := NewDataAsset(path, "Normalized Difference Vegetation Index", map[string]any{
		"proj:epsg": 4326,
	})
	require.NoError(t, err)

	assert.Equal(t, MediaTypeCOG, asset.Type)
	assert.True(t, asset.HasRole(RoleData))
	assert.Equal(t, int64(10), asset.AdditionalFields["size"])
	assert.Equal(t, 4326, asset.AdditionalFields["proj:epsg"])
}

func TestNewDataAsset_MissingFile(t *testing.T) {
	_, err := NewDataAsset(filepath.Join(t.TempDir(), "missing.tif"), "x", nil)
	require.Error(t, err)
}
