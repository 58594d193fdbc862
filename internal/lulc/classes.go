package lulc

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/eo-datahub/eodh-workflows/pkg/stac"
)

// cedaDataAssetKey is the asset carrying both the land cover raster and
// its classification:classes field on CEDA items.
const cedaDataAssetKey = "GeoTIFF"

// Class is one entry of a classification:classes table.
type Class struct {
	Value       int    `json:"value"`
	Description string `json:"description"`
	ColorHint   string `json:"color-hint"`
}

// CorineClasses is the CLC nomenclature as served by the CORINE
// Sentinel-Hub BYOC collection.
var CorineClasses = []Class{
	{Value: 1, Description: "Continuous urban fabric", ColorHint: "e6004d"},
	{Value: 2, Description: "Discontinuous urban fabric", ColorHint: "ff0000"},
	{Value: 3, Description: "Industrial or commercial units", ColorHint: "cc4df2"},
	{Value: 4, Description: "Road and rail networks and associated land", ColorHint: "cc0000"},
	{Value: 5, Description: "Port areas", ColorHint: "e6cccc"},
	{Value: 6, Description: "Airports", ColorHint: "e6cce6"},
	{Value: 7, Description: "Mineral extraction sites", ColorHint: "600cc"},
	{Value: 8, Description: "Dump sites", ColorHint: "a64d00"},
	{Value: 9, Description: "Construction sites", ColorHint: "ff4dff"},
	{Value: 10, Description: "Green urban areas", ColorHint: "ffa6ff"},
	{Value: 11, Description: "Sport and leisure facilities", ColorHint: "ffe6ff"},
	{Value: 12, Description: "Non-irrigated arable land", ColorHint: "ffffa8"},
	{Value: 13, Description: "Permanently irrigated land", ColorHint: "ffff00"},
	{Value: 14, Description: "Rice fields", ColorHint: "6e600"},
	{Value: 15, Description: "Vineyards", ColorHint: "e68000"},
	{Value: 16, Description: "Fruit trees and berry plantations", ColorHint: "f2a64d"},
	{Value: 17, Description: "Olive groves", ColorHint: "e6a600"},
	{Value: 18, Description: "Pastures", ColorHint: "e6e64d"},
	{Value: 19, Description: "Annual crops associated with permanent crops", ColorHint: "ffe6a6"},
	{Value: 20, Description: "Complex cultivation patterns", ColorHint: "ffe64d"},
	{Value: 21, Description: "Land principally occupied by agriculture with significant areas of natural vegetation", ColorHint: "e6cc4d"},
	{Value: 22, Description: "Agro-forestry areas", ColorHint: "f2cca6"},
	{Value: 23, Description: "Broad-leaved forest", ColorHint: "80ff00"},
	{Value: 24, Description: "Coniferous forest", ColorHint: "00a600"},
	{Value: 25, Description: "Mixed forest", ColorHint: "4dff00"},
	{Value: 26, Description: "Natural grasslands", ColorHint: "ccf24d"},
	{Value: 27, Description: "Moors and heathland", ColorHint: "a6ff80"},
	{Value: 28, Description: "Sclerophyllous vegetation", ColorHint: "a6e64d"},
	{Value: 29, Description: "Transitional woodland-shrub", ColorHint: "a6f200"},
	{Value: 30, Description: "Beaches - dunes - sands", ColorHint: "e6e6e6"},
	{Value: 31, Description: "Bare rocks", ColorHint: "cccccc"},
	{Value: 32, Description: "Sparsely vegetated areas", ColorHint: "ccffcc"},
	{Value: 33, Description: "Burnt areas", ColorHint: "000000"},
	{Value: 34, Description: "Glaciers and perpetual snow", ColorHint: "a6e6cc"},
	{Value: 35, Description: "Inland marshes", ColorHint: "a6a6ff"},
	{Value: 36, Description: "Peat bogs", ColorHint: "4d4dff"},
	{Value: 37, Description: "Salt marshes", ColorHint: "ccccff"},
	{Value: 38, Description: "Salines", ColorHint: "e6e6ff"},
	{Value: 39, Description: "Intertidal flats", ColorHint: "a6a6e6"},
	{Value: 40, Description: "Water courses", ColorHint: "00ccf2"},
	{Value: 41, Description: "Water bodies", ColorHint: "80f2e6"},
	{Value: 42, Description: "Coastal lagoons", ColorHint: "00ffa6"},
	{Value: 43, Description: "Estuaries", ColorHint: "a6ffe6"},
	{Value: 44, Description: "Sea and ocean", ColorHint: "e6f2ff"},
	{Value: 48, Description: "NODATA", ColorHint: "ffffff"},
}

// WaterBodiesClasses is the CLMS Water Bodies nomenclature.
var WaterBodiesClasses = []Class{
	{Value: 0, Description: "Not water", ColorHint: "ffffff"},
	{Value: 1, Description: "Water", ColorHint: "0064c8"},
	{Value: 255, Description: "NODATA", ColorHint: "000000"},
}

// ClassesForItem returns the class table applicable to items of the
// given source. CEDA items carry the table on their data asset, the
// Sentinel-Hub collections use fixed nomenclatures.
func ClassesForItem(source DataSource, item *stac.Item) ([]Class, error) {
	switch source.Name {
	case SourceESACCIGlobalLC:
		asset, ok := item.Assets[cedaDataAssetKey]
		if !ok {
			return nil, fmt.Errorf("item %q has no %q asset", item.Id, cedaDataAssetKey)
		}
		raw, ok := asset.AdditionalFields["classification:classes"]
		if !ok {
			return nil, fmt.Errorf("item %q asset %q has no classification:classes", item.Id, cedaDataAssetKey)
		}
		return decodeClasses(raw)
	case SourceCorineLC:
		return CorineClasses, nil
	case SourceWaterBodies:
		return WaterBodiesClasses, nil
	default:
		return nil, fmt.Errorf("unsupported data source: %q", source.Name)
	}
}

func decodeClasses(raw any) ([]Class, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding classification:classes: %w", err)
	}
	var classes []Class
	if err := json.Unmarshal(buf, &classes); err != nil {
		return nil, fmt.Errorf("decoding classification:classes: %w", err)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("classification:classes is empty")
	}
	return classes, nil
}

// UniqueValues returns the sorted distinct raster values of a class table.
func UniqueValues(classes []Class) []int {
	seen := make(map[int]struct{}, len(classes))
	values := make([]int, 0, len(classes))
	for _, c := range classes {
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		values = append(values, c.Value)
	}
	sort.Ints(values)
	return values
}

// ColorMapping maps raster values to their colour hints for discrete
// thumbnail rendering.
func ColorMapping(classes []Class) map[int]string {
	m := make(map[int]string, len(classes))
	for _, c := range classes {
		m[c.Value] = c.ColorHint
	}
	return m
}

// ClassesField converts a class table into the value stored under a
// data asset's classification:classes field.
func ClassesField(classes []Class) []map[string]any {
	out := make([]map[string]any, 0, len(classes))
	for _, c := range classes {
		out = append(out, map[string]any{
			"value":       c.Value,
			"description": c.Description,
			"color-hint":  c.ColorHint,
		})
	}
	return out
}
