// Package lulc implements land-use / land-cover change summaries over
// classified rasters from CEDA and Sentinel-Hub hosted collections.
package lulc

import "fmt"

// Well known catalogue endpoints for the supported land cover products.
const (
	CEDACatalogEndpoint        = "https://api.stac.ceda.ac.uk/"
	SentinelHubCatalogEndpoint = "https://creodias.sentinel-hub.com/api/v1/catalog/1.0.0/"
	SentinelHubProcessEndpoint = "https://creodias.sentinel-hub.com/api/v1/process"
)

// Local names accepted by the lulc change command.
const (
	SourceESACCIGlobalLC = "esacci-globallc"
	SourceCorineLC       = "clms-corinelc"
	SourceWaterBodies    = "clms-water-bodies"
)

// DataSource binds a local source name to the catalogue and collection
// holding its items.
type DataSource struct {
	Name       string
	Catalog    string
	Collection string
}

// SentinelHub reports whether the source is served through the
// Sentinel-Hub Process API rather than by downloading item assets.
func (s DataSource) SentinelHub() bool {
	return s.Catalog == SentinelHubCatalogEndpoint
}

var sources = map[string]DataSource{
	SourceESACCIGlobalLC: {
		Name:       SourceESACCIGlobalLC,
		Catalog:    CEDACatalogEndpoint,
		Collection: "land_cover",
	},
	SourceCorineLC: {
		Name:       SourceCorineLC,
		Catalog:    SentinelHubCatalogEndpoint,
		Collection: "byoc-cbdba844-f86d-41dc-95ad-b3f7f12535e9",
	},
	SourceWaterBodies: {
		Name:       SourceWaterBodies,
		Catalog:    SentinelHubCatalogEndpoint,
		Collection: "byoc-62bf6f6a-c584-48a8-a739-0bc60efee54a",
	},
}

// SourceByName resolves a local source name to its DataSource.
func SourceByName(name string) (DataSource, error) {
	src, ok := sources[name]
	if !ok {
		return DataSource{}, fmt.Errorf("unsupported data source: %q", name)
	}
	return src, nil
}

// SourceNames lists the accepted source names in a stable order.
func SourceNames() []string {
	return []string{SourceESACCIGlobalLC, SourceCorineLC, SourceWaterBodies}
}
