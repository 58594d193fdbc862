package stac

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectionExtensionSchema is the STAC projection extension identifier
// stamped onto items that carry proj:* properties.
const ProjectionExtensionSchema = "https://stac-extensions.github.io/projection/v1.1.0/schema.json"

// Projection describes the georeferencing of a produced raster.
type Projection struct {
	EPSG      int
	Shape     [2]int     // rows, cols
	Transform [6]float64 // GDAL-order affine transform
}

// NewItem builds a workflow output item. Geometry is a GeoJSON geometry
// object, bbox its bounds, datetime the source acquisition timestamp in
// RFC 3339 and properties any extra properties to attach.
func NewItem(id string, geometry map[string]any, bbox []float64, datetime string, properties map[string]any) *Item {
	props := map[string]any{"datetime": datetime}
	for k, v := range properties {
		props[k] = v
	}
	return &Item{
		Type:       "Feature",
		Version:    Version,
		Id:         id,
		Geometry:   geometry,
		Bbox:       bbox,
		Properties: props,
		Assets:     map[string]*Asset{},
	}
}

// ApplyProjection records the projection extension fields on the item.
func (item *Item) ApplyProjection(proj Projection) {
	for _, ext := range item.Extensions {
		if ext == ProjectionExtensionSchema {
			return
		}
	}
	item.Extensions = append(item.Extensions, ProjectionExtensionSchema)
	item.Properties["proj:epsg"] = proj.EPSG
	item.Properties["proj:shape"] = []int{proj.Shape[0], proj.Shape[1]}
	transform := make([]float64, len(proj.Transform))
	copy(transform, proj.Transform[:])
	item.Properties["proj:transform"] = transform
}

// NewDataAsset builds a role="data" COG asset for the given local file,
// recording its size and any extension fields.
func NewDataAsset(path, title string, extraFields map[string]any) (*Asset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("stac: resolving asset path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stac: reading asset size: %w", err)
	}

	fields := map[string]any{"size": info.Size()}
	for k, v := range extraFields {
		fields[k] = v
	}
	return &Asset{
		Type:             MediaTypeCOG,
		Href:             abs,
		Title:            title,
		Roles:            []string{RoleData},
		AdditionalFields: fields,
	}, nil
}

// NewThumbnailAsset builds a role="thumbnail" PNG asset.
func NewThumbnailAsset(path string) (*Asset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("stac: resolving thumbnail path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stac: reading thumbnail size: %w", err)
	}
	return &Asset{
		Type:             MediaTypePNG,
		Href:             abs,
		Title:            "Thumbnail",
		Roles:            []string{RoleThumbnail},
		AdditionalFields: map[string]any{"size": info.Size()},
	}, nil
}
