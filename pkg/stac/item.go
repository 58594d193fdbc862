package stac

import "encoding/json"

// Item is a STAC Item, a GeoJSON Feature carrying the asset map and
// metadata of one catalogued scene. Extension fields such as "proj:epsg"
// live in Properties; members outside the core schema survive a
// decode/encode round trip through AdditionalFields, which is what lets
// catalogue-served classification tables reach the output catalogues
// intact.
type Item struct {
	Type       string            `json:"type"`
	Version    string            `json:"stac_version"`
	Extensions []string          `json:"stac_extensions,omitempty"`
	Id         string            `json:"id"`
	Geometry   any               `json:"geometry"`
	Bbox       []float64         `json:"bbox,omitempty"`
	Properties map[string]any    `json:"properties"`
	Links      []*Link           `json:"links"`
	Assets     map[string]*Asset `json:"assets"`
	Collection string            `json:"collection,omitempty"`

	// AdditionalFields collects every top-level member that is not one
	// of the core fields above.
	AdditionalFields map[string]any `json:"-"`
}

var knownItemFields = map[string]bool{
	"type": true, "stac_version": true, "stac_extensions": true,
	"id": true, "geometry": true, "bbox": true, "properties": true,
	"links": true, "assets": true, "collection": true,
}

// UnmarshalJSON decodes the core fields, then takes a second pass over
// the raw object to pick up anything the struct has no field for.
func (item *Item) UnmarshalJSON(data []byte) error {
	type itemAlias Item
	var aux itemAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*item = Item(aux)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	item.AdditionalFields = make(map[string]any)
	for key, val := range raw {
		if !knownItemFields[key] {
			var decoded any
			if err := json.Unmarshal(val, &decoded); err != nil {
				continue
			}
			item.AdditionalFields[key] = decoded
		}
	}

	return nil
}

// MarshalJSON folds AdditionalFields back into the encoded object so
// written items carry the same members they were read with.
func (item Item) MarshalJSON() ([]byte, error) {
	type itemAlias Item
	aux := itemAlias(item)

	data, err := json.Marshal(aux)
	if err != nil {
		return nil, err
	}

	if len(item.AdditionalFields) == 0 {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	for key, val := range item.AdditionalFields {
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		obj[key] = encoded
	}

	return json.Marshal(obj)
}

// Datetime returns the item's "datetime" property if set.
func (item *Item) Datetime() string {
	if item.Properties == nil {
		return ""
	}
	dt, _ := item.Properties["datetime"].(string)
	return dt
}

// SelfHref returns the href of the rel="self" link, or "".
func (item *Item) SelfHref() string {
	for _, link := range item.Links {
		if link != nil && link.Rel == "self" {
			return link.Href
		}
	}
	return ""
}
