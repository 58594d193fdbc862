package stac

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Version is the STAC specification version stamped on generated objects.
const Version = "1.0.0"

// Catalog is a static, self-contained STAC catalog: a catalog.json plus
// one sub-directory per item. This is the output layout consumed by the
// platform after a processing job finishes.
type Catalog struct {
	Type        string  `json:"type"`
	Version     string  `json:"stac_version"`
	Id          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description"`
	Links       []*Link `json:"links"`

	items []*Item
}

// NewCatalog creates an empty catalog.
func NewCatalog(id, title, description string) *Catalog {
	return &Catalog{
		Type:        "Catalog",
		Version:     Version,
		Id:          id,
		Title:       title,
		Description: description,
	}
}

// AddItem appends an item to the catalog.
func (c *Catalog) AddItem(item *Item) {
	c.items = append(c.items, item)
}

// Items returns the catalog items in insertion order.
func (c *Catalog) Items() []*Item {
	return c.items
}

// WriteCatalog persists the catalog under dir as a self-contained static
// catalog: dir/catalog.json and dir/<item-id>/<item-id>.json. Local asset
// hrefs are rewritten relative to the item document; remote hrefs are kept.
func WriteCatalog(c *Catalog, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("stac: resolving output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return fmt.Errorf("stac: creating output dir: %w", err)
	}

	links := []*Link{{Href: "./catalog.json", Rel: "root", Type: MediaTypeJSON}}

	for _, item := range c.items {
		itemDir := filepath.Join(absDir, item.Id)
		if err := os.MkdirAll(itemDir, 0o755); err != nil {
			return fmt.Errorf("stac: creating item dir for %s: %w", item.Id, err)
		}

		item.Type = "Feature"
		if item.Version == "" {
			item.Version = Version
		}
		item.Links = []*Link{
			{Href: "../catalog.json", Rel: "root", Type: MediaTypeJSON},
			{Href: "../catalog.json", Rel: "parent", Type: MediaTypeJSON},
		}
		for _, asset := range item.Assets {
			asset.Href = relativeHref(asset.Href, itemDir)
		}

		data, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("stac: encoding item %s: %w", item.Id, err)
		}
		itemPath := filepath.Join(itemDir, item.Id+".json")
		if err := os.WriteFile(itemPath, data, 0o644); err != nil {
			return fmt.Errorf("stac: writing item %s: %w", item.Id, err)
		}

		links = append(links, &Link{
			Href: fmt.Sprintf("./%s/%s.json", item.Id, item.Id),
			Rel:  "item",
			Type: "application/geo+json",
		})
	}

	c.Links = links
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("stac: encoding catalog: %w", err)
	}
	if err := os.WriteFile(filepath.Join(absDir, "catalog.json"), data, 0o644); err != nil {
		return fmt.Errorf("stac: writing catalog.json: %w", err)
	}
	return nil
}

// ReadCatalog loads a self-contained catalog from dir, following rel="item"
// links and resolving relative asset hrefs to absolute paths.
func ReadCatalog(dir string) (*Catalog, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("stac: resolving catalog dir: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(absDir, "catalog.json"))
	if err != nil {
		return nil, fmt.Errorf("stac: reading catalog.json: %w", err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("stac: decoding catalog.json: %w", err)
	}

	for _, link := range catalog.Links {
		if link == nil || link.Rel != "item" {
			continue
		}
		itemPath := filepath.Join(absDir, filepath.FromSlash(link.Href))
		raw, err := os.ReadFile(itemPath)
		if err != nil {
			return nil, fmt.Errorf("stac: reading item %s: %w", link.Href, err)
		}
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("stac: decoding item %s: %w", link.Href, err)
		}
		itemDir := filepath.Dir(itemPath)
		for _, asset := range item.Assets {
			asset.Href = absoluteHref(asset.Href, itemDir)
		}
		catalog.items = append(catalog.items, &item)
	}

	return &catalog, nil
}

// relativeHref rewrites a local absolute path relative to baseDir. Remote
// hrefs and already-relative paths pass through unchanged.
func relativeHref(href, baseDir string) string {
	if isRemote(href) || !filepath.IsAbs(href) {
		return href
	}
	rel, err := filepath.Rel(baseDir, href)
	if err != nil {
		return href
	}
	return filepath.ToSlash(rel)
}

// absoluteHref resolves a relative local href against baseDir.
func absoluteHref(href, baseDir string) string {
	if isRemote(href) || filepath.IsAbs(href) {
		return href
	}
	return filepath.Join(baseDir, filepath.FromSlash(href))
}

func isRemote(href string) bool {
	u, err := url.Parse(href)
	return err == nil && u.Scheme != ""
}
