package stac

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MergeCatalogs combines two self-contained catalogs into a new catalog
// under outputDir. Local assets are copied next to their item documents;
// when both catalogs carry an item with the same ID, the first occurrence
// wins.
func MergeCatalogs(dir1, dir2, outputDir string) (*Catalog, error) {
	first, err := ReadCatalog(dir1)
	if err != nil {
		return nil, err
	}
	second, err := ReadCatalog(dir2)
	if err != nil {
		return nil, err
	}

	merged := NewCatalog("merged-catalog", "Merged catalog",
		"Merged STAC catalog combining assets from two input catalogs")

	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("stac: resolving output dir: %w", err)
	}

	seen := map[string]bool{}
	for _, item := range append(first.Items(), second.Items()...) {
		if seen[item.Id] {
			continue
		}
		seen[item.Id] = true

		for _, asset := range item.Assets {
			if isRemote(asset.Href) {
				continue
			}
			dst := filepath.Join(absOut, item.Id, filepath.Base(asset.Href))
			if err := copyFile(asset.Href, dst); err != nil {
				return nil, fmt.Errorf("stac: copying asset for %s: %w", item.Id, err)
			}
			asset.Href = dst
		}
		merged.AddItem(item)
	}

	if err := WriteCatalog(merged, absOut); err != nil {
		return nil, err
	}
	return merged, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
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

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
