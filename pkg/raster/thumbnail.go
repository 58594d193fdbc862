package raster

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strconv"

	xdraw "golang.org/x/image/draw"
)

// DefaultThumbnailSize caps the longest thumbnail axis in pixels.
const DefaultThumbnailSize = 256

// WriteContinuousThumbnail renders the grid through a continuous colormap
// normalised over [vmin, vmax] and writes a PNG to path. NaN cells come
// out transparent.
func WriteContinuousThumbnail(grid *Grid, path string, ramp Ramp, vmin, vmax float64, reversed bool, maxSize int) error {
	if vmax <= vmin {
		return fmt.Errorf("raster: invalid thumbnail range [%v, %v]", vmin, vmax)
	}

	img := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	span := vmax - vmin
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			v := grid.At(x, y)
			if math.IsNaN(v) {
				continue // transparent
			}
			img.SetNRGBA(x, y, ramp.At((v-vmin)/span, reversed))
		}
	}

	return writePNG(resize(img, maxSize, xdraw.ApproxBiLinear), path)
}

// WriteDiscreteThumbnail renders categorical data using per-class colors
// given as "rrggbb" hex hints. Unmapped and NaN cells are transparent.
// Nearest-neighbour scaling keeps class values intact.
func WriteDiscreteThumbnail(grid *Grid, path string, classColors map[int]string, maxSize int) error {
	palette := make(map[int]color.NRGBA, len(classColors))
	for value, hint := range classColors {
		c, err := parseColorHint(hint)
		if err != nil {
			return fmt.Errorf("raster: class %d: %w", value, err)
		}
		palette[value] = c
	}

	img := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			v := grid.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			if c, ok := palette[int(v)]; ok {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	return writePNG(resize(img, maxSize, xdraw.NearestNeighbor), path)
}

// FileToBase64 returns the file content base64-encoded, as embedded in the
// thumbnail_b64 item property.
func FileToBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("raster: reading %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func resize(img *image.NRGBA, maxSize int, scaler xdraw.Scaler) *image.NRGBA {
	if maxSize <= 0 {
		maxSize = DefaultThumbnailSize
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	dst := image.NewNRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	scaler.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

func writePNG(img *image.NRGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("raster: encoding %s: %w", path, err)
	}
	return nil
}

// parseColorHint parses an rrggbb hint into a colour. Channels are
// parsed by slice: some published class tables (the CORINE nomenclature
// among them) carry hints with a truncated blue channel, and those must
// still render.
func parseColorHint(hint string) (color.NRGBA, error) {
	if len(hint) > 0 && hint[0] == '#' {
		hint = hint[1:]
	}
	if len(hint) < 5 || len(hint) > 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color hint %q", hint)
	}

	var channels [3]uint8
	for i := range channels {
		lo := i * 2
		hi := lo + 2
		if hi > len(hint) {
			hi = len(hint)
		}
		v, err := strconv.ParseUint(hint[lo:hi], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color hint %q", hint)
		}
		channels[i] = uint8(v)
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}
