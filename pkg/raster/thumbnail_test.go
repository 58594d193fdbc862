package raster

import (
	"encoding/base64"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRamp_At(t *testing.T) {
	low := Jet.At(0, false)
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 128, A: 255}, low)

	high := Jet.At(1, false)
	assert.Equal(t, color.NRGBA{R: 128, G: 0, B: 0, A: 255}, high)

	// Out-of-range values clamp to the ends.
	assert.Equal(t, low, Jet.At(-3, false))
	assert.Equal(t, high, Jet.At(42, false))

	// Reversed flips the ramp.
	assert.Equal(t, high, Jet.At(0, true))

	mid := YlGn.At(0.125, false)
	assert.Equal(t, color.NRGBA{R: 236, G: 248, B: 196, A: 255}, mid)
}

func TestRampByName(t *testing.T) {
	ramp, ok := RampByName("jet")
	require.True(t, ok)
	assert.Equal(t, "jet", ramp.Name)

	_, ok = RampByName("viridis")
	assert.False(t, ok)
}

func TestParseColorHint(t *testing.T) {
	c, err := parseColorHint("0064c8")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0, G: 100, B: 200, A: 255}, c)

	c, err = parseColorHint("#ffffff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c)

	// Truncated blue channels, as shipped in the CORINE nomenclature.
	c, err = parseColorHint("600cc")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x60, G: 0x0c, B: 0x0c, A: 255}, c)

	c, err = parseColorHint("6e600")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x6e, G: 0x60, B: 0x00, A: 255}, c)

	_, err = parseColorHint("xyz")
	assert.Error(t, err)
	_, err = parseColorHint("gggggg")
	assert.Error(t, err)
	_, err = parseColorHint("ffff")
	assert.Error(t, err)
}

func TestWriteContinuousThumbnail(t *testing.T) {
	grid := NewGrid(2, 2, [6]float64{}, 4326)
	grid.Data = []float64{-1, 0, 1, math.NaN()}

	path := filepath.Join(t.TempDir(), "thumb.png")
	require.NoError(t, WriteContinuousThumbnail(grid, path, YlGn, -1, 1, false, DefaultThumbnailSize))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	// The NaN cell stays transparent.
	_, _, _, alpha := img.At(1, 1).RGBA()
	assert.Zero(t, alpha)
	_, _, _, alpha = img.At(0, 0).RGBA()
	assert.NotZero(t, alpha)
}

func TestWriteContinuousThumbnail_InvalidRange(t *testing.T) {
	grid := NewGrid(1, 1, [6]float64{}, 0)
	err := WriteContinuousThumbnail(grid, filepath.Join(t.TempDir(), "t.png"), YlGn, 1, 1, false, 0)
	assert.Error(t, err)
}

func TestWriteContinuousThumbnail_Downscales(t *testing.T) {
	grid := NewGrid(64, 32, [6]float64{}, 0)
	for i := range grid.Data {
		grid.Data[i] = float64(i % 10)
	}

	path := filepath.Join(t.TempDir(), "thumb.png")
	require.NoError(t, WriteContinuousThumbnail(grid, path, Jet, 0, 10, false, 16))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestWriteDiscreteThumbnail(t *testing.T) {
	grid := NewGrid(2, 2, [6]float64{}, 4326)
	grid.Data = []float64{0, 1, 1, 99}

	colors := map[int]string{0: "ffffff", 1: "0064c8"}
	path := filepath.Join(t.TempDir(), "thumb.png")
	require.NoError(t, WriteDiscreteThumbnail(grid, path, colors, DefaultThumbnailSize))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	r, g, b, alpha := img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(100), g>>8)
	assert.Equal(t, uint32(200), b>>8)
	assert.Equal(t, uint32(255), alpha>>8)

	// The unmapped class stays transparent.
	_, _, _, alpha = img.At(1, 1).RGBA()
	assert.Zero(t, alpha)
}

func TestWriteDiscreteThumbnail_TruncatedHints(t *testing.T) {
	grid := NewGrid(3, 1, [6]float64{}, 4326)
	grid.Data = []float64{7, 14, 23}

	// Mineral extraction sites and rice fields carry 5-char hints.
	colors := map[int]string{7: "600cc", 14: "6e600", 23: "80ff00"}
	path := filepath.Join(t.TempDir(), "thumb.png")
	require.NoError(t, WriteDiscreteThumbnail(grid, path, colors, DefaultThumbnailSize))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0x60), r>>8)
	assert.Equal(t, uint32(0x0c), g>>8)
	assert.Equal(t, uint32(0x0c), b>>8)

	r, g, b, _ = img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0x6e), r>>8)
	assert.Equal(t, uint32(0x60), g>>8)
	assert.Equal(t, uint32(0x00), b>>8)
}

func TestWriteDiscreteThumbnail_BadColor(t *testing.T) {
	grid := NewGrid(1, 1, [6]float64{}, 0)
	err := WriteDiscreteThumbnail(grid, filepath.Join(t.TempDir(), "t.png"), map[int]string{1: "nothex"}, 0)
	assert.Error(t, err)
}

func TestFileToBase64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("thumbnail-bytes"), 0o644))

	encoded, err := FileToBase64(path)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "thumbnail-bytes", string(decoded))

	_, err = FileToBase64(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
