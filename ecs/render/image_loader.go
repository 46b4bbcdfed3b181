package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// PlaceholderSize is the edge length of generated placeholder images.
const PlaceholderSize = 24

// AssetRoots are searched, in order, for image files.
var AssetRoots = []string{".", "assets"}

var placeholderPalette = []color.RGBA{
	colornames.Goldenrod,
	colornames.Indianred,
	colornames.Mediumseagreen,
	colornames.Steelblue,
	colornames.Orchid,
	colornames.Darkorange,
	colornames.Lightslategray,
	colornames.Tomato,
}

// LoadImage decodes the image at key from the first asset root that has it,
// falling back to a generated placeholder when no file exists.
func LoadImage(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("render: empty image key")
	}
	for _, root := range AssetRoots {
		b, err := os.ReadFile(filepath.Join(root, key))
		if err != nil {
			continue
		}
		im, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("render: decode %s: %w", key, err)
		}
		return ebiten.NewImageFromImage(im), nil
	}
	return Placeholder(key), nil
}

// PlaceholderColor picks a stable palette color for an asset key.
func PlaceholderColor(key string) color.RGBA {
	return placeholderPalette[xxhash.Sum64String(key)%uint64(len(placeholderPalette))]
}

// IsRound reports whether the asset is drawn as a disc rather than a hull.
func IsRound(key string) bool {
	name := strings.ToLower(filepath.Base(key))
	return strings.Contains(name, "round") || strings.Contains(name, "ball") || strings.Contains(name, "planet")
}

// Placeholder draws a flat stand-in for key: a disc for round assets, and a
// hull with its bow toward +y for everything else.
func Placeholder(key string) *ebiten.Image {
	const s = float32(PlaceholderSize)
	img := ebiten.NewImage(PlaceholderSize, PlaceholderSize)
	clr := PlaceholderColor(key)
	if IsRound(key) {
		vector.FillCircle(img, s/2, s/2, s/2, clr, true)
		return img
	}
	vector.FillRect(img, s/4, 0, s/2, s*3/4, clr, false)
	vector.FillCircle(img, s/2, s*3/4, s/4, clr, true)
	vector.StrokeLine(img, s/2, s/4, s/2, s, 2, colornames.Black, false)
	return img
}
