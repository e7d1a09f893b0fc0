package gassets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"chessgui/src/base"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetError reports a sprite that could not be read or decoded.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("error load asset %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Catalog maps every (side, kind) pair to one image handle.
type Catalog[T any] struct {
	images [len(base.Sides)][len(base.Kinds)]T
}

// SpriteName is the file name of a sprite: <side>_<kind>.<ext>
func SpriteName(side base.Side, kind base.Kind, ext string) string {
	return fmt.Sprintf("%s_%s.%s", side, kind, strings.TrimPrefix(ext, "."))
}

// Load reads all 12 sprites from dir. SVG sprites are rasterized to
// size x size pixels; other formats keep their own size.
func Load(dir, ext string, size int) (*Catalog[image.Image], error) {
	c := &Catalog[image.Image]{}
	for si, side := range base.Sides {
		for ki, kind := range base.Kinds {
			path := filepath.Join(dir, SpriteName(side, kind, ext))
			img, err := loadImage(path, size)
			if err != nil {
				return nil, &AssetError{Path: path, Err: err}
			}
			c.images[si][ki] = img
		}
	}
	return c, nil
}

// Lookup returns the sprite of (side, kind). An unknown pair is a bug.
func (c *Catalog[T]) Lookup(side base.Side, kind base.Kind) T {
	si, ki := int(side), int(kind)-1
	if si < 0 || si >= len(c.images) || ki < 0 || ki >= len(c.images[si]) {
		panic(fmt.Sprintf("gassets: no sprite for %v %v", side, kind))
	}
	return c.images[si][ki]
}

// Convert maps every entry through fn, e.g. into GPU images.
func Convert[T, U any](c *Catalog[T], fn func(T) U) *Catalog[U] {
	out := &Catalog[U]{}
	for si := range c.images {
		for ki := range c.images[si] {
			out.images[si][ki] = fn(c.images[si][ki])
		}
	}
	return out
}

func loadImage(path string, size int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(data, size)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func rasterizeSVG(data []byte, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid svg raster size %d", size)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// LoadImage decodes a single raster or svg image, e.g. the window icon.
func LoadImage(path string, size int) (image.Image, error) {
	img, err := loadImage(path, size)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	return img, nil
}
