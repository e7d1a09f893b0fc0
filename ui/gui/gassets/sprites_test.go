package gassets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"chessgui/src/base"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// spriteDir writes all 12 sprites; each kind gets its own width so lookups can be told apart.
func spriteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, side := range base.Sides {
		for _, kind := range base.Kinds {
			writePNG(t, filepath.Join(dir, SpriteName(side, kind, "png")), 10+int(kind), 20+int(side), color.Black)
		}
	}
	return dir
}

func TestSpriteName(t *testing.T) {
	if got := SpriteName(base.Dark, base.King, "png"); got != "black_king.png" {
		t.Fatalf("SpriteName = %q", got)
	}
	if got := SpriteName(base.Light, base.Knight, ".svg"); got != "white_knight.svg" {
		t.Fatalf("SpriteName = %q", got)
	}
}

func TestLoadAndLookup(t *testing.T) {
	c, err := Load(spriteDir(t), "png", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, side := range base.Sides {
		for _, kind := range base.Kinds {
			b := c.Lookup(side, kind).Bounds()
			if b.Dx() != 10+int(kind) || b.Dy() != 20+int(side) {
				t.Fatalf("Lookup(%v, %v) bounds %v", side, kind, b)
			}
		}
	}
}

func TestLoadMissingSprite(t *testing.T) {
	dir := spriteDir(t)
	missing := filepath.Join(dir, "black_rook.png")
	if err := os.Remove(missing); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, "png", 0)
	var ae *AssetError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AssetError", err)
	}
	if ae.Path != missing || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("AssetError = %+v", ae)
	}
}

func TestLoadCorruptSprite(t *testing.T) {
	dir := spriteDir(t)
	if err := os.WriteFile(filepath.Join(dir, "white_queen.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	var ae *AssetError
	if _, err := Load(dir, "png", 0); !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AssetError", err)
	}
}

const pieceSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">
<circle cx="22.5" cy="22.5" r="15" fill="#000000"/>
</svg>`

func TestLoadSVG(t *testing.T) {
	dir := t.TempDir()
	for _, side := range base.Sides {
		for _, kind := range base.Kinds {
			if err := os.WriteFile(filepath.Join(dir, SpriteName(side, kind, "svg")), []byte(pieceSVG), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	c, err := Load(dir, "svg", 67)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	img := c.Lookup(base.Light, base.Pawn)
	if b := img.Bounds(); b.Dx() != 67 || b.Dy() != 67 {
		t.Fatalf("bounds = %v", b)
	}
	if _, _, _, a := img.At(33, 33).RGBA(); a == 0 {
		t.Fatal("center pixel transparent, svg not rasterized")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatal("corner pixel painted")
	}
}

func TestConvert(t *testing.T) {
	c, err := Load(spriteDir(t), "png", 0)
	if err != nil {
		t.Fatal(err)
	}
	widths := Convert(c, func(img image.Image) int { return img.Bounds().Dx() })
	if got := widths.Lookup(base.Dark, base.Pawn); got != 10+int(base.Pawn) {
		t.Fatalf("converted width = %d", got)
	}
}

func TestLookupInvalidPanics(t *testing.T) {
	c := &Catalog[int]{}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for NoKind")
		}
	}()
	c.Lookup(base.Light, base.NoKind)
}

func TestLoadFace(t *testing.T) {
	face, err := LoadFace("", 30)
	if err != nil {
		t.Fatalf("LoadFace: %v", err)
	}
	if face.Metrics().Height <= 0 {
		t.Fatal("face without height")
	}
	var ae *AssetError
	if _, err := LoadFace(filepath.Join(t.TempDir(), "none.ttf"), 30); !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AssetError", err)
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	writePNG(t, path, 16, 16, color.White)
	img, err := LoadImage(path, 0)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	var ae *AssetError
	if _, err := LoadImage(path+".missing", 0); !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AssetError", err)
	}
}
