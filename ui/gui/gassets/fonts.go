package gassets

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LoadFace parses a TTF/OTF file at the given pixel size. An empty path
// uses the embedded Go Regular font.
func LoadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, &AssetError{Path: path, Err: err}
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &AssetError{Path: path, Err: fmt.Errorf("parse font: %w", err)}
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	return face, nil
}
