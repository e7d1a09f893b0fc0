package gui

import (
	"fmt"
	"image/color"

	"chessgui/ui/gui/gassets"
	"chessgui/ui/gui/gdraw"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

type roundedKey struct {
	w, h, r int
	c       color.RGBA
}

// screenExecutor replays draw commands onto an ebiten image.
type screenExecutor struct {
	sprites *gassets.Catalog[*ebiten.Image]
	face    font.Face
	rounded map[roundedKey]*ebiten.Image
}

func newScreenExecutor(sprites *gassets.Catalog[*ebiten.Image], face font.Face) *screenExecutor {
	return &screenExecutor{
		sprites: sprites,
		face:    face,
		rounded: make(map[roundedKey]*ebiten.Image),
	}
}

func (s *screenExecutor) Execute(dst *ebiten.Image, cmds []gdraw.Command) error {
	for _, c := range cmds {
		switch c.Op {
		case gdraw.OpClear:
			dst.Fill(c.Color)
		case gdraw.OpFillRect:
			if c.Radius > 0 {
				s.fillRounded(dst, c)
				continue
			}
			r := c.Rect
			vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c.Color, false)
		case gdraw.OpText:
			text.Draw(dst, c.Text, s.face, c.Dot.X, c.Dot.Y, c.Color)
		case gdraw.OpSprite:
			img := s.sprites.Lookup(c.Piece.Side, c.Piece.Kind)
			if img == nil {
				return fmt.Errorf("no sprite for %v", c.Piece)
			}
			b := img.Bounds()
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(float64(c.Rect.Dx())/float64(b.Dx()), float64(c.Rect.Dy())/float64(b.Dy()))
			op.GeoM.Translate(float64(c.Rect.Min.X), float64(c.Rect.Min.Y))
			op.Filter = ebiten.FilterLinear
			dst.DrawImage(img, op)
		default:
			return fmt.Errorf("unknown draw op %v", c.Op)
		}
	}
	return nil
}

// fillRounded draws an anti-aliased rounded rectangle rendered once by gg
// and reused while the banner geometry stays the same.
func (s *screenExecutor) fillRounded(dst *ebiten.Image, c gdraw.Command) {
	key := roundedKey{
		w: c.Rect.Dx(),
		h: c.Rect.Dy(),
		r: c.Radius,
		c: color.RGBAModel.Convert(c.Color).(color.RGBA),
	}
	img, ok := s.rounded[key]
	if !ok {
		dc := gg.NewContext(key.w, key.h)
		dc.SetColor(key.c)
		dc.DrawRoundedRectangle(0, 0, float64(key.w), float64(key.h), float64(key.r))
		dc.Fill()
		img = ebiten.NewImageFromImage(dc.Image())
		s.rounded[key] = img
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(c.Rect.Min.X), float64(c.Rect.Min.Y))
	dst.DrawImage(img, op)
}
