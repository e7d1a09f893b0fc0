// Package gdraw turns a board snapshot, the highlighted squares and an
// optional status line into an ordered list of draw commands. It does not
// draw anything itself.
package gdraw

import (
	"fmt"
	"image"
	"image/color"

	"chessgui/src/base"

	"golang.org/x/image/font"
)

// BannerPadding is added left and right of the status text.
const BannerPadding = 8

type Op uint8

const (
	OpClear Op = iota
	OpFillRect
	OpText
	OpSprite
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpFillRect:
		return "fill"
	case OpText:
		return "text"
	case OpSprite:
		return "sprite"
	default:
		return "invalid"
	}
}

// Command is one drawing step. Rect is used by fill and sprite, Dot is
// the text baseline origin.
type Command struct {
	Op     Op
	Rect   image.Rectangle
	Color  color.Color
	Radius int
	Text   string
	Dot    image.Point
	Piece  base.Piece
}

// Measurer reports the pixel size of a text string and the offset from
// the top-left of its bounding box to the baseline origin.
type Measurer interface {
	Measure(s string) (size, dot image.Point)
}

// FaceMeasurer measures with a font face.
type FaceMeasurer struct {
	Face font.Face
}

func (m FaceMeasurer) Measure(s string) (image.Point, image.Point) {
	b, _ := font.BoundString(m.Face, s)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	maxX, maxY := b.Max.X.Ceil(), b.Max.Y.Ceil()
	return image.Pt(maxX-minX, maxY-minY), image.Pt(-minX, -minY)
}

type Layout struct {
	CellW int
	CellH int
}

func (l Layout) Width() int  { return l.CellW * base.BoardSize }
func (l Layout) Height() int { return l.CellH * base.BoardSize }

// Cell is the pixel rectangle of sq.
func (l Layout) Cell(sq base.Square) image.Rectangle {
	x, y := sq.File*l.CellW, sq.Rank*l.CellH
	return image.Rect(x, y, x+l.CellW, y+l.CellH)
}

type Renderer struct {
	Layout       Layout
	Palette      Palette
	Measurer     Measurer
	BannerRadius int
}

// TileColor is the palette white for even (file+rank), black otherwise.
func (r *Renderer) TileColor(sq base.Square) color.Color {
	if (sq.File+sq.Rank)%2 == 0 {
		return r.Palette.WhiteTile
	}
	return r.Palette.BlackTile
}

// Render lists the commands for one frame: background, tiles, status
// banner, highlights, pieces. status "" hides the banner.
func (r *Renderer) Render(sn base.Snapshot, highlights []base.Square, status string) []Command {
	cmds := make([]Command, 0, 1+64+2+len(highlights)+32)
	cmds = append(cmds, Command{Op: OpClear, Color: r.Palette.Bg})

	for i := 0; i < base.BoardSize*base.BoardSize; i++ {
		sq := base.SquareFromIndex(i)
		cmds = append(cmds, Command{Op: OpFillRect, Rect: r.Layout.Cell(sq), Color: r.TileColor(sq)})
	}

	if status != "" {
		cmds = append(cmds, r.banner(status)...)
	}

	seen := make(map[base.Square]bool, len(highlights))
	for _, sq := range highlights {
		if !sq.Valid() || seen[sq] {
			continue
		}
		seen[sq] = true
		cmds = append(cmds, Command{Op: OpFillRect, Rect: r.Layout.Cell(sq), Color: r.Palette.Highlight})
	}

	sn.Occupied(func(sq base.Square, p base.Piece) {
		cmds = append(cmds, Command{Op: OpSprite, Rect: r.Layout.Cell(sq), Piece: p})
	})
	return cmds
}

func (r *Renderer) banner(status string) []Command {
	size, dot := r.Measurer.Measure(status)
	tx := (r.Layout.Width() - size.X) / 2
	ty := (r.Layout.Height() - size.Y) / 2
	box := image.Rect(tx-BannerPadding, ty, tx+size.X+BannerPadding, ty+size.Y)
	return []Command{
		{Op: OpFillRect, Rect: box, Color: r.Palette.BannerFill, Radius: r.BannerRadius},
		{Op: OpText, Text: status, Dot: image.Pt(tx+dot.X, ty+dot.Y), Color: r.Palette.BannerText},
	}
}

// StatusText is the banner line for gs, empty while the game is in progress.
func StatusText(gs base.GameState) string {
	if gs == base.InProgress {
		return ""
	}
	return fmt.Sprintf("Game is %s.", gs)
}
