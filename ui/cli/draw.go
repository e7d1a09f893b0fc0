package cli

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"chessgui/src/base"
	"chessgui/ui/gui/gdraw"
)

// ANSI-code
const (
	reset     = "\033[0m"
	lightBg   = "\033[47m"
	darkBg    = "\033[100m"
	markBg    = "\033[43m"
	whiteF    = "\033[97m"
	blackF    = "\033[30m"
	bannerSty = "\033[1;7m"
)

type tile uint8

const (
	tileNone tile = iota
	tileLight
	tileDark
)

type cell struct {
	tile   tile
	marked bool
	piece  base.Piece
}

// TermExecutor prints the command stream of one frame as a text board,
// rank 8 on top. Color selects ANSI escapes, otherwise plain ASCII.
type TermExecutor struct {
	Layout  gdraw.Layout
	Palette gdraw.Palette
	Color   bool
}

func (e *TermExecutor) Execute(w io.Writer, cmds []gdraw.Command) error {
	var (
		grid   [base.BoardSize][base.BoardSize]cell
		status string
	)
	for _, c := range cmds {
		switch c.Op {
		case gdraw.OpClear:
		case gdraw.OpFillRect:
			sq, ok := e.cellOf(c)
			if !ok {
				// banner box, its text follows
				continue
			}
			switch {
			case sameColor(c.Color, e.Palette.Highlight):
				grid[sq.Rank][sq.File].marked = true
			case sameColor(c.Color, e.Palette.WhiteTile):
				grid[sq.Rank][sq.File].tile = tileLight
			default:
				grid[sq.Rank][sq.File].tile = tileDark
			}
		case gdraw.OpText:
			status = c.Text
		case gdraw.OpSprite:
			sq, ok := e.cellOf(c)
			if !ok {
				return fmt.Errorf("sprite %v outside board at %v", c.Piece, c.Rect)
			}
			grid[sq.Rank][sq.File].piece = c.Piece
		default:
			return fmt.Errorf("unknown draw op %v", c.Op)
		}
	}

	var sb strings.Builder
	sb.WriteString("\n   a  b  c  d  e  f  g  h\n")
	for rank := base.BoardSize - 1; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < base.BoardSize; file++ {
			sb.WriteString(e.cell(grid[rank][file]))
		}
		fmt.Fprintf(&sb, " %d\n", rank+1)
	}
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	if status != "" {
		if e.Color {
			fmt.Fprintf(&sb, "\n%s %s %s\n", bannerSty, status, reset)
		} else {
			fmt.Fprintf(&sb, "\n%s\n", status)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// cellOf maps a cell-sized, cell-aligned rectangle back to its square.
func (e *TermExecutor) cellOf(c gdraw.Command) (base.Square, bool) {
	r := c.Rect
	if r.Dx() != e.Layout.CellW || r.Dy() != e.Layout.CellH ||
		r.Min.X%e.Layout.CellW != 0 || r.Min.Y%e.Layout.CellH != 0 {
		return base.Square{}, false
	}
	sq := base.Square{File: r.Min.X / e.Layout.CellW, Rank: r.Min.Y / e.Layout.CellH}
	return sq, sq.Valid()
}

func (e *TermExecutor) cell(c cell) string {
	if !e.Color {
		g := plainGlyph(c.piece)
		switch {
		case c.marked && c.piece.Empty():
			return " * "
		case c.marked:
			return "*" + g + " "
		default:
			return " " + g + " "
		}
	}

	bg := darkBg
	if c.tile == tileLight {
		bg = lightBg
	}
	if c.marked {
		bg = markBg
	}
	fg := blackF
	if !c.piece.Empty() && c.piece.Side == base.Light && c.tile != tileLight {
		fg = whiteF
	}
	g := pieceGlyph(c.piece)
	if c.marked && c.piece.Empty() {
		g = "·"
	}
	return fmt.Sprintf("%s%s %s %s", bg, fg, g, reset)
}

// Piece -> unicode glyph
func pieceGlyph(p base.Piece) string {
	if p.Empty() {
		return " "
	}
	white := [...]string{"♔", "♕", "♖", "♗", "♘", "♙"}
	black := [...]string{"♚", "♛", "♜", "♝", "♞", "♟"}
	if p.Side == base.Light {
		return white[p.Kind-1]
	}
	return black[p.Kind-1]
}

// Piece -> FEN letter, '.' for empty
func plainGlyph(p base.Piece) string {
	if p.Empty() {
		return "."
	}
	l := [...]string{"k", "q", "r", "b", "n", "p"}[p.Kind-1]
	if p.Side == base.Light {
		return strings.ToUpper(l)
	}
	return l
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
