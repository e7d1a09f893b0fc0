package cli

import (
	"fmt"
	"io"
	"os"

	"chessgui/src/base"
	"chessgui/src/interact"
	"chessgui/src/logx"
	"chessgui/ui/gui/gdraw"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/term"
)

type CLIProcessing struct {
	machine  *interact.Machine
	renderer *gdraw.Renderer
	executor *TermExecutor
	out      io.Writer
	logx     logx.Logger
}

// NewCLI prints through the same renderer as the window, with a fixed
// cell layout and a bitmap face for banner metrics.
func NewCLI(m *interact.Machine, layout gdraw.Layout, palette gdraw.Palette, color bool, out io.Writer, l logx.Logger) *CLIProcessing {
	return &CLIProcessing{
		machine: m,
		renderer: &gdraw.Renderer{
			Layout:   layout,
			Palette:  palette,
			Measurer: gdraw.FaceMeasurer{Face: basicfont.Face7x13},
		},
		executor: &TermExecutor{Layout: layout, Palette: palette, Color: color},
		out:      out,
		logx:     l,
	}
}

// ColorOutput reports whether f is a terminal able to show ANSI colors.
func ColorOutput(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) && EnableANSI(f)
}

// PrintBoard prints the current position. A non-empty from selects that
// square first, so its legal destinations are marked.
func (c *CLIProcessing) PrintBoard(from string) error {
	var selectErr error
	if from != "" {
		sq, err := base.SquareFromAlgebraic(from)
		if err != nil {
			return err
		}
		l := c.renderer.Layout
		c.machine.Click(sq.File*l.CellW+l.CellW/2, sq.Rank*l.CellH+l.CellH/2)
		if _, ok := c.machine.Selection().(interact.AwaitingTarget); !ok {
			selectErr = fmt.Errorf("select %v: %w", sq, base.ErrNoLegalMoves)
		}
	}

	game := c.machine.Game()
	cmds := c.renderer.Render(game.Snapshot(), c.machine.Highlights(), gdraw.StatusText(game.State()))
	if err := c.executor.Execute(c.out, cmds); err != nil {
		return err
	}
	if fg, ok := game.(interface{ FEN() string }); ok {
		fmt.Fprintf(c.out, "\nFEN: %s\n", fg.FEN())
	}
	return selectErr
}
