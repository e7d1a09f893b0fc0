package gui

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"chessgui/src/interact"
	"chessgui/src/logx"
	"chessgui/ui/gui/gassets"
	"chessgui/ui/gui/gclipboard"
	"chessgui/ui/gui/gconf"
	"chessgui/ui/gui/gdraw"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ErrExit = errors.New("exit game")

type fenGame interface {
	FEN() string
}

type GUIProcessing struct {
	conf     *gconf.Config
	machine  *interact.Machine
	renderer *gdraw.Renderer
	screen   *screenExecutor
	icon     image.Image

	resetKey ebiten.Key
	copyKey  ebiten.Key
	quitKey  ebiten.Key

	// first executor failure, returned from the next Update
	drawErr error
	logx    logx.Logger
}

// NewGUI loads sprites and the banner font. Any asset failure aborts
// before a window is opened.
func NewGUI(conf *gconf.Config, m *interact.Machine, l logx.Logger) (*GUIProcessing, error) {
	sprites, err := gassets.Load(conf.AssetsDir, conf.SpriteExt, conf.CellSize)
	if err != nil {
		return nil, err
	}
	face, err := gassets.LoadFace(conf.FontPath, float64(conf.FontSize))
	if err != nil {
		return nil, err
	}
	var icon image.Image
	if conf.Icon != "" {
		if icon, err = gassets.LoadImage(conf.Icon, 64); err != nil {
			l.Warnf("window icon: %v", err)
			icon = nil
		}
	}

	gpu := gassets.Convert(sprites, func(img image.Image) *ebiten.Image {
		return ebiten.NewImageFromImage(img)
	})
	l.Infof("loaded sprites from %s (*.%s)", conf.AssetsDir, conf.SpriteExt)
	palette := gdraw.PaletteFromString(conf.Theme)
	l.Infof("theme %s", palette)

	return &GUIProcessing{
		conf:    conf,
		machine: m,
		renderer: &gdraw.Renderer{
			Layout:       gdraw.Layout{CellW: conf.CellSize, CellH: conf.CellSize},
			Palette:      palette,
			Measurer:     gdraw.FaceMeasurer{Face: face},
			BannerRadius: conf.BannerRadius,
		},
		screen:   newScreenExecutor(gpu, face),
		icon:     icon,
		resetKey: parseKey(conf.ResetKey, ebiten.KeyR, l),
		copyKey:  parseKey(conf.CopyKey, ebiten.KeyC, l),
		quitKey:  ebiten.KeyEscape,
		logx:     l,
	}, nil
}

func parseKey(name string, def ebiten.Key, l logx.Logger) ebiten.Key {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		l.Warnf("unknown key %q, using %v", name, def)
		return def
	}
	return k
}

func (gp *GUIProcessing) Run() error {
	w, h := gp.renderer.Layout.Width(), gp.renderer.Layout.Height()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(gp.conf.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	if gp.icon != nil {
		ebiten.SetWindowIcon([]image.Image{gp.icon})
	}
	gp.logx.Infof("open window %dx%d", w, h)
	return ebiten.RunGame(gp)
}

func (gp *GUIProcessing) Update() error {
	if gp.drawErr != nil {
		return fmt.Errorf("error draw frame: %w", gp.drawErr)
	}
	if inpututil.IsKeyJustPressed(gp.quitKey) {
		return ErrExit
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		gp.machine.Click(x, y)
	}
	if inpututil.IsKeyJustPressed(gp.resetKey) {
		gp.machine.Reset()
	}
	if inpututil.IsKeyJustPressed(gp.copyKey) {
		gp.copyFEN()
	}
	return nil
}

func (gp *GUIProcessing) copyFEN() {
	g, ok := gp.machine.Game().(fenGame)
	if !ok {
		return
	}
	if gclipboard.Unsupported() {
		gp.logx.Warn("clipboard unsupported on this system")
		return
	}
	fen := g.FEN()
	if err := gclipboard.WriteAll(fen); err != nil {
		gp.logx.Errorf("error copy FEN: %v", err)
		return
	}
	gp.logx.Infof("copied FEN %s", fen)
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	game := gp.machine.Game()
	status := gdraw.StatusText(game.State())
	cmds := gp.renderer.Render(game.Snapshot(), gp.machine.Highlights(), status)
	if err := gp.screen.Execute(screen, cmds); err != nil && gp.drawErr == nil {
		gp.logx.Errorf("error execute draw commands: %v", err)
		gp.drawErr = err
	}

	if gp.conf.Debug {
		sel := "idle"
		if at, ok := gp.machine.Selection().(interact.AwaitingTarget); ok {
			sel = "from " + at.Origin.String()
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f\n%s", ebiten.ActualTPS(), sel))
	}
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gp.renderer.Layout.Width(), gp.renderer.Layout.Height()
}
