package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"chessgui/src/engine"
	"chessgui/src/engine/uci"
	"chessgui/src/interact"
	"chessgui/src/logx"
	clic "chessgui/ui/cli"
	"chessgui/ui/gui"
	"chessgui/ui/gui/gconf"
	"chessgui/ui/gui/gdialog"
	"chessgui/ui/gui/gdraw"

	"github.com/urfave/cli/v3"
)

const logfile string = "chessgui.log"

func GetLogger(file *os.File, c *cli.Command) *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString(c.String("level")),
		c.Bool("dev"),
		c.Bool("console"),
	)
	l.InitLogger(file)
	return l
}

// loadConfig reads the config file and applies flag overrides. With
// create a missing file is written with the defaults.
func loadConfig(c *cli.Command, create bool) (*gconf.Config, error) {
	load := gconf.Load
	if create {
		load = gconf.LoadOrCreate
	}
	conf, err := load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("fen") {
		conf.FEN = c.String("fen")
	}
	if c.IsSet("opponent") {
		conf.Opponent = c.String("opponent")
	}
	if c.IsSet("uci") {
		conf.UCIPath = c.String("uci")
		if !c.IsSet("opponent") {
			conf.Opponent = gconf.OpponentUCI
		}
	}
	if c.IsSet("assets") {
		conf.AssetsDir = c.String("assets")
	}
	if c.Bool("debug") {
		conf.Debug = true
	}
	conf.Normalize()
	return conf, nil
}

// newOpponent returns nil for a two-player game; closer releases an
// engine process.
func newOpponent(conf *gconf.Config, l *logx.Logx) (opp engine.Opponent, closer func(), err error) {
	closer = func() {}
	switch conf.Opponent {
	case gconf.OpponentRandom:
		return engine.NewRandomOpponent(uint64(time.Now().UnixNano())), closer, nil
	case gconf.OpponentUCI:
		e := uci.NewOpponent(l.Named("uci"), conf.MoveTime(), conf.UCIPath)
		if err := e.Init(); err != nil {
			return nil, closer, fmt.Errorf("error start engine %s: %w", conf.UCIPath, err)
		}
		return e, e.Close, nil
	default:
		return nil, closer, nil
	}
}

func newMachine(conf *gconf.Config, opp engine.Opponent, l *logx.Logx) (*interact.Machine, error) {
	factory, err := engine.NewFactory(engine.Options{
		StartingSide: conf.Starting(),
		PlayerSide:   conf.Player(),
		FEN:          conf.FEN,
	}, opp, l.Named("engine"))
	if err != nil {
		return nil, err
	}
	newGame := func() interact.Game { return factory.NewGame() }
	return interact.New(newGame, conf.CellSize, conf.CellSize, l.Named("interact")), nil
}

func RunGUI(c *cli.Command) error {
	file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error open logfile: %v", err)
	}
	defer file.Close()
	logger := GetLogger(file, c)
	defer logger.Sync() //nolint:errcheck

	fatal := func(err error) error {
		logger.Errorf("error init GUI: %v", err)
		gdialog.Fatal("chessgui", err)
		return fmt.Errorf("error init GUI: %w", err)
	}

	conf, err := loadConfig(c, true)
	if err != nil {
		return fatal(err)
	}
	opp, closeOpp, err := newOpponent(conf, logger)
	if err != nil {
		return fatal(err)
	}
	defer closeOpp()

	m, err := newMachine(conf, opp, logger)
	if err != nil {
		return fatal(err)
	}
	g, err := gui.NewGUI(conf, m, logger.Named("gui"))
	if err != nil {
		return fatal(err)
	}
	return g.Run()
}

func RunBoard(c *cli.Command) error {
	file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error open logfile: %v", err)
	}
	defer file.Close()
	logger := GetLogger(file, c)
	defer logger.Sync() //nolint:errcheck

	conf, err := loadConfig(c, false)
	if err != nil {
		return err
	}
	// the printed position comes from the flags only, no opponent moves
	m, err := newMachine(conf, nil, logger)
	if err != nil {
		return err
	}
	cl := clic.NewCLI(m,
		gdraw.Layout{CellW: conf.CellSize, CellH: conf.CellSize},
		gdraw.PaletteFromString(conf.Theme),
		clic.ColorOutput(os.Stdout),
		os.Stdout,
		logger.Named("cli"),
	)
	return cl.PrintBoard(c.String("from"))
}

func RunChessGUI() error {
	conff := &cli.StringFlag{
		Name:  "config",
		Usage: "path to config file (.json or .yaml)",
		Value: gconf.DefaultFile,
	}
	ff := &cli.StringFlag{
		Name:  "fen",
		Usage: "string FEN format",
	}
	of := &cli.StringFlag{
		Name:  "opponent",
		Usage: "none, random or uci",
	}
	uf := &cli.StringFlag{
		Name:  "uci",
		Usage: "path to UCI engine",
	}
	af := &cli.StringFlag{
		Name:  "assets",
		Usage: "sprite directory",
	}
	fromf := &cli.StringFlag{
		Name:  "from",
		Usage: "mark legal destinations of this square, e.g. e2",
	}
	dbgf := &cli.BoolFlag{
		Name:  "debug",
		Usage: "debug overlay",
	}
	df := &cli.BoolFlag{
		Name:    "dev",
		Aliases: []string{"d"},
		Usage:   "dev encode log",
	}
	lf := &cli.StringFlag{
		Name:        "level",
		Aliases:     []string{"l"},
		Usage:       "level log",
		DefaultText: "info",
	}
	cf := &cli.BoolFlag{
		Name:    "console",
		Aliases: []string{"c"},
		Usage:   "console log",
	}
	guiff := []cli.Flag{conff, ff, of, uf, af, dbgf, df, lf, cf}
	boardff := []cli.Flag{conff, ff, fromf, df, lf, cf}

	runGUI := func(ctx context.Context, c *cli.Command) error {
		if err := RunGUI(c); err != nil && !errors.Is(err, gui.ErrExit) {
			return err
		}
		return nil
	}

	return (&cli.Command{
		Name:  "chessgui",
		Usage: "two-click chessboard",
		Flags: guiff,
		Commands: []*cli.Command{
			{
				Name:   "gui",
				Usage:  "open the board window",
				Flags:  guiff,
				Action: runGUI,
			},
			{
				Name:  "board",
				Usage: "print a position to the terminal",
				Flags: boardff,
				Action: func(ctx context.Context, c *cli.Command) error {
					return RunBoard(c)
				},
			},
		},
		Action: runGUI,
	}).Run(context.Background(), os.Args)
}
