package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"chessgui/src/base"
	"chessgui/src/logx"

	nchess "github.com/corentings/chess/v2"
)

// ReplyTimeout bounds a single opponent reply.
const ReplyTimeout = 10 * time.Second

// Opponent picks a reply for the side to move. legal holds the legal
// moves of the position in UCI notation.
type Opponent interface {
	Reply(ctx context.Context, fen string, legal []string) (string, error)
}

type Options struct {
	// StartingSide moves first when FEN is empty.
	StartingSide base.Side
	// PlayerSide is the side driven by clicks; the opponent (if any) plays the other one.
	PlayerSide base.Side
	// FEN overrides the starting position.
	FEN string
}

// Factory creates fresh games from the same options.
type Factory struct {
	opts     Options
	position func(*nchess.Game)
	opponent Opponent
	logx     logx.Logger
}

func NewFactory(opts Options, opp Opponent, l logx.Logger) (*Factory, error) {
	fen := strings.TrimSpace(opts.FEN)
	if fen == "" {
		fen = startFEN(opts.StartingSide)
	}
	pos, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("error parse FEN %q: %w", fen, err)
	}
	if opp != nil {
		l.Infof("player plays %v, opponent plays %v", opts.PlayerSide, opts.PlayerSide.Opponent())
	}
	return &Factory{opts: opts, position: pos, opponent: opp, logx: l}, nil
}

func startFEN(side base.Side) string {
	if side == base.Dark {
		return strings.Replace(base.FEN_START_GAME, " w ", " b ", 1)
	}
	return base.FEN_START_GAME
}

func (f *Factory) NewGame() *Game {
	f.logx.Debug("create game")
	return &Game{
		game:     nchess.NewGame(f.position),
		player:   f.opts.PlayerSide,
		opponent: f.opponent,
		logx:     f.logx,
	}
}

// Game adapts a rules engine game to the board model.
type Game struct {
	game     *nchess.Game
	player   base.Side
	opponent Opponent
	round    int
	logx     logx.Logger
}

func (g *Game) FEN() string {
	return g.game.FEN()
}

func (g *Game) Turn() base.Side {
	return sideOf(g.game.Position().Turn())
}

func (g *Game) State() base.GameState {
	if g.game.Outcome() != nchess.NoOutcome {
		switch g.game.Method() {
		case nchess.Checkmate:
			return base.Checkmate
		case nchess.Stalemate:
			return base.Stalemate
		default:
			return base.Draw
		}
	}
	if g.inCheck() {
		return base.Check
	}
	return base.InProgress
}

// inCheck reports whether the king of the side to move is attacked, read
// from the position so a game loaded from FEN is covered too.
func (g *Game) inCheck() bool {
	turn := g.Turn()
	var king nchess.Square
	found := false
	sn := g.Snapshot()
	sn.Occupied(func(sq base.Square, p base.Piece) {
		if p.Side == turn && p.Kind == base.King {
			king, found = toSquare(sq), true
		}
	})
	if !found {
		return false
	}
	for _, mv := range g.game.Position().ChangeTurn().ValidMoves() {
		if mv.S2() == king {
			return true
		}
	}
	return false
}

func (g *Game) Snapshot() base.Snapshot {
	var sn base.Snapshot
	for sq, p := range g.game.Position().Board().SquareMap() {
		if p == nchess.NoPiece {
			continue
		}
		sn.Set(squareOf(sq), pieceOf(p))
	}
	return sn
}

// MovesFrom returns the legal actions of the piece on sq. Promotions
// come queen first.
func (g *Game) MovesFrom(sq base.Square) ([]base.Action, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %v", base.ErrOffBoard, sq)
	}
	if g.game.Outcome() != nchess.NoOutcome {
		return nil, fmt.Errorf("%w: %s", base.ErrGameOver, g.game.Method())
	}
	sn := g.Snapshot()
	p, ok := sn.At(sq)
	if !ok {
		return nil, fmt.Errorf("%w: %v", base.ErrEmptySquare, sq)
	}
	if p.Side != g.Turn() {
		return nil, fmt.Errorf("%w: %v on %v", base.ErrOpponentPiece, p, sq)
	}

	from := toSquare(sq)
	var actions []base.Action
	for _, mv := range g.game.ValidMoves() {
		if mv.S1() != from {
			continue
		}
		actions = append(actions, base.Action{
			From: sq,
			To:   squareOf(mv.S2()),
			Tag:  strings.ToLower(mv.String()),
		})
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: %v on %v", base.ErrNoLegalMoves, p, sq)
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return promotionRank(actions[i].Tag) < promotionRank(actions[j].Tag)
	})
	return actions, nil
}

func promotionRank(uci string) int {
	if len(uci) < 5 {
		return 0
	}
	return strings.IndexByte("qrbn", uci[4]) + 1
}

func (g *Game) Apply(a base.Action) error {
	mv := a.Tag
	if mv == "" {
		mv = a.From.String() + a.To.String()
	}
	g.logx.Infof("move %s", mv)
	if err := g.game.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
		return fmt.Errorf("error apply move %s: %w", mv, err)
	}
	return nil
}

// AdvanceRound closes the current half-move. With an opponent on move it
// asks for the reply and plays it.
func (g *Game) AdvanceRound() error {
	g.round++
	g.logx.Debugf("round %d: %s to move, state %v", g.round, g.Turn(), g.State())
	if g.opponent == nil || g.game.Outcome() != nchess.NoOutcome || g.Turn() == g.player {
		return nil
	}

	legal := make([]string, 0, 32)
	for _, mv := range g.game.ValidMoves() {
		legal = append(legal, strings.ToLower(mv.String()))
	}
	if len(legal) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ReplyTimeout)
	defer cancel()
	reply, err := g.opponent.Reply(ctx, g.game.FEN(), legal)
	if err != nil {
		return fmt.Errorf("error opponent reply: %w", err)
	}
	g.logx.Infof("opponent move %s", reply)
	if err := g.game.PushNotationMove(reply, nchess.UCINotation{}, nil); err != nil {
		return fmt.Errorf("error apply opponent move %s: %w", reply, err)
	}
	g.round++
	return nil
}

// ---- conversions ----

func toSquare(sq base.Square) nchess.Square {
	return nchess.NewSquare(nchess.File(sq.File), nchess.Rank(sq.Rank))
}

func squareOf(sq nchess.Square) base.Square {
	return base.Square{File: int(sq.File()), Rank: int(sq.Rank())}
}

func sideOf(c nchess.Color) base.Side {
	if c == nchess.Black {
		return base.Dark
	}
	return base.Light
}

func pieceOf(p nchess.Piece) base.Piece {
	var k base.Kind
	switch p.Type() {
	case nchess.King:
		k = base.King
	case nchess.Queen:
		k = base.Queen
	case nchess.Rook:
		k = base.Rook
	case nchess.Bishop:
		k = base.Bishop
	case nchess.Knight:
		k = base.Knight
	case nchess.Pawn:
		k = base.Pawn
	}
	return base.Piece{Side: sideOf(p.Color()), Kind: k}
}
