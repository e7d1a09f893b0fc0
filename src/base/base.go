package base

import (
	"errors"
	"fmt"
	"strings"
)

// Forsyth–Edwards Notation
const FEN_START_GAME string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// BoardSize is the number of files (and ranks) on the board.
const BoardSize = 8

// ---- Square ----

// Square addresses one board cell. File and rank are both in [0,8),
// (0,0) is a1.
type Square struct {
	File int
	Rank int
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < BoardSize && s.Rank >= 0 && s.Rank < BoardSize
}

func (s Square) Index() int {
	return s.Rank*BoardSize + s.File
}

func SquareFromIndex(i int) Square {
	return Square{File: i % BoardSize, Rank: i / BoardSize}
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

func SquareFromAlgebraic(pos string) (Square, error) {
	// 'a' ~ 'h' to file
	// '1' ~ '8' to rank
	pos = strings.ToLower(strings.TrimSpace(pos))
	if len(pos) != 2 || pos[0] < 'a' || pos[0] > 'h' || pos[1] < '1' || pos[1] > '8' {
		return Square{}, fmt.Errorf("invalid square %q", pos)
	}
	return Square{File: int(pos[0] - 'a'), Rank: int(pos[1] - '1')}, nil
}

// ---- Side ----

type Side uint8

const (
	Light Side = iota
	Dark
)

func (s Side) Opponent() Side {
	if s == Light {
		return Dark
	}
	return Light
}

func (s Side) String() string {
	switch s {
	case Light:
		return "white"
	case Dark:
		return "black"
	default:
		return "invalid"
	}
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "light", "w":
		return Light, nil
	case "black", "dark", "b":
		return Dark, nil
	default:
		return Light, fmt.Errorf("unknown side %q", s)
	}
}

// Sides lists both colors in sprite catalog order.
var Sides = [...]Side{Light, Dark}

// ---- Kind ----

type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Kinds lists the six piece kinds in sprite catalog order.
var Kinds = [...]Kind{King, Queen, Rook, Bishop, Knight, Pawn}

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "none"
	}
}

// ---- Piece ----

type Piece struct {
	Side Side
	Kind Kind
}

// EmptyPiece marks an unoccupied square in a Snapshot.
var EmptyPiece = Piece{}

func (p Piece) Empty() bool {
	return p.Kind == NoKind
}

func (p Piece) String() string {
	if p.Empty() {
		return "empty"
	}
	return p.Side.String() + "_" + p.Kind.String()
}

// ---- Snapshot ----

// Snapshot is a copy of the piece placement, indexed by Square.Index.
type Snapshot [BoardSize * BoardSize]Piece

func (sn *Snapshot) At(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return EmptyPiece, false
	}
	p := sn[sq.Index()]
	return p, !p.Empty()
}

func (sn *Snapshot) Set(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	sn[sq.Index()] = p
}

// Occupied calls fn for every non-empty square in index order.
func (sn *Snapshot) Occupied(fn func(sq Square, p Piece)) {
	for i, p := range sn {
		if p.Empty() {
			continue
		}
		fn(SquareFromIndex(i), p)
	}
}

// ---- Action ----

// Action is a candidate move issued by the engine. Tag carries
// engine-private data (e.g. promotion) and must be passed back untouched.
type Action struct {
	From Square
	To   Square
	Tag  string
}

func (a Action) String() string {
	if a.Tag != "" {
		return a.Tag
	}
	return a.From.String() + a.To.String()
}

// ---- Game State ----

type GameState uint8

const (
	InProgress GameState = iota
	Check
	Checkmate
	Stalemate
	Draw
)

func (gs GameState) String() string {
	switch gs {
	case InProgress:
		return "InProgress"
	case Check:
		return "Check"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case Draw:
		return "Draw"
	default:
		return "Invalid"
	}
}

// Terminal reports whether no further moves can be made.
func (gs GameState) Terminal() bool {
	return gs == Checkmate || gs == Stalemate || gs == Draw
}

// ---- Query errors ----

var (
	ErrOffBoard      = errors.New("square is off the board")
	ErrEmptySquare   = errors.New("no piece on square")
	ErrOpponentPiece = errors.New("piece does not belong to the side to move")
	ErrNoLegalMoves  = errors.New("piece has no legal moves")
	ErrGameOver      = errors.New("game is over")
)
