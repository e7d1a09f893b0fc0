// Package interact turns pointer clicks into engine queries and moves
// using a two-step "select piece, then select destination" protocol.
package interact

import (
	"chessgui/src/base"
	"chessgui/src/logx"
)

// Game is the rules engine as seen by the machine.
type Game interface {
	State() base.GameState
	MovesFrom(sq base.Square) ([]base.Action, error)
	Apply(a base.Action) error
	AdvanceRound() error
	Snapshot() base.Snapshot
}

// NewGameFunc returns a fresh game in the starting position.
type NewGameFunc func() Game

// ---- Selection ----

// Selection is either Idle or AwaitingTarget.
type Selection interface {
	isSelection()
}

type Idle struct{}

// AwaitingTarget holds a selected origin and its legal actions. Moves is never empty.
type AwaitingTarget struct {
	Origin base.Square
	Moves  []base.Action
}

func (Idle) isSelection()           {}
func (AwaitingTarget) isSelection() {}

// ---- Machine ----

type Machine struct {
	newGame NewGameFunc
	game    Game
	sel     Selection

	cellW, cellH int
	logx         logx.Logger
}

// New starts a game from newGame and lets the engine advance the first
// round (an engine opponent playing first moves here).
func New(newGame NewGameFunc, cellW, cellH int, l logx.Logger) *Machine {
	m := &Machine{newGame: newGame, cellW: cellW, cellH: cellH, logx: l}
	m.start()
	return m
}

func (m *Machine) start() {
	m.game = m.newGame()
	m.sel = Idle{}
	if err := m.game.AdvanceRound(); err != nil {
		m.logx.Errorf("error advance round: %v", err)
	}
}

func (m *Machine) Game() Game {
	return m.game
}

func (m *Machine) Selection() Selection {
	return m.sel
}

// SquareAt maps a pixel to a board square; ok is false outside the board.
func (m *Machine) SquareAt(px, py int) (base.Square, bool) {
	if px < 0 || py < 0 || px >= m.cellW*base.BoardSize || py >= m.cellH*base.BoardSize {
		return base.Square{}, false
	}
	return base.Square{File: px / m.cellW, Rank: py / m.cellH}, true
}

// Click handles a released primary button at pixel (px, py).
func (m *Machine) Click(px, py int) {
	sq, ok := m.SquareAt(px, py)
	if !ok {
		if _, awaiting := m.sel.(AwaitingTarget); awaiting {
			m.logx.Debugf("click (%d,%d) outside board: cancel selection", px, py)
		}
		m.sel = Idle{}
		return
	}

	switch sel := m.sel.(type) {
	case AwaitingTarget:
		m.sel = Idle{}
		for _, a := range sel.Moves {
			if a.To != sq {
				continue
			}
			if err := m.game.Apply(a); err != nil {
				m.logx.Errorf("error apply %v: %v", a, err)
				return
			}
			if err := m.game.AdvanceRound(); err != nil {
				m.logx.Errorf("error advance round: %v", err)
			}
			return
		}
		m.logx.Debugf("click %v is not a destination of %v: cancel selection", sq, sel.Origin)
	default:
		moves, err := m.game.MovesFrom(sq)
		if err != nil {
			m.logx.Warnf("select %v: %v", sq, err)
			m.sel = Idle{}
			return
		}
		if len(moves) == 0 {
			m.logx.Warnf("select %v: %v", sq, base.ErrNoLegalMoves)
			m.sel = Idle{}
			return
		}
		m.sel = AwaitingTarget{Origin: sq, Moves: moves}
	}
}

// Reset replaces the game with a fresh one and clears the selection.
func (m *Machine) Reset() {
	m.logx.Info("reset game")
	m.start()
}

// Highlights returns the distinct destinations of the current selection
// in first-seen order.
func (m *Machine) Highlights() []base.Square {
	sel, ok := m.sel.(AwaitingTarget)
	if !ok {
		return nil
	}
	seen := make(map[base.Square]bool, len(sel.Moves))
	out := make([]base.Square, 0, len(sel.Moves))
	for _, a := range sel.Moves {
		if seen[a.To] {
			continue
		}
		seen[a.To] = true
		out = append(out, a.To)
	}
	return out
}
