package interact

import (
	"fmt"
	"testing"

	"chessgui/src/base"
	"chessgui/src/engine"
	"chessgui/src/logx"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const cell = 67

type fakeGame struct {
	moves    map[base.Square][]base.Action
	snap     base.Snapshot
	applied  []base.Action
	advanced int
	state    base.GameState
}

func (f *fakeGame) State() base.GameState { return f.state }

func (f *fakeGame) MovesFrom(sq base.Square) ([]base.Action, error) {
	mv, ok := f.moves[sq]
	if !ok {
		return nil, fmt.Errorf("%w: %v", base.ErrEmptySquare, sq)
	}
	return mv, nil
}

func (f *fakeGame) Apply(a base.Action) error {
	f.applied = append(f.applied, a)
	p, _ := f.snap.At(a.From)
	f.snap.Set(a.From, base.EmptyPiece)
	f.snap.Set(a.To, p)
	return nil
}

func (f *fakeGame) AdvanceRound() error {
	f.advanced++
	return nil
}

func (f *fakeGame) Snapshot() base.Snapshot { return f.snap }

var (
	b1 = base.Square{File: 1, Rank: 0}
	a3 = base.Square{File: 0, Rank: 2}
	c3 = base.Square{File: 2, Rank: 2}
	d2 = base.Square{File: 3, Rank: 1}
)

func newFake() *fakeGame {
	f := &fakeGame{moves: map[base.Square][]base.Action{
		b1: {{From: b1, To: a3}, {From: b1, To: c3}, {From: b1, To: d2}},
		// two actions to one destination, like promotion choices
		d2: {{From: d2, To: c3, Tag: "q"}, {From: d2, To: c3, Tag: "n"}},
		// engine answering success with nothing
		a3: {},
	}}
	f.snap.Set(b1, base.Piece{Side: base.Light, Kind: base.Knight})
	f.snap.Set(d2, base.Piece{Side: base.Light, Kind: base.Pawn})
	return f
}

func newMachine(t *testing.T, games ...*fakeGame) (*Machine, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	i := 0
	m := New(func() Game {
		g := games[i]
		if i < len(games)-1 {
			i++
		}
		return g
	}, cell, cell, logx.FromZap(zap.New(core)))
	return m, logs
}

// center returns the pixel at the middle of sq.
func center(sq base.Square) (int, int) {
	return sq.File*cell + cell/2, sq.Rank*cell + cell/2
}

func TestSquareAt(t *testing.T) {
	m, _ := newMachine(t, newFake())
	tests := []struct {
		x, y int
		want base.Square
		ok   bool
	}{
		{10, 10, base.Square{File: 0, Rank: 0}, true},
		{66, 66, base.Square{File: 0, Rank: 0}, true},
		{67, 0, base.Square{File: 1, Rank: 0}, true},
		{10, 10 + 67*2, base.Square{File: 0, Rank: 2}, true},
		{535, 535, base.Square{File: 7, Rank: 7}, true},
		{536, 10, base.Square{}, false},
		{-1, 10, base.Square{}, false},
		{10, 540, base.Square{}, false},
	}
	for _, tc := range tests {
		got, ok := m.SquareAt(tc.x, tc.y)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("SquareAt(%d,%d) = %v,%v want %v,%v", tc.x, tc.y, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStartsIdleAndAdvances(t *testing.T) {
	f := newFake()
	m, _ := newMachine(t, f)
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("initial selection = %#v", m.Selection())
	}
	if f.advanced != 1 {
		t.Fatalf("advanced = %d, want 1 at start", f.advanced)
	}
	if len(m.Highlights()) != 0 {
		t.Fatal("highlights not empty at start")
	}
}

func TestIdleClickNoMovesStaysIdle(t *testing.T) {
	m, logs := newMachine(t, newFake())

	// empty square: engine error
	m.Click(center(base.Square{File: 5, Rank: 5}))
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if len(m.Highlights()) != 0 {
		t.Fatal("highlights not empty")
	}
	// success with no actions must not leave a stuck selection
	m.Click(center(a3))
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v after empty action set", m.Selection())
	}

	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 2 {
		t.Fatalf("warn diagnostics = %d, want 2", n)
	}
}

func TestIdleClickSelects(t *testing.T) {
	f := newFake()
	m, _ := newMachine(t, f)

	m.Click(center(b1))
	sel, ok := m.Selection().(AwaitingTarget)
	if !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if sel.Origin != b1 || len(sel.Moves) != 3 {
		t.Fatalf("selection = %+v", sel)
	}
	if diff := cmp.Diff([]base.Square{a3, c3, d2}, m.Highlights()); diff != "" {
		t.Fatalf("highlights mismatch (-want +got):\n%s", diff)
	}
}

func TestHighlightsDistinct(t *testing.T) {
	m, _ := newMachine(t, newFake())
	m.Click(center(d2))
	if diff := cmp.Diff([]base.Square{c3}, m.Highlights()); diff != "" {
		t.Fatalf("highlights mismatch (-want +got):\n%s", diff)
	}
}

func TestClickDestinationApplies(t *testing.T) {
	f := newFake()
	m, _ := newMachine(t, f)
	advancedAtStart := f.advanced

	m.Click(center(b1))
	m.Click(center(c3))

	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if diff := cmp.Diff([]base.Action{{From: b1, To: c3}}, f.applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
	if f.advanced-advancedAtStart != 1 {
		t.Fatalf("AdvanceRound calls = %d, want 1", f.advanced-advancedAtStart)
	}
	if len(m.Highlights()) != 0 {
		t.Fatal("highlights not cleared")
	}
}

func TestSharedDestinationAppliesFirstOnly(t *testing.T) {
	f := newFake()
	m, _ := newMachine(t, f)

	m.Click(center(d2))
	m.Click(center(c3))
	if diff := cmp.Diff([]base.Action{{From: d2, To: c3, Tag: "q"}}, f.applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
}

func TestClickElsewhereCancels(t *testing.T) {
	f := newFake()
	m, _ := newMachine(t, f)
	before := f.Snapshot()

	m.Click(center(b1))
	m.Click(center(base.Square{File: 7, Rank: 7}))
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if len(f.applied) != 0 {
		t.Fatalf("applied = %v", f.applied)
	}
	if diff := cmp.Diff(before, f.Snapshot()); diff != "" {
		t.Fatalf("snapshot changed (-want +got):\n%s", diff)
	}

	// b1 holds a movable piece but is no destination of d2: the click only cancels
	m.Click(center(d2))
	m.Click(center(b1))
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v, want Idle", m.Selection())
	}
	m.Click(center(b1))
	if sel, ok := m.Selection().(AwaitingTarget); !ok || sel.Origin != b1 {
		t.Fatalf("expected selection on b1, got %#v", m.Selection())
	}
}

func TestClickOutsideBoardCancels(t *testing.T) {
	f := newFake()
	m, _ := newMachine(t, f)

	m.Click(center(b1))
	m.Click(cell*8+5, 10)
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	m.Click(-3, -3)
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if len(f.applied) != 0 {
		t.Fatal("outside click applied a move")
	}
}

func TestResetFromAnyState(t *testing.T) {
	first, second := newFake(), newFake()
	m, _ := newMachine(t, first, second)

	m.Click(center(b1))
	m.Reset()
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if m.Game() != Game(second) {
		t.Fatal("reset did not replace the game")
	}
	if len(m.Highlights()) != 0 {
		t.Fatal("highlights not cleared")
	}

	m.Reset()
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
}

func TestTerminalStateDoesNotLockInput(t *testing.T) {
	f := newFake()
	f.state = base.Checkmate
	m, _ := newMachine(t, f)

	m.Click(center(b1))
	if _, ok := m.Selection().(AwaitingTarget); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
}

// ---- with the rules engine ----

func newEngineMachine(t *testing.T) *Machine {
	t.Helper()
	fac, err := engine.NewFactory(engine.Options{}, nil, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return New(func() Game { return fac.NewGame() }, cell, cell, logx.Nop())
}

func TestPawnMoveWithEngine(t *testing.T) {
	m := newEngineMachine(t)
	pawnFrom := base.Square{File: 0, Rank: 1}
	pawnTo := base.Square{File: 0, Rank: 2}

	m.Click(10, 10+67)
	bySquare := cmpopts.SortSlices(func(a, b base.Square) bool { return a.Index() < b.Index() })
	if diff := cmp.Diff([]base.Square{pawnTo, {File: 0, Rank: 3}}, m.Highlights(), bySquare); diff != "" {
		t.Fatalf("highlights mismatch (-want +got):\n%s", diff)
	}
	m.Click(10, 10+67*2)
	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}

	sn := m.Game().Snapshot()
	if _, ok := sn.At(pawnFrom); ok {
		t.Fatal("pawn still on origin")
	}
	if p, ok := sn.At(pawnTo); !ok || p != (base.Piece{Side: base.Light, Kind: base.Pawn}) {
		t.Fatalf("destination = %v", p)
	}
}

func TestResetRestoresStartWithEngine(t *testing.T) {
	m := newEngineMachine(t)
	start := m.Game().Snapshot()

	m.Click(10, 10+67)
	m.Click(10, 10+67*2)
	m.Click(10+67*4, 10+67*6) // select e7 pawn for black
	m.Reset()

	if _, ok := m.Selection().(Idle); !ok {
		t.Fatalf("selection = %#v", m.Selection())
	}
	if diff := cmp.Diff(start, m.Game().Snapshot()); diff != "" {
		t.Fatalf("snapshot after reset (-want +got):\n%s", diff)
	}
	if m.Game().State() != base.InProgress {
		t.Fatalf("state = %v", m.Game().State())
	}
}
