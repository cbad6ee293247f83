package engine

import (
    "errors"
    "testing"

    "github.com/Mide001/TBA-MINIAPP/internal/domain"
)

func mustBoard(t *testing.T, s string) domain.Board {
    t.Helper()
    b, err := domain.ParseBoard(s)
    if err != nil {
        t.Fatalf("parse %q: %v", s, err)
    }
    return b
}

func toMove(b domain.Board) domain.Cell {
    if b.Count(domain.X) == b.Count(domain.O) {
        return domain.X
    }
    return domain.O
}

// reachable walks every position reachable from the empty board with X
// moving first, calling fn once per distinct non-terminal position.
func reachable(fn func(b domain.Board, side domain.Cell)) {
    seen := make(map[domain.Board]bool)
    var walk func(b domain.Board)
    walk = func(b domain.Board) {
        if seen[b] || b.Outcome() != domain.InProgress {
            return
        }
        seen[b] = true
        side := toMove(b)
        fn(b, side)
        for _, i := range b.EmptyCells() {
            b[i] = side
            walk(b)
            b[i] = domain.Empty
        }
    }
    walk(domain.Board{})
}

func TestBestMoveExamples(t *testing.T) {
    tests := []struct {
        name  string
        board string
        mark  domain.Cell
        want  int
    }{
        {"empty board picks first of equals", ".........", domain.X, 0},
        {"block top row", "OO..X....", domain.X, 2},
        {"take the win", "XX.OO....", domain.X, 2},
        {"win beats block", "OO.XX....", domain.X, 5},
        {"O takes the win", "XX.OO.X..", domain.O, 5},
        {"last cell", "XOXXOOOX.", domain.X, 8},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got, err := BestMove(mustBoard(t, tt.board), tt.mark)
            if err != nil {
                t.Fatalf("unexpected error: %v", err)
            }
            if got != tt.want {
                t.Fatalf("expected %d, got %d", tt.want, got)
            }
        })
    }
}

func TestBestMoveRejectsTerminalAndMalformedInput(t *testing.T) {
    tests := []struct {
        name  string
        board domain.Board
        mark  domain.Cell
        want  error
    }{
        {"full board draw", mustBoard(t, "XOXXOOOXX"), domain.X, ErrNoMoves},
        {"already won", mustBoard(t, "XXXOO...."), domain.O, ErrNoMoves},
        {"empty mark", domain.Board{}, domain.Empty, ErrInvalidMark},
        {"unknown mark", domain.Board{}, domain.Cell(7), ErrInvalidMark},
        {"unknown cell", domain.Board{domain.Cell(9)}, domain.X, ErrInvalidBoard},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            idx, err := BestMove(tt.board, tt.mark)
            if !errors.Is(err, tt.want) {
                t.Fatalf("expected %v, got %v (index %d)", tt.want, err, idx)
            }
        })
    }
}

func TestBestMoveLeavesInputUntouched(t *testing.T) {
    b := mustBoard(t, "X...O....")
    before := b
    if _, err := BestMove(b, domain.X); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if b != before {
        t.Fatalf("board changed: %s -> %s", before, b)
    }
}

func TestBestMoveOnEveryReachablePosition(t *testing.T) {
    positions := 0
    reachable(func(b domain.Board, side domain.Cell) {
        positions++
        got, err := BestMove(b, side)
        if err != nil {
            t.Fatalf("%s: unexpected error: %v", b, err)
        }
        if got < 0 || got > 8 || b[got] != domain.Empty {
            t.Fatalf("%s: returned occupied or invalid cell %d", b, got)
        }

        // An immediate win must be taken.
        var wins, threats []int
        for _, i := range b.EmptyCells() {
            b[i] = side
            if b.HasWin(side) {
                wins = append(wins, i)
            }
            b[i] = side.Opponent()
            if b.HasWin(side.Opponent()) {
                threats = append(threats, i)
            }
            b[i] = domain.Empty
        }
        if len(wins) > 0 {
            after := b
            after[got] = side
            if !after.HasWin(side) {
                t.Fatalf("%s: %v had a win at %v but played %d", b, side, wins, got)
            }
            return
        }
        // A single threat must be blocked.
        if len(threats) == 1 && got != threats[0] {
            t.Fatalf("%s: %v must block at %d, played %d", b, side, threats[0], got)
        }
    })
    if positions == 0 {
        t.Fatalf("no positions visited")
    }
}

func TestBestMoveIsDeterministic(t *testing.T) {
    b := mustBoard(t, "....X....")
    first, err := BestMove(b, domain.O)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    for n := 0; n < 5; n++ {
        if got, _ := BestMove(b, domain.O); got != first {
            t.Fatalf("call %d returned %d, first call returned %d", n, got, first)
        }
    }
}

func TestSelfPlayEndsInDraw(t *testing.T) {
    g := domain.New()
    for !g.Over() {
        i, err := BestMove(g.Board, g.Turn)
        if err != nil {
            t.Fatalf("move %d: %v", g.Moves, err)
        }
        if err := g.PlayAt(i); err != nil {
            t.Fatalf("move %d at %d: %v", g.Moves, i, err)
        }
    }
    if g.Outcome() != domain.Draw {
        t.Fatalf("expected draw between perfect players, got %v (%s)", g.Outcome(), g.Board)
    }
}

// The engine must never lose, whichever side it plays and whatever the
// opponent does.
func TestEngineNeverLoses(t *testing.T) {
    for _, engineSide := range []domain.Cell{domain.X, domain.O} {
        games := 0
        var walk func(b domain.Board, side domain.Cell)
        walk = func(b domain.Board, side domain.Cell) {
            switch b.Outcome() {
            case domain.Draw:
                games++
                return
            case domain.XWins, domain.OWins:
                games++
                if b.Outcome().Winner() != engineSide {
                    t.Fatalf("engine playing %v lost: %s", engineSide, b)
                }
                return
            }
            if side == engineSide {
                i, err := BestMove(b, side)
                if err != nil {
                    t.Fatalf("%s: %v", b, err)
                }
                b[i] = side
                walk(b, side.Opponent())
                return
            }
            for _, i := range b.EmptyCells() {
                b[i] = side
                walk(b, side.Opponent())
                b[i] = domain.Empty
            }
        }
        walk(domain.Board{}, domain.X)
        if games == 0 {
            t.Fatalf("no games played for %v", engineSide)
        }
    }
}

func TestPruningVisitsFewerNodesThanPlainMinimax(t *testing.T) {
    // Plain minimax visits 549945 positions below the empty board.
    const plain = 549945
    s := newSearcher(domain.Board{}, domain.X)
    total := 0
    for i := range s.board {
        s.board[i] = domain.X
        s.nodes = 0
        s.minimax(1, -bound, bound, false)
        total += s.nodes
        s.board[i] = domain.Empty
    }
    if total >= plain {
        t.Fatalf("expected pruning to cut the tree, visited %d", total)
    }
    if s.board != (domain.Board{}) {
        t.Fatalf("search leaked placements: %s", s.board)
    }
}
