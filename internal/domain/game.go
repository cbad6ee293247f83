package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

// Valid reports whether c is one of Empty, X or O.
func (c Cell) Valid() bool { return c <= O }

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Lines lists every index triple that wins the game: rows, columns, diagonals.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Outcome is the state of a board as far as the result is concerned.
type Outcome uint8

const (
    InProgress Outcome = iota
    XWins
    OWins
    Draw
)

func (o Outcome) String() string {
    switch o {
    case XWins:
        return "x_wins"
    case OWins:
        return "o_wins"
    case Draw:
        return "draw"
    default:
        return "in_progress"
    }
}

// Winner returns the mark of the player that owns the outcome, or Empty.
func (o Outcome) Winner() Cell {
    switch o {
    case XWins:
        return X
    case OWins:
        return O
    default:
        return Empty
    }
}

// HasWin reports whether side has completed a line.
func (b *Board) HasWin(side Cell) bool {
    for _, ln := range Lines {
        if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            return true
        }
    }
    return false
}

// WinningLine returns the first completed line and true, if any.
func (b *Board) WinningLine() ([3]int, bool) {
    for _, ln := range Lines {
        if b[ln[0]] != Empty && b[ln[0]] == b[ln[1]] && b[ln[0]] == b[ln[2]] {
            return ln, true
        }
    }
    return [3]int{}, false
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// EmptyCells returns the indexes of the empty cells in ascending order.
func (b *Board) EmptyCells() []int {
    out := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// Count returns how many cells hold side.
func (b *Board) Count(side Cell) int {
    n := 0
    for _, c := range b {
        if c == side {
            n++
        }
    }
    return n
}

// Outcome derives the result from the board contents.
func (b *Board) Outcome() Outcome {
    if ln, ok := b.WinningLine(); ok {
        if b[ln[0]] == X {
            return XWins
        }
        return OWins
    }
    if b.Full() {
        return Draw
    }
    return InProgress
}

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
    Board Board
    Turn  Cell
    Moves int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
)

// New returns a new game with X to move.
func New() Game {
    return Game{Turn: X}
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
    if g.Over() {
        return ErrGameOver
    }
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return ErrOutOfBounds
    }
    return g.PlayAt(r*3 + c)
}

// PlayAt plays the current turn at board index i (0..8).
func (g *Game) PlayAt(i int) error {
    if g.Over() {
        return ErrGameOver
    }
    if i < 0 || i >= len(g.Board) {
        return ErrOutOfBounds
    }
    if g.Board[i] != Empty {
        return ErrOccupied
    }

    g.Board[i] = g.Turn
    g.Moves++

    // The turn stays with the last mover once the game is decided.
    if g.Over() {
        return nil
    }
    g.Turn = g.Turn.Opponent()
    return nil
}

// Outcome is derived from the board so it can never disagree with it.
func (g *Game) Outcome() Outcome { return g.Board.Outcome() }

// Over reports whether the game has ended in a win or a draw.
func (g *Game) Over() bool { return g.Board.Outcome() != InProgress }

// Winner returns the winning mark, or Empty for draws and games in progress.
func (g *Game) Winner() Cell { return g.Board.Outcome().Winner() }

// WinningLine returns the completed line, if any.
func (g *Game) WinningLine() ([3]int, bool) { return g.Board.WinningLine() }
