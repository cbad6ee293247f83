package domain

import (
    "errors"
    "fmt"
)

// ErrInvalidBoard is returned when a board string cannot be parsed.
var ErrInvalidBoard = errors.New("invalid board")

// ErrInvalidCell is returned when a mark string cannot be parsed.
var ErrInvalidCell = errors.New("invalid cell")

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// ParseCell accepts "X", "O" (either case) and "" for Empty.
func ParseCell(s string) (Cell, error) {
    switch s {
    case "X", "x":
        return X, nil
    case "O", "o":
        return O, nil
    case "":
        return Empty, nil
    }
    return Empty, fmt.Errorf("%w: %q", ErrInvalidCell, s)
}

func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cell) UnmarshalText(b []byte) error {
    v, err := ParseCell(string(b))
    if err != nil {
        return err
    }
    *c = v
    return nil
}

// String renders the board as nine characters, '.' for empty cells.
func (b Board) String() string {
    var out [9]byte
    for i, c := range b {
        switch c {
        case X:
            out[i] = 'X'
        case O:
            out[i] = 'O'
        default:
            out[i] = '.'
        }
    }
    return string(out[:])
}

// ParseBoard reads the form produced by Board.String. Empty cells may also be
// written as '-', '_' or ' '.
func ParseBoard(s string) (Board, error) {
    var b Board
    if len(s) != len(b) {
        return b, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, len(b), len(s))
    }
    for i := 0; i < len(s); i++ {
        switch s[i] {
        case 'X', 'x':
            b[i] = X
        case 'O', 'o':
            b[i] = O
        case '.', '-', '_', ' ':
            b[i] = Empty
        default:
            return b, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, s[i], i)
        }
    }
    return b, nil
}

func (b Board) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Board) UnmarshalText(text []byte) error {
    v, err := ParseBoard(string(text))
    if err != nil {
        return err
    }
    *b = v
    return nil
}
