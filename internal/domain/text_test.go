package domain

import (
    "encoding/json"
    "errors"
    "testing"
)

func TestParseBoardAcceptsEmptyAliases(t *testing.T) {
    b, err := ParseBoard("x-_ o.Xo.")
    if err != nil {
        t.Fatalf("parse failed: %v", err)
    }
    if got := b.String(); got != "X...O.XO." {
        t.Fatalf("unexpected board %q", got)
    }
}

func TestParseBoardRejectsMalformed(t *testing.T) {
    for _, s := range []string{"", "XO", "XXXXXXXXXX", "XO?......"} {
        if _, err := ParseBoard(s); !errors.Is(err, ErrInvalidBoard) {
            t.Fatalf("expected ErrInvalidBoard for %q, got %v", s, err)
        }
    }
}

func TestBoardAndCellTravelAsJSONStrings(t *testing.T) {
    type payload struct {
        Board Board `json:"board"`
        Mark  Cell  `json:"mark"`
    }
    in := payload{Board: Board{X, Empty, O}, Mark: O}
    raw, err := json.Marshal(in)
    if err != nil {
        t.Fatalf("marshal: %v", err)
    }
    if string(raw) != `{"board":"X.O......","mark":"O"}` {
        t.Fatalf("unexpected json %s", raw)
    }
    var out payload
    if err := json.Unmarshal([]byte(`{"board":"..X..O...","mark":"x"}`), &out); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if out.Board[2] != X || out.Board[5] != O || out.Mark != X {
        t.Fatalf("unexpected decode %+v", out)
    }
    if err := json.Unmarshal([]byte(`{"board":"..X..O...","mark":"Z"}`), &out); !errors.Is(err, ErrInvalidCell) {
        t.Fatalf("expected ErrInvalidCell, got %v", err)
    }
}
