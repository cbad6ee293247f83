package engine

import (
    "context"
    "errors"
    "testing"

    "github.com/Mide001/TBA-MINIAPP/internal/domain"
)

func TestAnalyzeEmptyBoardIsAllDraws(t *testing.T) {
    scores, err := Analyze(context.Background(), domain.Board{}, domain.X)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(scores) != 9 {
        t.Fatalf("expected 9 scores, got %d", len(scores))
    }
    for n, s := range scores {
        if s.Index != n {
            t.Fatalf("expected ascending indexes, got %d at %d", s.Index, n)
        }
        if s.Score != 0 || s.Outcome(domain.X) != domain.Draw {
            t.Fatalf("cell %d: expected draw, got score %d", s.Index, s.Score)
        }
        if s.Nodes == 0 {
            t.Fatalf("cell %d: expected node count", s.Index)
        }
    }
}

func TestAnalyzeAgreesWithBestMove(t *testing.T) {
    for _, tc := range []struct {
        board string
        mark  domain.Cell
    }{
        {".........", domain.X},
        {"OO..X....", domain.X},
        {"X...O....", domain.X},
        {"X........", domain.O},
        {"XX.OO.X..", domain.O},
    } {
        b := mustBoard(t, tc.board)
        scores, err := Analyze(context.Background(), b, tc.mark)
        if err != nil {
            t.Fatalf("%s: %v", tc.board, err)
        }
        best, ok := Best(scores)
        if !ok {
            t.Fatalf("%s: no scores", tc.board)
        }
        want, _ := BestMove(b, tc.mark)
        if best.Index != want {
            t.Fatalf("%s: Analyze picked %d, BestMove picked %d", tc.board, best.Index, want)
        }
    }
}

func TestAnalyzeScoresWinsAndLosses(t *testing.T) {
    scores, err := Analyze(context.Background(), mustBoard(t, "XX.OO...."), domain.X)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    for _, s := range scores {
        switch s.Index {
        case 2:
            if s.Score != WinScore-1 || s.Outcome(domain.X) != domain.XWins {
                t.Fatalf("immediate win should score %d, got %d", WinScore-1, s.Score)
            }
        case 5:
            // blocks O and keeps the threat at 2
            if s.Score < 0 {
                t.Fatalf("blocking O at 5 must not lose, got %d", s.Score)
            }
        default:
            if s.Score != 2-WinScore || s.Outcome(domain.X) != domain.OWins {
                t.Fatalf("cell %d ignores O's threat and should score %d, got %d", s.Index, 2-WinScore, s.Score)
            }
        }
    }
}

func TestAnalyzeRejectsTerminalBoard(t *testing.T) {
    if _, err := Analyze(context.Background(), mustBoard(t, "XOXXOOOXX"), domain.O); !errors.Is(err, ErrNoMoves) {
        t.Fatalf("expected ErrNoMoves, got %v", err)
    }
}

func TestAnalyzeHonoursCancelledContext(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    if _, err := Analyze(ctx, domain.Board{}, domain.X); !errors.Is(err, context.Canceled) {
        t.Fatalf("expected context.Canceled, got %v", err)
    }
}

func TestBestOfEmptySlice(t *testing.T) {
    if _, ok := Best(nil); ok {
        t.Fatalf("expected no best move for empty input")
    }
}
