package engine

import (
    "context"

    "github.com/Mide001/TBA-MINIAPP/internal/domain"
    "golang.org/x/sync/errgroup"
)

// MoveScore is the minimax value of one legal move.
type MoveScore struct {
    Index int `json:"index"`
    Score int `json:"score"`
    Nodes int `json:"nodes"`
}

// Outcome maps the score back to the result under perfect play.
func (m MoveScore) Outcome(mark domain.Cell) domain.Outcome {
    switch {
    case m.Score > 0:
        return winFor(mark)
    case m.Score < 0:
        return winFor(mark.Opponent())
    default:
        return domain.Draw
    }
}

func winFor(c domain.Cell) domain.Outcome {
    if c == domain.X {
        return domain.XWins
    }
    return domain.OWins
}

// Analyze scores every legal move for mark, in ascending index order. Each
// root move is searched in its own goroutine on a private board copy.
func Analyze(ctx context.Context, b domain.Board, mark domain.Cell) ([]MoveScore, error) {
    if err := validate(&b, mark); err != nil {
        return nil, err
    }
    cells := b.EmptyCells()
    out := make([]MoveScore, len(cells))

    g, ctx := errgroup.WithContext(ctx)
    for n, i := range cells {
        n, i := n, i
        g.Go(func() error {
            if err := ctx.Err(); err != nil {
                return err
            }
            s := newSearcher(b, mark)
            s.board[i] = mark
            score := s.minimax(1, -bound, bound, false)
            out[n] = MoveScore{Index: i, Score: score, Nodes: s.nodes}
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return nil, err
    }
    return out, nil
}

// Best returns the first entry with the highest score, matching BestMove.
func Best(scores []MoveScore) (MoveScore, bool) {
    if len(scores) == 0 {
        return MoveScore{}, false
    }
    best := scores[0]
    for _, s := range scores[1:] {
        if s.Score > best.Score {
            best = s
        }
    }
    return best, true
}
