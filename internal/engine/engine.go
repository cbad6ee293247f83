// Package engine picks moves for the computer player with a full-depth
// minimax search and alpha-beta pruning.
package engine

import (
    "errors"

    "github.com/Mide001/TBA-MINIAPP/internal/domain"
)

// Scores are shaped by depth so that faster wins and slower losses rank higher.
const (
    WinScore = 10
    bound    = 1000
)

// Errors returned by the engine.
var (
    ErrNoMoves      = errors.New("no legal moves")
    ErrInvalidMark  = errors.New("invalid mark")
    ErrInvalidBoard = errors.New("invalid board")
)

// BestMove returns the optimal cell for mark. Ties go to the lowest index.
func BestMove(b domain.Board, mark domain.Cell) (int, error) {
    if err := validate(&b, mark); err != nil {
        return -1, err
    }
    s := newSearcher(b, mark)
    best, bestScore := -1, -bound
    for i := range s.board {
        if s.board[i] != domain.Empty {
            continue
        }
        s.board[i] = mark
        score := s.minimax(1, -bound, bound, false)
        s.board[i] = domain.Empty
        if score > bestScore {
            best, bestScore = i, score
        }
    }
    return best, nil
}

func validate(b *domain.Board, mark domain.Cell) error {
    if mark != domain.X && mark != domain.O {
        return ErrInvalidMark
    }
    for _, c := range b {
        if !c.Valid() {
            return ErrInvalidBoard
        }
    }
    if b.Outcome() != domain.InProgress {
        return ErrNoMoves
    }
    return nil
}

// searcher owns a private copy of the board; every placement made during the
// search is reverted before the next sibling is tried.
type searcher struct {
    board    domain.Board
    max, min domain.Cell
    nodes    int
}

func newSearcher(b domain.Board, mark domain.Cell) *searcher {
    return &searcher{board: b, max: mark, min: mark.Opponent()}
}

func (s *searcher) minimax(depth, alpha, beta int, maximizing bool) int {
    s.nodes++
    if s.board.HasWin(s.max) {
        return WinScore - depth
    }
    if s.board.HasWin(s.min) {
        return depth - WinScore
    }
    if s.board.Full() {
        return 0
    }

    if maximizing {
        best := -bound
        for i := range s.board {
            if s.board[i] != domain.Empty {
                continue
            }
            s.board[i] = s.max
            score := s.minimax(depth+1, alpha, beta, false)
            s.board[i] = domain.Empty
            if score > best {
                best = score
            }
            if best > alpha {
                alpha = best
            }
            if beta <= alpha {
                break
            }
        }
        return best
    }

    best := bound
    for i := range s.board {
        if s.board[i] != domain.Empty {
            continue
        }
        s.board[i] = s.min
        score := s.minimax(depth+1, alpha, beta, true)
        s.board[i] = domain.Empty
        if score < best {
            best = score
        }
        if best < beta {
            beta = best
        }
        if beta <= alpha {
            break
        }
    }
    return best
}
