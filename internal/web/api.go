package web

import (
    "encoding/json"
    "errors"
    "net/http"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/Mide001/TBA-MINIAPP/internal/domain"
    "github.com/Mide001/TBA-MINIAPP/internal/engine"
    "github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
    Error string `json:"error"`
}

type moveRequest struct {
    Board domain.Board `json:"board"`
    Mark  domain.Cell  `json:"mark"`
}

type moveResponse struct {
    Index int `json:"index"`
    Row   int `json:"row"`
    Col   int `json:"col"`
}

type analyzedMove struct {
    engine.MoveScore
    Outcome string `json:"outcome"`
}

type analyzeResponse struct {
    Best  int            `json:"best"`
    Moves []analyzedMove `json:"moves"`
}

func decodeMove(w http.ResponseWriter, r *http.Request) (moveRequest, bool) {
    var req moveRequest
    dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
    if err := dec.Decode(&req); err != nil {
        writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload: " + err.Error()})
        return req, false
    }
    return req, true
}

// engineStatus maps engine errors: a finished board is a conflict, anything
// else the caller sent is malformed.
func engineStatus(err error) int {
    if errors.Is(err, engine.ErrNoMoves) {
        return http.StatusConflict
    }
    return http.StatusBadRequest
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeMove(w, r)
    if !ok {
        return
    }
    start := time.Now()
    i, err := engine.BestMove(req.Board, req.Mark)
    if err != nil {
        writeJSON(w, engineStatus(err), errorResponse{Error: err.Error()})
        return
    }
    h.log.Debug().Str("board", req.Board.String()).Str("mark", req.Mark.String()).
        Int("cell", i).Dur("took", time.Since(start)).Msg("best move")
    writeJSON(w, http.StatusOK, moveResponse{Index: i, Row: i / 3, Col: i % 3})
}

func (h *handlers) apiAnalyze(w http.ResponseWriter, r *http.Request) {
    req, ok := decodeMove(w, r)
    if !ok {
        return
    }
    scores, err := engine.Analyze(r.Context(), req.Board, req.Mark)
    if err != nil {
        writeJSON(w, engineStatus(err), errorResponse{Error: err.Error()})
        return
    }
    resp := analyzeResponse{Best: -1, Moves: make([]analyzedMove, 0, len(scores))}
    if best, ok := engine.Best(scores); ok {
        resp.Best = best.Index
    }
    for _, s := range scores {
        resp.Moves = append(resp.Moves, analyzedMove{MoveScore: s, Outcome: s.Outcome(req.Mark).String()})
    }
    writeJSON(w, http.StatusOK, resp)
}

type matchJSON struct {
    Round  int         `json:"round"`
    Rounds int         `json:"rounds"`
    XWins  int         `json:"x_wins"`
    OWins  int         `json:"o_wins"`
    Draws  int         `json:"draws"`
    Winner domain.Cell `json:"winner"`
    Over   bool        `json:"over"`
}

type gameJSON struct {
    ID          string       `json:"id"`
    Code        string       `json:"code"`
    Mode        app.Mode     `json:"mode"`
    Human       domain.Cell  `json:"human,omitempty"`
    Board       domain.Board `json:"board"`
    Turn        domain.Cell  `json:"turn"`
    Outcome     string       `json:"outcome"`
    WinningLine []int        `json:"winning_line,omitempty"`
    LastAI      *int         `json:"last_ai,omitempty"`
    Match       matchJSON    `json:"match"`
    Updated     time.Time    `json:"updated"`
}

func newGameJSON(gs *app.GameState) gameJSON {
    out := gameJSON{
        ID:      gs.ID,
        Code:    gs.Code,
        Mode:    gs.Mode,
        Human:   gs.Human,
        Board:   gs.Game.Board,
        Turn:    gs.Game.Turn,
        Outcome: gs.Game.Outcome().String(),
        Match: matchJSON{
            Round:  gs.Match.Round,
            Rounds: gs.Match.Rounds,
            XWins:  gs.Match.XWins,
            OWins:  gs.Match.OWins,
            Draws:  gs.Match.Draws,
            Winner: gs.Match.Winner(),
            Over:   gs.Match.Complete(),
        },
        Updated: gs.Updated,
    }
    if ln, ok := gs.Game.WinningLine(); ok {
        out.WinningLine = ln[:]
    }
    if gs.LastAI >= 0 {
        last := gs.LastAI
        out.LastAI = &last
    }
    return out
}

func (h *handlers) apiGame(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeJSON(w, http.StatusNotFound, errorResponse{Error: app.ErrNotFound.Error()})
        return
    }
    writeJSON(w, http.StatusOK, newGameJSON(gs))
}
