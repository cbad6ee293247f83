package web

import (
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/Mide001/TBA-MINIAPP/internal/domain"
    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"
)

const maxRounds = 9

type handlers struct {
    svc       *app.Service
    tpl       *templates
    log       zerolog.Logger
    heartbeat time.Duration
}

func (h *handlers) renderBoard(gs *app.GameState, viewer, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, viewer, errMsg))
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(status)
    _, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    modeStr := r.Form.Get("mode")
    if modeStr == "" {
        modeStr = string(app.ModeComputer)
    }
    mode, err := app.ParseMode(modeStr)
    if err != nil {
        http.Error(w, "unknown mode", http.StatusBadRequest)
        return
    }
    human := domain.X
    if m := r.Form.Get("mark"); m != "" {
        if human, err = domain.ParseCell(m); err != nil || human == domain.Empty {
            http.Error(w, "unknown mark", http.StatusBadRequest)
            return
        }
    }
    rounds := 0
    if v := r.Form.Get("rounds"); v != "" {
        if rounds, err = strconv.Atoi(v); err != nil || rounds < 1 || rounds > maxRounds {
            http.Error(w, "invalid rounds", http.StatusBadRequest)
            return
        }
    }
    gs, err := h.svc.CreateGame(mode, human, pid, rounds)
    if err != nil {
        h.log.Error().Err(err).Msg("create game")
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    data := struct{ Board boardView }{Board: newBoardView(gs, pid, "")}
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    seated, gs, err := h.svc.Join(id, pid)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    msg := ""
    if !seated {
        msg = "You are a spectator"
    }
    writeHTML(w, http.StatusOK, h.renderBoard(gs, pid, msg))
}

// cellFromForm accepts either a board index "i" or a row/column pair.
func cellFromForm(r *http.Request) (int, error) {
    _ = r.ParseForm()
    if s := r.Form.Get("i"); s != "" {
        return strconv.Atoi(s)
    }
    ri, err := strconv.Atoi(r.Form.Get("r"))
    if err != nil {
        return 0, err
    }
    ci, err := strconv.Atoi(r.Form.Get("c"))
    if err != nil {
        return 0, err
    }
    if ri < 0 || ri > 2 || ci < 0 || ci > 2 {
        return -1, nil
    }
    return ri*3 + ci, nil
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    i, err := cellFromForm(r)
    var gs *app.GameState
    if err != nil {
        err = domain.ErrOutOfBounds
    } else {
        gs, err = h.svc.Play(id, pid, i)
    }
    h.respondBoard(w, id, pid, gs, err)
}

func (h *handlers) next(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.NextRound(id, pid)
    h.respondBoard(w, id, pid, gs, err)
}

// respondBoard renders the board fragment, with a message when err is set.
func (h *handlers) respondBoard(w http.ResponseWriter, id, pid string, gs *app.GameState, err error) {
    if err != nil && gs == nil {
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
    }
    if gs == nil {
        http.Error(w, "game not found", http.StatusNotFound)
        return
    }
    writeHTML(w, http.StatusOK, h.renderBoard(gs, pid, errorMessage(err)))
}

func errorMessage(err error) string {
    switch {
    case err == nil:
        return ""
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    case errors.Is(err, domain.ErrRoundInProgress):
        return "Finish this round first"
    case errors.Is(err, domain.ErrMatchOver):
        return "Match is over"
    default:
        return "Invalid move"
    }
}

func (h *handlers) share(w http.ResponseWriter, r *http.Request) {
    code := chi.URLParam(r, "code")
    if code == "" {
        code = r.URL.Query().Get("code")
    }
    if !app.ValidCode(code) {
        http.Error(w, "invalid code", http.StatusBadRequest)
        return
    }
    gs, ok := h.svc.GetByCode(code)
    if !ok {
        http.NotFound(w, r)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// events streams board fragments rendered for the requesting player.
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := playerFromCookie(r)
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    flusher, ok := w.(http.Flusher)
    if !ok {
        http.Error(w, "streaming unsupported", http.StatusInternalServerError)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    w.WriteHeader(http.StatusOK)
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            // SSE data lines may not contain raw newlines.
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", oneLine(h.renderBoard(&gs, pid, "")))
            flusher.Flush()
        }
    }
}

func oneLine(b []byte) []byte {
    out := make([]byte, 0, len(b))
    for _, c := range b {
        if c == '\n' || c == '\r' {
            continue
        }
        out = append(out, c)
    }
    return out
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
