package web

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
}

type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

type wsCommand struct {
    Type  string `json:"type"`
    Index int    `json:"index"`
}

func mustMarshal(v any) []byte {
    b, err := json.Marshal(v)
    if err != nil {
        panic(err)
    }
    return b
}

func stateMessage(gs *app.GameState) wsMessage {
    return wsMessage{Type: "state", Payload: mustMarshal(newGameJSON(gs))}
}

func errorWSMessage(err error) wsMessage {
    return wsMessage{Type: "error", Payload: mustMarshal(errorResponse{Error: errorMessage(err)})}
}

// stream sends JSON snapshots of a game and accepts play/next commands
// from the seated player. Only the write loop touches the connection for
// writing.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // Headers set on w are not sent with the upgrade response, so the
    // cookie is read but never issued here.
    pid := playerFromCookie(r)

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    // Subscribe before the first snapshot so no change falls between them.
    updates, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Warn().Err(err).Str("game", id).Msg("websocket upgrade")
        return
    }
    defer conn.Close()
    gs, ok := h.svc.Get(id)
    if !ok {
        return
    }

    replies := make(chan wsMessage, 4)
    go h.readCommands(ctx, cancel, conn, id, pid, replies)

    log := h.log.With().Str("game", id).Logger()
    log.Debug().Msg("websocket connected")
    defer log.Debug().Msg("websocket closed")

    if err := writeWS(conn, stateMessage(gs)); err != nil {
        return
    }
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    for {
        var msg wsMessage
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            msg = wsMessage{Type: "ping"}
        case st, ok := <-updates:
            if !ok {
                return
            }
            msg = stateMessage(&st)
        case msg = <-replies:
        }
        if err := writeWS(conn, msg); err != nil {
            return
        }
    }
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
    _ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
    return conn.WriteJSON(msg)
}

// readCommands applies commands until the peer goes away. Successful moves
// reach the client through the subscription; failures come back as errors.
func (h *handlers) readCommands(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id, pid string, replies chan<- wsMessage) {
    defer cancel()
    for {
        var cmd wsCommand
        if err := conn.ReadJSON(&cmd); err != nil {
            return
        }
        var err error
        switch cmd.Type {
        case "play":
            _, err = h.svc.Play(id, pid, cmd.Index)
        case "next":
            _, err = h.svc.NextRound(id, pid)
        default:
            continue
        }
        if err == nil {
            continue
        }
        select {
        case replies <- errorWSMessage(err):
        case <-ctx.Done():
            return
        }
    }
}
