package web

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/Mide001/TBA-MINIAPP/internal/domain"
    "github.com/gorilla/websocket"
)

func dialGame(t *testing.T, srv *httptest.Server, id, pid string) *websocket.Conn {
    t.Helper()
    u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + id + "/ws"
    header := http.Header{}
    if pid != "" {
        header.Set("Cookie", "player_id="+pid)
    }
    conn, _, err := websocket.DefaultDialer.Dial(u, header)
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    t.Cleanup(func() { conn.Close() })
    return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, typ string) json.RawMessage {
    t.Helper()
    _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
    for {
        var msg wsMessage
        if err := conn.ReadJSON(&msg); err != nil {
            t.Fatalf("read: %v", err)
        }
        if msg.Type == typ {
            return msg.Payload
        }
    }
}

func TestWebSocketStreamsStateAndAcceptsMoves(t *testing.T) {
    svc := app.NewService()
    srv := httptest.NewServer(NewServer(svc))
    defer srv.Close()
    gs, _ := svc.CreateGame(app.ModeComputer, domain.X, "p1", 0)

    conn := dialGame(t, srv, gs.ID, "p1")
    var st gameJSON
    if err := json.Unmarshal(readMessage(t, conn, "state"), &st); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if st.ID != gs.ID || st.Board.String() != "........." {
        t.Fatalf("unexpected initial state %+v", st)
    }

    if err := conn.WriteJSON(wsCommand{Type: "play", Index: 4}); err != nil {
        t.Fatalf("write: %v", err)
    }
    if err := json.Unmarshal(readMessage(t, conn, "state"), &st); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if st.Board[4] != domain.X || st.LastAI == nil || st.Board[*st.LastAI] != domain.O {
        t.Fatalf("expected human move and engine reply, got %s", st.Board)
    }
}

func TestWebSocketReportsErrorsToSpectators(t *testing.T) {
    svc := app.NewService()
    srv := httptest.NewServer(NewServer(svc))
    defer srv.Close()
    gs, _ := svc.CreateGame(app.ModeLocal, domain.Empty, "p1", 0)

    conn := dialGame(t, srv, gs.ID, "")
    readMessage(t, conn, "state")
    if err := conn.WriteJSON(wsCommand{Type: "play", Index: 0}); err != nil {
        t.Fatalf("write: %v", err)
    }
    var e errorResponse
    if err := json.Unmarshal(readMessage(t, conn, "error"), &e); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if e.Error != "You are a spectator" {
        t.Fatalf("unexpected error %q", e.Error)
    }
}

func TestWebSocketUnknownGame(t *testing.T) {
    srv := httptest.NewServer(NewServer(app.NewService()))
    defer srv.Close()
    u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/missing/ws"
    _, resp, err := websocket.DefaultDialer.Dial(u, nil)
    if err == nil {
        t.Fatalf("expected dial to fail")
    }
    if resp == nil || resp.StatusCode != http.StatusNotFound {
        t.Fatalf("expected 404 response, got %v", resp)
    }
}

func TestWebSocketSeesMoveMadeRightAfterConnect(t *testing.T) {
    svc := app.NewService()
    srv := httptest.NewServer(NewServer(svc))
    defer srv.Close()
    gs, _ := svc.CreateGame(app.ModeLocal, domain.Empty, "p1", 0)

    conn := dialGame(t, srv, gs.ID, "p1")
    // the move lands before the client reads its first snapshot
    if _, err := svc.Play(gs.ID, "p1", 0); err != nil {
        t.Fatalf("play: %v", err)
    }
    for i := 0; i < 3; i++ {
        var st gameJSON
        if err := json.Unmarshal(readMessage(t, conn, "state"), &st); err != nil {
            t.Fatalf("decode: %v", err)
        }
        if st.Board[0] == domain.X {
            return
        }
    }
    t.Fatalf("move at 0 never reached the client")
}
