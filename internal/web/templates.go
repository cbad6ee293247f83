package web

import (
    "bytes"
    "fmt"
    "html/template"
    "net/http"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/Mide001/TBA-MINIAPP/internal/domain"
    "github.com/google/uuid"
)

type templates struct {
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "add":  func(a, b int) int { return a + b },
        "mul":  func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic Tac Toe</h1>
<p class="share">Share code: <strong>{{.Board.Code}}</strong></p>
<div hx-ext="sse" hx-sse="connect:/game/{{.Board.ID}}/events">
  <div id="board-feed" hx-sse="swap:board">{{template "board" .Board}}</div>
</div>`))
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>Tic Tac Toe</h1>
<form action="/game" method="post">
  <fieldset>
    <legend>Mode</legend>
    <label><input type="radio" name="mode" value="computer" checked> Play vs computer</label>
    <label><input type="radio" name="mode" value="local"> Pass and play</label>
  </fieldset>
  <fieldset>
    <legend>Your mark (vs computer)</legend>
    <label><input type="radio" name="mark" value="X" checked> X (moves first)</label>
    <label><input type="radio" name="mark" value="O"> O</label>
  </fieldset>
  <label>Rounds
    <select name="rounds">
      <option value="1">1</option>
      <option value="3" selected>3</option>
      <option value="5">5</option>
    </select>
  </label>
  <button>Create</button>
</form>
<form action="/s" method="get">
  <input name="code" maxlength="6" placeholder="Share code">
  <button>Watch</button>
</form>`

const boardTemplate = `
<div id="board" class="mode-{{.Mode}}">
  <p class="status">{{.Status}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$cell := index $.Cells (add (mul $r 3) $c)}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="i" value="{{$cell.Index}}">
        <button type="submit" class="cell{{if $cell.Win}} win{{end}}{{if $cell.Last}} last{{end}}"{{if not $cell.Playable}} disabled{{end}}>{{$cell.Symbol}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <div class="score">
    <span>Round {{.Round}} of {{.Rounds}}</span>
    <span>X {{.XWins}}</span>
    <span>O {{.OWins}}</span>
    <span>Draws {{.Draws}}</span>
  </div>
  {{if .MatchWinner}}<p class="match">Player {{.MatchWinner}} takes the match!</p>{{end}}
  {{if .CanNext}}
  <form hx-post="/game/{{.ID}}/next" hx-target="#board" hx-swap="outerHTML" method="post">
    <button>Next round</button>
  </form>
  {{end}}
</div>
`

type cellView struct {
    Index    int
    Symbol   string
    Win      bool
    Last     bool
    Playable bool
}

type boardView struct {
    ID          string
    Code        string
    Mode        app.Mode
    Cells       [9]cellView
    Status      string
    Error       string
    Round       int
    Rounds      int
    XWins       int
    OWins       int
    Draws       int
    MatchWinner string
    CanNext     bool
}

// newBoardView renders gs for viewer. Only the owner gets live controls.
func newBoardView(gs *app.GameState, viewer, errMsg string) boardView {
    owner := viewer != "" && viewer == gs.Owner
    v := boardView{
        ID:          gs.ID,
        Code:        gs.Code,
        Mode:        gs.Mode,
        Error:       errMsg,
        Status:      statusMessage(gs),
        Round:       gs.Match.Round,
        Rounds:      gs.Match.Rounds,
        XWins:       gs.Match.XWins,
        OWins:       gs.Match.OWins,
        Draws:       gs.Match.Draws,
        MatchWinner: gs.Match.Winner().String(),
        CanNext:     owner && gs.Game.Over() && !gs.Match.Complete(),
    }
    line, won := gs.Game.WinningLine()
    playable := owner && gs.CanPlay()
    for i, c := range gs.Game.Board {
        v.Cells[i] = cellView{
            Index:    i,
            Symbol:   c.String(),
            Last:     i == gs.LastAI,
            Playable: playable && c == domain.Empty,
        }
    }
    if won {
        for _, i := range line {
            v.Cells[i].Win = true
        }
    }
    return v
}

func statusMessage(gs *app.GameState) string {
    switch out := gs.Game.Outcome(); out {
    case domain.XWins, domain.OWins:
        if gs.Mode == app.ModeComputer {
            if out.Winner() == gs.Human {
                return "You win!"
            }
            return "Computer wins!"
        }
        return fmt.Sprintf("Player %s wins!", out.Winner())
    case domain.Draw:
        return "It's a draw!"
    }
    if gs.Mode == app.ModeComputer && gs.Game.Turn != gs.Human {
        return "Computer is thinking..."
    }
    return fmt.Sprintf("Player %s's turn", gs.Game.Turn)
}

func playerFromCookie(r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil {
        return c.Value
    }
    return ""
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if v := playerFromCookie(r); v != "" {
        return v
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
    return v
}
