package web

import (
    "net/http"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"
)

// Options configure the HTTP layer. The zero value is usable.
type Options struct {
    Logger    *zerolog.Logger
    Heartbeat time.Duration
}

// NewServer wires routes with default options and returns an http.Handler.
func NewServer(s *app.Service) http.Handler { return New(s, Options{}) }

// New wires routes and returns an http.Handler.
func New(s *app.Service, opts Options) http.Handler {
    log := zerolog.Nop()
    if opts.Logger != nil {
        log = opts.Logger.With().Str("component", "http").Logger()
    }
    if opts.Heartbeat <= 0 {
        opts.Heartbeat = 15 * time.Second
    }
    h := &handlers{svc: s, tpl: loadTemplates(), log: log, heartbeat: opts.Heartbeat}

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(log))
    r.Use(middleware.Recoverer)

    r.Get("/", h.index)
    r.Get("/healthz", h.healthz)
    r.Get("/s", h.share)
    r.Get("/s/{code}", h.share)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/next", h.next)
        r.Get("/events", h.events)
        r.Get("/ws", h.stream)
    })
    r.Route("/api", func(r chi.Router) {
        r.Post("/move", h.apiMove)
        r.Post("/analyze", h.apiAnalyze)
        r.Get("/games/{id}", h.apiGame)
    })
    return r
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            defer func() {
                status := ww.Status()
                if status == 0 {
                    status = http.StatusOK
                }
                ev := log.Info()
                if status >= http.StatusInternalServerError {
                    ev = log.Error()
                }
                ev.Str("method", r.Method).
                    Str("path", r.URL.Path).
                    Int("status", status).
                    Int("bytes", ww.BytesWritten()).
                    Dur("took", time.Since(start)).
                    Str("request_id", middleware.GetReqID(r.Context())).
                    Msg("request")
            }()
            next.ServeHTTP(ww, r)
        })
    }
}
