package main

import (
    "context"
    "errors"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/app"
    "github.com/Mide001/TBA-MINIAPP/internal/config"
    "github.com/Mide001/TBA-MINIAPP/internal/logging"
    "github.com/Mide001/TBA-MINIAPP/internal/web"
    "golang.org/x/sync/errgroup"
)

func main() {
    cfg := config.Load()
    log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

    svc := app.New(app.Options{Rounds: cfg.Rounds, Logger: &log})
    // Streams (SSE, WebSocket) hang off this context so shutdown can end them.
    streams, endStreams := context.WithCancel(context.Background())
    defer endStreams()
    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.New(svc, web.Options{Logger: &log, Heartbeat: cfg.Heartbeat}),
        ReadHeaderTimeout: 5 * time.Second,
        BaseContext:       func(net.Listener) context.Context { return streams },
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    g, ctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        log.Info().Str("addr", cfg.Addr).Int("rounds", cfg.Rounds).Msg("listening")
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    })
    g.Go(func() error {
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
        defer cancel()
        log.Info().Msg("shutting down")
        endStreams()
        return srv.Shutdown(shutdownCtx)
    })
    if err := g.Wait(); err != nil {
        log.Fatal().Err(err).Msg("server stopped")
    }
}
