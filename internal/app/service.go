package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/domain"
    "github.com/Mide001/TBA-MINIAPP/internal/engine"
    "github.com/google/uuid"
    "github.com/rs/zerolog"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
    ErrInvalidMode = errors.New("invalid mode")
    ErrInvalidSide = errors.New("invalid side")
)

// Mode selects who plays the second seat.
type Mode string

const (
    // ModeComputer pits the owner against the move engine.
    ModeComputer Mode = "computer"
    // ModeLocal is pass-and-play: the owner plays both marks.
    ModeLocal Mode = "local"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
    switch Mode(s) {
    case ModeComputer, ModeLocal:
        return Mode(s), nil
    }
    return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID      string
    Code    string
    Mode    Mode
    Human   domain.Cell
    Owner   string
    Game    domain.Game
    Match   domain.Match
    LastAI  int
    Created time.Time
    Updated time.Time
}

// Computer returns the engine's mark, or Empty outside computer mode.
func (gs *GameState) Computer() domain.Cell {
    if gs.Mode != ModeComputer {
        return domain.Empty
    }
    return gs.Human.Opponent()
}

// CanPlay reports whether the owner may place a mark right now.
func (gs *GameState) CanPlay() bool {
    if gs.Game.Over() {
        return false
    }
    return gs.Mode == ModeLocal || gs.Game.Turn == gs.Human
}

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// MoveFunc picks a cell for mark on b.
type MoveFunc func(b domain.Board, mark domain.Cell) (int, error)

// Options configure a Service. The zero value is usable.
type Options struct {
    Rounds int
    Logger *zerolog.Logger
    Move   MoveFunc
}

// Service manages games and subscribers.
type Service struct {
    mu     sync.Mutex
    games  map[string]*GameState
    codes  map[string]string
    subs   map[string]map[*subscriber]struct{}
    rounds int
    move   MoveFunc
    log    zerolog.Logger
}

// NewService creates a service with default options.
func NewService() *Service { return New(Options{}) }

// New creates a service from opts.
func New(opts Options) *Service {
    s := &Service{
        games:  make(map[string]*GameState),
        codes:  make(map[string]string),
        subs:   make(map[string]map[*subscriber]struct{}),
        rounds: opts.Rounds,
        move:   opts.Move,
        log:    zerolog.Nop(),
    }
    if s.rounds < 1 {
        s.rounds = domain.DefaultRounds
    }
    if s.move == nil {
        s.move = engine.BestMove
    }
    if opts.Logger != nil {
        s.log = opts.Logger.With().Str("component", "games").Logger()
    }
    return s
}

// CreateGame creates and registers a new game owned by ownerID. In computer
// mode human is the owner's mark; when it is O the engine opens. A rounds
// value below 1 uses the service default.
func (s *Service) CreateGame(mode Mode, human domain.Cell, ownerID string, rounds int) (*GameState, error) {
    switch mode {
    case ModeComputer:
        if human != domain.X && human != domain.O {
            return nil, ErrInvalidSide
        }
    case ModeLocal:
        human = domain.Empty
    default:
        return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
    }
    if rounds < 1 {
        rounds = s.rounds
    }

    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now()
    gs := &GameState{
        ID:      uuid.NewString(),
        Code:    s.newCodeLocked(),
        Mode:    mode,
        Human:   human,
        Owner:   ownerID,
        Game:    domain.New(),
        Match:   domain.NewMatch(rounds),
        LastAI:  -1,
        Created: now,
        Updated: now,
    }
    if gs.Computer() == gs.Game.Turn {
        if err := s.computerMoveLocked(gs); err != nil {
            return nil, err
        }
    }
    s.games[gs.ID] = gs
    s.codes[gs.Code] = gs.ID
    s.log.Info().Str("game", gs.ID).Str("code", gs.Code).Str("mode", string(mode)).
        Int("rounds", rounds).Msg("game created")
    cp := *gs
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// GetByCode resolves a share code to a copy of its game.
func (s *Service) GetByCode(code string) (*GameState, bool) {
    s.mu.Lock()
    id, ok := s.codes[normalizeCode(code)]
    s.mu.Unlock()
    if !ok {
        return nil, false
    }
    return s.Get(id)
}

// Join claims the owner seat when it is free. Everyone else spectates.
func (s *Service) Join(id, playerID string) (bool, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return false, nil, ErrNotFound
    }
    seated := false
    if gs.Owner == "" || gs.Owner == playerID {
        gs.Owner = playerID
        seated = true
        gs.Updated = time.Now()
    }
    cp := *gs
    return seated, &cp, nil
}

// Play places the mark to move at cell i for the owner. In computer mode the
// engine replies before Play returns; if it fails the human move is undone.
func (s *Service) Play(id, playerID string, i int) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if playerID == "" || gs.Owner != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if gs.Game.Over() {
        s.mu.Unlock()
        return nil, domain.ErrGameOver
    }
    if !gs.CanPlay() {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    prev := *gs
    if err := gs.Game.PlayAt(i); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    s.recordLocked(gs)
    if gs.Mode == ModeComputer && !gs.Game.Over() {
        if err := s.computerMoveLocked(gs); err != nil {
            *gs = prev
            s.mu.Unlock()
            return nil, err
        }
    }
    gs.Updated = time.Now()
    cp := *gs
    s.mu.Unlock()

    s.publish(id, cp)
    return &cp, nil
}

// NextRound starts a fresh board once the current round has a result.
func (s *Service) NextRound(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if playerID == "" || gs.Owner != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    prev := *gs
    if err := gs.Match.NextRound(); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Game = domain.New()
    gs.LastAI = -1
    if gs.Computer() == gs.Game.Turn {
        if err := s.computerMoveLocked(gs); err != nil {
            *gs = prev
            s.mu.Unlock()
            return nil, err
        }
    }
    gs.Updated = time.Now()
    cp := *gs
    s.mu.Unlock()

    s.log.Debug().Str("game", id).Int("round", cp.Match.Round).Msg("round started")
    s.publish(id, cp)
    return &cp, nil
}

func (s *Service) computerMoveLocked(gs *GameState) error {
    mark := gs.Computer()
    i, err := s.move(gs.Game.Board, mark)
    if err != nil {
        return fmt.Errorf("computer move: %w", err)
    }
    if err := gs.Game.PlayAt(i); err != nil {
        return fmt.Errorf("computer move %d: %w", i, err)
    }
    gs.LastAI = i
    s.log.Debug().Str("game", gs.ID).Str("mark", mark.String()).Int("cell", i).Msg("computer moved")
    s.recordLocked(gs)
    return nil
}

func (s *Service) recordLocked(gs *GameState) {
    out := gs.Game.Outcome()
    if !gs.Match.Record(out) {
        return
    }
    ev := s.log.Info().Str("game", gs.ID).Int("round", gs.Match.Round).Str("outcome", out.String())
    if w := gs.Match.Winner(); w != domain.Empty {
        ev = ev.Str("match_winner", w.String())
    }
    ev.Msg("round finished")
}

// publish fans a snapshot out to subscribers; slow ones are dropped. Sends
// never block, so the lock is held throughout and no send can race an
// unsubscribe closing the channel.
func (s *Service) publish(id string, cp GameState) {
    s.mu.Lock()
    defer s.mu.Unlock()
    dropped := 0
    for sub := range s.subs[id] {
        select {
        case sub.ch <- cp:
        default:
            delete(s.subs[id], sub)
            sub.close()
            dropped++
        }
    }
    if dropped > 0 {
        s.log.Warn().Str("game", id).Int("dropped", dropped).Msg("dropped slow subscribers")
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, func() {}, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}
