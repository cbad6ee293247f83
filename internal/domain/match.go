package domain

import "errors"

// DefaultRounds is the match length used when none is given.
const DefaultRounds = 3

// Errors returned by Match.
var (
    ErrMatchOver       = errors.New("match over")
    ErrRoundInProgress = errors.New("round in progress")
)

// Match tallies a best-of-N series of games.
type Match struct {
    Rounds   int
    Round    int
    XWins    int
    OWins    int
    Draws    int
    recorded int
}

// NewMatch starts a match at round 1. Non-positive lengths use DefaultRounds.
func NewMatch(rounds int) Match {
    if rounds < 1 {
        rounds = DefaultRounds
    }
    return Match{Rounds: rounds, Round: 1}
}

// Record adds a finished round to the tally. It ignores games in progress and
// rounds that were already recorded.
func (m *Match) Record(o Outcome) bool {
    if o == InProgress || m.recorded >= m.Round {
        return false
    }
    switch o {
    case XWins:
        m.XWins++
    case OWins:
        m.OWins++
    case Draw:
        m.Draws++
    }
    m.recorded = m.Round
    return true
}

// Recorded reports whether the current round has a result.
func (m *Match) Recorded() bool { return m.recorded >= m.Round }

// Needed is the number of wins that takes the match.
func (m *Match) Needed() int { return (m.Rounds + 1) / 2 }

// Winner returns the mark that reached the winning tally, or Empty.
func (m *Match) Winner() Cell {
    switch {
    case m.XWins >= m.Needed():
        return X
    case m.OWins >= m.Needed():
        return O
    default:
        return Empty
    }
}

// Complete reports whether the match has a winner or the last round is done.
func (m *Match) Complete() bool {
    if m.Winner() != Empty {
        return true
    }
    return m.Round >= m.Rounds && m.Recorded()
}

// NextRound moves on to the next round.
func (m *Match) NextRound() error {
    if m.Complete() {
        return ErrMatchOver
    }
    if !m.Recorded() {
        return ErrRoundInProgress
    }
    m.Round++
    return nil
}
