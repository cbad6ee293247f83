package app

import (
    "strings"

    "lukechampine.com/frand"
)

const (
    codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
    codeLength   = 6
)

func newCode() string {
    var b [codeLength]byte
    for i := range b {
        b[i] = codeAlphabet[frand.Intn(len(codeAlphabet))]
    }
    return string(b[:])
}

// newCodeLocked returns a share code not yet in use. s.mu must be held.
func (s *Service) newCodeLocked() string {
    for {
        c := newCode()
        if _, taken := s.codes[c]; !taken {
            return c
        }
    }
}

func normalizeCode(c string) string { return strings.ToUpper(strings.TrimSpace(c)) }

// ValidCode reports whether c looks like a share code.
func ValidCode(c string) bool {
    c = normalizeCode(c)
    if len(c) != codeLength {
        return false
    }
    for i := 0; i < len(c); i++ {
        if !strings.ContainsRune(codeAlphabet, rune(c[i])) {
            return false
        }
    }
    return true
}
