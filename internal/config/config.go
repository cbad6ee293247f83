package config

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/Mide001/TBA-MINIAPP/internal/domain"
)

// Config holds process settings read from the environment.
type Config struct {
    Addr            string
    LogLevel        string
    LogFormat       string
    Rounds          int
    Heartbeat       time.Duration
    ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
    if v := strings.TrimSpace(os.Getenv(key)); v != "" {
        return v
    }
    return def
}

func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if i, err := strconv.Atoi(v); err == nil && i > 0 {
            return i
        }
    }
    return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
    if v := os.Getenv(key); v != "" {
        if d, err := time.ParseDuration(v); err == nil && d > 0 {
            return d
        }
    }
    return def
}

// Load reads TTT_* variables, falling back to defaults for missing or bad values.
func Load() Config {
    format := strings.ToLower(getenv("TTT_LOG_FORMAT", "json"))
    if format != "console" {
        format = "json"
    }
    return Config{
        Addr:            getenv("TTT_ADDR", ":8080"),
        LogLevel:        strings.ToLower(getenv("TTT_LOG_LEVEL", "info")),
        LogFormat:       format,
        Rounds:          getenvInt("TTT_ROUNDS", domain.DefaultRounds),
        Heartbeat:       getenvDuration("TTT_HEARTBEAT", 15*time.Second),
        ShutdownTimeout: getenvDuration("TTT_SHUTDOWN_TIMEOUT", 10*time.Second),
    }
}
