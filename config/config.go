// Package config holds the settings read from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Server settings.
var (
	Port           = getEnvInt("PORT", 5000)
	LogLevel       = getEnvString("LOG_LEVEL", "info")
	Friends        = getEnvList("FRIENDS", []string{"zerocool", "denosnake", "crashoverride"})
	DefaultTimeout = getEnvInt("DEFAULT_TIMEOUT_MS", 500)
	// LatencyBuffer is taken off the game timeout to leave room for the
	// response to reach the game server.
	LatencyBuffer    = time.Duration(getEnvInt("MOVE_LATENCY_BUFFER_MS", 150)) * time.Millisecond
	PrometheusListen = getEnvString("PROMETHEUS_LISTEN", "")
	StartRate        = rate.Limit(getEnvInt("START_RPS", 10))
	StartBurstRate   = getEnvInt("START_BURST", 20)
	// SessionIdleTimeout closes games that stop sending requests without an
	// end.
	SessionIdleTimeout = time.Duration(getEnvInt("SESSION_IDLE_TIMEOUT_S", 600)) * time.Second
)

// Storage settings. These aren't user facing but useful for tuning the
// details of recording games.
var (
	Store         = getEnvString("STORE", "memory")
	StoreDir      = getEnvString("STORE_DIR", "")
	RedisURL      = getEnvString("REDIS_URL", "redis://127.0.0.1:6379")
	DatabaseURL   = getEnvString("DATABASE_URL", "")
	RecorderQueue = getEnvInt("RECORDER_QUEUE", 1024)
	MaxOpenConns  = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns  = getEnvInt("MAX_IDLE_CONNS", 20)
)

// Appearance of the snake reported to the game server.
const (
	APIVersion = "1"
	Author     = "tyrelh"
	Color      = "#9557EF"
	Head       = "bwc-ski"
	Tail       = "bolt"
)

func getEnvString(varName string, defaults string) string {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	return val
}

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(varName string, defaults []string) []string {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	var list []string
	for _, v := range strings.Split(val, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}
