// Package sessionctx binds conversation sessions to their active
// vision document, so section-scoped operations don't have to repeat
// (component, version) on every call.
//
// Bindings are overwritten whole on each set — never merged — and are
// strictly per session: one session can never observe another's active
// document. Three backends are provided: in-memory for single-process
// runs, Redis for deployments where the orchestration layer is
// restarted independently of its state, and SQLite for durable
// single-host setups.
package sessionctx

import (
	"context"
	"fmt"

	"github.com/autobots-devtools/vision-mcp/internal/document"
)

// Context is a session's active document binding.
type Context struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

// Key returns the bound document key.
func (c Context) Key() document.Key {
	return document.Key{Component: c.Component, Version: c.Version}
}

// Store persists per-session document bindings.
// Get returns (nil, nil) for a session with no binding.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Context, error)
	Set(ctx context.Context, sessionID string, binding Context) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// Backend names for Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config selects and configures a context store backend.
type Config struct {
	Backend  string // memory | redis | sqlite
	RedisURL string // redis backend only
	DataDir  string // sqlite backend only
}

// New constructs the Store selected by cfg.Backend.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(cfg.RedisURL)
	case BackendSQLite:
		return NewSQLiteStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("sessionctx: unknown backend %q: must be one of: memory, redis, sqlite", cfg.Backend)
	}
}
