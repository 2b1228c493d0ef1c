package storage

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/linkbox/internal/config"
	"github.com/nikbrunner/linkbox/internal/logger"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open opens the backend selected in cfg.
func Open(cfg config.Storage, log logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return NewSQLiteBackend(cfg.Path)
	case "json":
		return NewJSONBackend(cfg.Path), nil
	case "redis":
		return NewRedisBackend(cfg.Redis, log)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
