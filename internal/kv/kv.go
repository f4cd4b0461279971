// Package kv provides the process-wide key-value stores snapshots are
// persisted to.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a string key-value store. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
}

// Open creates the store named by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(opts.Path)
	case BackendRedis:
		var ropts []RedisOption
		if opts.Prefix != "" {
			ropts = append(ropts, WithPrefix(opts.Prefix))
		}
		if opts.TTL > 0 {
			ropts = append(ropts, WithTTL(opts.TTL))
		}
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, ropts...), nil
	case BackendSQLite:
		return NewSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
