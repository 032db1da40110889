// Package index provides the map object backends searched on a device's
// position request.
package index

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nwah/naviwatch-bridge/watch"
)

const (
	BackendNone     = "none"
	BackendSQLite   = "sqlite"
	BackendPostGIS  = "postgis"
	BackendOverpass = "overpass"

	DefaultLimit          = 50
	DefaultOverpassURL    = "https://overpass-api.de/api/interpreter"
	DefaultTimeoutSeconds = 10
)

// Config selects and configures the index backend
type Config struct {
	Backend        string `toml:"backend"`
	SQLitePath     string `toml:"sqlite_path"`
	DatabaseURL    string `toml:"database_url"`
	OverpassURL    string `toml:"overpass_url"`
	Limit          int    `toml:"limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Backend is a spatial index that holds resources until closed
type Backend interface {
	watch.SpatialIndex
	Close() error
}

// Open creates the backend named in cfg. With BackendNone (or an empty
// backend) it returns nil and position requests only report the window.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}

	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("index.sqlite_path is required for the sqlite backend")
		}
		db, err := OpenSQLite(cfg.SQLitePath, cfg.Limit)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendPostGIS:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgis backend")
		}
		pg, err := OpenPostGIS(ctx, cfg.DatabaseURL, cfg.Limit)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case BackendOverpass:
		url := cfg.OverpassURL
		if url == "" {
			url = DefaultOverpassURL
		}
		timeout := cfg.TimeoutSeconds
		if timeout <= 0 {
			timeout = DefaultTimeoutSeconds
		}
		return NewOverpass(url, cfg.Limit, time.Duration(timeout)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}

// sortedTags converts a tag map into tags ordered by key. The name tag is
// carried by MapObject.Name and left out.
func sortedTags(tags map[string]string) []watch.Tag {
	out := make([]watch.Tag, 0, len(tags))
	for k, v := range tags {
		if k == "name" {
			continue
		}
		out = append(out, watch.Tag{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
