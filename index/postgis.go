package index

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nwah/naviwatch-bridge/watch"
)

// searchQuery expects a map_objects table with a 4326 point geometry and
// jsonb tags.
const searchQuery = `SELECT name, COALESCE(tags, '{}'::jsonb)
FROM map_objects
WHERE geom && ST_MakeEnvelope($1, $2, $3, $4, 4326)
  AND name <> ''
ORDER BY id
LIMIT $5`

// PostGIS is a map index served by a PostGIS database
type PostGIS struct {
	pool  *pgxpool.Pool
	limit int
}

func newPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Position requests are rare; a small pool is plenty
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return pool, nil
}

// OpenPostGIS connects to the database and checks it is reachable
func OpenPostGIS(ctx context.Context, databaseURL string, limit int) (*PostGIS, error) {
	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	log.Printf("[index] postgis index connected")
	return &PostGIS{pool: pool, limit: limit}, nil
}

// Search returns the named objects whose geometry intersects box
func (p *PostGIS) Search(ctx context.Context, box watch.BoundingBox) ([]watch.MapObject, error) {
	b := lonLatBound(box)
	rows, err := p.pool.Query(ctx, searchQuery, b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat(), p.limit)
	if err != nil {
		return nil, fmt.Errorf("query map objects: %w", err)
	}
	defer rows.Close()

	var objects []watch.MapObject
	for rows.Next() {
		var name string
		var tags map[string]string
		if err := rows.Scan(&name, &tags); err != nil {
			return nil, fmt.Errorf("scan map object: %w", err)
		}
		objects = append(objects, watch.MapObject{Name: name, Tags: sortedTags(tags)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate map objects: %w", err)
	}
	return objects, nil
}

// Close closes the pool
func (p *PostGIS) Close() error {
	p.pool.Close()
	return nil
}
