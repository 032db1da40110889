package index

import (
	"context"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nwah/naviwatch-bridge/watch"
)

// mapObjectRecord is a named map object stored at its tile position
type mapObjectRecord struct {
	ID   uint              `gorm:"primaryKey"`
	Name string            `gorm:"column:name;not null"`
	X31  int64             `gorm:"column:x31;index:idx_map_objects_xy,priority:1"`
	Y31  int64             `gorm:"column:y31;index:idx_map_objects_xy,priority:2"`
	Tags datatypes.JSONMap `gorm:"column:tags"`
}

func (mapObjectRecord) TableName() string {
	return "map_objects"
}

// SQLite is a map index kept in a local SQLite file
type SQLite struct {
	db    *gorm.DB
	limit int
}

// OpenSQLite opens (and creates if needed) the index at path
func OpenSQLite(path string, limit int) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite index: %w", err)
	}

	if err := db.AutoMigrate(&mapObjectRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite index: %w", err)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	log.Printf("[index] sqlite index at %s", path)
	return &SQLite{db: db, limit: limit}, nil
}

// Insert stores a named object at loc
func (s *SQLite) Insert(ctx context.Context, name string, loc watch.LocationSample, tags map[string]string) error {
	jsonTags := make(datatypes.JSONMap, len(tags))
	for k, v := range tags {
		jsonTags[k] = v
	}
	record := mapObjectRecord{
		Name: name,
		X31:  watch.TileX(loc.Lon),
		Y31:  watch.TileY(loc.Lat),
		Tags: jsonTags,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("insert %q: %w", name, err)
	}
	return nil
}

// Search returns the named objects inside box
func (s *SQLite) Search(ctx context.Context, box watch.BoundingBox) ([]watch.MapObject, error) {
	var records []mapObjectRecord
	err := s.db.WithContext(ctx).
		Where("x31 BETWEEN ? AND ? AND y31 BETWEEN ? AND ?", box.MinX, box.MaxX, box.MinY, box.MaxY).
		Where("name <> ''").
		Order("id").
		Limit(s.limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("search sqlite index: %w", err)
	}

	objects := make([]watch.MapObject, 0, len(records))
	for _, r := range records {
		tags := make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			tags[k] = fmt.Sprint(v)
		}
		objects = append(objects, watch.MapObject{Name: r.Name, Tags: sortedTags(tags)})
	}
	return objects, nil
}

// Close releases the database handle
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
