package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
)

// Store wraps the bot's database. All persistence goes through here so the
// command handlers can be tested against an in-memory database.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &Coords{}, &URL{}, &Attachment{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenMemory opens a fresh, isolated in-memory database. Used by tests. The
// database is named uniquely and shared across the connection pool so pooled
// connections all see the same data.
func OpenMemory() (*Store, error) {
	return Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// Counts reports row counts per table for the stats job.
func (s *Store) Counts() (map[string]int64, error) {
	counts := make(map[string]int64)
	for name, model := range map[string]any{
		"users":       &User{},
		"coords":      &Coords{},
		"urls":        &URL{},
		"attachments": &Attachment{},
	} {
		var n int64
		if err := s.db.Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
