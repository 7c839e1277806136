package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// LookupCoords returns the cached geocoding result for query, matching the
// stored query key case-insensitively. Returns ErrNotFound on a miss.
func (s *Store) LookupCoords(query string) (*Coords, error) {
	var coords Coords
	err := s.db.Where("LOWER(query) = ?", strings.ToLower(query)).First(&coords).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup coords: %w", err)
	}
	return &coords, nil
}

// InsertCoords persists a freshly geocoded result. The query key is unique;
// callers always check LookupCoords first.
func (s *Store) InsertCoords(coords *Coords) error {
	if err := s.db.Create(coords).Error; err != nil {
		return fmt.Errorf("insert coords: %w", err)
	}
	return nil
}
