package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// HasAttachment reports whether an attachment with the given platform ID is
// already recorded.
func (s *Store) HasAttachment(discordID int64) (bool, error) {
	var att Attachment
	err := s.db.Where("discord_id = ?", discordID).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup attachment: %w", err)
	}
	return true, nil
}

// InsertAttachment records a saved attachment.
func (s *Store) InsertAttachment(att *Attachment) error {
	if err := s.db.Create(att).Error; err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}
