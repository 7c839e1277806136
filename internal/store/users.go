package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// findUser looks up a user by platform ID first, then by display name.
func (s *Store) findUser(name string, discordID *int64) (*User, error) {
	var user User

	if discordID != nil {
		err := s.db.Where("discord_id = ?", *discordID).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user by id: %w", err)
		}
	}

	if name != "" {
		err := s.db.Where("name = ?", name).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user by name: %w", err)
		}
	}

	return nil, ErrNotFound
}

// GetUser returns the user matching discordID or name, or ErrNotFound.
// At least one of the two must be provided.
func (s *Store) GetUser(name string, discordID *int64) (*User, error) {
	if discordID == nil && name == "" {
		return nil, errors.New("need a discord id or name")
	}
	return s.findUser(name, discordID)
}

// GetOrCreateUser returns the user matching discordID or name, creating the
// row when no match exists.
func (s *Store) GetOrCreateUser(name string, discordID *int64) (*User, error) {
	if discordID == nil && name == "" {
		return nil, errors.New("need a discord id or name")
	}

	user, err := s.findUser(name, discordID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &User{Name: name, DiscordID: discordID}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// SetWeatherLocation persists a user's default weather location.
func (s *Store) SetWeatherLocation(user *User, location string) error {
	user.WeatherLocation = &location
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("set weather location: %w", err)
	}
	return nil
}

// UpdateLastSeen records the last thing a user said and when.
func (s *Store) UpdateLastSeen(user *User, line string, at time.Time) error {
	user.LastLine = line
	user.LastSeen = &at
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("update last seen: %w", err)
	}
	return nil
}
