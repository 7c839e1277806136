package store

import "time"

// User is a chat platform user known to the bot. Rows are created lazily the
// first time somebody interacts, keyed by platform ID first and display name
// second.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"index"`
	DiscordID *int64 `gorm:"uniqueIndex"`

	// WeatherLocation is the user's default location for the weather
	// command. Nil until set with `.wz -d`.
	WeatherLocation *string

	LastSeen *time.Time
	LastLine string
}

// Coords is one row of the geocoding cache: a free-text query mapped to the
// canonical address and coordinates the geocoder returned for it. Query is a
// case-insensitive unique key; rows are write-once.
type Coords struct {
	ID        uint   `gorm:"primaryKey"`
	Query     string `gorm:"uniqueIndex"`
	Address   string
	Latitude  float64
	Longitude float64
}

// URL is a link somebody posted, with the scraped page title.
type URL struct {
	ID      uint `gorm:"primaryKey"`
	UserID  uint
	User    User
	URL     string
	Title   string
	Created time.Time
}

// Attachment records a message attachment saved to disk.
type Attachment struct {
	ID              uint  `gorm:"primaryKey"`
	DiscordID       int64 `gorm:"uniqueIndex"`
	DiscordFilename string
	Filename        string
	URL             string
	Emoji           string
	UserID          uint
	User            User
}
