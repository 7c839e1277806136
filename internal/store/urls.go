package store

import "fmt"

// InsertURLs records a batch of scraped links for a user.
func (s *Store) InsertURLs(urls []*URL) error {
	for _, u := range urls {
		if err := s.db.Create(u).Error; err != nil {
			return fmt.Errorf("insert url: %w", err)
		}
	}
	return nil
}

// SearchURLs returns stored links matching a substring term and/or a poster's
// platform ID, newest first. limit <= 0 means no limit.
func (s *Store) SearchURLs(term string, discordID *int64, limit int) ([]URL, error) {
	q := s.db.Model(&URL{}).Joins("User").Order("urls.created DESC")

	if term != "" {
		like := "%" + term + "%"
		q = q.Where("urls.url LIKE ? OR urls.title LIKE ?", like, like)
	}
	if discordID != nil {
		q = q.Where("\"User\".discord_id = ?", *discordID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var urls []URL
	if err := q.Find(&urls).Error; err != nil {
		return nil, fmt.Errorf("search urls: %w", err)
	}
	return urls, nil
}
