// Package attachments saves message attachments to disk with a database
// record, triggered by reaction events.
package attachments

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/baublesbot/baubles/internal/httpx"
	"github.com/baublesbot/baubles/internal/store"
)

// Attachment is one attachment carried by a reaction event.
type Attachment struct {
	ID       int64
	Filename string
	URL      string
}

// ReactionEvent is a reaction to a message carrying attachments.
type ReactionEvent struct {
	UserID      int64
	UserName    string
	Emoji       string
	Attachments []Attachment
}

// Saver downloads and records attachments.
type Saver struct {
	store  *store.Store
	caller *httpx.Caller
	dir    string
}

// New creates a Saver writing files under dir.
func New(st *store.Store, client *http.Client, dir string) *Saver {
	return &Saver{
		store:  st,
		caller: httpx.NewCaller(client, "attachments"),
		dir:    dir,
	}
}

// UniqueFilename prefixes a filename with a fresh UUID so repeated uploads of
// the same name never collide on disk.
func UniqueFilename(filename string) string {
	return fmt.Sprintf("%s-%s", uuid.NewString(), filename)
}

// Save records and downloads every attachment in the event that is not
// already in the database.
func (s *Saver) Save(ctx context.Context, event ReactionEvent) error {
	var fresh []Attachment
	for _, att := range event.Attachments {
		seen, err := s.store.HasAttachment(att.ID)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		fresh = append(fresh, att)
	}
	if len(fresh) == 0 {
		log.Println("attachments: nothing new to save")
		return nil
	}

	user, err := s.store.GetOrCreateUser(event.UserName, &event.UserID)
	if err != nil {
		return err
	}

	for _, att := range fresh {
		row := &store.Attachment{
			DiscordID:       att.ID,
			DiscordFilename: att.Filename,
			Filename:        UniqueFilename(att.Filename),
			URL:             att.URL,
			Emoji:           event.Emoji,
			UserID:          user.ID,
		}
		if err := s.store.InsertAttachment(row); err != nil {
			return err
		}
		if err := s.download(ctx, att.URL, row.Filename); err != nil {
			return err
		}
	}
	return nil
}

func (s *Saver) download(ctx context.Context, url, filename string) error {
	resp, err := s.caller.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
