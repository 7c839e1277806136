// Package lastseen tracks the last thing each user said and answers the
// `.last` command.
package lastseen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/baublesbot/baubles/internal/store"
)

// Display times render in Pacific time, where most of the channel lives.
const displayZone = "America/Los_Angeles"

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// Tracker records and reports last-seen information.
type Tracker struct {
	store *store.Store
	now   func() time.Time
}

// New creates a Tracker.
func New(st *store.Store) *Tracker {
	return &Tracker{store: st, now: time.Now}
}

// Update records message as the last thing the author said.
func (t *Tracker) Update(authorName string, authorID int64, message string) error {
	user, err := t.store.GetOrCreateUser(authorName, &authorID)
	if err != nil {
		return err
	}
	return t.store.UpdateLastSeen(user, message, t.now().UTC())
}

// Get reports when the user with the given platform ID was last seen and what
// they said. Returns "" when there is nothing recorded.
func (t *Tracker) Get(discordID int64) (string, error) {
	user, err := t.store.GetUser("", &discordID)
	if err != nil {
		return "", err
	}
	if user.LastSeen == nil {
		return "", nil
	}

	loc, err := time.LoadLocation(displayZone)
	if err != nil {
		return "", err
	}
	formatted := user.LastSeen.In(loc).Format("2006-01-02 15:04:05 MST")
	return fmt.Sprintf("Last saw %s at %s saying: %s", user.Name, formatted, user.LastLine), nil
}

// Check handles the `.last` command suffix: it wants exactly one @mention.
func (t *Tracker) Check(suffix string) (string, error) {
	match := mentionPattern.FindStringSubmatch(suffix)
	if match == nil {
		return "No matching user. Use the @mention syntax.", nil
	}

	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return "No matching user. Use the @mention syntax.", nil
	}

	info, err := t.Get(id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if info == "" {
		return "No last seen info.", nil
	}
	return info, nil
}
