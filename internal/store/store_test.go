package store

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func TestCoordsLookupIsCaseInsensitive(t *testing.T) {
	st := newTestStore(t)

	coords := &Coords{
		Query:     "1600 Amphitheatre Parkway, Mountain View, CA",
		Address:   "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
		Latitude:  37.4224053,
		Longitude: -122.0842161,
	}
	if err := st.InsertCoords(coords); err != nil {
		t.Fatalf("insert: %v", err)
	}

	for _, q := range []string{
		"1600 Amphitheatre Parkway, Mountain View, CA",
		"1600 amphitheatre parkway, mountain view, ca",
		"1600 AMPHITHEATRE PARKWAY, MOUNTAIN VIEW, CA",
	} {
		got, err := st.LookupCoords(q)
		if err != nil {
			t.Fatalf("lookup %q: %v", q, err)
		}
		if got.Address != coords.Address {
			t.Errorf("lookup %q: got address %q", q, got.Address)
		}
	}
}

func TestCoordsLookupMiss(t *testing.T) {
	st := newTestStore(t)

	_, err := st.LookupCoords("nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOrCreateUser(t *testing.T) {
	st := newTestStore(t)

	id := int64(123)
	user, err := st.GetOrCreateUser("Test User", &id)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same identity comes back, not a new row.
	again, err := st.GetOrCreateUser("Test User", &id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("expected same user, got %d and %d", user.ID, again.ID)
	}

	// Lookup falls back to the display name when the ID is unknown.
	otherID := int64(999)
	byName, err := st.GetOrCreateUser("Test User", &otherID)
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("name fallback created a new row: %d vs %d", byName.ID, user.ID)
	}

	// A name alone is enough to create.
	named, err := st.GetOrCreateUser("New User By Name", nil)
	if err != nil {
		t.Fatalf("create by name: %v", err)
	}
	if named.ID == user.ID {
		t.Error("expected a fresh user row")
	}

	if _, err := st.GetOrCreateUser("", nil); err == nil {
		t.Error("expected an error with neither id nor name")
	}
}

func TestGetUser(t *testing.T) {
	st := newTestStore(t)

	id := int64(123)
	if _, err := st.GetOrCreateUser("Test User", &id); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, err := st.GetUser("Test User", &id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.DiscordID == nil || *user.DiscordID != id {
		t.Errorf("discord id: got %v", user.DiscordID)
	}

	missing := int64(999)
	if _, err := st.GetUser("Not a user", &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetWeatherLocation(t *testing.T) {
	st := newTestStore(t)

	id := int64(1)
	user, err := st.GetOrCreateUser("Test User", &id)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.WeatherLocation != nil {
		t.Fatalf("fresh user has a location: %v", *user.WeatherLocation)
	}

	if err := st.SetWeatherLocation(user, "20001"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reloaded, err := st.GetUser("", &id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.WeatherLocation == nil || *reloaded.WeatherLocation != "20001" {
		t.Errorf("location: got %v", reloaded.WeatherLocation)
	}
}

func TestSearchURLs(t *testing.T) {
	st := newTestStore(t)

	id1, id2 := int64(1), int64(2)
	user1, err := st.GetOrCreateUser("Test User 1", &id1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	user2, err := st.GetOrCreateUser("Test User 2", &id2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err = st.InsertURLs([]*URL{
		{UserID: user1.ID, URL: "https://example.org?id=1", Title: "Example 1", Created: base},
		{UserID: user1.ID, URL: "https://youtu.be/abc", Title: "A Song", Created: base.Add(time.Minute)},
		{UserID: user2.ID, URL: "https://example.org?id=2", Title: "Example 2", Created: base.Add(2 * time.Minute)},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Term search matches url and title, newest first.
	urls, err := st.SearchURLs("example", nil, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("term search: got %d rows", len(urls))
	}
	if urls[0].Title != "Example 2" {
		t.Errorf("ordering: got %q first", urls[0].Title)
	}

	// User filter.
	urls, err = st.SearchURLs("", &id1, 0)
	if err != nil {
		t.Fatalf("search by user: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("user search: got %d rows", len(urls))
	}
	for _, u := range urls {
		if u.User.Name != "Test User 1" {
			t.Errorf("user filter leaked row for %q", u.User.Name)
		}
	}

	// Limit applies after ordering.
	urls, err = st.SearchURLs("", nil, 1)
	if err != nil {
		t.Fatalf("search with limit: %v", err)
	}
	if len(urls) != 1 || urls[0].Title != "Example 2" {
		t.Fatalf("limit: got %d rows, first %q", len(urls), urls[0].Title)
	}
}

func TestCounts(t *testing.T) {
	st := newTestStore(t)

	id := int64(1)
	if _, err := st.GetOrCreateUser("Test User", &id); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.InsertCoords(&Coords{Query: "20001"}); err != nil {
		t.Fatalf("insert coords: %v", err)
	}

	counts, err := st.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["users"] != 1 || counts["coords"] != 1 || counts["urls"] != 0 {
		t.Errorf("counts: got %v", counts)
	}
}
