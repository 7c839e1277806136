package weather

import (
	"context"
	"strings"
	"testing"

	"github.com/baublesbot/baubles/internal/store"
)

// fakeGeocoder counts calls and returns canned results per query.
type fakeGeocoder struct {
	calls   int
	results map[string]*store.Coords
}

func (f *fakeGeocoder) Geocode(_ context.Context, location string) (*store.Coords, error) {
	f.calls++
	return f.results[location], nil
}

// fakeCurrent returns a fixed report.
type fakeCurrent struct {
	calls  int
	report *CurrentWeather
}

func (f *fakeCurrent) FetchCurrent(_ context.Context, _, _ float64) (*CurrentWeather, error) {
	f.calls++
	return f.report, nil
}

func newTestService(t *testing.T, geocoder GeocodeClient, current CurrentClient) (*Service, *store.Store) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewService(st, geocoder, current, nil), st
}

var coordsDC = store.Coords{
	Query:     "20001",
	Address:   "Washington, DC 20001, USA",
	Latitude:  38.912068,
	Longitude: -77.0190228,
}

// A cached query must never reach the geocoder.
func TestResolveLocationPrefersCache(t *testing.T) {
	geocoder := &fakeGeocoder{}
	svc, st := newTestService(t, geocoder, nil)

	cached := coordsDC
	if err := st.InsertCoords(&cached); err != nil {
		t.Fatalf("insert coords: %v", err)
	}

	got, err := svc.ResolveLocation(context.Background(), "20001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Address != coordsDC.Address {
		t.Fatalf("got %+v", got)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder called %d times for a cached query", geocoder.calls)
	}
}

// Fresh geocoding results are written through, and later lookups in any case
// are served from the cache.
func TestResolveLocationWritesThrough(t *testing.T) {
	result := coordsDC
	result.Query = "Washington DC"
	geocoder := &fakeGeocoder{results: map[string]*store.Coords{"Washington DC": &result}}
	svc, st := newTestService(t, geocoder, nil)

	first, err := svc.ResolveLocation(context.Background(), "Washington DC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == nil {
		t.Fatal("expected coordinates")
	}
	if geocoder.calls != 1 {
		t.Fatalf("geocoder calls: got %d, want 1", geocoder.calls)
	}

	row, err := st.LookupCoords("Washington DC")
	if err != nil {
		t.Fatalf("lookup after write-through: %v", err)
	}
	if row.Address != coordsDC.Address {
		t.Errorf("stored address: got %q", row.Address)
	}

	// Repeat with different casing: same row, no further network call.
	second, err := svc.ResolveLocation(context.Background(), "WASHINGTON dc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second == nil || second.Latitude != first.Latitude || second.Longitude != first.Longitude {
		t.Fatalf("case-insensitive lookup returned %+v", second)
	}
	if geocoder.calls != 1 {
		t.Errorf("geocoder calls after cached repeat: got %d, want 1", geocoder.calls)
	}
}

// A legitimate zero-results geocode is a nil value, not an error.
func TestResolveLocationZeroResults(t *testing.T) {
	svc, _ := newTestService(t, &fakeGeocoder{}, nil)

	got, err := svc.ResolveLocation(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func addUser(t *testing.T, st *store.Store, name string, id int64, location string) {
	t.Helper()
	user, err := st.GetOrCreateUser(name, &id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if location != "" {
		if err := st.SetWeatherLocation(user, location); err != nil {
			t.Fatalf("set location: %v", err)
		}
	}
}

func TestResolveDefaultLocationOwnDefault(t *testing.T) {
	svc, st := newTestService(t, &fakeGeocoder{}, nil)
	addUser(t, st, "Test User 1", 1, "20001")
	addUser(t, st, "Test User 2", 2, "")

	got := svc.ResolveDefaultLocation(Message{AuthorID: 1, AuthorName: "Test User 1", NoPrefix: "", Prefix: ".wz"})
	want := WeatherResponse{Status: StatusSuccess, Message: "", Location: "20001"}
	if got != want {
		t.Errorf("with default: got %+v, want %+v", got, want)
	}

	got = svc.ResolveDefaultLocation(Message{AuthorID: 2, AuthorName: "Test User 2", NoPrefix: "", Prefix: ".wz"})
	want = WeatherResponse{Status: StatusError, Message: "No location set. Set with `.wz -d location`", Location: ""}
	if got != want {
		t.Errorf("without default: got %+v, want %+v", got, want)
	}
}

func TestResolveDefaultLocationSetsDefault(t *testing.T) {
	svc, st := newTestService(t, &fakeGeocoder{}, nil)
	addUser(t, st, "Test User 1", 1, "")

	got := svc.ResolveDefaultLocation(Message{AuthorID: 1, AuthorName: "Test User 1", NoPrefix: "-d", Prefix: ".wz"})
	want := WeatherResponse{Status: StatusError, Message: "Missing location. Set with `.wz -d location`", Location: ""}
	if got != want {
		t.Errorf("missing location: got %+v, want %+v", got, want)
	}

	got = svc.ResolveDefaultLocation(Message{AuthorID: 1, AuthorName: "Test User 1", NoPrefix: "-d 20001", Prefix: ".wz"})
	want = WeatherResponse{Status: StatusSuccess, Message: "Default location set to: 20001", Location: "20001"}
	if got != want {
		t.Errorf("set default: got %+v, want %+v", got, want)
	}

	// The default persisted.
	user, err := st.GetUser("Test User 1", nil)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.WeatherLocation == nil || *user.WeatherLocation != "20001" {
		t.Errorf("stored location: got %v", user.WeatherLocation)
	}
}

func TestResolveDefaultLocationAnotherUser(t *testing.T) {
	svc, st := newTestService(t, &fakeGeocoder{}, nil)
	addUser(t, st, "Test User 1", 1, "")
	addUser(t, st, "Test User 2", 2, "20001")

	got := svc.ResolveDefaultLocation(Message{AuthorID: 1, AuthorName: "Test User 1", NoPrefix: "<@2>", Prefix: ".wz"})
	want := WeatherResponse{Status: StatusSuccess, Message: "", Location: "20001"}
	if got != want {
		t.Errorf("mention with default: got %+v, want %+v", got, want)
	}

	noDefault := WeatherResponse{Status: StatusError, Message: "User has no default set", Location: ""}

	got = svc.ResolveDefaultLocation(Message{AuthorID: 2, AuthorName: "Test User 2", NoPrefix: "<@1>", Prefix: ".wz"})
	if got != noDefault {
		t.Errorf("mention without default: got %+v, want %+v", got, noDefault)
	}

	got = svc.ResolveDefaultLocation(Message{AuthorID: 2, AuthorName: "Test User 2", NoPrefix: "<@not_an_id>", Prefix: ".wz"})
	if got != noDefault {
		t.Errorf("unparseable mention: got %+v, want %+v", got, noDefault)
	}
}

func TestResolveDefaultLocationLiteral(t *testing.T) {
	svc, _ := newTestService(t, &fakeGeocoder{}, nil)

	got := svc.ResolveDefaultLocation(Message{AuthorID: 1, AuthorName: "Test User 1", NoPrefix: "Mountain View, CA", Prefix: ".wz"})
	want := WeatherResponse{Status: "", Message: "", Location: "Mountain View, CA"}
	if got != want {
		t.Errorf("literal: got %+v, want %+v", got, want)
	}
}

func TestStripPrefix(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{".wz", ""},
		{".wz ", ""},
		{".wz 20001", "20001"},
		{".wz -d 20001", "-d 20001"},
	}
	for _, tc := range cases {
		if got := StripPrefix(tc.content, ".wz"); got != tc.want {
			t.Errorf("StripPrefix(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

// End to end: a cached default location and a canned weather report produce a
// formatted reply with no geocoding call.
func TestProcessWeatherCommand(t *testing.T) {
	geocoder := &fakeGeocoder{}
	current := &fakeCurrent{report: &CurrentWeather{Name: "Washington", Temperature: 20}}
	svc, st := newTestService(t, geocoder, current)

	addUser(t, st, "Test User 1", 1, "20001")
	cached := coordsDC
	if err := st.InsertCoords(&cached); err != nil {
		t.Fatalf("insert coords: %v", err)
	}

	resp, err := svc.ProcessWeatherCommand(context.Background(), Message{
		AuthorID:   1,
		AuthorName: "Test User 1",
		NoPrefix:   StripPrefix(".wz", ".wz"),
		Prefix:     ".wz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != StatusSuccess {
		t.Errorf("status: got %q", resp.Status)
	}
	if resp.Location != "20001" {
		t.Errorf("location: got %q", resp.Location)
	}
	if !strings.Contains(resp.Message, "Current weather for") || !strings.Contains(resp.Message, "Washington") {
		t.Errorf("report: got %q", resp.Message)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder called %d times with a cached location", geocoder.calls)
	}
	if current.calls != 1 {
		t.Errorf("weather fetched %d times", current.calls)
	}
}

// An ungeocodable literal location yields the user-facing message, not an
// upstream error.
func TestProcessWeatherCommandCouldNotGeocode(t *testing.T) {
	svc, _ := newTestService(t, &fakeGeocoder{}, &fakeCurrent{})

	resp, err := svc.ProcessWeatherCommand(context.Background(), Message{
		AuthorID:   1,
		AuthorName: "Test User 1",
		NoPrefix:   "xyzzy",
		Prefix:     ".wz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusError {
		t.Errorf("status: got %q", resp.Status)
	}
	if resp.Message != "Could not geocode input: xyzzy." {
		t.Errorf("message: got %q", resp.Message)
	}
}

// Resolver errors short-circuit before any geocoding happens.
func TestProcessWeatherCommandErrorShortCircuits(t *testing.T) {
	geocoder := &fakeGeocoder{}
	svc, st := newTestService(t, geocoder, &fakeCurrent{})
	addUser(t, st, "Test User 2", 2, "")

	resp, err := svc.ProcessWeatherCommand(context.Background(), Message{
		AuthorID:   2,
		AuthorName: "Test User 2",
		NoPrefix:   "",
		Prefix:     ".wz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusError {
		t.Errorf("status: got %q", resp.Status)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder called %d times on an error branch", geocoder.calls)
	}
}
