package weather

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/baublesbot/baubles/internal/store"
)

const (
	// StatusSuccess and StatusError are the terminal resolver outcomes. The
	// empty status is deliberate: it means "treat the suffix as a literal
	// location" and must reach the coordinator, not be treated as an error.
	StatusSuccess = "success"
	StatusError   = "error"
)

// Service ties the coordinate cache, the geocoder, and the weather clients
// into the weather and forecast commands.
type Service struct {
	store    *store.Store
	geocoder GeocodeClient
	current  CurrentClient
	forecast ForecastClient
}

// NewService creates a Service.
func NewService(st *store.Store, geocoder GeocodeClient, current CurrentClient, forecast ForecastClient) *Service {
	return &Service{
		store:    st,
		geocoder: geocoder,
		current:  current,
		forecast: forecast,
	}
}

// ResolveLocation resolves a free-text query to coordinates, consulting the
// cache before the geocoder. Fresh geocoding results are written through to
// the cache under the original query. A nil result with a nil error means the
// geocoder legitimately found nothing.
func (s *Service) ResolveLocation(ctx context.Context, query string) (*store.Coords, error) {
	coords, err := s.store.LookupCoords(query)
	if err == nil {
		return coords, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	coords, err = s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		return nil, nil
	}

	coords.Query = query
	if err := s.store.InsertCoords(coords); err != nil {
		return nil, err
	}
	return coords, nil
}

// ResolveDefaultLocation interprets the command suffix to decide whose
// location is being asked about: the caller's stored default, a new default
// being set, another user's default, or a literal location.
func (s *Service) ResolveDefaultLocation(msg Message) WeatherResponse {
	noPrefix := msg.NoPrefix

	switch {
	case noPrefix == "":
		return s.handleUsersDefaultLocation(msg)
	case strings.HasPrefix(noPrefix, "-d"):
		msg.NoPrefix = strings.TrimSpace(strings.TrimPrefix(noPrefix, "-d"))
		return s.handleUserSetsDefaultLocation(msg)
	case strings.HasPrefix(noPrefix, "<"):
		return s.handleCheckingAnotherUsersDefault(msg)
	default:
		return WeatherResponse{Status: "", Message: "", Location: noPrefix}
	}
}

// handleUsersDefaultLocation answers an empty suffix with the caller's stored
// default location.
func (s *Service) handleUsersDefaultLocation(msg Message) WeatherResponse {
	user, err := s.store.GetOrCreateUser(msg.AuthorName, &msg.AuthorID)
	if err != nil {
		return WeatherResponse{Status: StatusError, Message: err.Error()}
	}
	if user.WeatherLocation == nil {
		return WeatherResponse{
			Status:  StatusError,
			Message: fmt.Sprintf("No location set. Set with `%s -d location`", msg.Prefix),
		}
	}
	return WeatherResponse{Status: StatusSuccess, Location: *user.WeatherLocation}
}

// handleUserSetsDefaultLocation persists the suffix after `-d` as the
// caller's default. The NoPrefix field holds the post-flag remainder.
func (s *Service) handleUserSetsDefaultLocation(msg Message) WeatherResponse {
	location := strings.TrimSpace(msg.NoPrefix)
	if location == "" {
		return WeatherResponse{
			Status:  StatusError,
			Message: fmt.Sprintf("Missing location. Set with `%s -d location`", msg.Prefix),
		}
	}

	user, err := s.store.GetOrCreateUser(msg.AuthorName, &msg.AuthorID)
	if err != nil {
		return WeatherResponse{Status: StatusError, Message: err.Error()}
	}
	if err := s.store.SetWeatherLocation(user, location); err != nil {
		return WeatherResponse{Status: StatusError, Message: err.Error()}
	}

	return WeatherResponse{
		Status:   StatusSuccess,
		Message:  "Default location set to: " + location,
		Location: location,
	}
}

// handleCheckingAnotherUsersDefault answers a mention token with the
// mentioned user's default. Unparseable mentions, unknown users, and users
// without a default all get the same answer.
func (s *Service) handleCheckingAnotherUsersDefault(msg Message) WeatherResponse {
	noDefault := WeatherResponse{Status: StatusError, Message: "User has no default set"}

	token := strings.Trim(msg.NoPrefix, "<>@ ")
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return noDefault
	}

	user, err := s.store.GetUser("", &id)
	if err != nil || user.WeatherLocation == nil {
		return noDefault
	}
	return WeatherResponse{Status: StatusSuccess, Location: *user.WeatherLocation}
}

// StripPrefix returns the message text with prefix plus one separator
// character removed.
func StripPrefix(content, prefix string) string {
	if len(content) <= len(prefix)+1 {
		return ""
	}
	return content[len(prefix)+1:]
}

// ProcessWeatherCommand is the weather command entry point: it resolves whose
// location is wanted, geocodes it, fetches current conditions, and fills the
// response message with the formatted report. Resolver errors short-circuit
// with their message intact; upstream API errors propagate to the caller.
func (s *Service) ProcessWeatherCommand(ctx context.Context, msg Message) (WeatherResponse, error) {
	resp := s.ResolveDefaultLocation(msg)
	if resp.Status == StatusError {
		return resp, nil
	}

	coords, err := s.ResolveLocation(ctx, resp.Location)
	if err != nil {
		return resp, err
	}
	if coords == nil {
		resp.Status = StatusError
		resp.Message = fmt.Sprintf("Could not geocode input: %s.", resp.Location)
		return resp, nil
	}

	current, err := s.current.FetchCurrent(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		return resp, err
	}

	resp.Status = StatusSuccess
	resp.Message = current.FormatReport()
	return resp, nil
}

// ProcessForecastCommand resolves a location the same way the weather command
// does, then answers with the short-range NWS forecast.
func (s *Service) ProcessForecastCommand(ctx context.Context, msg Message) (WeatherResponse, error) {
	resp := s.ResolveDefaultLocation(msg)
	if resp.Status == StatusError {
		return resp, nil
	}

	coords, err := s.ResolveLocation(ctx, resp.Location)
	if err != nil {
		return resp, err
	}
	if coords == nil {
		resp.Status = StatusError
		resp.Message = fmt.Sprintf("Could not geocode input: %s.", resp.Location)
		return resp, nil
	}

	grid, err := s.forecast.FetchGrid(ctx, coords)
	if err != nil {
		return resp, err
	}
	forecast, err := s.forecast.FetchForecast(ctx, grid)
	if err != nil {
		return resp, err
	}

	resp.Status = StatusSuccess
	resp.Message = forecast.FormatForecast()
	return resp, nil
}
