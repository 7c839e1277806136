package weather

import (
	"context"
	"time"

	"github.com/baublesbot/baubles/internal/store"
)

// CurrentWeather is the parsed current-conditions report for one place.
// Name and Temperature are the only fields the upstream guarantees; everything
// else is optional and nil when absent from the payload.
type CurrentWeather struct {
	Name        string
	Temperature float64

	LastUpdated   *time.Time
	Conditions    *string
	Icon          *string
	FeelsLike     *float64
	Humidity      *int
	Pressure      *int
	Visibility    *int
	WindSpeed     *float64
	WindGust      *float64
	WindDirection *string
	Clouds        *int
	RainLastHour  *float64
	SnowLastHour  *float64
	Sunrise       *time.Time
	Sunset        *time.Time
	Country       *string
}

// WeatherResponse passes control-flow outcomes between the default-location
// resolver and the command coordinator. Status is "success", "error", or "":
// the empty status means no default-location branch matched and the command
// suffix itself should be geocoded as a literal location.
type WeatherResponse struct {
	Status   string
	Message  string
	Location string
}

// Message carries exactly the fields the weather commands need from a chat
// message, decoupled from the transport's message object.
type Message struct {
	AuthorID   int64
	AuthorName string

	// NoPrefix is the command text with the recognized prefix stripped.
	NoPrefix string

	// Prefix is the recognized command prefix, echoed in help messages.
	Prefix string
}

// Grid identifies an NWS forecast gridpoint.
type Grid struct {
	ID string
	X  int
	Y  int
}

// ForecastPeriod is one named period of an NWS forecast.
type ForecastPeriod struct {
	Name                       string
	StartTime                  time.Time
	EndTime                    time.Time
	ProbabilityOfPrecipitation *int
	WindSpeed                  string
	WindDirection              string
	Icon                       string
	ShortForecast              string
	DetailedForecast           string
}

// ForecastWeather is a parsed NWS forecast, trimmed to the forward window.
type ForecastWeather struct {
	Elevation  float64
	UpdateTime time.Time
	Periods    []ForecastPeriod
}

// GeocodeClient resolves a free-text location to coordinates.
type GeocodeClient interface {
	Geocode(ctx context.Context, location string) (*store.Coords, error)
}

// CurrentClient fetches current conditions for a coordinate pair.
type CurrentClient interface {
	FetchCurrent(ctx context.Context, latitude, longitude float64) (*CurrentWeather, error)
}

// ForecastClient fetches a short-range forecast for a coordinate pair.
type ForecastClient interface {
	FetchGrid(ctx context.Context, coords *store.Coords) (Grid, error)
	FetchForecast(ctx context.Context, grid Grid) (*ForecastWeather, error)
}
