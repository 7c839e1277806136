package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/baublesbot/baubles/internal/httpx"
)

const defaultOWMBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OWMClient fetches current conditions from OpenWeatherMap.
type OWMClient struct {
	apiKey  string
	baseURL string
	caller  *httpx.Caller
}

// NewOWMClient creates an OWMClient sharing the bot's outbound HTTP client.
func NewOWMClient(client *http.Client, apiKey string) *OWMClient {
	return &OWMClient{
		apiKey:  apiKey,
		baseURL: defaultOWMBaseURL,
		caller:  httpx.NewCaller(client, "openweathermap"),
	}
}

// FetchCurrent fetches and parses the current conditions at a coordinate
// pair. Errors are discriminated by the payload's cod field: OWM transmits
// error codes as strings ("400", "401") but its success code as the number
// 200, so the field is matched on its JSON type as well as its value.
func (c *OWMClient) FetchCurrent(ctx context.Context, latitude, longitude float64) (*CurrentWeather, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", latitude))
	values.Set("lon", fmt.Sprintf("%f", longitude))
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)

	resp, err := c.caller.Get(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseCurrentWeather(body)
}

// owmEnvelope carries the fields needed to classify a response before the
// full parse. Cod stays raw so its JSON type survives.
type owmEnvelope struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// owmPayload is the current-conditions schema. Every nested group is optional;
// absence must not fail parsing.
type owmPayload struct {
	Weather []struct {
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Pressure  *int     `json:"pressure"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Visibility *int `json:"visibility"`
	Wind       *struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Rain *struct {
		OneHour *float64 `json:"1h"`
	} `json:"rain"`
	Snow *struct {
		OneHour *float64 `json:"1h"`
	} `json:"snow"`
	Clouds *struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Sys *struct {
		Country *string `json:"country"`
		Sunrise *int64  `json:"sunrise"`
		Sunset  *int64  `json:"sunset"`
	} `json:"sys"`
	Dt       *int64 `json:"dt"`
	Timezone *int64 `json:"timezone"`
	Name     string `json:"name"`
}

// ParseCurrentWeather classifies and parses an OWM current-conditions body.
func ParseCurrentWeather(body []byte) (*CurrentWeather, error) {
	var envelope owmEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &UnexpectedResponseError{Source: "openweathermap", Payload: string(body)}
	}

	if codStr, ok := codAsString(envelope.Cod); ok {
		switch codStr {
		case "401":
			return nil, &InvalidAPIKeyError{Message: envelope.Message}
		case "400":
			return nil, &APISyntaxError{Message: envelope.Message}
		default:
			return nil, &UnexpectedResponseError{Source: "openweathermap", Payload: string(body)}
		}
	}

	codNum, ok := codAsNumber(envelope.Cod)
	if !ok || codNum != 200 {
		return nil, &UnexpectedResponseError{Source: "openweathermap", Payload: string(body)}
	}

	return newCurrentWeather(body)
}

func codAsString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func codAsNumber(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// newCurrentWeather builds a CurrentWeather from a success payload. Only name
// and main.temp are mandatory.
func newCurrentWeather(body []byte) (*CurrentWeather, error) {
	var payload owmPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &UnexpectedResponseError{Source: "openweathermap", Payload: string(body)}
	}

	if payload.Name == "" || payload.Main == nil || payload.Main.Temp == nil {
		return nil, fmt.Errorf("current weather payload missing required fields: %s", string(body))
	}

	cw := &CurrentWeather{
		Name:        payload.Name,
		Temperature: *payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Pressure:    payload.Main.Pressure,
		Humidity:    payload.Main.Humidity,
		Visibility:  payload.Visibility,
	}

	if len(payload.Weather) > 0 {
		cw.Conditions = payload.Weather[0].Description
		cw.Icon = payload.Weather[0].Icon
	}
	if payload.Wind != nil {
		cw.WindSpeed = payload.Wind.Speed
		cw.WindGust = payload.Wind.Gust
		if payload.Wind.Deg != nil {
			dir := degreesToCardinal(*payload.Wind.Deg)
			cw.WindDirection = &dir
		}
	}
	if payload.Rain != nil {
		cw.RainLastHour = payload.Rain.OneHour
	}
	if payload.Snow != nil {
		cw.SnowLastHour = payload.Snow.OneHour
	}
	if payload.Clouds != nil {
		cw.Clouds = payload.Clouds.All
	}
	if payload.Sys != nil {
		cw.Country = payload.Sys.Country
	}

	// Datetimes require both the timestamp and the payload's UTC offset. A
	// zero offset is still a present offset. The offset is added to the
	// epoch before conversion, so these read as local time on a UTC label.
	if payload.Timezone != nil {
		cw.LastUpdated = offsetTime(payload.Dt, *payload.Timezone)
		if payload.Sys != nil {
			cw.Sunrise = offsetTime(payload.Sys.Sunrise, *payload.Timezone)
			cw.Sunset = offsetTime(payload.Sys.Sunset, *payload.Timezone)
		}
	}

	return cw, nil
}

func offsetTime(epoch *int64, offsetSeconds int64) *time.Time {
	if epoch == nil {
		return nil
	}
	t := time.Unix(*epoch+offsetSeconds, 0).UTC()
	return &t
}
