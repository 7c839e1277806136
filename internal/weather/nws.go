package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/baublesbot/baubles/internal/httpx"
	"github.com/baublesbot/baubles/internal/store"
)

const defaultNWSBaseURL = "https://api.weather.gov"

// NWSClient fetches short-range forecasts from the National Weather Service.
// The NWS API is keyless; coordinates first map to a forecast gridpoint.
type NWSClient struct {
	baseURL string
	caller  *httpx.Caller
	now     func() time.Time
}

// NewNWSClient creates an NWSClient sharing the bot's outbound HTTP client.
func NewNWSClient(client *http.Client) *NWSClient {
	return &NWSClient{
		baseURL: defaultNWSBaseURL,
		caller:  httpx.NewCaller(client, "nws"),
		now:     time.Now,
	}
}

// FetchGrid maps coordinates to the NWS gridpoint covering them.
func (c *NWSClient) FetchGrid(ctx context.Context, coords *store.Coords) (Grid, error) {
	url := fmt.Sprintf("%s/points/%f,%f", c.baseURL, coords.Latitude, coords.Longitude)
	resp, err := c.caller.Get(ctx, url)
	if err != nil {
		return Grid{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Grid{}, err
	}

	var payload struct {
		Properties struct {
			GridID string `json:"gridId"`
			GridX  int    `json:"gridX"`
			GridY  int    `json:"gridY"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Grid{}, &UnexpectedResponseError{Source: "nws", Payload: string(body)}
	}
	if payload.Properties.GridID == "" {
		return Grid{}, &UnexpectedResponseError{Source: "nws", Payload: string(body)}
	}

	return Grid{
		ID: payload.Properties.GridID,
		X:  payload.Properties.GridX,
		Y:  payload.Properties.GridY,
	}, nil
}

// nwsForecastPayload is the subset of the gridpoint forecast we read.
type nwsForecastPayload struct {
	Properties struct {
		Elevation struct {
			Value float64 `json:"value"`
		} `json:"elevation"`
		UpdateTime time.Time `json:"updateTime"`
		Periods    []struct {
			Name                       string    `json:"name"`
			StartTime                  time.Time `json:"startTime"`
			EndTime                    time.Time `json:"endTime"`
			ProbabilityOfPrecipitation struct {
				Value *int `json:"value"`
			} `json:"probabilityOfPrecipitation"`
			WindSpeed        string `json:"windSpeed"`
			WindDirection    string `json:"windDirection"`
			Icon             string `json:"icon"`
			ShortForecast    string `json:"shortForecast"`
			DetailedForecast string `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

// FetchForecast fetches the forecast for a gridpoint, keeping only the
// periods that start inside the forward window.
func (c *NWSClient) FetchForecast(ctx context.Context, grid Grid) (*ForecastWeather, error) {
	url := fmt.Sprintf("%s/gridpoints/%s/%d,%d/forecast", c.baseURL, grid.ID, grid.X, grid.Y)
	resp, err := c.caller.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseForecast(body, c.now())
}

func parseForecast(body []byte, now time.Time) (*ForecastWeather, error) {
	var payload nwsForecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &UnexpectedResponseError{Source: "nws", Payload: string(body)}
	}
	if len(payload.Properties.Periods) == 0 {
		return nil, &UnexpectedResponseError{Source: "nws", Payload: string(body)}
	}

	cutoff := now.Add(forecastWindow)

	forecast := &ForecastWeather{
		Elevation:  payload.Properties.Elevation.Value,
		UpdateTime: payload.Properties.UpdateTime,
	}
	for _, p := range payload.Properties.Periods {
		if !p.StartTime.Before(cutoff) {
			continue
		}
		forecast.Periods = append(forecast.Periods, ForecastPeriod{
			Name:                       p.Name,
			StartTime:                  p.StartTime,
			EndTime:                    p.EndTime,
			ProbabilityOfPrecipitation: p.ProbabilityOfPrecipitation.Value,
			WindSpeed:                  p.WindSpeed,
			WindDirection:              p.WindDirection,
			Icon:                       p.Icon,
			ShortForecast:              p.ShortForecast,
			DetailedForecast:           p.DetailedForecast,
		})
	}

	return forecast, nil
}
