package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/baublesbot/baubles/internal/httpx"
	"github.com/baublesbot/baubles/internal/store"
)

const defaultGeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder resolves free-text addresses through the Google geocoding API.
type Geocoder struct {
	apiKey  string
	baseURL string
	caller  *httpx.Caller
}

// NewGeocoder creates a Geocoder sharing the bot's outbound HTTP client.
func NewGeocoder(client *http.Client, apiKey string) *Geocoder {
	return &Geocoder{
		apiKey:  apiKey,
		baseURL: defaultGeocodeBaseURL,
		caller:  httpx.NewCaller(client, "geocode"),
	}
}

// geocodeResponse is the subset of the Google geocoding payload we read.
// Status discriminates the three response shapes we recognize.
type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves location to coordinates. A legitimate zero-results outcome
// returns (nil, nil); an unrecognized payload shape is an error carrying the
// raw body.
func (g *Geocoder) Geocode(ctx context.Context, location string) (*store.Coords, error) {
	values := url.Values{}
	values.Set("address", location)
	values.Set("key", g.apiKey)

	resp, err := g.caller.Get(ctx, fmt.Sprintf("%s?%s", g.baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload geocodeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &UnexpectedResponseError{Source: "geocode", Payload: string(body)}
	}

	switch {
	case payload.Status == "REQUEST_DENIED":
		return nil, &InvalidAPIKeyError{Message: payload.ErrorMessage}
	case payload.Status == "ZERO_RESULTS" && len(payload.Results) == 0:
		return nil, nil
	case payload.Status == "OK" && len(payload.Results) > 0:
		first := payload.Results[0]
		return &store.Coords{
			Query:     location,
			Address:   first.FormattedAddress,
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		}, nil
	default:
		return nil, &UnexpectedResponseError{Source: "geocode", Payload: string(body)}
	}
}
