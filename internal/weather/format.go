package weather

import (
	"fmt"
	"strings"
	"time"
)

func celsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }
func kphToMph(kph float64) float64          { return kph * 0.621371 }
func metersToMiles(m float64) float64       { return m * 0.000621371 }

var cardinalDirections = []string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// degreesToCardinal maps a wind direction in degrees to one of 16 compass
// points. The circle splits into 22.5 degree sectors rounded to nearest, so
// 360 lands in the same sector as 0.
func degreesToCardinal(degrees float64) string {
	degrees = float64(int(degrees+360) % 360)
	index := int((degrees+11.25)/22.5) % 16
	return cardinalDirections[index]
}

// FormatReport renders the current conditions as a single comma-joined line.
// Optional fields are skipped when absent.
func (w *CurrentWeather) FormatReport() string {
	place := w.Name
	if w.Country != nil {
		place = fmt.Sprintf("%s, %s", w.Name, *w.Country)
	}

	parts := []string{fmt.Sprintf("Current weather for %s", place)}

	if w.Conditions != nil {
		parts = append(parts, *w.Conditions)
	}

	temp := fmt.Sprintf("%.1f°F", celsiusToFahrenheit(w.Temperature))
	if w.FeelsLike != nil {
		temp = fmt.Sprintf("%s (feels like %.1f°F)", temp, celsiusToFahrenheit(*w.FeelsLike))
	}
	parts = append(parts, temp)

	if w.Humidity != nil {
		parts = append(parts, fmt.Sprintf("humidity %d%%", *w.Humidity))
	}
	if w.Pressure != nil {
		parts = append(parts, fmt.Sprintf("pressure %d hPa", *w.Pressure))
	}
	if w.Visibility != nil {
		parts = append(parts, fmt.Sprintf("visibility %.1f miles", metersToMiles(float64(*w.Visibility))))
	}
	if w.WindSpeed != nil {
		wind := fmt.Sprintf("wind %.1f mph", kphToMph(*w.WindSpeed))
		if w.WindDirection != nil {
			wind = fmt.Sprintf("%s %s", wind, *w.WindDirection)
		}
		parts = append(parts, wind)
	}
	if w.WindGust != nil {
		parts = append(parts, fmt.Sprintf("gusts %.1f mph", kphToMph(*w.WindGust)))
	}
	if w.Clouds != nil {
		parts = append(parts, fmt.Sprintf("clouds %d%%", *w.Clouds))
	}
	if w.RainLastHour != nil {
		parts = append(parts, fmt.Sprintf("rain %.2f mm last hour", *w.RainLastHour))
	}
	if w.SnowLastHour != nil {
		parts = append(parts, fmt.Sprintf("snow %.2f mm last hour", *w.SnowLastHour))
	}
	if w.Sunrise != nil {
		parts = append(parts, fmt.Sprintf("sunrise %s", w.Sunrise.Format("15:04")))
	}
	if w.Sunset != nil {
		parts = append(parts, fmt.Sprintf("sunset %s", w.Sunset.Format("15:04")))
	}
	if w.LastUpdated != nil {
		parts = append(parts, fmt.Sprintf("updated %s", w.LastUpdated.Format("2006-01-02 15:04:05")))
	}

	return strings.Join(parts, ", ")
}

// FormatForecast renders one line per forecast period, newline-joined.
func (f *ForecastWeather) FormatForecast() string {
	lines := make([]string, 0, len(f.Periods))
	for _, p := range f.Periods {
		var details []string
		if p.ProbabilityOfPrecipitation != nil {
			details = append(details, fmt.Sprintf("precip %d%%", *p.ProbabilityOfPrecipitation))
		}
		if p.WindSpeed != "" {
			wind := "wind " + p.WindSpeed
			if p.WindDirection != "" {
				wind = fmt.Sprintf("wind %s %s", p.WindDirection, p.WindSpeed)
			}
			details = append(details, wind)
		}

		line := p.Name
		if len(details) > 0 {
			line = fmt.Sprintf("%s (%s)", line, strings.Join(details, ", "))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", line, p.DetailedForecast))
	}
	return strings.Join(lines, "\n")
}

// forecastWindow is how far ahead forecast periods are reported.
const forecastWindow = 48 * time.Hour
