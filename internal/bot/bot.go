// Package bot routes inbound chat messages to the command handlers.
package bot

import (
	"context"
	"log"
	"strings"

	"github.com/baublesbot/baubles/internal/lastseen"
	"github.com/baublesbot/baubles/internal/urlhistory"
	"github.com/baublesbot/baubles/internal/weather"
)

// Command prefixes recognized in message text.
const (
	WeatherPrefix   = ".wz"
	ForecastPrefix  = ".fc"
	LastSeenPrefix  = ".last"
	URLSearchPrefix = ".urlsearch"
)

// Message is a normalized inbound chat message.
type Message struct {
	AuthorID   int64
	AuthorName string
	Content    string
}

// Bot dispatches messages to the command handlers.
type Bot struct {
	weather  *weather.Service
	history  *urlhistory.History
	lastSeen *lastseen.Tracker
}

// New creates a Bot.
func New(ws *weather.Service, history *urlhistory.History, tracker *lastseen.Tracker) *Bot {
	return &Bot{
		weather:  ws,
		history:  history,
		lastSeen: tracker,
	}
}

// Dispatch handles one inbound message and returns the reply text, which may
// be empty. Every message updates last-seen and feeds the URL history;
// command prefixes additionally produce a reply.
func (b *Bot) Dispatch(ctx context.Context, msg Message) (string, error) {
	if err := b.lastSeen.Update(msg.AuthorName, msg.AuthorID, msg.Content); err != nil {
		log.Printf("last seen update failed for %s: %v", msg.AuthorName, err)
	}

	if err := b.history.Collect(ctx, msg.AuthorName, msg.AuthorID, msg.Content); err != nil {
		log.Printf("url collection failed for %s: %v", msg.AuthorName, err)
	}

	switch {
	case strings.HasPrefix(msg.Content, "$hello"):
		return "Hello!", nil

	case strings.HasPrefix(msg.Content, WeatherPrefix):
		resp, err := b.weather.ProcessWeatherCommand(ctx, weather.Message{
			AuthorID:   msg.AuthorID,
			AuthorName: msg.AuthorName,
			NoPrefix:   weather.StripPrefix(msg.Content, WeatherPrefix),
			Prefix:     WeatherPrefix,
		})
		if err != nil {
			return "", err
		}
		return resp.Message, nil

	case strings.HasPrefix(msg.Content, ForecastPrefix):
		resp, err := b.weather.ProcessForecastCommand(ctx, weather.Message{
			AuthorID:   msg.AuthorID,
			AuthorName: msg.AuthorName,
			NoPrefix:   weather.StripPrefix(msg.Content, ForecastPrefix),
			Prefix:     ForecastPrefix,
		})
		if err != nil {
			return "", err
		}
		return resp.Message, nil

	case strings.HasPrefix(msg.Content, LastSeenPrefix):
		return b.lastSeen.Check(msg.Content[len(LastSeenPrefix):])

	case strings.HasPrefix(msg.Content, URLSearchPrefix):
		return b.history.Search(weather.StripPrefix(msg.Content, URLSearchPrefix))
	}

	return "", nil
}
