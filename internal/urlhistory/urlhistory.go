// Package urlhistory records links people post and the titles of the pages
// behind them, and answers the `.urlsearch` command.
package urlhistory

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/baublesbot/baubles/internal/httpx"
	"github.com/baublesbot/baubles/internal/store"
)

var urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// URLTitle pairs a URL with its scraped page title.
type URLTitle struct {
	URL   string
	Title string
}

// URLsFromLine extracts URLs from a line of text. Trailing punctuation that
// chat messages glue onto links is stripped.
func URLsFromLine(line string) []string {
	matches := urlPattern.FindAllString(line, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.Trim(m, ". ,:"))
	}
	return urls
}

// History scrapes titles and stores posted links.
type History struct {
	store  *store.Store
	caller *httpx.Caller
}

// New creates a History sharing the bot's outbound HTTP client.
func New(st *store.Store, client *http.Client) *History {
	return &History{
		store:  st,
		caller: httpx.NewCaller(client, "urltitle"),
	}
}

// TitleFromURL fetches a page and returns its first <title> contents. Pages
// without a title yield an empty title, not an error.
func (h *History) TitleFromURL(ctx context.Context, url string) (URLTitle, error) {
	resp, err := h.caller.Get(ctx, url)
	if err != nil {
		return URLTitle{}, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return URLTitle{}, fmt.Errorf("parse %s: %w", url, err)
	}

	return URLTitle{URL: url, Title: strings.TrimSpace(firstTitle(doc))}, nil
}

func firstTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return n.FirstChild.Data
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := firstTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// Record stores a batch of scraped links for the message author.
func (h *History) Record(authorName string, authorID int64, urls []URLTitle) error {
	user, err := h.store.GetOrCreateUser(authorName, &authorID)
	if err != nil {
		return err
	}

	rows := make([]*store.URL, 0, len(urls))
	for _, u := range urls {
		rows = append(rows, &store.URL{
			UserID:  user.ID,
			URL:     u.URL,
			Title:   u.Title,
			Created: time.Now().UTC(),
		})
	}
	return h.store.InsertURLs(rows)
}

// Collect extracts URLs from a message, scrapes their titles, and records
// them. Lines without URLs are a no-op.
func (h *History) Collect(ctx context.Context, authorName string, authorID int64, line string) error {
	urls := URLsFromLine(line)
	if len(urls) == 0 {
		return nil
	}

	titles := make([]URLTitle, 0, len(urls))
	for _, u := range urls {
		title, err := h.TitleFromURL(ctx, u)
		if err != nil {
			// A dead link still goes into the history.
			title = URLTitle{URL: u}
		}
		titles = append(titles, title)
	}
	return h.Record(authorName, authorID, titles)
}

// Search runs the `.urlsearch` command: `[-l n] [-u <@id>] [term]`.
// Returns the formatted result block, or "" when nothing matches.
func (h *History) Search(command string) (string, error) {
	fs := flag.NewFlagSet("urlsearch", flag.ContinueOnError)
	limit := fs.Int("l", 0, "limit the search to the last n matches")
	mention := fs.String("u", "", "search by user mention")
	if err := fs.Parse(strings.Fields(command)); err != nil {
		return "", err
	}
	term := strings.Join(fs.Args(), " ")

	var userID *int64
	if *mention != "" {
		id, err := strconv.ParseInt(strings.Trim(*mention, "<>@ "), 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid user mention: %s", *mention)
		}
		userID = &id
	}

	urls, err := h.store.SearchURLs(term, userID, *limit)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, u := range urls {
		fmt.Fprintf(&b, "%s (%s)\n", u.URL, u.Title)
	}
	return b.String(), nil
}
