// RSS feed import
//
// Parsing is delegated to gofeed. The display only needs headline titles and links.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/mmcdole/gofeed"
)

const defaultFeedMaxItems = 10

// FeedSource tells the caller how a [FeedResult] was produced.
type FeedSource int

const (
	SourceFeed        FeedSource = iota // parsed RSS/Atom entries
	SourceTicker                        // URL is a ticker widget; not fetched
	SourceEmbed                         // URL answered but is not a feed
	SourcePlaceholder                   // fetch failed; fixed sample entries
)

func (s FeedSource) String() string {
	switch s {
	case SourceFeed:
		return "feed"
	case SourceTicker:
		return "ticker"
	case SourceEmbed:
		return "embed"
	case SourcePlaceholder:
		return "placeholder"
	default:
		return ""
	}
}

// FeedResult holds the entries offered for import.
type FeedResult struct {
	Title   string
	Source  FeedSource
	Entries []content.FeedEntry
}

// placeholderEntries keep the import list populated when a feed cannot be fetched.
var placeholderEntries = []content.FeedEntry{
	{Title: "Could not load feed - showing sample entries", Link: "#"},
	{Title: "Headline 1: Lorem ipsum dolor sit amet", Link: "#"},
	{Title: "Headline 2: Consectetur adipiscing elit", Link: "#"},
	{Title: "Headline 3: Sed do eiusmod tempor incididunt", Link: "#"},
}

// PlaceholderEntries returns a copy of the fixed fallback entries.
func PlaceholderEntries() []content.FeedEntry {
	out := make([]content.FeedEntry, len(placeholderEntries))
	copy(out, placeholderEntries)
	return out
}

// FeedService fetches feeds and turns them into importable entries.
type FeedService struct {
	parser   *gofeed.Parser
	maxItems int
	logger   *log.Logger
}

// NewFeedService creates a FeedService. maxItems <= 0 uses the default of 10.
func NewFeedService(client *http.Client, maxItems int, logger *log.Logger) *FeedService {
	if client == nil {
		client = http.DefaultClient
	}
	if maxItems <= 0 {
		maxItems = defaultFeedMaxItems
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	parser := gofeed.NewParser()
	parser.Client = client

	return &FeedService{
		parser:   parser,
		maxItems: maxItems,
		logger:   shared.WithLogger(logger, "component", "feed"),
	}
}

// Fetch loads feedURL. It only fails for an empty URL; every other problem degrades to
// an embed entry or the placeholder set.
func (f *FeedService) Fetch(ctx context.Context, feedURL string) (*FeedResult, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, shared.ErrEmptyURL
	}

	if content.IsTicker(feedURL) {
		return &FeedResult{
			Source: SourceTicker,
			Entries: []content.FeedEntry{{
				Title:       "RSS ticker detected",
				Link:        feedURL,
				Description: "This is an rss.app ticker widget. Add it as content to display it.",
			}},
		}, nil
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	switch {
	case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
		return &FeedResult{
			Source: SourceEmbed,
			Entries: []content.FeedEntry{{
				Title:       "Embedded content detected",
				Link:        feedURL,
				Description: "This URL is not an RSS feed. Add it as a website or RSS ticker to display it.",
			}},
		}, nil
	case err != nil:
		f.logger.Warn("failed to fetch feed, using placeholders", "url", feedURL, "err", err)
		return &FeedResult{Source: SourcePlaceholder, Entries: PlaceholderEntries()}, nil
	}

	entries := make([]content.FeedEntry, 0, min(len(feed.Items), f.maxItems))
	for _, item := range feed.Items {
		if len(entries) == f.maxItems {
			break
		}
		entry := content.FeedEntry{Title: item.Title, Link: item.Link, Published: item.Published}
		if entry.Title == "" {
			entry.Title = "Untitled"
		}
		if entry.Link == "" {
			entry.Link = "#"
		}
		entries = append(entries, entry)
	}

	return &FeedResult{Title: feed.Title, Source: SourceFeed, Entries: entries}, nil
}
