// package content classifies submitted URLs and builds playlist items from them
package content

import (
	"strings"

	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
)

// tickerPaths are the embed paths served by rss.app ticker and marquee widgets.
var tickerPaths = []string{
	"rss.app/embed/v1/ticker/",
	"rss.app/embed/v1/marquee/",
}

const (
	// FeedItemDuration is the dwell time given to items imported from a feed.
	FeedItemDuration    int64 = 10_000
	// DefaultItemDuration is used when a draft carries no positive duration.
	DefaultItemDuration int64 = 5_000
	untitled                   = "Untitled"
	noLink                     = "#"
)

// IsTicker reports whether rawURL points at a ticker/marquee embed. It never touches the network.
func IsTicker(rawURL string) bool {
	for _, p := range tickerPaths {
		if strings.Contains(rawURL, p) {
			return true
		}
	}
	return false
}

// Classify returns [models.TypeRSSTicker] for ticker embeds and selected otherwise.
func Classify(rawURL string, selected models.ItemType) models.ItemType {
	if IsTicker(rawURL) {
		return models.TypeRSSTicker
	}
	return selected
}

// Draft is the operator's input for a new item.
type Draft struct {
	Type            models.ItemType
	URL             string
	Title           string
	DurationSeconds int
}

// BuildItem turns a draft into a playlist item with a fresh id.
//
// An empty URL (after trimming) is rejected with [shared.ErrEmptyURL]. A non-positive
// duration falls back to [DefaultItemDuration].
func BuildItem(d Draft) (models.PlaylistItem, error) {
	url := strings.TrimSpace(d.URL)
	if url == "" {
		return models.PlaylistItem{}, shared.ErrEmptyURL
	}

	typ := d.Type
	if typ == "" {
		typ = models.TypeImage
	}

	duration := int64(d.DurationSeconds) * 1000
	if duration <= 0 {
		duration = DefaultItemDuration
	}

	return models.PlaylistItem{
		ID:       shared.NextItemID(),
		Type:     Classify(url, typ),
		URL:      url,
		Title:    strings.TrimSpace(d.Title),
		Duration: duration,
	}, nil
}

// FeedEntry is one headline offered for import.
type FeedEntry struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Published   string `json:"published,omitempty"`
	Description string `json:"description,omitempty"`
}

// FromFeedEntry builds an item for a feed entry: a ticker when the link is a ticker embed, a website otherwise.
func FromFeedEntry(e FeedEntry) models.PlaylistItem {
	link := strings.TrimSpace(e.Link)
	if link == "" {
		link = noLink
	}
	title := e.Title
	if title == "" {
		title = untitled
	}

	typ := models.TypeWebsite
	if IsTicker(link) {
		typ = models.TypeRSSTicker
	}

	return models.PlaylistItem{
		ID:       shared.NextItemID(),
		Type:     typ,
		URL:      link,
		Title:    title,
		Duration: FeedItemDuration,
	}
}

// Playable filters out tickers, keeping the rotation order.
func Playable(items []models.PlaylistItem) []models.PlaylistItem {
	out := make([]models.PlaylistItem, 0, len(items))
	for _, it := range items {
		if it.Type.Playable() {
			out = append(out, it)
		}
	}
	return out
}

// Ticker returns the first ticker item; later tickers stay stored but are not rendered.
func Ticker(items []models.PlaylistItem) (models.PlaylistItem, bool) {
	for _, it := range items {
		if it.Type == models.TypeRSSTicker {
			return it, true
		}
	}
	return models.PlaylistItem{}, false
}
