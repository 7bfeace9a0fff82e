// package formatter renders playlists as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/waitroom/internal/models"
)

// Supported output formats
const (
	FormatText     = "txt"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// PlaylistExport is one named playlist in exportable form.
type PlaylistExport struct {
	Name  string                `json:"name"`
	Items []models.PlaylistItem `json:"items"`
}

// MarshalJSON encodes v, indented when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// FormatDuration renders a dwell time in milliseconds as "5s" or "1m30s".
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return (time.Duration(ms) * time.Millisecond).Round(time.Second).String()
}

// ExportToCSV converts a playlist to CSV with columns: ID, Type, Title, URL, Duration
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Title", "URL", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.Type.String(),
			item.Title,
			item.URL,
			strconv.FormatInt(item.Duration, 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to Markdown. Ticker items are listed separately.
func ExportToMarkdown(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(export.Items)))

	var tickers []models.PlaylistItem
	buf.WriteString("## Content\n\n")
	n := 0
	for _, item := range export.Items {
		if !item.Type.Playable() {
			tickers = append(tickers, item)
			continue
		}
		n++
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) `%s` [%s]\n", n, item.Label(), item.URL, item.Type, FormatDuration(item.Duration)))
	}

	if len(tickers) > 0 {
		buf.WriteString("\n## Tickers\n\n")
		for _, item := range tickers {
			buf.WriteString(fmt.Sprintf("- [%s](%s)\n", item.Label(), item.URL))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Name))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s) id=%d\n", i+1, item.Type, item.Label(), FormatDuration(item.Duration), item.ID))
	}

	return buf.Bytes(), nil
}

// Export renders export in format. Unknown formats fall back to JSON.
func Export(export *PlaylistExport, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	default:
		return MarshalJSON(export, true)
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// Filename turns a playlist name into a safe file base name.
func Filename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "playlist"
	}
	return b.String()
}

// WriteExport writes export into dir as {base}{ext} and returns the file path.
//
// An empty base defaults to [Filename] of the playlist name.
func WriteExport(export *PlaylistExport, format, dir, base string) (string, error) {
	if base == "" {
		base = Filename(export.Name)
	}

	data, err := Export(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	path := filepath.Join(dir, base+Extension(format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
