// package formatter renders episode lists in various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/samber/lo"
)

// Format is an output format accepted by [Export].
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat maps user input (csv, md, markdown, text, txt, json) to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, csv, md or json)", shared.ErrInvalidFormat, s)
	}
}

// Export renders episodes in format f under the given title.
func Export(f Format, title string, episodes []models.Episode) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(title, episodes)
	case FormatCSV:
		return ExportToCSV(episodes)
	case FormatMarkdown:
		return ExportToMarkdown(title, episodes)
	case FormatJSON:
		return ExportToJSON(title, episodes, true)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidFormat, f)
	}
}

// ExportToCSV converts episodes to CSV with columns: ID, Season, Number, Name, Airdate, Runtime, URL, Image
func ExportToCSV(episodes []models.Episode) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Season", "Number", "Name", "Airdate", "Runtime", "URL", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, ep := range episodes {
		record := []string{
			strconv.Itoa(ep.ID),
			strconv.Itoa(ep.Season),
			strconv.Itoa(ep.Number),
			ep.Name,
			ep.Airdate,
			strconv.Itoa(ep.Runtime),
			ep.URL,
			ep.ImageURL(),
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

// ExportToMarkdown converts episodes to Markdown, one section per season
func ExportToMarkdown(title string, episodes []models.Episode) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Episodes**: %d\n", len(episodes))

	bySeason := lo.GroupBy(episodes, func(ep models.Episode) int { return ep.Season })
	seasons := lo.Uniq(lo.Map(episodes, func(ep models.Episode, _ int) int { return ep.Season }))

	for _, season := range seasons {
		fmt.Fprintf(&buf, "\n## Season %d\n\n", season)
		for _, ep := range bySeason[season] {
			name := ep.Name
			if ep.URL != "" {
				name = fmt.Sprintf("[%s](%s)", ep.Name, ep.URL)
			}
			fmt.Fprintf(&buf, "%d. %s [%s]", ep.Number, name, shared.FormatRuntime(ep.Runtime))
			if ep.Airdate != "" {
				fmt.Fprintf(&buf, " (%s)", ep.Airdate)
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts episodes to plain text format
func ExportToText(title string, episodes []models.Episode) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Show: %s\n", title)
	fmt.Fprintf(&buf, "Episodes: %d\n\n", len(episodes))

	for _, ep := range episodes {
		fmt.Fprintf(&buf, "%s  %s\n", ep.Code(), ep.Name)
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the title and episodes as a JSON document
func ExportToJSON(title string, episodes []models.Episode, pretty bool) ([]byte, error) {
	if episodes == nil {
		episodes = []models.Episode{}
	}
	doc := struct {
		Title    string           `json:"title"`
		Count    int              `json:"count"`
		Episodes []models.Episode `json:"episodes"`
	}{title, len(episodes), episodes}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// FilterSeason returns the episodes of season, or all episodes when season is zero or negative.
func FilterSeason(episodes []models.Episode, season int) []models.Episode {
	if season <= 0 {
		return episodes
	}
	return lo.Filter(episodes, func(ep models.Episode, _ int) bool { return ep.Season == season })
}
