package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/tvx/internal/formatter"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/store"
	"github.com/urfave/cli/v3"
)

// Episodes fetches the episode list and prints it in the requested format.
func (r *Runner) Episodes(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	st := r.episodeStore()
	if err := st.Load(ctx); err != nil {
		return fmt.Errorf("failed to load episodes: %w", err)
	}

	episodes := st.Episodes()
	if season := int(cmd.Int("season")); season != 0 {
		if season < 0 {
			return fmt.Errorf("%w: season must be positive, got %d", shared.ErrInvalidArgument, season)
		}
		episodes = formatter.FilterSeason(episodes, season)
		if len(episodes) == 0 {
			return fmt.Errorf("%w: no episodes in season %d", shared.ErrEpisodeNotFound, season)
		}
	}

	if query := cmd.String("search"); query != "" {
		episodes = store.SearchEpisodes(episodes, query)
		if len(episodes) == 0 {
			return fmt.Errorf("%w: nothing matches %q", shared.ErrEpisodeNotFound, query)
		}
	}

	r.logger.Debug("exporting episodes", "format", format, "count", len(episodes))

	data, err := formatter.Export(format, st.Title(), episodes)
	if err != nil {
		return fmt.Errorf("failed to export episodes: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		return r.writeFile(path, data, len(episodes))
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeFile(path string, data []byte, count int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.logger.Info("episodes exported", "path", path, "count", count)
	return r.writePlain("✓ Wrote %d episodes to %s\n", count, path)
}

type showSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Premiered string `json:"premiered,omitempty"`
	Seasons   []int  `json:"seasons"`
	Episodes  int    `json:"episodes"`
}

// Show fetches the configured show and prints its details.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	show, err := r.episodeService().FetchShow(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch show: %w", err)
	}

	summary := summarize(show)
	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", summary.Name)
	if summary.Premiered != "" {
		r.writePlain("  Premiered: %s\n", summary.Premiered)
	}
	if summary.URL != "" {
		r.writePlain("  URL:       %s\n", summary.URL)
	}
	r.writePlain("  Seasons:   %d\n", len(summary.Seasons))
	return r.writePlain("  Episodes:  %d\n", summary.Episodes)
}

func summarize(show *models.Show) showSummary {
	return showSummary{
		ID:        show.ID,
		Name:      show.Name,
		URL:       show.URL,
		Premiered: show.Premiered,
		Seasons:   show.Seasons(),
		Episodes:  len(show.Episodes),
	}
}
