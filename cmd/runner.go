package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/store"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.EpisodeService
	store   store.Container
	logger  *log.Logger
	output  io.Writer
	openURL func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service and Store are built from Config on first use when nil.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.EpisodeService
	Store   store.Container
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		store:   opts.Store,
		logger:  opts.Logger,
		output:  opts.Output,
		openURL: shared.OpenBrowser,
	}
}

// SetLogger replaces the runner's logger. Services and stores built afterwards log through it.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig replaces the runner config with the file at path when it exists and applies the log level.
//
// A file that fails to parse is reported and the current config is kept.
func (r *Runner) loadConfig(path string) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if config, err := shared.LoadConfig(path); err != nil {
				r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
			} else {
				r.config = config
				r.logger.Debug("config loaded", "path", path)
			}
		}
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		r.logger.Warn("invalid log level, using info", "error", err)
	}
	shared.SetLogLevel(r.logger, level)
}

// episodeService returns the injected service or builds a TVMaze client from the config.
func (r *Runner) episodeService() services.EpisodeService {
	if r.service != nil {
		return r.service
	}

	timeout, err := r.config.Client.TimeoutDuration()
	if err != nil {
		r.logger.Warn("invalid client timeout, using default", "error", err, "default", timeout)
	}

	r.service = services.NewTVMazeService(services.TVMazeOpts{
		BaseURL:   r.config.Client.BaseURL,
		Query:     r.config.Show.Query,
		UserAgent: r.config.Client.UserAgent,
		Timeout:   timeout,
		RateLimit: r.config.Client.RateLimit,
		Logger:    r.logger,
	})
	return r.service
}

// episodeStore returns the injected store or creates one over [Runner.episodeService].
func (r *Runner) episodeStore() store.Container {
	if r.store == nil {
		r.store = store.New(r.episodeService(), r.logger)
	}
	return r.store
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
