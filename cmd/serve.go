package main

import (
	"context"
	"fmt"
	"net"

	"github.com/desertthunder/tvx/internal/server"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the web UI and blocks until the command context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidArgument, cfg.Port)
	}

	srv := server.New(cfg.Addr(), r.episodeStore(), r.logger)

	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %v", shared.ErrNetwork, srv.Addr(), err)
	}

	url := fmt.Sprintf("http://%s/", ln.Addr())
	r.writePlain("→ Serving episodes at %s (Ctrl+C to stop)\n", url)

	if cmd.Bool("open") {
		if err := r.openURL(url); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlain("⚠ Could not open browser automatically.\n")
		}
	}

	return srv.Serve(ctx, ln)
}
