// Command chatserver runs the single-port real-time chat server: static
// assets and the WebSocket broadcast relay on one TCP port.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/codegod100/chatserver/internal/chatapp"
	"github.com/codegod100/chatserver/internal/config"
	"github.com/codegod100/chatserver/internal/wsserver"
)

func main() {
	cmd := &cli.Command{
		Name:  "chatserver",
		Usage: "a single-port real-time chat server",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "TCP port to listen on (overrides config)"},
			&cli.StringFlag{Name: "static", Usage: "static file root (overrides config)"},
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, or error (overrides config)"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("static") {
		cfg.StaticRoot = cmd.String("static")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("chatserver: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().Timestamp().Logger()

	srv, err := wsserver.Listen(cfg.Port, cfg.WSServerConfig())
	if err != nil {
		return fmt.Errorf("chatserver: %w", err)
	}
	logger.Info().Int("port", cfg.Port).Str("static_root", cfg.StaticRoot).Msg("listening")

	app := chatapp.New(srv, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, _ := errgroup.WithContext(runCtx)
	g.Go(func() error {
		app.Run()
		cancel()
		return nil
	})
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			srv.Shutdown()
		case <-runCtx.Done():
		}
		return nil
	})
	return g.Wait()
}
