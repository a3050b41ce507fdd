package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/config"
	"github.com/phrazzld/scry-srs/internal/export"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"
)

func newCLIApp() *cli.App {
	app := &cli.App{
		Name:  "scry-srs",
		Usage: "spaced repetition scheduling server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a config file (defaults to ./config.yaml when present)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serveAction,
			},
			{
				Name:  "migrate",
				Usage: "apply pending database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "status", Usage: "list migrations instead of applying them"},
				},
				Action: migrateAction,
			},
			{
				Name:  "export",
				Usage: "export review history",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(export.FormatCSV), Usage: "csv or xlsx"},
					&cli.StringFlag{Name: "collection", Usage: "restrict to one collection id"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination file (stdout when empty)"},
				},
				Action: exportAction,
			},
			{
				Name:  "stats",
				Usage: "print deck statistics as JSON",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "collection", Usage: "collection id, repeatable; all cards when omitted"},
				},
				Action: statsAction,
			},
		},
		DefaultCommand: "serve",
	}
	// Errors are reported by main.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loadConfig reads the configuration named by the global --config flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// commandApp builds an application for a one-shot command. Logs go to
// stderr so stdout stays clean for command output.
func commandApp(c *cli.Context) (*application, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	log := logger.SetupWithWriter(cfg.Server, c.App.ErrWriter)
	return newApplication(c.Context, cfg, log)
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("scry-srs starting",
		slog.Int("port", cfg.Server.Port),
		slog.String("driver", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.cleanup()

	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return app.serve(ctx, ln)
}

func migrateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.SetupWithWriter(cfg.Server, c.App.ErrWriter)

	db, err := openDatabase(c.Context, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if !c.Bool("status") {
		return migrateDatabase(c.Context, cfg.Database.Driver, db, log)
	}

	statuses, err := migrationStatus(c.Context, cfg.Database.Driver, db)
	if err != nil {
		return err
	}
	for _, st := range statuses {
		state := "pending"
		if st.State == goose.StateApplied {
			state = "applied " + st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(c.App.Writer, "%-40s %s\n", st.Source.Path, state)
	}
	return nil
}

func exportAction(c *cli.Context) error {
	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	collectionID, err := parseOptionalID(c.String("collection"))
	if err != nil {
		return err
	}

	app, err := commandApp(c)
	if err != nil {
		return err
	}
	defer app.cleanup()

	rows, err := app.scheduler.ExportHistory(c.Context, collectionID)
	if err != nil {
		return err
	}

	var out io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := export.Write(out, format, rows); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	app.logger.Info("history exported",
		slog.String("format", string(format)),
		slog.Int("rows", len(rows)))
	return nil
}

func statsAction(c *cli.Context) error {
	raw := c.StringSlice("collection")
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid collection id %q: %w", s, err)
		}
		ids = append(ids, id)
	}

	app, err := commandApp(c)
	if err != nil {
		return err
	}
	defer app.cleanup()

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")

	if len(ids) == 0 {
		stats, err := app.scheduler.FetchDeckStatistics(c.Context, nil)
		if err != nil {
			return err
		}
		return enc.Encode(stats)
	}

	batch, err := app.scheduler.FetchDeckStatisticsBatch(c.Context, ids)
	if err != nil {
		return err
	}
	out := make(map[string]any, len(batch))
	for id, stats := range batch {
		out[id.String()] = stats
	}
	return enc.Encode(out)
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid collection id %q: %w", s, err)
	}
	return &id, nil
}

// runContext is used by tests to drive the CLI with a cancellable context.
func runContext(ctx context.Context, app *cli.App, args ...string) error {
	return app.RunContext(ctx, append([]string{"scry-srs"}, args...))
}
