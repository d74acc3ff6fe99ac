// Command trackmeet runs a meet from the terminal against the same store the
// HTTP server uses.
package main

import (
	"fmt"
	"io"
	"os"

	app "github.com/okian/trackmeet/internal/app"
	"github.com/okian/trackmeet/internal/config"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/pkg/logger"
	"github.com/urfave/cli/v2"
)

const (
	storeDirFlag  = "store-dir"
	backendFlag   = "store"
	seedFlag      = "seed"
	eventPoolFlag = "event-pool"
	logLevelFlag  = "log-level"
)

var build string
var semanticVersion = "v1.0.0" + build

// runner holds the service opened by the Before hook for the subcommands.
type runner struct {
	out    io.Writer
	errOut io.Writer
	svc    *app.Service
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", errs.Message(err))
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	r := &runner{out: out, errOut: errOut}
	return &cli.App{
		Name:      "trackmeet",
		Usage:     "Run a Race Roulette track meet from the command line",
		Version:   semanticVersion,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  storeDirFlag,
				Usage: "Directory of the file store (overrides TRACKMEET_STORE_DIR)",
			},
			&cli.StringFlag{
				Name:  backendFlag,
				Usage: "Store backend: file, memory or postgres (overrides TRACKMEET_STORE_BACKEND)",
			},
			&cli.Uint64Flag{
				Name:  seedFlag,
				Usage: "Seed for event draws, 0 picks a random one",
			},
			&cli.StringFlag{
				Name:  eventPoolFlag,
				Usage: "YAML event catalog used when the pool is reset",
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level written to stderr",
				Value: "warn",
			},
		},
		Before: r.open,
		After:  r.close,
		Commands: []*cli.Command{
			r.athletesCommand(),
			r.teamsCommand(),
			r.eventsCommand(),
			r.resultsCommand(),
			r.scoreboardCommand(),
			r.exportCommand(),
			r.clearCommand(),
			r.statsCommand(),
		},
	}
}

// open loads the configuration, applies flag overrides and starts the
// service.
func (r *runner) open(c *cli.Context) error {
	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}
	if v := c.String(storeDirFlag); v != "" {
		cfg.StoreDir = v
	}
	if v := c.String(backendFlag); v != "" {
		cfg.StoreBackend = v
	}
	if c.IsSet(seedFlag) {
		cfg.RandomSeed = c.Uint64(seedFlag)
	}
	if v := c.String(eventPoolFlag); v != "" {
		cfg.EventPoolFile = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithWriter(r.errOut)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(c.String(logLevelFlag)); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}

	svc, err := app.NewFromConfig(c.Context, cfg, app.WithLogger(logger.Named("cli")))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	if err := svc.Start(c.Context); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	r.svc = svc
	return nil
}

func (r *runner) close(*cli.Context) error {
	if r.svc != nil {
		r.svc.Stop()
		r.svc = nil
	}
	return nil
}
