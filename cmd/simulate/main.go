// Command simulate generates one synthetic loan portfolio and writes the
// detail and summary tables as CSV, optionally storing the run in Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
	"github.com/anyulbade/loan-portfolio-simulator/internal/database"
	"github.com/anyulbade/loan-portfolio-simulator/internal/export"
	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
	"github.com/anyulbade/loan-portfolio-simulator/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	_ = godotenv.Load()
	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}

type options struct {
	paramsFile string
	outputDir  string
	persist    bool
	overrides  config.Overrides
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.paramsFile, "config", cfg.ParamsFile, "simulation parameters YAML")
	fs.StringVar(&opts.outputDir, "out", cfg.OutputDir, "directory for the CSV files")
	fs.BoolVar(&opts.persist, "persist", cfg.PersistRuns, "store the run in Postgres")
	loans := fs.Int("loans", 0, "number of loans (overrides config)")
	seed := fs.Int64("seed", 0, "random seed (overrides config)")
	cutoff := fs.String("cutoff", "", "data cutoff YYYYMM (overrides config)")
	perLoan := fs.Bool("per-loan-streams", false, "derive one random stream per loan")
	workers := fs.Int("workers", 0, "goroutines for per-loan streams, 0 = unlimited")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "loans":
			opts.overrides.NumLoans = loans
		case "seed":
			opts.overrides.Seed = seed
		case "cutoff":
			m, err := model.ParseMonth(*cutoff)
			if err != nil {
				parseErr = fmt.Errorf("-cutoff: %w", err)
				return
			}
			opts.overrides.DataCutoff = &m
		case "per-loan-streams":
			opts.overrides.PerLoanStreams = perLoan
		case "workers":
			opts.overrides.Workers = workers
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return opts, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer) error {
	opts, err := parseFlags(cfg, args, stderr)
	if err != nil {
		return err
	}

	params, err := config.LoadParameters(opts.paramsFile)
	if err != nil {
		return fmt.Errorf("load parameters: %w", err)
	}

	var store service.RunStore
	if opts.persist {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
				return err
			}
		}
		if err := database.SeedCatalog(ctx, pool, params); err != nil {
			return err
		}
		store = repository.NewRunRepository(pool)
	}

	res, err := service.NewSimulationService(params, store).Run(ctx, opts.overrides)
	if err != nil {
		return err
	}

	files, err := export.WriteFiles(opts.outputDir, res.Parameters.DetailFileName, res.Parameters.SummaryFileName, res.Snapshots, res.Summary)
	if err != nil {
		return fmt.Errorf("export run %s: %w", res.Run.ID, err)
	}

	log.Info().
		Str("run_id", res.Run.ID).
		Bool("persisted", res.Persisted).
		Str("detail", files.DetailPath).
		Str("summary", files.SummaryPath).
		Msg("done")
	return nil
}
