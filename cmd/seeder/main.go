// Command seeder imports events and registrations from a JSON fixture file.
// It is intended for local development and demo environments, not as part
// of the main server.
//
// Flags:
//
//	--file     path to the fixture JSON file (required)
//	--dry-run  parse the fixture without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jmkivinen/trialreg/internal/adapter/postgres"
	eventrepo "github.com/jmkivinen/trialreg/internal/adapter/postgres/event"
	regrepo "github.com/jmkivinen/trialreg/internal/adapter/postgres/registration"
	"github.com/jmkivinen/trialreg/internal/app"
	"github.com/jmkivinen/trialreg/internal/config"
	"github.com/jmkivinen/trialreg/internal/domain"
)

// fixture is the on-disk import format.
type fixture struct {
	Events        []*domain.Event        `json:"events"`
	Registrations []*domain.Registration `json:"registrations"`
}

func main() {
	fileFlag := flag.String("file", "", "path to the fixture JSON file")
	dryRunFlag := flag.Bool("dry-run", false, "parse the fixture without writing to DB")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("missing required flag: --file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	fx, err := loadFixture(*fileFlag)
	if err != nil {
		logger.Error("load fixture", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("fixture parsed",
		slog.Int("events", len(fx.Events)),
		slog.Int("registrations", len(fx.Registrations)),
	)

	if *dryRunFlag {
		logger.Info("dry run, nothing written")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	events := eventrepo.New(pool)
	regs := regrepo.New(pool)

	err = txm.RunInTx(ctx, func(txCtx context.Context) error {
		for _, event := range fx.Events {
			if err := events.Create(txCtx, event); err != nil {
				return fmt.Errorf("event %s: %w", event.ID, err)
			}
		}
		for _, reg := range fx.Registrations {
			if err := regs.Create(txCtx, reg); err != nil {
				return fmt.Errorf("registration %s: %w", reg.Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("import failed, rolled back", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fx, nil
}
