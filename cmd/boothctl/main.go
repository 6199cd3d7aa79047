// Command boothctl manages the master booth list.
//
//	boothctl import -file booths.csv
//	boothctl hierarchy
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	electionsvc "electoral/internal/election/service"
	electionstore "electoral/internal/election/store"
	"electoral/internal/platform/config"
	"electoral/internal/platform/logger"
	"electoral/internal/platform/postgres"
	dErrors "electoral/pkg/domain-errors"
	txcontext "electoral/pkg/platform/tx"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(ctx, os.Args[2:])
	case "hierarchy":
		err = runHierarchy(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		color.Red("boothctl: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: boothctl <import|hierarchy> [flags]")
}

func open(ctx context.Context) (*sql.DB, *electionsvc.Service, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	svc := electionsvc.New(electionstore.NewPostgres(db), electionsvc.WithLogger(logger.New(cfg.LogLevel)))
	return db, svc, nil
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV of master booths")
	dryRun := fs.Bool("dry-run", false, "validate rows without writing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open %s: %w", *file, err)
	}
	defer f.Close()

	booths, err := parseBooths(f)
	if err != nil {
		return err
	}
	if *dryRun {
		for i := range booths {
			if err := booths[i].Normalize(); err != nil {
				return fmt.Errorf("row %d: %s", i+1, dErrors.MessageOf(err))
			}
		}
		color.Green("%d rows valid", len(booths))
		return nil
	}

	db, svc, err := open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// One transaction for the whole file: a bad row leaves nothing behind.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	n, err := svc.ImportBooths(txcontext.WithTx(ctx, tx), booths)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	color.Green("imported %d booths", n)
	return nil
}

func runHierarchy(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hierarchy", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, svc, err := open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := svc.BoothHierarchy(ctx)
	if err != nil {
		return err
	}
	color.Cyan("\n=== Booth hierarchy ===")
	renderHierarchy(os.Stdout, rows)
	return nil
}
