// Command import loads a realtime-database JSON export into a user's ledger.
//
//	import -file export.json -firebase-uid UID -email user@example.com
//	import -file subtree.json -user-id 0190b8d2-... -dry-run
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"carteira/internal/config"
	"carteira/internal/database"
	"carteira/internal/importer"
	"carteira/internal/ledger"
	"carteira/internal/logger"
	"carteira/internal/notify"
	"carteira/internal/services"
	"carteira/internal/store"
)

type options struct {
	file        string
	firebaseUID string
	email       string
	userID      string
	dryRun      bool
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	var opts options
	flag.StringVar(&opts.file, "file", "", "path to the JSON export")
	flag.StringVar(&opts.firebaseUID, "firebase-uid", "", "user key inside a full database export")
	flag.StringVar(&opts.email, "email", "", "email of the receiving user")
	flag.StringVar(&opts.userID, "user-id", "", "id of the receiving user")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "decode and count without writing to the database")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		logger.Get().Fatalf("Import error: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	log := logger.Get()

	if opts.file == "" {
		return errors.New("-file is required")
	}
	if !opts.dryRun && (opts.email == "") == (opts.userID == "") {
		return errors.New("exactly one of -email or -user-id is required")
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	tree, err := importer.ParseTree(data, opts.firebaseUID)
	if err != nil {
		return err
	}

	var (
		target ledger.Store
		userID = opts.userID
	)
	if opts.dryRun {
		if userID == "" {
			userID = "dry-run"
		}
		target = store.NewMemoryStore(notify.NewHub())
	} else {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		dbManager, err := database.NewManager(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to create database manager: %w", err)
		}
		defer dbManager.Close()

		users := services.NewUserService(dbManager.DB())
		if opts.email != "" {
			user, err := users.GetUserByEmail(opts.email)
			if err != nil {
				return fmt.Errorf("failed to find user %s: %w", opts.email, err)
			}
			userID = user.ID
		} else if _, err := users.GetUserByID(userID); err != nil {
			return fmt.Errorf("failed to find user %s: %w", userID, err)
		}
		target = store.NewGormStore(dbManager.DB(), notify.NewHub(), nil)
	}

	res, err := importer.Run(ctx, target, userID, tree)
	if err != nil {
		return err
	}

	log.Infow("import complete",
		"dry_run", opts.dryRun,
		"expenses", res.Created[ledger.KindExpenses],
		"incomes", res.Created[ledger.KindIncomes],
		"skipped", len(res.Skipped),
	)
	for _, s := range res.Skipped {
		log.Infow("skipped record", "kind", s.Kind, "key", s.Key, "reason", s.Reason)
	}
	return nil
}
