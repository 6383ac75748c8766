package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"tenantcore/internal/app"
	"tenantcore/internal/config"
	internaldb "tenantcore/internal/db"
)

// globalOptions carries the resolved persistent flags into subcommands.
type globalOptions struct {
	dbPath *string
	output *string
}

func (o *globalOptions) json() bool { return *o.output == "json" }

// openApp opens the metadata store, runs pending migrations, and wires the
// service layer. The caller must invoke the returned cleanup.
func openApp(ctx context.Context, o *globalOptions) (*app.App, func(), error) {
	writeDB, readDB, err := internaldb.OpenSQLitePair(*o.dbPath, 4)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", *o.dbPath, err)
	}
	cleanup := func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	}

	if err := internaldb.RunMigrations(writeDB); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	// CLI runs are quiet unless something is wrong.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	a, err := app.NewServices(ctx, app.Deps{
		Cfg:     &config.Config{DBPath: *o.dbPath},
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	appCleanup := func() {
		_ = a.Close()
		cleanup()
	}
	return a, appCleanup, nil
}
