package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/simaogato/wealthlog-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthlog-backend/internal/cli"
	"github.com/simaogato/wealthlog-backend/internal/config"
	"github.com/simaogato/wealthlog-backend/internal/logger"
	"github.com/simaogato/wealthlog-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthlog-backend/internal/usecase/journal"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

var (
	plain    = flag.Bool("plain", false, "print raw markdown instead of styled terminal output")
	wordWrap = flag.Int("wrap", 100, "word wrap width of styled output")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	app := &cli.App{Out: os.Stdout, Err: os.Stderr}
	cli.Register(commander, app)

	flag.Parse()

	ctx := context.Background()
	closeDB := func() {}
	if needsStore(flag.Arg(0)) {
		var err error
		if closeDB, err = setup(ctx, app); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(int(subcommands.ExitFailure))
		}
	}

	status := commander.Execute(ctx)
	closeDB()
	os.Exit(int(status))
}

// needsStore reports whether the command line runs a journal or report command.
// Help and the command listings work without configuration or a database.
func needsStore(command string) bool {
	switch command {
	case "", "help", "flags", "commands":
		return false
	}
	return true
}

// setup loads configuration, opens the database and wires the services into app
func setup(ctx context.Context, app *cli.App) (func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Commands print their own output; only warnings go to stderr
	log := logger.New(logger.Config{Level: "warn", Pretty: true, Output: os.Stderr})

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing database: %w", err)
	}

	snapshotRepo := postgres.NewSnapshotRepository(db)
	adjustmentRepo := postgres.NewAdjustmentRepository(db)
	targetRepo := postgres.NewTargetRepository(db)

	app.Journal = journal.NewJournalService(snapshotRepo, adjustmentRepo, postgres.NewDayRepository(db), log)
	app.Targets = target.NewTargetService(targetRepo, snapshotRepo, adjustmentRepo, log)
	app.Dashboard = dashboard.NewDashboardService(snapshotRepo, adjustmentRepo, targetRepo)
	app.Renderer = report.NewRenderer(cfg.Currency)

	if !*plain {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(*wordWrap),
		)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating terminal renderer: %w", err)
		}
		app.Markdown = renderer.Render
	}

	return func() { db.Close() }, nil
}
