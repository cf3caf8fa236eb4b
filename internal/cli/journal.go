package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/journal"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
)

// recordCmd holds the flags for the 'record' subcommand.
type recordCmd struct {
	app         *App
	date        string
	class       string
	asset       string
	marketValue string
	index       string
	adjustment  string
	notes       string
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record the account snapshot of a day" }
func (*recordCmd) Usage() string {
	return `wealthlog record -class stock|fund -asset <amount> [-d <date>] [-mv <amount>] [-index <value>] [-adjust <amount>] [-notes <text>]

  Saves the snapshot of a day, replacing any snapshot already stored for the
  same day and class. -adjust records the capital added (positive) or
  withdrawn (negative) that day; leaving it out clears the day's adjustment.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "snapshot date, defaults to today")
	f.StringVar(&c.class, "class", "", "instrument class, stock or fund")
	f.StringVar(&c.asset, "asset", "", "total account value")
	f.StringVar(&c.marketValue, "mv", "", "market value of held securities (stock only)")
	f.StringVar(&c.index, "index", "", "benchmark index value")
	f.StringVar(&c.adjustment, "adjust", "", "net capital added (positive) or withdrawn (negative)")
	f.StringVar(&c.notes, "notes", "", "free text")
}

func (c *recordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date := c.app.today()
	if c.date != "" {
		d, err := domain.ParseDate(c.date)
		if err != nil {
			return c.app.usage("%v", err)
		}
		date = d
	}
	class, err := domain.ParseInstrumentClass(c.class)
	if err != nil {
		return c.app.usage("%v", err)
	}
	if c.asset == "" {
		return c.app.usage("-asset is required")
	}
	asset, err := domain.ParseAmountStrict(c.asset)
	if err != nil {
		return c.app.usage("invalid -asset: %v", err)
	}

	optional := map[string]*decimal.Decimal{}
	for name, v := range map[string]string{"mv": c.marketValue, "index": c.index, "adjust": c.adjustment} {
		if v == "" {
			continue
		}
		d, err := domain.ParseAmountStrict(v)
		if err != nil {
			return c.app.usage("invalid -%s: %v", name, err)
		}
		optional[name] = &d
	}

	entry := journal.Entry{
		Snapshot: domain.Snapshot{
			Date:             date,
			Class:            class,
			TotalAsset:       asset,
			TotalMarketValue: optional["mv"],
			IndexReference:   optional["index"],
			Notes:            c.notes,
		},
		Adjustment: optional["adjust"],
	}

	snapshot, _, err := c.app.Journal.RecordDay(ctx, entry)
	if err != nil {
		return c.app.fail("recording snapshot", err)
	}

	fmt.Fprintf(c.app.Out, "Recorded %s %s: %s\n", snapshot.Date, snapshot.Class.Label(), report.FormatMoney(snapshot.TotalAsset, c.app.Renderer.Currency(), false))
	return subcommands.ExitSuccess
}

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	app *App
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import snapshots from a CSV file" }
func (*importCmd) Usage() string {
	return `wealthlog import <file.csv>

  Saves every row of a CSV file as a snapshot. Files written by 'export'
  can be imported back. Adjustments are left untouched.
`
}

func (c *importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage("expected exactly one CSV file")
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		return c.app.fail("opening CSV", err)
	}
	defer file.Close()

	snapshots, err := report.ReadCSV(file)
	if err != nil {
		return c.app.fail("reading CSV", err)
	}

	n, err := c.app.Journal.ImportSnapshots(ctx, snapshots)
	if err != nil {
		fmt.Fprintf(c.app.Out, "Imported %d of %d snapshots\n", n, len(snapshots))
		return c.app.fail("importing snapshots", err)
	}

	fmt.Fprintf(c.app.Out, "Imported %d snapshots\n", n)
	return subcommands.ExitSuccess
}

// adjustmentsCmd holds the flags for the 'adjustments' subcommand.
type adjustmentsCmd struct {
	app    *App
	class  string
	remove string
}

func (*adjustmentsCmd) Name() string     { return "adjustments" }
func (*adjustmentsCmd) Synopsis() string { return "list or delete capital adjustments" }
func (*adjustmentsCmd) Usage() string {
	return `wealthlog adjustments [-class stock|fund] [-delete <id>]

  Lists stored capital adjustments, oldest first, with their IDs.
  -delete removes a single adjustment by ID.
`
}

func (c *adjustmentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "only list this instrument class")
	f.StringVar(&c.remove, "delete", "", "ID of the adjustment to delete")
}

func (c *adjustmentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.remove != "" {
		id, err := uuid.Parse(c.remove)
		if err != nil {
			return c.app.usage("invalid -delete: %v", err)
		}
		if err := c.app.Journal.DeleteAdjustment(ctx, id); err != nil {
			return c.app.fail("deleting adjustment", err)
		}
		fmt.Fprintf(c.app.Out, "Deleted adjustment %s\n", id)
		return subcommands.ExitSuccess
	}

	class, err := optionalClass(c.class)
	if err != nil {
		return c.app.usage("%v", err)
	}

	adjustments, err := c.app.Journal.ListAdjustments(ctx, class)
	if err != nil {
		return c.app.fail("listing adjustments", err)
	}
	if len(adjustments) == 0 {
		fmt.Fprintln(c.app.Out, "No adjustments recorded")
		return subcommands.ExitSuccess
	}

	for _, a := range adjustments {
		fmt.Fprintf(c.app.Out, "%s  %s  %-5s  %s  %s\n",
			a.ID, a.Date, a.Class.Label(),
			report.FormatMoney(a.Amount, c.app.Renderer.Currency(), true),
			a.Notes)
	}
	return subcommands.ExitSuccess
}

// targetCmd holds the flags for the 'target' subcommand.
type targetCmd struct {
	app    *App
	class  string
	period string
	amount string
	remove bool
}

func (*targetCmd) Name() string     { return "target" }
func (*targetCmd) Synopsis() string { return "set or delete a profit target" }
func (*targetCmd) Usage() string {
	return `wealthlog target -class stock|fund -period week|month|year (-amount <amount> | -delete)

  Sets the profit goal of a class over a calendar period, replacing any
  previous goal for the same class and period.
`
}

func (c *targetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "instrument class, stock or fund")
	f.StringVar(&c.period, "period", "", "week, month or year")
	f.StringVar(&c.amount, "amount", "", "profit goal")
	f.BoolVar(&c.remove, "delete", false, "delete the target instead")
}

func (c *targetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	class, err := domain.ParseInstrumentClass(c.class)
	if err != nil {
		return c.app.usage("%v", err)
	}
	period, err := domain.ParsePeriod(c.period)
	if err != nil {
		return c.app.usage("%v", err)
	}

	if c.remove {
		if err := c.app.Targets.DeleteTarget(ctx, class, period); err != nil {
			return c.app.fail("deleting target", err)
		}
		fmt.Fprintf(c.app.Out, "Deleted %s %s target\n", class.Label(), period.Label())
		return subcommands.ExitSuccess
	}

	amount, err := domain.ParseAmountStrict(c.amount)
	if err != nil {
		return c.app.usage("invalid -amount: %v", err)
	}

	t, err := c.app.Targets.SetTarget(ctx, class, period, amount, nil)
	if err != nil {
		return c.app.fail("setting target", err)
	}

	fmt.Fprintf(c.app.Out, "Set %s %s target: %s\n", t.Class.Label(), t.Period.Label(), report.FormatMoney(t.TargetAmount, c.app.Renderer.Currency(), false))
	return subcommands.ExitSuccess
}
