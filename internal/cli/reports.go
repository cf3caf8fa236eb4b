package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
)

// statsCmd holds the flags for the 'stats' subcommand.
type statsCmd struct {
	app    *App
	month  string
	year   int
	period string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display profit/loss statistics of a period" }
func (*statsCmd) Usage() string {
	return `wealthlog stats [-month YYYY-MM | -year YYYY | -range <from>..<to>]

  Displays profit/loss, win rate, drawdown and return of both classes.
  Defaults to the current year.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "calendar month, YYYY-MM")
	f.IntVar(&c.year, "year", 0, "calendar year, annualized")
	f.StringVar(&c.period, "range", "", "custom range <from>..<to>, either side may be empty")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		summary *stats.Summary
		err     error
	)

	switch {
	case c.month != "":
		year, month, perr := parseMonth(c.month)
		if perr != nil {
			return c.app.usage("%v", perr)
		}
		summary, err = c.app.Dashboard.MonthlyStats(ctx, year, month)
	case c.period != "":
		bounds, perr := parseRange(c.period)
		if perr != nil {
			return c.app.usage("%v", perr)
		}
		summary, err = c.app.Dashboard.PeriodStats(ctx, bounds, stats.Options{})
	default:
		year := c.year
		if year == 0 {
			year = c.app.today().Year()
		}
		summary, err = c.app.Dashboard.YearlyStats(ctx, year)
	}
	if err != nil {
		return c.app.fail("computing stats", err)
	}

	doc, err := c.app.Renderer.Summary(*summary)
	if err != nil {
		return c.app.fail("rendering stats", err)
	}
	return c.app.printMarkdown(doc)
}

// progressCmd holds the flags for the 'progress' subcommand.
type progressCmd struct {
	app *App
}

func (*progressCmd) Name() string     { return "progress" }
func (*progressCmd) Synopsis() string { return "display the progress of every profit target" }
func (*progressCmd) Usage() string {
	return `wealthlog progress

  Displays each target against the profit of its current calendar period.
`
}

func (c *progressCmd) SetFlags(*flag.FlagSet) {}

func (c *progressCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	progress, err := c.app.Targets.ListProgress(ctx)
	if err != nil {
		return c.app.fail("evaluating targets", err)
	}

	doc, err := c.app.Renderer.Progress(progress)
	if err != nil {
		return c.app.fail("rendering targets", err)
	}
	return c.app.printMarkdown(doc)
}

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	app  *App
	a, b string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare two date ranges side by side" }
func (*compareCmd) Usage() string {
	return `wealthlog compare -a <from>..<to> -b <from>..<to>

  Displays the stats of both ranges and their difference (B - A).
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.a, "a", "", "first range <from>..<to>")
	f.StringVar(&c.b, "b", "", "second range <from>..<to>")
}

func (c *compareCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.a == "" || c.b == "" {
		return c.app.usage("both -a and -b are required")
	}
	a, err := parseRange(c.a)
	if err != nil {
		return c.app.usage("%v", err)
	}
	b, err := parseRange(c.b)
	if err != nil {
		return c.app.usage("%v", err)
	}

	result, err := c.app.Dashboard.Compare(ctx, a, b)
	if err != nil {
		return c.app.fail("comparing ranges", err)
	}

	doc, err := c.app.Renderer.Comparison(result)
	if err != nil {
		return c.app.fail("rendering comparison", err)
	}
	return c.app.printMarkdown(doc)
}

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	app    *App
	period string
	class  string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list snapshots with their daily profit/loss" }
func (*historyCmd) Usage() string {
	return `wealthlog history [-range <from>..<to>] [-class stock|fund]

  Lists snapshots newest first. Defaults to the current month.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "range", "", "range <from>..<to>")
	f.StringVar(&c.class, "class", "", "only list one instrument class")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	bounds := domain.PeriodMonth.Range(c.app.today())
	if c.period != "" {
		var err error
		if bounds, err = parseRange(c.period); err != nil {
			return c.app.usage("%v", err)
		}
	}
	class, err := optionalClass(c.class)
	if err != nil {
		return c.app.usage("%v", err)
	}

	rows, err := c.app.Dashboard.History(ctx, bounds, class)
	if err != nil {
		return c.app.fail("loading history", err)
	}

	doc, err := c.app.Renderer.History(rows)
	if err != nil {
		return c.app.fail("rendering history", err)
	}
	return c.app.printMarkdown(doc)
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	app    *App
	period string
	class  string
	output string
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export snapshots and daily profit/loss as CSV or Excel" }
func (*exportCmd) Usage() string {
	return `wealthlog export [-range <from>..<to>] [-class stock|fund] [-format csv|xlsx] [-o file]

  Writes every snapshot of the range, newest first. Defaults to CSV on stdout.
  The format follows the extension of -o unless -format is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "range", "..", "range <from>..<to>")
	f.StringVar(&c.class, "class", "", "only export one instrument class")
	f.StringVar(&c.output, "o", "", "output file")
	f.StringVar(&c.format, "format", "", "csv or xlsx")
}

// exportFormat resolves the output format from -format, then the -o extension
func exportFormat(format, output string) (string, error) {
	switch strings.ToLower(format) {
	case "csv", "xlsx":
		return strings.ToLower(format), nil
	case "":
		if strings.EqualFold(filepath.Ext(output), ".xlsx") {
			return "xlsx", nil
		}
		return "csv", nil
	default:
		return "", fmt.Errorf("unknown format %q: expected csv or xlsx", format)
	}
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	bounds, err := parseRange(c.period)
	if err != nil {
		return c.app.usage("%v", err)
	}
	class, err := optionalClass(c.class)
	if err != nil {
		return c.app.usage("%v", err)
	}

	format, err := exportFormat(c.format, c.output)
	if err != nil {
		return c.app.usage("%v", err)
	}

	rows, err := c.app.Dashboard.History(ctx, bounds, class)
	if err != nil {
		return c.app.fail("loading history", err)
	}

	out := c.app.Out
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return c.app.fail("creating output file", err)
		}
		defer f.Close()
		out = f
	}

	if format == "xlsx" {
		if err := report.WriteXLSX(out, rows); err != nil {
			return c.app.fail("writing Excel workbook", err)
		}
		return subcommands.ExitSuccess
	}

	if err := report.WriteCSV(out, rows); err != nil {
		return c.app.fail("writing CSV", err)
	}
	return subcommands.ExitSuccess
}
