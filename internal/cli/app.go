// Package cli implements the wealthlog command line subcommands.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthlog-backend/internal/usecase/journal"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

// App carries the services every subcommand works with
type App struct {
	Journal   *journal.JournalService
	Targets   *target.TargetService
	Dashboard *dashboard.DashboardService
	Renderer  *report.Renderer

	Out io.Writer
	Err io.Writer

	// Markdown renders a markdown document for the terminal.
	// Nil prints the document as is.
	Markdown func(string) (string, error)

	// Now is the clock used for default dates
	Now func() time.Time
}

// Register adds every subcommand to c
func Register(c *subcommands.Commander, app *App) {
	c.Register(&recordCmd{app: app}, "journal")
	c.Register(&importCmd{app: app}, "journal")
	c.Register(&adjustmentsCmd{app: app}, "journal")
	c.Register(&targetCmd{app: app}, "journal")

	c.Register(&statsCmd{app: app}, "reports")
	c.Register(&progressCmd{app: app}, "reports")
	c.Register(&compareCmd{app: app}, "reports")
	c.Register(&historyCmd{app: app}, "reports")
	c.Register(&exportCmd{app: app}, "reports")
}

func (a *App) today() domain.Date {
	if a.Now == nil {
		return domain.Today()
	}
	return domain.DateOf(a.Now())
}

// printMarkdown writes doc through the terminal renderer when one is set
func (a *App) printMarkdown(doc string) subcommands.ExitStatus {
	if a.Markdown != nil {
		rendered, err := a.Markdown(doc)
		if err != nil {
			return a.fail("rendering report", err)
		}
		doc = rendered
	}
	fmt.Fprint(a.Out, doc)
	return subcommands.ExitSuccess
}

func (a *App) fail(action string, err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error %s: %v\n", action, err)
	return subcommands.ExitFailure
}

func (a *App) usage(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, format+"\n", args...)
	return subcommands.ExitUsageError
}

// parseRange reads "from..to"; either side may be left empty
func parseRange(s string) (domain.Range, error) {
	from, to, ok := strings.Cut(s, "..")
	if !ok {
		return domain.Range{}, fmt.Errorf("invalid range %q: expected <from>..<to>", s)
	}
	var bounds [2]domain.Date
	for i, v := range []string{from, to} {
		if strings.TrimSpace(v) == "" {
			continue
		}
		d, err := domain.ParseDate(v)
		if err != nil {
			return domain.Range{}, err
		}
		bounds[i] = d
	}
	return domain.OpenRange(bounds[0], bounds[1]), nil
}

// parseMonth reads YYYY-MM
func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

func optionalClass(s string) (*domain.InstrumentClass, error) {
	if s == "" {
		return nil, nil
	}
	class, err := domain.ParseInstrumentClass(s)
	if err != nil {
		return nil, err
	}
	return &class, nil
}
