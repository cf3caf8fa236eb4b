package target

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// ProgressLister is the part of TargetService the watcher needs
type ProgressLister interface {
	ListProgress(ctx context.Context) ([]Progress, error)
}

type watchKey struct {
	class  domain.InstrumentClass
	period domain.Period
	from   domain.Date
}

// Watcher is a scheduled job that re-evaluates every target and reports
// the ones that just reached their goal for the current period
type Watcher struct {
	lister  ProgressLister
	timeout time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	achieved map[watchKey]bool
}

// NewWatcher creates a new target watcher job
func NewWatcher(lister ProgressLister, log zerolog.Logger) *Watcher {
	return &Watcher{
		lister:   lister,
		timeout:  30 * time.Second,
		log:      log.With().Str("job", "target_watcher").Logger(),
		achieved: make(map[watchKey]bool),
	}
}

// Name returns the job name
func (w *Watcher) Name() string {
	return "target_watcher"
}

// Run evaluates every target once
func (w *Watcher) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	progress, err := w.lister.ListProgress(ctx)
	if err != nil {
		return err
	}

	for _, p := range w.Transitions(progress) {
		w.log.Info().
			Str("class", string(p.Target.Class)).
			Str("period", string(p.Target.Period)).
			Str("range", p.Range.String()).
			Str("target", p.Target.TargetAmount.String()).
			Str("actual", p.ActualProfit.String()).
			Msg("Target achieved")
	}

	return nil
}

// Transitions records progress and returns the entries that moved into the
// achieved state since the previous call. A new period starts unachieved.
func (w *Watcher) Transitions(progress []Progress) []Progress {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Progress
	seen := make(map[watchKey]bool, len(progress))
	for _, p := range progress {
		k := watchKey{class: p.Target.Class, period: p.Target.Period, from: p.Range.From}
		seen[k] = true
		if p.IsAchieved && !w.achieved[k] {
			out = append(out, p)
		}
		w.achieved[k] = p.IsAchieved
	}

	for k := range w.achieved {
		if !seen[k] {
			delete(w.achieved, k)
		}
	}

	return out
}
