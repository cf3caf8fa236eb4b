package target

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProgressLister struct {
	mock.Mock
}

func (m *MockProgressLister) ListProgress(ctx context.Context) ([]Progress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Progress), args.Error(1)
}

func progressFor(class domain.InstrumentClass, from string, achieved bool) Progress {
	d := domain.MustParseDate(from)
	return Progress{
		Target:       domain.Target{Class: class, Period: domain.PeriodWeek, TargetAmount: decimal.NewFromInt(100)},
		Range:        domain.PeriodWeek.Range(d),
		ActualProfit: decimal.Zero,
		Completion:   Completion{IsAchieved: achieved},
	}
}

func TestWatcher_ReportsOnlyNewAchievements(t *testing.T) {
	w := NewWatcher(new(MockProgressLister), zerolog.Nop())

	first := w.Transitions([]Progress{
		progressFor(domain.InstrumentStock, "2024-05-13", false),
		progressFor(domain.InstrumentFund, "2024-05-13", true),
	})
	assert.Len(t, first, 1)
	assert.Equal(t, domain.InstrumentFund, first[0].Target.Class)

	second := w.Transitions([]Progress{
		progressFor(domain.InstrumentStock, "2024-05-13", true),
		progressFor(domain.InstrumentFund, "2024-05-13", true),
	})
	assert.Len(t, second, 1)
	assert.Equal(t, domain.InstrumentStock, second[0].Target.Class)

	// next week starts over
	third := w.Transitions([]Progress{
		progressFor(domain.InstrumentFund, "2024-05-20", true),
	})
	assert.Len(t, third, 1)
}

func TestWatcher_Run(t *testing.T) {
	lister := new(MockProgressLister)
	w := NewWatcher(lister, zerolog.Nop())

	lister.On("ListProgress", mock.Anything).Return([]Progress{progressFor(domain.InstrumentStock, "2024-05-13", true)}, nil).Once()
	lister.On("ListProgress", mock.Anything).Return(nil, errors.New("db down")).Once()

	assert.NoError(t, w.Run())
	assert.EqualError(t, w.Run(), "db down")
	assert.Equal(t, "target_watcher", w.Name())
	lister.AssertExpectations(t)
}
