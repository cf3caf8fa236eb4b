package target

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTargetRepository is a mock implementation of TargetRepository for testing
type MockTargetRepository struct {
	mock.Mock
}

func (m *MockTargetRepository) Upsert(ctx context.Context, target *domain.Target) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockTargetRepository) Get(ctx context.Context, class domain.InstrumentClass, period domain.Period) (*domain.Target, error) {
	args := m.Called(ctx, class, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Target), args.Error(1)
}

func (m *MockTargetRepository) List(ctx context.Context) ([]domain.Target, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Target), args.Error(1)
}

func (m *MockTargetRepository) Delete(ctx context.Context, class domain.InstrumentClass, period domain.Period) error {
	args := m.Called(ctx, class, period)
	return args.Error(0)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetByKey(ctx context.Context, date domain.Date, class domain.InstrumentClass) (*domain.Snapshot, error) {
	args := m.Called(ctx, date, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) List(ctx context.Context, class *domain.InstrumentClass) ([]domain.Snapshot, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Delete(ctx context.Context, date domain.Date, class domain.InstrumentClass) (bool, error) {
	args := m.Called(ctx, date, class)
	return args.Bool(0), args.Error(1)
}

// MockAdjustmentRepository is a mock implementation of AdjustmentRepository for testing
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Replace(ctx context.Context, date domain.Date, class domain.InstrumentClass, adjustment *domain.Adjustment) error {
	args := m.Called(ctx, date, class, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) List(ctx context.Context, class *domain.InstrumentClass) ([]domain.Adjustment, error) {
	args := m.Called(ctx, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Adjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService() (*TargetService, *MockTargetRepository, *MockSnapshotRepository, *MockAdjustmentRepository) {
	targets := new(MockTargetRepository)
	snapshots := new(MockSnapshotRepository)
	adjustments := new(MockAdjustmentRepository)
	service := NewTargetService(targets, snapshots, adjustments, zerolog.Nop())
	service.Now = func() time.Time { return time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) }
	return service, targets, snapshots, adjustments
}

func TestSetTarget_CreatesNew(t *testing.T) {
	ctx := context.Background()
	service, targets, _, _ := newTestService()

	targets.On("Get", ctx, domain.InstrumentStock, domain.PeriodMonth).Return(nil, domain.ErrNotFound)
	targets.On("Upsert", ctx, mock.MatchedBy(func(t *domain.Target) bool {
		return t.Class == domain.InstrumentStock && t.Period == domain.PeriodMonth && t.TargetAmount.Equal(decimal.NewFromInt(3000))
	})).Return(nil)

	got, err := service.SetTarget(ctx, domain.InstrumentStock, domain.PeriodMonth, decimal.NewFromInt(3000), nil)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	targets.AssertExpectations(t)
}

func TestSetTarget_ReplacesKeepingID(t *testing.T) {
	ctx := context.Background()
	service, targets, _, _ := newTestService()
	existing := &domain.Target{ID: uuid.New(), Class: domain.InstrumentFund, Period: domain.PeriodYear, TargetAmount: decimal.NewFromInt(10)}

	targets.On("Get", ctx, domain.InstrumentFund, domain.PeriodYear).Return(existing, nil)
	targets.On("Upsert", ctx, mock.AnythingOfType("*domain.Target")).Return(nil)

	got, err := service.SetTarget(ctx, domain.InstrumentFund, domain.PeriodYear, decimal.NewFromInt(20000), nil)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.True(t, decimal.NewFromInt(20000).Equal(got.TargetAmount))
}

func TestSetTarget_ValidationError(t *testing.T) {
	ctx := context.Background()
	service, targets, _, _ := newTestService()

	_, err := service.SetTarget(ctx, domain.InstrumentStock, domain.PeriodWeek, decimal.Zero, nil)

	assert.EqualError(t, err, "target amount must be positive")
	targets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSetTarget_RepositoryError(t *testing.T) {
	ctx := context.Background()
	service, targets, _, _ := newTestService()

	targets.On("Get", ctx, domain.InstrumentStock, domain.PeriodWeek).Return(nil, errors.New("connection refused"))

	_, err := service.SetTarget(ctx, domain.InstrumentStock, domain.PeriodWeek, decimal.NewFromInt(1), nil)

	assert.EqualError(t, err, "connection refused")
	targets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestListProgress(t *testing.T) {
	ctx := context.Background()
	service, targets, snapshots, adjustments := newTestService()

	targets.On("List", ctx).Return([]domain.Target{
		{ID: uuid.New(), Class: domain.InstrumentFund, Period: domain.PeriodMonth, TargetAmount: decimal.NewFromInt(1000)},
		{ID: uuid.New(), Class: domain.InstrumentStock, Period: domain.PeriodWeek, TargetAmount: decimal.NewFromInt(200)},
	}, nil)
	snapshots.On("List", ctx, (*domain.InstrumentClass)(nil)).Return([]domain.Snapshot{
		snap("2024-05-10", domain.InstrumentStock, 10000),
		snap("2024-05-14", domain.InstrumentStock, 10250),
		snap("2024-04-30", domain.InstrumentFund, 2000),
		snap("2024-05-14", domain.InstrumentFund, 1900),
	}, nil)
	adjustments.On("List", ctx, (*domain.InstrumentClass)(nil)).Return([]domain.Adjustment{}, nil)

	got, err := service.ListProgress(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.InstrumentStock, got[0].Target.Class)
	assert.True(t, decimal.NewFromInt(250).Equal(got[0].ActualProfit))
	assert.True(t, got[0].IsAchieved)

	assert.Equal(t, domain.InstrumentFund, got[1].Target.Class)
	assert.True(t, decimal.NewFromInt(-100).Equal(got[1].ActualProfit))
	assert.Equal(t, -10.0, got[1].Percentage)
	assert.True(t, decimal.NewFromInt(1100).Equal(got[1].Remaining))
}

func TestListProgress_NoTargetsSkipsFetch(t *testing.T) {
	ctx := context.Background()
	service, targets, snapshots, _ := newTestService()

	targets.On("List", ctx).Return([]domain.Target{}, nil)

	got, err := service.ListProgress(ctx)

	require.NoError(t, err)
	assert.Empty(t, got)
	snapshots.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProgress_WrapsErrors(t *testing.T) {
	ctx := context.Background()
	service, targets, snapshots, _ := newTestService()
	boom := errors.New("boom")

	targets.On("List", ctx).Return([]domain.Target{{Class: domain.InstrumentStock, Period: domain.PeriodWeek}}, nil)
	snapshots.On("List", ctx, (*domain.InstrumentClass)(nil)).Return(nil, boom)

	_, err := service.ListProgress(ctx)

	assert.ErrorIs(t, err, boom)
}
