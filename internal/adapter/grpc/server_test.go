package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/comparison"
	"github.com/simaogato/wealthlog-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthlog-backend/internal/usecase/journal"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

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

const testToken = "test-token-123"

var noClass = (*domain.InstrumentClass)(nil)

// MockDayRepository is a mock implementation of DayRepository for testing
type MockDayRepository struct {
	mock.Mock
}

func (m *MockDayRepository) SaveDay(ctx context.Context, snapshot *domain.Snapshot, adjustment *domain.Adjustment) error {
	args := m.Called(ctx, snapshot, adjustment)
	return args.Error(0)
}

type testEnv struct {
	client      *JournalServiceClient
	snapshots   *MockSnapshotRepository
	adjustments *MockAdjustmentRepository
	days        *MockDayRepository
	targets     *MockTargetRepository
}

// newTestEnv serves a Server backed by mock repositories over an in-memory listener
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		snapshots:   new(MockSnapshotRepository),
		adjustments: new(MockAdjustmentRepository),
		days:        new(MockDayRepository),
		targets:     new(MockTargetRepository),
	}
	now := func() time.Time { return time.Date(2024, 5, 16, 9, 0, 0, 0, time.UTC) }

	journalService := journal.NewJournalService(env.snapshots, env.adjustments, env.days, zerolog.Nop())
	targetService := target.NewTargetService(env.targets, env.snapshots, env.adjustments, zerolog.Nop())
	targetService.Now = now
	dashboardService := dashboard.NewDashboardService(env.snapshots, env.adjustments, env.targets)
	dashboardService.Now = now

	listener := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zerolog.Nop()),
		AuthInterceptor(testToken),
	))
	RegisterJournalServiceServer(grpcServer, NewServer(journalService, targetService, dashboardService))

	go func() {
		_ = grpcServer.Serve(listener)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	env.client = NewJournalServiceClient(conn)
	return env
}

func authContext() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func request(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return req
}

func fixture() ([]domain.Snapshot, []domain.Adjustment) {
	snap := func(date string, class domain.InstrumentClass, asset int64) domain.Snapshot {
		return domain.Snapshot{
			ID:         uuid.New(),
			Date:       domain.MustParseDate(date),
			Class:      class,
			TotalAsset: decimal.NewFromInt(asset),
		}
	}
	return []domain.Snapshot{
			snap("2024-04-30", domain.InstrumentStock, 10000),
			snap("2024-05-14", domain.InstrumentStock, 11500),
			snap("2024-05-15", domain.InstrumentStock, 11400),
			snap("2024-05-14", domain.InstrumentFund, 3000),
		}, []domain.Adjustment{
			{ID: uuid.New(), Date: domain.MustParseDate("2024-05-14"), Class: domain.InstrumentStock, Amount: decimal.NewFromInt(1000)},
		}
}

func (env *testEnv) expectLedger() {
	records, adjs := fixture()
	env.snapshots.On("List", mock.Anything, noClass).Return(records, nil)
	env.adjustments.On("List", mock.Anything, noClass).Return(adjs, nil)
}

func TestServer_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.ListHistory(context.Background(), request(t, nil))

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	env.snapshots.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestServer_SaveSnapshot(t *testing.T) {
	env := newTestEnv(t)
	date := domain.MustParseDate("2024-05-14")

	env.days.On("SaveDay", mock.Anything, mock.MatchedBy(func(s *domain.Snapshot) bool {
		return s.Date == date &&
			s.Class == domain.InstrumentStock &&
			s.TotalAsset.Equal(decimal.RequireFromString("11500.50")) &&
			s.TotalMarketValue != nil && s.TotalMarketValue.Equal(decimal.NewFromInt(8000))
	}), mock.MatchedBy(func(a *domain.Adjustment) bool {
		return a != nil && a.Date == date && a.Amount.Equal(decimal.NewFromInt(1000)) && a.Notes == "salary"
	})).Return(nil).Once()

	resp, err := env.client.SaveSnapshot(authContext(), request(t, map[string]interface{}{
		"date":               "2024-05-14",
		"class":              "stock",
		"total_asset":        "11500.50",
		"total_market_value": 8000,
		"adjustment":         "1000",
		"notes":              "salary",
	}))

	require.NoError(t, err)
	assert.Equal(t, "2024-05-14", resp.Fields["date"].GetStringValue())
	assert.Equal(t, "STOCK", resp.Fields["class"].GetStringValue())
	assert.NotEmpty(t, resp.Fields["id"].GetStringValue())
	assert.NotEmpty(t, resp.Fields["adjustment_id"].GetStringValue())
	env.days.AssertExpectations(t)
}

func TestServer_SaveSnapshot_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{
			name:   "missing date",
			fields: map[string]interface{}{"class": "STOCK", "total_asset": "1"},
		},
		{
			name:   "malformed date",
			fields: map[string]interface{}{"date": "14/05/2024", "class": "STOCK", "total_asset": "1"},
		},
		{
			name:   "unknown class",
			fields: map[string]interface{}{"date": "2024-05-14", "class": "BOND", "total_asset": "1"},
		},
		{
			name:   "malformed amount",
			fields: map[string]interface{}{"date": "2024-05-14", "class": "FUND", "total_asset": "lots"},
		},
		{
			name:   "negative asset",
			fields: map[string]interface{}{"date": "2024-05-14", "class": "FUND", "total_asset": "-5"},
		},
		{
			name:   "exponent overflow",
			fields: map[string]interface{}{"date": "2024-05-14", "class": "FUND", "total_asset": "1e50000000"},
		},
		{
			name:   "adjustment exponent overflow",
			fields: map[string]interface{}{"date": "2024-05-14", "class": "STOCK", "total_asset": "1", "adjustment": "-9e999999999"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.client.SaveSnapshot(authContext(), request(t, tt.fields))

			assert.Equal(t, codes.InvalidArgument, status.Code(err), "err: %v", err)
			env.days.AssertNotCalled(t, "SaveDay", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestServer_DeleteSnapshot(t *testing.T) {
	env := newTestEnv(t)
	date := domain.MustParseDate("2024-05-14")

	env.snapshots.On("Delete", mock.Anything, date, domain.InstrumentFund).Return(true, nil).Once()
	env.snapshots.On("Delete", mock.Anything, date, domain.InstrumentStock).Return(false, nil).Once()

	resp, err := env.client.DeleteSnapshot(authContext(), request(t, map[string]interface{}{"date": "2024-05-14", "class": "FUND"}))
	require.NoError(t, err)
	assert.True(t, resp.Fields["deleted"].GetBoolValue())

	_, err = env.client.DeleteSnapshot(authContext(), request(t, map[string]interface{}{"date": "2024-05-14", "class": "STOCK"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_DeleteAdjustment(t *testing.T) {
	env := newTestEnv(t)
	stored := uuid.New()
	missing := uuid.New()

	env.adjustments.On("Delete", mock.Anything, stored).Return(nil).Once()
	env.adjustments.On("Delete", mock.Anything, missing).Return(fmt.Errorf("adjustment %s: %w", missing, domain.ErrNotFound)).Once()

	resp, err := env.client.DeleteAdjustment(authContext(), request(t, map[string]interface{}{"id": stored.String()}))
	require.NoError(t, err)
	assert.True(t, resp.Fields["deleted"].GetBoolValue())

	_, err = env.client.DeleteAdjustment(authContext(), request(t, map[string]interface{}{"id": missing.String()}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = env.client.DeleteAdjustment(authContext(), request(t, map[string]interface{}{"id": "not-a-uuid"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.DeleteAdjustment(authContext(), request(t, nil))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	env.adjustments.AssertExpectations(t)
}

func TestServer_SetTarget_AmountOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.SetTarget(authContext(), request(t, map[string]interface{}{
		"class":  "STOCK",
		"period": "YEAR",
		"amount": "1e50000000",
	}))

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	env.targets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestServer_SaveAdjustment_ZeroClears(t *testing.T) {
	env := newTestEnv(t)
	date := domain.MustParseDate("2024-05-14")

	env.adjustments.On("Replace", mock.Anything, date, domain.InstrumentStock, (*domain.Adjustment)(nil)).Return(nil).Once()

	resp, err := env.client.SaveAdjustment(authContext(), request(t, map[string]interface{}{
		"date":   "2024-05-14",
		"class":  "STOCK",
		"amount": "0",
	}))

	require.NoError(t, err)
	assert.True(t, resp.Fields["cleared"].GetBoolValue())
	env.adjustments.AssertExpectations(t)
}

func TestServer_SetTarget(t *testing.T) {
	env := newTestEnv(t)
	existing := uuid.New()

	env.targets.On("Get", mock.Anything, domain.InstrumentFund, domain.PeriodMonth).
		Return(&domain.Target{ID: existing}, nil).Once()
	env.targets.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Target")).Return(nil).Once()

	resp, err := env.client.SetTarget(authContext(), request(t, map[string]interface{}{
		"class":  "fund",
		"period": "monthly",
		"amount": "2500",
	}))

	require.NoError(t, err)
	assert.Equal(t, existing.String(), resp.Fields["id"].GetStringValue())
	assert.Equal(t, "MONTH", resp.Fields["period"].GetStringValue())
	assert.Equal(t, "2500", resp.Fields["amount"].GetStringValue())

	_, err = env.client.SetTarget(authContext(), request(t, map[string]interface{}{
		"class":  "fund",
		"period": "month",
		"amount": "-1",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_GetPeriodStats(t *testing.T) {
	env := newTestEnv(t)
	env.expectLedger()

	resp, err := env.client.GetPeriodStats(authContext(), request(t, map[string]interface{}{
		"from": "2024-05-01",
		"to":   "2024-05-31",
	}))

	require.NoError(t, err)
	stock := resp.Fields["stock"].GetStructValue()
	require.NotNil(t, stock)
	assert.Equal(t, "400", stock.Fields["profit_loss"].GetStringValue())
	assert.Equal(t, 2.0, stock.Fields["days"].GetNumberValue())
	assert.Equal(t, 50.0, stock.Fields["win_rate"].GetNumberValue())
	assert.Equal(t, "0", resp.Fields["fund"].GetStructValue().Fields["profit_loss"].GetStringValue())
	assert.Equal(t, "2024-05-01", resp.Fields["range"].GetStructValue().Fields["from"].GetStringValue())
}

func TestServer_CompareRanges(t *testing.T) {
	env := newTestEnv(t)
	env.expectLedger()

	resp, err := env.client.CompareRanges(authContext(), request(t, map[string]interface{}{
		"a_from": "2024-04-01", "a_to": "2024-04-30",
		"b_from": "2024-05-01", "b_to": "2024-05-31",
	}))
	require.NoError(t, err)
	assert.Equal(t, "400", resp.Fields["delta"].GetStructValue().Fields["stock_profit_loss"].GetStringValue())

	_, err = env.client.CompareRanges(authContext(), request(t, map[string]interface{}{
		"a_from": "2023-01-01", "a_to": "2023-01-31",
		"b_from": "2024-05-01", "b_to": "2024-05-31",
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = env.client.CompareRanges(authContext(), request(t, map[string]interface{}{"a_from": "2024-04-01"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_ListTargetProgress(t *testing.T) {
	env := newTestEnv(t)
	env.expectLedger()
	env.targets.On("List", mock.Anything).Return([]domain.Target{
		{ID: uuid.New(), Class: domain.InstrumentStock, Period: domain.PeriodMonth, TargetAmount: decimal.NewFromInt(1000)},
	}, nil)

	resp, err := env.client.ListTargetProgress(authContext(), request(t, nil))

	require.NoError(t, err)
	items := resp.Fields["targets"].GetListValue().GetValues()
	require.Len(t, items, 1)
	item := items[0].GetStructValue()
	assert.Equal(t, "400", item.Fields["actual_profit"].GetStringValue())
	assert.Equal(t, 40.0, item.Fields["percentage"].GetNumberValue())
	assert.False(t, item.Fields["is_achieved"].GetBoolValue())
	assert.Equal(t, "600", item.Fields["remaining"].GetStringValue())
}

func TestServer_GetOverview(t *testing.T) {
	env := newTestEnv(t)
	env.expectLedger()
	env.targets.On("List", mock.Anything).Return([]domain.Target{
		{ID: uuid.New(), Class: domain.InstrumentStock, Period: domain.PeriodMonth, TargetAmount: decimal.NewFromInt(1000)},
	}, nil)

	resp, err := env.client.GetOverview(authContext(), request(t, map[string]interface{}{
		"from": "2024-05-01",
		"to":   "2024-05-31",
	}))

	require.NoError(t, err)
	current := resp.Fields["current_assets"].GetStructValue()
	assert.Equal(t, "11400", current.Fields["stock"].GetStringValue())
	assert.Equal(t, "3000", current.Fields["fund"].GetStringValue())

	summary := resp.Fields["summary"].GetStructValue()
	stock := summary.Fields["stock"].GetStructValue()
	assert.Equal(t, "400", stock.Fields["profit_loss"].GetStringValue())

	targets := resp.Fields["targets"].GetListValue().GetValues()
	require.Len(t, targets, 1)
	assert.Equal(t, 40.0, targets[0].GetStructValue().Fields["percentage"].GetNumberValue())
}

func TestServer_ListHistory(t *testing.T) {
	env := newTestEnv(t)
	env.expectLedger()

	resp, err := env.client.ListHistory(authContext(), request(t, map[string]interface{}{"class": "stock"}))

	require.NoError(t, err)
	rows := resp.Fields["rows"].GetListValue().GetValues()
	require.Len(t, rows, 3)
	newest := rows[0].GetStructValue()
	assert.Equal(t, "2024-05-15", newest.Fields["date"].GetStringValue())
	assert.Equal(t, "-100", newest.Fields["profit_loss"].GetStringValue())
	assert.Equal(t, "1000", rows[1].GetStructValue().Fields["adjustment"].GetStringValue())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"not found", fmt.Errorf("target STOCK WEEK: %w", domain.ErrNotFound), codes.NotFound},
		{"no data", comparison.ErrNoData, codes.FailedPrecondition},
		{"invalid class", domain.ErrInvalidInstrumentClass, codes.InvalidArgument},
		{"validation", errors.New("target amount must be positive"), codes.InvalidArgument},
		{"required", errors.New("snapshot date is required"), codes.InvalidArgument},
		{"status passes through", status.Error(codes.Unauthenticated, "nope"), codes.Unauthenticated},
		{"driver failure", errors.New("failed to upsert snapshot: connection refused"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}

	assert.NoError(t, mapError(nil))
}
