package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetStatusTotals(ctx context.Context, filter Filter) ([]StatusTotals, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]StatusTotals)
	return rows, args.Error(1)
}

func (m *MockRepository) GetTopServiceTypes(ctx context.Context, filter Filter, limit int) ([]ServiceTypeTotals, error) {
	args := m.Called(ctx, filter, limit)
	rows, _ := args.Get(0).([]ServiceTypeTotals)
	return rows, args.Error(1)
}

func TestSummary(t *testing.T) {
	repo := new(MockRepository)
	filter := Filter{VehicleID: 42}
	repo.On("GetStatusTotals", mock.Anything, filter).Return([]StatusTotals{
		{Status: "CONFIRMED", Count: 3, Amount: 300},
		{Status: "FAILED", Count: 1, Amount: 100},
	}, nil)
	repo.On("GetTopServiceTypes", mock.Anything, filter, topServiceTypes).Return([]ServiceTypeTotals{
		{ServiceType: "oil change", Count: 4},
	}, nil)

	summary, err := NewService(repo).Summary(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(42), summary.VehicleID)
	assert.Equal(t, 4, summary.TotalBookings)
	assert.Equal(t, 3, summary.ByStatus["CONFIRMED"])
	assert.Equal(t, 0, summary.ByStatus["PENDING"])
	assert.Len(t, summary.ByStatus, 5)
	assert.InDelta(t, 300.0, summary.ConfirmedRevenue, 0.001)
	assert.InDelta(t, 100.0, summary.AverageAmount, 0.001)
	assert.InDelta(t, 0.75, summary.SuccessRate, 0.001)
	repo.AssertExpectations(t)
}

func TestSummaryEmpty(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetStatusTotals", mock.Anything, Filter{}).Return(nil, nil)
	repo.On("GetTopServiceTypes", mock.Anything, Filter{}, topServiceTypes).Return(nil, nil)

	summary, err := NewService(repo).Summary(context.Background(), Filter{})

	require.NoError(t, err)
	assert.Zero(t, summary.TotalBookings)
	assert.Zero(t, summary.AverageAmount)
	assert.Zero(t, summary.SuccessRate)
	assert.NotNil(t, summary.TopServiceTypes)
}

func TestSummaryRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetStatusTotals", mock.Anything, Filter{}).Return(nil, errors.New("db down"))

	_, err := NewService(repo).Summary(context.Background(), Filter{})

	assert.ErrorContains(t, err, "db down")
	repo.AssertNotCalled(t, "GetTopServiceTypes", mock.Anything, mock.Anything, mock.Anything)
}
