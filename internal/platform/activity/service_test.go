package activity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/pkg/logger"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, limit int) ([]activity.Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]activity.Entry), args.Error(1)
}

func TestService_RecordFillsIdentity(t *testing.T) {
	repo := new(MockRepository)
	svc := activity.NewService(repo, logger.Discard())

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.ID != uuid.Nil && !e.CreatedAt.IsZero() && e.EventType == activity.EventCaseResolved
	})).Return(nil)

	err := svc.Record(context.Background(), activity.Entry{
		Analyst:   "ana",
		EventType: activity.EventCaseResolved,
		CaseID:    null.StringFrom("7"),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_RecordRequiresEventType(t *testing.T) {
	repo := new(MockRepository)
	svc := activity.NewService(repo, logger.Discard())

	err := svc.Record(context.Background(), activity.Entry{Analyst: "ana"})
	assert.ErrorIs(t, err, activity.ErrMissingEventType)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestService_RecordQuietlySwallowsErrors(t *testing.T) {
	repo := new(MockRepository)
	svc := activity.NewService(repo, logger.Discard())
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	assert.NotPanics(t, func() {
		svc.RecordQuietly(context.Background(), activity.Entry{EventType: activity.EventSeedTriggered})
	})
	repo.AssertExpectations(t)
}

func TestService_ListClampsLimit(t *testing.T) {
	repo := new(MockRepository)
	svc := activity.NewService(repo, logger.Discard())
	repo.On("List", mock.Anything, activity.DefaultListLimit).Return([]activity.Entry{}, nil)

	_, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), 10_000)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestMemoryRepository_NewestFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	repo := activity.NewMemoryRepository(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Insert(ctx, &activity.Entry{Description: fmt.Sprintf("e%d", i)}))
	}

	entries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e5", entries[0].Description)
	assert.Equal(t, "e3", entries[2].Description)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
