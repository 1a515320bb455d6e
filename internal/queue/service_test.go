package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookmate/internal/shared/config"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddWaiter(ctx context.Context, eventID, userID int64, score float64) error {
	args := m.Called(ctx, eventID, userID, score)
	return args.Error(0)
}

func (m *MockRepository) WaiterScore(ctx context.Context, eventID, userID int64) (float64, bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockRepository) WaiterRank(ctx context.Context, eventID, userID int64) (int64, bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockRepository) WaiterCount(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) RemoveWaiter(ctx context.Context, eventID, userID int64) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

func (m *MockRepository) AdvanceBatch(ctx context.Context, eventID int64, interval time.Duration, batchSize int, now float64) (float64, error) {
	args := m.Called(ctx, eventID, interval, batchSize, now)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) StoreToken(ctx context.Context, eventID, userID int64, token string, ttl time.Duration) error {
	args := m.Called(ctx, eventID, userID, token, ttl)
	return args.Error(0)
}

func (m *MockRepository) GetToken(ctx context.Context, eventID, userID int64) (string, bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockRepository) RecordAdmission(ctx context.Context, eventID int64, now float64) error {
	args := m.Called(ctx, eventID, now)
	return args.Error(0)
}

func (m *MockRepository) AdmissionsSince(ctx context.Context, eventID int64, from, to float64) (int64, error) {
	args := m.Called(ctx, eventID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) PreloadScripts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockEventGate struct {
	mock.Mock
}

func (m *MockEventGate) QueueGated(ctx context.Context, eventID int64) (bool, bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) IsActive(ctx context.Context, userID int64) (bool, bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		BatchSize:     50,
		BatchInterval: 10 * time.Second,
		TokenTTL:      10 * time.Minute,
	}
}

func newTestService(repo *MockRepository, events *MockEventGate, users *MockUserDirectory) Service {
	return NewService(repo, events, users, testQueueConfig())
}

func TestQueueService_Enter_EventNotFound(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(999)).Return(false, false, nil)

	status, err := svc.Enter(context.Background(), 999, 1)

	assert.Nil(t, status)
	assert.ErrorIs(t, err, ErrEventNotFound)
	events.AssertExpectations(t)
}

func TestQueueService_Enter_InactiveUser(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(true, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(false, true, nil)

	status, err := svc.Enter(context.Background(), 1, 7)

	assert.Nil(t, status)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestQueueService_Enter_NonGatedEventAdmitsImmediately(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(false, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(true, true, nil)
	repo.On("StoreToken", mock.Anything, int64(1), int64(7), mock.AnythingOfType("string"), 10*time.Minute).Return(nil)

	status, err := svc.Enter(context.Background(), 1, 7)

	assert.NoError(t, err)
	assert.NotNil(t, status)
	assert.False(t, status.InQueue)
	assert.NotEmpty(t, status.QueueToken)
	assert.Equal(t, int64(0), *status.Position)
	assert.Equal(t, int64(0), status.Total)
	assert.Equal(t, 50, status.BatchSize)
	assert.Equal(t, 10, status.BatchInterval)
	// No queue state is touched for non-gated events.
	repo.AssertNotCalled(t, "AddWaiter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "RemoveWaiter", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestQueueService_Enter_NewWaiterStillWaiting(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(true, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(true, true, nil)
	repo.On("WaiterScore", mock.Anything, int64(1), int64(7)).Return(float64(0), false, nil)
	repo.On("AddWaiter", mock.Anything, int64(1), int64(7), mock.AnythingOfType("float64")).Return(nil)
	// Cursor still behind the fresh enqueue score.
	repo.On("AdvanceBatch", mock.Anything, int64(1), 10*time.Second, 50, mock.AnythingOfType("float64")).Return(float64(0), nil)
	repo.On("WaiterCount", mock.Anything, int64(1)).Return(int64(120), nil)
	repo.On("WaiterRank", mock.Anything, int64(1), int64(7)).Return(int64(119), true, nil)
	repo.On("AdmissionsSince", mock.Anything, int64(1), mock.AnythingOfType("float64"), mock.AnythingOfType("float64")).Return(int64(0), nil)

	status, err := svc.Enter(context.Background(), 1, 7)

	assert.NoError(t, err)
	assert.NotNil(t, status)
	assert.True(t, status.InQueue)
	assert.Empty(t, status.QueueToken)
	assert.Equal(t, int64(120), *status.Position)
	assert.Equal(t, int64(120), status.Total)
	// Position 120 with batch size 50: two full batches ahead.
	assert.Equal(t, int64(20), *status.EstimatedWaitTime)
	repo.AssertExpectations(t)
}

func TestQueueService_Enter_ReleasedWaiterGetsToken(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(true, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(true, true, nil)
	// Enqueued at score 100, cursor swept to 150.
	repo.On("WaiterScore", mock.Anything, int64(1), int64(7)).Return(float64(100), true, nil)
	repo.On("AdvanceBatch", mock.Anything, int64(1), 10*time.Second, 50, mock.AnythingOfType("float64")).Return(float64(150), nil)
	repo.On("StoreToken", mock.Anything, int64(1), int64(7), mock.AnythingOfType("string"), 10*time.Minute).Return(nil)
	repo.On("RemoveWaiter", mock.Anything, int64(1), int64(7)).Return(nil)
	repo.On("RecordAdmission", mock.Anything, int64(1), mock.AnythingOfType("float64")).Return(nil)
	repo.On("WaiterCount", mock.Anything, int64(1)).Return(int64(99), nil)

	status, err := svc.Enter(context.Background(), 1, 7)

	assert.NoError(t, err)
	assert.NotNil(t, status)
	assert.False(t, status.InQueue)
	assert.NotEmpty(t, status.QueueToken)
	assert.Equal(t, int64(0), *status.Position)
	assert.Equal(t, int64(99), status.Total)
	repo.AssertExpectations(t)
}

func TestQueueService_Enter_AdmissionSurvivesHistoryFailure(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(true, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(true, true, nil)
	repo.On("WaiterScore", mock.Anything, int64(1), int64(7)).Return(float64(100), true, nil)
	repo.On("AdvanceBatch", mock.Anything, int64(1), 10*time.Second, 50, mock.AnythingOfType("float64")).Return(float64(150), nil)
	repo.On("StoreToken", mock.Anything, int64(1), int64(7), mock.AnythingOfType("string"), 10*time.Minute).Return(nil)
	repo.On("RemoveWaiter", mock.Anything, int64(1), int64(7)).Return(nil)
	repo.On("RecordAdmission", mock.Anything, int64(1), mock.AnythingOfType("float64")).Return(assert.AnError)
	repo.On("WaiterCount", mock.Anything, int64(1)).Return(int64(99), nil)

	status, err := svc.Enter(context.Background(), 1, 7)

	assert.NoError(t, err)
	assert.NotNil(t, status)
	assert.NotEmpty(t, status.QueueToken)
	repo.AssertExpectations(t)
}

func TestQueueService_Status_EnqueuesAbsentWaiter(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(true, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(true, true, nil)
	repo.On("WaiterScore", mock.Anything, int64(1), int64(7)).Return(float64(0), false, nil)
	repo.On("AddWaiter", mock.Anything, int64(1), int64(7), mock.AnythingOfType("float64")).Return(nil)
	repo.On("AdvanceBatch", mock.Anything, int64(1), 10*time.Second, 50, mock.AnythingOfType("float64")).Return(float64(0), nil)
	repo.On("WaiterCount", mock.Anything, int64(1)).Return(int64(1), nil)
	repo.On("WaiterRank", mock.Anything, int64(1), int64(7)).Return(int64(0), true, nil)
	repo.On("AdmissionsSince", mock.Anything, int64(1), mock.AnythingOfType("float64"), mock.AnythingOfType("float64")).Return(int64(0), nil)

	status, err := svc.Status(context.Background(), 1, 7)

	assert.NoError(t, err)
	assert.True(t, status.InQueue)
	assert.Equal(t, int64(1), *status.Position)
	repo.AssertCalled(t, "AddWaiter", mock.Anything, int64(1), int64(7), mock.AnythingOfType("float64"))
	repo.AssertExpectations(t)
}

func TestQueueService_Status_FallsBackToTotalWithoutRank(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	events.On("QueueGated", mock.Anything, int64(1)).Return(true, true, nil)
	users.On("IsActive", mock.Anything, int64(7)).Return(true, true, nil)
	repo.On("WaiterScore", mock.Anything, int64(1), int64(7)).Return(float64(100), true, nil)
	repo.On("AdvanceBatch", mock.Anything, int64(1), 10*time.Second, 50, mock.AnythingOfType("float64")).Return(float64(50), nil)
	repo.On("WaiterCount", mock.Anything, int64(1)).Return(int64(42), nil)
	repo.On("WaiterRank", mock.Anything, int64(1), int64(7)).Return(int64(0), false, nil)
	repo.On("AdmissionsSince", mock.Anything, int64(1), mock.AnythingOfType("float64"), mock.AnythingOfType("float64")).Return(int64(0), nil)

	status, err := svc.Status(context.Background(), 1, 7)

	assert.NoError(t, err)
	assert.True(t, status.InQueue)
	assert.Equal(t, int64(42), *status.Position)
	repo.AssertExpectations(t)
}

func TestQueueService_ValidateToken(t *testing.T) {
	repo := new(MockRepository)
	events := new(MockEventGate)
	users := new(MockUserDirectory)
	svc := newTestService(repo, events, users)

	repo.On("GetToken", mock.Anything, int64(1), int64(7)).Return("stored-token", true, nil)
	repo.On("GetToken", mock.Anything, int64(2), int64(7)).Return("", false, nil)

	t.Run("empty token is rejected without lookup", func(t *testing.T) {
		ok, err := svc.ValidateToken(context.Background(), 1, 7, "")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("matching token is accepted", func(t *testing.T) {
		ok, err := svc.ValidateToken(context.Background(), 1, 7, "stored-token")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatched token is rejected", func(t *testing.T) {
		ok, err := svc.ValidateToken(context.Background(), 1, 7, "forged-token")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired or absent token is rejected", func(t *testing.T) {
		ok, err := svc.ValidateToken(context.Background(), 2, 7, "stored-token")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEstimateWait(t *testing.T) {
	interval := 10 * time.Second

	tests := []struct {
		name     string
		position int64
		rate     float64
		want     int64
	}{
		{"first in line waits for nothing", 1, 0, 0},
		{"whole first batch waits zero", 50, 0, 0},
		{"first of second batch waits one interval", 51, 0, 10},
		{"position 120 is two batches ahead", 120, 0, 20},
		{"rate blends with schedule", 120, 2.0, 36}, // 0.6*20 + 0.4*(120/2)
		{"zero position clamps to front", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimateWait(tt.position, 50, interval, tt.rate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMintTokenProducesUniqueURLSafeTokens(t *testing.T) {
	a, err := mintToken()
	assert.NoError(t, err)
	b, err := mintToken()
	assert.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes in unpadded base64
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}
