// internal/service/event_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventRepository is a mock implementation of repository.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, q repository.DBExecutor, event *domain.Event) error {
	args := m.Called(ctx, q, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Event, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Event, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) Update(ctx context.Context, q repository.DBExecutor, event *domain.Event) error {
	args := m.Called(ctx, q, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockEventRepository) UpsertRSVP(ctx context.Context, q repository.DBExecutor, rsvp *domain.RSVP) error {
	args := m.Called(ctx, q, rsvp)
	return args.Error(0)
}

func (m *MockEventRepository) CountGoing(ctx context.Context, q repository.DBExecutor, eventID int64) (int64, error) {
	args := m.Called(ctx, q, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) ListRSVPs(ctx context.Context, q repository.DBExecutor, eventID int64) ([]domain.RSVP, error) {
	args := m.Called(ctx, q, eventID)
	return args.Get(0).([]domain.RSVP), args.Error(1)
}

func validEventInput() EventInput {
	return EventInput{
		Title:    "Autumn Stamp Fair",
		Location: "Community Hall",
		StartsAt: time.Now().Add(14 * 24 * time.Hour),
		Capacity: 2,
	}
}

// TestCreateEvent tests event creation authorization and validation.
func TestCreateEvent(t *testing.T) {
	admin := domain.Identity{UserID: 2, Role: domain.RoleAdmin, Active: true}

	t.Run("AdminCreates", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		mockEventRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*domain.Event")).Return(nil).Once()

		event, err := service.CreateEvent(ctx, admin, validEventInput())

		assert.NoError(t, err)
		assert.Equal(t, admin.UserID, event.CreatedBy)

		mock.AssertExpectationsForObjects(t, mockEventRepo)
	})

	t.Run("NonAdminRejected", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		actor := domain.Identity{UserID: 7, Role: domain.RoleUser, Active: true}
		event, err := service.CreateEvent(ctx, actor, validEventInput())

		assert.ErrorIs(t, err, util.ErrNotAuthorized)
		assert.Nil(t, event)
		mockEventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingTitleRejected", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		input := validEventInput()
		input.Title = "   "
		event, err := service.CreateEvent(ctx, admin, input)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, event)
	})
}

// TestRSVP tests attendance recording and the capacity bound.
func TestRSVP(t *testing.T) {
	actor := domain.Identity{UserID: 7, Role: domain.RoleUser, Active: true}
	eventID := int64(5)

	boundedEvent := func() *domain.Event {
		return &domain.Event{ID: eventID, Title: "Autumn Stamp Fair", Capacity: 2}
	}

	t.Run("GoingWithinCapacity", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		mockEventRepo.On("GetByID", ctx, mock.Anything, eventID).Return(boundedEvent(), nil).Once()
		mockEventRepo.On("CountGoing", ctx, mock.Anything, eventID).Return(int64(1), nil).Once()
		mockEventRepo.On("UpsertRSVP", ctx, mock.Anything, mock.AnythingOfType("*domain.RSVP")).Return(nil).Once()

		rsvp, err := service.RSVP(ctx, actor, eventID, domain.RSVPGoing)

		assert.NoError(t, err)
		assert.Equal(t, domain.RSVPGoing, rsvp.Status)
		assert.Equal(t, actor.UserID, rsvp.UserID)

		mock.AssertExpectationsForObjects(t, mockEventRepo)
	})

	t.Run("FullEventRejectsGoing", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		mockEventRepo.On("GetByID", ctx, mock.Anything, eventID).Return(boundedEvent(), nil).Once()
		mockEventRepo.On("CountGoing", ctx, mock.Anything, eventID).Return(int64(2), nil).Once()

		rsvp, err := service.RSVP(ctx, actor, eventID, domain.RSVPGoing)

		assert.ErrorIs(t, err, util.ErrEventFull)
		assert.Nil(t, rsvp)
		mockEventRepo.AssertNotCalled(t, "UpsertRSVP", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DeclinedSkipsCapacityCheck", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		mockEventRepo.On("GetByID", ctx, mock.Anything, eventID).Return(boundedEvent(), nil).Once()
		mockEventRepo.On("UpsertRSVP", ctx, mock.Anything, mock.AnythingOfType("*domain.RSVP")).Return(nil).Once()

		rsvp, err := service.RSVP(ctx, actor, eventID, domain.RSVPDeclined)

		assert.NoError(t, err)
		assert.Equal(t, domain.RSVPDeclined, rsvp.Status)
		mockEventRepo.AssertNotCalled(t, "CountGoing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnlimitedCapacitySkipsCount", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		unlimited := &domain.Event{ID: eventID, Title: "Open House", Capacity: 0}
		mockEventRepo.On("GetByID", ctx, mock.Anything, eventID).Return(unlimited, nil).Once()
		mockEventRepo.On("UpsertRSVP", ctx, mock.Anything, mock.AnythingOfType("*domain.RSVP")).Return(nil).Once()

		rsvp, err := service.RSVP(ctx, actor, eventID, domain.RSVPGoing)

		assert.NoError(t, err)
		assert.NotNil(t, rsvp)
		mockEventRepo.AssertNotCalled(t, "CountGoing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		rsvp, err := service.RSVP(ctx, actor, eventID, domain.RSVPStatus("perhaps"))

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, rsvp)
		mockEventRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		ctx := context.Background()
		mockEventRepo := new(MockEventRepository)
		service := NewEventService(new(MockDBExecutor), mockEventRepo)

		mockEventRepo.On("GetByID", ctx, mock.Anything, eventID).Return(nil, util.ErrNotFound).Once()

		rsvp, err := service.RSVP(ctx, actor, eventID, domain.RSVPGoing)

		assert.ErrorIs(t, err, util.ErrNotFound)
		assert.Nil(t, rsvp)
	})
}
