package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"embroidery_shop/internal/domain/order/model"
	"embroidery_shop/internal/domain/order/notifier"
	"embroidery_shop/internal/domain/order/repository"
	"embroidery_shop/internal/pkg/worker"
	baseModel "embroidery_shop/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	if args.Error(0) == nil && order.ID == "" {
		order.ID = "generated-order-id"
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListAll(offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateFields(id string, updates map[string]interface{}) (*model.Order, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockPublisher is a mock of notifier.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event notifier.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEnqueuer is a mock of Enqueuer
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(job worker.Job) {
	m.Called(job)
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) StatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func createTestOrder(id, userID, status string) *model.Order {
	return &model.Order{
		BaseModel:     baseModel.BaseModel{ID: id},
		UserID:        userID,
		Status:        status,
		PaymentStatus: model.PaymentPending,
	}
}

func newTestService() (*MockOrderRepository, *MockPublisher, *MockEnqueuer, OrderService) {
	repo := new(MockOrderRepository)
	pub := new(MockPublisher)
	jobs := new(MockEnqueuer)
	return repo, pub, jobs, NewOrderService(repo, nil, pub, jobs)
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success creates order with items and fires notification", func(t *testing.T) {
		repo, pub, jobs, service := newTestService()

		repo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
		pub.On("Publish", ctx, mock.AnythingOfType("notifier.Event")).Return(nil)
		jobs.On("Enqueue", mock.MatchedBy(func(j worker.Job) bool {
			return j.Kind == worker.JobOrderPlaced
		})).Return()

		lines := []PlaceLine{
			{DesignID: "d1", DesignCode: "EMB-001", Quantity: 2},
			{DesignCode: "EMB-002", Quantity: 1},
		}
		order, err := service.PlaceOrder(ctx, "u1", "12 Rose Lane", lines)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPlaced, order.Status)
		assert.Equal(t, model.PaymentPending, order.PaymentStatus)
		assert.Equal(t, "COD", order.PaymentMethod)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Len(t, order.Items, 2)
		assert.Equal(t, "EMB-001", order.Items[0].DesignCode)
		assert.NotNil(t, order.Items[0].DesignID)
		assert.Nil(t, order.Items[1].DesignID)
		assert.True(t, order.Items[0].PriceAtTime.IsZero())
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
		jobs.AssertExpectations(t)
	})

	t.Run("Quantity below one normalized to one", func(t *testing.T) {
		repo, pub, jobs, service := newTestService()

		repo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)
		jobs.On("Enqueue", mock.Anything).Return()

		order, err := service.PlaceOrder(ctx, "u1", "addr", []PlaceLine{{DesignCode: "EMB-001", Quantity: 0}})

		assert.NoError(t, err)
		assert.Equal(t, 1, order.Items[0].Quantity)
	})

	t.Run("Missing user rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		order, err := service.PlaceOrder(ctx, "", "addr", []PlaceLine{{DesignCode: "EMB-001", Quantity: 1}})

		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Nil(t, order)
	})

	t.Run("Missing address rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		order, err := service.PlaceOrder(ctx, "u1", "", []PlaceLine{{DesignCode: "EMB-001", Quantity: 1}})

		assert.ErrorIs(t, err, ErrAddressRequired)
		assert.Nil(t, order)
	})

	t.Run("Empty cart rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		order, err := service.PlaceOrder(ctx, "u1", "addr", nil)

		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Nil(t, order)
	})

	t.Run("Create failure leaves no notification behind", func(t *testing.T) {
		repo, pub, jobs, service := newTestService()

		repo.On("Create", mock.AnythingOfType("*model.Order")).Return(errors.New("constraint violation"))

		order, err := service.PlaceOrder(ctx, "u1", "addr", []PlaceLine{{DesignCode: "EMB-001", Quantity: 1}})

		assert.Error(t, err)
		assert.Nil(t, order)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		jobs.AssertNotCalled(t, "Enqueue", mock.Anything)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	admin := Actor{UserID: "admin-1", IsAdmin: true}
	customer := Actor{UserID: "u1", IsAdmin: false}

	t.Run("Non-admin rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		order, err := service.UpdateStatus(ctx, "o1", model.StatusAccepted, customer)

		assert.ErrorIs(t, err, ErrAdminRequired)
		assert.Nil(t, order)
	})

	t.Run("Unknown target status rejected before load", func(t *testing.T) {
		repo, _, _, service := newTestService()

		order, err := service.UpdateStatus(ctx, "o1", "bogus", admin)

		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Nil(t, order)
		repo.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("Unknown order", func(t *testing.T) {
		repo, _, _, service := newTestService()

		repo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

		order, err := service.UpdateStatus(ctx, "missing", model.StatusAccepted, admin)

		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.Nil(t, order)
	})

	t.Run("Terminal order rejects further moves", func(t *testing.T) {
		repo, pub, _, service := newTestService()

		repo.On("GetByID", "o1").Return(createTestOrder("o1", "u1", model.StatusDelivered), nil)

		order, err := service.UpdateStatus(ctx, "o1", model.StatusShipped, admin)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Nil(t, order)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Entering accepted stamps accepted_at once", func(t *testing.T) {
		repo, pub, _, service := newTestService()

		current := createTestOrder("o1", "u1", model.StatusPlaced)
		updated := createTestOrder("o1", "u1", model.StatusAccepted)
		repo.On("GetByID", "o1").Return(current, nil)
		repo.On("UpdateFields", "o1", mock.MatchedBy(func(u map[string]interface{}) bool {
			_, hasAccepted := u["accepted_at"]
			_, hasUpdated := u["updated_at"]
			return u["status"] == model.StatusAccepted && hasAccepted && hasUpdated
		})).Return(updated, nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		got, err := service.UpdateStatus(ctx, "o1", model.StatusAccepted, admin)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusAccepted, got.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Re-entering accepted keeps original accepted_at", func(t *testing.T) {
		repo, pub, _, service := newTestService()

		stamped := time.Now().Add(-time.Hour)
		current := createTestOrder("o1", "u1", model.StatusPending)
		current.AcceptedAt = &stamped
		repo.On("GetByID", "o1").Return(current, nil)
		repo.On("UpdateFields", "o1", mock.MatchedBy(func(u map[string]interface{}) bool {
			_, hasAccepted := u["accepted_at"]
			return u["status"] == model.StatusAccepted && !hasAccepted
		})).Return(createTestOrder("o1", "u1", model.StatusAccepted), nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := service.UpdateStatus(ctx, "o1", model.StatusAccepted, admin)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Entering delivered stamps delivered_at and fires notification", func(t *testing.T) {
		repo, pub, jobs, service := newTestService()

		current := createTestOrder("o1", "u1", model.StatusShipped)
		updated := createTestOrder("o1", "u1", model.StatusDelivered)
		repo.On("GetByID", "o1").Return(current, nil)
		repo.On("UpdateFields", "o1", mock.MatchedBy(func(u map[string]interface{}) bool {
			_, hasDelivered := u["delivered_at"]
			return u["status"] == model.StatusDelivered && hasDelivered
		})).Return(updated, nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)
		jobs.On("Enqueue", mock.MatchedBy(func(j worker.Job) bool {
			return j.Kind == worker.JobOrderDelivered && j.OrderID == "o1"
		})).Return()

		got, err := service.UpdateStatus(ctx, "o1", model.StatusDelivered, admin)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDelivered, got.Status)
		jobs.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail the update", func(t *testing.T) {
		repo, pub, _, service := newTestService()

		repo.On("GetByID", "o1").Return(createTestOrder("o1", "u1", model.StatusPlaced), nil)
		repo.On("UpdateFields", "o1", mock.Anything).Return(createTestOrder("o1", "u1", model.StatusPending), nil)
		pub.On("Publish", ctx, mock.Anything).Return(errors.New("redis down"))

		got, err := service.UpdateStatus(ctx, "o1", model.StatusPending, admin)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, got.Status)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	admin := Actor{UserID: "admin-1", IsAdmin: true}

	t.Run("Non-admin rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		_, err := service.UpdatePaymentStatus(ctx, "o1", model.PaymentPaid, Actor{UserID: "u1"})

		assert.ErrorIs(t, err, ErrAdminRequired)
	})

	t.Run("Unknown payment status rejected", func(t *testing.T) {
		_, _, _, service := newTestService()

		_, err := service.UpdatePaymentStatus(ctx, "o1", "refunded", admin)

		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Success refreshes updated_at and publishes", func(t *testing.T) {
		repo, pub, _, service := newTestService()

		updated := createTestOrder("o1", "u1", model.StatusPlaced)
		updated.PaymentStatus = model.PaymentPaid
		repo.On("UpdateFields", "o1", mock.MatchedBy(func(u map[string]interface{}) bool {
			_, hasUpdated := u["updated_at"]
			return u["payment_status"] == model.PaymentPaid && hasUpdated
		})).Return(updated, nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		got, err := service.UpdatePaymentStatus(ctx, "o1", model.PaymentPaid, admin)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
		pub.AssertExpectations(t)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner can read own order", func(t *testing.T) {
		repo, _, _, service := newTestService()

		repo.On("GetByID", "o1").Return(createTestOrder("o1", "u1", model.StatusPlaced), nil)

		order, err := service.GetOrder(ctx, "o1", Actor{UserID: "u1"})

		assert.NoError(t, err)
		assert.Equal(t, "o1", order.ID)
	})

	t.Run("Other user's order hidden", func(t *testing.T) {
		repo, _, _, service := newTestService()

		repo.On("GetByID", "o1").Return(createTestOrder("o1", "u1", model.StatusPlaced), nil)

		order, err := service.GetOrder(ctx, "o1", Actor{UserID: "u2"})

		assert.ErrorIs(t, err, ErrNotOrderOwner)
		assert.Nil(t, order)
	})

	t.Run("Admin can read any order", func(t *testing.T) {
		repo, _, _, service := newTestService()

		repo.On("GetByID", "o1").Return(createTestOrder("o1", "u1", model.StatusPlaced), nil)

		order, err := service.GetOrder(ctx, "o1", Actor{UserID: "admin-1", IsAdmin: true})

		assert.NoError(t, err)
		assert.Equal(t, "o1", order.ID)
	})
}
