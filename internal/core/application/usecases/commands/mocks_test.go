package commands_test

import (
	"context"

	"inflight/internal/core/application/usecases/commands"
	"inflight/internal/core/domain/event"
	"inflight/internal/core/domain/model/order"
	"inflight/internal/core/domain/model/outbox"
	"inflight/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil && o.ID() == 0 {
		_ = o.AssignID(1)
	}
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	args := m.Called(ctx, key)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockItemRepository struct{ mock.Mock }

func (m *MockItemRepository) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	missing, _ := args.Get(0).([]int64)
	return missing, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) ItemRepository() ports.ItemRepository {
	args := m.Called()
	return args.Get(0).(ports.ItemRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockMessageRepository struct{ mock.Mock }

func (m *MockMessageRepository) Add(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil && msg.ID() == 0 {
		_ = msg.AssignID(1)
	}
	return args.Error(0)
}

func (m *MockMessageRepository) Update(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) Get(ctx context.Context, id int64) (*outbox.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*outbox.Message)
	return msg, args.Error(1)
}

func (m *MockMessageRepository) GetForDelivery(ctx context.Context, id int64) (*outbox.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*outbox.Message)
	return msg, args.Error(1)
}

func (m *MockMessageRepository) ListPendingIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type MockMessageUoW struct{ mock.Mock }

func (m *MockMessageUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMessageUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMessageUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMessageUoW) OutgoingMessageRepository() ports.OutgoingMessageRepository {
	args := m.Called()
	return args.Get(0).(ports.OutgoingMessageRepository)
}

type MockMessageUoWFactory struct{ mock.Mock }

func (m *MockMessageUoWFactory) Create() commands.MessageUoW {
	args := m.Called()
	return args.Get(0).(commands.MessageUoW)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(e event.Event) {
	m.Called(e)
}

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) Schedule(ctx context.Context, id int64) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
