package commands_test

import (
	"errors"
	"testing"
	"time"

	"inflight/internal/core/application/usecases/commands"
	"inflight/internal/core/domain/event"
	"inflight/internal/core/domain/model/order"
	"inflight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func existingOrder(t *testing.T, id int64, key string) *order.Order {
	t.Helper()
	line, err := order.NewLine(7, 2)
	require.NoError(t, err)
	o, err := order.RestoreOrder(id, "12A", order.New, nil, &key, time.Now(), []order.Line{line})
	require.NoError(t, err)
	return o
}

func newCreateCmd(t *testing.T, key string, ids ...int64) commands.CreateOrderCommand {
	t.Helper()
	lines := make([]commands.OrderLineInput, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, commands.OrderLineInput{ItemID: id, Quantity: 2})
	}
	cmd, err := commands.NewCreateOrderCommand("12A", lines, "", key)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "abc", 7)

	lookupRepo := new(MockOrderRepository)
	lookupUoW := new(MockOrderUoW)
	lookupUoW.On("OrderRepository").Return(lookupRepo).Once()
	lookupRepo.On("FindByIdempotencyKey", mock.Anything, "abc").
		Return(nil, errs.NewObjectNotFoundError("idempotencyKey", "abc")).Once()

	repo := new(MockOrderRepository)
	items := new(MockItemRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("ItemRepository").Return(items).Once(),
		items.On("FindMissing", mock.Anything, []int64{7}).Return([]int64{}, nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
		publisher.On("Publish", event.OrderCreated{ID: 1}).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(lookupUoW).Once()
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, publisher)
	o, created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), o.ID())
	assert.Equal(t, order.New, o.Status())
	key, _ := o.IdempotencyKey()
	assert.Equal(t, "abc", key)

	lookupRepo.AssertExpectations(t)
	repo.AssertExpectations(t)
	items.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_WithoutKeySkipsLookup(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "", 7)

	repo := new(MockOrderRepository)
	items := new(MockItemRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("ItemRepository").Return(items).Once()
	items.On("FindMissing", mock.Anything, []int64{7}).Return(nil, nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, publisher)
	_, created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, created)
	repo.AssertNotCalled(t, "FindByIdempotencyKey", mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ExistingKey(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "abc", 9999)
	existing := existingOrder(t, 1, "abc")

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("FindByIdempotencyKey", mock.Anything, "abc").Return(existing, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockPublisher)

	h := commands.NewCreateOrderCommandHandler(factory, publisher)
	o, created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, existing, o)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InvalidReference(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "", 7, 9999, 10000)

	items := new(MockItemRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("ItemRepository").Return(items).Once()
	items.On("FindMissing", mock.Anything, []int64{7, 9999, 10000}).Return([]int64{9999, 10000}, nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockPublisher)

	h := commands.NewCreateOrderCommandHandler(factory, publisher)
	o, created, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Nil(t, o)
	assert.False(t, created)

	var refErr *errs.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, []int64{9999, 10000}, refErr.IDs)

	uow.AssertNotCalled(t, "OrderRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ConflictReturnsWinner(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "abc", 7)
	winner := existingOrder(t, 5, "abc")

	firstLookup := new(MockOrderRepository)
	firstLookupUoW := new(MockOrderUoW)
	firstLookupUoW.On("OrderRepository").Return(firstLookup).Once()
	firstLookup.On("FindByIdempotencyKey", mock.Anything, "abc").
		Return(nil, errs.NewObjectNotFoundError("idempotencyKey", "abc")).Once()

	repo := new(MockOrderRepository)
	items := new(MockItemRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("ItemRepository").Return(items).Once()
	items.On("FindMissing", mock.Anything, []int64{7}).Return(nil, nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
		Return(errs.NewConflictError("idempotencyKey", "abc")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	secondLookup := new(MockOrderRepository)
	secondLookupUoW := new(MockOrderUoW)
	secondLookupUoW.On("OrderRepository").Return(secondLookup).Once()
	secondLookup.On("FindByIdempotencyKey", mock.Anything, "abc").Return(winner, nil).Once()

	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(firstLookupUoW).Once(),
		factory.On("Create").Return(uow).Once(),
		factory.On("Create").Return(secondLookupUoW).Once(),
	)
	publisher := new(MockPublisher)

	h := commands.NewCreateOrderCommandHandler(factory, publisher)
	o, created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(5), o.ID())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
	factory.AssertExpectations(t)
	secondLookup.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ConflictWithoutKeyIsAnError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "", 7)

	repo := new(MockOrderRepository)
	items := new(MockItemRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("ItemRepository").Return(items).Once()
	items.On("FindMissing", mock.Anything, []int64{7}).Return(nil, nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(errs.NewConflictError("id", "1")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, new(MockPublisher))
	_, _, err := h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "", 7)

	repo := new(MockOrderRepository)
	items := new(MockItemRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("ItemRepository").Return(items).Once()
	items.On("FindMissing", mock.Anything, mock.Anything).Return(nil, nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(errors.New("commit error")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockPublisher)

	h := commands.NewCreateOrderCommandHandler(factory, publisher)
	_, _, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCmd(t, "", 7)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockPublisher))
	_, _, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{}
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockPublisher))
	_, _, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
