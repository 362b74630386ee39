package orderrepo_test

import (
	"testing"
	"time"

	"inflight/internal/adapters/out/postgres/orderrepo"
	"inflight/internal/adapters/out/postgres/testdb"
	"inflight/internal/core/domain/model/order"
	"inflight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type OrderRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	s.db = testdb.NewSeededSQLite(s.T())
	s.repository = orderrepo.NewGormOrderRepository(s.db)
}

func (s *OrderRepositoryTestSuite) newOrder(key string, lines ...order.Line) *order.Order {
	o, err := order.NewOrder("12A", lines, "card", key, time.Now())
	s.Require().NoError(err)
	return o
}

func (s *OrderRepositoryTestSuite) line(itemID int64, qty int) order.Line {
	l, err := order.NewLine(itemID, qty)
	s.Require().NoError(err)
	return l
}

func (s *OrderRepositoryTestSuite) TestAdd_AssignsIDAndStoresLines() {
	ctx := s.T().Context()
	o := s.newOrder("abc", s.line(7, 2), s.line(3, 1))

	s.Require().NoError(s.repository.Add(ctx, o))
	s.Equal(int64(1), o.ID())

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal("12A", got.Seat())
	s.Equal(order.New, got.Status())
	s.Require().Len(got.Lines(), 2)
	s.Equal(int64(7), got.Lines()[0].ItemID())
	s.Equal(2, got.Lines()[0].Quantity())
	s.Equal(int64(3), got.Lines()[1].ItemID())

	pm, ok := got.PaymentMethod()
	s.True(ok)
	s.Equal("card", pm)
	s.WithinDuration(o.CreatedAt(), got.CreatedAt(), time.Second)
}

func (s *OrderRepositoryTestSuite) TestAdd_WithoutLines() {
	ctx := s.T().Context()
	o := s.newOrder("")

	s.Require().NoError(s.repository.Add(ctx, o))

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Empty(got.Lines())
	_, hasKey := got.IdempotencyKey()
	s.False(hasKey)
}

func (s *OrderRepositoryTestSuite) TestAdd_ManyOrdersWithoutKey() {
	ctx := s.T().Context()

	s.Require().NoError(s.repository.Add(ctx, s.newOrder("")))
	s.Require().NoError(s.repository.Add(ctx, s.newOrder("")), "NULL keys never collide")
}

func (s *OrderRepositoryTestSuite) TestAdd_DuplicateKey() {
	ctx := s.T().Context()
	s.Require().NoError(s.repository.Add(ctx, s.newOrder("abc")))

	dup := s.newOrder("abc")
	err := s.repository.Add(ctx, dup)

	s.Require().ErrorIs(err, errs.ErrConflict)
	s.Zero(dup.ID())
}

func (s *OrderRepositoryTestSuite) TestFindByIdempotencyKey() {
	ctx := s.T().Context()
	o := s.newOrder("abc", s.line(7, 2))
	s.Require().NoError(s.repository.Add(ctx, o))

	got, err := s.repository.FindByIdempotencyKey(ctx, "abc")
	s.Require().NoError(err)
	s.Equal(o.ID(), got.ID())
	s.Len(got.Lines(), 1)

	_, err = s.repository.FindByIdempotencyKey(ctx, "other")
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderRepositoryTestSuite) TestUpdate_Status() {
	ctx := s.T().Context()
	o := s.newOrder("", s.line(1, 1))
	s.Require().NoError(s.repository.Add(ctx, o))

	changed, err := o.ChangeStatus(order.Done)
	s.Require().NoError(err)
	s.True(changed)
	s.Require().NoError(s.repository.Update(ctx, o))

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.Done, got.Status())
	s.Len(got.Lines(), 1, "status update keeps lines")
}

func (s *OrderRepositoryTestSuite) TestUpdate_Missing() {
	ctx := s.T().Context()
	o, err := order.RestoreOrder(999, "1A", order.Done, nil, nil, time.Now(), nil)
	s.Require().NoError(err)

	s.ErrorIs(s.repository.Update(ctx, o), errs.ErrObjectNotFound)
}

func (s *OrderRepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repository.Get(s.T().Context(), 404)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderRepositoryTestSuite) TestDelete_CascadesLines() {
	ctx := s.T().Context()
	o := s.newOrder("", s.line(1, 1), s.line(2, 1))
	s.Require().NoError(s.repository.Add(ctx, o))

	s.Require().NoError(s.db.Exec("DELETE FROM orders WHERE id = ?", o.ID()).Error)

	var n int64
	s.Require().NoError(s.db.Model(&orderrepo.OrderLineDTO{}).Where("order_id = ?", o.ID()).Count(&n).Error)
	s.Zero(n)
}

func TestOrderRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}
