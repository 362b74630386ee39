package queries_test

import (
	"testing"
	"time"

	"inflight/internal/adapters/out/postgres/orderrepo"
	"inflight/internal/adapters/out/postgres/testdb"
	"inflight/internal/core/application/usecases/queries"
	"inflight/internal/core/domain/model/order"
	"inflight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type QueryHandlersTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo *orderrepo.GormOrderRepository
}

func (s *QueryHandlersTestSuite) SetupTest() {
	s.db = testdb.NewSeededSQLite(s.T())
	s.repo = orderrepo.NewGormOrderRepository(s.db)
}

func (s *QueryHandlersTestSuite) addOrder(seat string, status order.Status, items ...int64) *order.Order {
	lines := make([]order.Line, 0, len(items))
	for _, id := range items {
		l, err := order.NewLine(id, 2)
		s.Require().NoError(err)
		lines = append(lines, l)
	}
	o, err := order.NewOrder(seat, lines, "", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Add(s.T().Context(), o))

	if status != order.New {
		_, err = o.ChangeStatus(status)
		s.Require().NoError(err)
		s.Require().NoError(s.repo.Update(s.T().Context(), o))
	}
	return o
}

func (s *QueryHandlersTestSuite) TestGetOrder() {
	o := s.addOrder("12A", order.New, 7, 1)
	query, err := queries.NewGetOrderQuery(o.ID())
	s.Require().NoError(err)

	resp, err := queries.NewGetOrderQueryHandler(s.db).Handle(s.T().Context(), query)

	s.Require().NoError(err)
	s.Equal(o.ID(), resp.ID)
	s.Equal("12A", resp.Seat)
	s.Equal("new", resp.Status)
	s.Nil(resp.PaymentMethod)
	s.Require().Len(resp.Lines, 2)
	s.Equal(queries.GetOrderQueryLine{ItemID: 7, ItemName: "Headphones", Quantity: 2}, resp.Lines[0])
	s.Equal("Sandwich", resp.Lines[1].ItemName)
}

func (s *QueryHandlersTestSuite) TestGetOrder_NotFound() {
	query, err := queries.NewGetOrderQuery(404)
	s.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(s.db).Handle(s.T().Context(), query)

	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *QueryHandlersTestSuite) TestGetOrder_InvalidID() {
	_, err := queries.NewGetOrderQuery(0)
	s.ErrorIs(err, errs.ErrValueIsInvalid)

	_, err = queries.NewGetOrderQueryHandler(s.db).Handle(s.T().Context(), queries.GetOrderQuery{})
	s.ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
}

func (s *QueryHandlersTestSuite) TestGetActiveOrders() {
	first := s.addOrder("1A", order.New, 7, 3)
	s.addOrder("2B", order.Done, 1)
	third := s.addOrder("3C", order.Forming)
	s.addOrder("4D", order.Cancelled, 2)

	resp, err := queries.NewGetActiveOrdersQueryHandler(s.db).Handle(s.T().Context(), queries.NewGetActiveOrdersQuery())

	s.Require().NoError(err)
	s.Equal([]queries.GetActiveOrdersQueryResponse{
		{ID: first.ID(), Seat: "1A", Status: "new", ItemCount: 4},
		{ID: third.ID(), Seat: "3C", Status: "forming", ItemCount: 0},
	}, resp)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
