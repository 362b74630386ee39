package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpadapter "inflight/internal/adapters/in/http"
	"inflight/internal/adapters/out/postgres"
	"inflight/internal/adapters/out/postgres/testdb"
	"inflight/internal/core/application/usecases/commands"
	"inflight/internal/core/application/usecases/queries"
	"inflight/internal/core/domain/event"
	"inflight/internal/eventbus"
	"inflight/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

type messageUoWFactory func() commands.MessageUoW

func (f messageUoWFactory) Create() commands.MessageUoW { return f() }

// recordingScheduler accepts every id and remembers it.
type recordingScheduler struct {
	mu  sync.Mutex
	ids []int64
}

func (s *recordingScheduler) Schedule(_ context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	return true
}

func (s *recordingScheduler) scheduled() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ids...)
}

type ServerTestSuite struct {
	suite.Suite
	e         *echo.Echo
	bus       *eventbus.Bus
	scheduler *recordingScheduler
}

func (s *ServerTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testdb.NewSeededSQLite(s.T())
	uow := postgres.NewGormUnitOfWorkFactory(db)
	orders := orderUoWFactory(func() commands.OrderUoW { return uow.Create() })
	messages := messageUoWFactory(func() commands.MessageUoW { return uow.Create() })

	s.bus = eventbus.NewBus(16, logger)
	s.scheduler = &recordingScheduler{}

	server := httpadapter.NewServer(
		commands.NewCreateOrderCommandHandler(orders, s.bus),
		commands.NewUpdateOrderStatusCommandHandler(orders, s.bus),
		commands.NewEnqueueOutgoingMessageCommandHandler(messages, s.scheduler),
		commands.NewRetryPendingMessagesCommandHandler(messages, s.scheduler),
		queries.NewGetOrderQueryHandler(db),
		queries.NewGetActiveOrdersQueryHandler(db),
		s.bus,
		50*time.Millisecond,
		logger,
	)

	e, err := httpadapter.NewEcho(server, logger)
	s.Require().NoError(err)
	s.e = e
}

func (s *ServerTestSuite) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](s *ServerTestSuite, rec *httptest.ResponseRecorder) T {
	var v T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Healthy", rec.Body.String())
}

func (s *ServerTestSuite) TestCreateOrderIsIdempotent() {
	body := `{"seat":"12A","items":[{"itemId":7,"quantity":2}]}`
	key := map[string]string{"Idempotency-Key": "abc"}

	first := s.do(http.MethodPost, "/api/v1/orders", body, key)
	s.Require().Equal(http.StatusCreated, first.Code, first.Body.String())
	created := decode[servers.OrderCreated](s, first)
	s.Equal(int64(1), created.OrderId)

	second := s.do(http.MethodPost, "/api/v1/orders", body, key)
	s.Require().Equal(http.StatusOK, second.Code, second.Body.String())
	s.Equal(created.OrderId, decode[servers.OrderCreated](s, second).OrderId)

	got := s.do(http.MethodGet, "/api/v1/orders/1", "", nil)
	s.Require().Equal(http.StatusOK, got.Code)
	o := decode[servers.Order](s, got)
	s.Equal("12A", o.Seat)
	s.Equal("new", o.Status)
	s.Equal([]servers.OrderItem{{ItemId: 7, Name: "Headphones", Quantity: 2}}, o.Items)
}

func (s *ServerTestSuite) TestCreateOrderWithoutKeyCreatesEachTime() {
	body := `{"seat":"3C","items":[{"itemId":1}],"paymentMethod":"card"}`

	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/orders", body, nil).Code)
	rec := s.do(http.MethodPost, "/api/v1/orders", body, nil)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(int64(2), decode[servers.OrderCreated](s, rec).OrderId)
}

func (s *ServerTestSuite) TestCreateOrderUnknownItems() {
	rec := s.do(http.MethodPost, "/api/v1/orders", `{"seat":"12A","items":[{"itemId":9999},{"itemId":7},{"itemId":9998}]}`, nil)

	s.Require().Equal(http.StatusBadRequest, rec.Code)
	resp := decode[servers.Error](s, rec)
	s.Require().NotNil(resp.Details)
	s.Require().NotNil(resp.Details.InvalidItemIds)
	s.Equal([]int64{9999, 9998}, *resp.Details.InvalidItemIds)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/orders/1", "", nil).Code)
}

func (s *ServerTestSuite) TestCreateOrderReportsNonPositiveIDsAsUnknown() {
	rec := s.do(http.MethodPost, "/api/v1/orders", `{"seat":"12A","items":[{"itemId":0},{"itemId":9999},{"itemId":8888}]}`, nil)

	s.Require().Equal(http.StatusBadRequest, rec.Code)
	resp := decode[servers.Error](s, rec)
	s.Require().NotNil(resp.Details)
	s.Require().NotNil(resp.Details.InvalidItemIds)
	s.Equal([]int64{0, 9999, 8888}, *resp.Details.InvalidItemIds)
}

func (s *ServerTestSuite) TestCreateOrderInvalidPayload() {
	for name, body := range map[string]string{
		"missing seat":      `{"items":[]}`,
		"items not a list":  `{"seat":"1A","items":{}}`,
		"seat too long":     `{"seat":"12345678901","items":[]}`,
		"negative quantity": `{"seat":"1A","items":[{"itemId":1,"quantity":-1}]}`,
		"not json":          `seat=1A`,
	} {
		rec := s.do(http.MethodPost, "/api/v1/orders", body, nil)
		s.Equal(http.StatusBadRequest, rec.Code, name)
	}
}

func (s *ServerTestSuite) TestGetOrderBadID() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/orders/abc", "", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/orders/0", "", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/orders/42", "", nil).Code)
}

func (s *ServerTestSuite) TestUpdateOrderStatus() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/orders", `{"seat":"15C","items":[{"itemId":1}]}`, nil).Code)

	rec := s.do(http.MethodPatch, "/api/v1/orders/1/status", `{"status":"forming"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(servers.OrderStatus{OrderId: 1, Status: "forming"}, decode[servers.OrderStatus](s, rec))

	rec = s.do(http.MethodPatch, "/api/v1/orders/1/status", `{"status":"bad"}`, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("forming", decode[servers.OrderStatus](s, rec).Status)

	s.Equal(http.StatusNotFound, s.do(http.MethodPatch, "/api/v1/orders/77/status", `{"status":"done"}`, nil).Code)
}

func (s *ServerTestSuite) TestGetActiveOrders() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/orders", `{"seat":"1A","items":[{"itemId":1,"quantity":3}]}`, nil).Code)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/orders", `{"seat":"2B","items":[]}`, nil).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPatch, "/api/v1/orders/2/status", `{"status":"done"}`, nil).Code)

	rec := s.do(http.MethodGet, "/api/v1/orders/active", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal([]servers.ActiveOrder{{Id: 1, Seat: "1A", Status: "new", ItemCount: 3}}, decode[[]servers.ActiveOrder](s, rec))
}

func (s *ServerTestSuite) TestIntegrationEndpoints() {
	rec := s.do(http.MethodPost, "/api/v1/integration/ai", `{"prompt":"hello"}`, nil)
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())
	s.Equal(int64(1), decode[servers.Queued](s, rec).Queued)

	rec = s.do(http.MethodPost, "/api/v1/integration/sync", "", nil)
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())
	s.Equal(int64(2), decode[servers.Queued](s, rec).Queued)

	rec = s.do(http.MethodPost, "/api/v1/integration/messages", `{"target":"crew","payload":[1,2]}`, nil)
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())
	s.Equal(int64(3), decode[servers.Queued](s, rec).Queued)

	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/integration/messages", `{"payload":{}}`, nil).Code)
	s.Equal([]int64{1, 2, 3}, s.scheduler.scheduled())

	// Nothing was delivered, so every message is still pending.
	rec = s.do(http.MethodPost, "/api/v1/integration/retry-pending", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(3, decode[servers.Retried](s, rec).Retried)
}

func (s *ServerTestSuite) TestNotificationStream() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	baseline := s.bus.SubscriberCount()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/notifications", nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/event-stream", resp.Header.Get(echo.HeaderContentType))
	s.Eventually(func() bool { return s.bus.SubscriberCount() == baseline+1 }, 2*time.Second, 10*time.Millisecond)

	post, err := http.Post(srv.URL+"/api/v1/orders", echo.MIMEApplicationJSON,
		strings.NewReader(`{"seat":"12A","items":[{"itemId":7,"quantity":2}]}`))
	s.Require().NoError(err)
	_ = post.Body.Close()
	s.Require().Equal(http.StatusCreated, post.StatusCode)

	frames := make(chan string, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
				frames <- strings.TrimPrefix(line, "data: ")
			}
		}
		close(frames)
	}()

	select {
	case frame := <-frames:
		var got map[string]any
		s.Require().NoError(json.Unmarshal([]byte(frame), &got))
		s.Equal("order_created", got["type"])
		s.EqualValues(1, got["orderId"])
	case <-time.After(3 * time.Second):
		s.Fail("no event frame received")
	}

	cancel()
	s.Eventually(func() bool { return s.bus.SubscriberCount() == baseline }, 2*time.Second, 10*time.Millisecond,
		"subscription must be released when the client disconnects")
}

func (s *ServerTestSuite) TestNotificationStreamReleasesSubscribersAcrossReconnects() {
	srv := httptest.NewServer(s.e)
	defer srv.Close()

	baseline := s.bus.SubscriberCount()

	const cycles = 20
	for i := range cycles {
		ctx, cancel := context.WithCancel(context.Background())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/notifications", nil)
		s.Require().NoError(err)
		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		s.Require().Eventually(func() bool { return s.bus.SubscriberCount() == baseline+1 }, 2*time.Second, 10*time.Millisecond)

		// More events than the mailbox holds, none of them read by the client.
		for j := range 40 {
			s.bus.Publish(event.OrderCreated{ID: int64(i*100 + j + 1)})
		}

		cancel()
		_ = resp.Body.Close()
		s.Require().Eventually(func() bool { return s.bus.SubscriberCount() == baseline }, 2*time.Second, 10*time.Millisecond,
			"cycle %d left a subscriber behind", i)
	}
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
