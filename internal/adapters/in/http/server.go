package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"inflight/internal/core/application/usecases/commands"
	"inflight/internal/core/application/usecases/queries"
	"inflight/internal/core/domain/model/outbox"
	"inflight/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

const maxIntegrationPayload = 1 << 20

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
	enqueueMessageHandler    commands.EnqueueOutgoingMessageCommandHandler
	retryPendingHandler      commands.RetryPendingMessagesCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler

	notifier  Notifier
	heartbeat time.Duration
	logger    *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	enqueueMessageHandler commands.EnqueueOutgoingMessageCommandHandler,
	retryPendingHandler commands.RetryPendingMessagesCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	notifier Notifier,
	heartbeat time.Duration,
	logger *slog.Logger,
) *Server {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		enqueueMessageHandler:    enqueueMessageHandler,
		retryPendingHandler:      retryPendingHandler,
		getOrderHandler:          getOrderHandler,
		getActiveOrdersHandler:   getActiveOrdersHandler,
		notifier:                 notifier,
		heartbeat:                heartbeat,
		logger:                   logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders - creates an order, at most once
// per Idempotency-Key.
func (s *Server) CreateOrder(ctx echo.Context, params servers.CreateOrderParams) error {
	var newOrder servers.NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	lines := make([]commands.OrderLineInput, len(newOrder.Items))
	for i, item := range newOrder.Items {
		lines[i] = commands.OrderLineInput{ItemID: item.ItemId}
		if item.Quantity != nil {
			lines[i].Quantity = *item.Quantity
		}
	}

	var paymentMethod, idempotencyKey string
	if newOrder.PaymentMethod != nil {
		paymentMethod = *newOrder.PaymentMethod
	}
	if params.IdempotencyKey != nil {
		idempotencyKey = *params.IdempotencyKey
	}

	cmd, err := commands.NewCreateOrderCommand(newOrder.Seat, lines, paymentMethod, idempotencyKey)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	o, created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return ctx.JSON(status, servers.OrderCreated{OrderId: o.ID()})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID servers.OrderId) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	items := make([]servers.OrderItem, len(o.Lines))
	for i, l := range o.Lines {
		items[i] = servers.OrderItem{ItemId: l.ItemID, Name: l.ItemName, Quantity: l.Quantity}
	}

	return ctx.JSON(http.StatusOK, servers.Order{
		Id:            o.ID,
		Seat:          o.Seat,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	})
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]servers.ActiveOrder, len(orders))
	for i, o := range orders {
		response[i] = servers.ActiveOrder{Id: o.ID, Seat: o.Seat, Status: o.Status, ItemCount: o.ItemCount}
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{orderId}/status. An
// unknown status is answered with the current one.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderID servers.OrderId) error {
	var body servers.StatusUpdate
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, body.Status)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	o, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.OrderStatus{OrderId: o.ID(), Status: o.Status().String()})
}

// EnqueueAiMessage handles POST /api/v1/integration/ai.
func (s *Server) EnqueueAiMessage(ctx echo.Context) error {
	return s.enqueueRaw(ctx, outbox.TargetAI)
}

// EnqueueSyncMessage handles POST /api/v1/integration/sync.
func (s *Server) EnqueueSyncMessage(ctx echo.Context) error {
	return s.enqueueRaw(ctx, outbox.TargetGround)
}

// EnqueueMessage handles POST /api/v1/integration/messages.
func (s *Server) EnqueueMessage(ctx echo.Context) error {
	var body servers.OutgoingMessage
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	payload, err := json.Marshal(body.Payload)
	if err != nil {
		return badRequest(ctx, "Invalid payload")
	}
	return s.enqueue(ctx, body.Target, payload)
}

// RetryPendingMessages handles POST /api/v1/integration/retry-pending.
func (s *Server) RetryPendingMessages(ctx echo.Context) error {
	n, err := s.retryPendingHandler.Handle(ctx.Request().Context(), commands.NewRetryPendingMessagesCommand())
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.Retried{Retried: n})
}

// enqueueRaw stores the request body as is. An empty body becomes {}.
func (s *Server) enqueueRaw(ctx echo.Context, target string) error {
	raw, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxIntegrationPayload))
	if err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return badRequest(ctx, "Payload must be JSON")
	}
	return s.enqueue(ctx, target, raw)
}

func (s *Server) enqueue(ctx echo.Context, target string, payload []byte) error {
	cmd, err := commands.NewEnqueueOutgoingMessageCommand(target, payload)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	id, err := s.enqueueMessageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, servers.Queued{Queued: id})
}
