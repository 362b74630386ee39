package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "inflight/internal/adapters/in/http"
	"inflight/internal/adapters/out/postgres"
	"inflight/internal/adapters/out/redisqueue"
	"inflight/internal/adapters/out/sender"
	"inflight/internal/core/application/usecases/commands"
	"inflight/internal/core/application/usecases/queries"
	"inflight/internal/core/ports"
	"inflight/internal/eventbus"
	"inflight/internal/jobs"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived component of the process.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	bus       *eventbus.Bus
	publisher ports.EventPublisher
	bridge    *eventbus.RedisBridge
	rdb       goredis.UniversalClient

	sender    ports.MessageSender
	scheduler ports.MessageScheduler
	delivery  jobs.Runner

	closers []func() error
}

// NewCompositionRoot wires the long-lived dependencies: event bus, optional
// Redis bridge, message sender and delivery scheduler. Close releases them.
//
// Example:
//
//	root, err := cmd.NewCompositionRoot(cfg, db, logger)
//	if err != nil {
//	    return err
//	}
//	defer root.Close()
//	e, err := root.CreateHTTPServer()
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		bus:        eventbus.NewBus(cfg.EventMailboxSize, logger),
	}
	c.publisher = c.bus
	c.closers = append(c.closers, func() error { c.bus.Close(); return nil })

	if cfg.RedisAddr != "" {
		c.rdb = goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		c.closers = append(c.closers, c.rdb.Close)
		c.bridge = eventbus.NewRedisBridge(c.bus, c.rdb, cfg.RedisChannel, logger)
		c.publisher = c.bridge
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaSender := sender.NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
		c.closers = append(c.closers, kafkaSender.Close)
		c.sender = kafkaSender
	} else {
		c.sender = sender.NewLogSender(logger)
	}

	switch cfg.DeliveryQueue {
	case DeliveryQueueRedis:
		if c.rdb == nil {
			return nil, errors.New("redis delivery queue needs REDIS_ADDR")
		}
		queue := redisqueue.New(c.rdb, c.deliver, redisqueue.Options{
			KeyPrefix: cfg.RedisQueueKey,
			Workers:   cfg.DeliveryWorkers,
		}, logger)
		c.scheduler, c.delivery = queue, queue
	default:
		pool := jobs.NewDeliveryWorkerPool(c.deliver, cfg.DeliveryWorkers, cfg.DeliveryQueueSize, logger)
		c.scheduler, c.delivery = pool, pool
	}

	return c, nil
}

// deliver is the worker function of both delivery queues.
func (c *CompositionRoot) deliver(ctx context.Context, messageID int64) error {
	cmd, err := commands.NewDeliverOutgoingMessageCommand(messageID)
	if err != nil {
		return err
	}
	handler := c.CreateDeliverOutgoingMessageCommandHandler()
	return handler.Handle(ctx, cmd)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) messageUoWFactory() commands.MessageUoWFactory {
	return FuncMessageUoWFactory(func() commands.MessageUoW {
		return c.uowFactory.Create()
	})
}

// CreateCreateOrderCommandHandler returns the order intake handler.
func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

// CreateUpdateOrderStatusCommandHandler returns the status update handler.
func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.publisher)
}

// CreateEnqueueOutgoingMessageCommandHandler returns a handler that stores a
// message and hands it to the delivery scheduler.
func (c *CompositionRoot) CreateEnqueueOutgoingMessageCommandHandler() commands.EnqueueOutgoingMessageCommandHandler {
	return commands.NewEnqueueOutgoingMessageCommandHandler(c.messageUoWFactory(), c.scheduler)
}

// CreateRetryPendingMessagesCommandHandler returns the pending sweep handler.
func (c *CompositionRoot) CreateRetryPendingMessagesCommandHandler() commands.RetryPendingMessagesCommandHandler {
	return commands.NewRetryPendingMessagesCommandHandler(c.messageUoWFactory(), c.scheduler)
}

// CreateDeliverOutgoingMessageCommandHandler returns the handler the delivery
// workers call, bound to the current sender.
func (c *CompositionRoot) CreateDeliverOutgoingMessageCommandHandler() commands.DeliverOutgoingMessageCommandHandler {
	return commands.NewDeliverOutgoingMessageCommandHandler(c.messageUoWFactory(), c.sender)
}

// CreateGetOrderQueryHandler returns the single order read model.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// CreateGetActiveOrdersQueryHandler returns the dashboard read model.
func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

// CreateJobManager wires the retry sweep and the delivery workers.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	retry := c.CreateRetryPendingMessagesCommandHandler()
	return jobs.NewJobManager(
		jobs.NewRetryPendingJob(&retry, c.cfg.RetrySchedule, c.logger),
		c.logger,
		c.delivery,
	)
}

// CreateHTTPServer builds the echo instance with every route registered.
func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	server := httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateEnqueueOutgoingMessageCommandHandler(),
		c.CreateRetryPendingMessagesCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.bus,
		c.cfg.SSEHeartbeat,
		c.logger,
	)
	return httpadapter.NewEcho(server, c.logger)
}

// BackgroundRunners returns the components that run beside the HTTP server
// for the whole process lifetime and are not owned by the JobManager.
func (c *CompositionRoot) BackgroundRunners() []func(ctx context.Context) error {
	if c.bridge == nil {
		return nil
	}
	return []func(ctx context.Context) error{c.bridge.Run}
}

// Close releases connections in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errList...)
}

// FuncOrderUoWFactory adapts a plain function to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncMessageUoWFactory adapts a plain function to commands.MessageUoWFactory.
type FuncMessageUoWFactory func() commands.MessageUoW

func (f FuncMessageUoWFactory) Create() commands.MessageUoW {
	return f()
}
