package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/broker"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/mongostore"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/companyrepo"
	"dispatch/internal/adapters/out/postgres/orderquery"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/s3"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/keylock"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	kafkaBatchTimeout = 50 * time.Millisecond
	sqlxMaxOpenConns  = 10
)

// storage is the set of ports one storage driver provides.
type storage struct {
	uowFactory commands.OrderUoWFactory
	orders     ports.OrderRepository
	summaries  ports.OrderSummaryReader
	directory  ports.Directory
	outbox     ports.OutboxStore
}

type CompositionRoot struct {
	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	locks    *keylock.KeyedMutex

	storage   storage
	publisher ports.EventPublisher
	photos    ports.PhotoStorage
	hub       *ws.Hub

	closers []func(ctx context.Context) error
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  m,
		locks:    keylock.New(),
		hub:      ws.NewHub(logger, m.WebsocketClients),
	}

	if err := c.openStorage(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	if err := c.openPublisher(); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	if err := c.openPhotoStorage(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	logger.Info("composition root ready",
		slog.String("storage", cfg.StorageDriver),
		slog.String("broker", cfg.Broker),
		slog.Bool("photoStorage", c.photos != nil),
		slog.String("statusPolicy", cfg.TransitionPolicy().String()))
	return c, nil
}

func (c *CompositionRoot) openStorage(ctx context.Context) error {
	switch c.cfg.StorageDriver {
	case StoragePostgres:
		return c.openPostgres()
	case StorageMongo:
		return c.openMongo(ctx)
	default:
		store := memory.NewStore()
		c.storage = storage{
			uowFactory: FuncOrderUoWFactory(func() commands.OrderUoW { return store.Create() }),
			orders:     store,
			summaries:  store,
			directory:  store.Directory(),
			outbox:     store,
		}
		return nil
	}
}

func (c *CompositionRoot) openPostgres() error {
	dsn := c.cfg.PostgresDSN()
	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	c.closers = append(c.closers, func(context.Context) error { return sqlDB.Close() })

	if err = orderrepo.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("failed to migrate orders: %w", err)
	}
	if err = gormDB.AutoMigrate(&companyrepo.CompanyDTO{}); err != nil {
		return fmt.Errorf("failed to migrate companies: %w", err)
	}

	readDB, err := orderquery.Connect(dsn, sqlxMaxOpenConns)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, func(context.Context) error { return readDB.Close() })

	factory := postgres.NewGormUnitOfWorkFactory(gormDB)
	c.storage = storage{
		uowFactory: FuncOrderUoWFactory(func() commands.OrderUoW { return factory.Create() }),
		orders:     factory.Create().OrderRepository(),
		summaries:  orderquery.NewSummaryReader(readDB),
		directory:  companyrepo.NewGormDirectory(gormDB),
		outbox:     orderrepo.NewGormOutboxStore(gormDB),
	}
	return nil
}

func (c *CompositionRoot) openMongo(ctx context.Context) error {
	client, err := mongostore.Connect(ctx, c.cfg.MongoURI)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, client.Disconnect)

	store := mongostore.NewStore(client.Database(c.cfg.MongoDatabase))
	if err = store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create mongo indexes: %w", err)
	}

	c.storage = storage{
		uowFactory: FuncOrderUoWFactory(func() commands.OrderUoW { return store.Create() }),
		orders:     store.Create().OrderRepository(),
		summaries:  store,
		directory:  store.Directory(),
		outbox:     store,
	}
	return nil
}

func (c *CompositionRoot) openPublisher() error {
	var (
		publisher ports.EventPublisher
		err       error
	)
	switch c.cfg.Broker {
	case BrokerKafka:
		publisher, err = broker.NewKafkaPublisher(c.cfg.KafkaBrokerList(), c.cfg.KafkaOrderEventsTopic, kafkaBatchTimeout)
	case BrokerRabbitMQ:
		publisher, err = broker.NewRabbitPublisher(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange)
	default:
		publisher = broker.NewLogPublisher(c.logger)
	}
	if err != nil {
		return err
	}

	c.publisher = publisher
	c.closers = append(c.closers, func(context.Context) error { return publisher.Close() })
	return nil
}

func (c *CompositionRoot) openPhotoStorage(ctx context.Context) error {
	if c.cfg.S3Bucket == "" {
		return nil
	}
	photos, err := s3.NewPhotoStorage(ctx, s3.Config{
		Bucket:          c.cfg.S3Bucket,
		Region:          c.cfg.S3Region,
		AccessKeyID:     c.cfg.S3AccessKeyID,
		SecretAccessKey: c.cfg.S3SecretAccessKey,
		Endpoint:        c.cfg.S3Endpoint,
		PublicDomain:    c.cfg.S3PublicDomain,
	})
	if err != nil {
		return err
	}
	c.photos = photos
	return nil
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i](ctx))
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.storage.uowFactory)
}

func (c *CompositionRoot) CreateChangeStatusCommandHandler() commands.ChangeStatusCommandHandler {
	return commands.NewChangeStatusCommandHandler(c.storage.uowFactory, c.locks, c.cfg.TransitionPolicy())
}

func (c *CompositionRoot) CreateSetMarketplaceOpenCommandHandler() commands.SetMarketplaceOpenCommandHandler {
	return commands.NewSetMarketplaceOpenCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateUpdateRequirementPricesCommandHandler() commands.UpdateRequirementPricesCommandHandler {
	return commands.NewUpdateRequirementPricesCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateSubmitBidCommandHandler() commands.SubmitBidCommandHandler {
	return commands.NewSubmitBidCommandHandler(c.storage.uowFactory, c.locks, c.logger)
}

func (c *CompositionRoot) CreateApproveBidCommandHandler() commands.ApproveBidCommandHandler {
	return commands.NewApproveBidCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateRejectBidCommandHandler() commands.RejectBidCommandHandler {
	return commands.NewRejectBidCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateWithdrawBidCommandHandler() commands.WithdrawBidCommandHandler {
	return commands.NewWithdrawBidCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateAcceptJobCommandHandler() commands.AcceptJobCommandHandler {
	return commands.NewAcceptJobCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateUpdateAssignmentStatusCommandHandler() commands.UpdateAssignmentStatusCommandHandler {
	return commands.NewUpdateAssignmentStatusCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateStartShiftCommandHandler() commands.StartShiftCommandHandler {
	return commands.NewStartShiftCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateEndShiftCommandHandler() commands.EndShiftCommandHandler {
	return commands.NewEndShiftCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateReportTripCommandHandler() commands.ReportTripCommandHandler {
	return commands.NewReportTripCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateConfirmTripCommandHandler() commands.ConfirmTripCommandHandler {
	return commands.NewConfirmTripCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateRejectTripCommandHandler() commands.RejectTripCommandHandler {
	return commands.NewRejectTripCommandHandler(c.storage.uowFactory, c.locks)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.storage.orders)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.storage.summaries)
}

func (c *CompositionRoot) CreateListMarketplaceSlotsQueryHandler() queries.ListMarketplaceSlotsQueryHandler {
	return queries.NewListMarketplaceSlotsQueryHandler(c.storage.orders, c.storage.directory)
}

func (c *CompositionRoot) CreateListAssignmentsQueryHandler() queries.ListAssignmentsQueryHandler {
	return queries.NewListAssignmentsQueryHandler(c.storage.orders)
}

func (c *CompositionRoot) CreateGetEarningsQueryHandler() queries.GetEarningsQueryHandler {
	return queries.NewGetEarningsQueryHandler(c.storage.orders, c.storage.directory)
}

// NewEcho wires every handler into the HTTP server.
func (c *CompositionRoot) NewEcho() (*echo.Echo, error) {
	server := httpin.NewServer(
		httpin.CommandHandlers{
			CreateOrder:             c.CreateCreateOrderCommandHandler(),
			ChangeStatus:            c.CreateChangeStatusCommandHandler(),
			SetMarketplaceOpen:      c.CreateSetMarketplaceOpenCommandHandler(),
			UpdateRequirementPrices: c.CreateUpdateRequirementPricesCommandHandler(),
			SubmitBid:               c.CreateSubmitBidCommandHandler(),
			ApproveBid:              c.CreateApproveBidCommandHandler(),
			RejectBid:               c.CreateRejectBidCommandHandler(),
			WithdrawBid:             c.CreateWithdrawBidCommandHandler(),
			AcceptJob:               c.CreateAcceptJobCommandHandler(),
			UpdateAssignmentStatus:  c.CreateUpdateAssignmentStatusCommandHandler(),
			StartShift:              c.CreateStartShiftCommandHandler(),
			EndShift:                c.CreateEndShiftCommandHandler(),
			ReportTrip:              c.CreateReportTripCommandHandler(),
			ConfirmTrip:             c.CreateConfirmTripCommandHandler(),
			RejectTrip:              c.CreateRejectTripCommandHandler(),
		},
		httpin.QueryHandlers{
			GetOrder:             c.CreateGetOrderQueryHandler(),
			ListOrders:           c.CreateListOrdersQueryHandler(),
			ListMarketplaceSlots: c.CreateListMarketplaceSlotsQueryHandler(),
			ListAssignments:      c.CreateListAssignmentsQueryHandler(),
			GetEarnings:          c.CreateGetEarningsQueryHandler(),
		},
		c.photos,
		c.metrics,
		c.logger,
	)

	return httpin.NewEcho(server, httpin.RouterOptions{
		Gatherer:  c.registry,
		WebSocket: c.hub.ServeWS,
	})
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	relay := jobs.NewOutboxRelayJob(
		c.storage.outbox,
		c.publisher,
		c.hub,
		c.cfg.OutboxSchedule,
		c.cfg.OutboxBatchSize,
		c.metrics,
		c.logger,
	)
	gauges := jobs.NewMarketplaceGaugeJob(c.storage.orders, c.metrics, c.cfg.GaugesSchedule, c.logger)
	return jobs.NewJobManager(relay, gauges)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
