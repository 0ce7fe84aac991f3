package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"
	_ "time/tzdata" // embedded zoneinfo for SERVICE_TIMEZONE

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/rabbitmq"
	"dispatch/internal/adapters/out/zonefile"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/errs"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	uowFactory ports.UnitOfWorkFactory
	locker     *commands.SlotLocker
	calculator services.SlotCapacityCalculator
	publisher  ports.EventPublisher
	window     kernel.ServiceWindow
	closers    []func() error
}

// NewCompositionRoot opens storage and the event publisher and seeds the zone table.
// Call Close to release what it opened.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	opensAt, err := kernel.ParseSlot(cfg.ServiceOpensAt)
	if err != nil {
		return nil, fmt.Errorf("SERVICE_OPENS_AT: %w", err)
	}
	closesAt, err := kernel.ParseSlot(cfg.ServiceClosesAt)
	if err != nil {
		return nil, fmt.Errorf("SERVICE_CLOSES_AT: %w", err)
	}
	loc, err := time.LoadLocation(cfg.ServiceTimezone)
	if err != nil {
		return nil, fmt.Errorf("SERVICE_TIMEZONE: %w", err)
	}
	window, err := kernel.NewServiceWindow(opensAt, closesAt, loc)
	if err != nil {
		return nil, err
	}

	ovenCeiling := 0
	if cfg.OvenCeilingPerSlot != "" {
		ovenCeiling, err = strconv.Atoi(cfg.OvenCeilingPerSlot)
		if err != nil {
			return nil, fmt.Errorf("OVEN_CEILING_PER_SLOT: %w", err)
		}
		if ovenCeiling < 0 {
			return nil, errs.NewValueIsOutOfRangeError("OVEN_CEILING_PER_SLOT", ovenCeiling, 0, math.MaxInt)
		}
	}

	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		locker:     commands.NewSlotLocker(),
		calculator: services.NewSlotCapacityCalculator(ovenCeiling),
		window:     window,
	}

	if err := c.openStorage(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.openPublisher(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.seedZones(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	return c, nil
}

// Close releases storage and broker connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) openStorage() error {
	switch c.cfg.StorageDriver {
	case "", StorageMemory:
		c.uowFactory = memory.NewStore()
		c.logger.Info("Using in-memory storage")
		return nil
	case StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.cfg.StorageDriver)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.cfg.DBHost, c.cfg.DBPort, c.cfg.DBUser, c.cfg.DBPassword, c.cfg.DBName, c.cfg.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	c.closers = append(c.closers, sqlDB.Close)

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.logger.Info("Using postgres storage", "host", c.cfg.DBHost, "database", c.cfg.DBName)
	return nil
}

func (c *CompositionRoot) openPublisher() error {
	if c.cfg.AMQPURL == "" {
		c.publisher = rabbitmq.NopPublisher{}
		return nil
	}

	conn, err := rabbitmq.Dial(c.cfg.AMQPURL)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, conn.Close)

	publisher, err := rabbitmq.NewPublisher(conn, c.cfg.AMQPExchange)
	if err != nil {
		return err
	}
	c.publisher = publisher
	return nil
}

func (c *CompositionRoot) seedZones(ctx context.Context) error {
	if c.cfg.ZonesFile == "" {
		c.logger.Warn("ZONES_FILE is not set, zone table is left as stored")
		return nil
	}

	zones, err := zonefile.Load(c.cfg.ZonesFile)
	if err != nil {
		return err
	}

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	for _, z := range zones {
		if err := uow.ZoneRepository().Save(ctx, z); err != nil {
			return fmt.Errorf("failed to seed zone %s: %w", z.ID(), err)
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	c.logger.Info("Zone table seeded", "zones", len(zones), "file", c.cfg.ZonesFile)
	return nil
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoW() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) repositories() queries.RepositoriesFactory {
	return FuncRepositoriesFactory(func() queries.Repositories {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uow(), c.locker, c.calculator, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignUnbatchedOrdersCommandHandler() commands.AssignUnbatchedOrdersCommandHandler {
	return commands.NewAssignUnbatchedOrdersCommandHandler(c.uow(), c.CreateAssignOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateMarkOrderDeliveredCommandHandler() commands.MarkOrderDeliveredCommandHandler {
	return commands.NewMarkOrderDeliveredCommandHandler(c.uow(), c.locker)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.courierUoW())
}

func (c *CompositionRoot) CreateChangeCourierStatusCommandHandler() commands.ChangeCourierStatusCommandHandler {
	return commands.NewChangeCourierStatusCommandHandler(c.courierUoW(), c.locker)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAssignPendingBatchesCommandHandler() commands.AssignPendingBatchesCommandHandler {
	return commands.NewAssignPendingBatchesCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateStartBatchCommandHandler() commands.StartBatchCommandHandler {
	return commands.NewStartBatchCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCompleteBatchCommandHandler() commands.CompleteBatchCommandHandler {
	return commands.NewCompleteBatchCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateDeleteBatchCommandHandler() commands.DeleteBatchCommandHandler {
	return commands.NewDeleteBatchCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateRemoveOrderFromBatchCommandHandler() commands.RemoveOrderFromBatchCommandHandler {
	return commands.NewRemoveOrderFromBatchCommandHandler(c.uow(), c.locker, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateResolveZoneQueryHandler() queries.ResolveZoneQueryHandler {
	return queries.NewResolveZoneQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateGetSlotOffersQueryHandler() queries.GetSlotOffersQueryHandler {
	return queries.NewGetSlotOffersQueryHandler(c.repositories(), c.calculator, c.window)
}

func (c *CompositionRoot) CreateGetSlotCapacityQueryHandler() queries.GetSlotCapacityQueryHandler {
	return queries.NewGetSlotCapacityQueryHandler(c.repositories(), c.calculator)
}

func (c *CompositionRoot) CreateGetSlotBatchesQueryHandler() queries.GetSlotBatchesQueryHandler {
	return queries.NewGetSlotBatchesQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateGetUnbatchedOrdersQueryHandler() queries.GetUnbatchedOrdersQueryHandler {
	return queries.NewGetUnbatchedOrdersQueryHandler(c.repositories())
}

// CreateHTTPHandlers builds every use case the HTTP server exposes.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		PlaceOrder:            c.CreatePlaceOrderCommandHandler(),
		AssignOrder:           c.CreateAssignOrderCommandHandler(),
		AssignUnbatchedOrders: c.CreateAssignUnbatchedOrdersCommandHandler(),
		MarkOrderDelivered:    c.CreateMarkOrderDeliveredCommandHandler(),
		CreateCourier:         c.CreateCreateCourierCommandHandler(),
		ChangeCourierStatus:   c.CreateChangeCourierStatusCommandHandler(),
		AssignCourier:         c.CreateAssignCourierCommandHandler(),
		AssignPendingBatches:  c.CreateAssignPendingBatchesCommandHandler(),
		StartBatch:            c.CreateStartBatchCommandHandler(),
		CompleteBatch:         c.CreateCompleteBatchCommandHandler(),
		DeleteBatch:           c.CreateDeleteBatchCommandHandler(),
		RemoveOrderFromBatch:  c.CreateRemoveOrderFromBatchCommandHandler(),

		ResolveZone:        c.CreateResolveZoneQueryHandler(),
		GetSlotOffers:      c.CreateGetSlotOffersQueryHandler(),
		GetSlotCapacity:    c.CreateGetSlotCapacityQueryHandler(),
		GetSlotBatches:     c.CreateGetSlotBatchesQueryHandler(),
		GetAllCouriers:     c.CreateGetAllCouriersQueryHandler(),
		GetUnbatchedOrders: c.CreateGetUnbatchedOrdersQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateAssignPendingBatchesCommandHandler(),
		c.CreateAssignUnbatchedOrdersCommandHandler(),
		c.cfg.JobsSchedule,
		c.logger,
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncRepositoriesFactory func() queries.Repositories

func (f FuncRepositoriesFactory) Create() queries.Repositories {
	return f()
}
