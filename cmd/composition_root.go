package cmd

import (
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/application/lifecycle"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   ports.Notifier
	resolver   services.AssignmentResolver
	log        *zap.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, notifier ports.Notifier, log *zap.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notifier,
		resolver:   services.NewAssignmentResolver(),
		log:        log,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryForDeliveries() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) readers() queries.ReadersFactory {
	return FuncReadersFactory(func() queries.Readers {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), nil)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.uowFactoryForDeliveries(), nil)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(c.uowFactoryForDeliveries(), c.resolver, nil)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(c.uowFactoryForDeliveries(), nil)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uowFactoryForDeliveries(), nil)
}

func (c *CompositionRoot) CreateReportDeliveryIssueCommandHandler() commands.ReportDeliveryIssueCommandHandler {
	return commands.NewReportDeliveryIssueCommandHandler(c.uowFactoryForDeliveries(), nil)
}

func (c *CompositionRoot) CreateReassignDeliveryCommandHandler() commands.ReassignDeliveryCommandHandler {
	return commands.NewReassignDeliveryCommandHandler(c.uowFactoryForDeliveries(), nil)
}

func (c *CompositionRoot) CreateRetryStockReleasesCommandHandler() commands.RetryStockReleasesCommandHandler {
	var f commands.StockReleaseUoWFactory = FuncStockReleaseUoWFactory(func() commands.StockReleaseUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRetryStockReleasesCommandHandler(f, nil)
}

func (c *CompositionRoot) CreateFindEligibleWorkersQueryHandler() queries.FindEligibleWorkersQueryHandler {
	return queries.NewFindEligibleWorkersQueryHandler(c.readers(), c.resolver)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// CreateOrchestrator wires every use case behind the lifecycle entry points.
func (c *CompositionRoot) CreateOrchestrator() *lifecycle.Orchestrator {
	return lifecycle.NewOrchestrator(lifecycle.Handlers{
		PlaceOrder:           c.CreatePlaceOrderCommandHandler(),
		ChangeOrderStatus:    c.CreateChangeOrderStatusCommandHandler(),
		AssignDelivery:       c.CreateAssignDeliveryCommandHandler(),
		UpdateDeliveryStatus: c.CreateUpdateDeliveryStatusCommandHandler(),
		CompleteDelivery:     c.CreateCompleteDeliveryCommandHandler(),
		ReportDeliveryIssue:  c.CreateReportDeliveryIssueCommandHandler(),
		ReassignDelivery:     c.CreateReassignDeliveryCommandHandler(),
		FindEligibleWorkers:  c.CreateFindEligibleWorkersQueryHandler(),
		GetOrder:             c.CreateGetOrderQueryHandler(),
		GetDelivery:          c.CreateGetDeliveryQueryHandler(),
		ListOrders:           c.CreateListOrdersQueryHandler(),
	}, c.notifier, lifecycle.Options{
		Timeout: c.cfg.RequestTimeout,
		Logger:  c.log,
	})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	manager := jobs.NewJobManager(c.log)
	job := jobs.NewStockReleaseJob(c.CreateRetryStockReleasesCommandHandler(), c.cfg.StockReleaseBatchSize, c.log)
	if err := manager.Add(c.cfg.StockReleaseSchedule, job); err != nil {
		return nil, err
	}
	return manager, nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncStockReleaseUoWFactory func() commands.StockReleaseUoW

func (f FuncStockReleaseUoWFactory) Create() commands.StockReleaseUoW {
	return f()
}

type FuncReadersFactory func() queries.Readers

func (f FuncReadersFactory) Create() queries.Readers {
	return f()
}
