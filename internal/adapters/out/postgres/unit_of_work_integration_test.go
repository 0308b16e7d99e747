package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2026, 2, 3, 7, 30, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite runs the unit of work against a real
// PostgreSQL instance.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	outbox    ports.OutboxStore
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(orderrepo.AutoMigrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.outbox = orderrepo.NewGormOutboxStore(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, outbox CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow2.OrderRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_MarksAggregateCommitted() {
	ctx := context.Background()
	o := createTestOrder(suite)
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Equal(int64(0), o.Version(), "version moves only on commit")
	suite.Len(o.UncommittedActions(), 1)

	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(int64(1), o.Version())
	suite.Empty(o.UncommittedActions())

	fresh := suite.factory.Create()
	stored, err := fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.Number(), stored.Number())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndOutbox() {
	ctx := context.Background()
	o := createTestOrder(suite)
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Equal(int64(0), o.Version())
	suite.Len(o.UncommittedActions(), 1)

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	pending, err := suite.outbox.FetchPending(ctx, 0)
	suite.Require().NoError(err)
	suite.Empty(pending)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommandCycle_LockMutateCommit() {
	ctx := context.Background()
	o := createTestOrder(suite)
	suite.Require().NoError(suite.commit(func(repo ports.OrderRepository) error {
		return repo.Add(ctx, o)
	}))

	var assignmentID kernel.UUID
	err := suite.commit(func(repo ports.OrderRepository) error {
		loaded, err := repo.GetForUpdate(ctx, o.ID())
		if err != nil {
			return err
		}
		a, err := loaded.AcceptJob("contractor-1", "Ivan", order.Truck, "contractor-1", now)
		if err != nil {
			return err
		}
		assignmentID = a.ID()
		return repo.Update(ctx, loaded)
	})
	suite.Require().NoError(err)

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), stored.Version())
	suite.Equal(order.EquipmentApproved, stored.Status())
	a, err := stored.Assignment(assignmentID)
	suite.Require().NoError(err)
	suite.Equal("Ivan", a.DriverName())

	pending, err := suite.outbox.FetchPending(ctx, 0)
	suite.Require().NoError(err)
	suite.Len(pending, len(stored.ActionLog()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentWriters_SecondIsRejected() {
	ctx := context.Background()
	o := createTestOrder(suite)
	suite.Require().NoError(suite.commit(func(repo ports.OrderRepository) error {
		return repo.Add(ctx, o)
	}))

	stale, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.commit(func(repo ports.OrderRepository) error {
		loaded, err := repo.GetForUpdate(ctx, o.ID())
		if err != nil {
			return err
		}
		if err = loaded.SetMarketplaceOpen(false, "dispatcher", now); err != nil {
			return err
		}
		return repo.Update(ctx, loaded)
	}))

	err = suite.commit(func(repo ports.OrderRepository) error {
		if err := stale.SetMarketplaceOpen(true, "dispatcher", now); err != nil {
			return err
		}
		return repo.Update(ctx, stale)
	})

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.False(stored.IsBirzhaOpen())
}

func (suite *UnitOfWorkIntegrationTestSuite) commit(fn func(repo ports.OrderRepository) error) error {
	ctx := context.Background()
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow.OrderRepository()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func createTestOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	truck, err := order.NewAssetRequirement(order.Truck, "", 1, kernel.MustMoney("4000"), kernel.MustMoney("3500"))
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), "customer-1", "Lenina 5", now,
		[]order.AssetRequirement{truck}, 5, true, "dispatcher", now)
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
