package mongostore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dispatch/internal/adapters/out/mongostore"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var workDate = time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

type StoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *mongo.Client
	db        *mongo.Database
	store     *mongostore.Store
}

func (suite *StoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "27017")
	suite.Require().NoError(err)

	client, err := mongostore.Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	suite.Require().NoError(err)
	suite.client = client
	suite.db = client.Database("dispatch_test")
	suite.store = mongostore.NewStore(suite.db)
	suite.Require().NoError(suite.store.EnsureIndexes(ctx))
}

func (suite *StoreIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	_, err := suite.db.Collection("orders").DeleteMany(ctx, map[string]any{})
	suite.Require().NoError(err)
	_, err = suite.db.Collection("companies").DeleteMany(ctx, map[string]any{})
	suite.Require().NoError(err)
}

func (suite *StoreIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if suite.client != nil {
		suite.Require().NoError(suite.client.Disconnect(ctx))
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(ctx))
	}
}

func (suite *StoreIntegrationTestSuite) TestCommit_WritesOrderAndOutbox() {
	ctx := context.Background()
	o := suite.newOrder("customer-1", workDate)

	suite.Require().NoError(suite.commit(func(repo ports.OrderRepository) error {
		return repo.Add(ctx, o)
	}))
	suite.Equal(int64(1), o.Version())
	suite.Empty(o.UncommittedActions())

	suite.Require().NoError(suite.commit(func(repo ports.OrderRepository) error {
		loaded, err := repo.GetForUpdate(ctx, o.ID())
		if err != nil {
			return err
		}
		point, err := kernel.NewGeoPoint(59.93, 30.31)
		if err != nil {
			return err
		}
		photo, err := order.NewPhoto("https://cdn.example.com/1.jpg", workDate)
		if err != nil {
			return err
		}
		if _, err = loaded.ReportTrip("Ivan", []order.Photo{photo}, &point, workDate); err != nil {
			return err
		}
		return repo.Update(ctx, loaded)
	}))

	stored, err := suite.store.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), stored.Version())
	suite.Require().Len(stored.Evidences(), 1)
	suite.Require().NotNil(stored.Evidences()[0].Coordinates())
	suite.Len(stored.ActionLog(), 2)

	pending, err := suite.store.FetchPending(ctx, 0)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	suite.True(o.ID().IsEqual(pending[0].OrderID))

	suite.Require().NoError(suite.store.MarkPublished(ctx, []kernel.UUID{pending[0].ID}, time.Now()))
	left, err := suite.store.FetchPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(left, 1)
	suite.True(pending[1].ID.IsEqual(left[0].ID))
}

func (suite *StoreIntegrationTestSuite) TestMarkPublished_PrunesOldEvents() {
	ctx := context.Background()
	o := suite.newOrder("customer-1", workDate)
	repo := suite.store.Create().OrderRepository()
	suite.Require().NoError(repo.Add(ctx, o))
	suite.Require().NoError(o.SetMarketplaceOpen(false, "dispatcher", workDate.Add(time.Minute)))
	suite.Require().NoError(repo.Update(ctx, o))

	pending, err := suite.store.FetchPending(ctx, 0)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)

	published := time.Now().UTC()
	suite.Require().NoError(suite.store.MarkPublished(ctx, []kernel.UUID{pending[0].ID}, published))
	suite.Len(suite.outboxOf(o), 2)

	later := published.Add(mongostore.PublishedEventRetention + time.Hour)
	suite.Require().NoError(suite.store.MarkPublished(ctx, []kernel.UUID{pending[1].ID}, later))

	outbox := suite.outboxOf(o)
	suite.Require().Len(outbox, 1)
	suite.Equal(pending[1].ID.String(), outbox[0]["id"])

	left, err := suite.store.FetchPending(ctx, 0)
	suite.Require().NoError(err)
	suite.Empty(left)
}

func (suite *StoreIntegrationTestSuite) outboxOf(o *order.Order) []bson.M {
	var doc struct {
		Outbox []bson.M `bson:"outbox"`
	}
	err := suite.db.Collection("orders").FindOne(context.Background(), bson.M{"_id": o.ID().String()}).Decode(&doc)
	suite.Require().NoError(err)
	return doc.Outbox
}

func (suite *StoreIntegrationTestSuite) TestRollback_WritesNothing() {
	ctx := context.Background()
	o := suite.newOrder("customer-1", workDate)
	uow := suite.store.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.store.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Equal(int64(0), o.Version())
	suite.Require().ErrorIs(uow.Commit(ctx), mongostore.ErrNoTransaction)
}

func (suite *StoreIntegrationTestSuite) TestUpdate_StaleVersionAndUnknown() {
	ctx := context.Background()
	o := suite.newOrder("customer-1", workDate)
	repo := suite.store.Create().OrderRepository()
	suite.Require().NoError(repo.Add(ctx, o))

	first, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := repo.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.SetMarketplaceOpen(false, "dispatcher", workDate))
	suite.Require().NoError(repo.Update(ctx, first))

	suite.Require().NoError(second.SetMarketplaceOpen(false, "dispatcher", workDate))
	suite.Require().ErrorIs(repo.Update(ctx, second), errs.ErrVersionIsInvalid)

	suite.Require().ErrorIs(repo.Update(ctx, suite.newOrder("customer-1", workDate)), errs.ErrObjectNotFound)
	suite.Require().ErrorIs(repo.Add(ctx, first), errs.ErrValueIsInvalid)
}

func (suite *StoreIntegrationTestSuite) TestListAndSummaries() {
	ctx := context.Background()
	repo := suite.store.Create().OrderRepository()
	older := suite.newOrder("customer-1", workDate)
	newer := suite.newOrder("customer-1", workDate.AddDate(0, 0, 1))
	done := suite.newOrder("customer-1", workDate)
	suite.Require().NoError(done.ChangeStatus(order.Completed, "dispatcher", order.StrictPolicy, true, workDate))
	for _, o := range []*order.Order{older, newer, done, suite.newOrder("customer-2", workDate)} {
		suite.Require().NoError(repo.Add(ctx, o))
	}

	orders, err := repo.List(ctx, ports.OrderFilter{CustomerID: "customer-1", ExcludeTerminal: true})
	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)
	suite.True(newer.IsEqual(orders[0]))

	_, err = older.AcceptJob("contractor-a", "Ivanov", order.Truck, "Ivanov", workDate)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Update(ctx, older))
	byContractor, err := repo.List(ctx, ports.OrderFilter{ContractorID: "contractor-a"})
	suite.Require().NoError(err)
	suite.Require().Len(byContractor, 1)
	suite.True(older.IsEqual(byContractor[0]))
	byDriver, err := repo.List(ctx, ports.OrderFilter{ContractorID: "contractor-b", DriverName: "Ivanov"})
	suite.Require().NoError(err)
	suite.Empty(byDriver)

	summaries, err := suite.store.ListSummaries(ctx, ports.OrderFilter{Statuses: []order.Status{order.Completed}})
	suite.Require().NoError(err)
	suite.Require().Len(summaries, 1)
	suite.Equal(done.Number(), summaries[0].Number)
	suite.Equal(order.Completed.String(), summaries[0].Status)
}

func (suite *StoreIntegrationTestSuite) TestDirectory() {
	ctx := context.Background()
	directory := suite.store.Directory()
	suite.Require().NoError(directory.Put(ctx, ports.Company{ID: "c-1", Name: "SnowTrans", Kind: ports.CompanyContractor}))

	c, err := directory.Get(ctx, "c-1")
	suite.Require().NoError(err)
	suite.Equal("SnowTrans", c.Name)

	_, err = directory.Get(ctx, "c-2")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	found, err := directory.Lookup(ctx, []string{"c-1", "c-2"})
	suite.Require().NoError(err)
	suite.Len(found, 1)
}

func (suite *StoreIntegrationTestSuite) commit(fn func(repo ports.OrderRepository) error) error {
	ctx := context.Background()
	uow := suite.store.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow.OrderRepository()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *StoreIntegrationTestSuite) newOrder(customerID string, date time.Time) *order.Order {
	truck, err := order.NewAssetRequirement(order.Truck, "", 2, kernel.MustMoney("4000"), kernel.MustMoney("3500"))
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), customerID, "Nevsky 1", date,
		[]order.AssetRequirement{truck}, 10, true, "dispatcher", date)
	suite.Require().NoError(err)
	return o
}

func TestStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StoreIntegrationTestSuite))
}
