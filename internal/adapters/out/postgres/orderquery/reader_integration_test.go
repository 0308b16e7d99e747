package orderquery_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderquery"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type noopTracker struct{}

func (noopTracker) TrackAggregate(*order.Order, int64) {}

type SummaryReaderIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	gormDB    *gorm.DB
	reader    *orderquery.SummaryReader
	repo      *orderrepo.GormOrderRepository
}

func (suite *SummaryReaderIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	gormDB, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.Require().NoError(orderrepo.AutoMigrate(gormDB))
	suite.gormDB = gormDB
	suite.repo = orderrepo.NewGormOrderRepository(gormDB, noopTracker{})

	sqlxDB, err := orderquery.Connect(connStr, 2)
	suite.Require().NoError(err)
	suite.reader = orderquery.NewSummaryReader(sqlxDB)
}

func (suite *SummaryReaderIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.gormDB.Exec("TRUNCATE TABLE orders, outbox CASCADE").Error)
}

func (suite *SummaryReaderIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *SummaryReaderIntegrationTestSuite) TestListSummaries_FiltersAndOrders() {
	ctx := context.Background()
	first := suite.seed("customer-1", day, order.NewRequest)
	second := suite.seed("customer-1", day.AddDate(0, 0, 2), order.InProgress)
	suite.seed("customer-2", day, order.NewRequest)
	suite.seed("customer-1", day, order.Completed)

	all, err := suite.reader.ListSummaries(ctx, ports.OrderFilter{})
	suite.Require().NoError(err)
	suite.Len(all, 4)

	active, err := suite.reader.ListSummaries(ctx, ports.OrderFilter{CustomerID: "customer-1", ExcludeTerminal: true})
	suite.Require().NoError(err)
	suite.Require().Len(active, 2)
	suite.Equal(second.Number(), active[0].Number)
	suite.Equal(order.InProgress.String(), active[0].Status)
	suite.Equal(first.ID().String(), active[1].ID)
	suite.Equal(10, active[1].PlannedTrips)
	suite.True(active[1].IsBirzhaOpen)

	inProgress, err := suite.reader.ListSummaries(ctx, ports.OrderFilter{Statuses: []order.Status{order.InProgress}})
	suite.Require().NoError(err)
	suite.Len(inProgress, 1)

	second.MarkCommitted(1)
	_, err = second.AcceptJob("contractor-a", "Ivanov", order.Truck, "Ivanov", day)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, second))
	byDriver, err := suite.reader.ListSummaries(ctx, ports.OrderFilter{DriverName: "Ivanov"})
	suite.Require().NoError(err)
	suite.Require().Len(byDriver, 1)
	suite.Equal(second.Number(), byDriver[0].Number)

	to := day
	window, err := suite.reader.ListSummaries(ctx, ports.OrderFilter{WorkDateTo: &to, Limit: 2, Offset: 1})
	suite.Require().NoError(err)
	suite.Len(window, 2)
}

func (suite *SummaryReaderIntegrationTestSuite) seed(customerID string, date time.Time, status order.Status) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), customerID, "Mira 1", date, nil, 10, true, "dispatcher", date)
	suite.Require().NoError(err)
	if status != order.NewRequest {
		suite.Require().NoError(o.ChangeStatus(status, "dispatcher", order.StrictPolicy, true, date))
	}
	suite.Require().NoError(suite.repo.Add(context.Background(), o))
	return o
}

func TestSummaryReaderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SummaryReaderIntegrationTestSuite))
}
