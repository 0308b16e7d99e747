package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"

	"github.com/robfig/cron/v3"
)

// MarketplaceGaugeJob refreshes the open slot gauges from the public board.
type MarketplaceGaugeJob struct {
	orders   ports.OrderRepository
	board    services.MarketplaceBoard
	metrics  *metrics.Metrics
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewMarketplaceGaugeJob(
	orders ports.OrderRepository,
	m *metrics.Metrics,
	schedule string,
	logger *slog.Logger,
) *MarketplaceGaugeJob {
	return &MarketplaceGaugeJob{
		orders:   orders,
		board:    services.NewMarketplaceBoard(),
		metrics:  m,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "marketplace_gauge_job"),
	}
}

// Refresh reads the board once and overwrites the gauges.
func (j *MarketplaceGaugeJob) Refresh(ctx context.Context) error {
	orders, err := j.orders.List(ctx, ports.OrderFilter{ExcludeTerminal: true})
	if err != nil {
		return err
	}

	open := make(map[string]struct{})
	for _, s := range j.board.Slots(orders, "") {
		open[s.OrderID.String()] = struct{}{}
	}

	j.metrics.MarketplaceOpenSlots.Reset()
	for assetType, n := range j.board.OpenSlotCount(orders) {
		j.metrics.MarketplaceOpenSlots.WithLabelValues(assetType.String()).Set(float64(n))
	}
	j.metrics.MarketplaceOpenOrders.Set(float64(len(open)))
	return nil
}

func (j *MarketplaceGaugeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Refresh(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Marketplace gauge refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Marketplace gauge job started", "schedule", j.schedule)
	return nil
}

func (j *MarketplaceGaugeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Marketplace gauge job stopped")
}
