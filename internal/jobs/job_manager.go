package jobs

import (
	"fmt"
)

// JobManager starts and stops the background jobs together.
type JobManager struct {
	outboxRelayJob      *OutboxRelayJob
	marketplaceGaugeJob *MarketplaceGaugeJob
}

func NewJobManager(outboxRelayJob *OutboxRelayJob, marketplaceGaugeJob *MarketplaceGaugeJob) *JobManager {
	return &JobManager{
		outboxRelayJob:      outboxRelayJob,
		marketplaceGaugeJob: marketplaceGaugeJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.marketplaceGaugeJob.Start(); err != nil {
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start marketplace gauge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.marketplaceGaugeJob.Stop()
	jm.outboxRelayJob.Stop()
}
