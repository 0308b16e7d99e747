// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six-field format with seconds.
//
// # Available Jobs
//
// 1. OutboxRelayJob - publishes committed order events to the broker, pushes
// them to websocket clients and marks them published
// 2. MarketplaceGaugeJob - refreshes the open slot gauges from the public board
//
// # Usage
//
//	jobManager := jobs.NewJobManager(outboxRelayJob, marketplaceGaugeJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed relay run leaves its events pending; the next run picks them up.
// Overlapping runs of the same job are skipped.
package jobs
