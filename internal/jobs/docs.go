// Package jobs runs the scheduled background work of the marketplace engine.
//
// Jobs are scheduled with github.com/robfig/cron/v3 and share one cron
// instance owned by JobManager:
//
//	manager := jobs.NewJobManager(log)
//	if err := manager.Add(schedule, jobs.NewStockReleaseJob(handler, batchSize, log)); err != nil {
//		return err
//	}
//	manager.Start()
//	defer manager.Stop(ctx)
//
// StockReleaseJob drains the pending stock release queue: releases that could
// not be applied when an order was rejected or cancelled are retried here
// with backoff until they succeed.
package jobs
