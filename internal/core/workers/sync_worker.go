package workers

import (
	"context"
	"log"
	"time"
)

// RecordSyncer recomputes the stored daily record for one user-day
// from its raw entries.
type RecordSyncer interface {
	Sync(ctx context.Context, userID string, date time.Time) error
}

type SyncJob struct {
	UserID string
	Date   time.Time
}

// SyncWorker keeps stored daily records in step with entry writes.
// Entry mutations enqueue the affected user-day; the worker folds the
// entries back into the record off the request path.
type SyncWorker struct {
	syncer RecordSyncer
	jobs   chan SyncJob
}

func NewSyncWorker(syncer RecordSyncer) *SyncWorker {
	return &SyncWorker{
		syncer: syncer,
		jobs:   make(chan SyncJob, 100),
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Record Sync Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Record Sync Worker shutting down...")
				return
			}
		}
	}()
}

func (w *SyncWorker) Enqueue(userID string, date time.Time) {
	select {
	case w.jobs <- SyncJob{UserID: userID, Date: date}:
	default:
		log.Printf("Record Sync Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *SyncWorker) processJob(ctx context.Context, job SyncJob) {
	if err := w.syncer.Sync(ctx, job.UserID, job.Date); err != nil {
		log.Printf("Worker Error syncing record for user %s on %s: %v", job.UserID, job.Date.Format("2006-01-02"), err)
	}
}
