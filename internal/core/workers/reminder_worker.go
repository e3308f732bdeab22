package workers

import (
	"context"
	"log"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

// ReminderDispatcher evaluates and sends whatever is due for a user.
type ReminderDispatcher interface {
	Dispatch(ctx context.Context, userID string) ([]*domain.NotificationLogEntry, error)
}

type ReminderJob struct {
	UserID string
}

// ReminderWorker processes reminder sweeps in the background. An
// external scheduler enqueues user IDs; the worker runs the due-check
// and dispatch for each one.
type ReminderWorker struct {
	dispatcher ReminderDispatcher
	jobs       chan ReminderJob
}

func NewReminderWorker(dispatcher ReminderDispatcher) *ReminderWorker {
	return &ReminderWorker{
		dispatcher: dispatcher,
		jobs:       make(chan ReminderJob, 100),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Reminder Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Reminder Worker shutting down...")
				return
			}
		}
	}()
}

func (w *ReminderWorker) Enqueue(userID string) {
	select {
	case w.jobs <- ReminderJob{UserID: userID}:
	default:
		log.Printf("Reminder Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *ReminderWorker) processJob(ctx context.Context, job ReminderJob) {
	sent, err := w.dispatcher.Dispatch(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker Error dispatching reminders for user %s: %v", job.UserID, err)
		return
	}
	if len(sent) > 0 {
		log.Printf("Dispatched %d reminder(s) for user %s", len(sent), job.UserID)
	}
}
