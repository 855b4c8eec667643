package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CounterReconciler recomputes denormalized user counters from the
// underlying rows.
type CounterReconciler interface {
	RecountAll() (int, error)
	RecountUser(userID uint) error
}

// ReconcileCountersTask repairs drift in the denormalized follower,
// following and read-book counters. With UserID set it recounts a single
// user; otherwise it sweeps every active user.
type ReconcileCountersTask struct {
	UserID uint `json:"user_id,omitempty"`
}

// Config returns the queue configuration for counter reconciliation.
func (t ReconcileCountersTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_counters",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReconcileCountersProcessor creates a processor function for ReconcileCountersTask.
func ReconcileCountersProcessor(reconciler CounterReconciler) backlite.QueueProcessor[ReconcileCountersTask] {
	return func(ctx context.Context, task ReconcileCountersTask) error {
		if reconciler == nil {
			return fmt.Errorf("counter reconciler not configured")
		}

		if task.UserID > 0 {
			if err := reconciler.RecountUser(task.UserID); err != nil {
				return fmt.Errorf("reconcile counters for user %d: %w", task.UserID, err)
			}
			log.Printf("[TASK] Reconciled counters for user %d", task.UserID)
			return nil
		}

		count, err := reconciler.RecountAll()
		if err != nil {
			return fmt.Errorf("reconcile counters: %w", err)
		}

		log.Printf("[TASK] Reconciled counters for %d users", count)
		return nil
	}
}

// NewReconcileCountersQueue creates a backlite queue for counter reconciliation.
func NewReconcileCountersQueue(reconciler CounterReconciler) backlite.Queue {
	return backlite.NewQueue(ReconcileCountersProcessor(reconciler))
}
