package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/tasks"
)

// ReconcileScheduler periodically enqueues a counter reconciliation task.
// The queue deduplicates and retries; the scheduler only triggers.
type ReconcileScheduler struct {
	taskClient *tasks.Client
	config     config.Reconcile

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewReconcileScheduler(taskClient *tasks.Client, cfg config.Reconcile) *ReconcileScheduler {
	return &ReconcileScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if reconciliation is enabled.
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		log.Printf("Counter reconcile scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.enqueueReconcile()
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.config.Schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Counter reconcile scheduler: started with schedule %q", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Counter reconcile scheduler: stopped")
}

func (s *ReconcileScheduler) enqueueReconcile() {
	if _, err := s.taskClient.Add(tasks.ReconcileCountersTask{}).Save(); err != nil {
		log.Printf("Counter reconcile scheduler: failed to enqueue task: %v", err)
		return
	}
	log.Printf("Counter reconcile scheduler: reconcile task enqueued")
}
