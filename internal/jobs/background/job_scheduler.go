package background

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"invoicedash/internal/services"
)

// JobScheduler manages background jobs for the dashboard
type JobScheduler struct {
	scheduler  gocron.Scheduler
	invoiceSvc services.InvoiceServiceInterface
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(invoiceSvc services.InvoiceServiceInterface) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		invoiceSvc: invoiceSvc,
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Dashboard summary refresh - every 5 minutes, one run at a time
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboardSummary, context.Background()),
		gocron.WithName("dashboard-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create summary refresh job: %v", err)
	}
}

// refreshDashboardSummary keeps the cached dashboard card figures warm
// so the home page does not fall back to an aggregate query.
func (js *JobScheduler) refreshDashboardSummary(ctx context.Context) error {
	if err := js.invoiceSvc.RefreshDashboardSummary(ctx); err != nil {
		log.Printf("Failed to refresh dashboard summary: %v", err)
		return err
	}
	return nil
}
