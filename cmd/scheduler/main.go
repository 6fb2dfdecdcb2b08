package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/segyhp/pledge-desk/internal/apiurl"
	"github.com/segyhp/pledge-desk/internal/backend"
	"github.com/segyhp/pledge-desk/internal/config"
	"github.com/segyhp/pledge-desk/internal/logging"
	"github.com/segyhp/pledge-desk/internal/repository"
	"github.com/segyhp/pledge-desk/internal/service"
	"github.com/segyhp/pledge-desk/internal/storage"
	"github.com/segyhp/pledge-desk/pkg/format"
)

const schedulerClientID = "scheduler"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.Logging)
	log.Info("Starting pledge scheduler...")

	if cfg.Scheduler.ServiceToken == "" {
		log.Warn("SCHEDULER_SERVICE_TOKEN is empty; backend calls will be unauthenticated")
	}

	backendClient := backend.NewClient(cfg.Backend.Timeout)
	pledgeService := service.NewPledgeService(
		repository.NewPledgeRepository(backendClient),
		repository.NewPaymentRepository(backendClient),
		repository.NewCustomerRepository(backendClient),
		nil,
		service.NewValidator(),
		service.NewSubmissionGuard(storage.NewMemoryLocker(), service.DefaultSubmissionTTL),
		cfg,
	)

	resolver := apiurl.Resolver{
		EnvURL:   cfg.Backend.BaseURL,
		DevPort:  cfg.BackendDevPort(),
		Fallback: cfg.Backend.FallbackURL,
	}
	sess := backend.Session{
		BaseURL:  resolver.Resolve(context.Background(), nil, nil),
		Token:    cfg.Scheduler.ServiceToken,
		ClientID: schedulerClientID,
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.SchedulerLocation()))

	// Schedule tasks
	if err := setupCronJobs(c, cfg, pledgeService, sess); err != nil {
		log.Fatalf("Error scheduling overdue pledge report: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.WithField("backend", sess.BaseURL).Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, pledgeService *service.PledgeService, sess backend.Session) error {
	_, err := c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		reportOverduePledges(pledgeService, sess, cfg.Backend.Timeout)
	})
	return err
}

// reportOverduePledges logs every ACTIVE pledge whose deadline has passed.
func reportOverduePledges(pledgeService *service.PledgeService, sess backend.Session, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	now := time.Now()
	overdue, err := pledgeService.OverduePledges(ctx, sess, now)
	if err != nil {
		log.WithError(err).Error("overdue pledge report failed")
		return
	}

	for _, p := range overdue {
		log.WithFields(log.Fields{
			"pledge_id":     p.ID,
			"customer_id":   p.CustomerID,
			"customer_name": p.CustomerName,
			"item":          p.ItemType,
			"amount":        format.FormatIndianCurrency(p.Amount, format.WithCurrency()),
			"balance":       format.FormatIndianCurrency(p.Balance(), format.WithCurrency()),
			"deadline":      p.Deadline.String(),
			"days_overdue":  int(now.Sub(p.Deadline.Time).Hours() / 24),
		}).Warn("pledge overdue")
	}

	log.WithField("count", len(overdue)).Info("overdue pledge report complete")
}
