package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// jobTimeout bounds a single scheduled run
const jobTimeout = 5 * time.Minute

// dueDeductionWindowDays is how far ahead the daily deduction report looks
const dueDeductionWindowDays = 7

// CronJobs are the services the scheduler drives
type CronJobs struct {
	Directory *StaffDirectoryService
	Billing   *BillingService
	Deposits  *SecurityDepositService
	Auth      *AdminAuthService
	Audit     *AuditService
}

// CronService manages scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	jobs          CronJobs
	logger        *logrus.Logger
	directorySpec string
}

// NewCronService creates a new CronService. Specs have a leading seconds
// field: "0 0 * * * *" runs hourly.
func NewCronService(jobs CronJobs, logger *logrus.Logger, directorySpec string) *CronService {
	if directorySpec == "" {
		directorySpec = "0 0 * * * *"
	}
	return &CronService{
		cron:          cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		jobs:          jobs,
		logger:        logger,
		directorySpec: directorySpec,
	}
}

// Start schedules every job and starts the scheduler
func (s *CronService) Start() error {
	schedule := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"refresh staff directory", s.directorySpec, s.refreshDirectory},
		{"mark overdue bills", "0 0 1 * * *", s.markOverdueBills},
		{"report due deductions", "0 0 6 * * *", s.reportDueDeductions},
		{"cleanup auth tokens", "0 30 3 * * *", s.cleanupTokens},
		{"cleanup activity log", "0 0 4 * * 0", s.cleanupActivity},
	}

	for _, job := range schedule {
		if _, err := s.cron.AddFunc(job.spec, s.wrap(job.name, job.run)); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
		s.logger.WithFields(logrus.Fields{"job": job.name, "spec": job.spec}).Info("Scheduled cron job")
	}

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		started := time.Now()
		if err := run(ctx); err != nil {
			s.logger.WithFields(logrus.Fields{
				"job":   name,
				"error": err.Error(),
			}).Error("Cron job failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"job":      name,
			"duration": time.Since(started).String(),
		}).Info("Cron job finished")
	}
}

func (s *CronService) refreshDirectory(ctx context.Context) error {
	return s.jobs.Directory.Refresh(ctx)
}

func (s *CronService) markOverdueBills(ctx context.Context) error {
	_, err := s.jobs.Billing.MarkOverdue(ctx)
	return err
}

func (s *CronService) reportDueDeductions(ctx context.Context) error {
	due, err := s.jobs.Deposits.DueDeductions(ctx, models.Today(), dueDeductionWindowDays)
	if err != nil {
		return err
	}
	for _, d := range due {
		s.logger.WithFields(logrus.Fields{
			"assignment_id": d.AssignmentID,
			"tenant":        d.TenantName,
			"benefit":       d.BenefitType,
			"deduction":     d.DeductionNumber,
			"date":          d.ScheduledDate.String(),
			"amount":        d.Amount.String(),
		}).Info("Deposit deduction due")
	}
	s.logger.WithField("count", len(due)).Info("Due deduction report complete")
	return nil
}

func (s *CronService) cleanupTokens(ctx context.Context) error {
	removed, err := s.jobs.Auth.CleanupTokens(ctx)
	if err != nil {
		return err
	}
	s.logger.WithField("removed", removed).Info("Cleaned up refresh tokens")
	return nil
}

func (s *CronService) cleanupActivity(ctx context.Context) error {
	removed, err := s.jobs.Audit.Cleanup(ctx, 365*24*time.Hour)
	if err != nil {
		return err
	}
	s.logger.WithField("removed", removed).Info("Cleaned up activity log")
	return nil
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
