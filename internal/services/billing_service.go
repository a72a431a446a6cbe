package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// BillStore persists bills
type BillStore interface {
	List(ctx context.Context, filter models.BillFilter) ([]models.Bill, error)
	Create(ctx context.Context, b *models.Bill) error
	MarkPaid(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, from, to models.Date) (*models.BillingStats, error)
	MarkOverdue(ctx context.Context, today models.Date) (int64, error)
}

// BillingService raises and settles staff bills
type BillingService struct {
	bills  BillStore
	logger *logrus.Logger
	today  func() models.Date
}

// NewBillingService creates a new billing service
func NewBillingService(bills BillStore, logger *logrus.Logger) *BillingService {
	return &BillingService{
		bills:  bills,
		logger: logger,
		today:  models.Today,
	}
}

// List returns bills matching the filter
func (s *BillingService) List(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	return s.bills.List(ctx, filter)
}

// Create raises a pending bill. A bill already past due is created overdue.
func (s *BillingService) Create(ctx context.Context, req models.CreateBillRequest) (*models.Bill, error) {
	if !req.Amount.IsPositive() {
		return nil, models.ErrInvalidField("amount", "Please enter an amount greater than 0.")
	}
	dueDate, err := models.ParseDate(req.DueDate)
	if err != nil {
		return nil, models.ErrInvalidField("due_date", "Please enter a valid due date.")
	}

	bill := &models.Bill{
		StaffID:     req.StaffID,
		Amount:      req.Amount,
		Type:        req.Type,
		Status:      models.BillPending,
		DueDate:     dueDate,
		Description: req.Description,
	}
	if dueDate.Before(s.today()) {
		bill.Status = models.BillOverdue
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// MarkPaid settles a bill
func (s *BillingService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return s.bills.MarkPaid(ctx, id)
}

// Delete removes a bill
func (s *BillingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bills.Delete(ctx, id)
}

// Stats totals the bills due in month (YYYY-MM). An empty month means the
// current one.
func (s *BillingService) Stats(ctx context.Context, month string) (*models.BillingStats, error) {
	var start time.Time
	if month == "" {
		today := s.today()
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.ParseInLocation("2006-01", month, time.UTC)
		if err != nil {
			return nil, models.ErrInvalidField("month", "Month must be in YYYY-MM format.")
		}
		start = parsed
	}

	from := models.NewDate(start.Year(), start.Month(), 1)
	to := models.Date{Time: from.AddDate(0, 1, 0)}

	stats, err := s.bills.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	stats.Month = start.Format("2006-01")
	return stats, nil
}

// MarkOverdue flips every pending bill past its due date to overdue
func (s *BillingService) MarkOverdue(ctx context.Context) (int64, error) {
	changed, err := s.bills.MarkOverdue(ctx, s.today())
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.WithField("bills", changed).Info("Marked bills overdue")
	}
	return changed, nil
}
