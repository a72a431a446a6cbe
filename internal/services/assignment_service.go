package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// AssignmentStore persists assignments together with their deposits
type AssignmentStore interface {
	CreateWithDeposits(ctx context.Context, a *models.Assignment, deposits []models.SecurityDeposit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	UpdateStartDate(ctx context.Context, id uuid.UUID, startDate models.Date, deposits []models.SecurityDeposit) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepositLister loads the deposits of an assignment
type DepositLister interface {
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.SecurityDeposit, error)
}

// PropertyLookup resolves the property and room of an assignment
type PropertyLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
}

// FlightAgreementStore persists flight agreements
type FlightAgreementStore interface {
	CreateWithDeductions(ctx context.Context, fa *models.FlightAgreement) error
}

// StaffDirectory answers directory lookups from the cached snapshot
type StaffDirectory interface {
	Get(id string) (models.ExternalStaff, bool)
	Exists(id string) bool
	FindByExactName(name string) (models.ExternalStaff, bool)
}

// AssignmentService validates and stores tenant/room assignments
type AssignmentService struct {
	assignments AssignmentStore
	deposits    DepositLister
	properties  PropertyLookup
	flights     FlightAgreementStore
	directory   StaffDirectory
	logger      *logrus.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	assignments AssignmentStore,
	deposits DepositLister,
	properties PropertyLookup,
	flights FlightAgreementStore,
	directory StaffDirectory,
	logger *logrus.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		deposits:    deposits,
		properties:  properties,
		flights:     flights,
		directory:   directory,
		logger:      logger,
	}
}

// PreviewDeductions returns the deposit schedule for (total, start date)
func (s *AssignmentService) PreviewDeductions(req models.DeductionPreviewRequest) []models.Deduction {
	return GenerateDeductionSchedule(req.TotalAmount, req.StartDate)
}

// PreviewFlightDeductions returns the flight schedule for (total, start date)
func (s *AssignmentService) PreviewFlightDeductions(req models.FlightSchedulePreviewRequest) []models.FlightAgreementDeduction {
	return GenerateFlightDeductionSchedule(req.TotalAmount, req.StartDate)
}

// Create validates the assignment form, stores the assignment with its
// deposits, then creates the flight agreement. A flight agreement failure is
// reported as a warning.
func (s *AssignmentService) Create(ctx context.Context, req models.CreateAssignmentRequest, createdBy *uuid.UUID) (*models.CreateAssignmentResponse, error) {
	if strings.TrimSpace(req.TenantID) == "" && strings.TrimSpace(req.TenantName) != "" {
		if match, ok := s.directory.FindByExactName(req.TenantName); ok {
			req.TenantID = match.ID
		}
	}
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, models.ErrInvalidField("tenant_id", "Please select a tenant.")
	}
	if strings.TrimSpace(req.StaffID) == "" {
		return nil, models.ErrInvalidField("staff_id", "Please select a staff member.")
	}
	propertyID, err := uuid.Parse(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return nil, models.ErrInvalidField("property_id", "Please select a property.")
	}
	roomID, err := uuid.Parse(strings.TrimSpace(req.RoomID))
	if err != nil {
		return nil, models.ErrInvalidField("room_id", "Please select a room.")
	}
	if strings.TrimSpace(req.StartDate) == "" {
		return nil, models.ErrInvalidField("start_date", "Please select a start date.")
	}
	startDate, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, models.ErrInvalidField("start_date", "Please select a start date.")
	}
	if !req.Agreements.Any() {
		return nil, models.ErrInvalidField("agreements", "Please select at least one benefit agreement.")
	}

	deposits := s.prepareDeposits(req)
	if err := ValidateSecurityDeposits(req.Agreements, deposits, req.FlightAgreementAmount); err != nil {
		return nil, err
	}

	if !s.directory.Exists(req.StaffID) {
		return nil, models.ErrInvalidField("staff_id", "Selected staff member is not valid. Please select from the available list.")
	}
	staff, _ := s.directory.Get(req.StaffID)

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidField("property_id", "Please select a property.")
		}
		return nil, err
	}
	room, err := s.properties.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidField("room_id", "Please select a room.")
		}
		return nil, err
	}
	if room.PropertyID != property.ID {
		return nil, models.ErrInvalidField("room_id", "Please select a room.")
	}

	assignment := &models.Assignment{
		TenantName:              strings.TrimSpace(req.TenantName),
		TenantID:                req.TenantID,
		StaffID:                 staff.ID,
		StaffName:               strings.TrimSpace(req.StaffName),
		PropertyID:              property.ID,
		PropertyName:            property.Title,
		RoomID:                  room.ID,
		RoomName:                room.Name,
		Status:                  req.Status,
		StartDate:               startDate,
		RentAmount:              ResolveRent(property, room, req.RentAmount, req.RentOverride),
		HousingAgreement:        req.Agreements.Housing,
		TransportationAgreement: req.Agreements.Transportation,
		FlightAgreement:         req.Agreements.FlightAgreement,
		BusCardAgreement:        req.Agreements.BusCard,
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentActive
	}
	if assignment.StaffName == "" {
		assignment.StaffName = staff.FullName()
	}
	if assignment.TenantName == "" {
		if tenant, ok := s.directory.Get(req.TenantID); ok {
			assignment.TenantName = tenant.FullName()
		}
	}
	if req.EndDate != "" {
		if assignment.EndDate, err = models.ParseDate(req.EndDate); err != nil {
			return nil, models.ErrInvalidField("end_date", "Please enter a valid end date.")
		}
	}

	toStore := make([]models.SecurityDeposit, 0, len(deposits))
	for _, benefit := range req.Agreements.Enabled() {
		deposit, ok := deposits[benefit]
		if !ok || !deposit.TotalAmount.IsPositive() {
			continue
		}
		toStore = append(toStore, *deposit)
	}

	if err := s.assignments.CreateWithDeposits(ctx, assignment, toStore); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"staff_id":      assignment.StaffID,
		"deposits":      len(toStore),
	}).Info("Assignment created")

	response := &models.CreateAssignmentResponse{Assignment: assignment}

	if req.Agreements.FlightAgreement {
		fa, err := s.createFlightAgreement(ctx, assignment, staff, req, createdBy)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"assignment_id": assignment.ID,
				"error":         err.Error(),
			}).Error("Failed to create flight agreement")
			response.Warnings = append(response.Warnings,
				"Assignment saved, but the flight agreement could not be created. Please add it from the flight agreements page.")
		} else {
			response.FlightAgreement = fa
		}
	}

	return response, nil
}

// prepareDeposits returns one deposit per enabled non-flight agreement,
// applying defaults and generating any missing schedule server-side
func (s *AssignmentService) prepareDeposits(req models.CreateAssignmentRequest) map[models.BenefitType]*models.SecurityDeposit {
	deposits := make(map[models.BenefitType]*models.SecurityDeposit)
	for _, benefit := range req.Agreements.Enabled() {
		if benefit == models.BenefitFlightAgreement {
			continue
		}

		var deposit models.SecurityDeposit
		if supplied, ok := req.SecurityDeposits[benefit]; ok && supplied != nil {
			deposit = *supplied
		} else {
			deposit = models.NewSecurityDeposit(benefit)
		}
		deposit.BenefitType = benefit
		if deposit.PaymentMethod == "" {
			deposit.PaymentMethod = models.PaymentCash
		}
		if deposit.PaymentStatus == "" {
			deposit.PaymentStatus = models.PaymentPending
		}
		if len(deposit.DeductionSchedule) == 0 {
			deposit.DeductionSchedule = GenerateDeductionSchedule(deposit.TotalAmount, req.StartDate)
		}
		for i := range deposit.DeductionSchedule {
			if deposit.DeductionSchedule[i].Status == "" {
				deposit.DeductionSchedule[i].Status = models.DeductionScheduled
			}
		}
		deposits[benefit] = &deposit
	}
	return deposits
}

func (s *AssignmentService) createFlightAgreement(
	ctx context.Context,
	a *models.Assignment,
	staff models.ExternalStaff,
	req models.CreateAssignmentRequest,
	createdBy *uuid.UUID,
) (*models.FlightAgreement, error) {
	deductions := GenerateFlightDeductionSchedule(req.FlightAgreementAmount, a.StartDate.String())
	if len(deductions) == 0 {
		return nil, fmt.Errorf("no flight deductions could be scheduled")
	}

	assignmentID := a.ID
	fa := &models.FlightAgreement{
		AssignmentID:    &assignmentID,
		StaffID:         staff.ID,
		StaffName:       staff.FullName(),
		Department:      optionalString(staff.Department),
		JobTitle:        optionalString(staff.JobTitle),
		AgreementAmount: req.FlightAgreementAmount,
		DeductionAmount: deductions[0].ScheduledAmount,
		TotalDeductions: len(deductions),
		StartDate:       a.StartDate,
		CompletionDate:  deductions[len(deductions)-1].DeductionDate,
		Status:          models.FlightAgreementActive,
		Notes:           optionalString(req.FlightAgreementNotes),
		CreatedBy:       createdBy,
		Deductions:      deductions,
	}

	if err := s.flights.CreateWithDeductions(ctx, fa); err != nil {
		return nil, err
	}
	return fa, nil
}

// ResolveRent picks the assignment rent: an explicit override, else the room
// rent when set, else the property rent
func ResolveRent(property *models.Property, room *models.Room, requested decimal.Decimal, override bool) decimal.Decimal {
	if override {
		return requested
	}
	if room != nil && room.RentAmount.IsPositive() {
		return room.RentAmount
	}
	if property != nil {
		return property.RentAmount
	}
	return decimal.Zero
}

// List returns assignments matching the filter
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	return s.assignments.List(ctx, filter)
}

// Get returns an assignment with its deposits and schedules
func (s *AssignmentService) Get(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListByAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment.SecurityDeposits = deposits
	return assignment, nil
}

// UpdateStartDate moves the start date and regenerates every deposit
// schedule from scratch
func (s *AssignmentService) UpdateStartDate(ctx context.Context, id uuid.UUID, startDate string) (*models.Assignment, error) {
	date, err := models.ParseDate(startDate)
	if err != nil {
		return nil, models.ErrInvalidField("start_date", "Please select a start date.")
	}

	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range assignment.SecurityDeposits {
		deposit := &assignment.SecurityDeposits[i]
		deposit.DeductionSchedule = GenerateDeductionSchedule(deposit.TotalAmount, date.String())
	}

	if err := s.assignments.UpdateStartDate(ctx, id, date, assignment.SecurityDeposits); err != nil {
		return nil, err
	}
	assignment.StartDate = date
	return assignment, nil
}

// UpdateStatus changes an assignment status
func (s *AssignmentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) error {
	return s.assignments.UpdateStatus(ctx, id, status)
}

// Delete removes an assignment with its deposits
func (s *AssignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.assignments.Delete(ctx, id)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
