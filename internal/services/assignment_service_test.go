package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssignmentStore struct {
	created      *models.Assignment
	deposits     []models.SecurityDeposit
	createErr    error
	existing     *models.Assignment
	startDate    models.Date
	rescheduled  []models.SecurityDeposit
	updatedState models.AssignmentStatus
}

func (f *fakeAssignmentStore) CreateWithDeposits(_ context.Context, a *models.Assignment, deposits []models.SecurityDeposit) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = uuid.New()
	a.SecurityDeposits = deposits
	f.created = a
	f.deposits = deposits
	return nil
}

func (f *fakeAssignmentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	if f.existing == nil || f.existing.ID != id {
		return nil, models.ErrNotFound
	}
	copied := *f.existing
	return &copied, nil
}

func (f *fakeAssignmentStore) List(context.Context, models.AssignmentFilter) ([]models.Assignment, error) {
	return nil, nil
}

func (f *fakeAssignmentStore) UpdateStartDate(_ context.Context, _ uuid.UUID, d models.Date, deposits []models.SecurityDeposit) error {
	f.startDate = d
	f.rescheduled = deposits
	return nil
}

func (f *fakeAssignmentStore) UpdateStatus(_ context.Context, _ uuid.UUID, status models.AssignmentStatus) error {
	f.updatedState = status
	return nil
}

func (f *fakeAssignmentStore) Delete(context.Context, uuid.UUID) error { return nil }

type fakeDepositLister struct {
	deposits []models.SecurityDeposit
}

func (f *fakeDepositLister) ListByAssignment(context.Context, uuid.UUID) ([]models.SecurityDeposit, error) {
	return f.deposits, nil
}

type fakeProperties struct {
	property *models.Property
	room     *models.Room
}

func (f *fakeProperties) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	if f.property == nil || f.property.ID != id {
		return nil, models.ErrNotFound
	}
	return f.property, nil
}

func (f *fakeProperties) GetRoom(_ context.Context, id uuid.UUID) (*models.Room, error) {
	if f.room == nil || f.room.ID != id {
		return nil, models.ErrNotFound
	}
	return f.room, nil
}

type fakeFlightStore struct {
	created *models.FlightAgreement
	err     error
}

func (f *fakeFlightStore) CreateWithDeductions(_ context.Context, fa *models.FlightAgreement) error {
	if f.err != nil {
		return f.err
	}
	fa.ID = uuid.New()
	f.created = fa
	return nil
}

type fakeDirectory struct {
	records []models.ExternalStaff
}

func (f *fakeDirectory) Get(id string) (models.ExternalStaff, bool) {
	for _, r := range f.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.ExternalStaff{}, false
}

func (f *fakeDirectory) Exists(id string) bool {
	_, ok := f.Get(id)
	return ok
}

func (f *fakeDirectory) FindByExactName(name string) (models.ExternalStaff, bool) {
	for _, r := range f.records {
		if r.FullName() == name {
			return r, true
		}
	}
	return models.ExternalStaff{}, false
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type assignmentFixture struct {
	service     *AssignmentService
	assignments *fakeAssignmentStore
	flights     *fakeFlightStore
	property    *models.Property
	room        *models.Room
}

func newAssignmentFixture() *assignmentFixture {
	property := &models.Property{ID: uuid.New(), Title: "Harbor House", RentAmount: decimal.NewFromInt(800)}
	room := &models.Room{ID: uuid.New(), PropertyID: property.ID, Name: "2B", RentAmount: decimal.Zero}

	f := &assignmentFixture{
		assignments: &fakeAssignmentStore{},
		flights:     &fakeFlightStore{},
		property:    property,
		room:        room,
	}
	directory := &fakeDirectory{records: []models.ExternalStaff{
		{ID: "42", FirstName: "Maria", LastName: "Lopez", Department: "Housekeeping", JobTitle: "Attendant"},
	}}
	f.service = NewAssignmentService(
		f.assignments,
		&fakeDepositLister{},
		&fakeProperties{property: property, room: room},
		f.flights,
		directory,
		quietLogger(),
	)
	return f
}

func (f *assignmentFixture) validRequest() models.CreateAssignmentRequest {
	return models.CreateAssignmentRequest{
		TenantID:   "42",
		StaffID:    "42",
		PropertyID: f.property.ID.String(),
		RoomID:     f.room.ID.String(),
		StartDate:  "2024-01-01",
		Agreements: models.AssignmentAgreements{Housing: true},
	}
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "expected a validation error, got %v", err)
	return ve.Message
}

func TestAssignmentService_CreateValidationOrder(t *testing.T) {
	f := newAssignmentFixture()

	tests := []struct {
		name   string
		mutate func(r *models.CreateAssignmentRequest)
		want   string
	}{
		{"tenant", func(r *models.CreateAssignmentRequest) { r.TenantID = ""; r.StaffID = "" }, "Please select a tenant."},
		{"staff", func(r *models.CreateAssignmentRequest) { r.StaffID = ""; r.PropertyID = "" }, "Please select a staff member."},
		{"property", func(r *models.CreateAssignmentRequest) { r.PropertyID = ""; r.RoomID = "" }, "Please select a property."},
		{"room", func(r *models.CreateAssignmentRequest) { r.RoomID = "" }, "Please select a room."},
		{"start date", func(r *models.CreateAssignmentRequest) { r.StartDate = "" }, "Please select a start date."},
		{"agreements", func(r *models.CreateAssignmentRequest) { r.Agreements = models.AssignmentAgreements{} }, "Please select at least one benefit agreement."},
		{"transportation deposit", func(r *models.CreateAssignmentRequest) {
			r.Agreements.Transportation = true
		}, "Please enter a security deposit amount for the Transportation agreement."},
		{"flight amount", func(r *models.CreateAssignmentRequest) {
			r.Agreements.FlightAgreement = true
		}, "Please enter a flight agreement amount greater than 0."},
		{"unreconciled schedule", func(r *models.CreateAssignmentRequest) {
			deposit := models.NewSecurityDeposit(models.BenefitHousing)
			deposit.TotalAmount = decimal.NewFromInt(100)
			deposit.DeductionSchedule = []models.Deduction{{DeductionNumber: 1, Amount: decimal.RequireFromString("99.5")}}
			r.SecurityDeposits = map[models.BenefitType]*models.SecurityDeposit{models.BenefitHousing: &deposit}
		}, "Housing deduction schedule total must equal the security deposit amount."},
		{"unknown staff", func(r *models.CreateAssignmentRequest) { r.StaffID = "999" },
			"Selected staff member is not valid. Please select from the available list."},
		{"room outside property", func(r *models.CreateAssignmentRequest) { r.RoomID = uuid.New().String() }, "Please select a room."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.validRequest()
			tt.mutate(&req)

			_, err := f.service.Create(context.Background(), req, nil)
			assert.Equal(t, tt.want, validationMessage(t, err))
			assert.Nil(t, f.assignments.created)
		})
	}
}

func TestAssignmentService_Create(t *testing.T) {
	t.Run("Generates default housing deposit schedule", func(t *testing.T) {
		f := newAssignmentFixture()

		resp, err := f.service.Create(context.Background(), f.validRequest(), nil)
		require.NoError(t, err)
		assert.Empty(t, resp.Warnings)

		a := f.assignments.created
		require.NotNil(t, a)
		assert.Equal(t, models.AssignmentActive, a.Status)
		assert.Equal(t, "Maria Lopez", a.TenantName)
		assert.Equal(t, "Harbor House", a.PropertyName)
		assert.Equal(t, "800", a.RentAmount.String())

		require.Len(t, f.assignments.deposits, 1)
		deposit := f.assignments.deposits[0]
		assert.Equal(t, "500", deposit.TotalAmount.String())
		require.Len(t, deposit.DeductionSchedule, 4)
		assert.Equal(t, "2024-01-15", deposit.DeductionSchedule[0].ScheduledDate.String())
		assert.Equal(t, "125", deposit.DeductionSchedule[0].Amount.String())
	})

	t.Run("Resolves typed tenant name", func(t *testing.T) {
		f := newAssignmentFixture()
		req := f.validRequest()
		req.TenantID = ""
		req.TenantName = "Maria Lopez"

		_, err := f.service.Create(context.Background(), req, nil)
		require.NoError(t, err)
		assert.Equal(t, "42", f.assignments.created.TenantID)
	})

	t.Run("Room rent wins over property rent", func(t *testing.T) {
		f := newAssignmentFixture()
		f.room.RentAmount = decimal.NewFromInt(650)

		_, err := f.service.Create(context.Background(), f.validRequest(), nil)
		require.NoError(t, err)
		assert.Equal(t, "650", f.assignments.created.RentAmount.String())
	})

	t.Run("Creates flight agreement after the assignment", func(t *testing.T) {
		f := newAssignmentFixture()
		req := f.validRequest()
		req.Agreements.FlightAgreement = true
		req.FlightAgreementAmount = decimal.NewFromInt(300)

		resp, err := f.service.Create(context.Background(), req, nil)
		require.NoError(t, err)
		require.NotNil(t, resp.FlightAgreement)

		fa := f.flights.created
		assert.Equal(t, f.assignments.created.ID, *fa.AssignmentID)
		assert.Equal(t, "100", fa.DeductionAmount.String())
		assert.Equal(t, 3, fa.TotalDeductions)
		assert.Equal(t, "2024-01-07", fa.Deductions[0].DeductionDate.String())
		assert.Equal(t, "2024-02-07", fa.CompletionDate.String())
		require.NotNil(t, fa.Department)
		assert.Equal(t, "Housekeeping", *fa.Department)

		// flight agreements never get a security deposit
		assert.Len(t, f.assignments.deposits, 1)
	})

	t.Run("Flight agreement failure is a warning", func(t *testing.T) {
		f := newAssignmentFixture()
		f.flights.err = errors.New("connection refused")
		req := f.validRequest()
		req.Agreements.FlightAgreement = true
		req.FlightAgreementAmount = decimal.NewFromInt(300)

		resp, err := f.service.Create(context.Background(), req, nil)
		require.NoError(t, err)
		assert.NotNil(t, resp.Assignment)
		assert.Nil(t, resp.FlightAgreement)
		assert.Len(t, resp.Warnings, 1)
	})

	t.Run("Store failure is returned", func(t *testing.T) {
		f := newAssignmentFixture()
		f.assignments.createErr = errors.New("deadlock detected")

		_, err := f.service.Create(context.Background(), f.validRequest(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save assignment")
	})
}

func TestAssignmentService_UpdateStartDate(t *testing.T) {
	f := newAssignmentFixture()
	id := uuid.New()
	f.assignments.existing = &models.Assignment{ID: id}

	deposit := models.NewSecurityDeposit(models.BenefitHousing)
	deposit.ID = uuid.New()
	deposit.DeductionSchedule = GenerateDeductionSchedule(deposit.TotalAmount, "2024-01-01")
	deposit.DeductionSchedule[0].Status = models.DeductionDeducted
	f.service.deposits = &fakeDepositLister{deposits: []models.SecurityDeposit{deposit}}

	updated, err := f.service.UpdateStartDate(context.Background(), id, "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", updated.StartDate.String())

	require.Len(t, f.assignments.rescheduled, 1)
	schedule := f.assignments.rescheduled[0].DeductionSchedule
	require.Len(t, schedule, 4)
	assert.Equal(t, "2024-02-15", schedule[0].ScheduledDate.String())
	assert.Equal(t, models.DeductionScheduled, schedule[0].Status)

	_, err = f.service.UpdateStartDate(context.Background(), id, "02/01/2024")
	assert.True(t, models.IsValidationError(err))
}

func TestResolveRent(t *testing.T) {
	property := &models.Property{RentAmount: decimal.NewFromInt(800)}
	room := &models.Room{RentAmount: decimal.NewFromInt(650)}
	noRent := &models.Room{}

	assert.Equal(t, "650", ResolveRent(property, room, decimal.Zero, false).String())
	assert.Equal(t, "800", ResolveRent(property, noRent, decimal.Zero, false).String())
	assert.Equal(t, "700", ResolveRent(property, room, decimal.NewFromInt(700), true).String())
}
