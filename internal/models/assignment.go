package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssignmentStatus is the lifecycle state of a tenant/room assignment
type AssignmentStatus string

const (
	AssignmentActive     AssignmentStatus = "Active"
	AssignmentPending    AssignmentStatus = "Pending"
	AssignmentExpired    AssignmentStatus = "Expired"
	AssignmentTerminated AssignmentStatus = "Terminated"
)

// Assignment places a tenant in a room and records the benefit agreements they opted into
type Assignment struct {
	ID                      uuid.UUID         `json:"id" db:"id"`
	TenantName              string            `json:"tenant_name" db:"tenant_name"`
	TenantID                string            `json:"tenant_id" db:"tenant_id"`
	StaffID                 string            `json:"staff_id" db:"staff_id"`
	StaffName               string            `json:"staff_name" db:"staff_name"`
	PropertyID              uuid.UUID         `json:"property_id" db:"property_id"`
	PropertyName            string            `json:"property_name" db:"property_name"`
	RoomID                  uuid.UUID         `json:"room_id" db:"room_id"`
	RoomName                string            `json:"room_name" db:"room_name"`
	Status                  AssignmentStatus  `json:"status" db:"status"`
	StartDate               Date              `json:"start_date" db:"start_date"`
	EndDate                 Date              `json:"end_date" db:"end_date"`
	RentAmount              decimal.Decimal   `json:"rent_amount" db:"rent_amount"`
	HousingAgreement        bool              `json:"housing_agreement" db:"housing_agreement"`
	TransportationAgreement bool              `json:"transportation_agreement" db:"transportation_agreement"`
	FlightAgreement         bool              `json:"flight_agreement" db:"flight_agreement"`
	BusCardAgreement        bool              `json:"bus_card_agreement" db:"bus_card_agreement"`
	CreatedAt               time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at" db:"updated_at"`
	SecurityDeposits        []SecurityDeposit `json:"security_deposits,omitempty" db:"-"`
}

// Agreements returns the agreement flags as a set
func (a Assignment) Agreements() AssignmentAgreements {
	return AssignmentAgreements{
		Housing:         a.HousingAgreement,
		Transportation:  a.TransportationAgreement,
		FlightAgreement: a.FlightAgreement,
		BusCard:         a.BusCardAgreement,
	}
}

// AssignmentAgreements holds which benefit agreements are enabled
type AssignmentAgreements struct {
	Housing         bool `json:"housing"`
	Transportation  bool `json:"transportation"`
	FlightAgreement bool `json:"flight_agreement"`
	BusCard         bool `json:"bus_card"`
}

// IsEnabled reports whether the agreement for b is on
func (a AssignmentAgreements) IsEnabled(b BenefitType) bool {
	switch b {
	case BenefitHousing:
		return a.Housing
	case BenefitTransportation:
		return a.Transportation
	case BenefitFlightAgreement:
		return a.FlightAgreement
	case BenefitBusCard:
		return a.BusCard
	}
	return false
}

// Enabled lists the enabled benefits in form order
func (a AssignmentAgreements) Enabled() []BenefitType {
	enabled := make([]BenefitType, 0, len(BenefitTypes))
	for _, b := range BenefitTypes {
		if a.IsEnabled(b) {
			enabled = append(enabled, b)
		}
	}
	return enabled
}

// Any reports whether at least one agreement is enabled
func (a AssignmentAgreements) Any() bool {
	return a.Housing || a.Transportation || a.FlightAgreement || a.BusCard
}

// CreateAssignmentRequest is the assignment form payload
type CreateAssignmentRequest struct {
	TenantName            string                           `json:"tenant_name"`
	TenantID              string                           `json:"tenant_id"`
	StaffID               string                           `json:"staff_id"`
	StaffName             string                           `json:"staff_name"`
	PropertyID            string                           `json:"property_id"`
	RoomID                string                           `json:"room_id"`
	Status                AssignmentStatus                 `json:"status" binding:"omitempty,oneof=Active Pending Expired Terminated"`
	StartDate             string                           `json:"start_date" binding:"omitempty,iso_date"`
	EndDate               string                           `json:"end_date" binding:"omitempty,iso_date"`
	RentAmount            decimal.Decimal                  `json:"rent_amount"`
	RentOverride          bool                             `json:"rent_override"`
	Agreements            AssignmentAgreements             `json:"agreements"`
	SecurityDeposits      map[BenefitType]*SecurityDeposit `json:"security_deposits"`
	FlightAgreementAmount decimal.Decimal                  `json:"flight_agreement_amount"`
	FlightAgreementNotes  string                           `json:"flight_agreement_notes"`
}

// CreateAssignmentResponse carries the stored assignment and any non-fatal warnings
type CreateAssignmentResponse struct {
	Assignment      *Assignment      `json:"assignment"`
	FlightAgreement *FlightAgreement `json:"flight_agreement,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// AssignmentFilter narrows an assignment listing
type AssignmentFilter struct {
	Status     string `form:"status"`
	PropertyID string `form:"property_id"`
	TenantID   string `form:"tenant_id"`
}

// UpdateStartDateRequest moves an assignment start date
type UpdateStartDateRequest struct {
	StartDate string `json:"start_date" binding:"required,iso_date"`
}

// UpdateAssignmentStatusRequest changes an assignment status
type UpdateAssignmentStatusRequest struct {
	Status AssignmentStatus `json:"status" binding:"required,oneof=Active Pending Expired Terminated"`
}
