package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/teambition/rrule-go"
)

const (
	// DepositInstallments is the number of payroll deductions a deposit is split into
	DepositInstallments = 4

	// DepositInstallmentIntervalDays separates consecutive deposit deductions
	DepositInstallmentIntervalDays = 14

	// FlightInstallments is the number of payroll deductions a flight agreement is split into
	FlightInstallments = 3

	// scheduleTolerance is how far a schedule total may drift from the deposit total
	scheduleTolerance = "0.01"
)

// flightPayrollDays are the days of month flight deductions fall on
var flightPayrollDays = []int{7, 22}

// GenerateDeductionSchedule splits totalAmount into four equal installments,
// 14, 28, 42 and 56 days after startDate (YYYY-MM-DD). A non-positive amount,
// an empty start date or an unparseable one yields an empty schedule.
func GenerateDeductionSchedule(totalAmount decimal.Decimal, startDate string) []models.Deduction {
	if !totalAmount.IsPositive() || strings.TrimSpace(startDate) == "" {
		return []models.Deduction{}
	}

	start, err := models.ParseDate(startDate)
	if err != nil {
		return []models.Deduction{}
	}

	amount := totalAmount.Div(decimal.NewFromInt(DepositInstallments))

	schedule := make([]models.Deduction, 0, DepositInstallments)
	for n := 1; n <= DepositInstallments; n++ {
		schedule = append(schedule, models.Deduction{
			DeductionNumber: n,
			ScheduledDate:   start.AddDays(DepositInstallmentIntervalDays * n),
			Amount:          amount,
			Status:          models.DeductionScheduled,
		})
	}

	return schedule
}

// GenerateFlightDeductionSchedule splits a flight agreement into three
// installments rounded to cents, falling on the 7th and 22nd of the month.
// The first installment is the first payroll day on or after startDate.
func GenerateFlightDeductionSchedule(totalAmount decimal.Decimal, startDate string) []models.FlightAgreementDeduction {
	if !totalAmount.IsPositive() || strings.TrimSpace(startDate) == "" {
		return []models.FlightAgreementDeduction{}
	}

	start, err := models.ParseDate(startDate)
	if err != nil {
		return []models.FlightAgreementDeduction{}
	}

	dates, err := flightPayrollDates(start.Time, FlightInstallments)
	if err != nil {
		return []models.FlightAgreementDeduction{}
	}

	amount := totalAmount.Div(decimal.NewFromInt(FlightInstallments)).Round(2)

	deductions := make([]models.FlightAgreementDeduction, 0, len(dates))
	for i, d := range dates {
		note := fmt.Sprintf("Flight agreement deduction %d of %d", i+1, FlightInstallments)
		deductions = append(deductions, models.FlightAgreementDeduction{
			DeductionSequence: i + 1,
			PayrollPeriod:     d.Format("2006-01"),
			DeductionDate:     models.NewDate(d.Year(), d.Month(), d.Day()),
			ScheduledAmount:   amount,
			Status:            models.FlightDeductionPending,
			Notes:             &note,
		})
	}

	return deductions
}

func flightPayrollDates(start time.Time, count int) ([]time.Time, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Bymonthday: flightPayrollDays,
		Count:      count,
		Dtstart:    start.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payroll rule: %w", err)
	}
	return rule.All(), nil
}

// ValidateDepositSchedule checks that a deposit is schedulable and its
// installments reconcile with its total within one cent.
func ValidateDepositSchedule(deposit models.SecurityDeposit) error {
	label := deposit.BenefitType.Label()

	if !deposit.TotalAmount.IsPositive() {
		return models.ErrInvalidField(string(deposit.BenefitType),
			fmt.Sprintf("Please enter a security deposit amount for the %s agreement.", label))
	}

	if len(deposit.DeductionSchedule) == 0 {
		return nil
	}

	tolerance := decimal.RequireFromString(scheduleTolerance)
	diff := deposit.ScheduleTotal().Sub(deposit.TotalAmount).Abs()
	if diff.GreaterThan(tolerance) {
		return models.ErrInvalidField(string(deposit.BenefitType),
			fmt.Sprintf("%s deduction schedule total must equal the security deposit amount.", label))
	}

	return nil
}

// ValidateSecurityDeposits guards an assignment submission: every enabled
// non-flight agreement needs a reconciling deposit, and an enabled flight
// agreement needs a positive amount.
func ValidateSecurityDeposits(
	agreements models.AssignmentAgreements,
	deposits map[models.BenefitType]*models.SecurityDeposit,
	flightAmount decimal.Decimal,
) error {
	for _, benefit := range agreements.Enabled() {
		if benefit == models.BenefitFlightAgreement {
			if !flightAmount.IsPositive() {
				return models.ErrInvalidField(string(benefit), "Please enter a flight agreement amount greater than 0.")
			}
			continue
		}

		deposit, ok := deposits[benefit]
		if !ok || deposit == nil {
			return models.ErrInvalidField(string(benefit),
				fmt.Sprintf("Please enter a security deposit amount for the %s agreement.", benefit.Label()))
		}
		if err := ValidateDepositSchedule(*deposit); err != nil {
			return err
		}
	}
	return nil
}
