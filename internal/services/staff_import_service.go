package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// StaffUpserter writes directory rows keyed by business key
type StaffUpserter interface {
	UpsertBatch(ctx context.Context, rows []models.ExternalStaff, batchSize int) (int, error)
}

// DirectoryRefresher reloads the in-memory directory
type DirectoryRefresher interface {
	Refresh(ctx context.Context) error
}

type staffField func(s *models.ExternalStaff, value string)

// staffColumns maps normalized header names to directory fields. Both the
// payroll export names and the underscore template names are accepted.
var staffColumns = map[string]staffField{
	"PAYROLL FIRST NAME":  func(s *models.ExternalStaff, v string) { s.FirstName = v },
	"FIRST NAME":          func(s *models.ExternalStaff, v string) { s.FirstName = v },
	"PAYROLL LAST NAME":   func(s *models.ExternalStaff, v string) { s.LastName = v },
	"LAST NAME":           func(s *models.ExternalStaff, v string) { s.LastName = v },
	"PAYROLL MIDDLE NAME": func(s *models.ExternalStaff, v string) { s.MiddleName = v },
	"MIDDLE NAME":         func(s *models.ExternalStaff, v string) { s.MiddleName = v },
	"JOB TITLE":           func(s *models.ExternalStaff, v string) { s.JobTitle = v },
	"HOME DEPARTMENT":     func(s *models.ExternalStaff, v string) { s.Department = v },
	"DEPARTMENT":          func(s *models.ExternalStaff, v string) { s.Department = v },
	"LOCATION":            func(s *models.ExternalStaff, v string) { s.Location = v },
	"REPORTS TO NAME":     func(s *models.ExternalStaff, v string) { s.Manager = v },
	"WORK E-MAIL":         func(s *models.ExternalStaff, v string) { s.WorkEmail = strings.ToLower(v) },
	"WORK EMAIL":          func(s *models.ExternalStaff, v string) { s.WorkEmail = strings.ToLower(v) },
	"PERSONAL E-MAIL":     func(s *models.ExternalStaff, v string) { s.PersonalEmail = strings.ToLower(v) },
	"PERSONAL EMAIL":      func(s *models.ExternalStaff, v string) { s.PersonalEmail = strings.ToLower(v) },
	"ASSOCIATE ID":        func(s *models.ExternalStaff, v string) { s.EmployeeID = v },
	"FILE NUMBER":         func(s *models.ExternalStaff, v string) { s.FileNumber = v },
	"POSITION STATUS":     func(s *models.ExternalStaff, v string) { s.PositionStatus = v },
	"HIRE DATE":           func(s *models.ExternalStaff, v string) { s.HireDate = v },
	"TERMINATION DATE":    func(s *models.ExternalStaff, v string) { s.TerminationDate = v },
}

func normalizeHeader(h string) string {
	h = strings.ToUpper(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// StaffImportService loads the payroll directory export from a spreadsheet
type StaffImportService struct {
	store     StaffUpserter
	directory DirectoryRefresher
	logger    *logrus.Logger
	batchSize int
}

// NewStaffImportService creates a new import service
func NewStaffImportService(store StaffUpserter, directory DirectoryRefresher, logger *logrus.Logger, batchSize int) *StaffImportService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &StaffImportService{
		store:     store,
		directory: directory,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Import reads the first sheet of an .xlsx workbook, upserts every row that
// has a first and last name, then refreshes the directory snapshot
func (s *StaffImportService) Import(ctx context.Context, r io.Reader) (*models.StaffImportResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	staff, result, err := ParseStaffRows(rows)
	if err != nil {
		return nil, err
	}

	written, err := s.store.UpsertBatch(ctx, staff, s.batchSize)
	result.Upserted = written
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		s.logger.WithFields(logrus.Fields{
			"written": written,
			"error":   err.Error(),
		}).Error("Staff import stopped")
		return result, nil
	}

	s.logger.WithFields(logrus.Fields{
		"written": written,
		"skipped": result.Skipped,
	}).Info("Staff import finished")

	if err := s.directory.Refresh(ctx); err != nil {
		s.logger.WithError(err).Warn("Directory refresh after import failed")
		result.Errors = append(result.Errors, "Import saved, but the staff directory could not be refreshed.")
	}

	return result, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, models.ErrInvalidField("file", "Please upload a valid .xlsx file.")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, models.ErrInvalidField("file", "The workbook has no sheets.")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ParseStaffRows maps a header row plus data rows to directory records.
// Rows missing a first or last name are skipped and reported by their
// spreadsheet row number.
func ParseStaffRows(rows [][]string) ([]models.ExternalStaff, *models.StaffImportResult, error) {
	if len(rows) == 0 {
		return nil, nil, models.ErrInvalidField("file", "The spreadsheet is empty.")
	}

	fields := make([]staffField, len(rows[0]))
	var hasFirst, hasLast bool
	for i, header := range rows[0] {
		name := normalizeHeader(header)
		fields[i] = staffColumns[name]
		switch name {
		case "PAYROLL FIRST NAME", "FIRST NAME":
			hasFirst = true
		case "PAYROLL LAST NAME", "LAST NAME":
			hasLast = true
		}
	}

	var missing []string
	if !hasFirst {
		missing = append(missing, "PAYROLL FIRST NAME")
	}
	if !hasLast {
		missing = append(missing, "PAYROLL LAST NAME")
	}
	if len(missing) > 0 {
		return nil, nil, models.ErrInvalidField("file", "Missing required columns: "+strings.Join(missing, ", "))
	}

	result := &models.StaffImportResult{Errors: []string{}}
	staff := make([]models.ExternalStaff, 0, len(rows)-1)

	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		var record models.ExternalStaff
		for col, value := range row {
			if col < len(fields) && fields[col] != nil {
				fields[col](&record, strings.TrimSpace(value))
			}
		}

		if record.FirstName == "" || record.LastName == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: first and last name are required.", i+2))
			continue
		}

		record.BusinessKey = businessKey(record)
		staff = append(staff, record)
	}

	return staff, result, nil
}

// businessKey identifies a directory row across imports: the associate id
// when present, else first|last|email lowercased
func businessKey(s models.ExternalStaff) string {
	if s.EmployeeID != "" {
		return s.EmployeeID
	}
	email := s.WorkEmail
	if email == "" {
		email = s.PersonalEmail
	}
	return strings.ToLower(strings.Join([]string{s.FirstName, s.LastName, email}, "|"))
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
