package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeUpserter struct {
	rows      []models.ExternalStaff
	batchSize int
	err       error
}

func (f *fakeUpserter) UpsertBatch(_ context.Context, rows []models.ExternalStaff, batchSize int) (int, error) {
	f.rows = rows
	f.batchSize = batchSize
	if f.err != nil {
		return 0, f.err
	}
	return len(rows), nil
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls++
	return f.err
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseStaffRows(t *testing.T) {
	t.Run("maps headers case-insensitively", func(t *testing.T) {
		rows := [][]string{
			{"payroll_first_name", "Payroll Last Name", "WORK E-MAIL", "Associate ID", "Position Status"},
			{" Maria ", "Lopez", "Maria.Lopez@Example.com", "A100", "Active"},
		}

		staff, result, err := ParseStaffRows(rows)
		require.NoError(t, err)
		require.Len(t, staff, 1)
		assert.Equal(t, "Maria", staff[0].FirstName)
		assert.Equal(t, "Lopez", staff[0].LastName)
		assert.Equal(t, "maria.lopez@example.com", staff[0].WorkEmail)
		assert.Equal(t, "A100", staff[0].BusinessKey)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.Errors)
	})

	t.Run("falls back to name and email key", func(t *testing.T) {
		rows := [][]string{
			{"FIRST_NAME", "LAST_NAME", "WORK EMAIL"},
			{"Ana", "Silva", "ana@example.com"},
		}

		staff, _, err := ParseStaffRows(rows)
		require.NoError(t, err)
		require.Len(t, staff, 1)
		assert.Equal(t, "ana|silva|ana@example.com", staff[0].BusinessKey)
	})

	t.Run("skips rows without names", func(t *testing.T) {
		rows := [][]string{
			{"PAYROLL FIRST NAME", "PAYROLL LAST NAME"},
			{"Ana", "Silva"},
			{"", "Nobody"},
			{},
			{"Joe", ""},
		}

		staff, result, err := ParseStaffRows(rows)
		require.NoError(t, err)
		assert.Len(t, staff, 1)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, []string{
			"Row 3: first and last name are required.",
			"Row 5: first and last name are required.",
		}, result.Errors)
	})

	t.Run("missing required columns", func(t *testing.T) {
		_, _, err := ParseStaffRows([][]string{{"JOB TITLE", "PAYROLL LAST NAME"}})
		require.Error(t, err)
		assert.True(t, models.IsValidationError(err))
		assert.Contains(t, err.Error(), "PAYROLL FIRST NAME")
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, _, err := ParseStaffRows(nil)
		assert.True(t, models.IsValidationError(err))
	})
}

func TestStaffImportService_Import(t *testing.T) {
	workbook := func(t *testing.T) *bytes.Buffer {
		return buildWorkbook(t, [][]interface{}{
			{"PAYROLL FIRST NAME", "PAYROLL LAST NAME", "JOB TITLE", "ASSOCIATE ID"},
			{"Maria", "Lopez", "Cook", "A100"},
			{"Ana", "Silva", "Housekeeper", "A101"},
			{"", "Ghost", "", ""},
		})
	}

	t.Run("upserts and refreshes", func(t *testing.T) {
		store := &fakeUpserter{}
		directory := &fakeRefresher{}
		svc := NewStaffImportService(store, directory, quietLogger(), 250)

		result, err := svc.Import(context.Background(), workbook(t))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Upserted)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 250, store.batchSize)
		assert.Equal(t, "Cook", store.rows[0].JobTitle)
		assert.Equal(t, 1, directory.calls)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		store := &fakeUpserter{err: errors.New("batch 1 failed")}
		directory := &fakeRefresher{}
		svc := NewStaffImportService(store, directory, quietLogger(), 0)

		result, err := svc.Import(context.Background(), workbook(t))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Upserted)
		assert.Contains(t, result.Errors, "batch 1 failed")
		assert.Equal(t, 500, store.batchSize)
		assert.Equal(t, 0, directory.calls)
	})

	t.Run("refresh failure is a warning", func(t *testing.T) {
		svc := NewStaffImportService(&fakeUpserter{}, &fakeRefresher{err: errors.New("down")}, quietLogger(), 0)

		result, err := svc.Import(context.Background(), workbook(t))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Upserted)
		assert.Contains(t, result.Errors, "Import saved, but the staff directory could not be refreshed.")
	})

	t.Run("not a workbook", func(t *testing.T) {
		svc := NewStaffImportService(&fakeUpserter{}, &fakeRefresher{}, quietLogger(), 0)

		_, err := svc.Import(context.Background(), strings.NewReader("name,surname\n"))
		require.Error(t, err)
		assert.True(t, models.IsValidationError(err))
	})
}
