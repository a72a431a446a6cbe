package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// StaffSource pages through the payroll directory
type StaffSource interface {
	ListPage(ctx context.Context, offset, limit int) ([]models.ExternalStaff, error)
}

const defaultDirectoryPageSize = 1000

// StaffDirectoryService keeps an in-memory snapshot of the payroll directory
// for search and tenant/staff resolution
type StaffDirectoryService struct {
	source       StaffSource
	logger       *logrus.Logger
	pageSize     int
	loadAttempts int
	backoff      time.Duration

	mu       sync.RWMutex
	snapshot []models.ExternalStaff
	byID     map[string]int
	loadedAt time.Time
}

// NewStaffDirectoryService creates a directory with an empty snapshot
func NewStaffDirectoryService(source StaffSource, logger *logrus.Logger, pageSize, loadAttempts int) *StaffDirectoryService {
	if pageSize <= 0 {
		pageSize = defaultDirectoryPageSize
	}
	if loadAttempts <= 0 {
		loadAttempts = 3
	}
	return &StaffDirectoryService{
		source:       source,
		logger:       logger,
		pageSize:     pageSize,
		loadAttempts: loadAttempts,
		backoff:      300 * time.Millisecond,
		snapshot:     []models.ExternalStaff{},
		byID:         map[string]int{},
	}
}

// Refresh reloads the whole directory and swaps the snapshot. On failure the
// previous snapshot is kept.
func (s *StaffDirectoryService) Refresh(ctx context.Context) error {
	started := time.Now()

	all := []models.ExternalStaff{}
	for offset := 0; ; offset += s.pageSize {
		page, err := s.loadPage(ctx, offset)
		if err != nil {
			return err
		}
		all = append(all, page...)
		if len(page) < s.pageSize {
			break
		}
	}

	byID := make(map[string]int, len(all))
	for i, record := range all {
		byID[record.ID] = i
	}

	s.mu.Lock()
	s.snapshot = all
	s.byID = byID
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"records":  len(all),
		"duration": time.Since(started).String(),
	}).Info("Staff directory refreshed")

	return nil
}

func (s *StaffDirectoryService) loadPage(ctx context.Context, offset int) ([]models.ExternalStaff, error) {
	var lastErr error
	for attempt := 1; attempt <= s.loadAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.source.ListPage(ctx, offset, s.pageSize)
		if err == nil {
			return page, nil
		}
		lastErr = err

		s.logger.WithFields(logrus.Fields{
			"offset":  offset,
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Failed to load staff directory page")

		if attempt == s.loadAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("failed to load staff directory at offset %d after %d attempts: %w", offset, s.loadAttempts, lastErr)
}

func (s *StaffDirectoryService) current() []models.ExternalStaff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Search ranks the current snapshot against query
func (s *StaffDirectoryService) Search(query string) models.StaffSearchResponse {
	started := time.Now()
	records := s.current()
	results := SearchStaff(records, query)

	return models.StaffSearchResponse{
		Results: results,
		Count:   len(results),
		Total:   len(records),
		TookMS:  time.Since(started).Milliseconds(),
	}
}

// Get returns a directory record by id
func (s *StaffDirectoryService) Get(id string) (models.ExternalStaff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return models.ExternalStaff{}, false
	}
	return s.snapshot[i], true
}

// Exists reports whether id is a directory record
func (s *StaffDirectoryService) Exists(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// FindByExactName resolves a typed name to a record when exactly one full
// name matches case-insensitively
func (s *StaffDirectoryService) FindByExactName(name string) (models.ExternalStaff, bool) {
	target := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if target == "" {
		return models.ExternalStaff{}, false
	}

	var (
		match models.ExternalStaff
		found int
	)
	for _, record := range s.current() {
		if strings.ToLower(record.FullName()) == target {
			match = record
			found++
			if found > 1 {
				return models.ExternalStaff{}, false
			}
		}
	}
	return match, found == 1
}

// Size returns the number of records in the snapshot and when it was loaded
func (s *StaffDirectoryService) Size() (int, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot), s.loadedAt
}
