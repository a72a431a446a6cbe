package services

import (
	"slices"
	"strings"

	"github.com/staffhousing/backoffice-api/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// MaxSearchResults caps every search response
	MaxSearchResults = 1000

	// searchNarrowingThreshold stops applying further terms once the candidate
	// set is already this small
	searchNarrowingThreshold = 100
)

// SearchStaff filters and ranks directory records against a free-text query.
//
// An empty query returns the first MaxSearchResults records in input order.
// Otherwise each whitespace-separated term must appear as a substring of the
// record's name fields, or failing that its job title, department or location.
// Terms are applied in order and filtering stops early once fewer than 100
// candidates remain. Results are ranked by exact full-name match, full-name
// prefix, last-name prefix of the first term, first-name prefix of the first
// term, then alphabetically by full name. records is never modified.
func SearchStaff(records []models.ExternalStaff, query string) []models.ExternalStaff {
	q := strings.ToLower(strings.TrimSpace(query))
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return headOf(records, MaxSearchResults)
	}

	candidates := records
	for _, term := range terms {
		next := make([]models.ExternalStaff, 0, len(candidates))
		for _, record := range candidates {
			if matchesTerm(record, term) {
				next = append(next, record)
			}
		}
		candidates = next

		if len(candidates) < searchNarrowingThreshold {
			break
		}
	}

	if len(candidates) > 0 {
		rankCandidates(candidates, q, terms[0])
	}

	return headOf(candidates, MaxSearchResults)
}

func matchesTerm(record models.ExternalStaff, term string) bool {
	first := strings.ToLower(record.FirstName)
	last := strings.ToLower(record.LastName)
	full := strings.ToLower(record.FullName())

	if strings.Contains(full, term) || strings.Contains(first, term) || strings.Contains(last, term) {
		return true
	}

	return strings.Contains(strings.ToLower(record.JobTitle), term) ||
		strings.Contains(strings.ToLower(record.Department), term) ||
		strings.Contains(strings.ToLower(record.Location), term)
}

// rankedStaff carries the lowercased fields the comparator reads
type rankedStaff struct {
	record models.ExternalStaff
	full   string
	first  string
	last   string
}

func rankCandidates(candidates []models.ExternalStaff, q, firstTerm string) {
	ranked := make([]rankedStaff, len(candidates))
	for i, record := range candidates {
		ranked[i] = rankedStaff{
			record: record,
			full:   strings.ToLower(record.FullName()),
			first:  strings.ToLower(record.FirstName),
			last:   strings.ToLower(record.LastName),
		}
	}

	collator := collate.New(language.English)

	slices.SortStableFunc(ranked, func(a, b rankedStaff) int {
		if c := preferTrue(a.full == q, b.full == q); c != 0 {
			return c
		}
		if c := preferTrue(strings.HasPrefix(a.full, q), strings.HasPrefix(b.full, q)); c != 0 {
			return c
		}
		if c := preferTrue(strings.HasPrefix(a.last, firstTerm), strings.HasPrefix(b.last, firstTerm)); c != 0 {
			return c
		}
		if c := preferTrue(strings.HasPrefix(a.first, firstTerm), strings.HasPrefix(b.first, firstTerm)); c != 0 {
			return c
		}
		return collator.CompareString(a.record.FullName(), b.record.FullName())
	})

	for i := range ranked {
		candidates[i] = ranked[i].record
	}
}

// preferTrue orders a record satisfying a rule ahead of one that does not
func preferTrue(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	default:
		return 0
	}
}

func headOf(records []models.ExternalStaff, n int) []models.ExternalStaff {
	if len(records) > n {
		records = records[:n]
	}
	out := make([]models.ExternalStaff, len(records))
	copy(out, records)
	return out
}
