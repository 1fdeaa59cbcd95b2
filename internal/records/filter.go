package records

import (
	"sort"
	"strings"
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// Filter is a conjunction of optional predicates over a record snapshot.
// A nil/empty field means "no constraint". Search matches the landlord name
// only; town and area are case-insensitive substring matches; the date
// bounds are inclusive on both ends.
type Filter struct {
	AgentID     *uuid.UUID
	PersonType  *enums.PersonType
	Town        *string
	Area        *string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.AgentID == nil &&
		f.PersonType == nil &&
		f.Town == nil &&
		f.Area == nil &&
		f.Search == "" &&
		f.CreatedFrom == nil &&
		f.CreatedTo == nil
}

// Apply evaluates the filter over a snapshot and returns the matches sorted
// newest first. The input slice is never mutated; ties on CreatedAt keep
// their snapshot order.
func Apply(snapshot []models.Record, filter Filter) []models.Record {
	matched := make([]models.Record, 0, len(snapshot))
	for _, record := range snapshot {
		if matches(record, filter) {
			matched = append(matched, record)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func matches(record models.Record, filter Filter) bool {
	if filter.AgentID != nil && record.CollectedBy != *filter.AgentID {
		return false
	}
	if filter.PersonType != nil && record.PersonType != *filter.PersonType {
		return false
	}
	if filter.Town != nil && !containsFold(record.Town, *filter.Town) {
		return false
	}
	if filter.Area != nil && !containsFold(record.Area, *filter.Area) {
		return false
	}
	if filter.Search != "" && !containsFold(record.LandlordName, filter.Search) {
		return false
	}
	if filter.CreatedFrom != nil && record.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && record.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
