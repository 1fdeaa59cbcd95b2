package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// AgentCount is one agent's share of the collection.
type AgentCount struct {
	AgentID   uuid.UUID `json:"agentId"`
	AgentName string    `json:"agentName"`
	Count     int       `json:"count"`
}

// PeriodCount is one time bucket's record count. Date is the bucket label,
// not an RFC 3339 timestamp.
type PeriodCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Result is the stats payload. The shape is load-bearing for export and
// dashboard clients; field names must not change without a client migration.
type Result struct {
	TotalRecords    int           `json:"totalRecords"`
	RecordsPerAgent []AgentCount  `json:"recordsPerAgent"`
	RecordsByPeriod []PeriodCount `json:"recordsByPeriod"`
}

// Compute aggregates a full record snapshot into totals, per-collector
// counts, and time buckets. Pure function of its inputs; callers pass a
// consistent snapshot and the engine never touches storage.
//
// Records with a zero CreatedAt stay in the total and per-agent counts but
// are left out of the period buckets, since they cannot be dated.
func Compute(records []models.Record, agents []models.User, period enums.StatsPeriod) Result {
	nameByID := make(map[uuid.UUID]string, len(agents))
	for _, agent := range agents {
		nameByID[agent.ID] = displayName(agent)
	}

	// Per-agent counts keep first-seen snapshot order.
	countByAgent := make(map[uuid.UUID]int)
	var agentOrder []uuid.UUID
	countByBucket := make(map[string]int)

	for _, record := range records {
		if _, seen := countByAgent[record.CollectedBy]; !seen {
			agentOrder = append(agentOrder, record.CollectedBy)
		}
		countByAgent[record.CollectedBy]++

		if record.CreatedAt.IsZero() {
			continue
		}
		countByBucket[bucketKey(record.CreatedAt, period)]++
	}

	perAgent := make([]AgentCount, 0, len(agentOrder))
	for _, agentID := range agentOrder {
		name, ok := nameByID[agentID]
		if !ok {
			name = fmt.Sprintf("Agent #%s", agentID)
		}
		perAgent = append(perAgent, AgentCount{
			AgentID:   agentID,
			AgentName: name,
			Count:     countByAgent[agentID],
		})
	}

	byPeriod := make([]PeriodCount, 0, len(countByBucket))
	for key, count := range countByBucket {
		byPeriod = append(byPeriod, PeriodCount{Date: key, Count: count})
	}
	sort.Slice(byPeriod, func(i, j int) bool {
		return byPeriod[i].Date < byPeriod[j].Date
	})

	return Result{
		TotalRecords:    len(records),
		RecordsPerAgent: perAgent,
		RecordsByPeriod: byPeriod,
	}
}

// bucketKey derives the period label from a timestamp, always in UTC.
// Week buckets are labeled by the Sunday that opens the week.
func bucketKey(ts time.Time, period enums.StatsPeriod) string {
	utc := ts.UTC()
	switch period {
	case enums.StatsPeriodWeek:
		sunday := utc.AddDate(0, 0, -int(utc.Weekday()))
		return "W " + sunday.Format("2006-01-02")
	case enums.StatsPeriodMonth:
		return utc.Format("2006-01")
	default:
		return utc.Format("2006-01-02")
	}
}

func displayName(agent models.User) string {
	if agent.FullName != "" {
		return agent.FullName
	}
	return agent.Username
}
