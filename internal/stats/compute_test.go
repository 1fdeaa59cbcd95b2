package stats

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

func utc(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func recordBy(agent uuid.UUID, created time.Time) models.Record {
	return models.Record{ID: uuid.New(), CollectedBy: agent, CreatedAt: created}
}

func TestComputeTotalEqualsSumOfAgentCounts(t *testing.T) {
	agentA := uuid.New()
	agentB := uuid.New()
	records := []models.Record{
		recordBy(agentA, utc("2024-01-01T10:00:00Z")),
		recordBy(agentA, utc("2024-01-02T10:00:00Z")),
		recordBy(agentB, utc("2024-01-03T10:00:00Z")),
	}

	result := Compute(records, nil, enums.StatsPeriodDay)
	sum := 0
	for _, entry := range result.RecordsPerAgent {
		sum += entry.Count
	}
	if result.TotalRecords != 3 || sum != result.TotalRecords {
		t.Fatalf("total %d, per-agent sum %d", result.TotalRecords, sum)
	}
}

func TestComputeSameDayRecordsShareOneBucket(t *testing.T) {
	agent := uuid.New()
	var records []models.Record
	for hour := 0; hour < 10; hour++ {
		records = append(records, recordBy(agent, time.Date(2024, 5, 17, hour, 30, 0, 0, time.UTC)))
	}

	result := Compute(records, nil, enums.StatsPeriodDay)
	if len(result.RecordsByPeriod) != 1 {
		t.Fatalf("got %d buckets, want 1", len(result.RecordsByPeriod))
	}
	bucket := result.RecordsByPeriod[0]
	if bucket.Date != "2024-05-17" || bucket.Count != 10 {
		t.Errorf("bucket = %+v", bucket)
	}
}

func TestComputeWeekBucketsStartOnSunday(t *testing.T) {
	agent := uuid.New()
	records := []models.Record{
		recordBy(agent, utc("2024-01-01T10:00:00Z")), // Monday
		recordBy(agent, utc("2024-01-01T23:00:00Z")),
		recordBy(agent, utc("2024-01-08T05:00:00Z")), // next Monday
	}

	result := Compute(records, nil, enums.StatsPeriodWeek)
	if len(result.RecordsByPeriod) != 2 {
		t.Fatalf("got %d buckets, want 2", len(result.RecordsByPeriod))
	}
	first := result.RecordsByPeriod[0]
	second := result.RecordsByPeriod[1]
	if first.Date != "W 2023-12-31" || first.Count != 2 {
		t.Errorf("first bucket = %+v, want the Sunday before Jan 1 with 2 records", first)
	}
	if second.Date != "W 2024-01-07" || second.Count != 1 {
		t.Errorf("second bucket = %+v", second)
	}
	if !(first.Date < second.Date) {
		t.Error("buckets not sorted ascending")
	}
}

func TestComputeSundayRecordStaysInItsOwnWeek(t *testing.T) {
	agent := uuid.New()
	records := []models.Record{
		recordBy(agent, utc("2024-01-07T00:00:00Z")), // Sunday itself
	}
	result := Compute(records, nil, enums.StatsPeriodWeek)
	if result.RecordsByPeriod[0].Date != "W 2024-01-07" {
		t.Errorf("Sunday record bucketed under %s", result.RecordsByPeriod[0].Date)
	}
}

func TestComputeMonthBuckets(t *testing.T) {
	agent := uuid.New()
	records := []models.Record{
		recordBy(agent, utc("2024-01-31T23:59:59Z")),
		recordBy(agent, utc("2024-02-01T00:00:00Z")),
	}
	result := Compute(records, nil, enums.StatsPeriodMonth)
	if len(result.RecordsByPeriod) != 2 {
		t.Fatalf("got %d buckets, want 2", len(result.RecordsByPeriod))
	}
	if result.RecordsByPeriod[0].Date != "2024-01" || result.RecordsByPeriod[1].Date != "2024-02" {
		t.Errorf("buckets = %v", result.RecordsByPeriod)
	}
}

func TestComputeBucketsUseUTCCalendarDate(t *testing.T) {
	agent := uuid.New()
	lagos := time.FixedZone("WAT", 1*60*60)
	// 00:30 local on March 2 is still March 1 in UTC.
	records := []models.Record{
		recordBy(agent, time.Date(2024, 3, 2, 0, 30, 0, 0, lagos)),
	}
	result := Compute(records, nil, enums.StatsPeriodDay)
	if result.RecordsByPeriod[0].Date != "2024-03-01" {
		t.Errorf("bucket = %s, want the UTC date", result.RecordsByPeriod[0].Date)
	}
}

func TestComputeUndatedRecordsCountedButNotBucketed(t *testing.T) {
	agent := uuid.New()
	records := []models.Record{
		recordBy(agent, utc("2024-01-01T10:00:00Z")),
		{ID: uuid.New(), CollectedBy: agent}, // zero CreatedAt
	}
	result := Compute(records, nil, enums.StatsPeriodDay)
	if result.TotalRecords != 2 {
		t.Errorf("total = %d, want 2", result.TotalRecords)
	}
	if result.RecordsPerAgent[0].Count != 2 {
		t.Errorf("agent count = %d, want 2", result.RecordsPerAgent[0].Count)
	}
	if len(result.RecordsByPeriod) != 1 || result.RecordsByPeriod[0].Count != 1 {
		t.Errorf("buckets = %v, undated record leaked in", result.RecordsByPeriod)
	}
}

func TestComputeAgentNameResolutionAndFallback(t *testing.T) {
	known := uuid.New()
	vanished := uuid.New()
	agents := []models.User{
		{ID: known, Username: "gmwangi", FullName: "Grace Mwangi"},
	}
	records := []models.Record{
		recordBy(known, utc("2024-01-01T10:00:00Z")),
		recordBy(vanished, utc("2024-01-02T10:00:00Z")),
	}

	result := Compute(records, agents, enums.StatsPeriodDay)
	if result.RecordsPerAgent[0].AgentName != "Grace Mwangi" {
		t.Errorf("known agent name = %q", result.RecordsPerAgent[0].AgentName)
	}
	want := "Agent #" + vanished.String()
	if result.RecordsPerAgent[1].AgentName != want {
		t.Errorf("fallback name = %q, want %q", result.RecordsPerAgent[1].AgentName, want)
	}
}

func TestComputeEmptySnapshot(t *testing.T) {
	result := Compute(nil, nil, enums.StatsPeriodDay)
	if result.TotalRecords != 0 {
		t.Errorf("total = %d", result.TotalRecords)
	}
	if result.RecordsPerAgent == nil || result.RecordsByPeriod == nil {
		t.Error("empty aggregates must serialize as [] not null")
	}
}

func TestResultJSONShape(t *testing.T) {
	agent := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	agents := []models.User{{ID: agent, Username: "pk", FullName: "Peter Kamau"}}
	records := []models.Record{recordBy(agent, utc("2024-04-02T08:00:00Z"))}

	raw, err := json.Marshal(Compute(records, agents, enums.StatsPeriodDay))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payload := string(raw)
	for _, key := range []string{`"totalRecords":1`, `"recordsPerAgent"`, `"recordsByPeriod"`, `"agentId"`, `"agentName":"Peter Kamau"`, `"date":"2024-04-02"`, `"count":1`} {
		if !strings.Contains(payload, key) {
			t.Errorf("payload missing %s: %s", key, payload)
		}
	}
}
