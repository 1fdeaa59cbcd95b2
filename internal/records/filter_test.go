package records

import (
	"testing"
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

var (
	agentA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	agentB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func at(day int, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func sampleSnapshot() []models.Record {
	return []models.Record{
		{
			ID: uuid.New(), CollectedBy: agentA, LandlordName: "Grace Mwangi",
			PersonType: enums.PersonTypeLandlord, Town: "Kisumu", Area: "Milimani",
			CreatedAt: at(1, 9),
		},
		{
			ID: uuid.New(), CollectedBy: agentB, LandlordName: "Peter Otieno",
			PersonType: enums.PersonTypeTenant, Town: "Kisumu", Area: "Nyalenda",
			CreatedAt: at(2, 12),
		},
		{
			ID: uuid.New(), CollectedBy: agentA, LandlordName: "GRACE WANJIRU",
			PersonType: enums.PersonTypeTenant, Town: "Nakuru", Area: "Milimani",
			CreatedAt: at(3, 8),
		},
		{
			ID: uuid.New(), CollectedBy: agentB, LandlordName: "Samuel Kiprop",
			PersonType: enums.PersonTypeLandlord, Town: "Nakuru", Area: "Section 58",
			CreatedAt: at(3, 8),
		},
	}
}

func ids(list []models.Record) []uuid.UUID {
	out := make([]uuid.UUID, len(list))
	for i, record := range list {
		out[i] = record.ID
	}
	return out
}

func TestApplyEmptyFilterReturnsAllNewestFirst(t *testing.T) {
	snapshot := sampleSnapshot()
	got := Apply(snapshot, Filter{})
	if len(got) != len(snapshot) {
		t.Fatalf("got %d records, want %d", len(got), len(snapshot))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].CreatedAt.Before(got[i].CreatedAt) {
			t.Fatalf("records not sorted newest first at position %d", i)
		}
	}
}

func TestApplyIsStableOnEqualTimestamps(t *testing.T) {
	snapshot := sampleSnapshot()
	got := Apply(snapshot, Filter{})
	// Records 2 and 3 share a timestamp; snapshot order must survive.
	if got[0].ID != snapshot[2].ID || got[1].ID != snapshot[3].ID {
		t.Errorf("tie order changed: got %v", ids(got[:2]))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	snapshot := sampleSnapshot()
	before := ids(snapshot)
	Apply(snapshot, Filter{Search: "grace"})
	after := ids(snapshot)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("input snapshot was reordered")
		}
	}
}

func TestApplyAgentFilter(t *testing.T) {
	got := Apply(sampleSnapshot(), Filter{AgentID: &agentA})
	if len(got) != 2 {
		t.Fatalf("got %d records for agent A, want 2", len(got))
	}
	for _, record := range got {
		if record.CollectedBy != agentA {
			t.Errorf("record %s collected by %s", record.ID, record.CollectedBy)
		}
	}
}

func TestApplySearchMatchesLandlordNameOnly(t *testing.T) {
	// "kisumu" appears as a town but never as a landlord name.
	got := Apply(sampleSnapshot(), Filter{Search: "kisumu"})
	if len(got) != 0 {
		t.Fatalf("search must not match town, got %d records", len(got))
	}

	got = Apply(sampleSnapshot(), Filter{Search: "grace"})
	if len(got) != 2 {
		t.Fatalf("case-insensitive landlord search: got %d, want 2", len(got))
	}
}

func TestApplyTownAndAreaSubstringFold(t *testing.T) {
	town := "kisumu"
	area := "MILIMANI"
	got := Apply(sampleSnapshot(), Filter{Town: &town, Area: &area})
	if len(got) != 1 || got[0].LandlordName != "Grace Mwangi" {
		t.Fatalf("got %d records, want the single Kisumu/Milimani record", len(got))
	}

	partial := "mili"
	if got := Apply(sampleSnapshot(), Filter{Area: &partial}); len(got) != 2 {
		t.Errorf("area is a substring match, want both Milimani records, got %d", len(got))
	}
}

func TestApplyPersonTypeFilter(t *testing.T) {
	tenant := enums.PersonTypeTenant
	got := Apply(sampleSnapshot(), Filter{PersonType: &tenant})
	if len(got) != 2 {
		t.Fatalf("got %d tenants, want 2", len(got))
	}
}

func TestApplyDateBoundsInclusive(t *testing.T) {
	from := at(2, 12)
	to := at(3, 8)
	got := Apply(sampleSnapshot(), Filter{CreatedFrom: &from, CreatedTo: &to})
	if len(got) != 3 {
		t.Fatalf("inclusive bounds: got %d records, want 3", len(got))
	}

	// A bound exactly on a record's timestamp keeps the record.
	exact := at(1, 9)
	got = Apply(sampleSnapshot(), Filter{CreatedFrom: &exact, CreatedTo: &exact})
	if len(got) != 1 {
		t.Fatalf("exact-boundary record excluded: got %d", len(got))
	}
}

func TestApplyPredicatesCombineWithAnd(t *testing.T) {
	town := "Nakuru"
	tenant := enums.PersonTypeTenant
	got := Apply(sampleSnapshot(), Filter{
		AgentID:    &agentA,
		Town:       &town,
		PersonType: &tenant,
		Search:     "wanjiru",
	})
	if len(got) != 1 || got[0].LandlordName != "GRACE WANJIRU" {
		t.Fatalf("conjunction failed: got %v", got)
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter should be zero")
	}
	if (Filter{Search: "x"}).IsZero() {
		t.Error("filter with search should not be zero")
	}
}
