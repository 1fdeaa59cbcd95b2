package records

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
)

func setupRecordsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS records (
  id TEXT PRIMARY KEY,
  collected_by TEXT NOT NULL,
  record_title TEXT NOT NULL,
  person_type TEXT NOT NULL,
  landlord_name TEXT NOT NULL,
  tenant_name TEXT,
  contact_phone TEXT,
  house_number TEXT,
  town TEXT,
  area TEXT,
  latitude REAL,
  longitude REAL,
  gps_timestamp DATETIME,
  custom_fields TEXT,
  is_synced INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func seedRecord(t *testing.T, repo Repository, landlord string, createdAt time.Time) *models.Record {
	t.Helper()
	record := &models.Record{
		ID:           uuid.New(),
		CollectedBy:  uuid.New(),
		RecordTitle:  landlord + " household",
		PersonType:   enums.PersonTypeLandlord,
		LandlordName: landlord,
		Town:         "Kisumu",
		Area:         "Milimani",
		CustomFields: dbtypes.FieldValues{"plot": "12"},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

func TestRepositoryRoundTrip(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedRecord(t, repo, "Grace Mwangi", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Grace Mwangi", found.LandlordName)
	assert.Equal(t, "12", found.CustomFields["plot"])
}

func TestRepositoryFindMissingReturnsNil(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepositoryListAllNewestFirst(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedRecord(t, repo, "Oldest", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	seedRecord(t, repo, "Newest", time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC))
	seedRecord(t, repo, "Middle", time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))

	rows, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Newest", rows[0].LandlordName)
	assert.Equal(t, "Middle", rows[1].LandlordName)
	assert.Equal(t, "Oldest", rows[2].LandlordName)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedRecord(t, repo, "Grace Mwangi", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Delete(ctx, created.ID))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedRecord(t, repo, "Grace Mwangi", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	created.Town = "Nakuru"
	created.CustomFields = dbtypes.FieldValues{"plot": "99"}
	require.NoError(t, repo.Update(ctx, created))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Nakuru", found.Town)
	assert.Equal(t, "99", found.CustomFields["plot"])
}
