package sqlite_test

import (
	"context"
	"testing"

	"github.com/retailops/statusflow/internal/adapter/sqlite"
	"github.com/retailops/statusflow/internal/domain"
)

// createLegacy inserts one entity carrying only a legacy status string.
func createLegacy(t *testing.T, repo *sqlite.EntityRepository, storeID int64, entityType domain.EntityType, legacy string) domain.Entity {
	t.Helper()

	e, err := repo.Create(context.Background(), domain.Entity{
		StoreID:      storeID,
		Type:         entityType,
		LegacyStatus: &legacy,
	})
	if err != nil {
		t.Fatalf("creating legacy %s: %v", entityType, err)
	}
	return e
}

func TestCountEntities(t *testing.T) {
	db := newTestDB(t)
	entities := sqlite.NewEntityRepository(db, &recordingEnqueuer{})
	repo := sqlite.NewMigrationRepository(db)
	catalog := sqlite.NewCatalogRepository(db)
	ctx := context.Background()

	store := mustCreateStore(t, db, "counts")
	mustSeed(t, db, store.ID, domain.EntityTransaction)
	pending, _ := catalog.GetStatusBySlug(ctx, store.ID, domain.EntityTransaction, "pending")

	createLegacy(t, entities, store.ID, domain.EntityTransaction, "pending")
	migrated := createLegacy(t, entities, store.ID, domain.EntityTransaction, "pending")
	if err := repo.AssignStatuses(ctx, domain.EntityTransaction, map[int64]int64{migrated.ID: pending.ID}); err != nil {
		t.Fatalf("AssignStatuses failed: %v", err)
	}

	total, done, err := repo.CountEntities(ctx, store.ID, domain.EntityTransaction)
	if err != nil {
		t.Fatalf("CountEntities failed: %v", err)
	}
	if total != 2 || done != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", total, done)
	}
}

func TestListUnmigrated(t *testing.T) {
	db := newTestDB(t)
	entities := sqlite.NewEntityRepository(db, &recordingEnqueuer{})
	repo := sqlite.NewMigrationRepository(db)
	ctx := context.Background()

	store := mustCreateStore(t, db, "unmigrated")

	first := createLegacy(t, entities, store.ID, domain.EntityOrder, "draft")
	second := createLegacy(t, entities, store.ID, domain.EntityOrder, "confirmed")

	// A row with no legacy status at all is not a migration candidate.
	if _, err := entities.Create(ctx, domain.Entity{StoreID: store.ID, Type: domain.EntityOrder}); err != nil {
		t.Fatalf("creating statusless order: %v", err)
	}

	rows, err := repo.ListUnmigrated(ctx, store.ID, domain.EntityOrder, 0, 100)
	if err != nil {
		t.Fatalf("ListUnmigrated failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].ID != first.ID || rows[0].LegacyStatus != "draft" {
		t.Errorf("rows[0] = %+v, want id %d with draft", rows[0], first.ID)
	}

	// Keyset pagination starts after the given id.
	rows, err = repo.ListUnmigrated(ctx, store.ID, domain.EntityOrder, first.ID, 100)
	if err != nil {
		t.Fatalf("ListUnmigrated failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != second.ID {
		t.Errorf("rows after %d = %+v, want only id %d", first.ID, rows, second.ID)
	}

	// Limit caps the chunk.
	rows, err = repo.ListUnmigrated(ctx, store.ID, domain.EntityOrder, 0, 1)
	if err != nil {
		t.Fatalf("ListUnmigrated failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want 1 with limit 1", len(rows))
	}
}

func TestAssignStatuses_Batch(t *testing.T) {
	db := newTestDB(t)
	entities := sqlite.NewEntityRepository(db, &recordingEnqueuer{})
	repo := sqlite.NewMigrationRepository(db)
	catalog := sqlite.NewCatalogRepository(db)
	ctx := context.Background()

	store := mustCreateStore(t, db, "assign")
	mustSeed(t, db, store.ID, domain.EntityRepair)
	received, _ := catalog.GetStatusBySlug(ctx, store.ID, domain.EntityRepair, "received_by_vendor")
	completed, _ := catalog.GetStatusBySlug(ctx, store.ID, domain.EntityRepair, "completed")

	a := createLegacy(t, entities, store.ID, domain.EntityRepair, "received_by_vendor")
	b := createLegacy(t, entities, store.ID, domain.EntityRepair, "completed")
	untouched := createLegacy(t, entities, store.ID, domain.EntityRepair, "waiting_parts")

	if err := repo.AssignStatuses(ctx, domain.EntityRepair, map[int64]int64{
		a.ID: received.ID,
		b.ID: completed.ID,
	}); err != nil {
		t.Fatalf("AssignStatuses failed: %v", err)
	}

	gotA, _ := entities.Get(ctx, store.ID, domain.EntityRepair, a.ID)
	if gotA.StatusID == nil || *gotA.StatusID != received.ID {
		t.Errorf("a.StatusID = %v, want %d", gotA.StatusID, received.ID)
	}
	// The legacy string is left as recorded; it already matches the slug.
	if gotA.LegacyStatus == nil || *gotA.LegacyStatus != "received_by_vendor" {
		t.Errorf("a.LegacyStatus = %v, want %q", gotA.LegacyStatus, "received_by_vendor")
	}

	gotB, _ := entities.Get(ctx, store.ID, domain.EntityRepair, b.ID)
	if gotB.StatusID == nil || *gotB.StatusID != completed.ID {
		t.Errorf("b.StatusID = %v, want %d", gotB.StatusID, completed.ID)
	}

	gotU, _ := entities.Get(ctx, store.ID, domain.EntityRepair, untouched.ID)
	if gotU.StatusID != nil {
		t.Errorf("untouched.StatusID = %v, want nil", gotU.StatusID)
	}
}

func TestAssignStatuses_EmptyMapIsNoop(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewMigrationRepository(db)

	if err := repo.AssignStatuses(context.Background(), domain.EntityMemo, nil); err != nil {
		t.Fatalf("AssignStatuses(nil) error = %v", err)
	}
}
