package photostore_test

import (
	"errors"
	"testing"

	photostore "github.com/dalemusser/nurseryhome/internal/app/store/photos"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/nurseryhome/internal/testutil"
)

func TestStore_CreateValidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Photo{StoragePath: "a.jpg"}); err == nil {
		t.Error("expected error without resident_id")
	}
	p, err := store.Create(ctx, models.Photo{ResidentID: "R1", StoragePath: "photos/a.jpg", Caption: "Sinh nhật"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Caption != "Sinh nhật" {
		t.Errorf("Caption = %q", got.Caption)
	}
}

func TestStore_ListByResidents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePhoto(ctx, "R1", "một")
	fx.CreatePhoto(ctx, "R2", "hai")
	fx.CreatePhoto(ctx, "R3", "ba")

	photos, err := store.ListByResidents(ctx, []string{"R1", "R3"})
	if err != nil {
		t.Fatalf("ListByResidents: %v", err)
	}
	if len(photos) != 2 {
		t.Errorf("len = %d, want 2", len(photos))
	}

	none, err := store.ListByResidents(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Errorf("empty ids: %v, %v", none, err)
	}

	recent, err := store.ListRecent(ctx, 2)
	if err != nil || len(recent) != 2 {
		t.Errorf("ListRecent: %d, %v", len(recent), err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePhoto(ctx, "R1", "x")
	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, p.ID); !errors.Is(err, photostore.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
