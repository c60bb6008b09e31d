package medicalrecordstore_test

import (
	"errors"
	"testing"
	"time"

	medicalrecordstore "github.com/dalemusser/nurseryhome/internal/app/store/medicalrecords"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/nurseryhome/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := medicalrecordstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := store.Create(ctx, models.MedicalRecord{
		ResidentID:  "R1",
		RecordType:  "checkup",
		Title:       "Khám định kỳ",
		Medications: []string{"Paracetamol"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.RecordedAt.IsZero() {
		t.Error("RecordedAt should default to now")
	}

	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Khám định kỳ" || len(got.Medications) != 1 {
		t.Errorf("got %+v", got)
	}

	_, err = store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, medicalrecordstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_CreateRequiresFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := medicalrecordstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.MedicalRecord{Title: "x"}); err == nil {
		t.Error("expected error without resident_id")
	}
	if _, err := store.Create(ctx, models.MedicalRecord{ResidentID: "R1"}); err == nil {
		t.Error("expected error without title")
	}
}

func TestStore_ListByResident(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := medicalrecordstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()


	day := 24 * time.Hour
	now := time.Now().UTC()
	fx.CreateMedicalRecord(ctx, "R1", "cũ", now.Add(-2*day))
	fx.CreateMedicalRecord(ctx, "R1", "mới", now)
	fx.CreateMedicalRecord(ctx, "R2", "khác", now)

	recs, err := store.ListByResident(ctx, "R1")
	if err != nil {
		t.Fatalf("ListByResident: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Title != "mới" {
		t.Errorf("first = %q, want newest", recs[0].Title)
	}

	n, err := store.DeleteByResident(ctx, "R1")
	if err != nil || n != 2 {
		t.Errorf("DeleteByResident = %d, %v", n, err)
	}
}
