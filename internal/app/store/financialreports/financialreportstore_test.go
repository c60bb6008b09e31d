package financialreportstore_test

import (
	"errors"
	"testing"
	"time"

	financialreportstore "github.com/dalemusser/nurseryhome/internal/app/store/financialreports"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/nurseryhome/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateDefaultsAndValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialreportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	r, err := store.Create(ctx, models.FinancialReport{
		ResidentID:  "R1",
		Title:       "Phí tháng 5",
		Amount:      12000000,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.Status != financialreportstore.StatusUnpaid {
		t.Errorf("Status = %q, want unpaid", r.Status)
	}

	bad := []models.FinancialReport{
		{Amount: 1},
		{ResidentID: "R1"},
		{ResidentID: "R1", Amount: 1, PeriodStart: start, PeriodEnd: start.AddDate(0, 0, -1)},
		{ResidentID: "R1", Amount: 1, Status: "overdue"},
	}
	for i, b := range bad {
		if _, err := store.Create(ctx, b); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestStore_ListAndSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialreportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	apr := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	first, _ := store.Create(ctx, models.FinancialReport{ResidentID: "R1", Amount: 1, PeriodStart: apr})
	if _, err := store.Create(ctx, models.FinancialReport{ResidentID: "R1", Amount: 2, PeriodStart: may}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := store.ListByResident(ctx, "R1")
	if err != nil {
		t.Fatalf("ListByResident: %v", err)
	}
	if len(list) != 2 || list[0].Amount != 2 {
		t.Fatalf("list = %+v", list)
	}

	if err := store.SetStatus(ctx, first.ID, financialreportstore.StatusPaid); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, _ := store.GetByID(ctx, first.ID)
	if got.Status != financialreportstore.StatusPaid {
		t.Errorf("Status = %q", got.Status)
	}
	if err := store.SetStatus(ctx, primitive.NewObjectID(), financialreportstore.StatusPaid); !errors.Is(err, financialreportstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := store.SetStatus(ctx, first.ID, "bogus"); err == nil {
		t.Error("expected invalid status error")
	}
}
