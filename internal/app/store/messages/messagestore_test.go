package messagestore_test

import (
	"errors"
	"testing"
	"time"

	messagestore "github.com/dalemusser/nurseryhome/internal/app/store/messages"
	"github.com/dalemusser/nurseryhome/internal/app/system/indexes"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/nurseryhome/internal/testutil"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.Insert(ctx, models.Message{
		SenderID:    "F1",
		SenderRole:  models.RoleFamily,
		RecipientID: "S1",
		Content:     "  Xin chào  ",
		Read:        true,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if m.ID.IsZero() || m.Timestamp.IsZero() {
		t.Error("expected id and timestamp to be assigned")
	}
	if m.Content != "Xin chào" {
		t.Errorf("Content: got %q", m.Content)
	}
	if m.Read {
		t.Error("new messages start unread")
	}
}

func TestStore_InsertRejectsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Insert(ctx, models.Message{SenderID: "F1", RecipientID: "S1", Content: "   "})
	if !errors.Is(err, messagestore.ErrEmptyContent) {
		t.Errorf("err = %v, want ErrEmptyContent", err)
	}
	_, err = store.Insert(ctx, models.Message{SenderID: "F1", Content: "hi"})
	if !errors.Is(err, messagestore.ErrMissingParty) {
		t.Errorf("err = %v, want ErrMissingParty", err)
	}
}

func TestStore_ListAndMarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()


	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	fx.CreateMessage(ctx, testutil.FamilyMessage("F1", "S1", "một", base))
	fx.CreateMessage(ctx, testutil.StaffMessage("S1", "F1", "hai", base.Add(time.Minute)))
	fx.CreateMessage(ctx, testutil.FamilyMessage("F1", "S1", "ba", base.Add(2*time.Minute)))
	fx.CreateMessage(ctx, testutil.FamilyMessage("F2", "S1", "bốn", base.Add(3*time.Minute)))

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 4 || all[0].Content != "một" || all[3].Content != "bốn" {
		t.Fatalf("ListAll order wrong: %+v", all)
	}

	mine, err := store.ListForFamily(ctx, "F1")
	if err != nil {
		t.Fatalf("ListForFamily: %v", err)
	}
	if len(mine) != 3 {
		t.Errorf("ListForFamily len = %d, want 3", len(mine))
	}

	unread, _ := store.CountUnreadFromFamily(ctx)
	if unread != 3 {
		t.Errorf("unread before = %d, want 3", unread)
	}

	n, err := store.MarkReadFrom(ctx, "F1")
	if err != nil {
		t.Fatalf("MarkReadFrom: %v", err)
	}
	if n != 2 {
		t.Errorf("marked = %d, want 2", n)
	}
	unread, _ = store.CountUnreadFromFamily(ctx)
	if unread != 1 {
		t.Errorf("unread after = %d, want 1", unread)
	}
}

func TestStore_MarkReadTo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reply := testutil.StaffMessage("S1", "F1", "trả lời", time.Now())
	reply.Read = false
	fx.CreateMessage(ctx, reply)
	fx.CreateMessage(ctx, testutil.FamilyMessage("F1", "S1", "hỏi", time.Now()))

	n, err := store.MarkReadTo(ctx, "F1")
	if err != nil {
		t.Fatalf("MarkReadTo: %v", err)
	}
	if n != 1 {
		t.Errorf("marked = %d, want 1", n)
	}
	unread, _ := store.CountUnreadFromFamily(ctx)
	if unread != 1 {
		t.Errorf("family message should stay unread, got %d", unread)
	}
}

func TestStore_InsertDuplicateClientID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	m := models.Message{ClientID: "c-1", SenderID: "S1", SenderRole: models.RoleStaff, RecipientID: "F1", Content: "chào"}
	if _, err := store.Insert(ctx, m); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if _, err := store.Insert(ctx, m); !errors.Is(err, messagestore.ErrDuplicateSend) {
		t.Errorf("second Insert err = %v, want ErrDuplicateSend", err)
	}
}
