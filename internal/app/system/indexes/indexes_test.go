package indexes_test

import (
	"testing"

	"github.com/dalemusser/nurseryhome/internal/app/system/indexes"
	"github.com/dalemusser/nurseryhome/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	// Second call should also succeed (idempotent)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("Decode index failed: %v", err)
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"messages":          {"uniq_messages_client_id", "idx_messages_timestamp", "idx_messages_sender_read", "idx_messages_recipient_ts"},
		"medical_records":   {"idx_medrec_resident_recorded"},
		"photos":            {"idx_photos_resident_created", "idx_photos_created"},
		"financial_reports": {"idx_finrep_resident_period"},
		"audit_events":      {"idx_audit_ts", "idx_audit_actor_ts", "idx_audit_target_ts", "idx_audit_cat_type_ts"},
	}
	for coll, names := range expected {
		got := indexNames(t, db, coll)
		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesExistingIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys under an old name should be renamed, not duplicated.
	_, err := db.Collection("photos").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("old_created"),
	})
	if err != nil {
		t.Fatalf("CreateOne failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexNames(t, db, "photos")
	if got["old_created"] {
		t.Error("old index name should have been replaced")
	}
	if !got["idx_photos_created"] {
		t.Error("expected idx_photos_created")
	}
}

func TestEnsureAll_UniqueClientIDEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	msgs := db.Collection("messages")
	if _, err := msgs.InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "client_id": "abc", "content": "một"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := msgs.InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "client_id": "abc", "content": "hai"}); err == nil {
		t.Error("expected duplicate key error for unique index on messages.client_id")
	}

	// Messages without client_id are not constrained.
	for i := 0; i < 2; i++ {
		if _, err := msgs.InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "content": "x"}); err != nil {
			t.Fatalf("Insert without client_id failed: %v", err)
		}
	}
}
