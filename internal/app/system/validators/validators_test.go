package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/validators"
	"github.com/dalemusser/nurseryhome/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"messages", "medical_records", "photos", "financial_reports", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestValidators(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	now := time.Now()

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{
			name: "valid message",
			coll: "messages",
			doc: bson.M{"sender_id": "f1", "sender_role": "family", "recipient_id": "staff",
				"content": "Xin chào", "timestamp": now, "read": false},
		},
		{
			name: "message with empty content",
			coll: "messages",
			doc: bson.M{"sender_id": "f1", "sender_role": "family", "recipient_id": "staff",
				"content": "", "timestamp": now, "read": false},
			wantErr: true,
		},
		{
			name: "message with unknown role",
			coll: "messages",
			doc: bson.M{"sender_id": "f1", "sender_role": "guest", "recipient_id": "staff",
				"content": "hi", "timestamp": now, "read": false},
			wantErr: true,
		},
		{
			name: "valid medical record",
			coll: "medical_records",
			doc: bson.M{"resident_id": "r1", "record_type": "checkup", "title": "Khám định kỳ",
				"recorded_at": now, "created_at": now},
		},
		{
			name: "medical record with unknown type",
			coll: "medical_records",
			doc: bson.M{"resident_id": "r1", "record_type": "surgery", "title": "x",
				"recorded_at": now, "created_at": now},
			wantErr: true,
		},
		{
			name:    "photo missing storage path",
			coll:    "photos",
			doc:     bson.M{"resident_id": "r1", "content_type": "image/png", "size_bytes": int64(10), "created_at": now},
			wantErr: true,
		},
		{
			name: "valid financial report",
			coll: "financial_reports",
			doc: bson.M{"resident_id": "r1", "title": "Phí chăm sóc", "amount": 3000000.0,
				"period_start": now, "period_end": now, "due_date": now, "status": "unpaid"},
		},
		{
			name: "financial report with unknown status",
			coll: "financial_reports",
			doc: bson.M{"resident_id": "r1", "title": "Phí chăm sóc", "amount": 3000000.0,
				"period_start": now, "period_end": now, "due_date": now, "status": "pending"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("insert failed: %v", err)
			}
		})
	}
}
