package indexes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestKeySig(t *testing.T) {
	got := keySig(bson.D{{Key: "resident_id", Value: 1}, {Key: "recorded_at", Value: -1}})
	if got != "resident_id:1, recorded_at:-1" {
		t.Errorf("keySig = %q", got)
	}
}

func TestPlan(t *testing.T) {
	existing := map[string]existingIndex{
		"client_id:1": {Name: "uniq_messages_client_id", Unique: true},
		"timestamp:1": {Name: "timestamp_1"},
	}
	tests := []struct {
		name   string
		sig    string
		idx    string
		unique bool
		want   action
	}{
		{"missing", "sender_id:1", "idx_x", false, actionCreate},
		{"same name and uniqueness", "client_id:1", "uniq_messages_client_id", true, actionReuse},
		{"unnamed desired index", "timestamp:1", "", false, actionReuse},
		{"renamed", "timestamp:1", "idx_messages_timestamp", false, actionReplace},
		{"uniqueness changed", "client_id:1", "uniq_messages_client_id", false, actionReplace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := plan(existing, tt.sig, tt.idx, tt.unique); got != tt.want {
				t.Errorf("plan = %v, want %v", got, tt.want)
			}
		})
	}
}
