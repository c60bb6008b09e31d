// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll reconciles the indexes of every collection this app owns.
// Each collection is handled independently; all failures are reported
// together so startup fails with the full picture.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureMessages(ctx, db); err != nil {
		problems = append(problems, "messages: "+err.Error())
	}
	if err := ensureMedicalRecords(ctx, db); err != nil {
		problems = append(problems, "medical_records: "+err.Error())
	}
	if err := ensurePhotos(ctx, db); err != nil {
		problems = append(problems, "photos: "+err.Error())
	}
	if err := ensureFinancialReports(ctx, db); err != nil {
		problems = append(problems, "financial_reports: "+err.Error())
	}
	// the audit trail is queried by actor and target, newest first
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile the desired indexes of one collection                            */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

// keySig renders a key pattern as "field:dir, field:dir".
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

type action int

const (
	actionCreate action = iota
	actionReuse
	actionReplace // same keys, different name or uniqueness
)

// plan decides what to do with one desired index given the existing ones,
// keyed by signature.
func plan(existing map[string]existingIndex, sig, name string, unique bool) (action, existingIndex) {
	ex, ok := existing[sig]
	switch {
	case !ok:
		return actionCreate, ex
	case ex.Unique == unique && (name == "" || ex.Name == name):
		return actionReuse, ex
	default:
		return actionReplace, ex
	}
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]existingIndex)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("skipping undecodable index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates missing indexes and replaces ones whose name or
// uniqueness drifted. Indexes not listed are left alone.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		zap.L().Info("listing indexes failed; creating all", zap.String("collection", coll.Name()), zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique != nil && *m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))
		start := time.Now()

		act, ex := plan(existing, sig, name, unique)
		switch act {
		case actionReuse:
			log.Info("index present")
			continue
		case actionReplace:
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop of drifted index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop %s: %v", coll.Name(), name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			log.Warn("index create failed", zap.Error(err))
			if unique && wafflemongo.IsDup(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s",
					coll.Name(), name, duplicateHint(coll.Name(), sig)))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		log.Info("index ensured", zap.Bool("replaced", act == actionReplace), zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// duplicateHint points operators at the duplicates blocking a unique index.
func duplicateHint(coll, sig string) string {
	if coll == "messages" && strings.Contains(sig, "client_id:1") {
		return ". Find them with: " +
			`db.messages.aggregate([{ $match: { client_id: { $type: "string" } } }, { $group: { _id: "$client_id", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return ""
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("messages")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One stored message per submitted form (client_id is set by the send form)
		{
			Keys: bson.D{{Key: "client_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_messages_client_id").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"client_id": bson.M{"$type": "string"}}),
		},
		// Whole log in time order (staff inbox)
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("idx_messages_timestamp"),
		},
		// Mark-read by sender
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("idx_messages_sender_read"),
		},
		// Family thread / replies addressed to a family member
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("idx_messages_recipient_ts"),
		},
	})
}

func ensureMedicalRecords(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("medical_records")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "resident_id", Value: 1}, {Key: "recorded_at", Value: -1}},
			Options: options.Index().SetName("idx_medrec_resident_recorded"),
		},
	})
}

func ensurePhotos(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("photos")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Family gallery: photos of my residents, newest first
		{
			Keys:    bson.D{{Key: "resident_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_photos_resident_created"),
		},
		// Staff gallery: recent uploads
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_photos_created"),
		},
	})
}

func ensureFinancialReports(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("financial_reports")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "resident_id", Value: 1}, {Key: "period_start", Value: -1}},
			Options: options.Index().SetName("idx_finrep_resident_period"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_ts"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_ts"),
		},
		{
			Keys:    bson.D{{Key: "target_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_target_ts"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_cat_type_ts"),
		},
	})
}
