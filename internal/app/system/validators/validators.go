// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	financialreportstore "github.com/dalemusser/nurseryhome/internal/app/store/financialreports"
	"github.com/dalemusser/nurseryhome/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if unsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("messages", messagesSchema())
	ensure("medical_records", medicalRecordsSchema())
	ensure("photos", photosSchema())
	ensure("financial_reports", financialReportsSchema())

	// Append-only; no validator.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collections and validators ----------------------- */

// ensureCollection creates name unless it exists. created reports whether
// this call made it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	names, listErr := db.ListCollectionNames(ctx, bson.M{"name": name})
	if listErr == nil && len(names) > 0 {
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if hasCode(err, 48, "already exists", "namespace exists") {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

// setValidator attaches schema with moderate validation, so documents
// written before the schema existed are not rejected on update.
func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

// unsupported reports servers without collMod validators (some DocumentDB
// versions).
func unsupported(err error) bool {
	return hasCode(err, 59, "no such command") ||
		hasCode(err, 115, "not implemented", "not supported")
}

// hasCode matches a command error code, or any of the phrases in the
// error text.
func hasCode(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

func messagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"sender_id", "sender_role", "recipient_id", "content", "timestamp", "read"},
			"properties": bson.M{
				"client_id":    bson.M{"bsonType": "string"},
				"sender_id":    bson.M{"bsonType": "string", "minLength": 1},
				"sender_role":  bson.M{"enum": bson.A{models.RoleAdmin, models.RoleStaff, models.RoleFamily}},
				"recipient_id": bson.M{"bsonType": "string", "minLength": 1},
				"content":      bson.M{"bsonType": "string", "minLength": 1},
				"timestamp":    bson.M{"bsonType": "date"},
				"read":         bson.M{"bsonType": "bool"},
			},
		},
	}
}

func medicalRecordsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"resident_id", "record_type", "title", "recorded_at", "created_at"},
			"properties": bson.M{
				"resident_id": bson.M{"bsonType": "string", "minLength": 1},
				"record_type": bson.M{"enum": bson.A{"checkup", "medication", "incident", "other"}},
				"title":       bson.M{"bsonType": "string", "minLength": 1},
				"medications": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"recorded_at": bson.M{"bsonType": "date"},
				"created_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func photosSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"resident_id", "storage_path", "content_type", "size_bytes", "created_at"},
			"properties": bson.M{
				"resident_id":  bson.M{"bsonType": "string", "minLength": 1},
				"storage_path": bson.M{"bsonType": "string", "minLength": 1},
				"content_type": bson.M{"bsonType": "string"},
				"size_bytes":   bson.M{"bsonType": "number", "minimum": 0},
				"tags":         bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"created_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func financialReportsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"resident_id", "title", "amount", "period_start", "period_end", "due_date", "status"},
			"properties": bson.M{
				"resident_id":  bson.M{"bsonType": "string", "minLength": 1},
				"title":        bson.M{"bsonType": "string", "minLength": 1},
				"amount":       bson.M{"bsonType": "number", "minimum": 0},
				"period_start": bson.M{"bsonType": "date"},
				"period_end":   bson.M{"bsonType": "date"},
				"due_date":     bson.M{"bsonType": "date"},
				"status": bson.M{"enum": bson.A{
					financialreportstore.StatusUnpaid, financialreportstore.StatusPaid, financialreportstore.StatusRefunded,
				}},
			},
		},
	}
}
