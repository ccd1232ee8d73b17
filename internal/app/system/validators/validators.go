// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the app's collections (if missing) and attaches
// JSON-Schema validators. Servers without collMod support (some DocumentDB
// versions) get the collections only.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	ensure := func(coll string, schema bson.M) {
		if !have[coll] {
			if err := db.CreateCollection(ctx, coll); err != nil && !isNamespaceExistsErr(err) {
				problems = append(problems, coll+": "+err.Error())
				return
			}
			logger.Info("created collection", zap.String("collection", coll))
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("accounts", accountsSchema())
	ensure("users", usersSchema())
	ensure("comments", commentsSchema())
	ensure("email_verifications", nil)
	ensure("login_attempts", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// setValidator uses the moderate level so documents written before a schema
// change can still be updated.
func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func isNamespaceExistsErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") ||
		strings.Contains(s, "not implemented") ||
		strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func accountsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "email_ci", "password_hash", "created_at"},
			"properties": bson.M{
				"email":         bson.M{"bsonType": "string", "pattern": "@"},
				"email_ci":      bson.M{"bsonType": "string", "minLength": 3},
				"password_hash": bson.M{"bsonType": "string", "minLength": 1},
				"confirmed_at":  bson.M{"bsonType": "date"},
				"created_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "name", "name_ci"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"name":    bson.M{"bsonType": "string", "minLength": 2, "pattern": ".*\\S.*"},
				"name_ci": bson.M{"bsonType": "string", "minLength": 1},
				"email":   bson.M{"bsonType": "string"},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"post_id", "user_id", "content", "created_at"},
			"properties": bson.M{
				"post_id":    bson.M{"bsonType": "string", "minLength": 1},
				"user_id":    bson.M{"bsonType": "objectId"},
				"content":    bson.M{"bsonType": "string", "minLength": 1},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
