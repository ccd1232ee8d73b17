// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the stores rely on for
// uniqueness and TTL cleanup.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes lists the wanted indexes per collection, in the order
// they are ensured.
var collectionIndexes = []struct {
	collection string
	models     []mongo.IndexModel
}{
	{"accounts", []mongo.IndexModel{
		// one account per folded email
		{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_accounts_email_ci")},
	}},
	{"users", []mongo.IndexModel{
		// display names are unique ignoring case and diacritics
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_users_name_ci")},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_users_user_id")},
	}},
	{"comments", []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "_id", Value: -1}}, Options: options.Index().SetName("idx_comments_post_id")},
	}},
	{"email_verifications", []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_emailverify_expires_ttl")},
		{Keys: bson.D{{Key: "token_hash", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_emailverify_token_hash")},
	}},
	{"login_attempts", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_login_attempts_email")},
		// a day after the last attempt
		{Keys: bson.D{{Key: "last_attempt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(86400).SetName("idx_login_attempts_ttl")},
	}},
}

// EnsureAll reconciles every collection's indexes. It is idempotent and
// reports all failures together so startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, ci := range collectionIndexes {
		if err := ensureIndexSet(ctx, db.Collection(ci.collection), ci.models, logger); err != nil {
			problems = append(problems, ci.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name       string `bson:"name"`
	Key        bson.D `bson:"key"`
	Unique     *bool  `bson:"unique,omitempty"`
	ExpireSecs *int32 `bson:"expireAfterSeconds,omitempty"`
}

// indexOpts is the part of an index definition that forces a rebuild when
// it changes.
type indexOpts struct {
	unique     bool
	expireSecs int32 // -1 when not a TTL index
}

func wantedOpts(o *options.IndexOptions) indexOpts {
	out := indexOpts{expireSecs: -1}
	if o == nil {
		return out
	}
	if o.Unique != nil {
		out.unique = *o.Unique
	}
	if o.ExpireAfterSeconds != nil {
		out.expireSecs = *o.ExpireAfterSeconds
	}
	return out
}

func (e existingIndex) opts() indexOpts {
	out := indexOpts{expireSecs: -1}
	if e.Unique != nil {
		out.unique = *e.Unique
	}
	if e.ExpireSecs != nil {
		out.expireSecs = *e.ExpireSecs
	}
	return out
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	var all []existingIndex
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	bySig := make(map[string]existingIndex, len(all))
	for _, idx := range all {
		bySig[keySig(idx.Key)] = idx
	}
	return bySig, nil
}

// ensureIndexSet creates missing indexes. An index with the same keys but
// different uniqueness or TTL is dropped and rebuilt.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		logger.Debug("list indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		sig := keySig(m.Keys.(bson.D))
		want := wantedOpts(m.Options)
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		log := logger.With(zap.String("collection", coll.Name()), zap.String("index", name), zap.String("keys", sig))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if ex.opts() == want {
				log.Debug("index present", zap.String("existing_name", ex.Name))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s: %v", name, ex.Name, err))
				continue
			}
			log.Info("index options changed; rebuilding", zap.String("existing_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if want.unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present)", name))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index ensure failed", zap.Error(err))
			continue
		}
		log.Info("index created", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
