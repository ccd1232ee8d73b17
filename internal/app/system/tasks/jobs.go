// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// unconfirmedBatch caps how many accounts one run removes.
const unconfirmedBatch = 500

// UnconfirmedAccountCleanupJob removes accounts that were never confirmed
// within maxAge, together with their profiles, so the email and display
// name can be registered again.
func UnconfirmedAccountCleanupJob(db *mongo.Database, logger *zap.Logger, maxAge time.Duration) Job {
	return Job{
		Name:     "unconfirmed-account-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			n, err := PurgeUnconfirmed(ctx, db, time.Now().Add(-maxAge))
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("cleaned up unconfirmed accounts", zap.Int64("deleted", n))
			}
			return nil
		},
	}
}

// PurgeUnconfirmed deletes unconfirmed accounts created before cutoff and
// their profiles. Profiles go first so a failure never leaves a profile
// without an account.
func PurgeUnconfirmed(ctx context.Context, db *mongo.Database, cutoff time.Time) (int64, error) {
	accounts := db.Collection("accounts")

	filter := bson.M{
		"confirmed_at": bson.M{"$exists": false},
		"created_at":   bson.M{"$lt": cutoff},
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetLimit(unconfirmedBatch)
	cur, err := accounts.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	if _, err := db.Collection("users").DeleteMany(ctx, bson.M{"user_id": bson.M{"$in": ids}}); err != nil {
		return 0, err
	}
	// Re-check the state so an account confirmed mid-run survives.
	res, err := accounts.DeleteMany(ctx, bson.M{
		"_id":          bson.M{"$in": ids},
		"confirmed_at": bson.M{"$exists": false},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
