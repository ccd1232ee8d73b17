// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Attempt tracks failed sign-in attempts for one email.
type Attempt struct {
	Email        string     `bson:"email"`         // folded email
	AttemptCount int        `bson:"attempt_count"` // Failed attempts in current window
	WindowStart  time.Time  `bson:"window_start"`  // When the current counting window started
	LockedUntil  *time.Time `bson:"locked_until"`  // Lockout expiry time (nil if not locked)
	LastAttempt  time.Time  `bson:"last_attempt"`  // Most recent attempt (for TTL cleanup)
}

// Store manages failed sign-in tracking.
type Store struct {
	c               *mongo.Collection
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

// New creates a new rate limit Store. maxAttempts failures inside window
// lock the email for lockout.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	return &Store{
		c:               db.Collection("login_attempts"),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		now:             time.Now,
	}
}

func key(email string) string {
	return text.Fold(email)
}

// CheckAllowed checks if the given email may attempt to sign in.
// Returns:
//   - allowed: true if the attempt should be processed
//   - remaining: attempts left before lockout (-1 if locked)
//   - lockedUntil: when the lockout expires (nil if not locked)
//
// Lookup errors allow the attempt; the lockout is a brake, not a gate.
func (s *Store) CheckAllowed(ctx context.Context, email string) (allowed bool, remaining int, lockedUntil *time.Time) {
	now := s.now()

	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"email": key(email)}).Decode(&attempt)
	if err != nil {
		return true, s.maxAttempts, nil
	}

	if attempt.LockedUntil != nil && now.Before(*attempt.LockedUntil) {
		return false, -1, attempt.LockedUntil
	}
	if now.After(attempt.WindowStart.Add(s.windowDuration)) {
		return true, s.maxAttempts, nil
	}

	remaining = s.maxAttempts - attempt.AttemptCount
	if remaining <= 0 {
		// Lock expired inside the same window; one more try is allowed.
		return true, 1, nil
	}
	return true, remaining, nil
}

// RecordFailure counts one failed attempt in a single upsert and reports
// whether it locked the email.
func (s *Store) RecordFailure(ctx context.Context, email string) (lockedOut bool, lockedUntil *time.Time, err error) {
	now := s.now()
	lockUntil := now.Add(s.lockoutDuration)

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"expired": bson.M{"$or": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$window_start", nil}}, nil}},
				bson.M{"$lt": bson.A{"$window_start", now.Add(-s.windowDuration)}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"attempt_count": bson.M{"$cond": bson.A{"$expired", 1, bson.M{"$add": bson.A{"$attempt_count", 1}}}},
			"window_start":  bson.M{"$cond": bson.A{"$expired", now, "$window_start"}},
			"last_attempt":  now,
		}}},
		{{Key: "$set", Value: bson.M{
			"locked_until": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$attempt_count", s.maxAttempts}},
				lockUntil,
				bson.M{"$cond": bson.A{"$expired", nil, "$locked_until"}},
			}},
		}}},
		{{Key: "$unset", Value: "expired"}},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var attempt Attempt
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"email": key(email)}, pipeline, opts).Decode(&attempt); err != nil {
		return false, nil, err
	}

	if attempt.LockedUntil != nil && now.Before(*attempt.LockedUntil) {
		return true, attempt.LockedUntil, nil
	}
	return false, nil, nil
}

// ClearOnSuccess removes the record after a successful sign-in.
func (s *Store) ClearOnSuccess(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": key(email)})
	return err
}

// GetAttempt returns the current attempt record, or nil when there is none.
func (s *Store) GetAttempt(ctx context.Context, email string) (*Attempt, error) {
	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"email": key(email)}).Decode(&attempt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
