// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/thedevbrian/folio/internal/app/system/auth"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"github.com/thedevbrian/folio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher. It reloads the account and its
// profile on each request.
type Fetcher struct {
	accounts *mongo.Collection
	users    *mongo.Collection
	logger   *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		accounts: db.Collection("accounts"),
		users:    db.Collection("users"),
		logger:   logger,
	}
}

// FetchUser returns nil if the account is missing, unconfirmed, or any
// error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var a models.Account
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "email": 1, "confirmed_at": 1})
	if err := f.accounts.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&a); err != nil {
		return nil
	}
	if !a.Confirmed() {
		return nil
	}

	su := &auth.SessionUser{ID: a.ID.Hex(), Email: a.Email}

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"user_id": oid}).Decode(&u); err != nil {
		f.logger.Warn("account has no profile", zap.String("user_id", userID), zap.Error(err))
	} else {
		su.Name = u.Name
	}
	return su
}
