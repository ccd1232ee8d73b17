// internal/app/store/emailverify/emailverifystore.go
package emailverify

import (
	"context"
	"errors"
	"time"

	"github.com/thedevbrian/folio/internal/app/system/authutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Verification types accepted on the confirm link.
const (
	TypeEmail  = "email"
	TypeSignup = "signup"
)

// ErrInvalidToken is returned for unknown, used, or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verification is a pending email confirmation. The token itself is never
// stored, only its hash.
type Verification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	AccountID primitive.ObjectID `bson:"account_id"`
	TokenHash string             `bson:"token_hash"`
	Used      bool               `bson:"used"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store provides access to the email_verifications collection.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a new email verification store.
func New(db *mongo.Database, expiry time.Duration) *Store {
	return &Store{
		c:      db.Collection("email_verifications"),
		expiry: expiry,
	}
}

// Expiry is how long a confirmation link stays valid.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Create records a pending confirmation and returns the token for the link.
func (s *Store) Create(ctx context.Context, email string, accountID primitive.ObjectID) (string, error) {
	token, err := authutil.NewToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	v := Verification{
		ID:        primitive.NewObjectID(),
		Email:     email,
		AccountID: accountID,
		TokenHash: authutil.HashToken(token),
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return "", err
	}
	return token, nil
}

// Consume marks the token used and returns its verification. A token can
// be consumed once.
func (s *Store) Consume(ctx context.Context, token string) (*Verification, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	filter := bson.M{
		"token_hash": authutil.HashToken(token),
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v Verification
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"used": true}}, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
