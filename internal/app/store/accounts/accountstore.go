// internal/app/store/accounts/accountstore.go
package accounts

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/thedevbrian/folio/internal/app/system/authutil"
	"github.com/thedevbrian/folio/internal/app/system/normalize"
	"github.com/thedevbrian/folio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrEmailTaken is returned by Create when an account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Authenticate for an unknown email
	// or a wrong password. The two cases are not told apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotConfirmed is returned by Authenticate before the email is verified.
	ErrNotConfirmed = errors.New("email not confirmed")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create registers an unconfirmed account and returns its id.
func (s *Store) Create(ctx context.Context, email, password string) (primitive.ObjectID, error) {
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return primitive.NilObjectID, err
	}

	email = normalize.Email(email)
	now := time.Now()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return primitive.NilObjectID, ErrEmailTaken
		}
		return primitive.NilObjectID, err
	}
	return a.ID, nil
}

// GetByID loads an account by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail looks up an account by case/diacritic-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	folded := text.Fold(normalize.Email(email))
	if err := s.c.FindOne(ctx, bson.M{"email_ci": folded}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Authenticate checks email and password. The password is verified before
// the confirmation state so an unconfirmed account does not reveal itself
// to someone without the password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !authutil.CheckPassword(password, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !a.Confirmed() {
		return nil, ErrNotConfirmed
	}
	return a, nil
}

// Confirm marks the account's email as verified. Confirming twice keeps the
// first timestamp.
func (s *Store) Confirm(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		[]bson.M{{"$set": bson.M{
			"confirmed_at": bson.M{"$ifNull": bson.A{"$confirmed_at", now}},
			"updated_at":   now,
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an account. Signup uses it to undo a half-finished
// registration.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
