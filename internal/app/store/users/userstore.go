// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/thedevbrian/folio/internal/app/system/normalize"
	"github.com/thedevbrian/folio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNameTaken is returned when another profile already uses the display
// name (compared case- and diacritic-insensitively).
var ErrNameTaken = errors.New("display name already in use")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// CreateProfile inserts the public profile for an account.
func (s *Store) CreateProfile(ctx context.Context, name, email string, accountID primitive.ObjectID) (primitive.ObjectID, error) {
	name = normalize.Name(name)
	u := models.User{
		ID:        primitive.NewObjectID(),
		AccountID: accountID,
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     normalize.Email(email),
		CreatedAt: time.Now(),
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return primitive.NilObjectID, ErrNameTaken
		}
		return primitive.NilObjectID, err
	}
	return u.ID, nil
}

// ListDisplayNames returns every display name in use.
func (s *Store) ListDisplayNames(ctx context.Context) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "name", bson.M{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(vals))
	for _, v := range vals {
		if n, ok := v.(string); ok {
			names = append(names, n)
		}
	}
	return names, nil
}

// GetByAccountID loads the profile belonging to an account.
func (s *Store) GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"user_id": accountID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// NameInUse reports whether name matches one of names, ignoring case and
// diacritics.
func NameInUse(names []string, name string) bool {
	folded := text.Fold(normalize.Name(name))
	for _, n := range names {
		if text.Fold(n) == folded {
			return true
		}
	}
	return false
}
