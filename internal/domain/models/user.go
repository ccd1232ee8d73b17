// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account holds sign-in credentials. It is separate from the public
// profile (User) so a password hash never travels with display data.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`     // lowercase
	EmailCI      string             `bson:"email_ci" json:"-"`      // folded for matching
	PasswordHash string             `bson:"password_hash" json:"-"` // bcrypt hash (never in JSON)
	ConfirmedAt  *time.Time         `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Confirmed reports whether the account's email has been verified.
func (a Account) Confirmed() bool {
	return a.ConfirmedAt != nil
}

// User is the public profile of an account. AccountID links the two and is
// what comments store as their author.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
