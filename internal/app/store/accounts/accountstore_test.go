package accounts

import (
	"errors"
	"testing"

	"github.com/thedevbrian/folio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, "John@Doe.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	a, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if a.Email != "john@doe.com" {
		t.Errorf("Email = %q, want lowercase", a.Email)
	}
	if a.PasswordHash == "s3cret-pass" || a.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	if _, err := store.Authenticate(ctx, "john@doe.com", "s3cret-pass"); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("Authenticate() before confirm error = %v, want ErrNotConfirmed", err)
	}

	if err := store.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	got, err := store.Authenticate(ctx, "JOHN@doe.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != id {
		t.Errorf("Authenticate() id = %v, want %v", got.ID, id)
	}
}

func TestStore_AuthenticateFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, _ := store.Create(ctx, "john@doe.com", "s3cret-pass")
	_ = store.Confirm(ctx, id)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "john@doe.com", "nope-nope"},
		{"unknown email", "mary@doe.com", "s3cret-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Authenticate(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "john@doe.com", "s3cret-pass"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, "John@Doe.com", "other-pass"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Create() error = %v, want ErrEmailTaken", err)
	}
}

func TestStore_ConfirmKeepsFirstTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, _ := store.Create(ctx, "john@doe.com", "s3cret-pass")
	_ = store.Confirm(ctx, id)
	first, _ := store.GetByID(ctx, id)

	if err := store.Confirm(ctx, id); err != nil {
		t.Fatalf("second Confirm() error = %v", err)
	}
	second, _ := store.GetByID(ctx, id)
	if !first.ConfirmedAt.Equal(*second.ConfirmedAt) {
		t.Errorf("ConfirmedAt changed: %v -> %v", first.ConfirmedAt, second.ConfirmedAt)
	}

	if err := store.Confirm(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("Confirm(unknown) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, _ := store.Create(ctx, "john@doe.com", "s3cret-pass")
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, id); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID() after delete error = %v", err)
	}
}
