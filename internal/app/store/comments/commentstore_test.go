package comments

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	userstore "github.com/thedevbrian/folio/internal/app/store/users"
	"github.com/thedevbrian/folio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	john := primitive.NewObjectID()
	if _, err := userstore.New(db).CreateProfile(ctx, "john", "john@doe.com", john); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	ghost := primitive.NewObjectID()

	for _, c := range []struct {
		user    primitive.ObjectID
		content string
	}{
		{john, "first"},
		{ghost, "second"},
		{john, "third"},
	} {
		if _, err := store.Insert(ctx, "post-1", c.user, c.content); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	if _, err := store.Insert(ctx, "post-2", john, "elsewhere"); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := store.ListByPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}

	type row struct{ Content, Author string }
	var rows []row
	for _, c := range got {
		rows = append(rows, row{c.Content, c.AuthorName})
	}
	want := []row{{"third", "john"}, {"second", ""}, {"first", "john"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("comments mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ListByPost_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := New(db).ListByPost(ctx, "nothing")
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListByPost() = %v, want empty slice", got)
	}
}
