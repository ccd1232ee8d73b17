package indexes_test

import (
	"testing"

	"github.com/thedevbrian/folio/internal/app/system/indexes"
	"github.com/thedevbrian/folio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	// SetupTestDB has already run EnsureAll once.
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll() second run error = %v", err)
	}

	want := map[string][]string{
		"accounts":            {"uniq_accounts_email_ci"},
		"users":               {"uniq_users_name_ci", "uniq_users_user_id"},
		"comments":            {"idx_comments_post_id"},
		"email_verifications": {"idx_emailverify_expires_ttl", "uniq_emailverify_token_hash"},
		"login_attempts":      {"uniq_login_attempts_email", "idx_login_attempts_ttl"},
	}
	for coll, names := range want {
		cur, err := db.Collection(coll).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("%s: list indexes: %v", coll, err)
		}
		var got []bson.M
		if err := cur.All(ctx, &got); err != nil {
			t.Fatalf("%s: decode indexes: %v", coll, err)
		}
		have := map[string]bool{}
		for _, idx := range got {
			if n, ok := idx["name"].(string); ok {
				have[n] = true
			}
		}
		for _, n := range names {
			if !have[n] {
				t.Errorf("%s: missing index %q", coll, n)
			}
		}
	}
}
