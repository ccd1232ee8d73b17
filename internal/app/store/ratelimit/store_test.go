package ratelimit

import (
	"testing"
	"time"

	"github.com/thedevbrian/folio/internal/testutil"
)

func newTestStore(t *testing.T, max int) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return New(db, max, 15*time.Minute, 30*time.Minute)
}

func TestStore_CheckAllowed_NoRecord(t *testing.T) {
	store := newTestStore(t, 5)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	allowed, remaining, lockedUntil := store.CheckAllowed(ctx, "newuser@example.com")
	if !allowed || remaining != 5 || lockedUntil != nil {
		t.Errorf("CheckAllowed() = %v, %d, %v; want true, 5, nil", allowed, remaining, lockedUntil)
	}
}

func TestStore_RecordFailure_CountsAndLocks(t *testing.T) {
	store := newTestStore(t, 3)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 1; i < 3; i++ {
		locked, _, err := store.RecordFailure(ctx, "john@doe.com")
		if err != nil {
			t.Fatalf("RecordFailure() error = %v", err)
		}
		if locked {
			t.Fatalf("RecordFailure() locked after %d failures", i)
		}
	}

	_, remaining, _ := store.CheckAllowed(ctx, "john@doe.com")
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}

	locked, until, err := store.RecordFailure(ctx, "john@doe.com")
	if err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}
	if !locked || until == nil {
		t.Fatal("third failure should lock")
	}

	allowed, remaining, _ := store.CheckAllowed(ctx, "john@doe.com")
	if allowed || remaining != -1 {
		t.Errorf("CheckAllowed() = %v, %d; want locked", allowed, remaining)
	}
}

func TestStore_CaseInsensitive(t *testing.T) {
	store := newTestStore(t, 5)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _, _ = store.RecordFailure(ctx, "John@Doe.com")
	_, _, _ = store.RecordFailure(ctx, "john@doe.com")

	a, err := store.GetAttempt(ctx, "JOHN@DOE.COM")
	if err != nil || a == nil {
		t.Fatalf("GetAttempt() = %v, %v", a, err)
	}
	if a.AttemptCount != 2 {
		t.Errorf("AttemptCount = %d, want 2", a.AttemptCount)
	}
}

func TestStore_WindowExpiryResets(t *testing.T) {
	store := newTestStore(t, 5)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now()
	store.now = func() time.Time { return start }
	_, _, _ = store.RecordFailure(ctx, "john@doe.com")
	_, _, _ = store.RecordFailure(ctx, "john@doe.com")

	store.now = func() time.Time { return start.Add(16 * time.Minute) }
	if _, _, err := store.RecordFailure(ctx, "john@doe.com"); err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}

	a, _ := store.GetAttempt(ctx, "john@doe.com")
	if a.AttemptCount != 1 {
		t.Errorf("AttemptCount after window = %d, want 1", a.AttemptCount)
	}
}

func TestStore_ClearOnSuccess(t *testing.T) {
	store := newTestStore(t, 5)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _, _ = store.RecordFailure(ctx, "john@doe.com")
	if err := store.ClearOnSuccess(ctx, "john@doe.com"); err != nil {
		t.Fatalf("ClearOnSuccess() error = %v", err)
	}
	if a, _ := store.GetAttempt(ctx, "john@doe.com"); a != nil {
		t.Errorf("GetAttempt() = %+v after clear, want nil", a)
	}
}
