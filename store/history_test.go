package store

import (
	"path/filepath"
	"testing"
)

func openTestHistory(t *testing.T) *HistoryDB {
	t.Helper()
	db, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestHistorySessionLifecycle(t *testing.T) {
	db := openTestHistory(t)

	if err := db.SessionStarted("squat", "dev-1", "req-1"); err != nil {
		t.Fatalf("SessionStarted: %v", err)
	}
	if err := db.SessionSaved("squat", "dev-1", "req-2"); err != nil {
		t.Fatalf("SessionSaved: %v", err)
	}

	sessions, err := db.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.SportType != "squat" || s.DeviceUUID != "dev-1" || s.RequestID != "req-1" {
		t.Errorf("unexpected session %+v", s)
	}
	if s.SavedAt == nil {
		t.Error("expected session stamped as saved")
	}
}

func TestHistorySaveStampsLatestOpenSession(t *testing.T) {
	db := openTestHistory(t)

	if err := db.SessionStarted("punch", "dev-1", "req-1"); err != nil {
		t.Fatalf("SessionStarted: %v", err)
	}
	if err := db.SessionStarted("punch", "dev-1", "req-2"); err != nil {
		t.Fatalf("SessionStarted: %v", err)
	}
	if err := db.SessionSaved("punch", "dev-1", "req-3"); err != nil {
		t.Fatalf("SessionSaved: %v", err)
	}

	sessions, err := db.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	// Most recent first: the second start is the one stamped.
	if sessions[0].RequestID != "req-2" || sessions[0].SavedAt == nil {
		t.Errorf("expected latest session saved, got %+v", sessions[0])
	}
	if sessions[1].SavedAt != nil {
		t.Errorf("expected earlier session still open, got %+v", sessions[1])
	}
}

func TestHistorySaveWithoutOpenSession(t *testing.T) {
	db := openTestHistory(t)

	// A save with no matching open session is a no-op, not an error.
	if err := db.SessionSaved("situp", "dev-1", "req-1"); err != nil {
		t.Fatalf("SessionSaved: %v", err)
	}
	sessions, err := db.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestHistoryRecentLimit(t *testing.T) {
	db := openTestHistory(t)

	for i := 0; i < 5; i++ {
		if err := db.SessionStarted("pushup", "dev-1", "req"); err != nil {
			t.Fatalf("SessionStarted: %v", err)
		}
	}

	sessions, err := db.RecentSessions(3)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("expected 3 sessions, got %d", len(sessions))
	}
}

func TestHistoryMigrateIdempotent(t *testing.T) {
	db := openTestHistory(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
