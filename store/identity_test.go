package store

import (
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	s := NewIdentityStore(t.TempDir())

	// Nothing stored yet.
	if id, err := s.Load(); err != nil || id != nil {
		t.Fatalf("expected empty store, got %+v, err %v", id, err)
	}
	if _, ok := s.UserUUID(); ok {
		t.Fatal("expected no user uuid in empty store")
	}

	want := &Identity{UserUUID: "u-1", DeviceUUID: "d-1"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UserUUID != "u-1" || got.DeviceUUID != "d-1" {
		t.Errorf("loaded identity mismatch: %+v", got)
	}

	if user, ok := s.UserUUID(); !ok || user != "u-1" {
		t.Errorf("UserUUID: got %q, %v", user, ok)
	}
	if dev, ok := s.DeviceUUID(); !ok || dev != "d-1" {
		t.Errorf("DeviceUUID: got %q, %v", dev, ok)
	}
}

func TestIdentityWithoutDevice(t *testing.T) {
	s := NewIdentityStore(t.TempDir())
	if err := s.Save(&Identity{UserUUID: "u-1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, ok := s.UserUUID(); !ok {
		t.Error("expected user uuid present")
	}
	if _, ok := s.DeviceUUID(); ok {
		t.Error("expected no device uuid")
	}
}

func TestIdentitySaveValidation(t *testing.T) {
	s := NewIdentityStore(t.TempDir())
	if err := s.Save(nil); err == nil {
		t.Error("expected error saving nil identity")
	}
	if err := s.Save(&Identity{}); err == nil {
		t.Error("expected error saving identity without user uuid")
	}
}

func TestIdentityClear(t *testing.T) {
	s := NewIdentityStore(t.TempDir())

	// Clearing an absent identity is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := s.Save(&Identity{UserUUID: "u-1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.UserUUID(); ok {
		t.Error("expected no user uuid after clear")
	}
}
