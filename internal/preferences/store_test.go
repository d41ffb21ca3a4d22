package preferences

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreUpdateAndGet(t *testing.T) {
	s := openTestStore(t)

	prefs, err := s.Get(7)
	if err != nil || len(prefs) != 0 {
		t.Fatalf("Get() on empty store = %v, %v", prefs, err)
	}

	if _, err := s.Update(7, map[string]string{KeyCurrency: "USD", KeyDollarType: "blue"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	prefs, err = s.Update(7, map[string]string{KeyTheme: "dark", KeyDollarType: ""})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if prefs[KeyCurrency] != "USD" || prefs[KeyTheme] != "dark" {
		t.Errorf("merged prefs = %v", prefs)
	}
	if _, ok := prefs[KeyDollarType]; ok {
		t.Errorf("empty value did not remove %s", KeyDollarType)
	}

	stored, _ := s.Get(7)
	if len(stored) != 2 {
		t.Errorf("Get() = %v, want 2 keys", stored)
	}
	other, _ := s.Get(8)
	if len(other) != 0 {
		t.Errorf("other user prefs = %v", other)
	}
}

func TestStoreRejectsUnknownKey(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Update(1, map[string]string{"auth_token": "x"}); err == nil {
		t.Error("Update() accepted an unknown key")
	}
}
