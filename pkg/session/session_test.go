package session

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	store, err := NewStore(TypeBBolt, path)
	if err != nil {
		t.Fatalf("NewStore bbolt: %v", err)
	}
	if tok, err := store.Token(); err != nil || tok != "" {
		t.Fatalf("expected empty token, got %q err=%v", tok, err)
	}
	if err := store.SetToken("abc123"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := store.SetCurrentUser([]byte(`{"email":"a@b.ru"}`)); err != nil {
		t.Fatalf("SetCurrentUser: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(TypeBBolt, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	tok, err := reopened.Token()
	if err != nil || tok != "abc123" {
		t.Fatalf("expected persisted token, got %q err=%v", tok, err)
	}
	user, err := reopened.CurrentUser()
	if err != nil || string(user) != `{"email":"a@b.ru"}` {
		t.Fatalf("expected persisted user, got %q err=%v", user, err)
	}

	if err := reopened.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if err := reopened.ClearCurrentUser(); err != nil {
		t.Fatalf("ClearCurrentUser: %v", err)
	}
	if tok, _ := reopened.Token(); tok != "" {
		t.Fatalf("expected cleared token, got %q", tok)
	}
	if user, _ := reopened.CurrentUser(); user != nil {
		t.Fatalf("expected cleared user, got %q", user)
	}
}

func TestBoltStoreRequiresPath(t *testing.T) {
	if _, err := NewStore("bbolt", " "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", ""); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestNoopStoreForgetsEverything(t *testing.T) {
	store, err := NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.SetToken("x"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if tok, _ := store.Token(); tok != "" {
		t.Fatalf("noop store returned %q", tok)
	}
}

func TestMemoryStoreCopiesUserBytes(t *testing.T) {
	store, err := NewStore("", "")
	if err != nil {
		t.Fatalf("NewStore default: %v", err)
	}
	raw := []byte(`{"id":1}`)
	_ = store.SetCurrentUser(raw)
	raw[0] = 'X'

	got, _ := store.CurrentUser()
	if string(got) != `{"id":1}` {
		t.Fatalf("store aliased caller bytes: %q", got)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SetToken("t")
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Token()
		}()
	}
	wg.Wait()
	if tok, _ := store.Token(); tok != "t" {
		t.Fatalf("token = %q", tok)
	}
}
