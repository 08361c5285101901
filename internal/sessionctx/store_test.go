package sessionctx

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testStore runs the Store contract against a backend: unbound reads,
// set/get roundtrip, whole-binding overwrite, per-session isolation,
// and idempotent delete.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, "unbound")
	if err != nil {
		t.Fatalf("Get on unbound session failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get on unbound session = %+v, want nil", got)
	}

	binding := Context{Component: "billing", Version: "1.0"}
	if err := store.Set(ctx, "s1", binding); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || *got != binding {
		t.Errorf("Get = %+v, want %+v", got, binding)
	}

	// Rebinding replaces the whole binding.
	rebound := Context{Component: "catalog", Version: "2.0"}
	if err := store.Set(ctx, "s1", rebound); err != nil {
		t.Fatalf("rebind Set failed: %v", err)
	}
	got, _ = store.Get(ctx, "s1")
	if got == nil || *got != rebound {
		t.Errorf("Get after rebind = %+v, want %+v", got, rebound)
	}

	// Another session never sees s1's binding.
	got, err = store.Get(ctx, "s2")
	if err != nil {
		t.Fatalf("Get for second session failed: %v", err)
	}
	if got != nil {
		t.Errorf("second session sees %+v, want nil", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ = store.Get(ctx, "s1")
	if got != nil {
		t.Errorf("Get after delete = %+v, want nil", got)
	}
	// Deleting an already-deleted session is not an error.
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Errorf("repeated Delete failed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	testStore(t, store)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client)
	defer store.Close()
	testStore(t, store)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client)
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "abc", Context{Component: "billing", Version: "1.0"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, err := mr.Get("vision:ctx:abc")
	if err != nil {
		t.Fatalf("binding not stored under namespaced key: %v", err)
	}
	var binding Context
	if err := json.Unmarshal([]byte(raw), &binding); err != nil {
		t.Fatalf("stored binding is not JSON: %v", err)
	}
	if binding.Component != "billing" || binding.Version != "1.0" {
		t.Errorf("stored binding = %+v", binding)
	}
}

func TestRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore("not a url"); err == nil {
		t.Error("expected error for malformed redis url")
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()
	testStore(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := store.Set(ctx, "s1", Context{Component: "billing", Version: "1.0"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got == nil || got.Component != "billing" || got.Version != "1.0" {
		t.Errorf("binding after reopen = %+v", got)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	for _, backend := range []string{"", BackendMemory} {
		store, err := New(Config{Backend: backend})
		if err != nil {
			t.Fatalf("New(%q) failed: %v", backend, err)
		}
		store.Close()
	}

	store, err := New(Config{Backend: BackendSQLite, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New(sqlite) failed: %v", err)
	}
	store.Close()

	if _, err := New(Config{Backend: "etcd"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestContextKey(t *testing.T) {
	c := Context{Component: "billing", Version: "1.0"}
	key := c.Key()
	if key.Component != "billing" || key.Version != "1.0" {
		t.Errorf("Key() = %+v", key)
	}
}
