package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	key := Hash([]byte("round-trip"))

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	want := []byte(`{"nodes":[]}`)
	if err := c.Set(ctx, key, want, TTLTrim); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("expected miss after delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	key := Hash([]byte("expiry"))

	if err := c.Set(ctx, key, []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Negative TTL means no expiration.
	if _, ok, _ := c.Get(ctx, key); !ok {
		t.Error("expected hit for entry without expiration")
	}

	if err := c.Set(ctx, key, []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("expected miss for expired entry")
	}
}

func TestFileCacheCorruptedEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	key := Hash([]byte("corrupt"))

	if err := c.Set(ctx, key, []byte("ok"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	path := filepath.Join(dir, key[:2], key+".json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}
	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected silent miss for corrupted entry, got ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupted entry should be removed")
	}
}

func TestFileCacheClearAndSize(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	for _, s := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, Hash([]byte(s)), []byte(s), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	size, err := c.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size == 0 {
		t.Error("expected non-zero cache size")
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	size, err = c.Size()
	if err != nil {
		t.Fatalf("Size after clear: %v", err)
	}
	if size != 0 {
		t.Errorf("expected empty cache after clear, got %d bytes", size)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := Hash([]byte("graph"))

	t.Run("deterministic", func(t *testing.T) {
		if k.TrimKey(base, 1000, 30) != k.TrimKey(base, 1000, 30) {
			t.Error("same inputs must produce same key")
		}
	})
	t.Run("distinct configs", func(t *testing.T) {
		if k.TrimKey(base, 1000, 30) == k.TrimKey(base, 1000, 10) {
			t.Error("different thresholds must produce different keys")
		}
	})
	t.Run("trim and mask keys disjoint", func(t *testing.T) {
		if k.TrimKey(base, 1000, 30) == k.MaskKey(base, 1000, 30, "decoder") {
			t.Error("trim and mask keys must differ")
		}
	})
	t.Run("orientation keyed", func(t *testing.T) {
		if k.MaskKey(base, 1000, 30, "decoder") == k.MaskKey(base, 1000, 30, "encoder") {
			t.Error("orientation must affect mask key")
		}
	})
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("null cache must always miss, got ok=%v err=%v", ok, err)
	}
}
