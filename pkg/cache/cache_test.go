package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "digits:100")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Round trip
	want := []byte("1415926535")
	if err := c.Set(ctx, "digits:100", want, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "digits:100")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Delete
	if err := c.Delete(ctx, "digits:100"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "digits:100")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting an absent key is fine
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of absent key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Determinism
	if k.DigitsKey(1000) != k.DigitsKey(1000) {
		t.Error("DigitsKey should be deterministic")
	}

	// Precision distinguishes digit keys
	if k.DigitsKey(1000) == k.DigitsKey(2000) {
		t.Error("Different precisions should produce different keys")
	}

	// Config hash distinguishes plan keys
	if k.PlanKey("hashA") == k.PlanKey("hashB") {
		t.Error("Different config hashes should produce different keys")
	}

	// Options distinguish artifact keys
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Thumbnail: true, ThumbEdge: 600})
	if ak2 == ak3 {
		t.Error("Thumbnail options should produce different keys")
	}

	// Prefixes identify the stage
	if !strings.HasPrefix(k.DigitsKey(10), "digits:") {
		t.Errorf("DigitsKey prefix unexpected: %s", k.DigitsKey(10))
	}
	if !strings.HasPrefix(k.PlanKey("h"), "plan:") {
		t.Errorf("PlanKey prefix unexpected: %s", k.PlanKey("h"))
	}
	if !strings.HasPrefix(k.ArtifactKey("h", ArtifactKeyOpts{}), "artifact:") {
		t.Errorf("ArtifactKey prefix unexpected: %s", k.ArtifactKey("h", ArtifactKeyOpts{}))
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:123:")

	key := scoped.DigitsKey(500)
	if !strings.HasPrefix(key, "tenant:123:digits:") {
		t.Errorf("ScopedKeyer DigitsKey should be prefixed: %s", key)
	}

	planKey := scoped.PlanKey("abc")
	if !strings.HasPrefix(planKey, "tenant:123:plan:") {
		t.Errorf("ScopedKeyer PlanKey should be prefixed: %s", planKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Falls back to DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.DigitsKey(10)
	if !strings.HasPrefix(key, "prefix:digits:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
