package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddingKey(t *testing.T) {
	k1 := EmbeddingKey("text-embedding-3-small", "hello")
	k2 := EmbeddingKey("text-embedding-3-small", "hello")
	if k1 != k2 {
		t.Error("same inputs must yield the same key")
	}

	if EmbeddingKey("model-a", "hello") == EmbeddingKey("model-b", "hello") {
		t.Error("different models must yield different keys")
	}
	if EmbeddingKey("m", "hello") == EmbeddingKey("m", "world") {
		t.Error("different texts must yield different keys")
	}

	// Separator keeps (model, text) unambiguous
	if EmbeddingKey("ab", "c") == EmbeddingKey("a", "bc") {
		t.Error("model/text boundary must be part of the key")
	}
}

func TestMemoryCache_Roundtrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("miss expected for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key must miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired key must miss")
	}
}

func TestDiskCache_Roundtrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Errorf("Get = %q, %v", val, found)
	}

	// Survives a new handle over the same directory
	c2 := NewDiskCache(c.dir, time.Minute)
	if _, found := c2.Get("k"); !found {
		t.Error("entry must survive across cache instances")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired entry must miss")
	}
	if _, err := os.Stat(filepath.Join(c.dir, "k.json")); !os.IsNotExist(err) {
		t.Error("expired entry file must be removed")
	}
}

func TestDiskCache_CorruptEntryDropped(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, found := c.Get("bad"); found {
		t.Error("corrupt entry must miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
		t.Error("corrupt entry file must be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer only
	seed := NewDiskCache(dir, time.Minute)
	if err := seed.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Get = %q, %v", val, found)
	}

	// A disk hit lands in the memory layer
	mem := c.memory.(*MemoryCache)
	if mem.Len() != 1 {
		t.Errorf("memory layer has %d entries after promotion, want 1", mem.Len())
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	disk := NewDiskCache(dir, time.Minute)
	if _, found := disk.Get("k"); !found {
		t.Error("Set must reach the disk layer")
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key must miss in both layers")
	}
}
