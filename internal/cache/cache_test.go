package cache

import (
	"encoding/json"
	"os"
	"testing"
	"time"
)

func TestReportKey(t *testing.T) {
	a := ReportKey("東京都新宿区")
	b := ReportKey("東京都新宿区")
	c := ReportKey("大阪市北区")

	if a != b {
		t.Error("same address must produce the same key")
	}
	if a == c {
		t.Error("different addresses must produce different keys")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(1*time.Minute, 10*time.Minute)

	key := ReportKey("横浜市中区")
	if _, found := c.Get(key); found {
		t.Error("expected miss before Set")
	}

	if err := c.Set(key, []byte("report"), 1*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "report" {
		t.Errorf("expected cached report, got (%q, %v)", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected miss after Delete")
	}
}

func TestLayeredCache_DiskPromotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(1*time.Minute, dir, 1*time.Hour)

	key := ReportKey("名古屋市中区")
	if err := c.Set(key, []byte("report"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh layered cache over the same directory must find the value
	// on disk and promote it to memory
	c2 := NewLayeredCache(1*time.Minute, dir, 1*time.Hour)
	val, found := c2.Get(key)
	if !found || string(val) != "report" {
		t.Errorf("expected disk hit, got (%q, %v)", val, found)
	}
}

func TestLayeredCache_DiskEntryOutlivesMemoryTTL(t *testing.T) {
	dir := t.TempDir()
	memoryTTL := 30 * time.Minute
	diskTTL := 24 * time.Hour
	c := NewLayeredCache(memoryTTL, dir, diskTTL)

	key := ReportKey("札幌市中央区")
	before := time.Now()
	if err := c.Set(key, []byte("report"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// The disk layer must apply its own TTL rather than inherit the
	// memory layer's shorter one
	disk := NewDiskCache(dir, diskTTL)
	data, err := os.ReadFile(disk.path(key))
	if err != nil {
		t.Fatalf("read disk entry: %v", err)
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode disk entry: %v", err)
	}

	if entry.ExpiresAt.Before(before.Add(memoryTTL)) {
		t.Errorf("disk entry expires at %v, before the memory TTL ends", entry.ExpiresAt)
	}
	if got := entry.ExpiresAt.Sub(before); got < diskTTL-time.Minute {
		t.Errorf("disk entry TTL = %v, want about %v", got, diskTTL)
	}
}
