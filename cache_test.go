package budscan

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	key := c.Key("budscan_scan", "d:abc@1")
	if key != "budscan_scan:d:abc@1" {
		t.Errorf("Key() = %q", key)
	}

	var miss ScanResult
	if c.Get(ctx, key, &miss) {
		t.Error("Get on an empty cache reported a hit")
	}

	c.Set(ctx, key, ScanResult{Fingerprint: "d:abc", CatalogVersion: 1})

	var got ScanResult
	if !c.Get(ctx, key, &got) {
		t.Fatal("Get after Set reported a miss")
	}
	if got.Fingerprint != "d:abc" || got.CatalogVersion != 1 {
		t.Errorf("Get() = %+v", got)
	}

	var wrong string
	if c.Get(ctx, key, &wrong) {
		t.Error("Get into a mismatched type reported a hit")
	}
	if c.Get(ctx, key, nil) {
		t.Error("Get into nil reported a hit")
	}
	if c.Get(ctx, key, got) {
		t.Error("Get into a non-pointer reported a hit")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache(10*time.Millisecond, time.Minute)
	c.Set(ctx, "k", "v")

	time.Sleep(30 * time.Millisecond)

	var got string
	if c.Get(ctx, "k", &got) {
		t.Errorf("expired entry returned %q", got)
	}
}
