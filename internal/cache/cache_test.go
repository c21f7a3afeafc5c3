package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("report", 42)
	value, ok := c.Get("report")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if value.(int) != 42 {
		t.Fatalf("expected 42, got %v", value)
	}
}

func TestOverwrite(t *testing.T) {
	c := New(time.Minute, time.Minute)

	c.Set("report", "old")
	c.Set("report", "new")

	value, _ := c.Get("report")
	if value.(string) != "new" {
		t.Fatalf("expected overwrite, got %v", value)
	}
}

func TestExpiry(t *testing.T) {
	c := New(20*time.Millisecond, time.Hour)

	c.Set("report", 1)
	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("report"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("report", 1)

	c.sweep(time.Now().Add(2 * time.Minute))

	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) != 0 {
		t.Fatalf("expected sweep to clear entries, got %d", len(c.entries))
	}
}
