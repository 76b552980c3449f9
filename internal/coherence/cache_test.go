package coherence

import (
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, ok, err := c.Load("store1", "W1"); err != nil || ok {
		t.Fatalf("expected cache miss, got ok=%v err=%v", ok, err)
	}

	rows := []Row{{W2: "01", Pass: 5, Eq: 4, Perc1: 80}}
	if err := c.Store("store1", "W1", rows); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := c.Load("store1", "W1")
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].W2 != "01" || got[0].Pass != 5 {
		t.Errorf("Load returned unexpected rows: %+v", got)
	}
}
