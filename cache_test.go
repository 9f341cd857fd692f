package silo

import "testing"

func TestCacheBasicOperations(t *testing.T) {
	c := newSimpleCache[string](10)

	keys := []string{"alpha", "bravo", "charlie"}
	for i, key := range keys {
		index, err := c.Register(key, key+"-value")
		if err != nil {
			t.Fatalf("Register(%q) returned error: %v", key, err)
		}
		if index != i {
			t.Errorf("Register(%q) = index %d, want %d", key, index, i)
		}
	}

	for i, key := range keys {
		index, ok := c.GetIndex(key)
		if !ok {
			t.Fatalf("GetIndex(%q) not found", key)
		}
		if index != i {
			t.Errorf("GetIndex(%q) = %d, want %d", key, index, i)
		}
		if got := *c.GetItem(index); got != key+"-value" {
			t.Errorf("GetItem(%d) = %q, want %q", index, got, key+"-value")
		}
	}

	if _, ok := c.GetIndex("missing"); ok {
		t.Error("GetIndex(\"missing\") found an entry, want not found")
	}
}

func TestCacheCapacity(t *testing.T) {
	c := newSimpleCache[int](2)

	if _, err := c.Register("a", 1); err != nil {
		t.Fatalf("Register(\"a\") returned error: %v", err)
	}
	if _, err := c.Register("b", 2); err != nil {
		t.Fatalf("Register(\"b\") returned error: %v", err)
	}
	if _, err := c.Register("c", 3); err == nil {
		t.Error("Register(\"c\") at capacity returned no error, want an error")
	}
}

func TestCacheClear(t *testing.T) {
	c := newSimpleCache[string](10)
	if _, err := c.Register("a", "1"); err != nil {
		t.Fatalf("Register(\"a\") returned error: %v", err)
	}
	c.Clear()

	if _, ok := c.GetIndex("a"); ok {
		t.Error("GetIndex(\"a\") found an entry after Clear, want not found")
	}
	if _, err := c.Register("a", "2"); err != nil {
		t.Fatalf("Register(\"a\") after Clear returned error: %v", err)
	}
}

func TestCacheWithComplexTypes(t *testing.T) {
	c := newSimpleCache[Position](10)

	want := Position{X: 1, Y: 2}
	index, err := c.Register("origin", want)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if got := *c.GetItem(index); got != want {
		t.Errorf("GetItem(%d) = %+v, want %+v", index, got, want)
	}
	if got := *c.GetItem32(uint32(index)); got != want {
		t.Errorf("GetItem32(%d) = %+v, want %+v", index, got, want)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newSimpleCache[int](1000)
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			for j := 0; j < 20; j++ {
				_, _ = c.GetIndex("does-not-exist")
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
