package util

import (
	"fmt"
	"testing"
)

func TestUserEmailCacheBasic(t *testing.T) {
	InitUserEmailCache(10)

	if _, ok := UserEmailCacheGet(1); ok {
		t.Fatal("expected miss on empty cache")
	}

	UserEmailCacheSet(1, "one@example.com")
	email, ok := UserEmailCacheGet(1)
	if !ok || email != "one@example.com" {
		t.Fatalf("expected hit with one@example.com, got %q %v", email, ok)
	}

	UserEmailCacheSet(1, "updated@example.com")
	email, _ = UserEmailCacheGet(1)
	if email != "updated@example.com" {
		t.Fatalf("expected updated email, got %q", email)
	}
}

func TestUserEmailCacheEvictsLRU(t *testing.T) {
	InitUserEmailCache(3)

	for i := uint(1); i <= 3; i++ {
		UserEmailCacheSet(i, fmt.Sprintf("user%d@example.com", i))
	}

	// Touch user 1 so user 2 becomes the eviction candidate
	UserEmailCacheGet(1)
	UserEmailCacheSet(4, "user4@example.com")

	if _, ok := UserEmailCacheGet(2); ok {
		t.Fatal("expected user 2 to be evicted")
	}
	for _, id := range []uint{1, 3, 4} {
		if _, ok := UserEmailCacheGet(id); !ok {
			t.Fatalf("expected user %d to survive eviction", id)
		}
	}
}

func TestUserEmailCacheUninitialized(t *testing.T) {
	userEmails = nil

	// Neither call should panic without an initialized cache
	UserEmailCacheSet(1, "x@example.com")
	if _, ok := UserEmailCacheGet(1); ok {
		t.Fatal("expected miss when cache is uninitialized")
	}
}
