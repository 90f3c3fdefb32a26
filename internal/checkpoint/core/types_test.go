package core

import (
	"errors"
	"testing"
)

func TestCleanKey(t *testing.T) {
	good := map[string]string{
		"list":           "list",
		"runs//2024/one": "runs/2024/one",
		"runs/./two":     "runs/two",
	}
	for in, want := range good {
		got, err := CleanKey(in)
		if err != nil || got != want {
			t.Fatalf("CleanKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "  ", "/abs", "../up", "a/b/../c", `win\path`} {
		if _, err := CleanKey(bad); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected invalid key for %q, got %v", bad, err)
		}
	}
}

func TestETagIsContentHash(t *testing.T) {
	if ETag([]byte("a")) == ETag([]byte("b")) {
		t.Fatalf("distinct blobs share an etag")
	}
	if got := ETag(nil); len(got) != 64 {
		t.Fatalf("expected hex sha256, got %q", got)
	}
}
