package memory

import (
	"context"
	"testing"

	"adaptercore/testutil"
)

func TestStoreBehaviour(t *testing.T) {
	testutil.ExerciseTransport(t, New())
}

func TestStoreCopiesBlobs(t *testing.T) {
	s := New()
	blob := []byte("abc")
	if _, err := s.Put(context.Background(), "k", blob); err != nil {
		t.Fatalf("put: %v", err)
	}
	blob[0] = 'z'
	_, got, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("stored blob aliased caller slice: %q", got)
	}
	got[1] = 'z'
	_, again, _ := s.Get(context.Background(), "k")
	if string(again) != "abc" {
		t.Fatalf("returned blob aliased stored slice: %q", again)
	}
}
