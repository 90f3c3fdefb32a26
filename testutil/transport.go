package testutil

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"adaptercore/internal/checkpoint/core"
)

// ExerciseTransport runs the behaviour every checkpoint driver shares
// against tr: overwrite on Put, ErrNotFound on a missing Get, sorted prefix
// listing and a Delete that reports whether anything was removed. tr must
// start empty.
func ExerciseTransport(t testing.TB, tr core.Transport) {
	t.Helper()
	ctx := context.Background()

	if _, _, err := tr.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("%s: expected not found, got %v", tr.Driver(), err)
	}
	first := []byte(`{"version":1}`)
	info, err := tr.Put(ctx, "runs/b", first)
	if err != nil {
		t.Fatalf("%s: put: %v", tr.Driver(), err)
	}
	if info.Key != "runs/b" || info.Size != int64(len(first)) {
		t.Fatalf("%s: unexpected info %+v", tr.Driver(), info)
	}
	second := []byte(`{"version":1,"kind":"list"}`)
	if _, err := tr.Put(ctx, "runs/b", second); err != nil {
		t.Fatalf("%s: overwrite: %v", tr.Driver(), err)
	}
	got, blob, err := tr.Get(ctx, "runs/b")
	if err != nil {
		t.Fatalf("%s: get: %v", tr.Driver(), err)
	}
	if !bytes.Equal(blob, second) || got.Size != int64(len(second)) {
		t.Fatalf("%s: expected overwritten blob, got %q (%+v)", tr.Driver(), blob, got)
	}
	if _, err := tr.Put(ctx, "runs/a", first); err != nil {
		t.Fatalf("%s: put a: %v", tr.Driver(), err)
	}
	if _, err := tr.Put(ctx, "other", first); err != nil {
		t.Fatalf("%s: put other: %v", tr.Driver(), err)
	}
	infos, err := tr.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("%s: list: %v", tr.Driver(), err)
	}
	if len(infos) != 2 || infos[0].Key != "runs/a" || infos[1].Key != "runs/b" {
		t.Fatalf("%s: unexpected listing %+v", tr.Driver(), infos)
	}
	all, err := tr.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("%s: expected 3 checkpoints, got %d (%v)", tr.Driver(), len(all), err)
	}
	removed, err := tr.Delete(ctx, "runs/a")
	if err != nil || !removed {
		t.Fatalf("%s: delete: %v %v", tr.Driver(), removed, err)
	}
	removed, err = tr.Delete(ctx, "runs/a")
	if err != nil || removed {
		t.Fatalf("%s: second delete should report nothing removed: %v %v", tr.Driver(), removed, err)
	}
	if _, _, err := tr.Get(ctx, "runs/a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("%s: expected deleted key to be gone, got %v", tr.Driver(), err)
	}
	if _, err := tr.Put(ctx, "../escape", first); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("%s: expected invalid key, got %v", tr.Driver(), err)
	}
}
