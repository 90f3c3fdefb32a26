package codec

import (
	"errors"
	"strings"
	"testing"

	"adaptercore/pkg/domain"
)

func TestEncodeDecodeList(t *testing.T) {
	snap := ListSnapshot[string]{
		Settings: ListSettings{NumberOfStates: 2, ChoiceMode: "single"},
		Scope: Scope[string]{
			Items:   []Item[string]{NewItem("a", domain.Flags{State: 1, Enabled: true, Selected: true})},
			Filters: []Filter{{Query: "a", Flags: 3}},
			Sort:    &Sort{Order: "descending"},
		},
	}
	blob, err := Encode(KindList, snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(blob), `"kind":"list"`) {
		t.Fatalf("expected kind in envelope: %s", blob)
	}
	var got ListSnapshot[string]
	if err := Decode(blob, KindList, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Settings != snap.Settings || got.Scope.Sort.Order != "descending" {
		t.Fatalf("settings mismatch: %+v", got)
	}
	if f := got.Scope.Items[0].Flags(); f != (domain.Flags{State: 1, Enabled: true, Selected: true}) {
		t.Fatalf("flags mismatch: %+v", f)
	}
	if q := got.Scope.Filters[0].FilterQuery(); q != (domain.FilterQuery{Query: "a", Flags: 3}) {
		t.Fatalf("filter mismatch: %+v", q)
	}
}

func TestDecodeRejectsInvalidBlobs(t *testing.T) {
	list, err := Encode(KindList, ListSnapshot[int]{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cases := map[string][]byte{
		"empty":   nil,
		"garbage": []byte("{not json"),
		"version": []byte(`{"version":99,"kind":"list","payload":{}}`),
		"kind":    list,
		"payload": []byte(`{"version":1,"kind":"expandable"}`),
		"shape":   []byte(`{"version":1,"kind":"expandable","payload":{"groups":"x"}}`),
	}
	for name, blob := range cases {
		var out ExpandableSnapshot[string, string]
		err := Decode(blob, KindExpandable, &out)
		if !errors.Is(err, domain.ErrInvalidSnapshot) {
			t.Fatalf("%s: expected ErrInvalidSnapshot, got %v", name, err)
		}
	}
}

func TestEncodeReportsUnsupportedData(t *testing.T) {
	if _, err := Encode(KindList, ListSnapshot[chan int]{Scope: Scope[chan int]{Items: []Item[chan int]{{Data: make(chan int)}}}}); err == nil {
		t.Fatalf("expected marshal error for channel data")
	}
}

func TestPeekReadsHeaderOnly(t *testing.T) {
	blob, err := Encode(KindExpandable, ExpandableSnapshot[string, string]{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v, kind, err := Peek(blob)
	if err != nil || v != Version || kind != KindExpandable {
		t.Fatalf("peek = %d %q %v", v, kind, err)
	}
	if _, _, err := Peek([]byte("not json")); !errors.Is(err, domain.ErrInvalidSnapshot) {
		t.Fatalf("expected invalid snapshot, got %v", err)
	}
}
