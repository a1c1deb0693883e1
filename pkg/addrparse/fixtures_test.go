package addrparse

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

// TestResponseMsgpackRoundTrip checks that a Response survives a msgpack
// encode/decode round trip unchanged.
func TestResponseMsgpackRoundTrip(t *testing.T) {
	want := Response{
		Components: []string{"123", "main", "street"},
		Labels:     []string{LabelHouseNumber, LabelRoad, LabelRoad},
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(want); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got Response
	dec := msgpack.NewDecoder(&buf)
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got.Components) != len(want.Components) || len(got.Labels) != len(want.Labels) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want.Components {
		if got.Components[i] != want.Components[i] || got.Labels[i] != want.Labels[i] {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}
