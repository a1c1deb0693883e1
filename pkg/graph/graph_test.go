package graph

import (
	"bytes"
	"testing"

	"github.com/addrstat/addrstat/pkg/binreader"
)

func TestHasEdge(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1)
	if !g.HasEdge(0, 1) {
		t.Fatal("expected edge 0->1")
	}
	if g.HasEdge(1, 0) {
		t.Fatal("graph is directed, 1->0 should not exist")
	}
	if g.HasEdge(0, 2) {
		t.Fatal("did not expect edge 0->2")
	}
}

func TestRoundTrip(t *testing.T) {
	g := New(4)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 2)

	var buf bytes.Buffer
	if err := g.WriteTo(binreader.NewWriter(&buf)); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got, err := Read(binreader.New(&buf))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.NumNodes() != 4 {
		t.Fatalf("NumNodes = %d, want 4", got.NumNodes())
	}
	if !got.HasEdge(0, 1) || !got.HasEdge(1, 2) || !got.HasEdge(2, 2) {
		t.Fatal("round trip lost edges")
	}
	if got.HasEdge(3, 0) {
		t.Fatal("unexpected edge after round trip")
	}
}
