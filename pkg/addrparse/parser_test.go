package addrparse

import (
	"testing"

	"github.com/addrstat/addrstat/pkg/crf"
	"github.com/addrstat/addrstat/pkg/matrix"
)

func trivialCRF() *crf.Model {
	return &crf.Model{
		Classes:       []string{"house_number", "road", "city"},
		StateFeatures: map[string]uint32{"bias": 0, "word=main": 1, "is_numeric": 2},
		TransFeatures: map[string]uint32{},
		Weights: matrix.FromTuples(3, 3, []matrix.Entry[float64]{
			{Row: 2, Col: 0, Value: 3.0},
			{Row: 1, Col: 1, Value: 2.0},
		}),
		TransWeights: matrix.NewDense(3, 3),
	}
}

func TestParseEndToEndWiring(t *testing.T) {
	model := &Model{CRF: trivialCRF()}
	resp := model.Parse("123 Main Street")

	if len(resp.Components) != 3 || len(resp.Labels) != 3 {
		t.Fatalf("resp = %+v, want 3 components and 3 labels", resp)
	}
	if resp.Components[0] != "123" {
		t.Fatalf("first component = %q, want \"123\"", resp.Components[0])
	}
	if got, ok := resp.GetComponent("house_number"); !ok || got != "123" {
		t.Fatalf("GetComponent(house_number) = %q, %v", got, ok)
	}
	if _, ok := resp.GetComponent("country"); ok {
		t.Fatal("expected no component with label \"country\"")
	}
}

func TestParseEmptyInputReturnsEmptyResponse(t *testing.T) {
	model := &Model{CRF: trivialCRF()}
	resp := model.Parse("   ")
	if len(resp.Components) != 0 || len(resp.Labels) != 0 {
		t.Fatalf("resp = %+v, want empty", resp)
	}
}
