package crf

import (
	"bytes"
	"math"
	"testing"

	"github.com/addrstat/addrstat/pkg/binreader"
	"github.com/addrstat/addrstat/pkg/matrix"
)

func TestViterbiWorkedExample(t *testing.T) {
	ctx := NewContext(2)
	ctx.SetNumItems(3)
	stateRows := [][]float64{{1, 0}, {0.5, 1.5}, {2, 0.5}}
	for i, row := range stateRows {
		ctx.State.SetRow(i, row)
	}
	ctx.Trans.SetRow(0, []float64{0, 0.5})
	ctx.Trans.SetRow(1, []float64{0.8, 0})

	path, score := ctx.Viterbi()
	want := []int{0, 1, 0}
	for i, y := range want {
		if path[i] != y {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
	if math.Abs(score-5.8) > 1e-9 {
		t.Fatalf("score = %v, want 5.8", score)
	}
}

func TestViterbiOptimalityTwoByTwo(t *testing.T) {
	ctx := NewContext(2)
	ctx.SetNumItems(2)
	ctx.State.SetRow(0, []float64{0.3, 1.1})
	ctx.State.SetRow(1, []float64{2.0, 0.1})
	ctx.Trans.SetRow(0, []float64{0.2, -0.4})
	ctx.Trans.SetRow(1, []float64{0.1, 0.9})

	path, score := ctx.Viterbi()

	var bestScore float64 = math.Inf(-1)
	for y0 := 0; y0 < 2; y0++ {
		for y1 := 0; y1 < 2; y1++ {
			s := ctx.State.At(0, y0) + ctx.Trans.At(y0, y1) + ctx.State.At(1, y1)
			if s > bestScore {
				bestScore = s
			}
		}
	}
	if math.Abs(score-bestScore) > 1e-9 {
		t.Fatalf("viterbi score %v does not match brute-force optimum %v", score, bestScore)
	}
	if len(path) != 2 {
		t.Fatalf("path length = %d, want 2", len(path))
	}
}

func TestScoreTokenSkipsUnknownFeatures(t *testing.T) {
	weights := matrix.FromTuples(1, 2, []matrix.Entry[float64]{
		{Row: 0, Col: 0, Value: 1.5},
		{Row: 0, Col: 1, Value: -0.5},
	})
	m := &Model{
		Classes:       []string{"a", "b"},
		StateFeatures: map[string]uint32{"bias": 0},
		TransFeatures: map[string]uint32{},
		Weights:       weights,
		TransWeights:  matrix.NewDense(2, 2),
	}
	ctx := NewContext(2)
	m.PrepareForInference(ctx, 1)
	m.ScoreToken(ctx, 0, []string{"bias", "bias", "unknown_feature"}, nil)

	if got := ctx.State.At(0, 0); math.Abs(got-1.5) > 1e-12 {
		t.Fatalf("state[0][0] = %v, want 1.5 (bias counted once)", got)
	}
	if got := ctx.State.At(0, 1); math.Abs(got-(-0.5)) > 1e-12 {
		t.Fatalf("state[0][1] = %v, want -0.5", got)
	}
}

func TestModelRoundTrip(t *testing.T) {
	m := &Model{
		Classes:       []string{"house_number", "road", "city"},
		StateFeatures: map[string]uint32{"bias": 0, "word=main": 1},
		TransFeatures: map[string]uint32{},
		Weights: matrix.FromTuples(2, 3, []matrix.Entry[float64]{
			{Row: 0, Col: 0, Value: 0.1},
			{Row: 1, Col: 1, Value: 2.2},
		}),
		TransWeights: matrix.NewDense(3, 3),
	}
	m.TransWeights.Set(1, 2, 0.9)

	var buf bytes.Buffer
	if err := Save(m, binreader.NewWriter(&buf)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(binreader.New(bytes.NewReader(buf.Bytes())))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Classes) != 3 || loaded.Classes[2] != "city" {
		t.Fatalf("unexpected classes: %v", loaded.Classes)
	}
	if loaded.StateFeatures["word=main"] != 1 {
		t.Fatalf("state feature map not preserved: %v", loaded.StateFeatures)
	}
	if got := loaded.Weights.Get(1, 1); math.Abs(got-2.2) > 1e-12 {
		t.Fatalf("weights.Get(1,1) = %v, want 2.2", got)
	}
	if got := loaded.TransWeights.At(1, 2); math.Abs(got-0.9) > 1e-12 {
		t.Fatalf("trans_weights.At(1,2) = %v, want 0.9", got)
	}
}
