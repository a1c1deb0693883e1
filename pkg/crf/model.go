package crf

import (
	"fmt"

	"github.com/addrstat/addrstat/pkg/binreader"
	"github.com/addrstat/addrstat/pkg/matrix"
	"github.com/charmbracelet/log"
)

// Signature is the on-disk magic for a CRF model file.
const Signature = 0xCFCFCFCF

// Model is the immutable, load-once CRF: the label alphabet, the
// feature-string id maps, and the weight tables those ids index into.
// State features contribute to state[t][k] via Weights; transition
// features are interned but not yet scored (the current inference path
// ignores prev_tag_features and relies solely on TransWeights).
type Model struct {
	Classes       []string
	StateFeatures map[string]uint32
	TransFeatures map[string]uint32
	Weights       *matrix.SparseMatrix[float64]
	TransWeights  *matrix.DenseMatrix
}

// NumLabels returns L, the size of the class alphabet.
func (m *Model) NumLabels() int { return len(m.Classes) }

// PrepareForInference sizes ctx for T tokens and loads the model's
// transition weights into it, ready for a fresh sequence of ScoreToken
// calls followed by Viterbi.
func (m *Model) PrepareForInference(ctx *Context, t int) {
	ctx.SetNumItems(t)
	ctx.State.Zero()
	ctx.Trans.Zero()
	ctx.Trans.AddMatrix(m.TransWeights)
}

// ScoreToken adds, for every feature in features present in the
// state-feature id map, that feature's weight row into state[t][*].
// Unknown features are skipped silently: "absent => skip" is the
// intended fast path for a vocabulary that never perfectly covers live
// input. prevTagFeatures is accepted for interface symmetry with the
// transition-conditioned features the format reserves space for, but is
// not yet consulted.
func (m *Model) ScoreToken(ctx *Context, t int, features []string, prevTagFeatures []string) {
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		id, ok := m.StateFeatures[f]
		if !ok {
			continue
		}
		m.Weights.RowEntries(int(id), func(col int, value float64) {
			ctx.State.Add(t, col, value)
		})
	}
}

// Load reads a CRF model from the signature-prefixed wire format: class
// names, the state and transition feature-id maps, the sparse state
// weight matrix, and the dense transition weight matrix.
func Load(r *binreader.Reader) (*Model, error) {
	if err := r.Signature(Signature); err != nil {
		return nil, fmt.Errorf("crf: %w", err)
	}

	numClasses, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("crf: reading class count: %w", err)
	}
	classes := make([]string, numClasses)
	for i := range classes {
		s, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("crf: reading class %d: %w", i, err)
		}
		classes[i] = s
	}

	stateFeatures, err := readFeatureMap(r)
	if err != nil {
		return nil, fmt.Errorf("crf: reading state features: %w", err)
	}
	transFeatures, err := readFeatureMap(r)
	if err != nil {
		return nil, fmt.Errorf("crf: reading transition features: %w", err)
	}

	weights, err := matrix.ReadSparse[float64](r, matrix.ReadScalarF64)
	if err != nil {
		return nil, fmt.Errorf("crf: reading state weights: %w", err)
	}
	transWeights, err := matrix.ReadDense(r)
	if err != nil {
		return nil, fmt.Errorf("crf: reading transition weights: %w", err)
	}
	if transWeights.Rows() != int(numClasses) || transWeights.Cols() != int(numClasses) {
		return nil, fmt.Errorf("crf: transition weight matrix is %dx%d, want %dx%d",
			transWeights.Rows(), transWeights.Cols(), numClasses, numClasses)
	}

	log.Debugf("crf: loaded model with %d classes, %d state features, %d transition features",
		numClasses, len(stateFeatures), len(transFeatures))

	return &Model{
		Classes:       classes,
		StateFeatures: stateFeatures,
		TransFeatures: transFeatures,
		Weights:       weights,
		TransWeights:  transWeights,
	}, nil
}

func readFeatureMap(r *binreader.Reader) (map[string]uint32, error) {
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint32, count)
	for i := uint32(0); i < count; i++ {
		key, err := r.String()
		if err != nil {
			return nil, err
		}
		id, err := r.U32()
		if err != nil {
			return nil, err
		}
		out[key] = id
	}
	return out, nil
}

// Save writes a model in the format Load reads, primarily for tests that
// build a Model in memory and round-trip it.
func Save(m *Model, w *binreader.Writer) error {
	if err := w.Signature(Signature); err != nil {
		return err
	}
	if err := w.U32(uint32(len(m.Classes))); err != nil {
		return err
	}
	for _, c := range m.Classes {
		if err := w.String(c); err != nil {
			return err
		}
	}
	if err := writeFeatureMap(w, m.StateFeatures); err != nil {
		return err
	}
	if err := writeFeatureMap(w, m.TransFeatures); err != nil {
		return err
	}
	if err := m.Weights.WriteTo(w); err != nil {
		return err
	}
	return m.TransWeights.WriteTo(w)
}

func writeFeatureMap(w *binreader.Writer, features map[string]uint32) error {
	if err := w.U32(uint32(len(features))); err != nil {
		return err
	}
	for key, id := range features {
		if err := w.String(key); err != nil {
			return err
		}
		if err := w.U32(id); err != nil {
			return err
		}
	}
	return nil
}
