// Package crf implements the linear-chain CRF inference core: the
// per-parse scratch context (state/transition score tables and Viterbi
// decoding) and the immutable, load-once model (feature-id maps and
// weight tables) that scores tokens into that context.
package crf

import "github.com/addrstat/addrstat/pkg/matrix"

// Context is the per-inference scratch space: a T×L state-score matrix
// and an L×L transition-score matrix. It is owned exclusively by one
// parse call and must never be shared across concurrent calls.
type Context struct {
	numLabels int
	numItems  int
	State     *matrix.DenseMatrix
	Trans     *matrix.DenseMatrix
}

// NewContext allocates a context for a model with numLabels classes. It
// starts with zero items; call SetNumItems (or PrepareForInference)
// before scoring any token.
func NewContext(numLabels int) *Context {
	return &Context{
		numLabels: numLabels,
		Trans:     matrix.NewDense(numLabels, numLabels),
		State:     matrix.NewDense(0, numLabels),
	}
}

// NumLabels returns L.
func (c *Context) NumLabels() int { return c.numLabels }

// NumItems returns T, the current token count the state matrix is sized
// for.
func (c *Context) NumItems() int { return c.numItems }

// Reset zeroes both the state and transition matrices without changing
// their dimensions.
func (c *Context) Reset() {
	c.State.Zero()
	c.Trans.Zero()
}

// SetNumItems resizes the state matrix to T×L. Existing contents are not
// meaningful across a resize; callers must reset or repopulate before
// reading scores.
func (c *Context) SetNumItems(t int) {
	c.numItems = t
	c.State.Resize(t, c.numLabels)
}

// Viterbi runs the max-sum recurrence over the current state/trans
// matrices and returns the highest-scoring label sequence together with
// its score. Ties in the argmax are broken by the lowest label id. An
// empty context (T=0) returns a nil path and zero score.
func (c *Context) Viterbi() ([]int, float64) {
	t := c.numItems
	l := c.numLabels
	if t == 0 || l == 0 {
		return nil, 0
	}

	delta := make([][]float64, t)
	psi := make([][]int, t)
	for i := range delta {
		delta[i] = make([]float64, l)
		psi[i] = make([]int, l)
	}

	for k := 0; k < l; k++ {
		delta[0][k] = c.State.At(0, k)
	}

	for step := 1; step < t; step++ {
		for k := 0; k < l; k++ {
			bestPrev := 0
			bestScore := delta[step-1][0] + c.Trans.At(0, k)
			for kp := 1; kp < l; kp++ {
				score := delta[step-1][kp] + c.Trans.At(kp, k)
				if score > bestScore {
					bestScore = score
					bestPrev = kp
				}
			}
			delta[step][k] = c.State.At(step, k) + bestScore
			psi[step][k] = bestPrev
		}
	}

	bestLast := 0
	bestScore := delta[t-1][0]
	for k := 1; k < l; k++ {
		if delta[t-1][k] > bestScore {
			bestScore = delta[t-1][k]
			bestLast = k
		}
	}

	path := make([]int, t)
	path[t-1] = bestLast
	for step := t - 1; step > 0; step-- {
		path[step-1] = psi[step][path[step]]
	}
	return path, bestScore
}
