package addrparse

import (
	"strings"

	"github.com/addrstat/addrstat/pkg/crf"
	"github.com/addrstat/addrstat/pkg/phrase"
	"github.com/addrstat/addrstat/pkg/tokenizer"
	"github.com/addrstat/addrstat/pkg/trie"
)

// Response is the parsed result: parallel components (raw token text) and
// labels (predicted class name), same length, one entry per non-whitespace
// token in order.
type Response struct {
	Components []string
	Labels     []string
}

// GetComponent returns the first component whose predicted label equals
// label.
func (r Response) GetComponent(label string) (string, bool) {
	for i, l := range r.Labels {
		if l == label {
			return r.Components[i], true
		}
	}
	return "", false
}

// Parse lower-cases input, tokenizes it, runs phrase matching, scores
// every non-whitespace token against the CRF, and decodes the
// highest-scoring label sequence. An input with no non-whitespace tokens
// returns an empty Response.
func (m *Model) Parse(input string) Response {
	ts := tokenizer.Tokenize(strings.ToLower(input))
	ctx := NewContext(ts)
	t := ctx.NumTokens()
	if t == 0 {
		return Response{}
	}

	ctx.FillPhrases(m.matcherFor(m.Phrases), m.matcherFor(m.ComponentPhrases), m.matcherFor(m.PostalCodes))

	crfCtx := m.newCrfContext()
	m.CRF.PrepareForInference(crfCtx, t)
	for j := 0; j < t; j++ {
		features := ExtractFeatures(ctx, m, j)
		m.CRF.ScoreToken(crfCtx, j, features, nil)
	}
	labelIDs, _ := crfCtx.Viterbi()

	resp := Response{
		Components: make([]string, t),
		Labels:     make([]string, t),
	}
	for j := 0; j < t; j++ {
		resp.Components[j] = ctx.TokenAt(j).Text
		resp.Labels[j] = m.CRF.Classes[labelIDs[j]]
	}
	return resp
}

func (m *Model) newCrfContext() *crf.Context {
	return crf.NewContext(m.CRF.NumLabels())
}

// matcherFor wraps a loaded resource in a phrase.Matcher, or returns nil
// when the resource is absent (feature disabled).
func (m *Model) matcherFor(resource trie.LookupTrie) *phrase.Matcher {
	if resource == nil {
		return nil
	}
	enum, ok := resource.(trie.KeyEnumerator)
	if !ok {
		return nil
	}
	return phrase.NewMatcher(enum, true)
}
