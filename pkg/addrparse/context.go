package addrparse

import (
	"github.com/addrstat/addrstat/pkg/phrase"
	"github.com/addrstat/addrstat/pkg/tokenizer"
)

// Context is the per-parse scratch space: the non-whitespace token
// sequence and the three phrase memberships computed over it. It is
// owned exclusively by one parse call.
type Context struct {
	tokens     []tokenizer.Token // non-whitespace tokens only, in order
	dict       *phrase.Membership
	component  *phrase.Membership
	postalCode *phrase.Membership
}

// NewContext builds a context over ts's non-whitespace tokens. Call
// FillPhrases before extracting any features.
func NewContext(ts tokenizer.TokenizedString) *Context {
	idx := ts.NonWhitespace()
	tokens := make([]tokenizer.Token, len(idx))
	for i, tokIdx := range idx {
		tokens[i] = ts.Tokens[tokIdx]
	}
	return &Context{tokens: tokens}
}

// NumTokens returns T, the non-whitespace token count.
func (c *Context) NumTokens() int { return len(c.tokens) }

// TokenAt returns the non-whitespace token at position j.
func (c *Context) TokenAt(j int) tokenizer.Token { return c.tokens[j] }

// FillPhrases runs each matcher (any may be nil when its resource is
// absent) from every token index and assigns first-wins ownership into
// the corresponding membership. Must run before any feature extraction.
func (c *Context) FillPhrases(dict, component, postalCode *phrase.Matcher) {
	n := len(c.tokens)
	c.dict = phrase.NewMembership(n)
	c.component = phrase.NewMembership(n)
	c.postalCode = phrase.NewMembership(n)

	for start := 0; start < n; start++ {
		assignAll(c.dict, dict, c.tokens, start)
		assignAll(c.component, component, c.tokens, start)
		assignAll(c.postalCode, postalCode, c.tokens, start)
	}
}

func assignAll(mem *phrase.Membership, m *phrase.Matcher, tokens []tokenizer.Token, start int) {
	if m == nil {
		return
	}
	for _, match := range m.SearchFrom(tokens, start) {
		match := match
		mem.Assign(&match)
	}
}

// span is the resolved (start, end, text) a phrase-aware feature uses for
// the neighborhood of a token: the dictionary/component phrase that owns
// it (dictionary wins on a length tie), extended — never shrunk — by an
// overlapping postal-code span. text is empty when no phrase owns the
// position.
type span struct {
	start, end int
	text       string
}

func (c *Context) resolveSpan(j int) (span, bool) {
	dictM, dictOk := c.dict.At(j)
	compM, compOk := c.component.At(j)
	postalM, postalOk := c.postalCode.At(j)

	var chosen *phrase.Match
	switch {
	case dictOk && compOk:
		if dictM.Length >= compM.Length {
			chosen = dictM
		} else {
			chosen = compM
		}
	case dictOk:
		chosen = dictM
	case compOk:
		chosen = compM
	}

	if chosen == nil {
		if postalOk {
			return span{start: postalM.StartIdx, end: postalM.EndIdx, text: postalM.PhraseText}, true
		}
		return span{start: j, end: j}, false
	}

	s := span{start: chosen.StartIdx, end: chosen.EndIdx, text: chosen.PhraseText}
	if postalOk {
		if postalM.StartIdx < s.start {
			s.start = postalM.StartIdx
		}
		if postalM.EndIdx > s.end {
			s.end = postalM.EndIdx
		}
	}
	return s, true
}

// wordAt returns the phrase-aware text used as prev_word/next_word for
// position j: the owning phrase's full text, or the lower-cased token
// text when nothing owns it. ok is false when j is out of range.
func (c *Context) wordAt(j int) (string, bool) {
	if j < 0 || j >= len(c.tokens) {
		return "", false
	}
	if sp, ok := c.resolveSpan(j); ok && sp.text != "" {
		return sp.text, true
	}
	return lowerToken(c.tokens[j].Text), true
}

func (c *Context) findAdjacentAdminID(start, end int) (uint32, bool) {
	if m, ok := c.component.At(start - 1); ok {
		return m.PhraseID, true
	}
	if m, ok := c.component.At(end + 1); ok {
		return m.PhraseID, true
	}
	return 0, false
}
