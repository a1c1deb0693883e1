// Package tokenizer splits a raw address string into a byte-offset
// annotated token stream: words, abbreviations, acronyms, numeric runs,
// and the whitespace/punctuation that separates them. Splitting is
// grapheme-cluster aware (via rivo/uniseg) so combining-mark sequences and
// multi-rune graphemes are never cut in the middle.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Kind classifies a token.
type Kind int

const (
	Word Kind = iota
	Abbreviation
	Acronym
	Numeric
	Whitespace
	Newline
	Comma
	Punctuation
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Abbreviation:
		return "abbreviation"
	case Acronym:
		return "acronym"
	case Numeric:
		return "numeric"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case Comma:
		return "comma"
	case Punctuation:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Token is a contiguous run of the input string classified by Kind. Byte
// offsets are relative to the original source string and never overlap
// with a neighboring token.
type Token struct {
	Text       string
	Kind       Kind
	ByteOffset int
	ByteLength int
}

// TokenizedString is the full token stream produced for one input string.
type TokenizedString struct {
	Source string
	Tokens []Token
}

// NonWhitespace returns the indices, in order, of every token that is
// neither Whitespace nor Newline. The CRF operates only over this
// sub-sequence; its length is the model's num_items (T).
func (ts TokenizedString) NonWhitespace() []int {
	var out []int
	for i, tok := range ts.Tokens {
		if tok.Kind == Whitespace || tok.Kind == Newline {
			continue
		}
		out = append(out, i)
	}
	return out
}

// Tokenize splits src into a classified, gap-free, non-overlapping token
// stream covering every byte of src.
func Tokenize(src string) TokenizedString {
	var tokens []Token
	state := uniseg.NewGraphemes(src)
	var run strings.Builder
	runStart := 0
	runKind := Kind(-1)

	flush := func(endOffset int) {
		if run.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{
			Text:       run.String(),
			Kind:       runKind,
			ByteOffset: runStart,
			ByteLength: endOffset - runStart,
		})
		run.Reset()
	}

	offset := 0
	for state.Next() {
		cluster := state.Str()
		kind := classifyGrapheme(cluster)
		// A trailing period directly after a word is kept with it, so
		// "St." classifies as one Abbreviation token rather than a Word
		// followed by a stray Punctuation token.
		trailingPeriod := cluster == "." && runKind == Word && run.Len() > 0
		switch {
		case runKind == -1:
			runKind = kind
			runStart = offset
		case trailingPeriod:
			// fall through: append below without flushing or changing kind
		case kind != runKind || !mergeable(kind):
			flush(offset)
			runKind = kind
			runStart = offset
		}
		run.WriteString(cluster)
		offset += len(cluster)
	}
	flush(offset)

	classifyWordTokens(tokens)
	return TokenizedString{Source: src, Tokens: tokens}
}

// mergeable reports whether consecutive graphemes of the same coarse kind
// should be accumulated into a single token. Comma and newline are always
// singleton tokens even when repeated.
func mergeable(k Kind) bool {
	switch k {
	case Comma, Newline:
		return false
	default:
		return true
	}
}

func classifyGrapheme(cluster string) Kind {
	r := []rune(cluster)[0]
	switch {
	case r == '\n' || r == '\r':
		return Newline
	case unicode.IsSpace(r):
		return Whitespace
	case r == ',':
		return Comma
	case unicode.IsDigit(r):
		return Numeric
	case unicode.IsLetter(r):
		return Word
	default:
		return Punctuation
	}
}

// classifyWordTokens refines coarse Word tokens into Abbreviation (ends in
// a period, e.g. "St.") or Acronym (all upper-case, length >= 2, e.g.
// "NY"), matching the surface forms addresses actually contain.
func classifyWordTokens(tokens []Token) {
	for i := range tokens {
		tok := &tokens[i]
		if tok.Kind != Word {
			continue
		}
		if strings.HasSuffix(tok.Text, ".") {
			tok.Kind = Abbreviation
			continue
		}
		if isAcronym(tok.Text) {
			tok.Kind = Acronym
		}
	}
}

func isAcronym(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}
