package phrase

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/addrstat/addrstat/pkg/tokenizer"
	"github.com/addrstat/addrstat/pkg/trie"
)

// Matcher probes a resource trie over successive non-whitespace tokens,
// extending a candidate phrase one token at a time and recording every
// exact or affix hit. It also recognizes two marker conventions a
// resource's keys may use: a leading '|' marks a prefix match ("|north"
// matches any candidate beginning with "north") and a trailing '|' marks a
// suffix match ("ave|" matches any candidate ending with "ave").
type Matcher struct {
	resource      trie.LookupTrie
	prefixMarkers map[string]uint32
	suffixMarkers map[string]uint32
	normalized    bool
}

// NewMatcher builds a Matcher over resource. When normalized is true,
// candidate phrases are lower-cased and diacritics stripped before
// probing the trie, so the trie's keys must have been built the same way.
func NewMatcher(resource trie.KeyEnumerator, normalized bool) *Matcher {
	m := &Matcher{
		resource:      resource,
		prefixMarkers: map[string]uint32{},
		suffixMarkers: map[string]uint32{},
		normalized:    normalized,
	}
	for _, pair := range resource.All() {
		switch {
		case strings.HasPrefix(pair.Key, "|"):
			m.prefixMarkers[pair.Key[1:]] = pair.Value
		case strings.HasSuffix(pair.Key, "|"):
			m.suffixMarkers[pair.Key[:len(pair.Key)-1]] = pair.Value
		}
	}
	return m
}

// SearchFrom enumerates every match starting at token index start over
// tokens, which must already be the non-whitespace token sequence (so
// indices line up with the CRF's own token numbering).
func (m *Matcher) SearchFrom(tokens []tokenizer.Token, start int) []Match {
	if start < 0 || start >= len(tokens) {
		return nil
	}
	var out []Match
	var raw strings.Builder
	for end := start; end < len(tokens); end++ {
		if end > start {
			raw.WriteByte(' ')
		}
		raw.WriteString(tokens[end].Text)
		candidate := raw.String()
		probe := candidate
		if m.normalized {
			probe = Normalize(candidate)
		}
		length := end - start + 1

		if id, ok := m.resource.Lookup(probe); ok {
			out = append(out, Match{PhraseText: candidate, PhraseID: id, StartIdx: start, EndIdx: end, Length: length})
		}
		if id, ok := m.matchAffix(probe); ok {
			out = append(out, Match{PhraseText: candidate, PhraseID: id, StartIdx: start, EndIdx: end, Length: length})
		}
	}
	return out
}

func (m *Matcher) matchAffix(probe string) (uint32, bool) {
	for prefix, id := range m.prefixMarkers {
		if strings.HasPrefix(probe, prefix) {
			return id, true
		}
	}
	for suffix, id := range m.suffixMarkers {
		if strings.HasSuffix(probe, suffix) {
			return id, true
		}
	}
	return 0, false
}

// Normalize lower-cases s and strips combining marks left behind by NFD
// decomposition, the canonical form resource tries are built against when
// case- and diacritic-insensitive matching is required.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	decomposed := norm.NFD.String(lower)
	var out strings.Builder
	out.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
