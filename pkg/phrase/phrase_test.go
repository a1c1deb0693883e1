package phrase

import (
	"testing"

	"github.com/addrstat/addrstat/pkg/tokenizer"
	"github.com/addrstat/addrstat/pkg/trie"
)

func tokensOf(words ...string) []tokenizer.Token {
	out := make([]tokenizer.Token, len(words))
	for i, w := range words {
		out[i] = tokenizer.Token{Text: w, Kind: tokenizer.Word}
	}
	return out
}

func TestSearchFromExactMultiTokenMatch(t *testing.T) {
	tr := trie.New[uint32]()
	_ = tr.Insert("new york", 1)
	m := NewMatcher(tr, false)

	matches := m.SearchFrom(tokensOf("new", "york", "city"), 0)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].PhraseText != "new york" || matches[0].StartIdx != 0 || matches[0].EndIdx != 1 {
		t.Fatalf("unexpected match: %+v", matches[0])
	}
}

func TestSearchFromPrefixMarker(t *testing.T) {
	tr := trie.New[uint32]()
	_ = tr.Insert("|north", 5)
	m := NewMatcher(tr, false)

	matches := m.SearchFrom(tokensOf("northside"), 0)
	if len(matches) != 1 || matches[0].PhraseID != 5 {
		t.Fatalf("got %+v, want one match with id 5", matches)
	}
}

func TestSearchFromSuffixMarker(t *testing.T) {
	tr := trie.New[uint32]()
	_ = tr.Insert("ave|", 9)
	m := NewMatcher(tr, false)

	matches := m.SearchFrom(tokensOf("fifth", "ave"), 1)
	if len(matches) != 1 || matches[0].PhraseID != 9 {
		t.Fatalf("got %+v, want one match with id 9", matches)
	}
}

func TestSearchFromNormalizedCaseInsensitive(t *testing.T) {
	tr := trie.New[uint32]()
	_ = tr.Insert(Normalize("Brooklyn"), 3)
	m := NewMatcher(tr, true)

	matches := m.SearchFrom(tokensOf("BROOKLYN"), 0)
	if len(matches) != 1 || matches[0].PhraseID != 3 {
		t.Fatalf("got %+v, want one normalized match", matches)
	}
}

func TestMembershipFirstWins(t *testing.T) {
	mem := NewMembership(4)
	first := &Match{StartIdx: 0, EndIdx: 2, Length: 3}
	second := &Match{StartIdx: 1, EndIdx: 3, Length: 3}
	mem.Assign(first)
	mem.Assign(second)

	if owner, _ := mem.At(1); owner != first {
		t.Fatalf("token 1 should stay owned by the first match")
	}
	if owner, ok := mem.At(3); !ok || owner != second {
		t.Fatalf("token 3 should be claimed by the second match")
	}
	if !mem.IsStartOf(0) || !mem.IsEndOf(2) || !mem.IsMiddleOf(1) {
		t.Fatalf("start/end/middle predicates wrong for first match")
	}
}
