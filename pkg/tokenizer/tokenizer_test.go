package tokenizer

import "testing"

func reassemble(ts TokenizedString) string {
	var out string
	for _, tok := range ts.Tokens {
		out += tok.Text
	}
	return out
}

func TestTokenizeCoversEveryByte(t *testing.T) {
	src := "123 Main St., Brooklyn NY 11216"
	ts := Tokenize(src)
	if got := reassemble(ts); got != src {
		t.Fatalf("reassembled %q, want %q", got, src)
	}
	offset := 0
	for _, tok := range ts.Tokens {
		if tok.ByteOffset != offset {
			t.Fatalf("token %+v has offset %d, want %d", tok, tok.ByteOffset, offset)
		}
		offset += tok.ByteLength
	}
	if offset != len(src) {
		t.Fatalf("tokens cover %d bytes, want %d", offset, len(src))
	}
}

func TestTokenizeClassifiesKinds(t *testing.T) {
	ts := Tokenize("123 Main St., Brooklyn NY 11216")
	want := map[string]Kind{
		"123":      Numeric,
		"Main":     Word,
		"St.":      Abbreviation,
		",":        Comma,
		"Brooklyn": Word,
		"NY":       Acronym,
		"11216":    Numeric,
	}
	seen := map[string]Kind{}
	for _, tok := range ts.Tokens {
		if tok.Kind == Whitespace || tok.Kind == Newline {
			continue
		}
		seen[tok.Text] = tok.Kind
	}
	for text, kind := range want {
		got, ok := seen[text]
		if !ok {
			t.Fatalf("token %q not found among: %+v", text, seen)
		}
		if got != kind {
			t.Fatalf("token %q classified as %v, want %v", text, got, kind)
		}
	}
}

func TestNonWhitespaceSkipsGaps(t *testing.T) {
	ts := Tokenize("a b")
	idx := ts.NonWhitespace()
	if len(idx) != 2 {
		t.Fatalf("NonWhitespace() = %v, want 2 entries", idx)
	}
	if ts.Tokens[idx[0]].Text != "a" || ts.Tokens[idx[1]].Text != "b" {
		t.Fatalf("unexpected tokens at non-whitespace indices: %+v", ts.Tokens)
	}
}
