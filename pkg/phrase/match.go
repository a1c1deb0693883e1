// Package phrase implements the phrase matcher and per-token phrase
// membership bookkeeping: enumerating every multi-token trie hit starting
// at a token index, and recording, for each token, the single phrase that
// exclusively owns it (first match wins).
package phrase

// Match is a single phrase hit: the matched text, the trie-assigned
// phrase id, and the inclusive [StartIdx, EndIdx] span it covers over the
// non-whitespace token sequence. Length is the number of non-whitespace
// tokens the match consumes (EndIdx - StartIdx + 1).
type Match struct {
	PhraseText string
	PhraseID   uint32
	StartIdx   int
	EndIdx     int
	Length     int
}
