package addrparse

import (
	"github.com/addrstat/addrstat/pkg/crf"
	"github.com/addrstat/addrstat/pkg/graph"
	"github.com/addrstat/addrstat/pkg/trie"
)

// DictPhraseType is the per-phrase-id metadata for the dictionary-phrase
// trie (street types, unit words, and similar closed-class vocabulary).
type DictPhraseType struct {
	Components DictComponent
}

// ComponentPhraseType is the per-phrase-id metadata for the
// component-phrase trie (administrative region names: cities, states,
// countries). MostCommon is the raw ordinal as read from disk; decode it
// through ordinalToBoundary rather than treating it as a bitmask.
type ComponentPhraseType struct {
	ComponentsMask Boundary
	MostCommon     uint16
}

// Model is the fully loaded, immutable set of resources a parse call
// reads from: the CRF and every optional lexical resource it can
// consult. A nil optional field means that feature family is disabled;
// the extractor must never panic on a nil resource.
type Model struct {
	CRF *crf.Model

	Vocabulary trie.LookupTrie

	Phrases     trie.LookupTrie
	PhraseTypes []DictPhraseType

	PostalCodes      trie.LookupTrie
	PostalCodeGraph  *graph.Graph
	ComponentPhrases trie.LookupTrie

	ComponentPhraseTypes []ComponentPhraseType
}

func (m *Model) dictComponents(phraseID uint32) DictComponent {
	if int(phraseID) >= len(m.PhraseTypes) {
		return 0
	}
	return m.PhraseTypes[phraseID].Components
}

func (m *Model) componentPhraseType(phraseID uint32) (ComponentPhraseType, bool) {
	if int(phraseID) >= len(m.ComponentPhraseTypes) {
		return ComponentPhraseType{}, false
	}
	return m.ComponentPhraseTypes[phraseID], true
}
