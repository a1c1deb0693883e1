package addrparse

import (
	"testing"

	"github.com/addrstat/addrstat/pkg/graph"
	"github.com/addrstat/addrstat/pkg/phrase"
	"github.com/addrstat/addrstat/pkg/tokenizer"
	"github.com/addrstat/addrstat/pkg/trie"
)

func contains(set []string, want string) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}

func buildContext(t *testing.T, input string, dict, component, postal *trie.Trie[uint32]) *Context {
	t.Helper()
	ctx := NewContext(tokenizer.Tokenize(input))

	var dm, cm, pm *phrase.Matcher
	if dict != nil {
		dm = phrase.NewMatcher(dict, false)
	}
	if component != nil {
		cm = phrase.NewMatcher(component, false)
	}
	if postal != nil {
		pm = phrase.NewMatcher(postal, false)
	}
	ctx.FillPhrases(dm, cm, pm)
	return ctx
}

func TestExtractFeaturesBaselineScenario(t *testing.T) {
	ctx := buildContext(t, "123 main street", nil, nil, nil)
	model := &Model{}

	f0 := ExtractFeatures(ctx, model, 0)
	if !contains(f0, "bias") || !contains(f0, "is_numeric") || !contains(f0, "position=first") {
		t.Fatalf("token 0 features = %v", f0)
	}
	f2 := ExtractFeatures(ctx, model, 2)
	if !contains(f2, "word=street") || !contains(f2, "position=last") {
		t.Fatalf("token 2 features = %v", f2)
	}
	if ctx.NumTokens() != 3 {
		t.Fatalf("NumTokens() = %d, want 3", ctx.NumTokens())
	}
}

func TestExtractFeaturesPostalCodeHasContext(t *testing.T) {
	component := trie.New[uint32]()
	_ = component.Insert("brooklyn", 0)
	postal := trie.New[uint32]()
	_ = postal.Insert("11216", 200)

	ctx := buildContext(t, "brooklyn 11216", nil, component, postal)
	g := graph.New(300)
	g.AddEdge(200, 0)
	model := &Model{
		PostalCodeGraph:      g,
		ComponentPhraseTypes: []ComponentPhraseType{{ComponentsMask: BoundaryCity}},
	}

	features := ExtractFeatures(ctx, model, 1)
	if !contains(features, "postcode have context") || !contains(features, "postcode have context:11216") {
		t.Fatalf("features for postal token = %v", features)
	}
}

func TestExtractFeaturesPostalCodeNoContext(t *testing.T) {
	postal := trie.New[uint32]()
	_ = postal.Insert("11216", 200)

	ctx := buildContext(t, "main 11216", nil, nil, postal)
	g := graph.New(300)
	model := &Model{PostalCodeGraph: g}

	features := ExtractFeatures(ctx, model, 1)
	if !contains(features, "postcode no context:11216") {
		t.Fatalf("expected postcode no context, got %v", features)
	}
	if contains(features, "postcode have context") {
		t.Fatalf("did not expect postcode have context: %v", features)
	}
}

func TestExtractFeaturesLongDistanceVenue(t *testing.T) {
	vocabulary := trie.New[uint32]()
	_ = vocabulary.Insert("ave", 1)
	dict := trie.New[uint32]()
	_ = dict.Insert("ave", 0)

	ctx := buildContext(t, "barboncino 781 ave", dict, nil, nil)
	model := &Model{
		Vocabulary:  vocabulary,
		Phrases:     dict,
		PhraseTypes: []DictPhraseType{{Components: DictRoad}},
	}

	features := ExtractFeatures(ctx, model, 0)
	if !contains(features, "first word unknown+street phrase right:after number") {
		t.Fatalf("expected street-phrase-right feature, got %v", features)
	}
	if !contains(features, "first word unknown+street phrase right:after number:ave") {
		t.Fatalf("expected street-phrase-right detail feature, got %v", features)
	}
}

func TestExtractFeaturesPhraseAwarePrevWord(t *testing.T) {
	dict := trie.New[uint32]()
	_ = dict.Insert("fifth avenue", 0)

	ctx := buildContext(t, "fifth avenue brooklyn", dict, nil, nil)
	model := &Model{Phrases: dict, PhraseTypes: []DictPhraseType{{Components: DictRoad}}}

	features := ExtractFeatures(ctx, model, 2)
	if !contains(features, "prev_word=fifth avenue") {
		t.Fatalf("expected prev_word=fifth avenue, got %v", features)
	}
	if contains(features, "prev_word=avenue") {
		t.Fatalf("did not expect prev_word=avenue, got %v", features)
	}
}

func TestExtractFeaturesDeterministic(t *testing.T) {
	ctx := buildContext(t, "123 main street", nil, nil, nil)
	model := &Model{}

	a := ExtractFeatures(ctx, model, 1)
	b := ExtractFeatures(ctx, model, 1)
	if len(a) != len(b) {
		t.Fatalf("feature extraction not deterministic: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("feature extraction not deterministic: %v vs %v", a, b)
		}
	}
}
