package addrparse

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/addrstat/addrstat/pkg/tokenizer"
)

func lowerToken(s string) string { return strings.ToLower(s) }

func stripTrailingPeriod(s string) string { return strings.TrimSuffix(s, ".") }

func isAllCapsOrPeriod(s string) bool {
	for _, r := range s {
		if r == '.' {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func beginsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// featureSet accumulates features with set semantics (a feature
// contributes once regardless of how many times it is emitted) and
// produces them in a fixed, sorted order so extraction is deterministic.
type featureSet struct {
	seen map[string]struct{}
}

func newFeatureSet() *featureSet { return &featureSet{seen: map[string]struct{}{}} }

func (f *featureSet) add(feature string)           { f.seen[feature] = struct{}{} }
func (f *featureSet) addf(format string, a ...any) { f.add(fmt.Sprintf(format, a...)) }

func (f *featureSet) slice() []string {
	out := make([]string, 0, len(f.seen))
	for feat := range f.seen {
		out = append(out, feat)
	}
	sort.Strings(out)
	return out
}

// ExtractFeatures produces the deterministic set of string features for
// non-whitespace token i. model may have any optional resource nil; the
// corresponding feature family is simply skipped.
func ExtractFeatures(ctx *Context, model *Model, i int) []string {
	f := newFeatureSet()
	f.add("bias")

	tok := ctx.TokenAt(i)
	wPrime := extractBaseline(f, tok, i, ctx)
	extractPhraseAwareContext(f, ctx, i, wPrime)
	extractDictionaryPhraseFeatures(f, ctx, model, i)
	extractComponentPhraseFeatures(f, ctx, model, i)
	extractPostalCodeContext(f, ctx, model, i)
	extractVenueFeatures(f, ctx, model, i)

	return f.slice()
}

// extractBaseline emits the word-shape, positional, and numeric features
// and returns w' (lower-cased, trailing-period-stripped text) for
// Word/Abbreviation/Acronym tokens, or "" otherwise.
func extractBaseline(f *featureSet, tok tokenizer.Token, i int, ctx *Context) string {
	raw := tok.Text
	var wPrime string

	switch tok.Kind {
	case tokenizer.Word, tokenizer.Abbreviation, tokenizer.Acronym:
		w := strings.ToLower(raw)
		wPrime = stripTrailingPeriod(w)
		f.add("word=" + wPrime)
		f.addf("word_length=%d", len([]rune(wPrime)))
		if beginsUpper(raw) {
			f.add("is_capitalized")
		}
		if isAllCapsOrPeriod(raw) {
			f.add("is_all_caps")
		}
		if strings.Contains(raw, ".") {
			f.add("has_period")
		}

		runes := []rune(wPrime)
		if len(runes) >= 6 {
			maxN := min(6, len(runes))
			for n := 3; n <= maxN; n++ {
				f.addf("word:prefix%d=%s", n, string(runes[:n]))
				f.addf("word:suffix%d=%s", n, string(runes[len(runes)-n:]))
			}
		}
		if strings.Contains(wPrime, "-") {
			for _, part := range strings.Split(wPrime, "-") {
				if part != "" {
					f.add("sub_word=" + part)
				}
			}
		}
	case tokenizer.Numeric:
		f.add("is_numeric")
	}

	if i > 0 && ctx.TokenAt(i-1).Kind == tokenizer.Comma {
		f.add("after_comma")
	}
	if i == 0 {
		f.add("position=first")
	}
	if i == ctx.NumTokens()-1 {
		f.add("position=last")
	}

	return wPrime
}

// extractPhraseAwareContext emits prev/next-word features, stepping
// outward past the phrase span that owns token i; a neighbor that lies
// inside a phrase is reported as that phrase's full text.
func extractPhraseAwareContext(f *featureSet, ctx *Context, i int, wPrime string) {
	sp, _ := ctx.resolveSpan(i)
	start, end := sp.start, sp.end
	if start > i {
		start = i
	}
	if end < i {
		end = i
	}

	w := wPrime
	if w == "" {
		w = lowerToken(ctx.TokenAt(i).Text)
	}

	if prevWord, ok := ctx.wordAt(start - 1); ok {
		f.add("prev_word=" + prevWord)
		f.add("prev_word+word=" + prevWord + " " + w)
	}
	if nextWord, ok := ctx.wordAt(end + 1); ok {
		f.add("next_word=" + nextWord)
		f.add("word+next_word=" + w + " " + nextWord)
	}
}

func extractDictionaryPhraseFeatures(f *featureSet, ctx *Context, model *Model, i int) {
	match, ok := ctx.dict.At(i)
	if !ok {
		return
	}
	f.add("phrase:" + match.PhraseText)

	components := model.dictComponents(match.PhraseID)
	var set []string
	for _, entry := range dictComponentOrder {
		if components&entry.Bit != 0 {
			f.add("phrase:" + entry.Name)
			set = append(set, entry.Name)
		}
	}
	if len(set) == 1 {
		f.add("unambiguous phrase type:" + set[0])
		f.add("unambiguous phrase type+phrase:" + set[0] + ":" + match.PhraseText)
	}
}

func extractComponentPhraseFeatures(f *featureSet, ctx *Context, model *Model, i int) {
	match, ok := ctx.component.At(i)
	if !ok {
		return
	}
	f.add("phrase:" + match.PhraseText)

	pt, ok := model.componentPhraseType(match.PhraseID)
	if !ok {
		return
	}
	mask := pt.ComponentsMask
	for _, entry := range boundaryOrder {
		switch {
		case mask == entry.Bit:
			f.add("unambiguous phrase type:" + entry.Name)
			f.add("unambiguous phrase type+phrase:" + entry.Name + ":" + match.PhraseText)
		case mask&entry.Bit != 0:
			f.add("phrase:" + entry.Name)
			f.add("phrase type+phrase:" + entry.Name + ":" + match.PhraseText)
		}
	}
	if popcount16(uint16(mask)) > 1 {
		if b, known := ordinalToBoundary[pt.MostCommon]; known && b != 0 && mask&b != 0 {
			f.add("commonly " + boundaryName(b) + ":" + match.PhraseText)
		}
	}
}

func extractPostalCodeContext(f *featureSet, ctx *Context, model *Model, i int) {
	match, ok := ctx.postalCode.At(i)
	if !ok || model.PostalCodeGraph == nil {
		return
	}
	lowerText := lowerToken(ctx.TokenAt(i).Text)
	adminID, found := ctx.findAdjacentAdminID(match.StartIdx, match.EndIdx)
	if found && model.PostalCodeGraph.HasEdge(match.PhraseID, adminID) {
		f.add("postcode have context")
		f.add("postcode have context:" + lowerText)
		return
	}
	f.add("postcode no context:" + lowerText)
}

func extractVenueFeatures(f *featureSet, ctx *Context, model *Model, i int) {
	if i != 0 {
		return
	}
	tok := ctx.TokenAt(0)
	if tok.Kind != tokenizer.Word {
		return
	}
	lowerText := lowerToken(tok.Text)
	if model.Vocabulary == nil {
		return
	}
	if _, known := model.Vocabulary.Lookup(lowerText); known {
		return
	}
	if _, owned := ctx.dict.At(0); owned {
		return
	}
	if _, owned := ctx.component.At(0); owned {
		return
	}
	if _, owned := ctx.postalCode.At(0); owned {
		return
	}

	seenNumber := false
	seenPhrase := false
	for j := 0; j < ctx.NumTokens(); j++ {
		if match, ok := ctx.dict.At(j); ok && ctx.dict.IsStartOf(j) {
			components := model.dictComponents(match.PhraseID)
			hasRoad := components&DictRoad != 0
			hasName := components&DictName != 0
			relation := "before number"
			if seenNumber {
				relation = "after number"
			}
			switch {
			case hasRoad && !hasName:
				f.add("first word unknown+street phrase right:" + relation)
				f.add("first word unknown+street phrase right:" + relation + ":" + match.PhraseText)
				return
			case hasName && !hasRoad:
				f.add("first word unknown+venue phrase right:" + relation)
				f.add("first word unknown+venue phrase right:" + relation + ":" + match.PhraseText)
				seenPhrase = true
			case hasRoad && hasName && seenNumber:
				f.add("first word unknown+number+ambiguous phrase right")
				f.add("first word unknown+number+ambiguous phrase right:" + match.PhraseText)
				return
			}
			continue
		}

		tok := ctx.TokenAt(j)
		if tok.Kind == tokenizer.Numeric {
			seenNumber = true
			relation := "before phrase"
			if seenPhrase {
				relation = "after phrase"
			}
			f.add("first word unknown+number right:" + relation)
			f.add("first word unknown+number right:" + relation + ":" + lowerToken(tok.Text))
			if seenPhrase {
				return
			}
		}
	}
}
