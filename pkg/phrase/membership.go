package phrase

// Membership records, for each token position, the single Match that owns
// it. Ownership is first-wins: once a token is claimed, later overlapping
// matches cannot take it over.
type Membership struct {
	owner []*Match
}

// NewMembership allocates membership bookkeeping for n token positions.
func NewMembership(n int) *Membership {
	return &Membership{owner: make([]*Match, n)}
}

// Assign claims every token in match's span that is not already owned. A
// match that overlaps an earlier, already-claimed match simply yields
// those positions; it is never rejected outright, only partially applied.
func (m *Membership) Assign(match *Match) {
	if match == nil {
		return
	}
	for i := match.StartIdx; i <= match.EndIdx && i < len(m.owner); i++ {
		if i < 0 {
			continue
		}
		if m.owner[i] == nil {
			m.owner[i] = match
		}
	}
}

// At returns the match owning token i, if any.
func (m *Membership) At(i int) (*Match, bool) {
	if i < 0 || i >= len(m.owner) {
		return nil, false
	}
	if m.owner[i] == nil {
		return nil, false
	}
	return m.owner[i], true
}

// IsStartOf reports whether token i is the first token of the phrase that
// owns it.
func (m *Membership) IsStartOf(i int) bool {
	match, ok := m.At(i)
	return ok && match.StartIdx == i
}

// IsEndOf reports whether token i is the last token of the phrase that
// owns it.
func (m *Membership) IsEndOf(i int) bool {
	match, ok := m.At(i)
	return ok && match.EndIdx == i
}

// IsMiddleOf reports whether token i is strictly between the first and
// last token of a phrase spanning three or more tokens.
func (m *Membership) IsMiddleOf(i int) bool {
	match, ok := m.At(i)
	return ok && match.Length >= 3 && i != match.StartIdx && i != match.EndIdx
}
