package search

// Session tracks a query against one transcript and the index of the match
// the viewer is focused on. The zero value is not usable; use NewSession.
type Session struct {
	transcript string
	query      string
	matches    []Match
	current    int
}

// NewSession starts a session with no query.
func NewSession(transcript string) *Session {
	return &Session{transcript: transcript}
}

// SetQuery replaces the query, recomputes the matches and resets the current
// index to 0.
func (s *Session) SetQuery(query string) {
	s.query = query
	s.matches = Find(s.transcript, query)
	s.current = 0
}

// Find submits query. Submitting the query already in effect moves to the
// next match; any other query behaves like SetQuery.
func (s *Session) Find(query string) {
	if query == s.query && !Blank(query) {
		s.Next()
		return
	}
	s.SetQuery(query)
}

// Next advances to the following match, wrapping to the first.
func (s *Session) Next() {
	if len(s.matches) == 0 {
		return
	}
	s.current = (s.current + 1) % len(s.matches)
}

// Prev moves to the preceding match, wrapping to the last.
func (s *Session) Prev() {
	if len(s.matches) == 0 {
		return
	}
	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
}

// Focus moves to match i, wrapping out-of-range values.
func (s *Session) Focus(i int) {
	n := len(s.matches)
	if n == 0 {
		return
	}
	s.current = ((i % n) + n) % n
}

// Clear drops the query.
func (s *Session) Clear() {
	s.SetQuery("")
}

// Query returns the query in effect.
func (s *Session) Query() string { return s.query }

// MatchCount returns the number of matches of the current query.
func (s *Session) MatchCount() int { return len(s.matches) }

// Matches returns the matches of the current query.
func (s *Session) Matches() []Match { return s.matches }

// Current returns the focused match index. ok is false when there are no
// matches.
func (s *Session) Current() (idx int, ok bool) {
	if len(s.matches) == 0 {
		return 0, false
	}
	return s.current, true
}

// Segments renders the transcript for the current state.
func (s *Session) Segments() []Segment {
	return Segments(s.transcript, s.query, s.current)
}
