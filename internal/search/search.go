// Package search finds and highlights literal, case-insensitive matches of a
// query within a transcript.
package search

import (
	"html"
	"regexp"
	"strings"
)

// Match is one occurrence of the query, as byte offsets into the transcript.
type Match struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Blank reports whether query means "no search".
func Blank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// compile builds the case-insensitive pattern for a literal query.
func compile(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// Find returns every non-overlapping occurrence of query in transcript,
// ordered by position. Regex metacharacters in query match literally.
// A blank query has no matches.
func Find(transcript, query string) []Match {
	if Blank(query) {
		return nil
	}
	locs := compile(query).FindAllStringIndex(transcript, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{Start: loc[0], End: loc[1]}
	}
	return matches
}

// Count returns len(Find(transcript, query)).
func Count(transcript, query string) int {
	return len(Find(transcript, query))
}

// Segment is a run of transcript text. Match is set on every occurrence of
// the query and Current on exactly the one at the current index.
type Segment struct {
	Text    string `json:"text"`
	Match   bool   `json:"match,omitempty"`
	Current bool   `json:"current,omitempty"`
}

// Segments splits transcript around the matches of query. With a blank query
// or no matches the transcript is returned as a single plain segment.
// Empty text between adjacent matches is omitted.
func Segments(transcript, query string, current int) []Segment {
	matches := Find(transcript, query)
	if len(matches) == 0 {
		return []Segment{{Text: transcript}}
	}
	segs := make([]Segment, 0, 2*len(matches)+1)
	pos := 0
	for i, m := range matches {
		if m.Start > pos {
			segs = append(segs, Segment{Text: transcript[pos:m.Start]})
		}
		segs = append(segs, Segment{Text: transcript[m.Start:m.End], Match: true, Current: i == current})
		pos = m.End
	}
	if pos < len(transcript) {
		segs = append(segs, Segment{Text: transcript[pos:]})
	}
	return segs
}

// HTML renders segments as escaped HTML, wrapping matches in <mark> and the
// current match in <mark class="current">.
func HTML(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		text := html.EscapeString(s.Text)
		switch {
		case s.Current:
			b.WriteString(`<mark class="current">`)
			b.WriteString(text)
			b.WriteString("</mark>")
		case s.Match:
			b.WriteString("<mark>")
			b.WriteString(text)
			b.WriteString("</mark>")
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}
