package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parkingText = "Parking is allowed. No parking after 10pm. Parking permits required."

func TestFind(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		query      string
		want       int
	}{
		{name: "case insensitive", transcript: parkingText, query: "parking", want: 3},
		{name: "upper query", transcript: parkingText, query: "PARKING", want: 3},
		{name: "empty query", transcript: parkingText, query: "", want: 0},
		{name: "whitespace query", transcript: parkingText, query: "  \t\n", want: 0},
		{name: "no match", transcript: parkingText, query: "pool", want: 0},
		{name: "regex metacharacters", transcript: "See 3.5(a) and 3x5a.", query: "3.5(a)", want: 1},
		{name: "dot is literal", transcript: "a.b axb", query: ".", want: 1},
		{name: "non overlapping", transcript: "aaaa", query: "aa", want: 2},
		{name: "empty transcript", transcript: "", query: "x", want: 0},
		{name: "brackets and slash", transcript: `fee [$50] \ month`, query: `[$50] \`, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.transcript, tt.query))
		})
	}
}

func TestFindPositions(t *testing.T) {
	matches := Find(parkingText, "parking")
	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].End, matches[i].Start+1)
	}
	assert.Equal(t, Match{Start: 0, End: 7}, matches[0])
	assert.Equal(t, "parking", parkingText[matches[1].Start:matches[1].End])
}

func TestSessionNavigationWraps(t *testing.T) {
	s := NewSession(parkingText)
	s.SetQuery("parking")
	require.Equal(t, 3, s.MatchCount())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 0, cur)

	for _, want := range []int{1, 2, 0} {
		s.Next()
		cur, _ = s.Current()
		assert.Equal(t, want, cur)
	}

	s.Prev()
	cur, _ = s.Current()
	assert.Equal(t, 2, cur)
}

func TestSessionQueryChangeResets(t *testing.T) {
	s := NewSession(parkingText)
	s.SetQuery("parking")
	s.Next()
	s.Next()

	s.SetQuery("required")
	assert.Equal(t, 1, s.MatchCount())
	cur, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, 0, cur)
}

func TestSessionFindSameQueryAdvances(t *testing.T) {
	s := NewSession(parkingText)
	s.Find("parking")
	cur, _ := s.Current()
	assert.Equal(t, 0, cur)

	s.Find("parking")
	cur, _ = s.Current()
	assert.Equal(t, 1, cur)

	s.Find("permits")
	cur, _ = s.Current()
	assert.Equal(t, 0, cur)
	assert.Equal(t, 1, s.MatchCount())
}

func TestSessionBlankAndClear(t *testing.T) {
	s := NewSession(parkingText)
	s.SetQuery("   ")
	assert.Equal(t, 0, s.MatchCount())
	_, ok := s.Current()
	assert.False(t, ok)

	s.Next()
	s.Prev()
	_, ok = s.Current()
	assert.False(t, ok)

	s.SetQuery("parking")
	s.Next()
	s.Clear()
	assert.Equal(t, "", s.Query())
	assert.Equal(t, 0, s.MatchCount())
	assert.Equal(t, []Segment{{Text: parkingText}}, s.Segments())
}

func TestSessionFocus(t *testing.T) {
	s := NewSession(parkingText)
	s.SetQuery("parking")
	s.Focus(4)
	cur, _ := s.Current()
	assert.Equal(t, 1, cur)
	s.Focus(-1)
	cur, _ = s.Current()
	assert.Equal(t, 2, cur)
}

func TestSegments(t *testing.T) {
	segs := Segments(parkingText, "parking", 1)

	var matched, current int
	var rebuilt string
	for _, seg := range segs {
		rebuilt += seg.Text
		if seg.Match {
			matched++
		}
		if seg.Current {
			current++
			assert.True(t, seg.Match)
			assert.Equal(t, "parking", seg.Text)
		}
	}
	assert.Equal(t, parkingText, rebuilt)
	assert.Equal(t, 3, matched)
	assert.Equal(t, 1, current)
	assert.Equal(t, Segment{Text: "Parking", Match: true}, segs[0])
}

func TestSegmentsBlankQuery(t *testing.T) {
	assert.Equal(t, []Segment{{Text: parkingText}}, Segments(parkingText, " ", 0))
}

func TestHTML(t *testing.T) {
	segs := Segments("a <b> a", "a", 1)
	assert.Equal(t, `<mark>a</mark> &lt;b&gt; <mark class="current">a</mark>`, HTML(segs))
}
