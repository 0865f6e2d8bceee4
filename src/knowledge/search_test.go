package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Question: "What are your hours?", Answer: "We're open 11 AM to 9 PM daily."},
		{Question: "What is the pricing for children?", Answer: "Kids under 10 eat for $6.99."},
		{Question: "Do you offer delivery?", Answer: "Yes, through our delivery partners."},
		{Question: "Where are you located?", Answer: "123 Main Street."},
		{Question: "Is the crab legs bar open on weekdays?", Answer: "Crab legs are weekend only."},
	}
}

func TestSearchExactMatch(t *testing.T) {
	results := Search(testEntries(), "What are your hours?")
	require.NotEmpty(t, results)

	assert.Equal(t, "What are your hours?", results[0].Entry.Question)
	assert.GreaterOrEqual(t, results[0].Score, exactMatchScore)
}

func TestSearchQuerySubstring(t *testing.T) {
	results := Search(testEntries(), "delivery")
	require.NotEmpty(t, results)

	assert.Equal(t, "Do you offer delivery?", results[0].Entry.Question)
	assert.GreaterOrEqual(t, results[0].Score, queryInQuestion)
}

func TestSearchSynonymExpansionAndKeyTerms(t *testing.T) {
	results := Search(testEntries(), "kids pricing")
	require.NotEmpty(t, results)

	// Synonym expansion ("kids" -> "children") plus key-term bonuses must
	// rank the children pricing entry first, well above unrelated entries
	assert.Equal(t, "What is the pricing for children?", results[0].Entry.Question)
	assert.GreaterOrEqual(t, results[0].Score, 150)

	for _, r := range results[1:] {
		assert.Less(t, r.Score, results[0].Score)
	}
}

func TestSearchExcludesUnrelated(t *testing.T) {
	results := Search(testEntries(), "do you validate parking")
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, minScore)
	}
	// The location and delivery entries share no meaningful words with the
	// query and must not appear
	for _, r := range results {
		assert.NotEqual(t, "Where are you located?", r.Entry.Question)
	}
}

func TestSearchEmptyInputs(t *testing.T) {
	assert.Empty(t, Search(nil, "hours"))
	assert.Empty(t, Search(testEntries(), ""))
	assert.Empty(t, Search(testEntries(), "   "))
}

func TestSearchCapsResults(t *testing.T) {
	var entries []Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, Entry{Question: "What are the hours today?", Answer: "11 to 9."})
	}
	results := Search(entries, "hours today")
	assert.Len(t, results, maxResults)
}

func TestFormat(t *testing.T) {
	results := []Result{
		{Entry: Entry{Question: "Q1?", Answer: "A1."}},
		{Entry: Entry{Question: "Q2?", Answer: "A2."}},
	}
	assert.Equal(t, "Q: Q1?\nA: A1.\n\nQ: Q2?\nA: A2.", Format(results))
}

func TestSearchMultiWordKeyTerm(t *testing.T) {
	results := Search(testEntries(), "do you have crab legs")
	require.NotEmpty(t, results)
	assert.Equal(t, "Is the crab legs bar open on weekdays?", results[0].Entry.Question)
}
