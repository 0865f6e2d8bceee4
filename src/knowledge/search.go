package knowledge

import (
	"sort"
	"strings"
)

// Entry is a single FAQ item from the store's knowledge base. Entries are
// read-only; search never mutates them.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Result pairs a matched entry with its relevance score
type Result struct {
	Entry Entry
	Score int
}

// Scoring constants. An entry must clear minScore to be returned at all;
// exact and substring matches dominate word-overlap matches.
const (
	exactMatchScore = 1000
	queryInQuestion = 500
	questionInQuery = 400
	perWordScore    = 50
	multiWordBonus  = 100
	keyTermBonus    = 150
	minScore        = 50
	maxResults      = 5
)

// stopwords are ignored when counting word overlap
var stopwords = map[string]bool{
	"do": true, "you": true, "have": true, "is": true, "are": true,
	"the": true, "a": true, "an": true, "what": true, "how": true,
	"when": true, "where": true, "can": true, "i": true,
}

// keyTerms get a large bonus when present in both query and question.
// These are the questions callers actually ask about.
var keyTerms = []string{
	"free", "crab legs", "pricing", "hours", "location",
	"delivery", "takeout", "to-go", "kids", "children",
}

// synonyms expands caller vocabulary before scoring so that transcribed
// phrasings still hit the right FAQ entry
var synonyms = map[string][]string{
	"kids":        {"children", "kid", "child"},
	"children":    {"kids", "kid", "child"},
	"price":       {"cost", "pricing", "how much"},
	"pricing":     {"price", "cost"},
	"cost":        {"price", "pricing"},
	"hours":       {"open", "close", "time", "schedule"},
	"open":        {"hours", "time"},
	"location":    {"address", "where", "directions"},
	"address":     {"location", "directions"},
	"delivery":    {"deliver"},
	"takeout":     {"to-go", "togo", "pickup", "carryout"},
	"to-go":       {"takeout", "pickup"},
	"reservation": {"book", "booking", "reserve"},
	"free":        {"complimentary"},
}

// Search ranks the knowledge base entries against a caller query and returns
// the top matches, highest score first. The query is synonym-expanded before
// scoring. Entries below the minimum score are excluded; an empty result
// means the knowledge base has nothing relevant, which callers should turn
// into a graceful spoken fallback rather than silence.
func Search(entries []Entry, query string) []Result {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" || len(entries) == 0 {
		return nil
	}

	queryWords := expand(queryLower)
	// Expanded text used for multi-word key terms like "crab legs"
	expandedQuery := queryLower + " " + strings.Join(queryWords, " ")

	var results []Result
	for _, entry := range entries {
		score := scoreEntry(entry, queryLower, queryWords, expandedQuery)
		if score >= minScore {
			results = append(results, Result{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func scoreEntry(entry Entry, queryLower string, queryWords []string, expandedQuery string) int {
	questionLower := strings.ToLower(entry.Question)

	var score int
	switch {
	case questionLower == queryLower:
		score = exactMatchScore
	case strings.Contains(questionLower, queryLower):
		score = queryInQuestion
	case strings.Contains(queryLower, questionLower):
		score = questionInQuery
	default:
		questionWords := map[string]bool{}
		for _, w := range tokenize(questionLower) {
			questionWords[w] = true
		}

		meaningful := 0
		for _, w := range queryWords {
			if stopwords[w] {
				continue
			}
			if questionWords[w] {
				meaningful++
			}
		}
		score = meaningful * perWordScore
		if meaningful >= 2 {
			score += multiWordBonus
		}
	}

	for _, term := range keyTerms {
		if strings.Contains(expandedQuery, term) && strings.Contains(questionLower, term) {
			score += keyTermBonus
		}
	}
	return score
}

// expand returns the query's words plus all synonym words, deduplicated
func expand(queryLower string) []string {
	seen := map[string]bool{}
	var words []string
	add := func(w string) {
		if w != "" && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}

	for _, w := range tokenize(queryLower) {
		add(w)
		for _, syn := range synonyms[w] {
			// Multi-word synonyms ("how much") contribute their words
			for _, sw := range strings.Fields(syn) {
				add(sw)
			}
		}
	}
	return words
}

// tokenize splits lowercased text into words with surrounding punctuation
// stripped, so "children?" matches "children"
func tokenize(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:'\"()")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Format renders search results as spoken Q/A pairs separated by blank lines
func Format(results []Result) string {
	var parts []string
	for _, r := range results {
		parts = append(parts, "Q: "+r.Entry.Question+"\nA: "+r.Entry.Answer)
	}
	return strings.Join(parts, "\n\n")
}
