package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config carries the matching thresholds. The defaults come straight
// from the tuned values of the voice flow; callers that need different
// behaviour override fields instead of re-tuning literals in code.
type Config struct {
	InclusionThreshold   float64 `json:"inclusion_threshold"`
	ConfidenceThreshold  float64 `json:"confidence_threshold"`
	PerfectThreshold     float64 `json:"perfect_threshold"`
	SubcategoryThreshold float64 `json:"subcategory_threshold"`
}

func DefaultConfig() Config {
	return Config{
		InclusionThreshold:   50,
		ConfidenceThreshold:  70,
		PerfectThreshold:     95,
		SubcategoryThreshold: 60,
	}
}

type Match struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
}

// MatchAll scores the utterance against every candidate and returns
// matches scoring above minScore, sorted by score descending.
// A candidate mentioned verbatim in the utterance scores 100; voice
// transcripts frequently contain category names word for word, so the
// containment check runs before any fuzzy scoring.
func MatchAll(utterance string, candidates []string, minScore float64) []Match {
	if len(candidates) == 0 {
		return []Match{}
	}

	cleanUtterance := CleanText(utterance)

	var matches []Match
	for _, candidate := range candidates {
		score := 0.0
		if strings.Contains(cleanUtterance, CleanText(candidate)) {
			score = 100
		} else {
			score = TokenSetRatio(utterance, candidate)
		}
		if score > minScore {
			matches = append(matches, Match{Candidate: candidate, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// TokenSetRatio computes an order-independent similarity between two
// strings on a 0..100 scale. Both inputs are tokenized into sets; the
// score is the best pairwise similarity between the joined
// intersection and each side's remainder, so shared tokens dominate
// regardless of word order or repetition.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for token := range tokensA {
		if tokensB[token] {
			common = append(common, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range tokensB {
		if !tokensA[token] {
			onlyB = append(onlyB, token)
		}
	}

	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := similarity(full1, full2)
	if base != "" {
		if s := similarity(base, full1); s > best {
			best = s
		}
		if s := similarity(base, full2); s > best {
			best = s
		}
	}

	return best * 100
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	distance := levenshteinDistance(a, b)
	result := 1.0 - float64(distance)/float64(maxLen)
	if result < 0 {
		return 0
	}
	return result
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}

	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func min3(a, b, c int) int {
	if a < b && a < c {
		return a
	} else if b < c {
		return b
	}
	return c
}

func tokenSet(text string) map[string]bool {
	tokens := map[string]bool{}
	for _, word := range strings.Fields(CleanText(text)) {
		tokens[word] = true
	}
	return tokens
}

// CleanText lowercases, strips diacritics and keeps only letters,
// digits and spaces, collapsing whitespace runs.
func CleanText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, result)

	words := strings.Fields(result)
	return strings.Join(words, " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
