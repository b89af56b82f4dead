package analytics

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/orsinium-labs/stopwords"
)

const minWordRunes = 3

var english = stopwords.MustGet("en")

type WordCount struct {
	Word  string
	Count int
}

// TopWords counts lower-cased words across entry content, skipping English
// stopwords and words shorter than three letters. Results are sorted by
// count, ties alphabetically. n <= 0 returns every word.
func TopWords(entries []*models.DiaryEntry, n int) []WordCount {
	counts := map[string]int{}
	for _, e := range entries {
		for _, w := range tokenize(e.Content) {
			if utf8.RuneCountInString(w) < minWordRunes || english.Contains(w) {
				continue
			}
			counts[w]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	slices.SortFunc(out, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// tokenize splits on anything that is not a letter, digit or apostrophe.
func tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for i, w := range words {
		words[i] = strings.Trim(w, "'")
	}
	return words
}
