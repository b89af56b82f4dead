package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

// TopEmotions is how many emotions EmotionFrequency returns by default.
const TopEmotions = 10

type HourCount struct {
	Hour       int
	Count      int
	Percentage float64
}

// TimeOfDay buckets entries by the hour of CreatedAt. All 24 hours are
// returned, busiest first, ties by hour.
func TimeOfDay(entries []*models.DiaryEntry) []HourCount {
	var counts [24]int
	for _, e := range entries {
		counts[e.CreatedAt.Hour()]++
	}

	out := make([]HourCount, 24)
	for h := range out {
		out[h] = HourCount{Hour: h, Count: counts[h], Percentage: percent(counts[h], len(entries))}
	}
	slices.SortFunc(out, func(a, b HourCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})
	return out
}

type EmotionCount struct {
	Name       string
	Color      string
	Category   models.Category
	Count      int
	Percentage float64
}

// EmotionFrequency counts emotion occurrences by name across all entries.
// Percentages are of all emotion occurrences. Ties keep first appearance.
// n <= 0 returns every emotion.
func EmotionFrequency(entries []*models.DiaryEntry, n int) []EmotionCount {
	out := []EmotionCount{}
	index := map[string]int{}
	total := 0
	for _, e := range entries {
		for _, m := range e.Emotions {
			key := strings.ToLower(m.Name)
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, EmotionCount{Name: m.Name, Color: m.Color, Category: m.Category})
			}
			out[i].Count++
			total++
		}
	}
	for i := range out {
		out[i].Percentage = percent(out[i].Count, total)
	}
	slices.SortStableFunc(out, func(a, b EmotionCount) int { return cmp.Compare(b.Count, a.Count) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type CategoryCount struct {
	Category   models.Category
	Count      int
	Percentage float64
}

// CategoryBreakdown counts emotion occurrences per category, always in the
// order positive, negative, neutral.
func CategoryBreakdown(entries []*models.DiaryEntry) []CategoryCount {
	out := []CategoryCount{
		{Category: models.CategoryPositive},
		{Category: models.CategoryNegative},
		{Category: models.CategoryNeutral},
	}
	total := 0
	for _, e := range entries {
		for _, m := range e.Emotions {
			switch m.Category {
			case models.CategoryPositive:
				out[0].Count++
			case models.CategoryNegative:
				out[1].Count++
			default:
				out[2].Count++
			}
			total++
		}
	}
	for i := range out {
		out[i].Percentage = percent(out[i].Count, total)
	}
	return out
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
