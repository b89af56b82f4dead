package analytics

import (
	"math"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

// Summary holds collection-wide statistics. Averages are rounded to the
// nearest integer and are 0 when there is nothing to divide by. Longest is a
// copy of the entry with the most words, ties going to the earliest day, and
// is nil without entries.
type Summary struct {
	TotalEntries       int
	TotalWords         int
	AverageWords       int
	Longest            *models.DiaryEntry
	WritingDays        int
	AverageWordsPerDay int
	WritingMinutes     int
}

func Summarize(entries []*models.DiaryEntry, loc *time.Location) Summary {
	var s Summary
	s.TotalEntries = len(entries)

	for _, e := range entries {
		s.TotalWords += e.WordCount
		s.WritingMinutes += e.WritingTime
		if s.Longest == nil || e.WordCount > s.Longest.WordCount ||
			(e.WordCount == s.Longest.WordCount && e.Date.Before(s.Longest.Date)) {
			s.Longest = e
		}
	}
	s.Longest = s.Longest.Clone()
	s.WritingDays = len(daySet(entries, loc))
	s.AverageWords = roundedRatio(s.TotalWords, s.TotalEntries)
	s.AverageWordsPerDay = roundedRatio(s.TotalWords, s.WritingDays)
	return s
}

func roundedRatio(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d)))
}
