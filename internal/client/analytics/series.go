package analytics

import (
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

const (
	// DailyWindow is the number of days in the heatmap series.
	DailyWindow = 90
	// WeeklyWindowMonths is the trailing window of the weekly rollup.
	WeeklyWindowMonths = 3
)

// Bucket is a heatmap intensity tier for a day's word count.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketLight
	BucketModerate
	BucketSteady
	BucketHeavy
	BucketIntense
)

var bucketLabels = [...]string{
	BucketNone:     "no entry",
	BucketLight:    "1-49",
	BucketModerate: "50-149",
	BucketSteady:   "150-299",
	BucketHeavy:    "300-499",
	BucketIntense:  "500+",
}

func (b Bucket) String() string {
	if b < BucketNone || b > BucketIntense {
		return "unknown"
	}
	return bucketLabels[b]
}

// HeatmapBucket maps a word count to its tier. Range bounds are inclusive.
func HeatmapBucket(words int) Bucket {
	switch {
	case words <= 0:
		return BucketNone
	case words < 50:
		return BucketLight
	case words < 150:
		return BucketModerate
	case words < 300:
		return BucketSteady
	case words < 500:
		return BucketHeavy
	default:
		return BucketIntense
	}
}

type DayPoint struct {
	Day    time.Time
	Words  int
	Bucket Bucket
}

// wordsByDay sums word counts per calendar day.
func wordsByDay(entries []*models.DiaryEntry, loc *time.Location) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[models.DayKey(e.Date.In(loc))] += e.WordCount
	}
	return out
}

// DailyWordCounts returns one point per day for the days trailing window
// ending on the day containing now, oldest first. Days without entries are
// included with zero words.
func DailyWordCounts(entries []*models.DiaryEntry, now time.Time, days int) []DayPoint {
	if days <= 0 {
		days = DailyWindow
	}
	words := wordsByDay(entries, now.Location())
	today := models.DayStart(now)

	out := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := models.AddDays(today, -i)
		w := words[models.DayKey(d)]
		out = append(out, DayPoint{Day: d, Words: w, Bucket: HeatmapBucket(w)})
	}
	return out
}

type WeekStat struct {
	Start   time.Time
	Entries int
	Words   int
}

// WeekStartOf returns the first day of the week containing day.
func WeekStartOf(day time.Time, weekStart time.Weekday) time.Time {
	d := models.DayStart(day)
	offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return models.AddDays(d, -offset)
}

// WeeklyRollup partitions entries from the last WeeklyWindowMonths months
// into calendar weeks starting on weekStart. Every week from the one
// containing the window start to the current week is returned, oldest
// first, including empty ones. Each emitted week counts all of its days,
// so the first one may reach back before the window start.
func WeeklyRollup(entries []*models.DiaryEntry, now time.Time, weekStart time.Weekday) []WeekStat {
	loc := now.Location()
	today := models.DayStart(now)
	windowStart := models.DayStart(today.AddDate(0, -WeeklyWindowMonths, 0))
	first := WeekStartOf(windowStart, weekStart)
	last := WeekStartOf(today, weekStart)

	var out []WeekStat
	index := map[string]int{}
	for w := first; !w.After(last); w = models.AddDays(w, 7) {
		index[models.DayKey(w)] = len(out)
		out = append(out, WeekStat{Start: w})
	}

	for _, e := range entries {
		day := models.DayStart(e.Date.In(loc))
		if day.Before(first) || day.After(today) {
			continue
		}
		i, ok := index[models.DayKey(WeekStartOf(day, weekStart))]
		if !ok {
			continue
		}
		out[i].Entries++
		out[i].Words += e.WordCount
	}
	return out
}
