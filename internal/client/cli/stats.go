package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/diarykeeper/internal/client/analytics"
	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/prometheus/common/expfmt"
)

const (
	barWidth     = 30
	topWordCount = 10
	metricPrefix = "diarykeeper_"
)

func (a *App) Stats(_ context.Context, _ []string) error {
	list := a.store.Entries()
	now := a.store.Now()
	sum := analytics.Summarize(list, a.store.Location())
	streaks := analytics.ComputeStreaks(list, now)

	a.printf("Entries:          %d\n", sum.TotalEntries)
	a.printf("Words:            %d (avg %d per entry)\n", sum.TotalWords, sum.AverageWords)
	a.printf("Writing days:     %d (avg %d words per day)\n", sum.WritingDays, sum.AverageWordsPerDay)
	a.printf("Writing time:     %d min\n", sum.WritingMinutes)
	a.printf("Streak:           %d current, %d longest\n", streaks.Current, streaks.Longest)
	if sum.Longest != nil {
		a.printf("Longest entry:    %s (%d words)\n", sum.Longest.DayKey(), sum.Longest.WordCount)
	}
	for _, c := range analytics.CategoryBreakdown(list) {
		a.printf("Feeling %-9s %3d (%.1f%%)\n", string(c.Category)+":", c.Count, c.Percentage)
	}
	return nil
}

func (a *App) Streak(_ context.Context, _ []string) error {
	s := analytics.ComputeStreaks(a.store.Entries(), a.store.Now())
	a.printf("Current streak: %d days\nLongest streak: %d days\n", s.Current, s.Longest)
	return nil
}

// Heatmap prints the trailing daily window as one row per week.
func (a *App) Heatmap(_ context.Context, _ []string) error {
	points := analytics.DailyWordCounts(a.store.Entries(), a.store.Now(), analytics.DailyWindow)
	if len(points) == 0 {
		return nil
	}

	var row strings.Builder
	weekStart := analytics.WeekStartOf(points[0].Day, a.weekStart)
	row.WriteString(models.DayKey(weekStart))
	cells := 0
	for d := weekStart; d.Before(points[0].Day); d = models.AddDays(d, 1) {
		row.WriteString("  ")
		cells++
	}
	for _, p := range points {
		if p.Day.Weekday() == a.weekStart && cells > 0 {
			a.printf("%s\n", row.String())
			row.Reset()
			row.WriteString(models.DayKey(p.Day))
			cells = 0
		}
		row.WriteString(" " + glyph(p.Bucket))
		cells++
	}
	a.printf("%s\n", row.String())

	legend := make([]string, 0, int(analytics.BucketIntense)+1)
	for b := analytics.BucketNone; b <= analytics.BucketIntense; b++ {
		legend = append(legend, glyph(b)+" "+b.String())
	}
	a.printf("\n%s\n", strings.Join(legend, "  "))
	return nil
}

func (a *App) Weeks(_ context.Context, _ []string) error {
	weeks := analytics.WeeklyRollup(a.store.Entries(), a.store.Now(), a.weekStart)
	top := 0
	for _, w := range weeks {
		top = max(top, w.Words)
	}
	for _, w := range weeks {
		a.printf("%s  %d entries  %5d words  %s\n", models.DayKey(w.Start), w.Entries, w.Words, bar(w.Words, top, barWidth))
	}
	return nil
}

// Hours lists the hours entries were started in, busiest first.
func (a *App) Hours(_ context.Context, _ []string) error {
	hours := analytics.TimeOfDay(a.store.Entries())
	if len(hours) == 0 || hours[0].Count == 0 {
		a.printf("No entries.\n")
		return nil
	}
	for _, h := range hours {
		if h.Count == 0 {
			break
		}
		a.printf("%02d:00  %3d  %5.1f%%  %s\n", h.Hour, h.Count, h.Percentage, bar(h.Count, hours[0].Count, barWidth))
	}
	return nil
}

func (a *App) Emotions(_ context.Context, _ []string) error {
	counts := analytics.EmotionFrequency(a.store.Entries(), analytics.TopEmotions)
	if len(counts) == 0 {
		a.printf("No feelings recorded.\n")
		return nil
	}
	for _, c := range counts {
		a.printf("%-12s %-8s %3d  %5.1f%%\n", c.Name, c.Category, c.Count, c.Percentage)
	}
	return nil
}

func (a *App) Words(_ context.Context, _ []string) error {
	words := analytics.TopWords(a.store.Entries(), topWordCount)
	if len(words) == 0 {
		a.printf("No words yet.\n")
		return nil
	}
	for _, w := range words {
		a.printf("%-16s %d\n", w.Word, w.Count)
	}
	return nil
}

// Metrics prints the process's own sync counters in the Prometheus text
// format.
func (a *App) Metrics(_ context.Context, _ []string) error {
	families, err := a.gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricPrefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
			return err
		}
	}
	return nil
}
