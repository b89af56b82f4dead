package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/diarykeeper/internal/client/analytics"
	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
)

const previewRunes = 40

// entryLine is the one-line listing form of an entry.
func entryLine(e *models.DiaryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %5d words  %s", e.DayKey(), e.WordCount, e.ID)
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "  #%s", strings.Join(e.Tags, " #"))
	}
	if p := preview(e.Content); p != "" {
		fmt.Fprintf(&b, "\n    %s", p)
	}
	return b.String()
}

func preview(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	r := []rune(line)
	if len(r) > previewRunes {
		return string(r[:previewRunes]) + "..."
	}
	return line
}

func writeEntry(w io.Writer, e *models.DiaryEntry) {
	fmt.Fprintf(w, "%s  (%s)\n", e.Date.Format("Monday, January 2 2006"), e.ID)
	fmt.Fprintf(w, "Words: %d  Writing: %d min  Created: %s\n",
		e.WordCount, e.WritingTime, e.CreatedAt.Format("15:04"))
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	if len(e.Emotions) > 0 {
		parts := make([]string, 0, len(e.Emotions))
		for _, em := range e.Emotions {
			parts = append(parts, fmt.Sprintf("%s %d/%d", em.Name, em.Intensity, models.MaxIntensity))
		}
		fmt.Fprintf(w, "Feelings: %s\n", strings.Join(parts, ", "))
	}
	if e.Content != "" {
		fmt.Fprintf(w, "\n%s\n", e.Content)
	}
}

var bucketGlyphs = [...]string{
	analytics.BucketNone:     ".",
	analytics.BucketLight:    "-",
	analytics.BucketModerate: "+",
	analytics.BucketSteady:   "*",
	analytics.BucketHeavy:    "#",
	analytics.BucketIntense:  "@",
}

func glyph(b analytics.Bucket) string {
	if int(b) < 0 || int(b) >= len(bucketGlyphs) {
		return "?"
	}
	return bucketGlyphs[b]
}

// bar renders n proportionally to top, at most width cells.
func bar(n, top, width int) string {
	if top <= 0 || n <= 0 {
		return ""
	}
	cells := n * width / top
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("=", cells)
}
