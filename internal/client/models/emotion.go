package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/google/uuid"
)

// Category groups emotions for balance analytics.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryNeutral  Category = "neutral"
)

const (
	MinIntensity = 1
	MaxIntensity = 10
)

// Emotion is a value embedded in its owning entry; it has no identity
// across entries.
type Emotion struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Intensity int      `json:"intensity"`
	Color     string   `json:"color"`
	Category  Category `json:"category"`
	Custom    bool     `json:"custom"`
}

func (e Emotion) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: empty name", common.ErrInvalidEmotion)
	}
	if e.Intensity < MinIntensity || e.Intensity > MaxIntensity {
		return fmt.Errorf("%w: intensity %d for %q outside %d-%d",
			common.ErrInvalidEmotion, e.Intensity, e.Name, MinIntensity, MaxIntensity)
	}
	switch e.Category {
	case CategoryPositive, CategoryNegative, CategoryNeutral:
		return nil
	default:
		return fmt.Errorf("%w: category %q", common.ErrInvalidEmotion, e.Category)
	}
}

// NormalizeEmotions validates every emotion, defaults an empty category to
// neutral and assigns ids to emotions that have none. Order is preserved.
func NormalizeEmotions(in []Emotion) ([]Emotion, error) {
	out := make([]Emotion, 0, len(in))
	for _, e := range in {
		e.Name = strings.TrimSpace(e.Name)
		if e.Category == "" {
			e.Category = CategoryNeutral
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		out = append(out, e)
	}
	return out, nil
}

var palette = []Emotion{
	{Name: "happy", Color: "#FFD93D", Category: CategoryPositive},
	{Name: "grateful", Color: "#6BCB77", Category: CategoryPositive},
	{Name: "calm", Color: "#4D96FF", Category: CategoryPositive},
	{Name: "excited", Color: "#FF6B6B", Category: CategoryPositive},
	{Name: "proud", Color: "#C77DFF", Category: CategoryPositive},
	{Name: "sad", Color: "#5C7AEA", Category: CategoryNegative},
	{Name: "anxious", Color: "#F49D1A", Category: CategoryNegative},
	{Name: "angry", Color: "#E23E57", Category: CategoryNegative},
	{Name: "tired", Color: "#8D8DAA", Category: CategoryNegative},
	{Name: "lonely", Color: "#5F6F94", Category: CategoryNegative},
	{Name: "content", Color: "#A0C4FF", Category: CategoryNeutral},
	{Name: "curious", Color: "#9BF6FF", Category: CategoryNeutral},
	{Name: "reflective", Color: "#BDB2FF", Category: CategoryNeutral},
}

const customColor = "#B0B0B0"

// DefaultEmotions returns the built-in emotion palette. Intensity is unset.
func DefaultEmotions() []Emotion {
	out := make([]Emotion, len(palette))
	copy(out, palette)
	return out
}

// LookupEmotion returns an emotion with the given intensity, taking color and
// category from the palette when name matches (case-insensitively) and
// marking it custom otherwise.
func LookupEmotion(name string, intensity int) Emotion {
	name = strings.TrimSpace(name)
	for _, p := range palette {
		if strings.EqualFold(p.Name, name) {
			p.Intensity = intensity
			return p
		}
	}
	return Emotion{
		Name:      name,
		Intensity: intensity,
		Color:     customColor,
		Category:  CategoryNeutral,
		Custom:    true,
	}
}
