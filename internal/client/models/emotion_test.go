package models

import (
	"testing"

	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionValidate(t *testing.T) {
	tests := []struct {
		name    string
		e       Emotion
		wantErr bool
	}{
		{"ok low bound", Emotion{Name: "calm", Intensity: 1, Category: CategoryPositive}, false},
		{"ok high bound", Emotion{Name: "calm", Intensity: 10, Category: CategoryNeutral}, false},
		{"zero intensity", Emotion{Name: "calm", Intensity: 0, Category: CategoryNeutral}, true},
		{"too intense", Emotion{Name: "calm", Intensity: 11, Category: CategoryNeutral}, true},
		{"empty name", Emotion{Name: " ", Intensity: 5, Category: CategoryNeutral}, true},
		{"bad category", Emotion{Name: "calm", Intensity: 5, Category: "mixed"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidEmotion)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLookupEmotion(t *testing.T) {
	e := LookupEmotion("Grateful", 7)
	assert.Equal(t, "grateful", e.Name)
	assert.Equal(t, 7, e.Intensity)
	assert.Equal(t, CategoryPositive, e.Category)
	assert.False(t, e.Custom)

	c := LookupEmotion("nostalgic", 3)
	assert.Equal(t, "nostalgic", c.Name)
	assert.True(t, c.Custom)
	assert.Equal(t, CategoryNeutral, c.Category)
	require.NoError(t, c.Validate())
}

func TestDefaultEmotions_IsACopy(t *testing.T) {
	a := DefaultEmotions()
	require.NotEmpty(t, a)
	a[0].Name = "changed"
	assert.NotEqual(t, "changed", DefaultEmotions()[0].Name)
}
