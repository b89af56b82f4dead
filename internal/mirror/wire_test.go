package mirror

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEntry(t *testing.T) {
	created := time.Date(2026, 10, 14, 21, 5, 0, 0, time.UTC)
	in := Entry{
		ID:          "e1",
		Day:         "2026-10-14",
		Content:     "hello there",
		Emotions:    []Emotion{{ID: "m1", Name: "calm", Intensity: 6, Color: "#4D96FF", Category: "positive"}},
		Tags:        []string{"walk"},
		WordCount:   2,
		WritingTime: 14,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Minute),
	}

	s, err := Encode(in)
	require.NoError(t, err)

	out, err := DecodeEntry(s)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Emotions, out.Emotions)
	assert.Equal(t, in.WordCount, out.WordCount)
	assert.Equal(t, in.WritingTime, out.WritingTime)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.True(t, in.UpdatedAt.Equal(out.UpdatedAt))
}

func TestDecode_MissingID(t *testing.T) {
	s, err := Encode(Entry{Content: "x"})
	require.NoError(t, err)
	_, err = DecodeEntry(s)
	require.ErrorIs(t, err, ErrMissingID)

	s, err = Encode(Tombstone{})
	require.NoError(t, err)
	_, err = DecodeTombstone(s)
	require.ErrorIs(t, err, ErrMissingID)
}

func TestDecode_Nil(t *testing.T) {
	var e Entry
	require.Error(t, Decode(nil, &e))
}

func TestOK(t *testing.T) {
	var ack Ack
	require.NoError(t, Decode(OK(), &ack))
	assert.Equal(t, StatusOK, ack.Status)
}
