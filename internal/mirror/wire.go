package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// StatusOK is the status value of a successful acknowledgement.
const StatusOK = "OK"

// Entry is the wire form of a diary entry.
type Entry struct {
	ID          string    `json:"id"`
	Day         string    `json:"day"`
	Content     string    `json:"content"`
	Emotions    []Emotion `json:"emotions"`
	Tags        []string  `json:"tags"`
	WordCount   int       `json:"wordCount"`
	WritingTime int       `json:"writingTime"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Encrypted   bool      `json:"encrypted"`
}

type Emotion struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Intensity int    `json:"intensity"`
	Color     string `json:"color"`
	Category  string `json:"category"`
	Custom    bool   `json:"custom"`
}

// Tombstone asks the mirror to delete an entry.
type Tombstone struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

type Ack struct {
	Status string `json:"status"`
}

var ErrMissingID = errors.New("missing entry id")

// Encode converts v to a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("struct encode: %w", err)
	}
	return s, nil
}

// Decode fills v from a Struct through its JSON form.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return errors.New("nil message")
	}
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func DecodeEntry(s *structpb.Struct) (*Entry, error) {
	var e Entry
	if err := Decode(s, &e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, ErrMissingID
	}
	return &e, nil
}

func DecodeTombstone(s *structpb.Struct) (*Tombstone, error) {
	var t Tombstone
	if err := Decode(s, &t); err != nil {
		return nil, err
	}
	if t.ID == "" {
		return nil, ErrMissingID
	}
	return &t, nil
}

// OK is the acknowledgement every successful call returns.
func OK() *structpb.Struct {
	s, _ := structpb.NewStruct(map[string]any{"status": StatusOK})
	return s
}
