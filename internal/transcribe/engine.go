package transcribe

import (
	"context"
	"sort"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
)

// Engine is a speech-to-text backend. language is a hint and may be empty,
// in which case the engine should detect it.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, audioPath, language string) (RawResult, error)
}

// RawResult is what an engine hands back before normalization. It is one
// of PlainText, TimedText or DiarizedText.
type RawResult interface {
	isRawResult()
}

// PlainText carries text only, with no timing information.
type PlainText struct {
	Text     string
	Language string
}

type TimedSegment struct {
	Start float64
	End   float64
	Text  string
}

type TimedText struct {
	Text     string
	Language string
	Segments []TimedSegment
}

type SpeakerSegment struct {
	Start   float64
	End     float64
	Text    string
	Speaker string
}

type DiarizedText struct {
	Text     string
	Language string
	Segments []SpeakerSegment
}

func (PlainText) isRawResult()    {}
func (TimedText) isRawResult()    {}
func (DiarizedText) isRawResult() {}

// Normalize maps any raw engine result onto the canonical transcription.
func Normalize(raw RawResult) models.Transcription {
	switch r := raw.(type) {
	case PlainText:
		return fromPlain(r)
	case TimedText:
		return fromTimed(r)
	case DiarizedText:
		return fromDiarized(r)
	default:
		return models.Transcription{Language: models.LanguageUnknown, Segments: []models.Segment{}}
	}
}

func fromPlain(r PlainText) models.Transcription {
	return models.Transcription{
		Text:     strings.TrimSpace(r.Text),
		Language: languageOrUnknown(r.Language),
		Segments: []models.Segment{},
	}
}

func fromTimed(r TimedText) models.Transcription {
	segments := make([]models.Segment, 0, len(r.Segments))
	for _, s := range r.Segments {
		segments = append(segments, models.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	sortSegments(segments)
	return models.Transcription{
		Text:     textOrJoined(r.Text, segments),
		Language: languageOrUnknown(r.Language),
		Segments: segments,
	}
}

func fromDiarized(r DiarizedText) models.Transcription {
	segments := make([]models.Segment, 0, len(r.Segments))
	speakers := make(map[string]struct{})
	for _, s := range r.Segments {
		segments = append(segments, models.Segment{
			Start:   s.Start,
			End:     s.End,
			Text:    strings.TrimSpace(s.Text),
			Speaker: s.Speaker,
		})
		if s.Speaker != "" {
			speakers[s.Speaker] = struct{}{}
		}
	}
	sortSegments(segments)
	return models.Transcription{
		Text:         textOrJoined(r.Text, segments),
		Language:     languageOrUnknown(r.Language),
		Segments:     segments,
		SpeakerCount: len(speakers),
	}
}

func sortSegments(segments []models.Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].Start != segments[j].Start {
			return segments[i].Start < segments[j].Start
		}
		return segments[i].End < segments[j].End
	})
}

func textOrJoined(text string, segments []models.Segment) string {
	if text = strings.TrimSpace(text); text != "" {
		return text
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

func languageOrUnknown(lang string) string {
	if lang = strings.TrimSpace(lang); lang == "" {
		return models.LanguageUnknown
	}
	return lang
}
