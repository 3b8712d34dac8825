package transcribe

import (
	"sort"
	"strconv"
)

// Diarizer attaches speaker labels to a raw result.
type Diarizer interface {
	Diarize(raw RawResult) RawResult
}

const silenceGapSec = 1.5

// SilenceDiarizer alternates between two speakers whenever the gap between
// consecutive segments, in start order, is longer than 1.5 seconds. Results that already
// carry speakers or have no timing are returned unchanged.
type SilenceDiarizer struct{}

func (SilenceDiarizer) Diarize(raw RawResult) RawResult {
	timed, ok := raw.(TimedText)
	if !ok || len(timed.Segments) == 0 {
		return raw
	}

	segments := append([]TimedSegment(nil), timed.Segments...)
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].Start != segments[j].Start {
			return segments[i].Start < segments[j].Start
		}
		return segments[i].End < segments[j].End
	})

	out := DiarizedText{
		Text:     timed.Text,
		Language: timed.Language,
		Segments: make([]SpeakerSegment, len(segments)),
	}
	speaker := 1
	for i, s := range segments {
		if i > 0 && s.Start-segments[i-1].End > silenceGapSec {
			speaker = 3 - speaker
		}
		out.Segments[i] = SpeakerSegment{
			Start:   s.Start,
			End:     s.End,
			Text:    s.Text,
			Speaker: "Speaker " + strconv.Itoa(speaker),
		}
	}
	return out
}
