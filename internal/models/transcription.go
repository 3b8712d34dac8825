package models

const (
	LanguageUnknown = "unknown"
	LanguageError   = "error"

	TranscriptionUnavailableText = "Transcrição não disponível"
	TranscriptionErrorPrefix     = "Erro na transcrição: "
)

type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

type Transcription struct {
	Text         string    `json:"text"`
	Language     string    `json:"language"`
	Segments     []Segment `json:"segments"`
	SpeakerCount int       `json:"speaker_count,omitempty"`
}

func UnavailableTranscription() Transcription {
	return Transcription{
		Text:     TranscriptionUnavailableText,
		Language: LanguageUnknown,
		Segments: []Segment{},
	}
}

func FailedTranscription(err error) Transcription {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return Transcription{
		Text:     TranscriptionErrorPrefix + detail,
		Language: LanguageError,
		Segments: []Segment{},
	}
}
