package models

type AnalyzeRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language"`
}

type KeyMoment struct {
	Sentence string `json:"sentence"`
	Keyword  string `json:"keyword"`
}

type TranscriptAnalysis struct {
	WordCount  int         `json:"word_count"`
	CharCount  int         `json:"char_count"`
	Language   string      `json:"language"`
	Summary    string      `json:"summary"`
	KeyMoments []KeyMoment `json:"key_moments"`
	Hashtags   []string    `json:"hashtags"`
}
