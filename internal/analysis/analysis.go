package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
)

const (
	summarySentences = 3
	maxKeyMoments    = 10
	maxHashtags      = 10
	minHashtagLength = 4
)

var keyMomentWords = []string{
	"importante", "lembre-se", "crucial", "essencial",
	"primeiro", "segundo", "terceiro", "finalmente",
	"atenção", "cuidado", "dica", "segredo",
}

var stopwords = map[string]struct{}{
	"o": {}, "a": {}, "de": {}, "da": {}, "do": {},
	"em": {}, "um": {}, "uma": {}, "os": {}, "as": {},
}

func Analyze(text, language string) *models.TranscriptAnalysis {
	if language == "" {
		language = models.LanguageUnknown
	}
	sentences := Sentences(text)
	return &models.TranscriptAnalysis{
		WordCount:  len(strings.Fields(text)),
		CharCount:  utf8.RuneCountInString(text),
		Language:   language,
		Summary:    Summary(sentences, summarySentences),
		KeyMoments: KeyMoments(sentences),
		Hashtags:   Hashtags(text, maxHashtags),
	}
}

// Sentences splits text on '.', '!' and '?' and drops empty pieces.
func Sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func Summary(sentences []string, n int) string {
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, ". ") + "."
}

func KeyMoments(sentences []string) []models.KeyMoment {
	moments := []models.KeyMoment{}
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for _, kw := range keyMomentWords {
			if strings.Contains(lower, kw) {
				moments = append(moments, models.KeyMoment{Sentence: s, Keyword: kw})
				break
			}
		}
		if len(moments) == maxKeyMoments {
			break
		}
	}
	return moments
}

// Hashtags returns the most frequent significant words. Ties keep the order
// of first appearance.
func Hashtags(text string, limit int) []string {
	counts := map[string]int{}
	var order []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if utf8.RuneCountInString(word) < minHashtagLength {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	tags := make([]string, 0, len(order))
	for _, word := range order {
		tags = append(tags, "#"+word)
	}
	return tags
}
