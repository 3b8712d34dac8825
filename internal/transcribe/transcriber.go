package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/pkg/errors"
)

// Transcriber wraps an Engine and never fails: every problem ends up as a
// transcription with language "error".
type Transcriber struct {
	engine   Engine
	language string
	diarizer Diarizer
	logger   logger.Logger
}

func NewTranscriber(engine Engine, language string, diarizer Diarizer, logger logger.Logger) *Transcriber {
	return &Transcriber{
		engine:   engine,
		language: language,
		diarizer: diarizer,
		logger:   logger,
	}
}

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (result models.Transcription) {
	jobID := jobIDFromPath(audioPath)
	engineName := "none"
	if t.engine != nil {
		engineName = t.engine.Name()
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.Errorf("[JOB %s] Transcribe - %s engine panic: %v", jobID, engineName, r)
			result = models.FailedTranscription(&models.TranscriptionError{
				Engine: engineName,
				Err:    fmt.Errorf("%v", r),
			})
		}
	}()

	if t.engine == nil {
		return models.FailedTranscription(&models.TranscriptionError{
			Engine: engineName,
			Err:    errors.New("no transcription engine configured"),
		})
	}

	raw, err := t.engine.Transcribe(ctx, audioPath, t.language)
	if err != nil {
		t.logger.Errorf("[JOB %s] Transcribe - %s engine error: %v", jobID, engineName, err)
		return models.FailedTranscription(&models.TranscriptionError{Engine: engineName, Err: err})
	}
	if raw == nil {
		return models.FailedTranscription(&models.TranscriptionError{
			Engine: engineName,
			Err:    errors.New("engine returned no result"),
		})
	}
	if t.diarizer != nil {
		raw = t.diarizer.Diarize(raw)
	}

	result = Normalize(raw)
	if result.Language == models.LanguageUnknown && t.language != "" {
		result.Language = t.language
	}
	return result
}

// jobIDFromPath recovers the job id from an {id}_audio.{ext} artifact path.
func jobIDFromPath(audioPath string) string {
	name := filepath.Base(audioPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, "_audio")
}
