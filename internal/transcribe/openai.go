package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/pkg/errors"
)

type OpenAIEngine struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIEngine(cfg config.OpenAIConfig, httpClient *http.Client) *OpenAIEngine {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIEngine{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

type openAIVerboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (o *OpenAIEngine) Name() string {
	return "openai"
}

func (o *OpenAIEngine) Transcribe(ctx context.Context, audioPath, language string) (RawResult, error) {
	if o.apiKey == "" {
		return nil, errors.New("OpenAI API key not configured")
	}

	body, contentType, err := multipartAudio(audioPath, map[string]string{
		"model":                     o.model,
		"response_format":           "verbose_json",
		"timestamp_granularities[]": "segment",
		"language":                  language,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, errors.Wrap(err, "openai: build request")
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "openai: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeOpenAIError(resp)
	}

	var out openAIVerboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "openai: decode response")
	}

	result := TimedText{Text: out.Text, Language: out.Language}
	for _, s := range out.Segments {
		result.Segments = append(result.Segments, TimedSegment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return result, nil
}

func decodeOpenAIError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var apiErr openAIErrorResponse
	if err := json.Unmarshal(b, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("openai http %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("openai http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

// multipartAudio builds a form with the given fields (empty values are
// skipped) and the audio file under "file".
func multipartAudio(audioPath string, fields map[string]string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", errors.Wrap(err, "open audio")
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", name)
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", errors.Wrap(err, "copy audio")
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return &body, mw.FormDataContentType(), nil
}
