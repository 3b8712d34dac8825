package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job_audio.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAIEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("response_format") != "verbose_json" || r.FormValue("language") != "pt" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"olá mundo","language":"portuguese","duration":2.0,
			"segments":[{"start":1.0,"end":2.0,"text":"mundo"},{"start":0.0,"end":1.0,"text":"olá"}]}`))
	}))
	defer srv.Close()

	engine := NewOpenAIEngine(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "whisper-1"}, srv.Client())
	raw, err := engine.Transcribe(context.Background(), writeAudio(t), "pt")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	got := Normalize(raw)
	if got.Language != "portuguese" || len(got.Segments) != 2 || got.Segments[0].Text != "olá" {
		t.Errorf("Normalize = %+v", got)
	}
}

func TestOpenAIEngineAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	engine := NewOpenAIEngine(config.OpenAIConfig{APIKey: "bad", BaseURL: srv.URL, Model: "whisper-1"}, srv.Client())
	_, err := engine.Transcribe(context.Background(), writeAudio(t), "")
	if err == nil || !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Fatalf("err = %v", err)
	}
}

func TestCloudflareEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acc/ai/run/@cf/openai/whisper" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"errors":[],"result":{"text":"hello","word_count":1}}`))
	}))
	defer srv.Close()

	engine := NewCloudflareEngine(config.CloudflareConfig{
		AccountID: "acc", APIToken: "tok", BaseURL: srv.URL, Model: "@cf/openai/whisper",
	}, srv.Client())
	raw, err := engine.Transcribe(context.Background(), writeAudio(t), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if _, ok := raw.(PlainText); !ok {
		t.Fatalf("raw = %T, want PlainText", raw)
	}
	got := Normalize(raw)
	if got.Text != "hello" || len(got.Segments) != 0 {
		t.Errorf("Normalize = %+v", got)
	}
}

func TestCloudflareEngineMissingCredentials(t *testing.T) {
	engine := NewCloudflareEngine(config.CloudflareConfig{}, nil)
	if _, err := engine.Transcribe(context.Background(), "a.mp3", ""); err == nil {
		t.Fatal("expected a credentials error")
	}
}
