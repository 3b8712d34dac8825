package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/labstack/echo/v4"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v, err := config.LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage.Dir = t.TempDir()
	cfg.Transcription.Engine = "openai"
	return cfg
}

func TestMapHandlers(t *testing.T) {
	s := NewServer(testConfig(t), nil, nil, logger.NewNopLogger())
	if err := s.MapHandlers(s.echo); err != nil {
		t.Fatalf("MapHandlers: %v", err)
	}
	defer s.close()

	tests := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/process_videos", `{"urls":[]}`, http.StatusBadRequest},
		{http.MethodGet, "/download/abcDEF0123456789", "", http.StatusNotFound},
		{http.MethodPost, "/cleanup", "", http.StatusOK},
		{http.MethodPost, "/analyze", `{"text":"Uma dica."}`, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.echo.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.target, rec.Code, tt.status, rec.Body.String())
		}
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Errorf("%s %s: missing request id", tt.method, tt.target)
		}
	}
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		engine string
		name   string
	}{
		{"openai", "openai"},
		{"cloudflare", "cloudflare"},
		{"local", "local"},
	}
	for _, tt := range tests {
		engine, closeFn := NewEngine(config.TranscriptionConfig{Engine: tt.engine})
		if engine.Name() != tt.name {
			t.Errorf("NewEngine(%s).Name() = %s", tt.engine, engine.Name())
		}
		closeFn()
	}
}
