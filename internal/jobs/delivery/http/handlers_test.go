package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type fakeUseCase struct {
	batchInput *models.BatchRequest
	results    []models.JobResult
	batchErr   error
	path       string
	locateErr  error
	purged     int
	purgeErr   error
}

func (f *fakeUseCase) RunBatch(_ context.Context, input *models.BatchRequest) ([]models.JobResult, error) {
	f.batchInput = input
	if len(input.URLs) == 0 {
		return nil, &models.ValidationError{Message: "no URL provided"}
	}
	return f.results, f.batchErr
}

func (f *fakeUseCase) Locate(context.Context, string) (string, error) {
	return f.path, f.locateErr
}

func (f *fakeUseCase) PurgeAll(context.Context) (int, error) {
	return f.purged, f.purgeErr
}

func (f *fakeUseCase) Analyze(_ context.Context, input *models.AnalyzeRequest) (*models.TranscriptAnalysis, error) {
	if input.Text == "" {
		return nil, &models.ValidationError{Message: "no text provided"}
	}
	return &models.TranscriptAnalysis{WordCount: 2, Language: "unknown"}, nil
}

func serve(t *testing.T, uc *fakeUseCase, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	MapJobRoutes(e, NewJobsHandler(uc, logger.NewNopLogger()))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestProcessVideosEmpty(t *testing.T) {
	rec := serve(t, &fakeUseCase{}, http.MethodPost, "/process_videos", `{"urls": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != "no URL provided" {
		t.Errorf("body = %v", body)
	}
}

func TestProcessVideos(t *testing.T) {
	duration := 12.5
	uc := &fakeUseCase{results: []models.JobResult{
		{Success: true, VideoID: "abc", URL: "https://a", Duration: &duration, Transcription: &models.Transcription{Text: "hi", Language: "en", Segments: []models.Segment{}}},
		{Success: false, URL: "https://b", Error: "Video not found. Check that the link is correct."},
	}}
	rec := serve(t, uc, http.MethodPost, "/process_videos", `{"urls": ["https://a", "https://b"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(uc.batchInput.URLs) != 2 {
		t.Errorf("use case got %+v", uc.batchInput)
	}

	var resp struct {
		Results []map[string]interface{} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %v", resp.Results)
	}
	if resp.Results[0]["video_id"] != "abc" || resp.Results[0]["duration"] != 12.5 {
		t.Errorf("results[0] = %v", resp.Results[0])
	}
	if _, ok := resp.Results[1]["video_id"]; ok {
		t.Errorf("failed result carries video_id: %v", resp.Results[1])
	}
	if resp.Results[1]["success"] != false {
		t.Errorf("results[1] = %v", resp.Results[1])
	}
}

func TestProcessVideosInternalError(t *testing.T) {
	uc := &fakeUseCase{batchErr: errors.New("disk on fire")}
	rec := serve(t, uc, http.MethodPost, "/process_videos", `{"urls": ["https://a"]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != internalErrorMessage {
		t.Errorf("body = %v", body)
	}
}

func TestDownloadNotFound(t *testing.T) {
	rec := serve(t, &fakeUseCase{locateErr: models.ErrArtifactNotFound}, http.MethodGet, "/download/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != "file not found" {
		t.Errorf("body = %v", body)
	}
}

func TestDownloadAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abcDEF0123456789.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := serve(t, &fakeUseCase{path: path}, http.MethodGet, "/download/abcDEF0123456789", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, `attachment; filename="abcDEF0123456789.mp4"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "video" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCleanup(t *testing.T) {
	rec := serve(t, &fakeUseCase{purged: 3}, http.MethodPost, "/cleanup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "3 files removed" {
		t.Errorf("body = %v", body)
	}
}

func TestAnalyze(t *testing.T) {
	rec := serve(t, &fakeUseCase{}, http.MethodPost, "/analyze", `{"text": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text status = %d", rec.Code)
	}

	rec = serve(t, &fakeUseCase{}, http.MethodPost, "/analyze", `{"text": "oi mundo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode(t, rec); body["word_count"] != float64(2) {
		t.Errorf("body = %v", body)
	}
}
