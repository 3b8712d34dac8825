package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/pkg/errors"
)

const testJobID = "abcDEF0123456789"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "downloads"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func touch(t *testing.T, s *Store, name string) string {
	t.Helper()
	path := filepath.Join(s.Dir(), name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewStoreCreatesDir(t *testing.T) {
	s := newTestStore(t)
	info, err := os.Stat(s.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("store dir not created: %v", err)
	}
}

func TestLocateSkipsAudio(t *testing.T) {
	s := newTestStore(t)
	touch(t, s, testJobID+"_audio.mp3")

	if _, err := s.Locate(testJobID); !errors.Is(err, models.ErrArtifactNotFound) {
		t.Fatalf("Locate with only audio present: err = %v, want ErrArtifactNotFound", err)
	}

	want := touch(t, s, testJobID+".webm")
	got, err := s.Locate(testJobID)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Errorf("Locate = %s, want %s", got, want)
	}
}

func TestLocateSkipsPartialDownloads(t *testing.T) {
	s := newTestStore(t)
	touch(t, s, testJobID+".mp4.part")
	if _, err := s.Locate(testJobID); !errors.Is(err, models.ErrArtifactNotFound) {
		t.Fatalf("Locate = %v, want ErrArtifactNotFound", err)
	}
}

func TestLocateRejectsUnsafeIDs(t *testing.T) {
	s := newTestStore(t)
	touch(t, s, testJobID+".mp4")
	for _, id := range []string{"", "abc", "../" + testJobID, testJobID[:15] + "/"} {
		if _, err := s.Locate(id); !errors.Is(err, models.ErrArtifactNotFound) {
			t.Errorf("Locate(%q) = %v, want ErrArtifactNotFound", id, err)
		}
	}
}

func TestDiscoverProbesKnownExtensionsFirst(t *testing.T) {
	s := newTestStore(t)
	touch(t, s, testJobID+".flv")
	want := touch(t, s, testJobID+".mkv")

	got, err := s.Discover(testJobID, models.ArtifactVideo)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got != want {
		t.Errorf("Discover = %s, want %s", got, want)
	}
}

func TestDiscoverFallsBackToScan(t *testing.T) {
	s := newTestStore(t)
	touch(t, s, testJobID+"_audio.mp3")
	want := touch(t, s, testJobID+".f399.3gp")

	got, err := s.Discover(testJobID, models.ArtifactVideo)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got != want {
		t.Errorf("Discover = %s, want %s", got, want)
	}

	audio, err := s.Discover(testJobID, models.ArtifactAudio)
	if err != nil {
		t.Fatalf("Discover audio: %v", err)
	}
	if filepath.Base(audio) != testJobID+"_audio.mp3" {
		t.Errorf("Discover audio = %s", audio)
	}
}

func TestDiscoverNothing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Discover(testJobID, models.ArtifactAudio); !errors.Is(err, models.ErrArtifactNotFound) {
		t.Fatalf("Discover = %v, want ErrArtifactNotFound", err)
	}
}

func TestCommitRenamesToCanonicalName(t *testing.T) {
	s := newTestStore(t)
	part := s.ProvisionalPath(testJobID, models.ArtifactAudio, ".m4a")
	if err := os.WriteFile(part, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := s.Commit(testJobID, models.ArtifactAudio, part)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if a.Filename() != testJobID+"_audio.m4a" || a.Ext != ".m4a" || a.Size != 5 {
		t.Errorf("Commit = %+v", a)
	}
	if _, err := os.Stat(part); !os.IsNotExist(err) {
		t.Errorf("provisional file still present: %v", err)
	}
}

func TestCommitRejectsForeignPath(t *testing.T) {
	s := newTestStore(t)
	outside := filepath.Join(t.TempDir(), "x.mp4")
	if err := os.WriteFile(outside, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Commit(testJobID, models.ArtifactVideo, outside); err == nil {
		t.Fatal("Commit accepted a path outside the store")
	}
}

func TestRemoveAudioKeepsVideo(t *testing.T) {
	s := newTestStore(t)
	video := touch(t, s, testJobID+".mp4")
	touch(t, s, testJobID+"_audio.mp3")
	touch(t, s, testJobID+"_audio.webm.part")

	n, err := s.RemoveAudio(testJobID)
	if err != nil {
		t.Fatalf("RemoveAudio: %v", err)
	}
	if n != 2 {
		t.Errorf("RemoveAudio removed %d files, want 2", n)
	}
	if _, err := os.Stat(video); err != nil {
		t.Errorf("video removed: %v", err)
	}
}

func TestPurgeAll(t *testing.T) {
	s := newTestStore(t)
	touch(t, s, "a.mp4")
	touch(t, s, "b_audio.mp3")
	touch(t, s, "notes.txt")
	sub := filepath.Join(s.Dir(), "keep")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "inner.mp4"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := s.PurgeAll()
	if err != nil {
		t.Fatalf("PurgeAll: %v", err)
	}
	if n != 3 {
		t.Errorf("PurgeAll = %d, want 3", n)
	}
	if _, err := os.Stat(filepath.Join(sub, "inner.mp4")); err != nil {
		t.Errorf("subdirectory content touched: %v", err)
	}

	n, err = s.PurgeAll()
	if err != nil || n != 0 {
		t.Errorf("second PurgeAll = %d, %v; want 0, nil", n, err)
	}
}

func TestPurgeAllRecreatesMissingDir(t *testing.T) {
	s := newTestStore(t)
	if err := os.RemoveAll(s.Dir()); err != nil {
		t.Fatal(err)
	}
	n, err := s.PurgeAll()
	if err != nil || n != 0 {
		t.Fatalf("PurgeAll = %d, %v", n, err)
	}
	if _, err := os.Stat(s.Dir()); err != nil {
		t.Errorf("dir not recreated: %v", err)
	}
}
