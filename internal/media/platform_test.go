package media

import (
	"strings"
	"testing"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want models.Platform
	}{
		{"https://www.tiktok.com/@someone/video/7301", models.PlatformTikTok},
		{"https://vm.tiktok.com/ZMabc/", models.PlatformTikTok},
		{"https://www.instagram.com/reel/Cxyz/", models.PlatformInstagram},
		{"https://youtu.be/dQw4w9WgXcQ", models.PlatformYouTube},
		{"https://www.youtube.com/shorts/abc", models.PlatformYouTube},
		{"https://vimeo.com/1234", models.PlatformGeneric},
		{"https://example.com/?ref=tiktok.com", models.PlatformGeneric},
	}
	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func TestProfileArgs(t *testing.T) {
	tiktok := strings.Join(ProfileFor(models.PlatformTikTok, 3).args(), " ")
	for _, want := range []string{
		"--add-header User-Agent:Mozilla/5.0",
		"--add-header Referer:https://www.tiktok.com/",
		"--extractor-args tiktok:api_hostname=api22-normal-c-useast2a.tiktokv.com",
		"--extractor-retries 3",
		"--fragment-retries 3",
		"--skip-unavailable-fragments",
	} {
		if !strings.Contains(tiktok, want) {
			t.Errorf("tiktok args %q missing %q", tiktok, want)
		}
	}

	insta := strings.Join(ProfileFor(models.PlatformInstagram, 3).args(), " ")
	if !strings.Contains(insta, "User-Agent:") || strings.Contains(insta, "Referer:") {
		t.Errorf("instagram args = %q", insta)
	}

	generic := strings.Join(ProfileFor(models.PlatformGeneric, 0).args(), " ")
	if strings.Contains(generic, "--add-header") || strings.Contains(generic, "retries") {
		t.Errorf("generic args = %q", generic)
	}
}
