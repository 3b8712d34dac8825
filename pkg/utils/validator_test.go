package utils

import (
	"context"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.tiktok.com/@user/video/123", false},
		{"http://example.com/v.mp4", false},
		{"", true},
		{"not a url", true},
		{"ftp://example.com/file", true},
	}
	for _, tt := range tests {
		err := ValidateURL(context.Background(), tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
