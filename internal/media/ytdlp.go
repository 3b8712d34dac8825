package media

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	videoFormat = "best[ext=mp4]/best"
	audioFormat = "bestaudio/best"
)

type ytdlpInfo struct {
	Title          string  `json:"title"`
	Thumbnail      string  `json:"thumbnail"`
	Duration       float64 `json:"duration"`
	Filename       string  `json:"filename"`
	LegacyFilename string  `json:"_filename"`
}

// parseYtdlpOutput splits yt-dlp stdout produced with -j and
// --print after_move:filepath into the info document and the final path.
func parseYtdlpOutput(out []byte) (*ytdlpInfo, string) {
	var info *ytdlpInfo
	var path string

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			candidate := &ytdlpInfo{}
			if err := json.Unmarshal([]byte(line), candidate); err == nil {
				info = candidate
			}
			continue
		}
		path = line
	}
	return info, path
}

// reportedPath returns the first candidate that exists inside dir.
func reportedPath(dir string, candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if !filepath.IsAbs(c) {
			c = filepath.Join(dir, c)
		}
		c = filepath.Clean(c)
		if filepath.Dir(c) != dir {
			continue
		}
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c
		}
	}
	return ""
}
