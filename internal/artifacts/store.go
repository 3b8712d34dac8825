package artifacts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/pkg/errors"
)

const audioMarker = "_audio"

var (
	VideoExtensions = []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	AudioExtensions = []string{".mp3", ".m4a", ".opus", ".ogg"}

	// suffixes written by downloaders while a transfer is still running
	inProgressSuffixes = []string{".part", ".ytdl", ".temp", ".tmp"}
)

// Store is the flat directory holding every job's artifacts. Files are
// keyed by job id, so concurrent jobs never touch the same path.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve store dir %s", dir)
	}
	s := &Store{dir: abs}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create store dir %s", s.dir)
	}
	return nil
}

func baseName(jobID string, role models.ArtifactRole) string {
	if role == models.ArtifactAudio {
		return jobID + audioMarker
	}
	return jobID
}

// OutputTemplate is the yt-dlp output template for a job artifact.
func (s *Store) OutputTemplate(jobID string, role models.ArtifactRole) string {
	return filepath.Join(s.dir, baseName(jobID, role)+".%(ext)s")
}

// ProvisionalPath is where an in-process download writes before Commit.
func (s *Store) ProvisionalPath(jobID string, role models.ArtifactRole, ext string) string {
	return filepath.Join(s.dir, baseName(jobID, role)+ext+".part")
}

// Commit renames a finished download to its canonical {id}.{ext} or
// {id}_audio.{ext} name and returns the artifact.
func (s *Store) Commit(jobID string, role models.ArtifactRole, path string) (*models.MediaArtifact, error) {
	if !strings.HasPrefix(filepath.Clean(path), s.dir+string(os.PathSeparator)) {
		return nil, errors.Errorf("artifact %s is outside the store", path)
	}
	name := filepath.Base(path)
	for _, suffix := range inProgressSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	ext := strings.ToLower(filepath.Ext(name))
	canonical := filepath.Join(s.dir, baseName(jobID, role)+ext)

	if path != canonical {
		if err := os.Rename(path, canonical); err != nil {
			return nil, errors.Wrapf(err, "rename %s", filepath.Base(path))
		}
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", filepath.Base(canonical))
	}
	return &models.MediaArtifact{
		JobID: jobID,
		Role:  role,
		Ext:   ext,
		Size:  info.Size(),
		Path:  canonical,
	}, nil
}

// Discover finds the artifact a downloader left behind when it could not
// report the output path itself. It probes the canonical name with each
// known extension first, then falls back to scanning the directory for a
// file starting with the job id.
func (s *Store) Discover(jobID string, role models.ArtifactRole) (string, error) {
	if !utils.IsJobID(jobID) {
		return "", models.ErrArtifactNotFound
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	exts := VideoExtensions
	if role == models.ArtifactAudio {
		exts = AudioExtensions
	}
	base := baseName(jobID, role)
	for _, ext := range exts {
		path := filepath.Join(s.dir, base+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	names, err := s.scan(func(name string) bool {
		if !strings.HasPrefix(name, base) {
			return false
		}
		if role == models.ArtifactVideo && strings.Contains(name, audioMarker) {
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", models.ErrArtifactNotFound
	}
	return filepath.Join(s.dir, names[0]), nil
}

// Locate returns the retained video artifact of a job. Audio artifacts and
// unfinished downloads are never returned.
func (s *Store) Locate(jobID string) (string, error) {
	if !utils.IsJobID(jobID) {
		return "", models.ErrArtifactNotFound
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}
	names, err := s.scan(func(name string) bool {
		return strings.HasPrefix(name, jobID) && !strings.Contains(name, audioMarker)
	})
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", models.ErrArtifactNotFound
	}
	return filepath.Join(s.dir, names[0]), nil
}

// RemoveAudio deletes every audio file of a job, finished or not.
func (s *Store) RemoveAudio(jobID string) (int, error) {
	return s.remove(jobID, func(name string) bool {
		return strings.HasPrefix(name, jobID+audioMarker)
	})
}

// RemoveJob deletes every file of a job.
func (s *Store) RemoveJob(jobID string) (int, error) {
	return s.remove(jobID, func(name string) bool {
		return strings.HasPrefix(name, jobID)
	})
}

// PurgeAll deletes every regular file directly under the store directory.
// Subdirectories are left alone.
func (s *Store) PurgeAll() (int, error) {
	if err := s.ensureDir(); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.Wrap(err, "read store dir")
	}
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.Wrapf(err, "remove %s", entry.Name())
		}
		removed++
	}
	return removed, nil
}

func (s *Store) remove(jobID string, match func(name string) bool) (int, error) {
	if !utils.IsJobID(jobID) {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "read store dir")
	}
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !match(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, "remove %s", entry.Name())
		}
		removed++
	}
	return removed, nil
}

// scan lists finished regular files accepted by match, sorted by name.
func (s *Store) scan(match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "read store dir")
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || inProgress(name) || !match(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func inProgress(name string) bool {
	for _, suffix := range inProgressSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
