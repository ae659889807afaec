package pull

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Saver persists pulled entries to an output destination.
type Saver interface {
	// Save writes one entry under a file name derived from the entry
	// ID and field.
	Save(entryID string, entry []byte, entryField string) error

	// Close flushes and releases the destination.
	Close() error
}

// NewSaver creates a Saver for the output destination: a ZIP archive
// when the path ends in ".zip", a directory otherwise. Directories are
// created if missing.
func NewSaver(output string) (Saver, error) {
	if strings.HasSuffix(output, ".zip") {
		return newZipSaver(output)
	}
	return newDirectorySaver(output)
}

// entryFileName derives the file name for a saved entry. The extension
// is the entry field, or "txt" for the default flat-file form.
func entryFileName(entryID, entryField string) string {
	ext := "txt"
	if entryField != "" {
		ext = entryField
	}
	return entryID + "." + ext
}

// DirectorySaver writes each entry as a file in a directory.
type DirectorySaver struct {
	dir string
}

func newDirectorySaver(dir string) (*DirectorySaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &DirectorySaver{dir: dir}, nil
}

// Save writes the entry to <dir>/<entryID>.<ext>.
func (s *DirectorySaver) Save(entryID string, entry []byte, entryField string) error {
	path := filepath.Join(s.dir, entryFileName(entryID, entryField))
	if err := os.WriteFile(path, entry, 0o644); err != nil {
		return fmt.Errorf("saving entry %s: %w", entryID, err)
	}
	return nil
}

// Close is a no-op for directories.
func (s *DirectorySaver) Close() error { return nil }

// ZipSaver writes entries into a single ZIP archive. The archive
// writer is not safe for concurrent use, so saves are serialized with
// a mutex; parallel pull workers share one ZipSaver.
type ZipSaver struct {
	mu     sync.Mutex
	file   *os.File
	writer *zip.Writer
}

func newZipSaver(path string) (*ZipSaver, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output archive %s: %w", path, err)
	}
	return &ZipSaver{file: file, writer: zip.NewWriter(file)}, nil
}

// Save adds the entry to the archive as <entryID>.<ext>.
func (s *ZipSaver) Save(entryID string, entry []byte, entryField string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.writer.Create(entryFileName(entryID, entryField))
	if err != nil {
		return fmt.Errorf("saving entry %s: %w", entryID, err)
	}
	if _, err := w.Write(entry); err != nil {
		return fmt.Errorf("saving entry %s: %w", entryID, err)
	}
	return nil
}

// Close finalizes the archive.
func (s *ZipSaver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("finalizing output archive: %w", err)
	}
	return s.file.Close()
}
