package pull

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestEntryFileName(t *testing.T) {
	tests := []struct {
		entryID    string
		entryField string
		expected   string
	}{
		{"cpd:C00001", "", "cpd:C00001.txt"},
		{"cpd:C00001", "mol", "cpd:C00001.mol"},
		{"hsa:4096", "aaseq", "hsa:4096.aaseq"},
	}

	for _, tt := range tests {
		if got := entryFileName(tt.entryID, tt.entryField); got != tt.expected {
			t.Errorf("entryFileName(%q, %q) = %q, want %q", tt.entryID, tt.entryField, got, tt.expected)
		}
	}
}

func TestDirectorySaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "entries")

	saver, err := NewSaver(dir)
	if err != nil {
		t.Fatalf("NewSaver() error = %v", err)
	}
	if _, ok := saver.(*DirectorySaver); !ok {
		t.Fatalf("NewSaver() = %T, want *DirectorySaver", saver)
	}

	if err := saver.Save("cpd:C00001", []byte("ENTRY C00001"), ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := saver.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cpd:C00001.txt"))
	if err != nil {
		t.Fatalf("reading saved entry: %v", err)
	}
	if string(data) != "ENTRY C00001" {
		t.Errorf("saved entry = %q", data)
	}
}

func TestZipSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.zip")

	saver, err := NewSaver(path)
	if err != nil {
		t.Fatalf("NewSaver() error = %v", err)
	}
	if _, ok := saver.(*ZipSaver); !ok {
		t.Fatalf("NewSaver() = %T, want *ZipSaver", saver)
	}

	if err := saver.Save("cpd:C00001", []byte("mol block"), "mol"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := saver.Save("cpd:C00002", []byte("another"), "mol"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := saver.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer reader.Close()

	contents := map[string]string{}
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		contents[f.Name] = string(data)
	}

	if contents["cpd:C00001.mol"] != "mol block" {
		t.Errorf("cpd:C00001.mol = %q", contents["cpd:C00001.mol"])
	}
	if contents["cpd:C00002.mol"] != "another" {
		t.Errorf("cpd:C00002.mol = %q", contents["cpd:C00002.mol"])
	}
}
