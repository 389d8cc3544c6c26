package resolver

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		input    string
		want     string
	}{
		{"empty dir", nil, "report-2025-10-02.txt", "report-2025-10-02.txt"},
		{"unrelated entries", []string{"other.txt"}, "report.txt", "report.txt"},
		{"one collision", []string{"report.txt"}, "report.txt", "report-1.txt"},
		{"three collisions", []string{"report.txt", "report-1.txt", "report-2.txt"}, "report.txt", "report-3.txt"},
		{"gap is reused", []string{"report.txt", "report-2.txt"}, "report.txt", "report-1.txt"},
		{"no extension", []string{"Makefile"}, "Makefile", "Makefile-1"},
		{"double extension", []string{"a.tar.gz"}, "a.tar.gz", "a.tar-1.gz"},
		{"dotfile", []string{".env"}, ".env", ".env-1"},
		{"dotfile with extension", []string{".env.local"}, ".env.local", ".env-1.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.existing...)

			got, err := Resolve(dir, tt.input)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if _, err := os.Stat(filepath.Join(dir, got)); !os.IsNotExist(err) {
				t.Errorf("Resolve() returned existing name %q", got)
			}
		})
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		name string
		stem string
		ext  string
	}{
		{"report.csv", "report", ".csv"},
		{"a.tar.gz", "a.tar", ".gz"},
		{"README", "README", ""},
		{".bashrc", ".bashrc", ""},
		{".env.local", ".env", ".local"},
		{"...", "...", ""},
	}

	for _, tt := range tests {
		stem, ext := SplitExt(tt.name)
		if stem != tt.stem || ext != tt.ext {
			t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)", tt.name, stem, ext, tt.stem, tt.ext)
		}
	}
}

func TestResolve_DirectoryEntryCollides(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "report.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(dir, "report.txt")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "report-1.txt" {
		t.Errorf("Resolve() = %q, want report-1.txt", got)
	}
}

func TestResolve_DanglingSymlinkCollides(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "report.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := Resolve(dir, "report.txt")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "report-1.txt" {
		t.Errorf("Resolve() = %q, want report-1.txt", got)
	}
}

func TestResolve_ManyCollisions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "n.log")
	for i := 1; i < 25; i++ {
		touch(t, dir, "n-"+strconv.Itoa(i)+".log")
	}

	got, err := Resolve(dir, "n.log")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "n-25.log" {
		t.Errorf("Resolve() = %q, want n-25.log", got)
	}
}

func TestResolve_EmptyName(t *testing.T) {
	if _, err := Resolve(t.TempDir(), ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestResolve_InaccessibleDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	if _, err := Resolve(locked, "report.txt"); err == nil {
		t.Error("expected error for unreadable directory")
	}
}
