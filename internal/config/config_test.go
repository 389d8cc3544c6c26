package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DateFormat != "%Y-%m-%d" {
		t.Errorf("DateFormat = %q", cfg.DateFormat)
	}
	if cfg.DestinationSubfolder != "renamed" {
		t.Errorf("DestinationSubfolder = %q", cfg.DestinationSubfolder)
	}
	if cfg.OutputExtension != ".txt" {
		t.Errorf("OutputExtension = %q", cfg.OutputExtension)
	}
	if cfg.BufferSize != Default.BufferSize {
		t.Errorf("BufferSize = %d", cfg.BufferSize)
	}
	if cfg.HistoryDB != "" {
		t.Errorf("HistoryDB = %q, want disabled", cfg.HistoryDB)
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	content := `date_format: "%Y%m%d"
destination_subfolder: archive
output_extension: ""
buffer_size: 8
ignore_list: ["*.tmp"]
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DateFormat != "%Y%m%d" {
		t.Errorf("DateFormat = %q", cfg.DateFormat)
	}
	if cfg.DestinationSubfolder != "archive" {
		t.Errorf("DestinationSubfolder = %q", cfg.DestinationSubfolder)
	}
	if cfg.OutputExtension != "" {
		t.Errorf("OutputExtension = %q, want empty", cfg.OutputExtension)
	}
	if cfg.BufferSize != 8 {
		t.Errorf("BufferSize = %d", cfg.BufferSize)
	}
	if len(cfg.IgnoreList) != 1 || cfg.IgnoreList[0] != "*.tmp" {
		t.Errorf("IgnoreList = %v", cfg.IgnoreList)
	}

	opts := cfg.RelocatorOptions()
	if opts.DestinationSubfolder != "archive" || opts.OutputExtension != "" {
		t.Errorf("RelocatorOptions() = %+v", opts)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("STAMPMOVE_DESTINATION_SUBFOLDER", "done")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DestinationSubfolder != "done" {
		t.Errorf("DestinationSubfolder = %q, want done", cfg.DestinationSubfolder)
	}
}

func TestLoadFrom_BadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("date_format: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(dir); err == nil {
		t.Error("LoadFrom() expected error for malformed yaml")
	}
}
