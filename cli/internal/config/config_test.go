package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIni(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "http://localhost:8080", false},
		{"https://photos.example.com/", "https://photos.example.com", false},
		{"  http://10.0.0.5:8080//  ", "http://10.0.0.5:8080", false},
		{"", "", true},
		{"localhost:8080", "", true},
		{"ftp://example.com", "", true},
		{"http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads webservice from ini file", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		path := writeIni(t, t.TempDir(), "[client]\nwebservice = https://photos.example.com/\n")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.ServerURL != "https://photos.example.com" {
			t.Errorf("expected ini URL, got %s", cfg.ServerURL)
		}
		if cfg.Source != path {
			t.Errorf("expected source %s, got %s", path, cfg.Source)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeIni(t, t.TempDir(), "[client]\nwebservice = https://photos.example.com\n")
		t.Setenv(EnvURL, "http://127.0.0.1:9999")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.ServerURL != "http://127.0.0.1:9999" {
			t.Errorf("expected env URL, got %s", cfg.ServerURL)
		}
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})

	t.Run("invalid url in file is rejected", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		path := writeIni(t, t.TempDir(), "[client]\nwebservice = photos.example.com\n")

		if _, err := Load(path); err == nil {
			t.Fatal("expected error for URL without scheme")
		}
	})

	t.Run("defaults without any file", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		t.Setenv("HOME", t.TempDir())
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.ServerURL != DefaultURL {
			t.Errorf("expected default URL %s, got %s", DefaultURL, cfg.ServerURL)
		}
		if cfg.Source != "" {
			t.Errorf("expected no source file, got %s", cfg.Source)
		}
	})

	t.Run("finds file in working directory", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		dir := t.TempDir()
		writeIni(t, dir, "[client]\nwebservice = http://photos.local:8080\n")
		t.Chdir(dir)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if cfg.ServerURL != "http://photos.local:8080" {
			t.Errorf("expected URL from working directory file, got %s", cfg.ServerURL)
		}
	})
}
