package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/photoapp/photoapp/cli/internal/api"
	"github.com/photoapp/photoapp/cli/internal/session"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatSize(tt.input)
			if got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRelativeTime(t *testing.T) {
	t.Run("just now", func(t *testing.T) {
		got := RelativeTime(time.Now())
		if got != "just now" {
			t.Errorf("expected 'just now', got %q", got)
		}
	})

	t.Run("minutes ago", func(t *testing.T) {
		got := RelativeTime(time.Now().Add(-5 * time.Minute))
		if got != "5m ago" {
			t.Errorf("expected '5m ago', got %q", got)
		}
	})

	t.Run("hours ago", func(t *testing.T) {
		got := RelativeTime(time.Now().Add(-3 * time.Hour))
		if got != "3h ago" {
			t.Errorf("expected '3h ago', got %q", got)
		}
	})

	t.Run("days ago", func(t *testing.T) {
		got := RelativeTime(time.Now().Add(-7 * 24 * time.Hour))
		if got != "7d ago" {
			t.Errorf("expected '7d ago', got %q", got)
		}
	})

	t.Run("date format for old timestamps", func(t *testing.T) {
		old := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		got := RelativeTime(old)
		if got != "2024-01-15" {
			t.Errorf("expected date format, got %q", got)
		}
	})
}

func TestAssetTable(t *testing.T) {
	var buf bytes.Buffer
	AssetTable(&buf, []api.Asset{
		{AssetID: 1, UserID: 2, AssetName: "cat.jpg", AssetType: "public", BucketKey: "alice/1.jpg"},
		{AssetID: 10, UserID: 3, AssetName: "dog.jpg", AssetType: "private", BucketKey: "bob/2.jpg"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "ASSETID") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "dog.jpg") || !strings.Contains(lines[2], "private") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestEmptyTables(t *testing.T) {
	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		want  string
	}{
		{"users", func(b *bytes.Buffer) { UserTable(b, nil) }, "no users\n"},
		{"assets", func(b *bytes.Buffer) { AssetTable(b, nil) }, "no assets\n"},
		{"likes", func(b *bytes.Buffer) { LikeTable(b, nil) }, "no likes\n"},
		{"comments", func(b *bytes.Buffer) { CommentTable(b, nil) }, "no comments\n"},
		{"sessions", func(b *bytes.Buffer) { SessionTable(b, nil) }, "no sessions\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestSessionTableHidesTokens(t *testing.T) {
	var buf bytes.Buffer
	SessionTable(&buf, []session.Session{
		{Username: "alice", Token: "secret-a", Active: false},
		{Username: "bob", Token: "secret-b", Active: true},
	})

	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Fatalf("tokens must not be printed: %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[2], "*") || !strings.Contains(lines[2], "bob") {
		t.Errorf("expected bob marked active, got %q", lines[2])
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	JSON(&buf, []api.Like{{LikeID: 1, UserID: 2, AssetID: 3}})

	if !strings.Contains(buf.String(), `"likeid": 1`) {
		t.Errorf("unexpected JSON %q", buf.String())
	}
}
