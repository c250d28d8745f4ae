package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"duely/internal/task"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "sub", DefaultDBName) {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.Filter() != task.FilterAll {
		t.Errorf("filter = %q, want all", cfg.Filter())
	}

	// The written file loads back to the same settings.
	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != cfg {
		t.Errorf("reloaded config differs:\n  got:  %+v\n  want: %+v", again, cfg)
	}
}

func TestLoadOrCreateReadsOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/tmp/elsewhere.db"
default_filter = "active"
default_priority = "medium"

[reminder]
pending_interval = "30m"
deadline_interval = "1m"
notifications = "granted"

[keys]
quit = "x"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DBPath != "/tmp/elsewhere.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.LogPath != filepath.Join(dir, DefaultLogName) {
		t.Errorf("log path = %q", cfg.LogPath)
	}
	if cfg.Filter() != task.FilterActive || cfg.Priority() != task.PriorityMedium {
		t.Errorf("filter/priority = %s/%s", cfg.Filter(), cfg.Priority())
	}
	pending, deadline, err := cfg.Reminder.Intervals()
	if err != nil {
		t.Fatalf("intervals: %v", err)
	}
	if pending != 30*time.Minute || deadline != time.Minute {
		t.Errorf("intervals = %s/%s", pending, deadline)
	}
	if cfg.Keys.Quit != "x" || cfg.Keys.Add != "a" {
		t.Errorf("keys not merged with defaults: %+v", cfg.Keys)
	}
}

func TestLoadOrCreateRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		wantErr string
	}{
		"bad filter": {
			content: `default_filter = "done"`,
			wantErr: "default_filter",
		},
		"bad priority": {
			content: `default_priority = "urgent"`,
			wantErr: "default_priority",
		},
		"bad interval": {
			content: "[reminder]\npending_interval = \"soon\"",
			wantErr: "reminder.pending_interval",
		},
		"negative interval": {
			content: "[reminder]\ndeadline_interval = \"-5m\"",
			wantErr: "reminder.deadline_interval",
		},
		"bad notification mode": {
			content: "[reminder]\nnotifications = \"always\"",
			wantErr: "reminder.notifications",
		},
		"not toml": {
			content: "db_path = ",
			wantErr: "parse",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), DefaultConfigFileName)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := LoadOrCreate(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/duely.toml")

	if got := ResolveConfigPath(); got != "/custom/duely.toml" {
		t.Errorf("got %q", got)
	}
}
