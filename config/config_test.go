package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadSettings_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadSettings("", nil)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	s := cfg.Get()
	if s.ChatModel != "gpt-3.5-turbo" || s.Temperature != 0.5 || s.MaxTokens != 250 {
		t.Fatalf("unexpected chat defaults: %+v", s)
	}
	if s.TranscriptionModel != "whisper-1" || s.Language != "en" {
		t.Fatalf("unexpected transcription defaults: %+v", s)
	}
	if s.Timeout != 0 {
		t.Fatalf("timeout=%v", s.Timeout)
	}
	if cfg.Path() != "" {
		t.Fatalf("path=%q", cfg.Path())
	}
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openai.yaml")
	writeFile(t, path, "api_key: from-file\nchat_model: gpt-4o-mini\ntimeout: 30s\nmax_tokens: 100\n")
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := LoadSettings(path, nil)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	s := cfg.Get()
	if s.APIKey != "from-env" {
		t.Fatalf("env should win over file, got %q", s.APIKey)
	}
	if s.ChatModel != "gpt-4o-mini" || s.MaxTokens != 100 {
		t.Fatalf("file values not applied: %+v", s)
	}
	if s.Timeout != 30*time.Second {
		t.Fatalf("timeout=%v", s.Timeout)
	}
	if s.Language != "en" {
		t.Fatalf("default language lost: %q", s.Language)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestConfig_Set(t *testing.T) {
	cfg, err := LoadSettings("", nil)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if err := cfg.Set("max_tokens", 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := cfg.Get().MaxTokens; got != 42 {
		t.Fatalf("MaxTokens=%d", got)
	}
}

func TestConfig_GetReturnsCopy(t *testing.T) {
	type nested struct {
		Tags []string `mapstructure:"tags"`
	}
	cfg, err := Load[nested]("", WithDefaults[nested](map[string]any{"tags": []string{"a"}}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := cfg.Get()
	got.Tags[0] = "mutated"
	if cfg.Get().Tags[0] != "a" {
		t.Fatalf("Get should return a deep copy")
	}
}

func TestConfig_OnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openai.yaml")
	writeFile(t, path, "chat_model: m1\n")

	cfg, err := LoadSettings(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	changed := make(chan [2]string, 1)
	cfg.OnChange(func(old, new Settings) {
		select {
		case changed <- [2]string{old.ChatModel, new.ChatModel}:
		default:
		}
	})

	writeFile(t, path, "chat_model: m2\n")

	select {
	case got := <-changed:
		if got != [2]string{"m1", "m2"} {
			t.Fatalf("change = %v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change notification")
	}
	if cfg.Get().ChatModel != "m2" {
		t.Fatalf("ChatModel=%q", cfg.Get().ChatModel)
	}
}

func TestChanged(t *testing.T) {
	a := Settings{ChatModel: "x"}
	b := a
	if Changed(a, b) {
		t.Fatalf("equal values reported as changed")
	}
	b.MaxTokens = 1
	if !Changed(a, b) {
		t.Fatalf("different values reported as equal")
	}
}

func TestSettings_SlogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := Settings{LogLevel: tt.in}.SlogLevel()
		if (err != nil) != tt.wantErr {
			t.Fatalf("SlogLevel(%q) err=%v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("SlogLevel(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}
