package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "OPENAI"

// Settings 命令行工具的配置
type Settings struct {
	// APIKey 对应 OPENAI_API_KEY
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`

	// === 对话 ===
	ChatModel   string  `mapstructure:"chat_model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// === 转写 ===
	TranscriptionModel string `mapstructure:"transcription_model"`
	Language           string `mapstructure:"language"`

	// === 传输 ===
	// Timeout 单次请求超时，0 表示不限制
	Timeout  time.Duration `mapstructure:"timeout"`
	ProxyURL string        `mapstructure:"proxy_url"`

	// LogLevel debug、info、warn、error
	LogLevel string `mapstructure:"log_level"`
}

// DefaultSettings 返回全部键的默认值
func DefaultSettings() map[string]any {
	return map[string]any{
		"api_key":             "",
		"base_url":            "https://api.openai.com/v1",
		"chat_model":          "gpt-3.5-turbo",
		"temperature":         0.5,
		"max_tokens":          250,
		"transcription_model": "whisper-1",
		"language":            "en",
		"timeout":             "0s",
		"proxy_url":           "",
		"log_level":           "info",
	}
}

// LoadSettings 按 默认值 < 配置文件 < 环境变量 的优先级加载 Settings
func LoadSettings(path string, logger *slog.Logger) (*Config[Settings], error) {
	return Load(path,
		WithDefaults[Settings](DefaultSettings()),
		WithEnv[Settings](EnvPrefix),
		WithLogger[Settings](logger),
	)
}

// SlogLevel 解析 LogLevel
func (s Settings) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	return lvl, nil
}
