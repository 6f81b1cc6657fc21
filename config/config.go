// Package config 基于 viper 的类型化配置加载器，支持配置文件、环境变量和热更新。
package config

import (
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// reloadDebounce 合并编辑器保存文件时产生的多次写事件
const reloadDebounce = 100 * time.Millisecond

// Config 配置管理器
type Config[T any] struct {
	v      *viper.Viper
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	value    *T
	watchers []func(old, new T)
}

// Option 配置选项
type Option[T any] func(*Config[T])

// WithDefaults 设置默认值；只有设置过默认值的键才能被环境变量覆盖
func WithDefaults[T any](defaults map[string]any) Option[T] {
	return func(c *Config[T]) {
		for k, v := range defaults {
			c.v.SetDefault(k, v)
		}
	}
}

// WithEnv 绑定环境变量，例如前缀 OPENAI 时 api_key 对应 OPENAI_API_KEY
func WithEnv[T any](prefix string) Option[T] {
	return func(c *Config[T]) {
		c.v.SetEnvPrefix(prefix)
		c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		c.v.AutomaticEnv()
	}
}

// WithLogger 设置记录热更新失败的日志器
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *Config[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// Load 加载配置。path 为空时只使用默认值和环境变量，且不监控变更；
// 否则读取配置文件（格式由扩展名决定）并在文件变更时自动重新加载。
func Load[T any](path string, opts ...Option[T]) (*Config[T], error) {
	c := &Config[T]{v: viper.New(), path: path, logger: slog.Default()}

	for _, opt := range opts {
		opt(c)
	}

	if path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return nil, err
	}
	c.value = &val

	if path != "" {
		c.watch()
	}
	return c, nil
}

// Path 返回配置文件路径，未使用配置文件时为空
func (c *Config[T]) Path() string { return c.path }

// Get 获取当前配置（并发安全，返回深拷贝）
func (c *Config[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(*c.value)
}

// Set 覆盖单个键（优先级最高），用于命令行参数
func (c *Config[T]) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.v.Set(key, value)
	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return err
	}
	c.value = &val
	return nil
}

// OnChange 注册配置变更回调，仅在配置内容实际变化时触发
func (c *Config[T]) OnChange(callback func(old, new T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, callback)
}

// Changed 比较两个值是否不同
func Changed[T any](old, new T) bool {
	return !reflect.DeepEqual(old, new)
}

// deepCopy 通过 JSON 序列化实现深拷贝
func deepCopy[T any](src T) T {
	var dst T
	data, _ := json.Marshal(src)
	_ = json.Unmarshal(data, &dst)
	return dst
}

func (c *Config[T]) watch() {
	var (
		debounceTimer *time.Timer
		debounceMu    sync.Mutex
	)

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		debounceMu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(reloadDebounce, c.handleConfigChange)
		debounceMu.Unlock()
	})

	c.v.WatchConfig()
}

func (c *Config[T]) handleConfigChange() {
	oldConfig := c.Get()

	newConfig, watchers, err := c.reloadConfig()
	if err != nil {
		c.logger.Warn("config: reload failed, keeping previous values", "path", c.path, "err", err)
		return
	}

	if reflect.DeepEqual(oldConfig, newConfig) {
		return
	}

	for _, cb := range watchers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("config: change callback panicked", "panic", r)
				}
			}()
			cb(oldConfig, newConfig)
		}()
	}
}

// reloadConfig 重新加载配置，返回新配置和回调列表
func (c *Config[T]) reloadConfig() (T, []func(old, new T), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if err := c.v.ReadInConfig(); err != nil {
		return zero, nil, err
	}

	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return zero, nil, err
	}
	c.value = &val

	watchers := make([]func(old, new T), len(c.watchers))
	copy(watchers, c.watchers)

	return deepCopy(val), watchers, nil
}
