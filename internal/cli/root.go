// Package cli 实现 openai 命令行工具的命令树。
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/lgc202/openai-kit/config"
	"github.com/lgc202/openai-kit/httpx"
	"github.com/lgc202/openai-kit/metrics"
	"github.com/lgc202/openai-kit/openai"
)

// errRejected 非 2xx 响应，详细信息已写入日志
var errRejected = errors.New("request rejected by the API (details logged above)")

// app 命令之间共享的状态
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// 全局参数
	configPath  string
	apiKey      string
	baseURL     string
	logLevel    string
	metricsAddr string

	cfg      *config.Config[config.Settings]
	level    *slog.LevelVar
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	server   *http.Server
}

// NewRootCommand 构建根命令
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, level: new(slog.LevelVar)}
	a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: a.level}))

	root := &cobra.Command{
		Use:           "openai",
		Short:         "Chat completions and audio transcriptions from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.shutdown(cmd.Context())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (yaml, json or toml); watched for changes")
	pf.StringVar(&a.apiKey, "api-key", "", "API key (default $OPENAI_API_KEY)")
	pf.StringVar(&a.baseURL, "base-url", "", "API base URL (default $OPENAI_BASE_URL or "+openai.DefaultBaseURL+")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	root.AddCommand(
		newChatCommand(a),
		newTranscribeCommand(a),
		newVersionCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadSettings(a.configPath, a.logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	// 命令行参数优先级最高
	overrides := map[string]string{
		"api-key":   "api_key",
		"base-url":  "base_url",
		"log-level": "log_level",
	}
	for flag, key := range overrides {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := cfg.Set(key, f.Value.String()); err != nil {
				return err
			}
		}
	}

	if err := a.applyLogLevel(cfg.Get()); err != nil {
		return err
	}
	cfg.OnChange(func(_, new config.Settings) {
		if err := a.applyLogLevel(new); err != nil {
			a.logger.Warn("config: ignoring log level", "err", err)
		}
	})

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)
	if a.metricsAddr != "" {
		return a.serveMetrics()
	}
	return nil
}

func (a *app) applyLogLevel(s config.Settings) error {
	lvl, err := s.SlogLevel()
	if err != nil {
		return err
	}
	a.level.Set(lvl)
	return nil
}

func (a *app) serveMetrics() error {
	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "err", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String(), "path", "/metrics")
	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// newClient 根据当前配置构建 API 客户端
func (a *app) newClient(s config.Settings) (*openai.Client, error) {
	if s.APIKey == "" {
		return nil, errors.New("missing API key: set OPENAI_API_KEY, api_key in the config file, or --api-key")
	}
	rt, err := httpx.NewTransport(httpx.TransportConfig{ProxyURL: s.ProxyURL})
	if err != nil {
		return nil, fmt.Errorf("proxy_url: %w", err)
	}
	return openai.New(s.APIKey,
		openai.WithBaseURL(s.BaseURL),
		openai.WithTransport(rt),
		openai.WithTimeout(s.Timeout),
		openai.WithLogger(a.logger),
		openai.WithHooks(nil, []httpx.AfterHook{a.metrics.AfterHook(), a.debugHook()}),
	)
}

func (a *app) debugHook() httpx.AfterHook {
	return func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		a.logger.Debug("http request",
			"method", req.Method,
			"url", req.URL.String(),
			"status", status,
			"dur", dur,
			"err", err,
		)
	}
}
