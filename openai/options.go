package openai

const (
	// DefaultChatModel 默认对话模型
	DefaultChatModel = "gpt-3.5-turbo"
	// DefaultTemperature 默认采样温度
	DefaultTemperature = 0.5
	// DefaultMaxTokens 默认最大生成 token 数
	DefaultMaxTokens = 250

	// DefaultTranscriptionModel 默认语音识别模型
	DefaultTranscriptionModel = "whisper-1"
	// DefaultLanguage 默认音频语言（ISO-639-1）
	DefaultLanguage = "en"
)

// RequestOption 是单次请求的可选参数函数类型
type RequestOption func(*requestConfig)

// requestConfig 表示单次请求的配置，未设置的字段使用各端点的默认值
type requestConfig struct {
	// Model 指定要使用的模型 ID
	Model string

	// Temperature 采样温度，仅对话请求使用
	Temperature *float64

	// MaxTokens 生成的最大 token 数，仅对话请求使用
	MaxTokens *int

	// Language 音频语言，仅转写请求使用
	Language *string

	// Verbose 请求 verbose_json 格式，返回语言、时长和分段信息，仅转写请求使用
	Verbose bool
}

func buildRequestConfig(opts []RequestOption) requestConfig {
	var rc requestConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&rc)
		}
	}
	return rc
}

// WithModel 设置模型 ID，空字符串表示使用默认模型
func WithModel(model string) RequestOption {
	return func(c *requestConfig) { c.Model = model }
}

// WithTemperature 设置采样温度，不做范围校验
func WithTemperature(t float64) RequestOption {
	return func(c *requestConfig) { c.Temperature = &t }
}

// WithMaxTokens 设置最大生成 token 数，不做范围校验
func WithMaxTokens(n int) RequestOption {
	return func(c *requestConfig) { c.MaxTokens = &n }
}

// WithLanguage 设置音频语言；空字符串表示不发送 language 字段，由服务端自动识别
func WithLanguage(lang string) RequestOption {
	return func(c *requestConfig) { c.Language = &lang }
}

// WithVerboseJSON 转写结果附带 language、duration 和 segments
func WithVerboseJSON() RequestOption {
	return func(c *requestConfig) { c.Verbose = true }
}

func (c requestConfig) model(def string) string {
	if c.Model == "" {
		return def
	}
	return c.Model
}
