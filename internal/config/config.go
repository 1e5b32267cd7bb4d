package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Assistant AssistantConfig
}

// Load reads the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Assistant: assistant}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the external language-model backend.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int

	// Resilience: every backend call carries Timeout; failures retry up to
	// MaxRetries times; RateLimit/RateBurst gate calls proactively.
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
	RateBurst  int
}

// Enabled reports whether the required backend credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("backend credentials missing: provide ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeoutSeconds, err := parseIntEnv("ARK_TIMEOUT_SECONDS", 30)
	if err != nil {
		return AIConfig{}, err
	}

	maxRetries, err := parseIntEnv("ARK_MAX_RETRIES", 2)
	if err != nil {
		return AIConfig{}, err
	}

	rateLimit, err := parseFloatEnv("ARK_RATE_LIMIT", 5)
	if err != nil {
		return AIConfig{}, err
	}

	rateBurst, err := parseIntEnv("ARK_RATE_BURST", 10)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
		MaxRetries:  maxRetries,
		RateLimit:   rateLimit,
		RateBurst:   rateBurst,
	}, nil
}

// AssistantConfig tunes the engine's stores and background sweeps. The
// context reap and history sweep run on separate cadences because they
// protect different stores.
type AssistantConfig struct {
	MaxMessagesPerSession int
	ContextMaxAge         time.Duration
	ContextReapInterval   time.Duration
	HistoryRetention      time.Duration
	HistorySweepInterval  time.Duration
}

func loadAssistantConfig() (AssistantConfig, error) {
	maxMessages, err := parseIntEnv("AI_MAX_MESSAGES_PER_SESSION", 100)
	if err != nil {
		return AssistantConfig{}, err
	}

	contextMaxAge, err := parseIntEnv("AI_CONTEXT_MAX_AGE_HOURS", 24)
	if err != nil {
		return AssistantConfig{}, err
	}

	contextReap, err := parseIntEnv("AI_CONTEXT_REAP_INTERVAL_HOURS", 3)
	if err != nil {
		return AssistantConfig{}, err
	}

	historyRetention, err := parseIntEnv("AI_HISTORY_RETENTION_HOURS", 24)
	if err != nil {
		return AssistantConfig{}, err
	}

	historySweep, err := parseIntEnv("AI_HISTORY_SWEEP_INTERVAL_HOURS", 6)
	if err != nil {
		return AssistantConfig{}, err
	}

	return AssistantConfig{
		MaxMessagesPerSession: maxMessages,
		ContextMaxAge:         time.Duration(contextMaxAge) * time.Hour,
		ContextReapInterval:   time.Duration(contextReap) * time.Hour,
		HistoryRetention:      time.Duration(historyRetention) * time.Hour,
		HistorySweepInterval:  time.Duration(historySweep) * time.Hour,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
