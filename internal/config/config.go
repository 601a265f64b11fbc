package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Operator is a privileged identity allowed to review applications.
type Operator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Config holds application configuration.
type Config struct {
	// BotToken is the Telegram Bot API token.
	BotToken string `json:"bot_token,omitempty"`

	// Operators is the ordered operator roster. Order drives the main menu layout.
	Operators []Operator `json:"operators,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// SessionBackend selects where in-progress questionnaires live: "memory" or "redis".
	SessionBackend string `json:"session_backend,omitempty"`

	// RedisURL is required when SessionBackend is "redis".
	RedisURL string `json:"redis_url,omitempty"`

	// WebhookURL switches the bot from long polling to webhook delivery when set.
	WebhookURL string `json:"webhook_url,omitempty"`

	// WebhookSecret is checked against the X-Telegram-Bot-Api-Secret-Token header.
	WebhookSecret string `json:"webhook_secret,omitempty"`

	// ListenAddr serves the webhook, /health and /metrics.
	ListenAddr string `json:"listen_addr,omitempty"`

	// PollTimeoutSeconds is the long-poll timeout passed to getUpdates.
	PollTimeoutSeconds int `json:"poll_timeout_seconds,omitempty"`

	// InboundPerMinute caps updates accepted per user per minute. 0 disables the limit.
	InboundPerMinute int `json:"inbound_per_minute,omitempty"`

	// LogFile enables a rotated JSON log file next to console output.
	LogFile string `json:"log_file,omitempty"`

	// Debug lowers the console log level to debug.
	Debug bool `json:"debug,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SessionBackend:     SessionBackendMemory,
		ListenAddr:         ":8080",
		PollTimeoutSeconds: 25,
		InboundPerMinute:   30,
	}
}

// PollTimeout returns the long-poll timeout as a duration.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// Validate checks the settings required to run the bot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return errors.New("bot token is required (SCOUT_BOT_TOKEN or bot_token)")
	}
	if len(c.Operators) == 0 {
		return errors.New("at least one operator is required")
	}
	seen := make(map[int64]bool, len(c.Operators))
	for _, op := range c.Operators {
		if op.ID <= 0 {
			return fmt.Errorf("operator %q has invalid id %d", op.Name, op.ID)
		}
		if seen[op.ID] {
			return fmt.Errorf("operator id %d listed twice", op.ID)
		}
		seen[op.ID] = true
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("redis session backend requires redis_url")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	return nil
}

// Load loads configuration from baseDir/.env, baseDir/config.json and the environment.
// Returns default config if neither file exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.scout.
func Load(baseDir string) (*Config, error) {
	if err := LoadEnv(filepath.Join(baseDir, ".env")); err != nil {
		return nil, err
	}
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	env, err := fromEnv()
	if err != nil {
		return nil, err
	}
	return Merge(cfg, env), nil
}

// LoadEnv loads a .env file into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// fromEnv builds an overlay config from environment variables.
func fromEnv() (*Config, error) {
	cfg := &Config{
		BotToken:       firstEnv("SCOUT_BOT_TOKEN", "BOT_TOKEN"),
		RedisURL:       firstEnv("SCOUT_REDIS_URL", "REDIS_URL"),
		SessionBackend: firstEnv("SCOUT_SESSION_BACKEND"),
		WebhookURL:     firstEnv("SCOUT_WEBHOOK_URL"),
		WebhookSecret:  firstEnv("SCOUT_WEBHOOK_SECRET"),
		ListenAddr:     firstEnv("SCOUT_LISTEN_ADDR"),
		LogFile:        firstEnv("SCOUT_LOG_FILE"),
	}
	if raw := firstEnv("SCOUT_OPERATORS"); raw != "" {
		ops, err := ParseOperators(raw)
		if err != nil {
			return nil, err
		}
		cfg.Operators = ops
	}
	if raw := firstEnv("SCOUT_INBOUND_PER_MINUTE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("SCOUT_INBOUND_PER_MINUTE: %w", err)
		}
		cfg.InboundPerMinute = n
	}
	return cfg, nil
}

// ParseOperators parses a roster written as "id:Name,id:Name".
func ParseOperators(raw string) ([]Operator, error) {
	var ops []Operator
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idText, name, _ := strings.Cut(part, ":")
		id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid operator id %q", idText)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = strconv.FormatInt(id, 10)
		}
		ops = append(ops, Operator{ID: id, Name: name})
	}
	return ops, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; operator rosters are merged by id,
// with overlay names winning and base order kept.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.BotToken = pick(overlay.BotToken, base.BotToken)
	result.SessionBackend = pick(overlay.SessionBackend, base.SessionBackend)
	result.RedisURL = pick(overlay.RedisURL, base.RedisURL)
	result.WebhookURL = pick(overlay.WebhookURL, base.WebhookURL)
	result.WebhookSecret = pick(overlay.WebhookSecret, base.WebhookSecret)
	result.ListenAddr = pick(overlay.ListenAddr, base.ListenAddr)
	result.LogFile = pick(overlay.LogFile, base.LogFile)

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.PollTimeoutSeconds = overlay.PollTimeoutSeconds
	if result.PollTimeoutSeconds == 0 {
		result.PollTimeoutSeconds = base.PollTimeoutSeconds
	}

	result.InboundPerMinute = overlay.InboundPerMinute
	if result.InboundPerMinute == 0 {
		result.InboundPerMinute = base.InboundPerMinute
	}

	// Booleans: overlay wins if true, else base
	result.Debug = base.Debug || overlay.Debug

	result.Operators = mergeOperators(base.Operators, overlay.Operators)

	return result
}

func pick(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeOperators combines two rosters keyed by id.
func mergeOperators(a, b []Operator) []Operator {
	index := make(map[int64]int)
	result := make([]Operator, 0, len(a)+len(b))

	for _, list := range [][]Operator{a, b} {
		for _, op := range list {
			op.Name = strings.TrimSpace(op.Name)
			if i, ok := index[op.ID]; ok {
				if op.Name != "" {
					result[i].Name = op.Name
				}
				continue
			}
			index[op.ID] = len(result)
			result = append(result, op)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
