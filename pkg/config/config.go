// Package config loads engage's static configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/engage/pkg/behavior"
	"github.com/entrhq/engage/pkg/browser"
	"github.com/entrhq/engage/pkg/comment"
	"github.com/entrhq/engage/pkg/engage"
	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/youtube"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "ENGAGE_CONFIG"

// Config is the complete run configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Browser    BrowserConfig    `yaml:"browser"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`

	// ConfigFilePath is the file this config was read from, empty for defaults
	ConfigFilePath string `yaml:"-"`
}

// LLMConfig selects the text generation provider.
// Empty APIKey and BaseURL fall back to OPENAI_API_KEY and OPENAI_BASE_URL.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// TranscriptConfig controls caption fetching and excerpt selection.
type TranscriptConfig struct {
	Languages []string `yaml:"languages"`
	// Keywords replaces the built-in keyword list when set
	Keywords []string `yaml:"keywords"`
	TopN     int      `yaml:"top_n"`
}

// GenerationConfig bounds the comment generation loop.
type GenerationConfig struct {
	MaxAttempts   int `yaml:"max_attempts"`
	ContextTokens int `yaml:"context_tokens"`
}

// HistoryConfig locates the used-comment history file.
type HistoryConfig struct {
	// Path defaults to ~/.engage/used_comments.json
	Path string `yaml:"path"`
}

// BrowserConfig controls the optional watch session.
type BrowserConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Headless       bool          `yaml:"headless"`
	Channel        string        `yaml:"channel"`
	Locale         string        `yaml:"locale"`
	ViewportWidth  int           `yaml:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height"`
	Timeout        time.Duration `yaml:"timeout"`
	SkipInstall    bool          `yaml:"skip_install"`
	CookieFile     string        `yaml:"cookie_file"`
	CookieDomains  []string      `yaml:"cookie_domains"`
}

// DurationRange is an inclusive [min, max] interval.
type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// IntRange is an inclusive [min, max] interval.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// WatchConfig holds the session pacing. Durations use Go syntax ("90s", "1m30s").
type WatchConfig struct {
	SettleDelay      time.Duration `yaml:"settle_delay"`
	PreComment       DurationRange `yaml:"pre_comment"`
	ScrollCount      IntRange      `yaml:"scroll_count"`
	ScrollAmount     IntRange      `yaml:"scroll_amount"`
	ScrollPause      DurationRange `yaml:"scroll_pause"`
	TypeDelay        DurationRange `yaml:"type_delay"`
	SubmitPause      DurationRange `yaml:"submit_pause"`
	Tick             DurationRange `yaml:"tick"`
	PauseProbability float64       `yaml:"pause_probability"`
	Pause            DurationRange `yaml:"pause"`
	SeekProbability  float64       `yaml:"seek_probability"`
	Duration         DurationRange `yaml:"duration"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	t := behavior.DefaultTiming()
	return &Config{
		LLM: LLMConfig{
			MaxTokens:   comment.DefaultMaxTokens,
			Temperature: comment.DefaultTemperature,
		},
		Transcript: TranscriptConfig{
			Languages: slices.Clone(youtube.DefaultLanguages),
			TopN:      engage.DefaultTopN,
		},
		Generation: GenerationConfig{
			MaxAttempts:   comment.DefaultMaxAttempts,
			ContextTokens: 512,
		},
		Browser: BrowserConfig{
			Channel:        "chrome",
			ViewportWidth:  browser.DefaultViewportWidth,
			ViewportHeight: browser.DefaultViewportHeight,
			Timeout:        time.Duration(browser.DefaultTimeout) * time.Millisecond,
			CookieFile:     "youtube_cookies.json",
			CookieDomains:  slices.Clone(browser.DefaultCookieDomains),
		},
		Watch: WatchConfig{
			SettleDelay:      t.SettleDelay,
			PreComment:       DurationRange{t.PreCommentMin, t.PreCommentMax},
			ScrollCount:      IntRange{t.ScrollCountMin, t.ScrollCountMax},
			ScrollAmount:     IntRange{t.ScrollAmountMin, t.ScrollAmountMax},
			ScrollPause:      DurationRange{t.ScrollPauseMin, t.ScrollPauseMax},
			TypeDelay:        DurationRange{t.TypeDelayMin, t.TypeDelayMax},
			SubmitPause:      DurationRange{t.SubmitPauseMin, t.SubmitPauseMax},
			Tick:             DurationRange{t.TickMin, t.TickMax},
			PauseProbability: t.PauseProbability,
			Pause:            DurationRange{t.PauseMin, t.PauseMax},
			SeekProbability:  t.SeekProbability,
			Duration:         DurationRange{t.WatchMin, t.WatchMax},
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// DefaultPath returns $ENGAGE_CONFIG, or ~/.engage/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".engage", "config.yaml"), nil
}

// Load reads path on top of Default. A missing file yields the defaults
// unless the path was explicitly requested through ENGAGE_CONFIG.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && os.Getenv(EnvConfigPath) == "" {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.ConfigFilePath = path
	return config, nil
}

// ApplyEnv fills the LLM credentials from the environment when the file left them empty.
func (c *Config) ApplyEnv() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
}

// HistoryPath returns the configured history file, or the default under ~/.engage.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".engage", "used_comments.json"), nil
}

// Timing converts the watch section into simulator bounds.
func (c *Config) Timing() behavior.Timing {
	w := c.Watch
	return behavior.Timing{
		SettleDelay:      w.SettleDelay,
		PreCommentMin:    w.PreComment.Min,
		PreCommentMax:    w.PreComment.Max,
		ScrollCountMin:   w.ScrollCount.Min,
		ScrollCountMax:   w.ScrollCount.Max,
		ScrollAmountMin:  w.ScrollAmount.Min,
		ScrollAmountMax:  w.ScrollAmount.Max,
		ScrollPauseMin:   w.ScrollPause.Min,
		ScrollPauseMax:   w.ScrollPause.Max,
		TypeDelayMin:     w.TypeDelay.Min,
		TypeDelayMax:     w.TypeDelay.Max,
		SubmitPauseMin:   w.SubmitPause.Min,
		SubmitPauseMax:   w.SubmitPause.Max,
		TickMin:          w.Tick.Min,
		TickMax:          w.Tick.Max,
		PauseProbability: w.PauseProbability,
		PauseMin:         w.Pause.Min,
		PauseMax:         w.Pause.Max,
		SeekProbability:  w.SeekProbability,
		WatchMin:         w.Duration.Min,
		WatchMax:         w.Duration.Max,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %v outside [0, 2]", c.LLM.Temperature)
	}

	if c.Transcript.TopN <= 0 {
		return fmt.Errorf("transcript.top_n must be positive")
	}
	if len(c.Transcript.Languages) == 0 {
		return fmt.Errorf("transcript.languages cannot be empty")
	}

	if c.Generation.MaxAttempts <= 0 {
		return fmt.Errorf("generation.max_attempts must be positive")
	}
	if c.Generation.ContextTokens < 0 {
		return fmt.Errorf("generation.context_tokens cannot be negative")
	}

	if c.Browser.Enabled {
		if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
			return fmt.Errorf("browser viewport must be positive")
		}
		if c.Browser.Timeout < 0 {
			return fmt.Errorf("browser.timeout cannot be negative")
		}
	}

	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if _, err := logging.ParseLevel(c.Logging.Verbosity); err != nil {
		return fmt.Errorf("invalid logging verbosity: %w", err)
	}
	return nil
}
