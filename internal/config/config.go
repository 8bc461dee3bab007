package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	ErrInvalidSkippers = errors.New("invalid skippers")
)

// ValidationError represents a configuration value that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Skipper describes a "skip to X" rule. Shortcuts are consumed from the end.
type Skipper struct {
	Selector  string   `json:"selector"`
	Label     string   `json:"label"`
	Shortcuts []string `json:"shortcuts"`
}

type Config struct {
	Port string

	// Generated identifiers
	IDPrefix string

	// Labels
	TextSkippers           string
	TextHeading            string
	TextShortcuts          string
	StandardShortcutPrefix string
	LongDescriptionPrefix  string
	LongDescriptionSuffix  string

	Skippers []Skipper

	// Page loading
	FetchTimeout time.Duration
	FetchRetries int
	MaxBodyBytes int64
}

// DefaultSkippers returns a fresh copy of the built-in skipper rules.
func DefaultSkippers() []Skipper {
	return []Skipper{
		{Selector: "main, [role=main]", Label: "Skip to content", Shortcuts: []string{"1"}},
		{Selector: "#container-heading", Label: "Skip to summary of content", Shortcuts: []string{"2"}},
		{Selector: "#container-shortcuts", Label: "Skip to list of shortcuts", Shortcuts: []string{"3"}},
	}
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		Port:                   "8080",
		IDPrefix:               "id-a11y-",
		TextSkippers:           "Skip links",
		TextHeading:            "Summary of page",
		TextShortcuts:          "Shortcuts",
		StandardShortcutPrefix: "ALT",
		LongDescriptionPrefix:  "Long description of ",
		LongDescriptionSuffix:  "",
		Skippers:               DefaultSkippers(),
		FetchTimeout:           10 * time.Second,
		FetchRetries:           3,
		MaxBodyBytes:           10 << 20,
	}
}

func Load() (Config, error) {
	def := Default()
	cfg := Config{
		Port: envOr("PORT", def.Port),

		IDPrefix: envOr("A11Y_ID_PREFIX", def.IDPrefix),

		TextSkippers:           envOr("A11Y_TEXT_SKIPPERS", def.TextSkippers),
		TextHeading:            envOr("A11Y_TEXT_HEADING", def.TextHeading),
		TextShortcuts:          envOr("A11Y_TEXT_SHORTCUTS", def.TextShortcuts),
		StandardShortcutPrefix: envOr("A11Y_SHORTCUT_PREFIX", def.StandardShortcutPrefix),
		LongDescriptionPrefix:  envOr("A11Y_LONGDESC_PREFIX", def.LongDescriptionPrefix),
		LongDescriptionSuffix:  envOr("A11Y_LONGDESC_SUFFIX", def.LongDescriptionSuffix),

		Skippers: def.Skippers,

		FetchTimeout: envDuration("FETCH_TIMEOUT", def.FetchTimeout),
		FetchRetries: envInt("FETCH_RETRIES", def.FetchRetries),
		MaxBodyBytes: envInt64("MAX_BODY_BYTES", def.MaxBodyBytes),
	}

	if raw := os.Getenv("A11Y_SKIPPERS"); raw != "" {
		skippers, err := ParseSkippers([]byte(raw))
		if err != nil {
			return cfg, err
		}
		cfg.Skippers = skippers
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = def.FetchRetries
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}

	return cfg, nil
}

// ParseSkippers decodes a JSON array of skipper rules.
func ParseSkippers(raw []byte) ([]Skipper, error) {
	var skippers []Skipper
	if err := json.Unmarshal(raw, &skippers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSkippers, err)
	}
	return skippers, nil
}

func (c Config) Validate() error {
	if c.IDPrefix == "" {
		return &ValidationError{Field: "A11Y_ID_PREFIX", Message: "must not be empty"}
	}
	for i, s := range c.Skippers {
		if s.Selector == "" {
			return &ValidationError{Field: fmt.Sprintf("skippers[%d].selector", i), Message: "is required"}
		}
		if s.Label == "" {
			return &ValidationError{Field: fmt.Sprintf("skippers[%d].label", i), Message: "is required"}
		}
		for _, key := range s.Shortcuts {
			if len([]rune(key)) > 1 {
				return &ValidationError{Field: fmt.Sprintf("skippers[%d].shortcuts", i), Message: fmt.Sprintf("%q is not a single character", key)}
			}
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
