// Package config loads the SDK's configuration from YAML files (with
// ${VAR} / ${VAR:-default} environment substitution) or directly from
// environment variables. The Config object carries everything the module
// is parameterized by — logging, metrics, storage backend, witness
// endpoint, Bitcoin network, batch limits — so no package reads the
// environment on its own.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration object.
type Config struct {
	Logging LoggingSettings `yaml:"logging"`
	Metrics MetricsSettings `yaml:"metrics"`
	Storage StorageSettings `yaml:"storage"`
	Witness WitnessSettings `yaml:"witness"`
	Bitcoin BitcoinSettings `yaml:"bitcoin"`
	WebVH   WebVHSettings   `yaml:"webvh"`
	Batch   BatchSettings   `yaml:"batch"`
}

// LoggingSettings selects the logger's level, format, and sinks.
type LoggingSettings struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // "json" or "console"
	Output   string `yaml:"output"` // "stdout" or "stderr"
	FilePath string `yaml:"file_path"`
}

// MetricsSettings toggles the metrics collector.
type MetricsSettings struct {
	Enabled bool `yaml:"enabled"`
}

// StorageSettings selects the storage adapter backend.
type StorageSettings struct {
	Backend   string            `yaml:"backend"` // "memory", "https", or "firestore"
	Firestore FirestoreSettings `yaml:"firestore"`
}

// FirestoreSettings configures the Firestore-backed adapter.
type FirestoreSettings struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// WitnessSettings configures the witness client.
type WitnessSettings struct {
	URL     string            `yaml:"url"`
	Timeout Duration          `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// BitcoinSettings configures inscription construction.
type BitcoinSettings struct {
	Network       string  `yaml:"network"` // mainnet, testnet, signet, regtest
	FeeRate       float64 `yaml:"fee_rate"` // sat/vB
	ChangeAddress string  `yaml:"change_address"`
	Destination   string  `yaml:"destination"`
}

// WebVHSettings configures web publication.
type WebVHSettings struct {
	Domain string `yaml:"domain"`
}

// BatchSettings bounds the batch engine.
type BatchSettings struct {
	MaxConcurrent     int  `yaml:"max_concurrent"`
	ValidateFirst     bool `yaml:"validate_first"`
	ContinueOnError   bool `yaml:"continue_on_error"`
	SingleTransaction bool `yaml:"single_transaction"`
}

// Duration is a time.Duration with YAML support for "10s"-style strings.
type Duration time.Duration

// UnmarshalYAML parses either a duration string ("10s", "2m") or a plain
// integer number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
			*d = Duration(time.Duration(secs) * time.Second)
			return nil
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("config: invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs int64
	if err := node.Decode(&secs); err != nil {
		return fmt.Errorf("config: invalid duration value")
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration converts to the standard library type.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Load reads a YAML config file, substitutes environment variables, and
// applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv builds a Config from environment variables alone, with the
// same defaults Load applies.
func LoadFromEnv() *Config {
	cfg := &Config{
		Logging: LoggingSettings{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "json"),
			Output:   getEnv("LOG_OUTPUT", "stderr"),
			FilePath: getEnv("LOG_FILE", ""),
		},
		Metrics: MetricsSettings{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
		Storage: StorageSettings{
			Backend: getEnv("STORAGE_BACKEND", "memory"),
			Firestore: FirestoreSettings{
				ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
				CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			},
		},
		Witness: WitnessSettings{
			URL:     getEnv("WITNESS_URL", ""),
			Timeout: Duration(time.Duration(getEnvInt("WITNESS_TIMEOUT_SECONDS", 10)) * time.Second),
		},
		Bitcoin: BitcoinSettings{
			Network:       getEnv("BITCOIN_NETWORK", "testnet"),
			FeeRate:       getEnvFloat("BITCOIN_FEE_RATE", 10),
			ChangeAddress: getEnv("BITCOIN_CHANGE_ADDRESS", ""),
			Destination:   getEnv("BITCOIN_DESTINATION", ""),
		},
		WebVH: WebVHSettings{
			Domain: getEnv("WEBVH_DOMAIN", ""),
		},
		Batch: BatchSettings{
			MaxConcurrent:     getEnvInt("BATCH_MAX_CONCURRENT", 8),
			ValidateFirst:     getEnvBool("BATCH_VALIDATE_FIRST", true),
			ContinueOnError:   getEnvBool("BATCH_CONTINUE_ON_ERROR", false),
			SingleTransaction: getEnvBool("BATCH_SINGLE_TRANSACTION", false),
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Witness.Timeout == 0 {
		c.Witness.Timeout = Duration(10 * time.Second)
	}
	if c.Bitcoin.Network == "" {
		c.Bitcoin.Network = "testnet"
	}
	if c.Bitcoin.FeeRate == 0 {
		c.Bitcoin.FeeRate = 10
	}
	if c.Batch.MaxConcurrent == 0 {
		c.Batch.MaxConcurrent = 8
	}
}

// Validate rejects configurations no component could accept.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "https", "firestore":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "firestore" && c.Storage.Firestore.ProjectID == "" {
		return fmt.Errorf("config: firestore backend requires a project_id")
	}
	if c.Witness.URL != "" {
		u, err := url.Parse(c.Witness.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config: witness url %q is not an http(s) URL", c.Witness.URL)
		}
	}
	if c.Bitcoin.FeeRate <= 0 {
		return fmt.Errorf("config: bitcoin fee_rate must be positive")
	}
	if _, err := c.Bitcoin.Params(); err != nil {
		return err
	}
	return nil
}

// Params maps the configured network name to its chain parameters.
func (b BitcoinSettings) Params() (*chaincfg.Params, error) {
	switch b.Network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("config: unknown bitcoin network %q", b.Network)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with environment
// values before YAML parsing.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(groups[1]); value != "" {
			return value
		}
		return defaultValue
	})
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}
