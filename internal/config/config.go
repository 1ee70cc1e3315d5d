package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/subdivx-grabber/internal/constants"
	"github.com/oshokin/subdivx-grabber/internal/logger"
	http_transport "github.com/oshokin/subdivx-grabber/internal/transport/http"
	"github.com/oshokin/subdivx-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// SearchURL is the subdivx search endpoint.
	SearchURL string `mapstructure:"search_url" yaml:"search_url"`
	// UserAgent is sent with every request. Empty means the built-in browser agent.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// RequestTimeout bounds every HTTP request (e.g., "60s").
	RequestTimeout string `mapstructure:"request_timeout" yaml:"request_timeout"`
	// LogFile is the path of the rotating log file.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogMaxSize is the size after which the log file is rotated (e.g., "1MB").
	LogMaxSize string `mapstructure:"log_max_size" yaml:"log_max_size"`
	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups int `mapstructure:"log_max_backups" yaml:"log_max_backups"`
	// SubtitleExtensions lists the entry name fragments extracted from zip archives.
	// An empty list extracts every entry outside macOS metadata folders.
	SubtitleExtensions []string `mapstructure:"subtitle_extensions" yaml:"subtitle_extensions"`
	// Quiet disables console logging and the progress bar.
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
	// ParsedSearchURL is the parsed search endpoint.
	ParsedSearchURL *url.URL `yaml:"-"`
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration `yaml:"-"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level `yaml:"-"`
	// ParsedLogMaxSizeMB is the rotation size in whole megabytes.
	ParsedLogMaxSizeMB int `yaml:"-"`
}

const (
	// DefaultSearchURL is the subdivx search endpoint.
	DefaultSearchURL = "http://www.subdivx.com/index.php"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".subdivx-grabber.yaml"

	// DefaultLogFile is the default rotating log file, named after the program.
	DefaultLogFile = logger.Name + ".log"

	// DefaultLogLevel is the default logging verbosity.
	DefaultLogLevel = "debug"

	// DefaultLogMaxSize is the default rotation size.
	DefaultLogMaxSize = "1000KB"

	// DefaultLogMaxBackups is the default number of rotated log files kept.
	DefaultLogMaxBackups = 9

	// EnvPrefix prefixes environment variables that override configuration keys.
	EnvPrefix = "SUBDIVX"

	// bytesInMegabyte is the unit of log rotation sizes.
	bytesInMegabyte = 1024 * 1024
)

// Static error definitions for better error handling.
var (
	// ErrInvalidSearchURL indicates that the search URL is not an absolute HTTP(S) URL.
	ErrInvalidSearchURL = errors.New("search_url must be an absolute http or https URL")
	// ErrInvalidRequestTimeout indicates that the request timeout is negative.
	ErrInvalidRequestTimeout = errors.New("request_timeout cannot be negative")
	// ErrEmptyLogFile indicates that no log file path was configured.
	ErrEmptyLogFile = errors.New("log_file cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidLogMaxSize indicates that the rotation size is zero.
	ErrInvalidLogMaxSize = errors.New("log_max_size must be positive")
	// ErrInvalidLogMaxBackups indicates that the backups count is negative.
	ErrInvalidLogMaxBackups = errors.New("log_max_backups cannot be negative")
	// ErrConfigFileExists indicates that a default config would overwrite an existing file.
	ErrConfigFileExists = errors.New("config file already exists")
)

// Default returns the configuration used when no file or override is present.
func Default() *Config {
	return &Config{
		SearchURL:          DefaultSearchURL,
		UserAgent:          http_transport.DefaultUserAgent,
		RequestTimeout:     http_transport.DefaultTimeout.String(),
		LogFile:            DefaultLogFile,
		LogLevel:           DefaultLogLevel,
		LogMaxSize:         DefaultLogMaxSize,
		LogMaxBackups:      DefaultLogMaxBackups,
		SubtitleExtensions: []string{constants.ExtensionSRT},
	}
}

// LoadConfig loads configuration settings from a YAML file, defaults, and SUBDIVX_* variables.
// A missing file is an error only when the filename was given explicitly.
func LoadConfig(configFilename string) (*Config, error) {
	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configFilename)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if isExplicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	searchURL, err := url.Parse(strings.TrimSpace(cfg.SearchURL))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSearchURL, err)
	}

	if (searchURL.Scheme != "http" && searchURL.Scheme != "https") || searchURL.Host == "" {
		return fmt.Errorf("%w: '%s'", ErrInvalidSearchURL, cfg.SearchURL)
	}

	cfg.ParsedSearchURL = searchURL

	if cfg.RequestTimeout != "" {
		cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse request timeout: %w", err)
		}

		if cfg.ParsedRequestTimeout < 0 {
			return ErrInvalidRequestTimeout
		}
	}

	if strings.TrimSpace(cfg.LogFile) == "" {
		return ErrEmptyLogFile
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	logMaxSize, err := humanize.ParseBytes(cfg.LogMaxSize)
	if err != nil {
		return fmt.Errorf("failed to parse log max size: %w", err)
	}

	if logMaxSize == 0 {
		return ErrInvalidLogMaxSize
	}

	cfg.ParsedLogMaxSizeMB = megabytesCeil(utils.SafeUint64ToInt64(logMaxSize))

	if cfg.LogMaxBackups < 0 {
		return ErrInvalidLogMaxBackups
	}

	cfg.SubtitleExtensions = normalizeExtensions(cfg.SubtitleExtensions)

	return nil
}

// SaveDefaultConfig writes the default configuration as YAML.
// An existing file is kept unless overwrite is set.
func SaveDefaultConfig(configFilename string, overwrite bool) error {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	if !overwrite {
		if _, err := os.Stat(configFilename); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigFileExists, configFilename)
		}
	}

	content, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFilename, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("search_url", defaults.SearchURL)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_max_size", defaults.LogMaxSize)
	v.SetDefault("log_max_backups", defaults.LogMaxBackups)
	v.SetDefault("subtitle_extensions", defaults.SubtitleExtensions)
	v.SetDefault("quiet", defaults.Quiet)
}

// megabytesCeil rounds a byte count up to whole megabytes, the rotation granularity.
func megabytesCeil(size int64) int {
	return int((size + bytesInMegabyte - 1) / bytesInMegabyte)
}

func normalizeExtensions(extensions []string) []string {
	result := make([]string, 0, len(extensions))

	for _, extension := range extensions {
		extension = strings.ToLower(strings.TrimSpace(extension))
		if extension == "" {
			continue
		}

		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}

		result = append(result, extension)
	}

	return result
}
