package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4096
	defaultOutputDir = "emails"
	defaultPort      = "993"
	defaultFolder    = "INBOX"
)

// ConfigurationError indicates bad, missing, or inconsistent configuration.
// It is always detected before any network call is made, so a run that fails
// with one has produced no artifacts.
type ConfigurationError struct {
	// Field names the offending config section or flag.
	Field string

	// Message describes what is wrong.
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config error (%s): %s", e.Field, e.Message)
}

// IsConfigurationError reports whether err (or any error in its chain) is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var confErr *ConfigurationError
	return errors.As(err, &confErr)
}

// Account holds the settings for a single mailbox.
type Account struct {
	// Name is the account's key in the config file ("personal", "work").
	// It is filled in from the map key during load and names output files.
	Name string `mapstructure:"-" yaml:"-"`

	// Server is the IMAP server hostname.
	Server string `mapstructure:"server" yaml:"server"`

	// Port is the IMAP server port. Defaults to 993 (implicit TLS).
	Port string `mapstructure:"port" yaml:"port"`

	// Username is the IMAP login name.
	Username string `mapstructure:"username" yaml:"username"`

	// Password is the IMAP password. May be left empty in the file and
	// supplied from the system keyring instead.
	Password string `mapstructure:"password" yaml:"password"`

	// Folder is the mailbox to read. Defaults to INBOX.
	Folder string `mapstructure:"folder" yaml:"folder"`

	// StartTLS upgrades a cleartext connection instead of dialing
	// implicit TLS. Leave false for port 993.
	StartTLS bool `mapstructure:"starttls" yaml:"starttls"`

	// Filters maps group names to sender patterns. A pattern containing
	// "@user" matches the full address exactly; a domain pattern matches
	// the address suffix.
	Filters map[string][]string `mapstructure:"filters" yaml:"filters"`

	// CategoryHints are extra categorization rules appended verbatim to
	// the digest instruction (e.g. "Emails from acme.com belong in Work").
	CategoryHints []string `mapstructure:"category_hints" yaml:"category_hints"`
}

// SummarizerConfig holds settings for the digest generation service.
type SummarizerConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// OutputConfig holds artifact destination preferences.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Config is the top-level configuration, usually read from auth.yml.
type Config struct {
	Accounts   map[string]Account `mapstructure:"accounts" yaml:"accounts"`
	Summarizer SummarizerConfig   `mapstructure:"summarizer" yaml:"summarizer"`
	Output     OutputConfig       `mapstructure:"output" yaml:"output"`
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing or unparseable file is a ConfigurationError: the tool never
// invents an account to connect to.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("summarizer.model", defaultModel)
	v.SetDefault("summarizer.max_tokens", defaultMaxTokens)
	v.SetDefault("output.dir", defaultOutputDir)

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigurationError{Field: path, Message: err.Error()}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Field: path, Message: err.Error()}
	}

	// Apply defaults for each account entry.
	for name, acct := range cfg.Accounts {
		acct.Name = name
		if acct.Port == "" {
			acct.Port = defaultPort
		}
		if acct.Folder == "" {
			acct.Folder = defaultFolder
		}
		cfg.Accounts[name] = acct
	}

	return &cfg, nil
}

// Account returns the named account. Lookup is case-insensitive because the
// config layer normalizes keys to lower case.
func (c *Config) Account(name string) (Account, error) {
	acct, ok := c.Accounts[strings.ToLower(name)]
	if !ok {
		return Account{}, &ConfigurationError{Field: "accounts", Message: fmt.Sprintf("no account named %q", name)}
	}
	if acct.Server == "" {
		return Account{}, &ConfigurationError{Field: "accounts", Message: fmt.Sprintf("account %q has no server", name)}
	}
	if acct.Username == "" {
		return Account{}, &ConfigurationError{Field: "accounts", Message: fmt.Sprintf("account %q has no username", name)}
	}
	return acct, nil
}
