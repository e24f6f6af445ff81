// Package config builds the runtime settings of the pagelist binary from
// defaults, a YAML file, the environment (optionally backed by a .env
// file) and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Sternrassler/pagelist/pkg/logging"
	"github.com/Sternrassler/pagelist/pkg/pagination"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultURL is the sample collection endpoint.
const DefaultURL = "https://jsonplaceholder.typicode.com/posts"

// Environment variable names.
const (
	EnvURL          = "PAGELIST_URL"
	EnvHeaders      = "PAGELIST_HEADERS"
	EnvItemsPerPage = "PAGELIST_ITEMS_PER_PAGE"
	EnvMethod       = "PAGELIST_METHOD"
	EnvUserAgent    = "PAGELIST_USER_AGENT"
	EnvLogLevel     = "PAGELIST_LOG_LEVEL"
	EnvLogFile      = "PAGELIST_LOG_FILE"
	EnvMetricsAddr  = "PAGELIST_METRICS_ADDR"
	EnvTitle        = "PAGELIST_TITLE"
)

// Settings is the merged runtime configuration.
type Settings struct {
	URL          string            `yaml:"url"`
	Method       string            `yaml:"method,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	ItemsPerPage int               `yaml:"items_per_page"`
	Title        string            `yaml:"title,omitempty"`
	UserAgent    string            `yaml:"user_agent"`
	LogLevel     string            `yaml:"log_level"`
	LogFile      string            `yaml:"log_file"`
	MetricsAddr  string            `yaml:"metrics_addr,omitempty"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		URL:          DefaultURL,
		Method:       "GET",
		Headers:      map[string]string{},
		ItemsPerPage: pagination.DefaultItemsPerPage,
		Title:        "Posts",
		UserAgent:    "pagelist/0.1.0",
		LogLevel:     "info",
		LogFile:      "pagelist.log",
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	if err := (pagination.Config{ItemsPerPage: s.ItemsPerPage}).Validate(); err != nil {
		return err
	}
	if s.UserAgent == "" {
		return fmt.Errorf("user-agent is required")
	}
	if !logging.LogLevel(s.LogLevel).Valid() {
		return fmt.Errorf("log level must be debug, info, warn, error or disabled (got %q)", s.LogLevel)
	}
	return nil
}

// LoadFile merges the YAML file at path into s. Keys missing from the
// file keep their current values.
func LoadFile(path string, s *Settings) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ApplyEnv merges values from lookup into s. Empty values are ignored.
func ApplyEnv(s *Settings, lookup func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			*dst = v
		}
	}

	setString(EnvURL, &s.URL)
	setString(EnvMethod, &s.Method)
	setString(EnvTitle, &s.Title)
	setString(EnvUserAgent, &s.UserAgent)
	setString(EnvLogLevel, &s.LogLevel)
	setString(EnvLogFile, &s.LogFile)
	setString(EnvMetricsAddr, &s.MetricsAddr)

	if v := strings.TrimSpace(lookup(EnvItemsPerPage)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvItemsPerPage, err)
		}
		s.ItemsPerPage = n
	}

	if v := strings.TrimSpace(lookup(EnvHeaders)); v != "" {
		for _, pair := range strings.Split(v, ";") {
			if strings.TrimSpace(pair) == "" {
				continue
			}
			name, value, err := ParseHeader(pair)
			if err != nil {
				return fmt.Errorf("%s: %w", EnvHeaders, err)
			}
			if s.Headers == nil {
				s.Headers = map[string]string{}
			}
			s.Headers[name] = value
		}
	}
	return nil
}

// ParseHeader splits "Name: value".
func ParseHeader(raw string) (name, value string, err error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("header %q must look like \"Name: value\"", strings.TrimSpace(raw))
	}
	return name, strings.TrimSpace(value), nil
}

// headerFlag collects repeated -H flags.
type headerFlag map[string]string

func (h headerFlag) String() string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+h[k])
	}
	return strings.Join(parts, "; ")
}

func (h headerFlag) Set(raw string) error {
	name, value, err := ParseHeader(raw)
	if err != nil {
		return err
	}
	h[name] = value
	return nil
}

// Parse builds Settings from args and the environment. getenv is
// consulted first; keys it leaves empty fall back to the .env file named
// by -env-file (missing file is not an error). The -config YAML file, if
// given, sits between the defaults and the environment.
func Parse(args []string, getenv func(string) string, output io.Writer) (Settings, error) {
	flags := flag.NewFlagSet("pagelist", flag.ContinueOnError)
	if output != nil {
		flags.SetOutput(output)
	}

	var (
		flagSettings Settings
		configPath   string
		envFile      string
		headers      = headerFlag{}
	)
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&envFile, "env-file", ".env", "path to a .env file")
	flags.StringVar(&flagSettings.URL, "url", "", "resource to fetch")
	flags.StringVar(&flagSettings.Method, "method", "", "HTTP method")
	flags.Var(headers, "H", "request header \"Name: value\" (repeatable)")
	flags.IntVar(&flagSettings.ItemsPerPage, "per-page", 0, "items per page")
	flags.StringVar(&flagSettings.Title, "title", "", "list title")
	flags.StringVar(&flagSettings.UserAgent, "user-agent", "", "User-Agent header")
	flags.StringVar(&flagSettings.LogLevel, "log-level", "", "debug, info, warn, error or disabled")
	flags.StringVar(&flagSettings.LogFile, "log-file", "", "log destination (\"-\" for stderr)")
	flags.StringVar(&flagSettings.MetricsAddr, "metrics-addr", "", "serve /metrics on this address")

	if err := flags.Parse(args); err != nil {
		return Settings{}, err
	}

	s := Defaults()

	if configPath != "" {
		if err := LoadFile(configPath, &s); err != nil {
			return Settings{}, fmt.Errorf("config: %w", err)
		}
	}

	dotenv, err := readDotEnv(envFile)
	if err != nil {
		return Settings{}, err
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	if err := ApplyEnv(&s, lookup); err != nil {
		return Settings{}, fmt.Errorf("environment: %w", err)
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			s.URL = flagSettings.URL
		case "method":
			s.Method = flagSettings.Method
		case "per-page":
			s.ItemsPerPage = flagSettings.ItemsPerPage
		case "title":
			s.Title = flagSettings.Title
		case "user-agent":
			s.UserAgent = flagSettings.UserAgent
		case "log-level":
			s.LogLevel = flagSettings.LogLevel
		case "log-file":
			s.LogFile = flagSettings.LogFile
		case "metrics-addr":
			s.MetricsAddr = flagSettings.MetricsAddr
		case "H":
			if s.Headers == nil {
				s.Headers = map[string]string{}
			}
			for k, v := range headers {
				s.Headers[k] = v
			}
		}
	})

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("env file %s: %w", path, err)
	}
	return values, nil
}
