// Package config builds the process-level settings of one pgfleet invocation
// from the project file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const (
	ConfigFileName = "pgfleet.yaml"
	EnvFileName    = ".env"
)

// Environment variables read by ApplyEnv.
const (
	EnvManifestURL  = "PGFLEET_MANIFEST_URL"
	EnvManifestName = "PGFLEET_MANIFEST_NAME"
	EnvHTTPLogin    = "PGFLEET_HTTP_LOGIN"
	EnvHTTPPassword = "PGFLEET_HTTP_PASSWORD"
	EnvHTTPCharset  = "PGFLEET_HTTP_CHARSET"
)

type ManifestConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type HTTPConfig struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
	Timeout  string `yaml:"timeout"`
	Retries  *int   `yaml:"retries"`
}

// ProjectConfig mirrors pgfleet.yaml.
type ProjectConfig struct {
	Manifest ManifestConfig    `yaml:"manifest"`
	HTTP     HTTPConfig        `yaml:"http"`
	Defines  map[string]string `yaml:"defines"`
	Options  []string          `yaml:"options"`
}

// Load reads pgfleet.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, pgfleet.ErrInvalidConfig)
	}
	return &cfg, nil
}

// HTTPSettings configure the HTTP content loader.
type HTTPSettings struct {
	Login    string
	Password string
	Charset  string
	Timeout  time.Duration
	Retries  int
}

// Settings is the resolved process-level configuration. It is built once
// per invocation and passed down explicitly.
type Settings struct {
	ManifestURL  string
	ManifestName string
	HTTP         HTTPSettings
	Defines      map[string]string // defines from pgfleet.yaml only
	Options      string            // comma-separated option list
	LogFormat    string
	Timeout      time.Duration
	Verbose      bool
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ManifestURL:  pgfleet.DefaultManifestURL,
		ManifestName: pgfleet.DefaultManifestName,
		HTTP: HTTPSettings{
			Login:    pgfleet.DefaultHTTPLogin,
			Password: pgfleet.DefaultHTTPPassword,
			Charset:  pgfleet.DefaultCharset,
			Timeout:  pgfleet.DefaultHTTPTimeout,
			Retries:  pgfleet.DefaultHTTPRetries,
		},
		Defines:   map[string]string{},
		LogFormat: "text",
		Timeout:   pgfleet.DefaultTimeout,
	}
}

// ApplyProject overlays the non-empty fields of p.
func (s *Settings) ApplyProject(p *ProjectConfig) error {
	if p == nil {
		return nil
	}
	setIfNotEmpty(&s.ManifestURL, p.Manifest.URL)
	setIfNotEmpty(&s.ManifestName, p.Manifest.Name)
	setIfNotEmpty(&s.HTTP.Login, p.HTTP.Login)
	setIfNotEmpty(&s.HTTP.Password, p.HTTP.Password)
	setIfNotEmpty(&s.HTTP.Charset, p.HTTP.Charset)

	if p.HTTP.Timeout != "" {
		d, err := time.ParseDuration(p.HTTP.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("http.timeout %q is not a positive duration: %w", p.HTTP.Timeout, pgfleet.ErrInvalidConfig)
		}
		s.HTTP.Timeout = d
	}
	if p.HTTP.Retries != nil {
		if *p.HTTP.Retries < 0 {
			return fmt.Errorf("http.retries %d is negative: %w", *p.HTTP.Retries, pgfleet.ErrInvalidConfig)
		}
		s.HTTP.Retries = *p.HTTP.Retries
	}
	for k, v := range p.Defines {
		s.Defines[k] = v
	}
	if len(p.Options) > 0 {
		s.Options = strings.Join(p.Options, ",")
	}
	return nil
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// Environment returns a lookup over the process environment backed by the
// .env file in dir. Process variables win over the file. A missing file is
// not an error.
func Environment(dir string) (LookupFunc, error) {
	dotenv, err := godotenv.Read(filepath.Join(dir, EnvFileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %v: %w", EnvFileName, err, pgfleet.ErrInvalidConfig)
		}
		dotenv = map[string]string{}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// ApplyEnv overlays the PGFLEET_* variables that are set and non-empty.
func (s *Settings) ApplyEnv(lookup LookupFunc) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	setIfNotEmpty(&s.ManifestURL, get(EnvManifestURL))
	setIfNotEmpty(&s.ManifestName, get(EnvManifestName))
	setIfNotEmpty(&s.HTTP.Login, get(EnvHTTPLogin))
	setIfNotEmpty(&s.HTTP.Password, get(EnvHTTPPassword))
	setIfNotEmpty(&s.HTTP.Charset, get(EnvHTTPCharset))
}

// Resolve builds settings for dir: defaults < pgfleet.yaml < .env <
// process environment. Flags are applied by the caller.
func Resolve(dir string) (Settings, error) {
	s := Default()

	project, err := Load(dir)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return Settings{}, err
	}
	if err := s.ApplyProject(project); err != nil {
		return Settings{}, err
	}

	lookup, err := Environment(dir)
	if err != nil {
		return Settings{}, err
	}
	s.ApplyEnv(lookup)
	return s, nil
}

// String renders the settings without the HTTP password.
func (s Settings) String() string {
	return fmt.Sprintf("manifest=%s/%s http.login=%s http.charset=%s http.timeout=%s http.retries=%s",
		s.ManifestURL, s.ManifestName, s.HTTP.Login, s.HTTP.Charset, s.HTTP.Timeout, strconv.Itoa(s.HTTP.Retries))
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
