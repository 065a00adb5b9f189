package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/a2ui-term/internal/app"
	"github.com/spf13/viper"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix = "A2UI_TERM_"
	envConfig = envPrefix + "CONFIG"

	DefaultBaseURL = "http://localhost:8080"
	DefaultPath    = "/form"
)

// keys lists every setting that can come from a flag, the environment or a
// config file. The environment variable is A2UI_TERM_ plus the upper-cased
// key with dashes turned into underscores.
var keys = []string{
	"base-url",
	"path",
	"width",
	"height",
	"footer",
	"verbose",
	"trace",
	"log-file",
	"timeout",
	"clear-overlay-on-navigate",
	"max-depth",
	"dump",
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// as flag, then environment, then config file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("a2ui-term", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configFile := fs.String("config", envOrDefault(env, envConfig, ""), "path to a YAML, TOML or JSON config file")
	fs.String("base-url", DefaultBaseURL, "server base URL that action endpoints are joined to")
	fs.String("path", DefaultPath, "path of the initial surface to load")
	fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool("footer", true, "show the key hint footer")
	fs.Bool("verbose", false, "show placeholders and success messages")
	fs.Bool("trace", false, "enable verbose JSON trace logging")
	fs.String("log-file", "", "path to the log file")
	fs.Duration("timeout", 15*time.Second, "HTTP request timeout")
	fs.Bool("clear-overlay-on-navigate", false, "drop local form edits when navigating to a new surface")
	fs.Int("max-depth", 64, "maximum component nesting depth")
	fs.String("dump", "", "render the surface once as yaml or table and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	fs.VisitAll(func(f *flag.Flag) {
		if f.Name != "config" {
			v.SetDefault(f.Name, f.DefValue)
		}
	})
	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	for _, key := range keys {
		if value, ok := env[envName(key)]; ok && strings.TrimSpace(value) != "" {
			v.Set(key, value)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			v.Set(f.Name, f.Value.String())
		}
	})

	width, err := intSetting(v, "width")
	if err != nil {
		return Config{}, err
	}
	height, err := intSetting(v, "height")
	if err != nil {
		return Config{}, err
	}
	maxDepth, err := intSetting(v, "max-depth")
	if err != nil {
		return Config{}, err
	}
	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("timeout: %w", err)
	}
	if width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", width)
	}
	if height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", height)
	}

	verbose := v.GetBool("verbose")
	trace := v.GetBool("trace")
	cfg := Config{
		App: app.Config{
			BaseURL:                v.GetString("base-url"),
			Path:                   v.GetString("path"),
			Width:                  width,
			Height:                 height,
			ShowFooter:             v.GetBool("footer"),
			Verbose:                verbose,
			Timeout:                timeout,
			ClearOverlayOnNavigate: v.GetBool("clear-overlay-on-navigate"),
			MaxDepth:               maxDepth,
			Dump:                   strings.ToLower(v.GetString("dump")),
		},
		Logging: Logging{
			FilePath: v.GetString("log-file"),
			Trace:    trace,
		},
		Flags: make(map[string]string, len(keys)+1),
		Args:  append([]string(nil), args...),
	}
	for _, key := range keys {
		cfg.Flags[key] = v.GetString(key)
	}
	cfg.Flags["config"] = *configFile

	return cfg, nil
}

func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer (got %q)", key, raw)
	}
	return n, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	var errs []error
	u, err := url.Parse(cfg.App.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("base-url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("base-url must use http or https (got %q)", cfg.App.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("base-url must include a host (got %q)", cfg.App.BaseURL))
	}
	if strings.TrimSpace(cfg.App.Path) == "" {
		errs = append(errs, errors.New("path must not be empty"))
	}
	if cfg.App.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max-depth must be > 0 (got %d)", cfg.App.MaxDepth))
	}
	if cfg.App.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be > 0 (got %s)", cfg.App.Timeout))
	}
	switch cfg.App.Dump {
	case "", app.DumpYAML, app.DumpTable:
	default:
		errs = append(errs, fmt.Errorf("dump must be %q or %q (got %q)", app.DumpYAML, app.DumpTable, cfg.App.Dump))
	}
	return errors.Join(errs...)
}
