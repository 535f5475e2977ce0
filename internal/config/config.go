package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/five82/lametric"
)

// Settings is one layer of connection settings: the config file, the
// environment or the command line. Zero values mean "not set".
type Settings struct {
	APIKey     string `toml:"api_key"`
	DeviceName string `toml:"device_name"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Scheme     string `toml:"scheme"`
	Verbose    bool   `toml:"verbose"`
}

// Resolved is what the client needs to connect.
type Resolved struct {
	APIKey     string
	Connection lametric.Connection
	Verbose    bool
}

const defaultConfigPath = "~/.config/lametric/config.toml"

var (
	ErrMissingAPIKey    = errors.New("an API key is required (--api-key or LAMETRIC_API_KEY)")
	ErrMissingTarget    = errors.New("a device name or host is required (--local-device-name or --host)")
	ErrAmbiguousTarget  = errors.New("--local-device-name and --host are mutually exclusive")
	ErrHTTPSWithoutHost = errors.New("https is only supported with --host")
)

// Load parses the config file at path, or the default location when path is
// empty. A missing file yields empty settings.
func Load(path string) (Settings, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Settings{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	var s Settings
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	return s.trimmed(), nil
}

// FromEnv reads the LAMETRIC_* variables and VERBOSE through getenv.
func FromEnv(getenv func(string) string) (Settings, error) {
	s := Settings{
		APIKey:     getenv("LAMETRIC_API_KEY"),
		DeviceName: getenv("LAMETRIC_DEVICE_NAME"),
		Host:       getenv("LAMETRIC_HOST"),
		Scheme:     getenv("LAMETRIC_SCHEME"),
		Verbose:    parseBool(getenv("VERBOSE")),
	}
	if raw := strings.TrimSpace(getenv("LAMETRIC_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("parse LAMETRIC_PORT: %w", err)
		}
		s.Port = port
	}
	return s.trimmed(), nil
}

// Merge overlays the layers in order; set fields of later layers win.
// Verbose is enabled by any layer.
func Merge(layers ...Settings) Settings {
	var out Settings
	for _, l := range layers {
		if l.APIKey != "" {
			out.APIKey = l.APIKey
		}
		if l.DeviceName != "" {
			out.DeviceName = l.DeviceName
		}
		if l.Host != "" {
			out.Host = l.Host
		}
		if l.Port != 0 {
			out.Port = l.Port
		}
		if l.Scheme != "" {
			out.Scheme = l.Scheme
		}
		out.Verbose = out.Verbose || l.Verbose
	}
	return out
}

// Resolve loads the config file and the environment, applies flags on top
// and validates the result.
func Resolve(configPath string, flags Settings, log logrus.FieldLogger) (Resolved, error) {
	file, err := Load(configPath)
	if err != nil {
		return Resolved{}, err
	}
	env, err := FromEnv(os.Getenv)
	if err != nil {
		return Resolved{}, err
	}
	merged := Merge(file, env, flags.trimmed())
	if log != nil {
		log.WithFields(logrus.Fields{
			"config":      configPath,
			"device_name": merged.DeviceName,
			"host":        merged.Host,
			"port":        merged.Port,
			"scheme":      merged.Scheme,
		}).Debug("resolved connection settings")
	}
	return Validate(merged)
}

// Validate turns merged settings into a connection target.
func Validate(s Settings) (Resolved, error) {
	if s.APIKey == "" {
		return Resolved{}, ErrMissingAPIKey
	}

	var conn lametric.Connection
	switch {
	case s.DeviceName != "" && s.Host != "":
		return Resolved{}, ErrAmbiguousTarget
	case s.DeviceName != "":
		if s.Scheme != "" {
			scheme, err := lametric.ParseScheme(s.Scheme)
			if err != nil {
				return Resolved{}, err
			}
			if scheme == lametric.SchemeHTTPS {
				return Resolved{}, ErrHTTPSWithoutHost
			}
		}
		conn = lametric.LocalConnection(s.DeviceName, s.Port)
	case s.Host != "":
		var scheme lametric.Scheme
		if s.Scheme != "" {
			parsed, err := lametric.ParseScheme(s.Scheme)
			if err != nil {
				return Resolved{}, err
			}
			scheme = parsed
		}
		conn = lametric.RemoteConnection(scheme, s.Host, s.Port)
	default:
		return Resolved{}, ErrMissingTarget
	}

	if err := conn.Validate(); err != nil {
		return Resolved{}, err
	}
	return Resolved{APIKey: s.APIKey, Connection: conn, Verbose: s.Verbose}, nil
}

func (s Settings) trimmed() Settings {
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.DeviceName = strings.TrimSpace(s.DeviceName)
	s.Host = strings.TrimSpace(s.Host)
	s.Scheme = strings.TrimSpace(s.Scheme)
	return s
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
