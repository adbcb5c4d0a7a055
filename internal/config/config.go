// Package config loads and saves cmuxterm's process-wide runtime
// configuration: the Unix socket path, the access mode gate, the CLI
// response timeout and the Claude hook session store path (spec §6, §9
// "Global mutable state"). The load/save/atomic-write machinery is carried
// over from the teacher's internal/config almost unchanged; only the
// Config fields and their validation are cmuxterm's own.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB
	maxRenameRetry           = 10
	renameRetryBaseDelay     = 10 * time.Millisecond

	// DefaultSocketPath is the Unix-domain socket path used when neither
	// the config file nor CMUX_SOCKET_PATH override it (spec §4.6, §6).
	DefaultSocketPath = "/tmp/cmux.sock"

	// DefaultCLIResponseTimeoutSec is the CLI's read timeout in seconds
	// when CMUXTERM_CLI_RESPONSE_TIMEOUT_SEC is unset (spec §4.6).
	DefaultCLIResponseTimeoutSec = 15.0
)

// AccessMode gates which socket verbs are honored (spec §4.5, §9).
type AccessMode string

const (
	AccessOff                AccessMode = "off"
	AccessNotificationsOnly  AccessMode = "notifications_only"
	AccessFull               AccessMode = "full"
)

func (m AccessMode) valid() bool {
	switch m {
	case AccessOff, AccessNotificationsOnly, AccessFull:
		return true
	default:
		return false
	}
}

// defaultConfigDirFn and userHomeDirFn are test seams.
var defaultConfigDirFn = defaultConfigDir
var userHomeDirFn = os.UserHomeDir

// Config is cmuxterm's runtime configuration.
type Config struct {
	SocketPath            string     `yaml:"socket_path" json:"socket_path"`
	AccessMode            AccessMode `yaml:"access_mode" json:"access_mode"`
	CLIResponseTimeoutSec float64    `yaml:"cli_response_timeout_sec" json:"cli_response_timeout_sec"`
	ClaudeHookStatePath   string     `yaml:"claude_hook_state_path" json:"claude_hook_state_path"`
	MaxFrameBytes         int        `yaml:"max_frame_bytes" json:"max_frame_bytes"`
	ClientIdleTimeoutSec  float64    `yaml:"client_idle_timeout_sec" json:"client_idle_timeout_sec"`
}

// DefaultConfig returns cmuxterm's default configuration.
func DefaultConfig() Config {
	return Config{
		SocketPath:            DefaultSocketPath,
		AccessMode:            AccessFull,
		CLIResponseTimeoutSec: DefaultCLIResponseTimeoutSec,
		ClaudeHookStatePath:   defaultHookStatePath(),
		MaxFrameBytes:         1 << 20,
		ClientIdleTimeoutSec:  300,
	}
}

func defaultHookStatePath() string {
	home, err := userHomeDirFn()
	if err != nil {
		return filepath.Join(os.TempDir(), ".cmuxterm", "claude-hook-sessions.json")
	}
	return filepath.Join(home, ".cmuxterm", "claude-hook-sessions.json")
}

// DefaultPath resolves the config file path: ~/.config/cmuxterm/config.yaml,
// falling back to os.TempDir() when the home directory cannot be resolved.
func DefaultPath() string {
	home, err := userHomeDirFn()
	if err != nil {
		slog.Warn("[config] using temp dir as config path fallback", "error", err)
		return filepath.Join(os.TempDir(), "cmuxterm", "config.yaml")
	}
	return filepath.Join(home, ".config", "cmuxterm", "config.yaml")
}

// Load reads the config file. If it does not exist, defaults are returned.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("[config] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EnsureFile writes the default config if missing and returns the loaded
// config.
func EnsureFile(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save validates cfg, fills defaults, and atomically writes it to path.
// Returns the normalized config actually written to disk.
func Save(path string, cfg Config) (Config, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicWrite(normalizedPath, raw); err != nil {
		return cfg, err
	}
	slog.Debug("[config] config saved", "path", path)
	return cfg, nil
}

// atomicWrite writes data using temp-file + rename, retrying the rename to
// tolerate transient cross-filesystem or locking delays.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save config: mkdir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save config: create temp: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			if closeErr := tmpFile.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
				slog.Warn("[config] failed to close temp file", "path", tmpPath, "error", closeErr)
			}
		}
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				slog.Warn("[config] failed to remove temp file", "path", tmpPath, "error", removeErr)
			}
		}
	}()

	if err = tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("save config: chmod temp: %w", err)
	}
	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("save config: write: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("save config: sync: %w", err)
	}
	err = tmpFile.Close()
	tmpFile = nil
	if err != nil {
		return fmt.Errorf("save config: close: %w", err)
	}

	if err = renameFileWithRetry(tmpPath, path); err != nil {
		return fmt.Errorf("save config: rename: %w", err)
	}
	return nil
}

// validateConfigPath normalizes path and enforces that config writes stay
// inside the default config directory when that directory is resolvable.
func validateConfigPath(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return "", errors.New("config path required")
	}
	absolutePath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return "", fmt.Errorf("save config: resolve path: %w", err)
	}

	expectedDir, err := defaultConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	absoluteExpectedDir, err := filepath.Abs(expectedDir)
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	if !pathWithinDir(absolutePath, absoluteExpectedDir) {
		return "", fmt.Errorf("save config: path outside config directory: %q", absolutePath)
	}
	return absolutePath, nil
}

func defaultConfigDir() (string, error) {
	return filepath.Dir(DefaultPath()), nil
}

// pathWithinDir blocks directory traversal by ensuring path is under dir.
func pathWithinDir(path string, dir string) bool {
	relativePath, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if relativePath == "." {
		return true
	}
	if relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(relativePath)
}

// applyDefaultsAndValidate fills missing defaults and validates cfg in place.
func applyDefaultsAndValidate(cfg *Config) error {
	defaults := DefaultConfig()
	if isZeroConfig(*cfg) {
		*cfg = defaults
		return nil
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = defaults.SocketPath
	}
	if cfg.AccessMode == "" {
		cfg.AccessMode = defaults.AccessMode
	} else if !cfg.AccessMode.valid() {
		return fmt.Errorf("access_mode %q is not one of off, notifications_only, full", cfg.AccessMode)
	}
	if cfg.CLIResponseTimeoutSec <= 0 {
		cfg.CLIResponseTimeoutSec = defaults.CLIResponseTimeoutSec
	}
	if cfg.ClaudeHookStatePath == "" {
		cfg.ClaudeHookStatePath = defaults.ClaudeHookStatePath
	}
	if cfg.MaxFrameBytes <= 0 {
		cfg.MaxFrameBytes = defaults.MaxFrameBytes
	}
	if cfg.ClientIdleTimeoutSec <= 0 {
		cfg.ClientIdleTimeoutSec = defaults.ClientIdleTimeoutSec
	}
	return nil
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}

func isZeroConfig(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func renameFileWithRetry(sourcePath string, targetPath string) error {
	var lastErr error
	for attempt := range maxRenameRetry {
		err := os.Rename(sourcePath, targetPath)
		if err == nil {
			return nil
		}
		lastErr = err
		if runtime.GOOS != "windows" {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * renameRetryBaseDelay)
	}
	return lastErr
}
