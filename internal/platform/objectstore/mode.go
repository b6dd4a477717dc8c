package objectstore

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

type Config struct {
	Mode         Mode
	LocalDir     string
	Bucket       string
	EmulatorHost string
	// CompatibilityFallback is set when the mode was inferred from
	// STORAGE_EMULATOR_HOST rather than OBJECT_STORAGE_MODE.
	CompatibilityFallback bool
}

func IsSupportedMode(mode Mode) bool {
	switch mode {
	case ModeLocal, ModeGCS, ModeGCSEmulator:
		return true
	default:
		return false
	}
}

func (cfg Config) IsEmulatorMode() bool { return cfg.Mode == ModeGCSEmulator }

func (cfg Config) IsGCS() bool { return cfg.Mode == ModeGCS || cfg.Mode == ModeGCSEmulator }

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)", e.Mode, ModeLocal, ModeGCS, ModeGCSEmulator)
	case ConfigErrorMissingBucket:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires EXECUTION_GCS_BUCKET_NAME to be set", e.Mode)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.EmulatorHost)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveConfigFromEnv picks the storage backend. With no explicit mode the
// emulator is used when STORAGE_EMULATOR_HOST is set, local disk otherwise.
func ResolveConfigFromEnv() (Config, error) {
	cfg := Config{
		LocalDir:     strings.TrimSpace(os.Getenv("UPLOAD_DIR")),
		Bucket:       strings.TrimSpace(os.Getenv("EXECUTION_GCS_BUCKET_NAME")),
		EmulatorHost: strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
	}
	if cfg.LocalDir == "" {
		cfg.LocalDir = "uploads"
	}

	rawMode := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	mode := Mode(strings.ToLower(rawMode))
	switch mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ModeGCSEmulator
			cfg.CompatibilityFallback = true
		} else {
			cfg.Mode = ModeLocal
		}
	case ModeLocal, ModeGCS, ModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ConfigError{Code: ConfigErrorInvalidMode, Mode: rawMode}
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if !IsSupportedMode(cfg.Mode) {
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if cfg.Mode == ModeLocal {
		return nil
	}
	if cfg.Bucket == "" {
		return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ConfigError{
			Code:         ConfigErrorInvalidEmulatorHost,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
	}
	return nil
}
