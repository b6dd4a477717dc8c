package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

// String returns the trimmed value of name, or def when unset. The fallback is
// logged so a misconfigured deployment shows up at startup.
func String(name, def string, log *logger.Logger) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		if log != nil {
			log.Debug("Env var not set, using default", "key", name)
		}
		return def
	}
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("Invalid int env var, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
	return i
}

func Int64(name string, def int64, log *logger.Logger) int64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		if log != nil {
			log.Warn("Invalid int64 env var, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
	return i
}

func Float(name string, def float64, log *logger.Logger) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if log != nil {
			log.Warn("Invalid float env var, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
	return f
}

func Bool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// List splits a comma separated value, dropping blanks.
func List(name string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
