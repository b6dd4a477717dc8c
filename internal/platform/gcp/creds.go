package gcp

import (
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

// storageClientOptions builds the client options for the execution input
// bucket. The emulator runs unauthenticated; real GCS uses inline JSON or a
// key file from the environment, falling back to application default
// credentials when neither is set.
func storageClientOptions(cfg objectstore.Config) ([]option.ClientOption, error) {
	switch cfg.Mode {
	case objectstore.ModeGCSEmulator:
		return []option.ClientOption{option.WithoutAuthentication()}, nil
	case objectstore.ModeGCS:
		opts, err := credentialOptions()
		if err != nil {
			return nil, err
		}
		return append(opts, option.WithScopes(storage.ScopeReadWrite)), nil
	default:
		return nil, &objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}

func credentialOptions() ([]option.ClientOption, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")); inline != "" {
		if !strings.HasPrefix(inline, "{") {
			return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS_JSON is not a JSON object")
		}
		return []option.ClientOption{option.WithCredentialsJSON([]byte(inline))}, nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if file == "" {
		return nil, nil
	}
	if strings.HasPrefix(file, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(file))}, nil
	}
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS: %w", err)
	}
	return []option.ClientOption{option.WithCredentialsFile(file)}, nil
}
